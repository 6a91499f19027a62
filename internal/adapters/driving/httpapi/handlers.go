package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// dateLayout is the format of the from/to query parameters.
const dateLayout = "2006-01-02"

type videoRequest struct {
	URL string `json:"url"`
}

type tagRequest struct {
	Tag string `json:"tag"`
}

type askRequest struct {
	Question string   `json:"question"`
	VideoID  string   `json:"video_id"`
	Tags     []string `json:"tags"`
}

type feedbackRequest struct {
	Text string `json:"text"`
}

// GET /healthz
func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// POST /api/videos/preview
func (s *Server) previewVideo(c *gin.Context) {
	if s.services.Ingest == nil {
		respondDomainError(c, domain.ErrEmbeddingUnavailable)
		return
	}

	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "request body must be JSON with a url field")
		return
	}

	preview, err := s.services.Ingest.Preview(c.Request.Context(), req.URL)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, PreviewResponse{
		VideoID:          preview.Metadata.VideoID,
		URL:              preview.URL,
		Title:            preview.Metadata.Title,
		Channel:          preview.Metadata.Channel,
		DurationSeconds:  preview.Metadata.DurationSeconds,
		Duration:         domain.FormatDuration(preview.Metadata.DurationSeconds),
		EstimatedSeconds: preview.EstimatedSeconds,
		Estimated:        domain.FormatDuration(preview.EstimatedSeconds),
		AlreadyProcessed: preview.AlreadyProcessed,
		TooLong:          preview.TooLong,
	})
}

// POST /api/videos
// Processes a video for the caller. Returns 201 for a new document and 200
// when an existing document was attached.
func (s *Server) ingestVideo(c *gin.Context) {
	if s.services.Ingest == nil {
		respondDomainError(c, domain.ErrEmbeddingUnavailable)
		return
	}

	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "request body must be JSON with a url field")
		return
	}

	result, err := s.services.Ingest.Ingest(c.Request.Context(), req.URL, userID(c), nil)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Reused {
		status = http.StatusOK
	}
	c.JSON(status, IngestResponse{
		Video:          toVideoResponse(result.Document),
		Reused:         result.Reused,
		ElapsedSeconds: result.Elapsed.Seconds(),
	})
}

// GET /api/videos?tags=a,b&untagged=true&from=2024-01-01&to=2024-01-31
func (s *Server) listVideos(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	filter.UserID = userID(c)

	docs, err := s.services.Library.ListVideos(c.Request.Context(), filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": toVideoResponses(docs), "count": len(docs)})
}

// parseFilter reads the listing filter from query parameters.
// The to date is inclusive of the whole day.
func parseFilter(c *gin.Context) (domain.VideoFilter, error) {
	var filter domain.VideoFilter

	if raw := c.Query("tags"); raw != "" {
		filter.Tags = splitTags(raw)
	}
	if raw := c.Query("untagged"); raw != "" {
		untagged, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: untagged must be a boolean", domain.ErrInvalidInput)
		}
		filter.NoTags = untagged
	}

	from, to := c.Query("from"), c.Query("to")
	if from != "" && to != "" {
		start, err := time.ParseInLocation(dateLayout, from, time.UTC)
		if err != nil {
			return filter, fmt.Errorf("%w: from must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		end, err := time.ParseInLocation(dateLayout, to, time.UTC)
		if err != nil {
			return filter, fmt.Errorf("%w: to must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.From, filter.To = &start, &end
	}

	return filter, nil
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// userVideo loads a video the caller has access to.
func (s *Server) userVideo(c *gin.Context) (*domain.VideoDocument, bool) {
	doc, err := s.services.Library.GetVideo(c.Request.Context(), c.Param("id"))
	if err == nil && !doc.HasUser(userID(c)) {
		err = fmt.Errorf("%w: video %s", domain.ErrNotFound, c.Param("id"))
	}
	if err != nil {
		respondDomainError(c, err)
		return nil, false
	}
	return doc, true
}

// GET /api/videos/:id
func (s *Server) getVideo(c *gin.Context) {
	doc, ok := s.userVideo(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toVideoResponse(doc))
}

// GET /api/videos/:id/transcript
func (s *Server) getTranscript(c *gin.Context) {
	doc, ok := s.userVideo(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"video_id":          doc.VideoID,
		"transcript":        doc.Transcript,
		"transcript_source": doc.TranscriptSource.String(),
	})
}

// POST /api/videos/:id/tags
func (s *Server) addTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "request body must be JSON with a tag field")
		return
	}
	if _, ok := s.userVideo(c); !ok {
		return
	}

	if err := s.services.Library.AddTag(c.Request.Context(), c.Param("id"), req.Tag); err != nil {
		respondDomainError(c, err)
		return
	}
	s.respondVideo(c)
}

// DELETE /api/videos/:id/tags/:tag
func (s *Server) removeTag(c *gin.Context) {
	if _, ok := s.userVideo(c); !ok {
		return
	}

	if err := s.services.Library.RemoveTag(c.Request.Context(), c.Param("id"), c.Param("tag")); err != nil {
		respondDomainError(c, err)
		return
	}
	s.respondVideo(c)
}

// respondVideo writes the current state of the video in the path.
func (s *Server) respondVideo(c *gin.Context) {
	doc, err := s.services.Library.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVideoResponse(doc))
}

// GET /api/tags
func (s *Server) listTags(c *gin.Context) {
	tags, err := s.services.Library.AllTags(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// POST /api/ask
// With video_id the answer comes from that video alone; otherwise from the
// caller's videos carrying any of the tags, or all of them without tags.
func (s *Server) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "request body must be JSON with a question field")
		return
	}

	var (
		answer *domain.Answer
		err    error
	)
	ctx := c.Request.Context()
	if videoID := strings.TrimSpace(req.VideoID); videoID != "" {
		answer, err = s.services.Answer.AskVideo(ctx, userID(c), videoID, req.Question)
	} else {
		answer, err = s.services.Answer.AskTags(ctx, userID(c), req.Tags, req.Question)
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	c.JSON(http.StatusOK, AnswerResponse{
		Answer:  answer.Text,
		Sources: sources,
		Blocked: answer.Blocked,
		Failed:  answer.Failed,
	})
}

// POST /api/feedback
func (s *Server) submitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", "request body must be JSON with a text field")
		return
	}

	fb, err := s.services.Feedback.Submit(c.Request.Context(), userID(c), req.Text)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": fb.ID, "created_at": fb.CreatedAt})
}
