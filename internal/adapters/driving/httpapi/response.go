package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/logger"
)

// APIError is the body of an error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps every error response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: message, Code: code}})
}

// respondDomainError maps a service error onto a status code and user message.
func respondDomainError(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Errorw("request failed", "path", c.FullPath(), "error", err)
	}
	respondError(c, status, code, domain.UserMessage(err))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrDurationExceeded):
		return http.StatusUnprocessableEntity, "duration_exceeded"
	case errors.Is(err, domain.ErrInvalidURL), errors.Is(err, domain.ErrInvalidIdentifier):
		return http.StatusBadRequest, "invalid_url"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrVideoNotFound):
		return http.StatusNotFound, "video_not_found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrTagLimitExceeded):
		return http.StatusConflict, "tag_limit_exceeded"
	case errors.Is(err, domain.ErrIngestInProgress):
		return http.StatusConflict, "ingest_in_progress"
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrTranscriptionUnavailable):
		return http.StatusServiceUnavailable, "service_unavailable"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// VideoResponse is the JSON shape of a stored video.
type VideoResponse struct {
	VideoID          string    `json:"video_id"`
	URL              string    `json:"url"`
	Title            string    `json:"title"`
	Channel          string    `json:"channel"`
	DurationSeconds  int       `json:"duration_seconds"`
	Duration         string    `json:"duration"`
	TranscriptSource string    `json:"transcript_source"`
	TranscriptLength int       `json:"transcript_length"`
	Tags             []string  `json:"tags"`
	ProcessedAt      time.Time `json:"processed_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toVideoResponse(doc *domain.VideoDocument) VideoResponse {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	return VideoResponse{
		VideoID:          doc.VideoID,
		URL:              doc.URL,
		Title:            doc.Title,
		Channel:          doc.Channel,
		DurationSeconds:  doc.DurationSeconds,
		Duration:         domain.FormatDuration(doc.DurationSeconds),
		TranscriptSource: doc.TranscriptSource.String(),
		TranscriptLength: doc.TranscriptLength,
		Tags:             tags,
		ProcessedAt:      doc.ProcessedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

func toVideoResponses(docs []domain.VideoDocument) []VideoResponse {
	out := make([]VideoResponse, len(docs))
	for i := range docs {
		out[i] = toVideoResponse(&docs[i])
	}
	return out
}

// PreviewResponse is the JSON shape of a video preview.
type PreviewResponse struct {
	VideoID          string `json:"video_id"`
	URL              string `json:"url"`
	Title            string `json:"title"`
	Channel          string `json:"channel"`
	DurationSeconds  int    `json:"duration_seconds"`
	Duration         string `json:"duration"`
	EstimatedSeconds int    `json:"estimated_seconds"`
	Estimated        string `json:"estimated"`
	AlreadyProcessed bool   `json:"already_processed"`
	TooLong          bool   `json:"too_long"`
}

// IngestResponse is the JSON shape of an ingestion result.
type IngestResponse struct {
	Video          VideoResponse `json:"video"`
	Reused         bool          `json:"reused"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
}

// AnswerResponse is the JSON shape of an answer.
type AnswerResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Blocked bool     `json:"blocked"`
	Failed  bool     `json:"failed"`
}
