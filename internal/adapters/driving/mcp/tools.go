package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/logger"
)

// IngestInput is the input schema for the ingest_video tool.
type IngestInput struct {
	URL    string `json:"url" jsonschema:"YouTube URL or 11-character video id"`
	UserID string `json:"user_id" jsonschema:"user who will have access to the video"`
}

// IngestOutput is the output schema for the ingest_video tool.
type IngestOutput struct {
	Video  VideoOutput `json:"video"`
	Reused bool        `json:"reused"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string   `json:"question" jsonschema:"the question to answer"`
	UserID   string   `json:"user_id" jsonschema:"user whose library is searched"`
	VideoID  string   `json:"video_id,omitempty" jsonschema:"answer from this single video"`
	Tags     []string `json:"tags,omitempty" jsonschema:"answer from videos carrying any of these tags"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Blocked bool     `json:"blocked,omitempty"`
	Failed  bool     `json:"failed,omitempty"`
}

// ListVideosInput is the input schema for the list_videos tool.
type ListVideosInput struct {
	UserID   string   `json:"user_id" jsonschema:"user whose videos are listed"`
	Tags     []string `json:"tags,omitempty" jsonschema:"only videos carrying any of these tags"`
	Untagged bool     `json:"untagged,omitempty" jsonschema:"only videos without tags"`
}

// ListVideosOutput is the output schema for the list_videos tool.
type ListVideosOutput struct {
	Videos []VideoOutput `json:"videos"`
	Count  int           `json:"count"`
}

// VideoOutput summarises a stored video.
type VideoOutput struct {
	VideoID          string    `json:"video_id"`
	URL              string    `json:"url"`
	Title            string    `json:"title"`
	Channel          string    `json:"channel"`
	Duration         string    `json:"duration"`
	TranscriptSource string    `json:"transcript_source"`
	Tags             []string  `json:"tags"`
	ProcessedAt      time.Time `json:"processed_at"`
	TranscriptURI    string    `json:"transcript_uri"`
}

func videoOutput(doc *domain.VideoDocument) VideoOutput {
	return VideoOutput{
		VideoID:          doc.VideoID,
		URL:              doc.URL,
		Title:            doc.Title,
		Channel:          doc.Channel,
		Duration:         domain.FormatDuration(doc.DurationSeconds),
		TranscriptSource: doc.TranscriptSource.String(),
		Tags:             doc.Tags,
		ProcessedAt:      doc.ProcessedAt,
		TranscriptURI:    transcriptURI(doc.VideoID),
	}
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_video",
		Description: "Process a YouTube video so questions can be asked about it",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the transcripts of the user's videos",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_videos",
		Description: "List the user's processed videos, most recent first",
	}, s.handleListVideos)
}

// handleIngest handles the ingest_video tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, ErrIngestDisabled
	}

	result, err := s.ports.Ingest.Ingest(ctx, input.URL, input.UserID, nil)
	if err != nil {
		logger.Warn("mcp: ingest %q failed: %v", input.URL, err)
		return nil, IngestOutput{}, toolError(err)
	}

	return nil, IngestOutput{
		Video:  videoOutput(result.Document),
		Reused: result.Reused,
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	var (
		answer *domain.Answer
		err    error
	)
	if videoID := strings.TrimSpace(input.VideoID); videoID != "" {
		answer, err = s.ports.Answer.AskVideo(ctx, input.UserID, videoID, input.Question)
	} else {
		answer, err = s.ports.Answer.AskTags(ctx, input.UserID, input.Tags, input.Question)
	}
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, AskOutput{
		Answer:  answer.Text,
		Sources: sources,
		Blocked: answer.Blocked,
		Failed:  answer.Failed,
	}, nil
}

// handleListVideos handles the list_videos tool invocation.
func (s *Server) handleListVideos(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListVideosInput,
) (*mcp.CallToolResult, ListVideosOutput, error) {
	docs, err := s.ports.Library.ListVideos(ctx, domain.VideoFilter{
		UserID: input.UserID,
		Tags:   input.Tags,
		NoTags: input.Untagged,
	})
	if err != nil {
		return nil, ListVideosOutput{}, toolError(err)
	}

	output := ListVideosOutput{
		Videos: make([]VideoOutput, len(docs)),
		Count:  len(docs),
	}
	for i := range docs {
		output.Videos[i] = videoOutput(&docs[i])
	}
	return nil, output, nil
}
