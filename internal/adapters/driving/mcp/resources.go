package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for askontube resources.
	uriScheme = "askontube://"

	transcriptSuffix = "/transcript"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "videos/{videoId}/transcript",
		Name:        "video-transcript",
		Description: "Full transcript of a processed video",
		MIMEType:    "text/plain",
	}, s.handleTranscriptResource)
}

// handleTranscriptResource returns the transcript of a stored video.
func (s *Server) handleTranscriptResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	videoID := extractVideoID(req.Params.URI)
	if videoID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	transcript, err := s.ports.Library.Transcript(ctx, videoID)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting transcript: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     transcript,
		}},
	}, nil
}

// transcriptURI builds the resource URI for a video's transcript.
func transcriptURI(videoID string) string {
	return uriScheme + "videos/" + videoID + transcriptSuffix
}

// extractVideoID extracts the video ID from a URI like askontube://videos/{videoId}/transcript.
func extractVideoID(uri string) string {
	const prefix = uriScheme + "videos/"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, transcriptSuffix) {
		return ""
	}

	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), transcriptSuffix)
	if !domain.IsVideoID(id) {
		return ""
	}
	return id
}
