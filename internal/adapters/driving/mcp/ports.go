package mcp

import (
	"github.com/custodia-labs/askontube/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingest processes new videos. Optional; ingest_video fails without it.
	Ingest driving.IngestService

	// Answer answers questions from stored transcripts.
	Answer driving.AnswerService

	// Library lists videos and serves transcripts.
	Library driving.LibraryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
