package mcp

import (
	"errors"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

var (
	// ErrMissingLibraryService is returned when the library service is not provided.
	ErrMissingLibraryService = errors.New("mcp: library service is required")

	// ErrMissingAnswerService is returned when the answer service is not provided.
	ErrMissingAnswerService = errors.New("mcp: answer service is required")

	// ErrIngestDisabled is returned by ingest_video when no ingest service is wired.
	ErrIngestDisabled = errors.New("mcp: ingestion is not available")
)

// userError renders the user-facing message while keeping the cause for errors.Is.
type userError struct {
	err error
}

func (e *userError) Error() string {
	return domain.UserMessage(e.err)
}

func (e *userError) Unwrap() error {
	return e.err
}

func toolError(err error) error {
	if err == nil {
		return nil
	}
	return &userError{err: err}
}
