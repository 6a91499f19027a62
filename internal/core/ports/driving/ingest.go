package driving

import (
	"context"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// IngestService turns video references into stored documents.
type IngestService interface {
	// Ingest ensures the video is processed and the user has access to it.
	// Input may be any supported URL shape or a bare video id. An existing
	// document is reused without re-fetching anything.
	Ingest(ctx context.Context, input, userID string, progress domain.ProgressFunc) (*domain.IngestResult, error)

	// Preview returns metadata and a processing estimate without ingesting.
	Preview(ctx context.Context, input string) (*domain.VideoPreview, error)
}
