package driving

import (
	"context"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// LibraryService browses and curates stored videos.
type LibraryService interface {
	// ListVideos returns the user's videos, most recently processed first.
	ListVideos(ctx context.Context, filter domain.VideoFilter) ([]domain.VideoDocument, error)

	// GetVideo returns a single video document.
	GetVideo(ctx context.Context, videoID string) (*domain.VideoDocument, error)

	// GetVideos returns the documents for the given ids, skipping unknown ids.
	GetVideos(ctx context.Context, videoIDs []string) ([]domain.VideoDocument, error)

	// Transcript returns the full transcript of a video.
	Transcript(ctx context.Context, videoID string) (string, error)

	// AddTag adds a tag. Adding a present tag is a no-op.
	AddTag(ctx context.Context, videoID, tag string) error

	// RemoveTag removes a tag. Removing an absent tag is a no-op.
	RemoveTag(ctx context.Context, videoID, tag string) error

	// AllTags returns every tag in use, sorted.
	AllTags(ctx context.Context) ([]string, error)

	// VideosByTags returns videos carrying any of the tags.
	VideosByTags(ctx context.Context, tags []string) ([]domain.VideoDocument, error)
}
