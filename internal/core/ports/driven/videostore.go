package driven

import (
	"context"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// VideoStore persists video documents.
// Implementations must enforce video id uniqueness.
type VideoStore interface {
	// FindByVideoID returns the document for a video id.
	// Returns domain.ErrNotFound when none exists.
	FindByVideoID(ctx context.Context, videoID string) (*domain.VideoDocument, error)

	// FindByVideoIDs returns the documents for the given ids.
	// Missing ids are skipped. Results follow the order of videoIDs.
	FindByVideoIDs(ctx context.Context, videoIDs []string) ([]domain.VideoDocument, error)

	// List returns the documents matching the filter,
	// most recently processed first.
	List(ctx context.Context, filter domain.VideoFilter) ([]domain.VideoDocument, error)

	// ListByTags returns documents carrying any of the tags.
	ListByTags(ctx context.Context, tags []string) ([]domain.VideoDocument, error)

	// Insert writes a complete document. The store assigns doc.ID.
	// Returns domain.ErrAlreadyExists if the video id is taken.
	Insert(ctx context.Context, doc *domain.VideoDocument) error

	// AttachUser adds the user to the document's user ids. Idempotent.
	// Returns domain.ErrNotFound when the video does not exist.
	AttachUser(ctx context.Context, videoID, userID string) error

	// AddTag adds a tag when the video has fewer than domain.MaxTags tags.
	// A tag already present is a no-op. Returns domain.ErrTagLimitExceeded
	// when the video is full, or domain.ErrNotFound.
	AddTag(ctx context.Context, videoID, tag string) error

	// RemoveTag removes a tag. An absent tag is a no-op.
	// Returns domain.ErrNotFound when the video does not exist.
	RemoveTag(ctx context.Context, videoID, tag string) error

	// DistinctTags returns every tag in use, without empty values.
	DistinctTags(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}

// FeedbackStore persists user feedback.
type FeedbackStore interface {
	// SaveFeedback writes a feedback record.
	SaveFeedback(ctx context.Context, fb *domain.Feedback) error
}
