package domain

import (
	"slices"
	"time"
)

// MaxTags is the maximum number of tags a video can carry.
const MaxTags = 3

// TranscriptSource records where a transcript came from.
type TranscriptSource string

// Transcript provenance values.
const (
	// TranscriptSourceCaption means the transcript is platform-provided captions.
	TranscriptSourceCaption TranscriptSource = "caption"

	// TranscriptSourceAudio means the transcript was produced by speech-to-text.
	TranscriptSourceAudio TranscriptSource = "audio_transcription"
)

// IsValid returns true if the source is recognised.
func (s TranscriptSource) IsValid() bool {
	return s == TranscriptSourceCaption || s == TranscriptSourceAudio
}

// String returns the string representation.
func (s TranscriptSource) String() string {
	return string(s)
}

// VideoDocument is the persisted result of ingesting one video.
// A single document is shared by every user who submitted the video.
type VideoDocument struct {
	// ID is the store-assigned identifier.
	ID string

	// VideoID is the platform identifier. Unique across the collection.
	VideoID string

	// URL is the canonical watch URL.
	URL string

	// UserIDs lists the users with access to this document.
	UserIDs []string

	// Title is the video title from platform metadata.
	Title string

	// Channel is the channel title from platform metadata.
	Channel string

	// DurationSeconds is the video length at ingestion time.
	DurationSeconds int

	// Transcript is the full caption or speech-to-text output.
	Transcript string

	// TranscriptSource records the transcript provenance. Never changes after creation.
	TranscriptSource TranscriptSource

	// TranscriptLength is the transcript length in characters.
	TranscriptLength int

	// Embedding is the mean of the per-chunk embeddings of the transcript.
	// Empty when the transcript produced no chunks.
	Embedding []float32

	// Tags are user-curated labels. At most MaxTags.
	Tags []string

	// CreatedAt is when the document was first persisted.
	CreatedAt time.Time

	// UpdatedAt is when the document was last mutated.
	UpdatedAt time.Time

	// ProcessedAt is when ingestion finished.
	ProcessedAt time.Time
}

// HasUser reports whether the user has access to the document.
func (d *VideoDocument) HasUser(userID string) bool {
	return slices.Contains(d.UserIDs, userID)
}

// HasTag reports whether the document carries the tag.
func (d *VideoDocument) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// HasEmbedding reports whether the document has a usable embedding.
func (d *VideoDocument) HasEmbedding() bool {
	return len(d.Embedding) > 0
}

// VideoMetadata is the descriptive information reported by the video platform.
type VideoMetadata struct {
	VideoID         string
	Title           string
	Channel         string
	DurationSeconds int
}

// VideoFilter narrows a user's video listing.
type VideoFilter struct {
	// UserID restricts results to videos the user has access to. Required.
	UserID string

	// Tags matches videos carrying any of the tags.
	Tags []string

	// NoTags matches only videos without tags. Takes precedence over Tags.
	NoTags bool

	// From and To bound ProcessedAt inclusively.
	// The range only applies when both are set.
	From *time.Time
	To   *time.Time
}

// HasDateRange reports whether the processed_at range applies.
func (f VideoFilter) HasDateRange() bool {
	return f.From != nil && f.To != nil
}

// Matches reports whether a document satisfies the filter.
// Stores that cannot express the filter natively use it directly.
func (f VideoFilter) Matches(doc *VideoDocument) bool {
	if f.UserID != "" && !doc.HasUser(f.UserID) {
		return false
	}

	if f.NoTags {
		if len(doc.Tags) > 0 {
			return false
		}
	} else if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, doc.HasTag) {
		return false
	}

	if f.HasDateRange() {
		if doc.ProcessedAt.Before(*f.From) || doc.ProcessedAt.After(*f.To) {
			return false
		}
	}

	return true
}

// VideoPreview describes a video before ingestion.
type VideoPreview struct {
	Metadata VideoMetadata

	// URL is the canonical watch URL.
	URL string

	// EstimatedSeconds is the approximate processing time.
	EstimatedSeconds int

	// AlreadyProcessed is true when a document already exists for the video.
	AlreadyProcessed bool

	// TooLong is true when the video exceeds the configured maximum duration.
	TooLong bool
}

// IngestResult is returned by a successful ingestion.
type IngestResult struct {
	Document *VideoDocument

	// Reused is true when an existing document was attached to the user.
	Reused bool

	// Elapsed is the wall time spent on the request.
	Elapsed time.Duration
}

// Answer is the outcome of a question. Text is always displayable.
type Answer struct {
	Text string

	// Sources are the video ids used as grounding context.
	Sources []string

	// Blocked is true when the generation endpoint refused the prompt.
	Blocked bool

	// Failed is true when generation failed and Text is a failure message.
	Failed bool
}
