package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Input Errors.

	// ErrInvalidURL indicates no video identifier could be extracted from a URL.
	ErrInvalidURL = errors.New("invalid video URL")

	// ErrInvalidIdentifier indicates a bare identifier is not a well-formed video id.
	ErrInvalidIdentifier = errors.New("invalid video identifier")

	// Ingestion Errors.

	// ErrVideoNotFound indicates the platform returned no item for a video id.
	ErrVideoNotFound = errors.New("video not found")

	// ErrDurationExceeded indicates a video is longer than the configured maximum.
	// Returned wrapped in a *DurationExceededError.
	ErrDurationExceeded = errors.New("video duration exceeds the allowed maximum")

	// ErrUpstream indicates a remote call failed in transport or returned an error status.
	ErrUpstream = errors.New("upstream service error")

	// ErrIngestInProgress indicates another request currently holds the claim on a video.
	ErrIngestInProgress = errors.New("ingestion already in progress")

	// ErrTagLimitExceeded indicates a video already carries the maximum number of tags.
	ErrTagLimitExceeded = errors.New("tag limit exceeded")

	// Generation Errors.

	// ErrContentBlocked indicates the generation endpoint refused on safety grounds.
	ErrContentBlocked = errors.New("content blocked by safety filter")

	// Service Availability Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question answering is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Ingestion cannot produce document vectors without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrTranscriptionUnavailable indicates the speech-to-text service is not configured.
	// Videos without captions cannot be ingested without it.
	ErrTranscriptionUnavailable = errors.New("transcription service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// DurationExceededError reports a video rejected by the maximum duration policy.
type DurationExceededError struct {
	// Actual is the video duration in seconds.
	Actual int

	// Allowed is the configured maximum in seconds.
	Allowed int
}

func (e *DurationExceededError) Error() string {
	return fmt.Sprintf("%s: %s (allowed %s)",
		ErrDurationExceeded, FormatDuration(e.Actual), FormatDuration(e.Allowed))
}

// Unwrap allows errors.Is(err, ErrDurationExceeded).
func (e *DurationExceededError) Unwrap() error {
	return ErrDurationExceeded
}

// UserMessage renders an error as a message suitable for end users.
// Infrastructure details are never exposed.
func UserMessage(err error) string {
	var durErr *DurationExceededError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &durErr):
		return fmt.Sprintf("This video is too long (%s). Videos up to %s can be processed.",
			FormatDuration(durErr.Actual), FormatDuration(durErr.Allowed))
	case errors.Is(err, ErrInvalidURL), errors.Is(err, ErrInvalidIdentifier):
		return "Please enter a valid YouTube URL."
	case errors.Is(err, ErrVideoNotFound):
		return "The video could not be found. Please check the URL."
	case errors.Is(err, ErrTagLimitExceeded):
		return fmt.Sprintf("A video can have at most %d tags.", MaxTags)
	case errors.Is(err, ErrIngestInProgress):
		return "This video is already being processed. Please try again shortly."
	case errors.Is(err, ErrContentBlocked):
		return RefusalMessage
	case errors.Is(err, ErrNotFound):
		return "The requested video is not in your library."
	case errors.Is(err, ErrInvalidInput):
		return "The request is invalid. Please check your input."
	case errors.Is(err, ErrEmbeddingUnavailable),
		errors.Is(err, ErrLLMUnavailable),
		errors.Is(err, ErrTranscriptionUnavailable):
		return "A required AI service is not configured."
	default:
		return ProcessingFailedMessage
	}
}
