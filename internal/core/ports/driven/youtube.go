package driven

import (
	"context"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// MetadataFetcher reads video metadata from the video platform.
type MetadataFetcher interface {
	// FetchMetadata returns the title, channel and duration of a video.
	// Returns domain.ErrVideoNotFound when the platform has no such video
	// and wraps domain.ErrUpstream on transport failure. It never rejects
	// on duration.
	FetchMetadata(ctx context.Context, videoID string) (*domain.VideoMetadata, error)
}

// CaptionFetcher retrieves platform captions.
type CaptionFetcher interface {
	// FetchCaptions selects a track by language preference and downloads it.
	// Failures are reported in the result, never as a panic or error return.
	FetchCaptions(ctx context.Context, videoID string) domain.CaptionResult
}

// AudioDownloader fetches the best available audio stream of a video.
type AudioDownloader interface {
	// DownloadAudio writes the audio to a local file and returns its path
	// with a cleanup func that removes everything the download created.
	// The caller must call cleanup once it is done with the file. On error
	// nothing is left behind and cleanup is nil.
	DownloadAudio(ctx context.Context, videoURL, videoID string) (path string, cleanup func(), err error)
}

// TranscriptionService converts a local audio file to text.
type TranscriptionService interface {
	// Transcribe returns the full text spoken in the audio file.
	Transcribe(ctx context.Context, audioPath string) (string, error)

	// ModelName returns the transcription model name.
	ModelName() string
}
