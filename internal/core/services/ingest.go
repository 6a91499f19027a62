package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/core/ports/driving"
	"github.com/custodia-labs/askontube/internal/logger"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.IngestService = (*IngestOrchestrator)(nil)

// Approximate progress reported on entering each state.
const (
	progressCheckExisting = 5
	progressMetadata      = 10
	progressCaptions      = 20
	progressDownload      = 30
	progressTranscribe    = 45
	progressEmbed         = 90
	progressDone          = 100
)

// documentEmbedder produces one vector per transcript.
type documentEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// IngestOrchestrator runs the ingestion pipeline:
//
//	CHECK_EXISTING -> FETCH_METADATA -> VALIDATE_DURATION -> FETCH_CAPTIONS
//	  -> [AUDIO_DOWNLOAD -> TRANSCRIBE] -> EMBED -> PERSIST -> DONE
//
// Any step may end the run in FAILED. A video is processed at most once:
// later requests attach the user to the stored document.
type IngestOrchestrator struct {
	store       driven.VideoStore
	metadata    driven.MetadataFetcher
	captions    driven.CaptionFetcher
	audio       driven.AudioDownloader
	transcriber driven.TranscriptionService
	embedder    documentEmbedder
	lock        driven.IngestLock

	maxDuration int
	lockTTL     time.Duration
	now         func() time.Time
}

// NewIngestOrchestrator creates a new ingestion orchestrator.
// The audio and transcriber parameters are optional (can be nil); without
// them videos that have no captions fail with ErrTranscriptionUnavailable.
func NewIngestOrchestrator(
	store driven.VideoStore,
	metadata driven.MetadataFetcher,
	captions driven.CaptionFetcher,
	audio driven.AudioDownloader,
	transcriber driven.TranscriptionService,
	embedder *ChunkedEmbedder,
	maxDuration int,
) *IngestOrchestrator {
	if maxDuration <= 0 {
		maxDuration = domain.DefaultMaxVideoDuration
	}
	o := &IngestOrchestrator{
		store:       store,
		metadata:    metadata,
		captions:    captions,
		audio:       audio,
		transcriber: transcriber,
		maxDuration: maxDuration,
		lockTTL:     domain.DefaultIngestLockTTL,
		now:         time.Now,
	}
	if embedder != nil {
		o.embedder = embedder
	}
	return o
}

// SetIngestLock guards each run with a per-video claim held for ttl.
func (o *IngestOrchestrator) SetIngestLock(lock driven.IngestLock, ttl time.Duration) {
	o.lock = lock
	if ttl > 0 {
		o.lockTTL = ttl
	}
}

// progressReporter emits monotonically increasing progress updates.
type progressReporter struct {
	fn      domain.ProgressFunc
	percent int
	videoID string
}

func (p *progressReporter) report(state domain.IngestState, percent int, message string) {
	if percent < p.percent {
		percent = p.percent
	}
	p.percent = percent
	logger.Debug("[%s] %s (%d%%): %s", p.videoID, state, percent, message)
	if p.fn != nil {
		p.fn(domain.Progress{State: state, Percent: percent, Message: message})
	}
}

func (p *progressReporter) fail(err error) {
	p.report(domain.IngestStateFailed, p.percent, domain.UserMessage(err))
}

// Ingest ensures the video is processed and the user has access to it.
//
//nolint:gocyclo // Pipeline function with necessary sequential steps
func (o *IngestOrchestrator) Ingest(
	ctx context.Context, input, userID string, progress domain.ProgressFunc,
) (*domain.IngestResult, error) {
	start := o.now()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	canonicalURL, videoID, err := domain.ResolveVideoInput(input)
	if err != nil {
		return nil, err
	}

	logger.Section("Ingestion")
	logger.Debug("Video: %s (%s) for user %s", videoID, canonicalURL, userID)

	run := &progressReporter{fn: progress, videoID: videoID}

	if o.lock != nil {
		release, acquired, err := o.lock.Acquire(ctx, "ingest:"+videoID, o.lockTTL)
		if err != nil {
			run.fail(err)
			return nil, fmt.Errorf("claim video %s: %w", videoID, err)
		}
		if !acquired {
			run.fail(domain.ErrIngestInProgress)
			return nil, fmt.Errorf("%w: %s", domain.ErrIngestInProgress, videoID)
		}
		defer release()
	}

	// CHECK_EXISTING
	run.report(domain.IngestStateCheckExisting, progressCheckExisting, "Checking library")
	existing, err := o.store.FindByVideoID(ctx, videoID)
	switch {
	case err == nil:
		logger.Info("Video %s already processed, attaching user", videoID)
		return o.attach(ctx, existing, userID, start, run)
	case !errors.Is(err, domain.ErrNotFound):
		run.fail(err)
		return nil, fmt.Errorf("check existing video: %w", err)
	}

	// FETCH_METADATA
	run.report(domain.IngestStateFetchMetadata, progressMetadata, "Fetching video information")
	meta, err := o.metadata.FetchMetadata(ctx, videoID)
	if err != nil {
		run.fail(err)
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	logger.Debug("Metadata: %q by %q, %ds", meta.Title, meta.Channel, meta.DurationSeconds)

	// VALIDATE_DURATION
	run.report(domain.IngestStateValidateDuration, progressMetadata, "Checking video length")
	if meta.DurationSeconds > o.maxDuration {
		err := &domain.DurationExceededError{Actual: meta.DurationSeconds, Allowed: o.maxDuration}
		run.fail(err)
		return nil, err
	}

	// FETCH_CAPTIONS
	run.report(domain.IngestStateFetchCaptions, progressMetadata, "Looking for captions")
	transcript, source, err := o.transcript(ctx, canonicalURL, videoID, run)
	if err != nil {
		run.fail(err)
		return nil, err
	}

	// EMBED
	run.report(domain.IngestStateEmbed, progressEmbed, "Embedding transcript")
	if o.embedder == nil {
		run.fail(domain.ErrEmbeddingUnavailable)
		return nil, domain.ErrEmbeddingUnavailable
	}
	embedding, err := o.embedder.Embed(ctx, transcript)
	if err != nil {
		run.fail(err)
		return nil, fmt.Errorf("embed transcript: %w", err)
	}
	if len(embedding) == 0 {
		logger.Warn("Video %s produced no usable embedding", videoID)
	}

	// PERSIST
	run.report(domain.IngestStatePersist, progressEmbed, "Saving")
	now := o.now().UTC()
	doc := &domain.VideoDocument{
		VideoID:          videoID,
		URL:              canonicalURL,
		UserIDs:          []string{userID},
		Title:            meta.Title,
		Channel:          meta.Channel,
		DurationSeconds:  meta.DurationSeconds,
		Transcript:       transcript,
		TranscriptSource: source,
		TranscriptLength: len([]rune(transcript)),
		Embedding:        embedding,
		Tags:             []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
		ProcessedAt:      now,
	}

	if err := o.store.Insert(ctx, doc); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			run.fail(err)
			return nil, fmt.Errorf("save video: %w", err)
		}

		// A concurrent request stored the video first.
		logger.Info("Video %s stored concurrently, attaching user", videoID)
		winner, findErr := o.store.FindByVideoID(ctx, videoID)
		if findErr != nil {
			run.fail(findErr)
			return nil, fmt.Errorf("load concurrently stored video: %w", findErr)
		}
		return o.attach(ctx, winner, userID, start, run)
	}

	run.report(domain.IngestStateDone, progressDone, "Saved")
	logger.Info("Video %s processed from %s in %s", videoID, source, o.now().Sub(start))

	return &domain.IngestResult{
		Document: doc,
		Elapsed:  o.now().Sub(start),
	}, nil
}

// transcript prefers captions and falls back to audio transcription.
func (o *IngestOrchestrator) transcript(
	ctx context.Context, canonicalURL, videoID string, run *progressReporter,
) (string, domain.TranscriptSource, error) {
	result := o.captions.FetchCaptions(ctx, videoID)
	if result.Usable() {
		run.report(domain.IngestStateFetchCaptions, progressCaptions, "Captions downloaded")
		logger.Debug("Using %s captions (%d chars)", result.Language, len(result.Text))
		return result.Text, domain.TranscriptSourceCaption, nil
	}

	if result.Status == domain.CaptionTransportError {
		logger.Warn("Caption lookup for %s failed, falling back to audio: %v", videoID, result.Err)
	}
	run.report(domain.IngestStateFetchCaptions, progressCaptions, "No captions, transcribing audio")

	text, err := o.transcribeAudio(ctx, canonicalURL, videoID, run)
	if err != nil {
		return "", "", err
	}
	return text, domain.TranscriptSourceAudio, nil
}

// transcribeAudio downloads the audio track and transcribes it.
// The audio file is removed on every path once downloaded.
func (o *IngestOrchestrator) transcribeAudio(
	ctx context.Context, canonicalURL, videoID string, run *progressReporter,
) (string, error) {
	if o.audio == nil || o.transcriber == nil {
		return "", domain.ErrTranscriptionUnavailable
	}

	// AUDIO_DOWNLOAD
	run.report(domain.IngestStateAudioDownload, progressDownload, "Downloading audio")
	path, cleanup, err := o.audio.DownloadAudio(ctx, canonicalURL, videoID)
	if err != nil {
		return "", fmt.Errorf("download audio: %w", err)
	}
	defer cleanup()

	// TRANSCRIBE
	run.report(domain.IngestStateTranscribe, progressTranscribe, "Transcribing audio")
	text, err := o.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return text, nil
}

// attach grants the user access to an existing document.
func (o *IngestOrchestrator) attach(
	ctx context.Context, doc *domain.VideoDocument, userID string, start time.Time, run *progressReporter,
) (*domain.IngestResult, error) {
	if !doc.HasUser(userID) {
		if err := o.store.AttachUser(ctx, doc.VideoID, userID); err != nil {
			run.fail(err)
			return nil, fmt.Errorf("attach user: %w", err)
		}
		doc.UserIDs = append(doc.UserIDs, userID)
	}

	run.report(domain.IngestStateDone, progressDone, "Already processed")

	return &domain.IngestResult{
		Document: doc,
		Reused:   true,
		Elapsed:  o.now().Sub(start),
	}, nil
}

// Preview returns metadata and a processing estimate without ingesting.
func (o *IngestOrchestrator) Preview(ctx context.Context, input string) (*domain.VideoPreview, error) {
	canonicalURL, videoID, err := domain.ResolveVideoInput(input)
	if err != nil {
		return nil, err
	}

	preview := &domain.VideoPreview{URL: canonicalURL}

	existing, err := o.store.FindByVideoID(ctx, videoID)
	switch {
	case err == nil:
		preview.AlreadyProcessed = true
		preview.Metadata = domain.VideoMetadata{
			VideoID:         existing.VideoID,
			Title:           existing.Title,
			Channel:         existing.Channel,
			DurationSeconds: existing.DurationSeconds,
		}
		return preview, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check existing video: %w", err)
	}

	meta, err := o.metadata.FetchMetadata(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}

	preview.Metadata = *meta
	preview.EstimatedSeconds = domain.EstimateProcessingSeconds(meta.DurationSeconds)
	preview.TooLong = meta.DurationSeconds > o.maxDuration
	return preview, nil
}
