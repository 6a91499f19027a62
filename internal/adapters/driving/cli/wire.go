package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/askontube/internal/adapters/driven/ai"
	"github.com/custodia-labs/askontube/internal/adapters/driven/audio/ytdlp"
	"github.com/custodia-labs/askontube/internal/adapters/driven/config/file"
	memorylock "github.com/custodia-labs/askontube/internal/adapters/driven/lock/memory"
	redislock "github.com/custodia-labs/askontube/internal/adapters/driven/lock/redis"
	"github.com/custodia-labs/askontube/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askontube/internal/adapters/driven/storage/mongo"
	"github.com/custodia-labs/askontube/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askontube/internal/adapters/driven/youtube"
	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/core/services"
	"github.com/custodia-labs/askontube/internal/logger"
	"github.com/custodia-labs/askontube/internal/postprocessors/chunker"
)

// wireServices builds every adapter and service from the settings and
// assigns the package-level services. The returned function releases the
// store, lock and AI clients.
func wireServices(ctx context.Context) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	logger.Section("Configuration")
	if err := file.LoadDotEnv(configDir); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	configStore.BindEnv(file.DefaultEnvBindings())
	logger.Debug("config file: %s", configStore.Path())

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger.Section("Storage")
	videos, feedback, closeStore, err := openStore(ctx, settings.Storage)
	if err != nil {
		return nil, err
	}
	closers = append(closers, closeStore)

	logger.Section("AI services")
	aiServices := ai.Init(ctx, settings)
	closers = append(closers, aiServices.Close)

	answerSvc := services.NewAnswerService(videos, aiServices.LLMService)
	if prompts, err := file.NewPromptStore(promptDir()); err == nil {
		answerSvc.SetPromptStore(prompts)
	}

	logger.Section("Ingestion")
	ingestSvc, closeLock, err := buildIngest(ctx, settings, videos, aiServices)
	if err != nil {
		cleanup()
		return nil, err
	}
	closers = append(closers, closeLock)

	settingsService = settingsSvc
	answerService = answerSvc
	libraryService = services.NewLibraryService(videos)
	feedbackService = services.NewFeedbackService(feedback)
	if ingestSvc != nil {
		ingestService = ingestSvc
	}

	return cleanup, nil
}

func promptDir() string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "prompts")
}

// openStore opens the configured document store.
func openStore(
	ctx context.Context,
	cfg domain.StorageSettings,
) (driven.VideoStore, driven.FeedbackStore, func(), error) {
	switch cfg.Backend {
	case domain.StorageMongo:
		store, err := mongo.NewStore(ctx, mongo.Config{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening mongo store: %w", err)
		}
		logger.Debug("storage: mongo database %s", cfg.MongoDatabase)
		return store, store, closeLogged("mongo store", store.Close), nil

	case domain.StorageMemory:
		logger.Warn("storage: in-memory store, videos are lost on exit")
		store := memory.NewVideoStore()
		return store, store, func() {}, nil

	default:
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.Debug("storage: sqlite at %s", store.Path())
		return store.VideoStore(), store.FeedbackStore(), closeLogged("sqlite store", store.Close), nil
	}
}

// buildIngest assembles the ingestion orchestrator. A nil service with a
// nil error means ingestion is unavailable; the reason has been logged.
func buildIngest(
	ctx context.Context,
	settings *domain.Settings,
	videos driven.VideoStore,
	aiServices *ai.InitResult,
) (*services.IngestOrchestrator, func(), error) {
	noop := func() {}

	if aiServices.Tokenizer == nil {
		logger.Warn("ingestion disabled: no tokenizer for %s", settings.Embedding.Model)
		return nil, noop, nil
	}

	client, err := youtube.NewClient(ctx, youtube.ConfigFromSettings(settings.YouTube, settings.CaptionLanguages))
	if err != nil {
		logger.Warn("ingestion disabled: %v", err)
		return nil, noop, nil
	}

	var audio driven.AudioDownloader
	downloader, err := ytdlp.New(ytdlp.Config{
		YtDlpPath:   settings.Audio.YtDlpPath,
		TempDir:     settings.Audio.TempDir,
		CookiesFile: settings.Audio.CookiesFile,
	})
	if err != nil {
		logger.Warn("audio fallback disabled: %v", err)
	} else {
		audio = downloader
	}

	chunks := chunker.New(aiServices.Tokenizer, chunker.WithMaxTokens(settings.Embedding.MaxChunkTokens))
	embedder := services.NewChunkedEmbedder(chunks, aiServices.EmbeddingService)

	orchestrator := services.NewIngestOrchestrator(
		videos,
		client,
		client,
		audio,
		aiServices.Transcriber,
		embedder,
		settings.MaxVideoDuration,
	)

	lock, closeLock, err := openLock(ctx, settings.Lock)
	if err != nil {
		return nil, noop, err
	}
	if lock != nil {
		orchestrator.SetIngestLock(lock, settings.Lock.TTL)
	}

	return orchestrator, closeLock, nil
}

// openLock opens the configured ingestion claim backend.
func openLock(ctx context.Context, cfg domain.LockSettings) (driven.IngestLock, func(), error) {
	switch cfg.Backend {
	case domain.LockRedis:
		lock, err := redislock.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("opening ingest lock: %w", err)
		}
		return lock, closeLogged("redis lock", lock.Close), nil

	case domain.LockMemory:
		return memorylock.New(), func() {}, nil

	default:
		logger.Debug("ingest lock disabled")
		return nil, func() {}, nil
	}
}

func closeLogged(name string, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			logger.Warnw("close failed", "resource", name, "error", err)
		}
	}
}
