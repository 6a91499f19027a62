package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// Defaults applied when no configuration is present.
const (
	// DefaultMaxVideoDuration is the longest video accepted for ingestion, in seconds.
	DefaultMaxVideoDuration = 1200

	// DefaultMaxChunkTokens bounds each embedding chunk.
	DefaultMaxChunkTokens = 8000

	// DefaultEmbeddingModel is the embedding model used when none is configured.
	DefaultEmbeddingModel = "text-embedding-ada-002"

	// DefaultLLMModel is the generation model used when none is configured.
	DefaultLLMModel = "gemini-1.5-pro-latest"

	// DefaultTranscriptionModel is the speech-to-text model.
	DefaultTranscriptionModel = "whisper-1"

	// DefaultIngestLockTTL bounds how long a video claim is held.
	DefaultIngestLockTTL = 30 * time.Minute

	// DefaultServerAddr is the REST API listen address.
	DefaultServerAddr = ":8080"

	// DefaultMongoDatabase is the database used by the mongo store.
	DefaultMongoDatabase = "youtube_transcripts"
)

// DefaultCaptionLanguages is the caption language preference order.
func DefaultCaptionLanguages() []string {
	return []string{"ko", "en"}
}

// AIProvider identifies an AI service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// StorageBackend selects the document store.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageMongo  StorageBackend = "mongo"
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMongo || b == StorageMemory
}

// LockBackend selects the ingestion claim implementation.
type LockBackend string

// Available lock backends.
const (
	LockNone   LockBackend = "none"
	LockMemory LockBackend = "memory"
	LockRedis  LockBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b LockBackend) IsValid() bool {
	return b == LockNone || b == LockMemory || b == LockRedis
}

// YouTubeSettings holds video platform API configuration.
type YouTubeSettings struct {
	// APIKey authenticates metadata and caption listing requests.
	APIKey string

	// OAuth client and refresh token. Caption downloads require OAuth
	// for most videos; without a refresh token only the API key is used.
	ClientID     string
	ClientSecret string
	RefreshToken string

	// RequestsPerSecond throttles API calls. Zero uses the adapter default.
	RequestsPerSecond float64
}

// AudioSettings holds audio download configuration.
type AudioSettings struct {
	// YtDlpPath is the yt-dlp binary. Defaults to "yt-dlp" on PATH.
	YtDlpPath string

	// TempDir holds downloaded audio until transcription finishes.
	TempDir string

	// CookiesFile is a Netscape cookie jar handed to yt-dlp for videos
	// that need a signed-in session. Optional.
	CookiesFile string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// MaxChunkTokens bounds each chunk sent to the embedding endpoint.
	MaxChunkTokens int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if e.Provider != AIProviderOllama && e.Provider != AIProviderOpenAI {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// TranscriptionSettings holds speech-to-text configuration.
type TranscriptionSettings struct {
	// Model is the transcription model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key.
	APIKey string
}

// IsConfigured returns true if transcription is set up.
func (t TranscriptionSettings) IsConfigured() bool {
	return t.APIKey != ""
}

// StorageSettings holds document store configuration.
type StorageSettings struct {
	Backend StorageBackend

	// MongoURI is the connection string for the mongo backend.
	MongoURI string

	// MongoDatabase is the database name for the mongo backend.
	MongoDatabase string
}

// LockSettings holds ingestion claim configuration.
type LockSettings struct {
	Backend LockBackend

	// RedisURL is the connection URL for the redis backend.
	RedisURL string

	// TTL bounds how long a claim is held.
	TTL time.Duration
}

// ServerSettings holds REST API configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// AllowedOrigins are the CORS origins. Empty allows none.
	AllowedOrigins []string
}

// Settings holds all application settings.
type Settings struct {
	// MaxVideoDuration is the longest accepted video, in seconds.
	MaxVideoDuration int

	// CaptionLanguages is the caption language preference order.
	CaptionLanguages []string

	YouTube       YouTubeSettings
	Audio         AudioSettings
	Transcription TranscriptionSettings
	Embedding     EmbeddingSettings
	LLM           LLMSettings
	Storage       StorageSettings
	Lock          LockSettings
	Server        ServerSettings
}

// DefaultSettings returns settings with sensible defaults.
// Credentials are left empty; they come from the config file or environment.
func DefaultSettings() Settings {
	return Settings{
		MaxVideoDuration: DefaultMaxVideoDuration,
		CaptionLanguages: DefaultCaptionLanguages(),
		Audio: AudioSettings{
			YtDlpPath: "yt-dlp",
		},
		Transcription: TranscriptionSettings{
			Model: DefaultTranscriptionModel,
		},
		Embedding: EmbeddingSettings{
			Provider:       AIProviderOpenAI,
			Model:          DefaultEmbeddingModel,
			MaxChunkTokens: DefaultMaxChunkTokens,
		},
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    DefaultLLMModel,
		},
		Storage: StorageSettings{
			Backend:       StorageSQLite,
			MongoDatabase: DefaultMongoDatabase,
		},
		Lock: LockSettings{
			Backend: LockMemory,
			TTL:     DefaultIngestLockTTL,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
	}
}

// Validate checks settings for values no component can work with.
func (s Settings) Validate() error {
	if s.MaxVideoDuration <= 0 {
		return fmt.Errorf("%w: max video duration must be positive", ErrInvalidInput)
	}
	if s.Embedding.MaxChunkTokens <= 0 {
		return fmt.Errorf("%w: embedding chunk bound must be positive", ErrInvalidInput)
	}
	if s.Embedding.Provider != "" && s.Embedding.Provider != AIProviderOpenAI &&
		s.Embedding.Provider != AIProviderOllama {
		return fmt.Errorf("%w: unsupported embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	if s.LLM.Provider != "" && !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: unsupported LLM provider %q", ErrInvalidInput, s.LLM.Provider)
	}
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: unsupported storage backend %q", ErrInvalidInput, s.Storage.Backend)
	}
	if s.Storage.Backend == StorageMongo && s.Storage.MongoURI == "" {
		return fmt.Errorf("%w: mongo storage requires a URI", ErrInvalidInput)
	}
	if !s.Lock.Backend.IsValid() {
		return fmt.Errorf("%w: unsupported lock backend %q", ErrInvalidInput, s.Lock.Backend)
	}
	if s.Lock.Backend == LockRedis && s.Lock.RedisURL == "" {
		return fmt.Errorf("%w: redis lock requires a URL", ErrInvalidInput)
	}
	if s.Lock.Backend != LockNone && s.Lock.TTL <= 0 {
		return fmt.Errorf("%w: lock TTL must be positive", ErrInvalidInput)
	}
	return nil
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    DefaultLLMModel,
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: DefaultEmbeddingModel,
		AIProviderOllama: "nomic-embed-text",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
