package services

import (
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyMaxVideoDuration  = "max_video_duration"
	keyCaptionLanguages  = "captions.languages"
	keyYouTubeAPIKey     = "youtube.api_key"
	keyYouTubeClientID   = "youtube.client_id"
	keyYouTubeSecret     = "youtube.client_secret"
	keyYouTubeRefresh    = "youtube.refresh_token"
	keyYouTubeRPS        = "youtube.requests_per_second"
	keyAudioYtDlp        = "audio.ytdlp_path"
	keyAudioTempDir      = "audio.temp_dir"
	keyAudioCookies      = "audio.cookies_file"
	keyTranscribeModel   = "transcription.model"
	keyTranscribeBaseURL = "transcription.base_url"
	keyTranscribeAPIKey  = "transcription.api_key"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedMaxTokens    = "embedding.max_chunk_tokens"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyStorageBackend    = "storage.backend"
	keyMongoURI          = "storage.mongo_uri"
	keyMongoDatabase     = "storage.mongo_database"
	keyLockBackend       = "lock.backend"
	keyRedisURL          = "lock.redis_url"
	keyLockTTL           = "lock.ttl"
	keyServerAddr        = "server.addr"
	keyAllowedOrigins    = "server.allowed_origins"

	// keyProviderPrefix holds shared provider keys, e.g. keys.openai.
	keyProviderPrefix = "keys."
)

const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// Provider API keys left empty in a section fall back to the shared
// keys.<provider> entry, which is where environment credentials land.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		MaxVideoDuration: s.getInt(keyMaxVideoDuration, defaults.MaxVideoDuration),
		CaptionLanguages: s.getStringSlice(keyCaptionLanguages, defaults.CaptionLanguages),
		YouTube: domain.YouTubeSettings{
			APIKey:            s.configStore.GetString(keyYouTubeAPIKey),
			ClientID:          s.configStore.GetString(keyYouTubeClientID),
			ClientSecret:      s.configStore.GetString(keyYouTubeSecret),
			RefreshToken:      s.configStore.GetString(keyYouTubeRefresh),
			RequestsPerSecond: s.configStore.GetFloat(keyYouTubeRPS),
		},
		Audio: domain.AudioSettings{
			YtDlpPath:   s.getString(keyAudioYtDlp, defaults.Audio.YtDlpPath),
			TempDir:     s.configStore.GetString(keyAudioTempDir),
			CookiesFile: s.configStore.GetString(keyAudioCookies),
		},
		Transcription: domain.TranscriptionSettings{
			Model:   s.getString(keyTranscribeModel, defaults.Transcription.Model),
			BaseURL: s.configStore.GetString(keyTranscribeBaseURL),
			APIKey:  s.getString(keyTranscribeAPIKey, s.providerKey(domain.AIProviderOpenAI)),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:       s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:          s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:        s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			MaxChunkTokens: s.getInt(keyEmbedMaxTokens, defaults.Embedding.MaxChunkTokens),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
		},
		Storage: domain.StorageSettings{
			Backend:       s.getStorageBackend(defaults.Storage.Backend),
			MongoURI:      s.configStore.GetString(keyMongoURI),
			MongoDatabase: s.getString(keyMongoDatabase, defaults.Storage.MongoDatabase),
		},
		Lock: domain.LockSettings{
			Backend:  s.getLockBackend(defaults.Lock.Backend),
			RedisURL: s.configStore.GetString(keyRedisURL),
			TTL:      s.getDuration(keyLockTTL, defaults.Lock.TTL),
		},
		Server: domain.ServerSettings{
			Addr:           s.getString(keyServerAddr, defaults.Server.Addr),
			AllowedOrigins: s.configStore.GetStringSlice(keyAllowedOrigins),
		},
	}

	settings.Embedding.APIKey = s.getString(keyEmbedAPIKey, s.providerKey(settings.Embedding.Provider))
	settings.LLM.APIKey = s.getString(keyLLMAPIKey, s.providerKey(settings.LLM.Provider))

	return settings, nil
}

// configValue is a single key written by Save.
type configValue struct {
	key   string
	value any
}

// Save persists application settings.
// Credentials are only written when they differ from what the store and
// the shared provider keys already yield, so environment-provided keys
// never end up in the config file.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []configValue{
		{keyMaxVideoDuration, settings.MaxVideoDuration},
		{keyCaptionLanguages, settings.CaptionLanguages},
		{keyAudioYtDlp, settings.Audio.YtDlpPath},
		{keyAudioTempDir, settings.Audio.TempDir},
		{keyAudioCookies, settings.Audio.CookiesFile},
		{keyTranscribeModel, settings.Transcription.Model},
		{keyTranscribeBaseURL, settings.Transcription.BaseURL},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedMaxTokens, settings.Embedding.MaxChunkTokens},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyStorageBackend, string(settings.Storage.Backend)},
		{keyMongoDatabase, settings.Storage.MongoDatabase},
		{keyLockBackend, string(settings.Lock.Backend)},
		{keyLockTTL, settings.Lock.TTL.String()},
		{keyServerAddr, settings.Server.Addr},
	}
	if settings.YouTube.RequestsPerSecond > 0 {
		values = append(values, configValue{keyYouTubeRPS, settings.YouTube.RequestsPerSecond})
	}
	if settings.Server.AllowedOrigins != nil {
		values = append(values, configValue{keyAllowedOrigins, settings.Server.AllowedOrigins})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := []struct {
		key, value, fallback string
	}{
		{keyYouTubeAPIKey, settings.YouTube.APIKey, ""},
		{keyYouTubeClientID, settings.YouTube.ClientID, ""},
		{keyYouTubeSecret, settings.YouTube.ClientSecret, ""},
		{keyYouTubeRefresh, settings.YouTube.RefreshToken, ""},
		{keyTranscribeAPIKey, settings.Transcription.APIKey, s.providerKey(domain.AIProviderOpenAI)},
		{keyEmbedAPIKey, settings.Embedding.APIKey, s.providerKey(settings.Embedding.Provider)},
		{keyLLMAPIKey, settings.LLM.APIKey, s.providerKey(settings.LLM.Provider)},
		{keyMongoURI, settings.Storage.MongoURI, ""},
		{keyRedisURL, settings.Lock.RedisURL, ""},
	}
	for _, sec := range secrets {
		current := s.configStore.GetString(sec.key)
		if sec.value == "" || sec.value == current || (current == "" && sec.value == sec.fallback) {
			continue
		}
		if err := s.configStore.Set(sec.key, sec.value); err != nil {
			return fmt.Errorf("save %s: %w", sec.key, err)
		}
	}

	return nil
}

// SetMaxVideoDuration updates the longest accepted video, in seconds.
func (s *SettingsService) SetMaxVideoDuration(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("%w: max video duration must be positive", domain.ErrInvalidInput)
	}
	return s.configStore.Set(keyMaxVideoDuration, seconds)
}

// SetYouTubeOAuth stores the OAuth client and refresh token used for caption downloads.
func (s *SettingsService) SetYouTubeOAuth(clientID, clientSecret, refreshToken string) error {
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: client id and secret are required", domain.ErrInvalidInput)
	}
	if refreshToken == "" {
		return fmt.Errorf("%w: refresh token is required", domain.ErrInvalidInput)
	}
	for key, value := range map[string]string{
		keyYouTubeClientID: clientID,
		keyYouTubeSecret:   clientSecret,
		keyYouTubeRefresh:  refreshToken,
	} {
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	// A shared provider key satisfies the requirement
	if apiKey == "" {
		apiKey = s.providerKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaURL
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" {
		apiKey = s.providerKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) providerKey(provider domain.AIProvider) string {
	if provider == "" {
		return ""
	}
	return s.configStore.GetString(keyProviderPrefix + provider.String())
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getLockBackend(defaultVal domain.LockBackend) domain.LockBackend {
	backend := domain.LockBackend(s.configStore.GetString(keyLockBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
