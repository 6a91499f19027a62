package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})

	t.Run("close with services", func(t *testing.T) {
		result := &InitResult{
			EmbeddingService: createOllamaEmbedding(&domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				Model:    "nomic-embed-text",
			}),
			LLMService: createOllamaLLM(&domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				Model:    "llama3.2",
			}),
		}
		result.Close()
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantNil     bool
		wantErr     bool
		errContains string
		wantModel   string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name:     "openai without key returns nil",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
			wantModel: "nomic-embed-text",
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-ada-002",
			},
			wantModel: "text-embedding-ada-002",
		},
		{
			name: "anthropic provider returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantNil:     true,
			wantErr:     true,
			errContains: "does not provide embeddings",
		},
		{
			name: "gemini provider returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderGemini,
				APIKey:   "test-key",
			},
			wantNil:     true,
			wantErr:     true,
			errContains: "does not provide embeddings",
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
			}

			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantNil   bool
		wantModel string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
		},
		{
			name:     "gemini without key returns nil",
			settings: &domain.LLMSettings{Provider: domain.AIProviderGemini},
			wantNil:  true,
		},
		{
			name: "gemini provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderGemini,
				APIKey:   "test-key",
				Model:    "gemini-1.5-pro-latest",
			},
			wantModel: "gemini-1.5-pro-latest",
		},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				Model:    "llama3.2",
			},
			wantModel: "llama3.2",
		},
		{
			name: "openai provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
			wantModel: "gpt-4o-mini",
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-3-5-sonnet-latest",
			},
			wantModel: "claude-3-5-sonnet-latest",
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(context.Background(), tt.settings)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateTranscriptionService(t *testing.T) {
	svc, err := CreateTranscriptionService(nil)
	require.NoError(t, err)
	assert.Nil(t, svc)

	svc, err = CreateTranscriptionService(&domain.TranscriptionSettings{Model: "whisper-1"})
	require.NoError(t, err)
	assert.Nil(t, svc)

	svc, err = CreateTranscriptionService(&domain.TranscriptionSettings{APIKey: "sk-test"})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, domain.DefaultTranscriptionModel, svc.ModelName())
}

func TestCreateTokenizer(t *testing.T) {
	tok, err := CreateTokenizer(nil)
	require.NoError(t, err)
	text := "tokenizer round trip"
	assert.Equal(t, text, tok.Decode(tok.Encode(text)))

	tok, err = CreateTokenizer(&domain.EmbeddingSettings{Model: "nomic-embed-text"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Encode(text))
}

func TestInit_DefaultsWithKeys(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Embedding.APIKey = "sk-openai"
	settings.Transcription.APIKey = "sk-openai"
	settings.LLM.APIKey = "gemini-key"

	result := Init(context.Background(), &settings)
	defer result.Close()

	assert.Empty(t, result.Warnings)
	assert.NotNil(t, result.EmbeddingService)
	assert.NotNil(t, result.Tokenizer)
	assert.NotNil(t, result.LLMService)
	assert.NotNil(t, result.Transcriber)
}

func TestInit_NoKeysWarns(t *testing.T) {
	settings := domain.DefaultSettings()

	result := Init(context.Background(), &settings)
	defer result.Close()

	assert.Nil(t, result.EmbeddingService)
	assert.Nil(t, result.LLMService)
	assert.Nil(t, result.Transcriber)
	assert.NotNil(t, result.Tokenizer)
	assert.Len(t, result.Warnings, 3)
}
