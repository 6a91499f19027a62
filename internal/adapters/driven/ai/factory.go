// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"

	ollamaembed "github.com/custodia-labs/askontube/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/askontube/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/askontube/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/askontube/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/askontube/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/askontube/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/askontube/internal/adapters/driven/tokenizer/tiktoken"
	openaistt "github.com/custodia-labs/askontube/internal/adapters/driven/transcription/openai"
	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/logger"
)

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	Tokenizer        driven.Tokenizer
	LLMService       driven.LLMService
	Transcriber      driven.TranscriptionService
	Warnings         []string // Non-fatal issues that left a service nil.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates every AI service the settings configure. Services are not
// pinged; a failure to construct one leaves it nil and adds a warning, so
// ingestion and answering report the missing service when they need it.
func Init(ctx context.Context, settings *domain.Settings) *InitResult {
	result := &InitResult{}
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		logger.Warn("%s", msg)
		result.Warnings = append(result.Warnings, msg)
	}

	embedding, err := CreateEmbeddingService(&settings.Embedding)
	switch {
	case err != nil:
		warn("embedding disabled: %v", err)
	case embedding == nil:
		warn("embedding disabled: provider not configured")
	default:
		result.EmbeddingService = embedding
	}

	tokenizer, err := CreateTokenizer(&settings.Embedding)
	if err != nil {
		warn("tokenizer unavailable: %v", err)
	} else {
		result.Tokenizer = tokenizer
	}

	llm, err := CreateLLMService(ctx, &settings.LLM)
	switch {
	case err != nil:
		warn("question answering disabled: %v", err)
	case llm == nil:
		warn("question answering disabled: LLM provider not configured")
	default:
		result.LLMService = llm
	}

	transcriber, err := CreateTranscriptionService(&settings.Transcription)
	switch {
	case err != nil:
		warn("audio transcription disabled: %v", err)
	case transcriber == nil:
		warn("audio transcription disabled: no API key")
	default:
		result.Transcriber = transcriber
	}

	return result
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderAnthropic, domain.AIProviderGemini:
		return nil, fmt.Errorf("%s does not provide embeddings, use openai or ollama", settings.Provider)
	}

	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateTranscriptionService creates the speech-to-text service.
// Returns nil if no API key is configured.
func CreateTranscriptionService(settings *domain.TranscriptionSettings) (driven.TranscriptionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	return openaistt.NewTranscriptionService(openaistt.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// CreateTokenizer returns the tokenizer matching the embedding model.
func CreateTokenizer(settings *domain.EmbeddingSettings) (driven.Tokenizer, error) {
	model := domain.DefaultEmbeddingModel
	if settings != nil && settings.Model != "" {
		model = settings.Model
	}
	return tiktoken.New(model)
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
