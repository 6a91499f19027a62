package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

const (
	pingTimeout  = 5 * time.Second
	settingsHint = "Run 'askontube settings' to fix"
)

// ConfigValidator checks provider settings by building the service they
// describe and pinging it. Unconfigured settings pass.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator returns a validator that waits up to five seconds per ping.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

// ValidateEmbedding pings the configured embedding provider. Selecting a
// provider that has no embeddings API fails even without a key.
func (v *ConfigValidator) ValidateEmbedding(cfg *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, settingsHint)
	}
	return v.ping(context.Background(), svc, domain.ErrEmbeddingUnavailable)
}

// ValidateLLM pings the configured LLM provider.
func (v *ConfigValidator) ValidateLLM(cfg *domain.LLMSettings) error {
	if cfg == nil || !cfg.IsConfigured() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	svc, err := CreateLLMService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, settingsHint)
	}
	return v.ping(ctx, svc, domain.ErrLLMUnavailable)
}

type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// ping checks svc and always closes it. Failures wrap unavailable.
func (v *ConfigValidator) ping(ctx context.Context, svc pinger, unavailable error) error {
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). %s", unavailable, err, settingsHint)
	}
	return nil
}
