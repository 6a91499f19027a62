package driven

import "github.com/custodia-labs/askontube/internal/core/domain"

// Chunker splits transcript text into token-bounded chunks.
type Chunker interface {
	// Name returns the chunker name for logging and configuration.
	Name() string

	// MaxTokens returns the per-chunk token bound.
	MaxTokens() int

	// Split tokenises text and packs the tokens into chunks in order.
	// Empty text produces no chunks.
	Split(text string) []domain.Chunk
}
