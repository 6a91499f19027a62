// Package chunker provides a token-bounded text chunker.
package chunker

import (
	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
)

// DefaultMaxTokens is the default number of tokens per chunk.
const DefaultMaxTokens = domain.DefaultMaxChunkTokens

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// Processor packs the tokens of a text greedily into chunks.
// A chunk closes as soon as one more token would exceed the bound,
// so every chunk but the last holds exactly maxTokens tokens.
type Processor struct {
	tokenizer driven.Tokenizer
	maxTokens int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxTokens sets the per-chunk token bound.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(tokenizer driven.Tokenizer, opts ...Option) *Processor {
	p := &Processor{
		tokenizer: tokenizer,
		maxTokens: DefaultMaxTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxTokens returns the per-chunk token bound.
func (p *Processor) MaxTokens() int {
	return p.maxTokens
}

// Split tokenises text and packs the tokens into chunks.
func (p *Processor) Split(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	tokens := p.tokenizer.Encode(text)
	if len(tokens) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(tokens)/p.maxTokens+1)
	for start := 0; start < len(tokens); start += p.maxTokens {
		end := min(start+p.maxTokens, len(tokens))
		part := tokens[start:end:end]

		chunks = append(chunks, domain.Chunk{
			Position: len(chunks),
			Tokens:   part,
			Content:  p.tokenizer.Decode(part),
		})
	}

	return chunks
}
