// Package tiktoken provides a BPE tokenizer for OpenAI embedding models.
// Encodings are loaded from the binary, so no network access is needed.
package tiktoken

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/logger"
)

// Ensure Tokenizer implements the interface.
var _ driven.Tokenizer = (*Tokenizer)(nil)

// FallbackEncoding is used for models tiktoken does not know,
// such as local embedding models.
const FallbackEncoding = "cl100k_base"

var loaderOnce sync.Once

// Tokenizer encodes text with the encoding of an embedding model.
type Tokenizer struct {
	mu    sync.Mutex
	enc   *tiktoken.Tiktoken
	model string
}

// New returns the tokenizer for model.
func New(model string) (*Tokenizer, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.Debug("no tiktoken encoding for %q, using %s", model, FallbackEncoding)
		enc, err = tiktoken.GetEncoding(FallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("load encoding %s: %w", FallbackEncoding, err)
		}
	}

	return &Tokenizer{enc: enc, model: model}, nil
}

// Encode returns the token ids of text. Special token text is encoded
// as ordinary text so that arbitrary transcripts round-trip.
func (t *Tokenizer) Encode(text string) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enc.Encode(text, nil, nil)
}

// Decode returns the text of the token ids.
func (t *Tokenizer) Decode(tokens []int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enc.Decode(tokens)
}

// Model returns the model the tokenizer was built for.
func (t *Tokenizer) Model() string {
	return t.model
}
