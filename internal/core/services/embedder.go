package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/logger"
)

// ChunkedEmbedder produces one document vector for arbitrarily long text.
//
// The text is split into token-bounded chunks, each chunk is embedded with
// one call, and the chunk vectors are averaged element-wise (mean pooling).
// Mean pooling discards chunk order and weights every chunk equally
// regardless of its length. This is a known approximation.
type ChunkedEmbedder struct {
	chunker  driven.Chunker
	embedder driven.EmbeddingService
}

// NewChunkedEmbedder creates a chunked embedder.
func NewChunkedEmbedder(chunker driven.Chunker, embedder driven.EmbeddingService) *ChunkedEmbedder {
	return &ChunkedEmbedder{
		chunker:  chunker,
		embedder: embedder,
	}
}

// Embed returns the mean of the chunk embeddings of text.
// Empty text yields an empty vector and no error; callers treat it as
// having no usable embedding.
func (e *ChunkedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	chunks := e.chunker.Split(text)
	if len(chunks) == 0 {
		return []float32{}, nil
	}

	logger.Debug("embedding %d chunks (max %d tokens) with %s",
		len(chunks), e.chunker.MaxTokens(), e.embedder.ModelName())

	vectors := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := e.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", chunk.Position, err)
		}
		vectors = append(vectors, vec)
	}

	return MeanPool(vectors)
}

// MeanPool averages vectors element-wise.
// All vectors must share one dimensionality. No vectors yields an empty vector.
func MeanPool(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return []float32{}, nil
	}

	dims := len(vectors[0])
	sums := make([]float64, dims)
	for i, vec := range vectors {
		if len(vec) != dims {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				domain.ErrUpstream, i, len(vec), dims)
		}
		for j, v := range vec {
			sums[j] += float64(v)
		}
	}

	n := float64(len(vectors))
	mean := make([]float32, dims)
	for j, s := range sums {
		mean[j] = float32(s / n)
	}
	return mean, nil
}
