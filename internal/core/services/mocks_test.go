package services

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
)

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Each call returns the next vector; the last one repeats.
type mockEmbeddingService struct {
	vectors  [][]float32
	embedErr error
	calls    []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls = append(m.calls, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if len(m.vectors) == 0 {
		return []float32{1, 0}, nil
	}
	i := min(len(m.calls)-1, len(m.vectors)-1)
	return m.vectors[i], nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = vec
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int            { return 2 }
func (m *mockEmbeddingService) ModelName() string          { return "mock-embed" }
func (m *mockEmbeddingService) Ping(context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error               { return nil }

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response string
	err      error
	prompts  []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string          { return "mock-llm" }
func (m *mockLLMService) Ping(context.Context) error { return nil }
func (m *mockLLMService) Close() error               { return nil }

// wordChunker splits on whitespace, n words per chunk.
type wordChunker struct {
	n int
}

func (c wordChunker) Name() string   { return "words" }
func (c wordChunker) MaxTokens() int { return c.n }

func (c wordChunker) Split(text string) []domain.Chunk {
	words := strings.Fields(text)
	var chunks []domain.Chunk
	for start := 0; start < len(words); start += c.n {
		end := min(start+c.n, len(words))
		chunks = append(chunks, domain.Chunk{
			Position: len(chunks),
			Content:  strings.Join(words[start:end], " "),
		})
	}
	return chunks
}

// mockMetadataFetcher implements driven.MetadataFetcher for testing.
type mockMetadataFetcher struct {
	meta  map[string]domain.VideoMetadata
	err   error
	calls int
}

func (m *mockMetadataFetcher) FetchMetadata(_ context.Context, videoID string) (*domain.VideoMetadata, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	meta, ok := m.meta[videoID]
	if !ok {
		return nil, domain.ErrVideoNotFound
	}
	return &meta, nil
}

// mockCaptionFetcher implements driven.CaptionFetcher for testing.
type mockCaptionFetcher struct {
	result domain.CaptionResult
	calls  int
}

func (m *mockCaptionFetcher) FetchCaptions(_ context.Context, _ string) domain.CaptionResult {
	m.calls++
	return m.result
}

// mockAudioDownloader writes a real file so cleanup can be observed.
type mockAudioDownloader struct {
	dir   string
	err   error
	paths []string
}

func (m *mockAudioDownloader) DownloadAudio(_ context.Context, _, videoID string) (string, func(), error) {
	if m.err != nil {
		return "", nil, m.err
	}
	path := m.dir + "/temp_audio_" + videoID + ".m4a"
	if err := os.WriteFile(path, []byte("audio"), 0600); err != nil {
		return "", nil, err
	}
	m.paths = append(m.paths, path)
	return path, func() { _ = os.Remove(path) }, nil
}

// mockTranscriber records whether the audio file existed when called.
type mockTranscriber struct {
	text        string
	err         error
	sawFile     bool
	transcribed int
}

func (m *mockTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	m.transcribed++
	_, statErr := os.Stat(path)
	m.sawFile = statErr == nil
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *mockTranscriber) ModelName() string { return "mock-whisper" }

// mockIngestLock implements driven.IngestLock for testing.
type mockIngestLock struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	released int
}

func (m *mockIngestLock) Acquire(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	if m.held == nil {
		m.held = make(map[string]bool)
	}
	if m.held[key] {
		return nil, false, nil
	}
	m.held[key] = true
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.held[key] {
			delete(m.held, key)
			m.released++
		}
	}, true, nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompt string
	err    error
}

func (m *mockPromptStore) Load(_ string) (string, error) { return m.prompt, m.err }
func (m *mockPromptStore) Reload() {}
