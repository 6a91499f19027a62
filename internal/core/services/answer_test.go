package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askontube/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askontube/internal/core/domain"
)

func videoDoc(videoID, title, transcript string, users ...string) domain.VideoDocument {
	return domain.VideoDocument{
		VideoID:     videoID,
		URL:         domain.CanonicalVideoURL(videoID),
		UserIDs:     users,
		Title:       title,
		Transcript:  transcript,
		Tags:        []string{},
		ProcessedAt: time.Now(),
	}
}

func TestAnswer_SingleCandidateUsedVerbatim(t *testing.T) {
	llm := &mockLLMService{response: "  The answer.  "}
	service := NewAnswerService(memory.NewVideoStore(), llm)
	doc := videoDoc("aaaaaaaaaaa", "Intro", "completely unrelated transcript")

	answer, err := service.Answer(context.Background(), "what is covered?", []domain.VideoDocument{doc})

	require.NoError(t, err)
	assert.Equal(t, "The answer.", answer.Text)
	assert.False(t, answer.Blocked)
	assert.False(t, answer.Failed)
	assert.Equal(t, []string{"aaaaaaaaaaa"}, answer.Sources)

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "[Intro - https://www.youtube.com/watch?v=aaaaaaaaaaa]\ncompletely unrelated transcript")
	assert.Contains(t, prompt, "Question: what is covered?")
}

func TestAnswer_RanksAndKeepsTopFive(t *testing.T) {
	llm := &mockLLMService{response: "ok"}
	service := NewAnswerService(memory.NewVideoStore(), llm)

	var candidates []domain.VideoDocument
	for i := 0; i < 7; i++ {
		id := fmt.Sprintf("video%06d", i)
		candidates = append(candidates, videoDoc(id, id, "filler words only"))
	}
	candidates[6].Transcript = "goroutine scheduler goroutine scheduler"

	answer, err := service.Answer(context.Background(), "goroutine scheduler", candidates)

	require.NoError(t, err)
	require.Len(t, answer.Sources, DefaultTopK)
	assert.Equal(t, "video000006", answer.Sources[0])
	assert.NotContains(t, llm.prompts[0], "[video000005 -")
}

func TestAnswer_NoCandidates(t *testing.T) {
	llm := &mockLLMService{response: "I could not find relevant information."}
	service := NewAnswerService(memory.NewVideoStore(), llm)

	answer, err := service.Answer(context.Background(), "anything?", nil)

	require.NoError(t, err)
	assert.Empty(t, answer.Sources)
	assert.Len(t, llm.prompts, 1)
}

func TestAnswer_EmptyQuery(t *testing.T) {
	llm := &mockLLMService{}
	service := NewAnswerService(memory.NewVideoStore(), llm)

	_, err := service.Answer(context.Background(), "   ", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, llm.prompts)
}

func TestAnswer_BlockedReturnsRefusal(t *testing.T) {
	llm := &mockLLMService{err: fmt.Errorf("gemini: %w", domain.ErrContentBlocked)}
	service := NewAnswerService(memory.NewVideoStore(), llm)

	answer, err := service.Answer(context.Background(), "question", nil)

	require.NoError(t, err)
	assert.True(t, answer.Blocked)
	assert.Equal(t, domain.RefusalMessage, answer.Text)
}

func TestAnswer_GenerationFailureReturnsMessage(t *testing.T) {
	llm := &mockLLMService{err: errors.New("503")}
	service := NewAnswerService(memory.NewVideoStore(), llm)

	answer, err := service.Answer(context.Background(), "question", nil)

	require.NoError(t, err)
	assert.True(t, answer.Failed)
	assert.Equal(t, domain.AnswerFailedMessage, answer.Text)
}

func TestAnswer_NoLLMConfigured(t *testing.T) {
	service := NewAnswerService(memory.NewVideoStore(), nil)

	answer, err := service.Answer(context.Background(), "question", nil)

	require.NoError(t, err)
	assert.True(t, answer.Failed)
	assert.NotEmpty(t, answer.Text)
}

func TestAnswer_CustomPrompt(t *testing.T) {
	llm := &mockLLMService{response: "ok"}
	service := NewAnswerService(memory.NewVideoStore(), llm)
	service.SetPromptStore(&mockPromptStore{prompt: "CTX<%s> Q<%s>"})

	_, err := service.Answer(context.Background(), "why", []domain.VideoDocument{videoDoc("aaaaaaaaaaa", "T", "body")})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(llm.prompts[0], "CTX<[T - "))
	assert.True(t, strings.HasSuffix(llm.prompts[0], "Q<why>"))
}

func TestAnswer_CustomPromptWithoutPlaceholdersIgnored(t *testing.T) {
	llm := &mockLLMService{response: "ok"}
	service := NewAnswerService(memory.NewVideoStore(), llm)
	service.SetPromptStore(&mockPromptStore{prompt: "no placeholders"})

	_, err := service.Answer(context.Background(), "why", nil)

	require.NoError(t, err)
	assert.Contains(t, llm.prompts[0], "Question: why")
}

func TestAnswer_PromptStoreErrorUsesDefault(t *testing.T) {
	llm := &mockLLMService{response: "ok"}
	service := NewAnswerService(memory.NewVideoStore(), llm)
	service.SetPromptStore(&mockPromptStore{err: errors.New("unreadable")})

	_, err := service.Answer(context.Background(), "why", nil)

	require.NoError(t, err)
	assert.Contains(t, llm.prompts[0], "Question: why")
}

func TestAskVideo(t *testing.T) {
	store := memory.NewVideoStore()
	doc := videoDoc("aaaaaaaaaaa", "Intro", "transcript", "alice")
	require.NoError(t, store.Insert(context.Background(), &doc))
	llm := &mockLLMService{response: "ok"}
	service := NewAnswerService(store, llm)

	answer, err := service.AskVideo(context.Background(), "alice", "aaaaaaaaaaa", "question")

	require.NoError(t, err)
	assert.Equal(t, []string{"aaaaaaaaaaa"}, answer.Sources)
}

func TestAskVideo_OtherUsersVideo(t *testing.T) {
	store := memory.NewVideoStore()
	doc := videoDoc("aaaaaaaaaaa", "Intro", "transcript", "alice")
	require.NoError(t, store.Insert(context.Background(), &doc))
	service := NewAnswerService(store, &mockLLMService{})

	_, err := service.AskVideo(context.Background(), "bob", "aaaaaaaaaaa", "question")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAskTags(t *testing.T) {
	store := memory.NewVideoStore()
	ctx := context.Background()
	for _, d := range []domain.VideoDocument{
		videoDoc("aaaaaaaaaaa", "A", "tagged", "alice"),
		videoDoc("bbbbbbbbbbb", "B", "untagged", "alice"),
		videoDoc("ccccccccccc", "C", "someone else", "bob"),
	} {
		require.NoError(t, store.Insert(ctx, &d))
	}
	require.NoError(t, store.AddTag(ctx, "aaaaaaaaaaa", "go"))
	require.NoError(t, store.AddTag(ctx, "ccccccccccc", "go"))
	llm := &mockLLMService{response: "ok"}
	service := NewAnswerService(store, llm)

	answer, err := service.AskTags(ctx, "alice", []string{"go"}, "question")

	require.NoError(t, err)
	assert.Equal(t, []string{"aaaaaaaaaaa"}, answer.Sources)
}
