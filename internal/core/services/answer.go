package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/core/ports/driving"
	"github.com/custodia-labs/askontube/internal/logger"
)

// Ensure AnswerService implements the interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// AnswerService answers questions from stored transcripts.
// Generation failures never reach the caller as errors: a safety block
// becomes a refusal message and anything else a generic failure message.
type AnswerService struct {
	store       driven.VideoStore
	llmService  driven.LLMService
	promptStore driven.PromptStore
	topK        int
}

// NewAnswerService creates a new answer service.
// The llmService parameter is optional (can be nil).
func NewAnswerService(store driven.VideoStore, llmService driven.LLMService) *AnswerService {
	return &AnswerService{
		store:      store,
		llmService: llmService,
		topK:       DefaultTopK,
	}
}

// SetPromptStore sets the prompt store for loading a customised answer prompt.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// AskVideo answers from a single video the user has access to.
func (s *AnswerService) AskVideo(ctx context.Context, userID, videoID, query string) (*domain.Answer, error) {
	doc, err := s.store.FindByVideoID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !doc.HasUser(userID) {
		return nil, fmt.Errorf("%w: video %s", domain.ErrNotFound, videoID)
	}
	return s.Answer(ctx, query, []domain.VideoDocument{*doc})
}

// AskTags answers from the user's videos carrying any of the tags.
func (s *AnswerService) AskTags(
	ctx context.Context, userID string, tags []string, query string,
) (*domain.Answer, error) {
	docs, err := s.store.List(ctx, domain.VideoFilter{UserID: userID, Tags: tags})
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return s.Answer(ctx, query, docs)
}

// Answer selects grounding transcripts and asks the LLM.
// A single candidate is used verbatim; several are ranked by TF-IDF
// similarity to the query and the top five kept. No candidates still
// produces an answer, which the prompt steers towards saying so.
func (s *AnswerService) Answer(
	ctx context.Context, query string, candidates []domain.VideoDocument,
) (*domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.EmptyQueryMessage)
	}

	logger.Section("Answer Synthesis")
	logger.Debug("Query: %q over %d candidates", query, len(candidates))

	grounding := s.selectGrounding(query, candidates)
	sources := make([]string, len(grounding))
	for i := range grounding {
		sources[i] = grounding[i].VideoID
	}

	if s.llmService == nil {
		logger.Warn("No LLM configured")
		return &domain.Answer{
			Text:    domain.UserMessage(domain.ErrLLMUnavailable),
			Sources: sources,
			Failed:  true,
		}, nil
	}

	prompt := fmt.Sprintf(s.template(), formatGrounding(grounding), query)
	logger.Debug("Prompt: %d chars, model %s", len(prompt), s.llmService.ModelName())

	text, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{})
	switch {
	case errors.Is(err, domain.ErrContentBlocked):
		logger.Warn("Answer blocked by safety filter: %v", err)
		return &domain.Answer{Text: domain.RefusalMessage, Sources: sources, Blocked: true}, nil
	case err != nil:
		logger.Error("Answer generation failed: %v", err)
		return &domain.Answer{Text: domain.AnswerFailedMessage, Sources: sources, Failed: true}, nil
	}

	return &domain.Answer{Text: strings.TrimSpace(text), Sources: sources}, nil
}

func (s *AnswerService) selectGrounding(query string, candidates []domain.VideoDocument) []domain.VideoDocument {
	if len(candidates) <= 1 {
		return candidates
	}

	texts := make([]string, len(candidates))
	for i := range candidates {
		texts[i] = candidates[i].Transcript
	}

	ranked := RankByTFIDF(query, texts, s.topK)
	selected := make([]domain.VideoDocument, len(ranked))
	for i, r := range ranked {
		selected[i] = candidates[r.Index]
		logger.Debug("Rank %d: %s (%.4f)", i+1, candidates[r.Index].VideoID, r.Score)
	}
	return selected
}

// template loads the answer prompt, falling back to the built-in one.
// A customised template must keep both %s placeholders.
func (s *AnswerService) template() string {
	if s.promptStore == nil {
		return domain.DefaultAnswerPrompt
	}
	tmpl, err := s.promptStore.Load(driven.PromptAnswer)
	if err != nil || strings.Count(tmpl, "%s") != 2 {
		logger.Warn("Using built-in answer prompt (custom prompt unusable: %v)", err)
		return domain.DefaultAnswerPrompt
	}
	return tmpl
}

// formatGrounding joins transcripts, each labelled with its source video.
func formatGrounding(docs []domain.VideoDocument) string {
	parts := make([]string, 0, len(docs))
	for i := range docs {
		d := &docs[i]
		parts = append(parts, fmt.Sprintf("[%s - %s]\n%s", d.Title, d.URL, d.Transcript))
	}
	return strings.Join(parts, "\n\n")
}
