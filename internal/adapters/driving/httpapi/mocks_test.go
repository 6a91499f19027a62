package httpapi

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result    *domain.IngestResult
	preview   *domain.VideoPreview
	err       error
	gotUserID string
}

func (m *mockIngestService) Ingest(
	_ context.Context, _, userID string, _ domain.ProgressFunc,
) (*domain.IngestResult, error) {
	m.gotUserID = userID
	return m.result, m.err
}

func (m *mockIngestService) Preview(_ context.Context, _ string) (*domain.VideoPreview, error) {
	return m.preview, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error
	mode   string
	tags   []string
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, _ []domain.VideoDocument) (*domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockAnswerService) AskVideo(_ context.Context, _, _, _ string) (*domain.Answer, error) {
	m.mode = "video"
	return m.answer, m.err
}

func (m *mockAnswerService) AskTags(_ context.Context, _ string, tags []string, _ string) (*domain.Answer, error) {
	m.mode = "tags"
	m.tags = tags
	return m.answer, m.err
}

// mockLibraryService keeps videos in a map and applies tag rules.
type mockLibraryService struct {
	videos    map[string]*domain.VideoDocument
	err       error
	gotFilter domain.VideoFilter
}

func newMockLibrary(docs ...domain.VideoDocument) *mockLibraryService {
	m := &mockLibraryService{videos: make(map[string]*domain.VideoDocument)}
	for i := range docs {
		doc := docs[i]
		m.videos[doc.VideoID] = &doc
	}
	return m
}

func (m *mockLibraryService) ListVideos(_ context.Context, filter domain.VideoFilter) ([]domain.VideoDocument, error) {
	m.gotFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.VideoDocument
	for _, doc := range m.videos {
		if filter.Matches(doc) {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (m *mockLibraryService) GetVideo(_ context.Context, videoID string) (*domain.VideoDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.videos[videoID]
	if !ok {
		return nil, fmt.Errorf("%w: video %s", domain.ErrNotFound, videoID)
	}
	cp := *doc
	cp.Tags = slices.Clone(doc.Tags)
	return &cp, nil
}

func (m *mockLibraryService) GetVideos(ctx context.Context, ids []string) ([]domain.VideoDocument, error) {
	var out []domain.VideoDocument
	for _, id := range ids {
		if doc, err := m.GetVideo(ctx, id); err == nil {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (m *mockLibraryService) Transcript(ctx context.Context, videoID string) (string, error) {
	doc, err := m.GetVideo(ctx, videoID)
	if err != nil {
		return "", err
	}
	return doc.Transcript, nil
}

func (m *mockLibraryService) AddTag(_ context.Context, videoID, tag string) error {
	doc := m.videos[videoID]
	if doc.HasTag(tag) {
		return nil
	}
	if len(doc.Tags) >= domain.MaxTags {
		return domain.ErrTagLimitExceeded
	}
	doc.Tags = append(doc.Tags, tag)
	return nil
}

func (m *mockLibraryService) RemoveTag(_ context.Context, videoID, tag string) error {
	doc := m.videos[videoID]
	doc.Tags = slices.DeleteFunc(doc.Tags, func(t string) bool { return t == tag })
	return nil
}

func (m *mockLibraryService) AllTags(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var tags []string
	for _, doc := range m.videos {
		for _, t := range doc.Tags {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	return tags, nil
}

func (m *mockLibraryService) VideosByTags(ctx context.Context, tags []string) ([]domain.VideoDocument, error) {
	return m.ListVideos(ctx, domain.VideoFilter{Tags: tags})
}

// mockFeedbackService is a mock implementation of driving.FeedbackService.
type mockFeedbackService struct {
	saved []domain.Feedback
}

func (m *mockFeedbackService) Submit(_ context.Context, userID, text string) (*domain.Feedback, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: feedback text is empty", domain.ErrInvalidInput)
	}
	fb := domain.Feedback{ID: uuid.NewString(), UserID: userID, Text: text, CreatedAt: time.Now()}
	m.saved = append(m.saved, fb)
	return &fb, nil
}
