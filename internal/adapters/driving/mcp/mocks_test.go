package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result    *domain.IngestResult
	err       error
	gotInput  string
	gotUserID string
}

func (m *mockIngestService) Ingest(
	_ context.Context, input, userID string, _ domain.ProgressFunc,
) (*domain.IngestResult, error) {
	m.gotInput = input
	m.gotUserID = userID
	return m.result, m.err
}

func (m *mockIngestService) Preview(_ context.Context, _ string) (*domain.VideoPreview, error) {
	return nil, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer     *domain.Answer
	err        error
	gotVideoID string
	gotTags    []string
	calledWith string
}

func (m *mockAnswerService) Answer(
	_ context.Context, _ string, _ []domain.VideoDocument,
) (*domain.Answer, error) {
	m.calledWith = "answer"
	return m.answer, m.err
}

func (m *mockAnswerService) AskVideo(_ context.Context, _, videoID, _ string) (*domain.Answer, error) {
	m.calledWith = "video"
	m.gotVideoID = videoID
	return m.answer, m.err
}

func (m *mockAnswerService) AskTags(_ context.Context, _ string, tags []string, _ string) (*domain.Answer, error) {
	m.calledWith = "tags"
	m.gotTags = tags
	return m.answer, m.err
}

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	videos     []domain.VideoDocument
	transcript string
	err        error
	gotFilter  domain.VideoFilter
}

func (m *mockLibraryService) ListVideos(_ context.Context, filter domain.VideoFilter) ([]domain.VideoDocument, error) {
	m.gotFilter = filter
	return m.videos, m.err
}

func (m *mockLibraryService) GetVideo(_ context.Context, _ string) (*domain.VideoDocument, error) {
	if len(m.videos) == 0 {
		return nil, m.err
	}
	return &m.videos[0], m.err
}

func (m *mockLibraryService) GetVideos(_ context.Context, _ []string) ([]domain.VideoDocument, error) {
	return m.videos, m.err
}

func (m *mockLibraryService) Transcript(_ context.Context, _ string) (string, error) {
	return m.transcript, m.err
}

func (m *mockLibraryService) AddTag(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockLibraryService) RemoveTag(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockLibraryService) AllTags(_ context.Context) ([]string, error) {
	return nil, m.err
}

func (m *mockLibraryService) VideosByTags(_ context.Context, _ []string) ([]domain.VideoDocument, error) {
	return m.videos, m.err
}

// newTestServer creates a server, filling required ports with empty mocks.
func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Library == nil {
		ports.Library = &mockLibraryService{}
	}
	if ports.Answer == nil {
		ports.Answer = &mockAnswerService{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}
