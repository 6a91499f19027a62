package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/askontube/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/services"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result    *domain.IngestResult
	preview   *domain.VideoPreview
	err       error
	gotInput  string
	gotUserID string
	progress  []domain.Progress
}

func (m *mockIngestService) Ingest(
	_ context.Context, input, userID string, progress domain.ProgressFunc,
) (*domain.IngestResult, error) {
	m.gotInput = input
	m.gotUserID = userID
	if progress != nil {
		for _, p := range m.progress {
			progress(p)
		}
	}
	return m.result, m.err
}

func (m *mockIngestService) Preview(_ context.Context, input string) (*domain.VideoPreview, error) {
	m.gotInput = input
	return m.preview, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer   *domain.Answer
	err      error
	mode     string
	userID   string
	videoID  string
	tags     []string
	question string
}

func (m *mockAnswerService) Answer(_ context.Context, query string, _ []domain.VideoDocument) (*domain.Answer, error) {
	m.question = query
	return m.answer, m.err
}

func (m *mockAnswerService) AskVideo(_ context.Context, userID, videoID, query string) (*domain.Answer, error) {
	m.mode, m.userID, m.videoID, m.question = "video", userID, videoID, query
	return m.answer, m.err
}

func (m *mockAnswerService) AskTags(_ context.Context, userID string, tags []string, query string) (*domain.Answer, error) {
	m.mode, m.userID, m.tags, m.question = "tags", userID, tags, query
	return m.answer, m.err
}

// testEnv holds the services installed by setupTestServices.
type testEnv struct {
	store  *memory.VideoStore
	ingest *mockIngestService
	answer *mockAnswerService
	config *memory.ConfigStore
}

var env *testEnv

func testVideo(videoID, title string, processed time.Time, tags ...string) domain.VideoDocument {
	if tags == nil {
		tags = []string{}
	}
	transcript := "Transcript of " + title
	return domain.VideoDocument{
		VideoID:          videoID,
		URL:              domain.CanonicalVideoURL(videoID),
		UserIDs:          []string{defaultUser},
		Title:            title,
		Channel:          "Test Channel",
		DurationSeconds:  212,
		Transcript:       transcript,
		TranscriptSource: domain.TranscriptSourceCaption,
		TranscriptLength: len(transcript),
		Tags:             tags,
		CreatedAt:        processed,
		UpdatedAt:        processed,
		ProcessedAt:      processed,
	}
}

// setupTestServices installs services backed by an in-memory store seeded
// with two videos, and returns a cleanup function.
func setupTestServices() func() {
	store := memory.NewVideoStore()
	seed := []domain.VideoDocument{
		testVideo("dQw4w9WgXcQ", "Never Gonna Give You Up", time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local), "music"),
		testVideo("jNQXAC9IVRw", "Me at the zoo", time.Date(2024, 2, 20, 12, 0, 0, 0, time.Local)),
	}
	for i := range seed {
		if err := store.Insert(context.Background(), &seed[i]); err != nil {
			panic(err)
		}
	}

	config := memory.NewConfigStore()
	env = &testEnv{
		store:  store,
		ingest: &mockIngestService{},
		answer: &mockAnswerService{answer: &domain.Answer{Text: "It is a song.", Sources: []string{"dQw4w9WgXcQ"}}},
		config: config,
	}

	settingsService = services.NewSettingsService(config, nil)
	ingestService = env.ingest
	answerService = env.answer
	libraryService = services.NewLibraryService(store)
	feedbackService = services.NewFeedbackService(store)
	wired = true

	return func() {
		settingsService = nil
		ingestService = nil
		answerService = nil
		libraryService = nil
		feedbackService = nil
		wired = false
		env = nil
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag to its default so tests do not leak state
// through the package-level command tree.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
