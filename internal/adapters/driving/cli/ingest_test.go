package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [url]", ingestCmd.Use)
}

func TestIngestCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_HasUserFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("user")
	require.NotNil(t, flag)
	assert.Equal(t, "u", flag.Shorthand)
	assert.Equal(t, defaultUser, flag.DefValue)
}

func TestIngestCmd_NotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestService = nil

	_, err := execute("ingest", "https://youtu.be/dQw4w9WgXcQ")

	assert.ErrorIs(t, err, errIngestNotConfigured)
}

func TestIngestCmd_ProcessesVideo(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	doc := testVideo("M7lc1UVf-VE", "YouTube Developers Live", time.Now())
	env.ingest.result = &domain.IngestResult{Document: &doc, Elapsed: 95 * time.Second}
	env.ingest.progress = []domain.Progress{
		{State: domain.IngestStateFetchMetadata, Percent: 10, Message: "Fetching video details"},
		{State: domain.IngestStateDone, Percent: 100, Message: "Done"},
	}

	out, err := execute("ingest", "--user", "alice", "https://youtu.be/M7lc1UVf-VE")

	require.NoError(t, err)
	assert.Equal(t, "alice", env.ingest.gotUserID)
	assert.Equal(t, "https://youtu.be/M7lc1UVf-VE", env.ingest.gotInput)
	assert.Contains(t, out, "[ 10%]")
	assert.Contains(t, out, "Fetching video details")
	assert.Contains(t, out, "Video processed in 1m 35s.")
	assert.Contains(t, out, "YouTube Developers Live")
	assert.Contains(t, out, "3m 32s")
}

func TestIngestCmd_QuietSuppressesProgress(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	doc := testVideo("M7lc1UVf-VE", "YouTube Developers Live", time.Now())
	env.ingest.result = &domain.IngestResult{Document: &doc}
	env.ingest.progress = []domain.Progress{{Percent: 10, Message: "Fetching video details"}}

	out, err := execute("ingest", "-q", "M7lc1UVf-VE")

	require.NoError(t, err)
	assert.NotContains(t, out, "Fetching video details")
}

func TestIngestCmd_Reused(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	doc := testVideo("dQw4w9WgXcQ", "Never Gonna Give You Up", time.Now())
	env.ingest.result = &domain.IngestResult{Document: &doc, Reused: true}

	out, err := execute("ingest", "dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Contains(t, out, "already processed")
}

func TestIngestCmd_ShowsUserMessage(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	env.ingest.err = &domain.DurationExceededError{Actual: 3600, Allowed: 1200}

	_, err := execute("ingest", "dQw4w9WgXcQ")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "too long (1h 0m 0s)")
	assert.Contains(t, err.Error(), "20m 0s")
}

func TestPreviewCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	env.ingest.preview = &domain.VideoPreview{
		Metadata: domain.VideoMetadata{
			VideoID:         "dQw4w9WgXcQ",
			Title:           "Never Gonna Give You Up",
			Channel:         "Rick Astley",
			DurationSeconds: 212,
		},
		URL:              domain.CanonicalVideoURL("dQw4w9WgXcQ"),
		EstimatedSeconds: 21,
		AlreadyProcessed: true,
	}

	out, err := execute("preview", "https://youtu.be/dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Contains(t, out, "Never Gonna Give You Up")
	assert.Contains(t, out, "Rick Astley")
	assert.Contains(t, out, "21s")
	assert.Contains(t, out, "Already processed")
}

func TestPreviewCmd_InvalidURL(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	env.ingest.err = domain.ErrInvalidURL

	_, err := execute("preview", "not a url")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid YouTube URL")
}
