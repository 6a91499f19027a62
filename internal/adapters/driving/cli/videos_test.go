package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

func TestVideosListCmd_ListsNewestFirst(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("videos", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Videos (2):")
	zoo := strings.Index(out, "Me at the zoo")
	song := strings.Index(out, "Never Gonna Give You Up")
	require.True(t, zoo >= 0 && song >= 0)
	assert.Less(t, zoo, song)
	assert.Contains(t, out, "Tags: music")
}

func TestVideosListCmd_OtherUserSeesNothing(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("videos", "list", "--user", "mallory")

	require.NoError(t, err)
	assert.Contains(t, out, "No videos found.")
}

func TestVideosListCmd_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"by tag", []string{"--tag", "music"}, []string{"dQw4w9WgXcQ"}},
		{"untagged", []string{"--untagged"}, []string{"jNQXAC9IVRw"}},
		{"date range", []string{"--from", "2024-02-01", "--to", "2024-02-20"}, []string{"jNQXAC9IVRw"}},
		{"empty range", []string{"--from", "2023-01-01", "--to", "2023-12-31"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestServices()
			defer cleanup()

			out, err := execute(append([]string{"videos", "list", "--json"}, tt.args...)...)

			require.NoError(t, err)
			var docs []domain.VideoDocument
			require.NoError(t, json.Unmarshal([]byte(out), &docs))
			ids := make([]string, 0, len(docs))
			for i := range docs {
				ids = append(ids, docs[i].VideoID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestVideosListCmd_DateValidation(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("videos", "list", "--from", "2024-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be given together")

	resetFlags(rootCmd)
	_, err = execute("videos", "list", "--from", "01/01/2024", "--to", "2024-02-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestVideosShowCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("videos", "show", "dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Contains(t, out, "Never Gonna Give You Up")
	assert.Contains(t, out, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.Contains(t, out, "caption")
	assert.Contains(t, out, "music")
}

func TestVideosShowCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("videos", "show", "missing0000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in your library")
}

func TestVideosTranscriptCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("videos", "transcript", "jNQXAC9IVRw")

	require.NoError(t, err)
	assert.Equal(t, "Transcript of Me at the zoo\n", out)
}
