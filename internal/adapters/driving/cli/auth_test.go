package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthYouTubeCmd_Flags(t *testing.T) {
	for _, name := range []string{"client-id", "client-secret", "no-browser", "port"} {
		assert.NotNil(t, authYouTubeCmd.Flags().Lookup(name), name)
	}
}

func TestAuthYouTubeCmd_RequiresClient(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("auth", "youtube", "--client-id", "only-id")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OAuth client is required")
}

func TestAuthYouTubeCmd_NotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, err := execute("auth", "youtube")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
