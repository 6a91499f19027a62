package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "askontube", rootCmd.Use)
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "data-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"ingest", "preview", "ask", "videos", "tags", "feedback",
		"serve", "mcp", "settings", "version", "auth",
	} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestPreRun_VersionSkipsWiring(t *testing.T) {
	defer resetFlags(rootCmd)

	out, err := execute("version")

	require.NoError(t, err)
	assert.Contains(t, out, "askontube version")
	assert.False(t, wired)
	assert.Nil(t, settingsService)
}

func TestServerConfig(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	t.Run("settings defaults", func(t *testing.T) {
		cfg, err := serverConfig()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Empty(t, cfg.AllowedOrigins)
	})

	t.Run("flags override settings", func(t *testing.T) {
		serveAddr = ":9000"
		serveOrigins = []string{"https://app.example.com"}
		defer func() {
			serveAddr = ""
			serveOrigins = nil
		}()

		cfg, err := serverConfig()
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	})
}

func TestMCPServeCmd_RequiresServices(t *testing.T) {
	wired = true
	defer func() {
		wired = false
		resetFlags(rootCmd)
	}()

	_, err := execute("mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "library service")
}
