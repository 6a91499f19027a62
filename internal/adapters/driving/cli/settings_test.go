package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey(""))
	assert.Equal(t, "****", maskAPIKey("12345678"))
	assert.Equal(t, "sk-1...cdef", maskAPIKey("sk-1234567890abcdef"))
	assert.Equal(t, "(not set)", describeKey(""))
}

func TestParseChoice(t *testing.T) {
	tests := map[string]int{"": 1, "3": 3, "0": 1, "6": 1, "abc": 1, " 5 ": 5, "-1": 1}
	for input, want := range tests {
		assert.Equal(t, want, parseChoice(input, 5, 1), "input %q", input)
	}
}

// withInput feeds answers to prompting commands.
func withInput(t *testing.T, lines ...string) {
	t.Helper()
	rootCmd.SetIn(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })
}

func TestSettingsShowCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Ingestion]")
	assert.Contains(t, out, "20m 0s (1200 seconds)")
	assert.Contains(t, out, "YouTube API key: (not set)")
	assert.Contains(t, out, "[LLM]")
	assert.Contains(t, out, "[Server]")
}

func TestSettingsMaxDurationCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "max-duration", "600")

	require.NoError(t, err)
	assert.Contains(t, out, "10m 0s")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 600, settings.MaxVideoDuration)
}

func TestSettingsMaxDurationCmd_Invalid(t *testing.T) {
	for _, arg := range []string{"ten", "0", "-5"} {
		t.Run(arg, func(t *testing.T) {
			cleanup := setupTestServices()
			defer cleanup()

			_, err := execute("settings", "max-duration", "--", arg)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "positive number of seconds")
		})
	}
}

func TestSettingsLLMCmd_Flags(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "llm", "--provider", "OpenAI", "--model", "gpt-4o-mini", "--api-key", "sk-flag-key-1234")

	require.NoError(t, err)
	assert.Contains(t, out, "Validating configuration... OK")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", settings.LLM.Model)
	assert.Equal(t, "sk-flag-key-1234", settings.LLM.APIKey)
}

func TestSettingsEmbeddingCmd_RejectsChatOnlyProvider(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("settings", "embedding", "--provider", "anthropic", "--api-key", "k")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support embeddings")
}

func TestSettingsEmbeddingCmd_Prompts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	withInput(t, "2", "")

	out, err := execute("settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "Select embedding provider")
	assert.Contains(t, out, "Model [nomic-embed-text]: ")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
}

func TestSettingsWizardCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	// duration, embedding provider and model, LLM provider, model and key
	withInput(t, "900", "2", "", "1", "", "gm-test-key-5678")

	out, err := execute("settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "15m 0s")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 900, settings.MaxVideoDuration)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, domain.AIProviderGemini, settings.LLM.Provider)
	assert.Equal(t, domain.DefaultLLMModel, settings.LLM.Model)
	assert.Equal(t, "gm-test-key-5678", settings.LLM.APIKey)
}

func TestSettingsWizardCmd_BadDuration(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	withInput(t, "soon")

	_, err := execute("settings", "wizard")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive number of seconds")
}
