package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

var errNoSettings = errors.New("settings service not configured")

// providerFlags select a provider without prompting.
type providerFlags struct {
	provider string
	model    string
	apiKey   string
}

var (
	embeddingFlags providerFlags
	llmFlags       providerFlags
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure ingestion limits, AI providers, storage and other options.

Settings live in ~/.askontube/config.toml. Environment variables (also read
from a .env file) override the file: YOUTUBE_API_KEY, OPENAI_API_KEY,
GEMINI_API_KEY, MONGODB_URI, REDIS_URL, ASKONTUBE_MAX_VIDEO_DURATION.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	RunE:  runSettingsWizard,
}

var settingsDurationCmd = &cobra.Command{
	Use:   "max-duration [seconds]",
	Short: "Set the longest video accepted for ingestion",
	Long: `Set the maximum video duration, in seconds, accepted for ingestion.
Longer videos are rejected before anything is downloaded. Default: 1200 (20m).`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsDuration,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	Long: `Configure the provider that embeds transcripts. Without --provider the
command prompts for each value.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return configureProvider(cmd, newPrompter(cmd), embeddingTarget, embeddingFlags)
	},
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider",
	Long: `Configure the provider that answers questions. Without --provider the
command prompts for each value.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return configureProvider(cmd, newPrompter(cmd), llmTarget, llmFlags)
	},
}

func init() {
	for _, c := range []struct {
		cmd   *cobra.Command
		flags *providerFlags
	}{{settingsEmbeddingCmd, &embeddingFlags}, {settingsLLMCmd, &llmFlags}} {
		c.cmd.Flags().StringVar(&c.flags.provider, "provider", "", "Provider name, skips the prompts")
		c.cmd.Flags().StringVar(&c.flags.model, "model", "", "Model name (default: the provider's default)")
		c.cmd.Flags().StringVar(&c.flags.apiKey, "api-key", "", "API key (default: the shared provider key)")
	}

	settingsCmd.AddCommand(settingsShowCmd, settingsWizardCmd, settingsDurationCmd,
		settingsEmbeddingCmd, settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(titleStyle.Render("Current Settings"))
	cmd.Println()

	section(cmd, "Ingestion",
		"Max video duration", fmt.Sprintf("%s (%d seconds)", domain.FormatDuration(s.MaxVideoDuration), s.MaxVideoDuration),
		"Caption languages", strings.Join(s.CaptionLanguages, ", "),
		"YouTube API key", describeKey(s.YouTube.APIKey),
		"YouTube OAuth", configuredStatus(s.YouTube.RefreshToken != ""),
		"yt-dlp", s.Audio.YtDlpPath,
		"yt-dlp cookies", configuredStatus(s.Audio.CookiesFile != ""),
	)
	section(cmd, "Transcription",
		"Model", s.Transcription.Model,
		"API key", describeKey(s.Transcription.APIKey),
	)

	emb := []string{
		"Provider", s.Embedding.Provider.Description(),
		"Model", s.Embedding.Model,
		"Max chunk tokens", strconv.Itoa(s.Embedding.MaxChunkTokens),
	}
	emb = append(emb, providerAccess(s.Embedding.Provider, s.Embedding.BaseURL, s.Embedding.APIKey)...)
	section(cmd, "Embedding", append(emb, "Status", configuredStatus(s.Embedding.IsConfigured()))...)

	llm := []string{"Provider", s.LLM.Provider.Description(), "Model", s.LLM.Model}
	llm = append(llm, providerAccess(s.LLM.Provider, s.LLM.BaseURL, s.LLM.APIKey)...)
	section(cmd, "LLM", append(llm, "Status", configuredStatus(s.LLM.IsConfigured()))...)

	storage := []string{"Backend", string(s.Storage.Backend)}
	if s.Storage.Backend == domain.StorageMongo {
		storage = append(storage, "Database", s.Storage.MongoDatabase)
	}
	section(cmd, "Storage", storage...)

	lock := []string{"Backend", string(s.Lock.Backend)}
	if s.Lock.Backend != domain.LockNone {
		lock = append(lock, "TTL", s.Lock.TTL.String())
	}
	section(cmd, "Ingest Lock", lock...)
	section(cmd, "Server", "Address", s.Server.Addr)

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'askontube settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

// section prints a [title] block of label/value pairs.
func section(cmd *cobra.Command, title string, pairs ...string) {
	cmd.Printf("[%s]\n", title)
	for i := 0; i+1 < len(pairs); i += 2 {
		cmd.Printf("  %s: %s\n", pairs[i], pairs[i+1])
	}
	cmd.Println()
}

func providerAccess(p domain.AIProvider, baseURL, apiKey string) []string {
	var out []string
	if p.IsLocal() {
		out = append(out, "Base URL", baseURL)
	}
	if p.RequiresAPIKey() {
		out = append(out, "API key", describeKey(apiKey))
	}
	return out
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	in := newPrompter(cmd)

	cmd.Println(titleStyle.Render("askontube setup"))
	cmd.Println()

	cmd.Println(labelStyle.Render("1. Maximum video duration"))
	current := domain.DefaultMaxVideoDuration
	if s, err := settingsService.Get(); err == nil {
		current = s.MaxVideoDuration
	}
	if answer := in.ask(fmt.Sprintf("Seconds [%d]: ", current)); answer != "" {
		seconds, err := parseSeconds(answer)
		if err != nil {
			return err
		}
		current = seconds
	}
	if err := settingsService.SetMaxVideoDuration(current); err != nil {
		return fmt.Errorf("failed to set max duration: %w", err)
	}
	cmd.Printf("Max video duration set to: %s\n\n", domain.FormatDuration(current))

	cmd.Println(labelStyle.Render("2. Embeddings, used when a video is processed"))
	if err := configureProvider(cmd, in, embeddingTarget, providerFlags{}); err != nil {
		return err
	}

	cmd.Println(labelStyle.Render("3. LLM, used to answer questions"))
	if err := configureProvider(cmd, in, llmTarget, providerFlags{}); err != nil {
		return err
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}
	return nil
}

func runSettingsDuration(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	seconds, err := parseSeconds(args[0])
	if err != nil {
		return err
	}
	if err := settingsService.SetMaxVideoDuration(seconds); err != nil {
		return fmt.Errorf("failed to set max duration: %w", err)
	}
	cmd.Printf("Max video duration set to: %s\n", domain.FormatDuration(seconds))
	return nil
}

func parseSeconds(s string) (int, error) {
	seconds, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("invalid duration %q: must be a positive number of seconds", s)
	}
	return seconds, nil
}

// providerTarget is one configurable provider slot.
type providerTarget struct {
	name      string
	providers func() []domain.AIProvider
	defaults  func() map[domain.AIProvider]string
	set       func(p domain.AIProvider, model, apiKey string) error
	validate  func() error
}

var embeddingTarget = providerTarget{
	name:      "embedding",
	providers: domain.AllEmbeddingProviders,
	defaults:  domain.DefaultEmbeddingModels,
	set: func(p domain.AIProvider, model, apiKey string) error {
		return settingsService.SetEmbeddingProvider(p, model, apiKey)
	},
	validate: func() error { return settingsService.ValidateEmbeddingConfig() },
}

var llmTarget = providerTarget{
	name:      "LLM",
	providers: domain.AllLLMProviders,
	defaults:  domain.DefaultLLMModels,
	set: func(p domain.AIProvider, model, apiKey string) error {
		return settingsService.SetLLMProvider(p, model, apiKey)
	},
	validate: func() error { return settingsService.ValidateLLMConfig() },
}

// configureProvider stores the provider, model and key for target, then
// pings the provider. Values missing from flags are prompted for.
func configureProvider(cmd *cobra.Command, in *prompter, target providerTarget, flags providerFlags) error {
	if settingsService == nil {
		return errNoSettings
	}

	providers := target.providers()
	var provider domain.AIProvider
	if flags.provider != "" {
		provider = domain.AIProvider(strings.ToLower(flags.provider))
	} else {
		cmd.Printf("Select %s provider\n", target.name)
		for i, p := range providers {
			cmd.Printf("  %d. %s\n", i+1, p.Description())
		}
		provider = providers[parseChoice(in.ask("Choice [1]: "), len(providers), 1)-1]
	}

	model := flags.model
	if model == "" && flags.provider == "" {
		def := target.defaults()[provider]
		if model = in.ask(fmt.Sprintf("Model [%s]: ", def)); model == "" {
			model = def
		}
	}

	apiKey := flags.apiKey
	if apiKey == "" && flags.provider == "" && provider.RequiresAPIKey() {
		apiKey = in.secret("API key (blank to use the shared key): ")
	}

	if err := target.set(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", target.name, err)
	}

	cmd.Print("Validating configuration... ")
	if err := target.validate(); err != nil {
		cmd.Println("FAILED")
		return fmt.Errorf("%s configuration validation failed: %w", target.name, err)
	}
	cmd.Println("OK")

	s, err := settingsService.Get()
	if err == nil {
		if target.name == embeddingTarget.name {
			model = s.Embedding.Model
		} else {
			model = s.LLM.Model
		}
	}
	cmd.Printf("%s provider configured: %s (%s)\n\n", target.name, provider.Description(), model)
	return nil
}

// prompter reads answers from the command's input.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
	in     io.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{cmd: cmd, reader: bufio.NewReader(in), in: in}
}

func (p *prompter) ask(question string) string {
	p.cmd.Print(question)
	line, _ := p.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// secret reads without echo when the input is a terminal.
func (p *prompter) secret(question string) string {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.cmd.Print(question)
		b, err := term.ReadPassword(int(f.Fd()))
		p.cmd.Println()
		if err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return p.ask(question)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	val, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// describeKey renders a credential for display without revealing it.
func describeKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
