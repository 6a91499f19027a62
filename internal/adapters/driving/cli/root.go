// Package cli provides the askontube command-line interface.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askontube/internal/core/ports/driving"
	"github.com/custodia-labs/askontube/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// skipWiring marks commands that run without services.
const skipWiring = "askontube.skip-wiring"

// Global flags.
var (
	verbose   bool
	configDir string
	dataDir   string
)

// Services used by commands. Populated by wireServices before a command runs,
// or directly by tests.
var (
	settingsService driving.SettingsService
	ingestService   driving.IngestService
	answerService   driving.AnswerService
	libraryService  driving.LibraryService
	feedbackService driving.FeedbackService
)

// wired is true once the services above are populated.
var wired bool

// shutdown releases resources acquired by wireServices.
var shutdown = func() {}

var rootCmd = &cobra.Command{
	Use:   "askontube",
	Short: "Ask questions about YouTube videos",
	Long: `askontube turns YouTube videos into a searchable transcript library.

Ingest a video by URL and askontube fetches its captions (or transcribes the
audio when there are none), embeds the transcript and stores it. Then ask
questions against a single video or every video carrying a tag.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.askontube)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.askontube/data)")
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if wired || cmd.Annotations[skipWiring] == "true" {
		return nil
	}

	cleanup, err := wireServices(cmd.Context())
	if err != nil {
		return err
	}
	shutdown = cleanup
	wired = true
	return nil
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
