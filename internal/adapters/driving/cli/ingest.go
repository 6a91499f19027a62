package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/logger"
)

// defaultUser owns videos ingested from the command line when --user is not given.
const defaultUser = "local"

var errIngestNotConfigured = errors.New(
	"ingestion not configured: set YOUTUBE_API_KEY and an embedding provider (see 'askontube settings')")

var (
	ingestUser  string
	ingestQuiet bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [url]",
	Short: "Process a YouTube video",
	Long: `Fetches the video's metadata and captions, transcribes the audio when no
captions exist, embeds the transcript and stores it in your library.

A video is processed once. Ingesting a video someone else already processed
adds it to your library without fetching anything again.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var previewCmd = &cobra.Command{
	Use:   "preview [url]",
	Short: "Show video details before processing",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestUser, "user", "u", defaultUser, "user the video is added for")
	ingestCmd.Flags().BoolVarP(&ingestQuiet, "quiet", "q", false, "do not print progress")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(previewCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}

	var progress domain.ProgressFunc
	if !ingestQuiet {
		progress = func(p domain.Progress) {
			cmd.Printf("%s %s\n", mutedStyle.Render(fmt.Sprintf("[%3d%%]", p.Percent)), p.Message)
		}
	}

	result, err := ingestService.Ingest(cmd.Context(), args[0], ingestUser, progress)
	if err != nil {
		logger.Debug("ingest %s: %v", args[0], err)
		return fmt.Errorf("ingest failed: %s", domain.UserMessage(err))
	}

	cmd.Println()
	if result.Reused {
		cmd.Println(successStyle.Render("Video already processed; added to your library."))
	} else {
		cmd.Println(successStyle.Render(fmt.Sprintf("Video processed in %s.",
			domain.FormatDuration(int(result.Elapsed.Seconds())))))
	}
	cmd.Println()
	printVideo(cmd, result.Document)
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}

	preview, err := ingestService.Preview(cmd.Context(), args[0])
	if err != nil {
		logger.Debug("preview %s: %v", args[0], err)
		return fmt.Errorf("preview failed: %s", domain.UserMessage(err))
	}

	cmd.Println(titleStyle.Render(preview.Metadata.Title))
	printField(cmd, "Video ID", preview.Metadata.VideoID)
	printField(cmd, "URL", preview.URL)
	printField(cmd, "Channel", preview.Metadata.Channel)
	printField(cmd, "Duration", domain.FormatDuration(preview.Metadata.DurationSeconds))
	printField(cmd, "Estimated processing", domain.FormatDuration(preview.EstimatedSeconds))

	switch {
	case preview.AlreadyProcessed:
		cmd.Println(successStyle.Render("Already processed; ingesting adds it to your library instantly."))
	case preview.TooLong:
		cmd.Println(warningStyle.Render("This video is longer than the configured maximum and cannot be processed."))
	}
	return nil
}
