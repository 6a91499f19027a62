package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

var (
	videosUser     string
	videosTags     []string
	videosUntagged bool
	videosFrom     string
	videosTo       string
	videosJSON     bool
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Browse your video library",
	Long:  `List processed videos and view their details and transcripts.`,
}

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your videos",
	Long: `Lists the videos in your library, most recently processed first.

Filter by tag with --tag (any of the given tags matches), show only untagged
videos with --untagged, or restrict to a processing date range with --from and
--to (YYYY-MM-DD, both required, inclusive).`,
	Args: cobra.NoArgs,
	RunE: runVideosList,
}

var videosShowCmd = &cobra.Command{
	Use:   "show [video-id]",
	Short: "Show video details",
	Args:  cobra.ExactArgs(1),
	RunE:  runVideosShow,
}

var videosTranscriptCmd = &cobra.Command{
	Use:   "transcript [video-id]",
	Short: "Print the full transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runVideosTranscript,
}

func init() {
	videosListCmd.Flags().StringVarP(&videosUser, "user", "u", defaultUser, "library owner")
	videosListCmd.Flags().StringSliceVarP(&videosTags, "tag", "t", nil, "only videos with any of these tags")
	videosListCmd.Flags().BoolVar(&videosUntagged, "untagged", false, "only videos without tags")
	videosListCmd.Flags().StringVar(&videosFrom, "from", "", "processed on or after (YYYY-MM-DD)")
	videosListCmd.Flags().StringVar(&videosTo, "to", "", "processed on or before (YYYY-MM-DD)")
	videosListCmd.Flags().BoolVar(&videosJSON, "json", false, "output as JSON")

	videosCmd.AddCommand(videosListCmd)
	videosCmd.AddCommand(videosShowCmd)
	videosCmd.AddCommand(videosTranscriptCmd)
	rootCmd.AddCommand(videosCmd)
}

func runVideosList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	filter, err := buildVideoFilter()
	if err != nil {
		return err
	}

	docs, err := libraryService.ListVideos(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}

	if videosJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal videos: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No videos found.")
		return nil
	}

	cmd.Printf("Videos (%d):\n\n", len(docs))
	for i := range docs {
		printVideoSummary(cmd, i, &docs[i])
	}
	return nil
}

// buildVideoFilter converts the list flags into a filter.
func buildVideoFilter() (domain.VideoFilter, error) {
	filter := domain.VideoFilter{
		UserID: videosUser,
		Tags:   videosTags,
		NoTags: videosUntagged,
	}

	if (videosFrom == "") != (videosTo == "") {
		return filter, errors.New("--from and --to must be given together")
	}
	if videosFrom == "" {
		return filter, nil
	}

	from, err := time.ParseInLocation(time.DateOnly, videosFrom, time.Local)
	if err != nil {
		return filter, fmt.Errorf("invalid --from date %q: expected YYYY-MM-DD", videosFrom)
	}
	to, err := time.ParseInLocation(time.DateOnly, videosTo, time.Local)
	if err != nil {
		return filter, fmt.Errorf("invalid --to date %q: expected YYYY-MM-DD", videosTo)
	}
	to = to.Add(24*time.Hour - time.Nanosecond)
	filter.From, filter.To = &from, &to
	return filter, nil
}

func runVideosShow(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	doc, err := libraryService.GetVideo(cmd.Context(), args[0])
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	printVideo(cmd, doc)
	return nil
}

func runVideosTranscript(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	transcript, err := libraryService.Transcript(cmd.Context(), args[0])
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	cmd.Println(transcript)
	return nil
}
