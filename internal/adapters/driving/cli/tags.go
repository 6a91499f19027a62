package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage video tags",
	Long: `List all tags, or add and remove tags on a video.
A video carries at most 3 tags.`,
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags in use",
	Args:  cobra.NoArgs,
	RunE:  runTagsList,
}

var tagsAddCmd = &cobra.Command{
	Use:   "add [video-id] [tag]",
	Short: "Add a tag to a video",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagsAdd,
}

var tagsRemoveCmd = &cobra.Command{
	Use:   "remove [video-id] [tag]",
	Short: "Remove a tag from a video",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagsRemove,
}

func init() {
	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(tagsAddCmd)
	tagsCmd.AddCommand(tagsRemoveCmd)
	rootCmd.AddCommand(tagsCmd)
}

func runTagsList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	tags, err := libraryService.AllTags(cmd.Context())
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	if len(tags) == 0 {
		cmd.Println("No tags yet.")
		return nil
	}
	for _, tag := range tags {
		cmd.Printf("  %s\n", tag)
	}
	return nil
}

func runTagsAdd(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	if err := libraryService.AddTag(cmd.Context(), args[0], args[1]); err != nil {
		return errors.New(domain.UserMessage(err))
	}
	return printTags(cmd, args[0])
}

func runTagsRemove(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	if err := libraryService.RemoveTag(cmd.Context(), args[0], args[1]); err != nil {
		return errors.New(domain.UserMessage(err))
	}
	return printTags(cmd, args[0])
}

// printTags prints the current tags of a video after a change.
func printTags(cmd *cobra.Command, videoID string) error {
	doc, err := libraryService.GetVideo(cmd.Context(), videoID)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	tags := "(none)"
	if len(doc.Tags) > 0 {
		tags = strings.Join(doc.Tags, ", ")
	}
	cmd.Printf("Tags for %s: %s\n", videoID, tags)
	return nil
}
