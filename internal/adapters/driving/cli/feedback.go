package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

var feedbackUser string

var feedbackCmd = &cobra.Command{
	Use:   "feedback [message]",
	Short: "Send feedback",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFeedback,
}

func init() {
	feedbackCmd.Flags().StringVarP(&feedbackUser, "user", "u", defaultUser, "user sending the feedback")
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	if _, err := feedbackService.Submit(cmd.Context(), feedbackUser, strings.Join(args, " ")); err != nil {
		return errors.New(domain.UserMessage(err))
	}

	cmd.Println(successStyle.Render("Thanks for your feedback!"))
	return nil
}
