package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

var (
	askUser  string
	askVideo string
	askTags  []string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your videos",
	Long: `Answers a question using your video transcripts as the only source.

With --video the answer comes from that single video. Otherwise the five
transcripts most similar to the question are used, taken from the videos
carrying any of the --tag values or from your whole library.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askUser, "user", "u", defaultUser, "user whose library is searched")
	askCmd.Flags().StringVar(&askVideo, "video", "", "answer from a single video id")
	askCmd.Flags().StringSliceVarP(&askTags, "tag", "t", nil, "restrict to videos with any of these tags")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.MarkFlagsMutuallyExclusive("video", "tag")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	question := strings.Join(args, " ")

	var (
		answer *domain.Answer
		err    error
	)
	if askVideo != "" {
		answer, err = answerService.AskVideo(cmd.Context(), askUser, askVideo, question)
	} else {
		answer, err = answerService.AskTags(cmd.Context(), askUser, askTags, question)
	}
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	printAnswer(cmd, answer)
	return nil
}

type answerJSON struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Blocked bool     `json:"blocked,omitempty"`
	Failed  bool     `json:"failed,omitempty"`
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	data, err := json.MarshalIndent(answerJSON{
		Answer:  answer.Text,
		Sources: sources,
		Blocked: answer.Blocked,
		Failed:  answer.Failed,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
