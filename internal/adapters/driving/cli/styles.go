package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// Palette shared by command output.
var (
	colourPrimary   = lipgloss.Color("#7C3AED")
	colourSecondary = lipgloss.Color("#06B6D4")
	colourMuted     = lipgloss.Color("#6C7086")
	colourSuccess   = lipgloss.Color("#A6E3A1")
	colourWarning   = lipgloss.Color("#F9E2AF")
	colourBorder    = lipgloss.Color("#45475A")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourSecondary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colourMuted)
	successStyle = lipgloss.NewStyle().Foreground(colourSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colourWarning)
	answerStyle  = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colourBorder).
			Padding(0, 1)
)

// printField prints an aligned "Label: value" line.
func printField(cmd *cobra.Command, label, value string) {
	cmd.Printf("  %s %s\n", labelStyle.Render(label+":"), value)
}

// printVideoSummary prints one line per video for listings.
func printVideoSummary(cmd *cobra.Command, i int, doc *domain.VideoDocument) {
	cmd.Printf("  [%d] %s\n", i+1, titleStyle.Render(doc.Title))
	meta := doc.VideoID + " | " + doc.Channel + " | " + domain.FormatDuration(doc.DurationSeconds) +
		" | " + doc.ProcessedAt.Format("2006-01-02")
	cmd.Printf("      %s\n", mutedStyle.Render(meta))
	if len(doc.Tags) > 0 {
		cmd.Printf("      Tags: %s\n", strings.Join(doc.Tags, ", "))
	}
}

// printVideo prints the full details of a stored video.
func printVideo(cmd *cobra.Command, doc *domain.VideoDocument) {
	cmd.Println(titleStyle.Render(doc.Title))
	printField(cmd, "Video ID", doc.VideoID)
	printField(cmd, "URL", doc.URL)
	printField(cmd, "Channel", doc.Channel)
	printField(cmd, "Duration", domain.FormatDuration(doc.DurationSeconds))
	printField(cmd, "Transcript", string(doc.TranscriptSource)+", "+strconv.Itoa(doc.TranscriptLength)+" chars")
	tags := "(none)"
	if len(doc.Tags) > 0 {
		tags = strings.Join(doc.Tags, ", ")
	}
	printField(cmd, "Tags", tags)
	printField(cmd, "Processed", doc.ProcessedAt.Format("2006-01-02 15:04"))
}

// printAnswer renders an answer in a bordered box with its sources.
func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	style := answerStyle
	if answer.Blocked || answer.Failed {
		style = style.BorderForeground(colourWarning)
	}
	cmd.Println(style.Render(answer.Text))
	if len(answer.Sources) > 0 {
		cmd.Println(mutedStyle.Render("Sources: " + strings.Join(answer.Sources, ", ")))
	}
}
