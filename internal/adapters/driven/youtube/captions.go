package youtube

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/asticode/go-astisub"
	yt "google.golang.org/api/youtube/v3"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/logger"
)

// captionFormat is the track format requested from the download endpoint.
const captionFormat = "vtt"

// FetchCaptions selects a caption track by language preference and downloads it.
// Without a preferred language the first listed track is used.
func (c *Client) FetchCaptions(ctx context.Context, videoID string) domain.CaptionResult {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return domain.CaptionsTransportError(fmt.Errorf("rate limit wait: %w", err))
	}

	listCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	resp, err := c.svc.Captions.List([]string{"snippet"}, videoID).Context(listCtx).Do()
	if err != nil {
		c.recordRateLimit(err)
		return domain.CaptionsTransportError(wrapError(err, "list captions", domain.ErrNotFound))
	}

	track := selectTrack(resp.Items, c.languages)
	if track == nil {
		logger.Debug("youtube: no caption tracks for %s", videoID)
		return domain.CaptionsNotAvailable()
	}

	language := ""
	if track.Snippet != nil {
		language = track.Snippet.Language
	}

	text, err := c.downloadTrack(ctx, track.Id)
	if err != nil {
		return domain.CaptionsTransportError(err)
	}
	if text == "" {
		return domain.CaptionsNotAvailable()
	}

	logger.Debug("youtube: downloaded %s captions for %s (%d chars)", language, videoID, len(text))
	return domain.CaptionsFound(text, language)
}

func (c *Client) downloadTrack(ctx context.Context, trackID string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	resp, err := c.svc.Captions.Download(trackID).Tfmt(captionFormat).Context(ctx).Download()
	if err != nil {
		c.recordRateLimit(err)
		return "", wrapError(err, "download captions", domain.ErrNotFound)
	}
	defer resp.Body.Close()

	return ParseWebVTT(resp.Body)
}

// selectTrack returns the first track in a preferred language,
// or the first track when none matches.
func selectTrack(items []*yt.Caption, languages []string) *yt.Caption {
	if len(items) == 0 {
		return nil
	}
	for _, lang := range languages {
		for _, item := range items {
			if item.Snippet != nil && item.Snippet.Language == lang {
				return item
			}
		}
	}
	return items[0]
}

// ParseWebVTT extracts the spoken text of a WebVTT track.
// Cue lines are joined with spaces and repeated consecutive lines,
// common in automatic captions, are kept once.
func ParseWebVTT(r io.Reader) (string, error) {
	subs, err := astisub.ReadFromWebVTT(r)
	if err != nil {
		return "", fmt.Errorf("%w: parse captions: %w", domain.ErrUpstream, err)
	}

	var lines []string
	for _, item := range subs.Items {
		for _, line := range item.Lines {
			parts := make([]string, 0, len(line.Items))
			for _, li := range line.Items {
				if t := strings.TrimSpace(li.Text); t != "" {
					parts = append(parts, t)
				}
			}
			text := strings.Join(parts, " ")
			if text == "" || (len(lines) > 0 && lines[len(lines)-1] == text) {
				continue
			}
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, " "), nil
}
