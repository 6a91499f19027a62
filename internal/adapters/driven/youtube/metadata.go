package youtube

import (
	"context"
	"fmt"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/logger"
)

// FetchMetadata returns the title, channel and duration of a video.
func (c *Client) FetchMetadata(ctx context.Context, videoID string) (*domain.VideoMetadata, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		c.recordRateLimit(err)
		return nil, wrapError(err, "list videos", domain.ErrVideoNotFound)
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrVideoNotFound, videoID)
	}

	item := resp.Items[0]
	meta := &domain.VideoMetadata{VideoID: videoID}
	if item.Snippet != nil {
		meta.Title = item.Snippet.Title
		meta.Channel = item.Snippet.ChannelTitle
	}
	if item.ContentDetails != nil {
		seconds, err := domain.ParseDuration(item.ContentDetails.Duration)
		if err != nil {
			return nil, fmt.Errorf("%w: video %s: %w", domain.ErrUpstream, videoID, err)
		}
		meta.DurationSeconds = seconds
	}

	logger.Debug("youtube: %s is %q by %q (%ds)", videoID, meta.Title, meta.Channel, meta.DurationSeconds)
	return meta, nil
}

func (c *Client) recordRateLimit(err error) {
	if IsRateLimited(err) {
		wait := retryAfter(err)
		logger.Warn("youtube: rate limited, backing off %s", wait)
		c.rateLimiter.RecordRateLimitError(wait)
	}
}
