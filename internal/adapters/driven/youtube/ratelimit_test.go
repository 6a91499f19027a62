package youtube

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})

	assert.True(t, r.Allow())
	assert.False(t, r.Allow())
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	r := NewRateLimiter()

	r.RecordRateLimitError(time.Minute)

	assert.False(t, r.Allow())
}

func TestRateLimiter_BackoffExpires(t *testing.T) {
	r := NewRateLimiter()
	now := time.Now()
	r.now = func() time.Time { return now }
	r.RecordRateLimitError(time.Second)

	r.now = func() time.Time { return now.Add(2 * time.Second) }

	assert.True(t, r.Allow())
}

func TestRateLimiter_DefaultBackoff(t *testing.T) {
	r := NewRateLimiter()
	now := time.Now()
	r.now = func() time.Time { return now }

	r.RecordRateLimitError(0)

	assert.Equal(t, now.Add(defaultBackoff), r.retryAt)
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := NewRateLimiter()
	r.RecordRateLimitError(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
