package driven

import (
	"context"
	"time"
)

// IngestLock is a short-lived per-video claim guarding concurrent ingestion.
type IngestLock interface {
	// Acquire claims the key for ttl. Returns false when another holder has it.
	// The returned release function is safe to call more than once and only
	// releases a claim this call still holds.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}
