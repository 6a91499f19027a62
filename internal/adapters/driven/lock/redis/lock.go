// Package redis provides a Redis-backed implementation of driven.IngestLock,
// so separate processes sharing one library never ingest the same video twice.
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/askontube/internal/core/domain"
	"github.com/custodia-labs/askontube/internal/core/ports/driven"
	"github.com/custodia-labs/askontube/internal/logger"
)

// Verify interface compliance.
var _ driven.IngestLock = (*Lock)(nil)

// DefaultKeyPrefix namespaces claim keys.
const DefaultKeyPrefix = "askontube:lock:"

// releaseTimeout bounds the release call, which runs after the request context may be gone.
const releaseTimeout = 3 * time.Second

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock claims keys with SET NX PX.
type Lock struct {
	rdb    goredis.UniversalClient
	prefix string
}

// New creates a lock using an existing client.
func New(rdb goredis.UniversalClient) *Lock {
	return &Lock{rdb: rdb, prefix: DefaultKeyPrefix}
}

// Connect parses a redis:// URL, verifies connectivity, and returns a lock.
func Connect(ctx context.Context, redisURL string) (*Lock, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: redis URL: %w", domain.ErrInvalidInput, err)
	}

	rdb := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: redis unreachable at %s: %w", domain.ErrUpstream, opts.Addr, err)
	}

	logger.Debug("Ingest lock: redis connected at %s", opts.Addr)
	return New(rdb), nil
}

// Acquire claims the key for ttl.
func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: redis claim: %w", domain.ErrUpstream, err)
	}
	if !ok {
		return func() {}, false, nil
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			rctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()
			if err := releaseScript.Run(rctx, l.rdb, []string{fullKey}, token).Err(); err != nil {
				logger.Warn("Ingest lock: release %s failed: %v", key, err)
			}
		})
	}
	return release, true, nil
}

// Close closes the underlying client.
func (l *Lock) Close() error {
	return l.rdb.Close()
}
