// Package memory provides an in-process implementation of driven.IngestLock.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askontube/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.IngestLock = (*Lock)(nil)

type claim struct {
	token     string
	expiresAt time.Time
}

// Lock holds per-key claims in memory. Claims expire after their TTL
// so a crashed holder cannot block a key forever.
type Lock struct {
	mu     sync.Mutex
	claims map[string]claim
	now    func() time.Time
}

// New creates a new in-memory lock.
func New() *Lock {
	return &Lock{
		claims: make(map[string]claim),
		now:    time.Now,
	}
}

// Acquire claims the key for ttl.
func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if c, ok := l.claims[key]; ok && now.Before(c.expiresAt) {
		return func() {}, false, nil
	}

	token := uuid.NewString()
	l.claims[key] = claim{token: token, expiresAt: now.Add(ttl)}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if c, ok := l.claims[key]; ok && c.token == token {
				delete(l.claims, key)
			}
		})
	}
	return release, true, nil
}
