package lock

import (
	"context"
	"time"

	"github.com/aisyah-ai/telegraph/internal/kv"
	"go.uber.org/zap"
)

const keyPrefix = "lock"

// Locker is a per-chat advisory lock backed by the key-value store's atomic
// set-if-not-exists. It guarantees mutual exclusion, not fairness: concurrent
// acquirers race on every retry tick.
type Locker struct {
	kv            kv.Store
	ttl           time.Duration
	retryInterval time.Duration
	logger        *zap.Logger
}

func NewLocker(store kv.Store, logger *zap.Logger) *Locker {
	return &Locker{
		kv:            store,
		ttl:           5 * time.Second,
		retryInterval: 100 * time.Millisecond,
		logger:        logger,
	}
}

// Acquire blocks until the lock for key is held, retrying at a fixed interval.
// There is no give-up deadline of its own; the context is the only bound, and
// the TTL on the stored marker is the safety net against stranded holders.
func (l *Locker) Acquire(ctx context.Context, key string) error {
	fullKey := l.fullKey(key)
	for {
		acquired, err := l.kv.SetNX(ctx, fullKey, "locked", l.ttl)
		if err == nil && acquired {
			return nil
		}
		if err != nil {
			l.logger.Warn("Failed to acquire lock, retrying",
				zap.Error(err),
				zap.String("key", key))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}

// Release drops the lock. Best effort: a failed delete is logged and the TTL
// takes care of the rest.
func (l *Locker) Release(ctx context.Context, key string) {
	if err := l.kv.Del(ctx, l.fullKey(key)); err != nil {
		l.logger.Warn("Failed to release lock",
			zap.Error(err),
			zap.String("key", key))
	}
}

func (l *Locker) fullKey(key string) string {
	return keyPrefix + ":" + key
}
