package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aisyah-ai/telegraph/internal/kv"
	"go.uber.org/zap"
)

const keyPrefix = "rate_limit"

// Limiter enforces a per-sender daily message quota. Counters live in the
// key-value store and expire at the next UTC midnight, so the quota resets
// without any scheduled job. On store errors the limiter fails open.
type Limiter struct {
	kv     kv.Store
	limit  int64
	logger *zap.Logger

	// now reports the current time; tests replace it.
	now func() time.Time
}

func NewLimiter(store kv.Store, limit int64, logger *zap.Logger) *Limiter {
	if limit <= 0 {
		limit = 100
	}
	return &Limiter{kv: store, limit: limit, logger: logger, now: time.Now}
}

// IsRateLimited reports whether key has exhausted today's quota. The call
// itself consumes one unit of quota unless the limit is already reached.
func (l *Limiter) IsRateLimited(ctx context.Context, key string) bool {
	fullKey := keyPrefix + ":" + key

	raw, err := l.kv.Get(ctx, fullKey)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		l.logger.Warn("Failed to check rate limit",
			zap.Error(err),
			zap.String("key", key))
		return false
	}
	if err == nil {
		count, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			l.logger.Warn("Invalid rate limit counter",
				zap.Error(parseErr),
				zap.String("key", key))
			return false
		}
		if count >= l.limit {
			return true
		}
		if _, err := l.kv.Incr(ctx, fullKey); err != nil {
			l.logger.Warn("Failed to increment rate limit",
				zap.Error(err),
				zap.String("key", key))
		}
		return false
	}

	// First message of the day: start the counter and let it expire at the
	// next UTC midnight.
	if _, err := l.kv.Incr(ctx, fullKey); err != nil {
		l.logger.Warn("Failed to initialize rate limit",
			zap.Error(err),
			zap.String("key", key))
		return false
	}
	if err := l.kv.Expire(ctx, fullKey, l.untilMidnightUTC()); err != nil {
		l.logger.Warn("Failed to set rate limit expiry",
			zap.Error(err),
			zap.String("key", key))
	}
	return false
}

func (l *Limiter) untilMidnightUTC() time.Duration {
	now := l.now().UTC()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	return endOfDay.Sub(now)
}
