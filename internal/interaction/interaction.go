package interaction

import (
	"context"
	"time"

	"github.com/aisyah-ai/telegraph/internal/kv"
	"go.uber.org/zap"
)

// Tracker records "this sender recently triggered a bot turn in this chat" as
// a presence-only marker with a short TTL. Only existence matters; the value
// is empty.
type Tracker struct {
	kv     kv.Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewTracker(store kv.Store, logger *zap.Logger) *Tracker {
	return &Tracker{kv: store, ttl: 5 * time.Minute, logger: logger}
}

// Track refreshes the marker for (chatID, senderID). Best effort.
func (t *Tracker) Track(ctx context.Context, chatID, senderID string) {
	if err := t.kv.Set(ctx, t.key(chatID, senderID), "", t.ttl); err != nil {
		t.logger.Warn("Failed to track interaction",
			zap.Error(err),
			zap.String("chat_id", chatID),
			zap.String("sender_id", senderID))
	}
}

// IsRecent reports whether the marker exists. Store errors read as false.
func (t *Tracker) IsRecent(ctx context.Context, chatID, senderID string) bool {
	ok, err := t.kv.Exists(ctx, t.key(chatID, senderID))
	if err != nil {
		t.logger.Warn("Failed to check recent interaction",
			zap.Error(err),
			zap.String("chat_id", chatID),
			zap.String("sender_id", senderID))
		return false
	}
	return ok
}

func (t *Tracker) key(chatID, senderID string) string {
	return chatID + ":" + senderID
}
