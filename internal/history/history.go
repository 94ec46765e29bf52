package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aisyah-ai/telegraph/internal/kv"
	"go.uber.org/zap"
)

const keyPrefix = "chat_history"

// minLimit is the smallest usable window: one human turn plus one AI turn.
const minLimit = 2

// Message is one entry of a chat's conversational record.
type Message struct {
	SenderName string `json:"senderName"`
	Type       string `json:"type"` // "human" or "ai"
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}

// Store keeps an append-only, length-bounded message list per chat. The list
// is truncated to the newest limit entries on every append, so the stored
// record never grows past the configured context window.
type Store struct {
	kv     kv.Store
	limit  int
	logger *zap.Logger
}

func NewStore(store kv.Store, limit int, logger *zap.Logger) *Store {
	if limit < minLimit {
		limit = minLimit
	}
	return &Store{kv: store, limit: limit, logger: logger}
}

// Append adds messages to the end of the chat's history and returns the
// truncated list as persisted. If the write fails, the input messages are
// returned as-is so the caller still has a view of the turn it just produced.
func (s *Store) Append(ctx context.Context, key string, messages ...Message) []Message {
	return s.AppendLimited(ctx, key, 0, messages...)
}

// AppendLimited is Append with a per-call limit override; values below the
// minimum fall back to the store's configured limit. Used when a chat has its
// own history limit configured in settings.
func (s *Store) AppendLimited(ctx context.Context, key string, limit int, messages ...Message) []Message {
	if limit < minLimit {
		limit = s.limit
	}
	data := append(s.Get(ctx, key), messages...)
	if len(data) > limit {
		data = data[len(data)-limit:]
	}

	raw, err := json.Marshal(data)
	if err == nil {
		err = s.kv.Set(ctx, s.fullKey(key), string(raw), 0)
	}
	if err != nil {
		s.logger.Warn("Failed to append chat history",
			zap.Error(err),
			zap.String("chat_id", key))
		return messages
	}
	return data
}

// Get returns the chat's history, oldest first. Read errors are swallowed and
// reported as an empty history.
func (s *Store) Get(ctx context.Context, key string) []Message {
	raw, err := s.kv.Get(ctx, s.fullKey(key))
	if errors.Is(err, kv.ErrNotFound) {
		return []Message{}
	}
	if err != nil {
		s.logger.Warn("Failed to get chat history",
			zap.Error(err),
			zap.String("chat_id", key))
		return []Message{}
	}

	var data []Message
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		s.logger.Warn("Failed to decode chat history",
			zap.Error(err),
			zap.String("chat_id", key))
		return []Message{}
	}
	return data
}

// Clear removes the chat's history.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := s.kv.Del(ctx, s.fullKey(key)); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}

func (s *Store) fullKey(key string) string {
	return keyPrefix + ":" + key
}
