package settings

import (
	"context"
	"errors"

	"github.com/aisyah-ai/telegraph/internal/kv"
)

// KVSectionStore persists a settings section in the gateway's own key-value
// store. Used for a section whose owning service is not deployed, so menu
// selections still stick.
type KVSectionStore struct {
	kv     kv.Store
	prefix string
}

func NewKVSectionStore(store kv.Store, prefix string) *KVSectionStore {
	return &KVSectionStore{kv: store, prefix: prefix}
}

func (s *KVSectionStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.kv.Get(ctx, s.prefix+":"+key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

func (s *KVSectionStore) Set(ctx context.Context, key string, section []byte) error {
	return s.kv.Set(ctx, s.prefix+":"+key, string(section), 0)
}

func (s *KVSectionStore) Clear(ctx context.Context, key string) error {
	return s.kv.Del(ctx, s.prefix+":"+key)
}
