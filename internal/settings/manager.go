package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aisyah-ai/telegraph/internal/kv"
	"go.uber.org/zap"
)

const keyPrefix = "settings"

// SectionStore persists one settings section under a chat key. The agent and
// sonata sections live behind their respective services; the telegraph
// section lives in the gateway's own key-value store.
type SectionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, section []byte) error
	Clear(ctx context.Context, key string) error
}

// Manager merges the three settings sections on read and fans writes back out
// to each section's own backend. It also owns the compiled menu tree.
type Manager struct {
	menu   Menu
	kv     kv.Store
	agent  SectionStore
	sonata SectionStore
	logger *zap.Logger
}

func NewManager(store kv.Store, agent, sonata SectionStore, logger *zap.Logger) *Manager {
	return &Manager{
		menu:   Compile(),
		kv:     store,
		agent:  agent,
		sonata: sonata,
		logger: logger,
	}
}

// Menu returns the compiled menu tree.
func (m *Manager) Menu() *Menu {
	return &m.menu
}

// Load reads the chat's settings, merging the three sections. A section that
// cannot be read is returned empty; configuration reads never fail a turn.
func (m *Manager) Load(ctx context.Context, chatID string) Settings {
	var s Settings

	raw, err := m.kv.Get(ctx, keyPrefix+":"+chatID)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		m.logger.Warn("Failed to load telegraph settings",
			zap.Error(err),
			zap.String("chat_id", chatID))
	}
	if err == nil {
		if err := json.Unmarshal([]byte(raw), &s.Telegraph); err != nil {
			m.logger.Warn("Failed to decode telegraph settings",
				zap.Error(err),
				zap.String("chat_id", chatID))
		}
	}

	m.loadSection(ctx, m.agent, chatID, "agent", &s.Agent)
	m.loadSection(ctx, m.sonata, chatID, "sonata", &s.Sonata)
	return s
}

func (m *Manager) loadSection(ctx context.Context, store SectionStore, chatID, name string, dst interface{}) {
	if store == nil {
		return
	}
	raw, err := store.Get(ctx, chatID)
	if err != nil {
		m.logger.Warn("Failed to load settings section",
			zap.Error(err),
			zap.String("chat_id", chatID),
			zap.String("section", name))
		return
	}
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		m.logger.Warn("Failed to decode settings section",
			zap.Error(err),
			zap.String("chat_id", chatID),
			zap.String("section", name))
	}
}

// SaveSetting applies one menu selection to the chat's settings and persists
// every section to its own backend.
func (m *Manager) SaveSetting(ctx context.Context, chatID, data string) error {
	updated, err := Apply(m.Load(ctx, chatID), data)
	if err != nil {
		return err
	}
	return m.Save(ctx, chatID, updated)
}

// Save persists all three sections of s for the chat.
func (m *Manager) Save(ctx context.Context, chatID string, s Settings) error {
	raw, err := json.Marshal(s.Telegraph)
	if err != nil {
		return fmt.Errorf("failed to encode telegraph settings: %w", err)
	}
	if err := m.kv.Set(ctx, keyPrefix+":"+chatID, string(raw), 0); err != nil {
		return fmt.Errorf("failed to save telegraph settings: %w", err)
	}
	if err := m.saveSection(ctx, m.agent, chatID, s.Agent); err != nil {
		return fmt.Errorf("failed to save agent settings: %w", err)
	}
	if err := m.saveSection(ctx, m.sonata, chatID, s.Sonata); err != nil {
		return fmt.Errorf("failed to save sonata settings: %w", err)
	}
	return nil
}

func (m *Manager) saveSection(ctx context.Context, store SectionStore, chatID string, section interface{}) error {
	if store == nil {
		return nil
	}
	raw, err := json.Marshal(section)
	if err != nil {
		return err
	}
	return store.Set(ctx, chatID, raw)
}

// Clear removes the chat's settings from every section backend.
func (m *Manager) Clear(ctx context.Context, chatID string) error {
	if err := m.kv.Del(ctx, keyPrefix+":"+chatID); err != nil {
		return fmt.Errorf("failed to clear telegraph settings: %w", err)
	}
	if m.agent != nil {
		if err := m.agent.Clear(ctx, chatID); err != nil {
			return fmt.Errorf("failed to clear agent settings: %w", err)
		}
	}
	if m.sonata != nil {
		if err := m.sonata.Clear(ctx, chatID); err != nil {
			return fmt.Errorf("failed to clear sonata settings: %w", err)
		}
	}
	return nil
}
