package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  webhook_url: "https://example.com/webhooks/telegram"
redis:
  addr: "redis:6379"
services:
  agent_url: "https://agent.example.com"
gateway:
  chat_history_limit: 50
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.Services.AgentURL != "https://agent.example.com" {
		t.Errorf("agent url = %q", cfg.Services.AgentURL)
	}
	if cfg.Gateway.ChatHistoryLimit != 50 {
		t.Errorf("chat history limit = %d", cfg.Gateway.ChatHistoryLimit)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Telegram.ListenAddr != ":8080" {
		t.Errorf("listen addr = %q", cfg.Telegram.ListenAddr)
	}
	if cfg.Services.TimeoutSeconds != 5 {
		t.Errorf("timeout = %d", cfg.Services.TimeoutSeconds)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.OpenAI.Model)
	}
	if cfg.Gateway.RateLimitPerDay != 100 {
		t.Errorf("rate limit = %d", cfg.Gateway.RateLimitPerDay)
	}
}

func TestLoadConfigRequiresToken(t *testing.T) {
	path := writeConfig(t, `
redis:
  addr: "redis:6379"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for missing telegram token")
	}
}
