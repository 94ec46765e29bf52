// Package tools holds typed clients for the external Aisyah capabilities the
// gateway calls: the agent (LLM orchestrator), whisper (speech-to-text), and
// sonata (text-to-speech). Each client wraps one service's HTTP surface.
package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aisyah-ai/telegraph/internal/history"
)

// ChatInput is the agent's chat request.
type ChatInput struct {
	ChatID      string            `json:"chatId"`
	MessageID   string            `json:"messageId"`
	SenderID    string            `json:"senderId"`
	SenderName  string            `json:"senderName"`
	Message     string            `json:"message"`
	ChatHistory []history.Message `json:"chatHistory"`
}

// Agent is the "ask agent" capability.
type Agent interface {
	Chat(ctx context.Context, in ChatInput) (string, error)
}

// AgentClient talks to a deployed aisyah-ai-agent service.
type AgentClient struct {
	baseURL string
	http    *http.Client
}

func NewAgentClient(baseURL string, timeout time.Duration) *AgentClient {
	return &AgentClient{baseURL: baseURL, http: newHTTPClient(timeout)}
}

func (c *AgentClient) Chat(ctx context.Context, in ChatInput) (string, error) {
	var out struct {
		Data string `json:"data"`
	}
	if err := doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/chat", in, &out); err != nil {
		return "", fmt.Errorf("agent chat failed: %w", err)
	}
	return out.Data, nil
}

// Get, Set and Clear implement settings.SectionStore against the agent
// service's per-chat settings endpoints.

func (c *AgentClient) Get(ctx context.Context, key string) ([]byte, error) {
	return getSection(ctx, c.http, c.baseURL, key)
}

func (c *AgentClient) Set(ctx context.Context, key string, section []byte) error {
	return setSection(ctx, c.http, c.baseURL, key, section)
}

func (c *AgentClient) Clear(ctx context.Context, key string) error {
	return clearSection(ctx, c.http, c.baseURL, key)
}

func getSection(ctx context.Context, client *http.Client, baseURL, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/settings/"+key, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("error fetching settings from %s: %s", baseURL, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func setSection(ctx context.Context, client *http.Client, baseURL, key string, section []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/settings/"+key, bytes.NewReader(section))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("error saving settings to %s: %s", baseURL, resp.Status)
	}
	return nil
}

func clearSection(ctx context.Context, client *http.Client, baseURL, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, baseURL+"/settings/"+key, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("error clearing settings at %s: %s", baseURL, resp.Status)
	}
	return nil
}
