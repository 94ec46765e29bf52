package tools

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// SpeakInput is the speech-synthesis request.
type SpeakInput struct {
	Text     string        `json:"text"`
	Metadata SpeakMetadata `json:"metadata"`
}

type SpeakMetadata struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
}

// Sonata is the text-to-speech capability. Speak returns the synthesized
// audio URL; an empty URL means synthesis produced nothing and the caller
// should fall back to text.
type Sonata interface {
	Speak(ctx context.Context, in SpeakInput) (string, error)
}

// SonataClient talks to a deployed aisyah-ai-sonata service.
type SonataClient struct {
	baseURL string
	http    *http.Client
}

func NewSonataClient(baseURL string, timeout time.Duration) *SonataClient {
	return &SonataClient{baseURL: baseURL, http: newHTTPClient(timeout)}
}

// DisabledSonata is used when no sonata service is configured; it produces
// no audio so every reply degrades to text.
type DisabledSonata struct{}

func (DisabledSonata) Speak(ctx context.Context, in SpeakInput) (string, error) {
	return "", nil
}

func (c *SonataClient) Speak(ctx context.Context, in SpeakInput) (string, error) {
	var out struct {
		Data string `json:"data"`
	}
	if err := doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/speak", in, &out); err != nil {
		return "", fmt.Errorf("sonata speak failed: %w", err)
	}
	return out.Data, nil
}

// Get, Set and Clear implement settings.SectionStore against the sonata
// service's per-chat settings endpoints.

func (c *SonataClient) Get(ctx context.Context, key string) ([]byte, error) {
	return getSection(ctx, c.http, c.baseURL, key)
}

func (c *SonataClient) Set(ctx context.Context, key string, section []byte) error {
	return setSection(ctx, c.http, c.baseURL, key, section)
}

func (c *SonataClient) Clear(ctx context.Context, key string) error {
	return clearSection(ctx, c.http, c.baseURL, key)
}
