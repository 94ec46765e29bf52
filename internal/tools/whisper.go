package tools

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Whisper is the speech-to-text capability.
type Whisper interface {
	Listen(ctx context.Context, audioURL string) (string, error)
}

// WhisperClient talks to a deployed aisyah-ai-whisper service.
type WhisperClient struct {
	baseURL string
	http    *http.Client
}

func NewWhisperClient(baseURL string, timeout time.Duration) *WhisperClient {
	return &WhisperClient{baseURL: baseURL, http: newHTTPClient(timeout)}
}

// DisabledWhisper is used when no whisper service is configured; every
// transcription fails, which the gateway turns into its placeholder reply.
type DisabledWhisper struct{}

func (DisabledWhisper) Listen(ctx context.Context, audioURL string) (string, error) {
	return "", fmt.Errorf("whisper service is not configured")
}

func (c *WhisperClient) Listen(ctx context.Context, audioURL string) (string, error) {
	in := struct {
		AudioURL string `json:"audioUrl"`
	}{AudioURL: audioURL}
	var out struct {
		Data string `json:"data"`
	}
	if err := doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/listen", in, &out); err != nil {
		return "", fmt.Errorf("whisper listen failed: %w", err)
	}
	return out.Data, nil
}
