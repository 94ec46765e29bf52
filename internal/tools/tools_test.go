package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAgentClientChat(t *testing.T) {
	var got ChatInput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"data": "Hello!"})
	}))
	defer server.Close()

	client := NewAgentClient(server.URL, 2*time.Second)
	response, err := client.Chat(context.Background(), ChatInput{
		ChatID:     "100",
		SenderName: "Dewi",
		Message:    "Hi",
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if response != "Hello!" {
		t.Errorf("response = %q, want Hello!", response)
	}
	if got.ChatID != "100" || got.SenderName != "Dewi" || got.Message != "Hi" {
		t.Errorf("request body = %+v", got)
	}
}

func TestAgentClientChatServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewAgentClient(server.URL, 2*time.Second)
	if _, err := client.Chat(context.Background(), ChatInput{}); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestAgentClientSettingsSection(t *testing.T) {
	sections := map[string][]byte{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path[len("/settings/"):]
		switch r.Method {
		case http.MethodGet:
			w.Write(sections[key])
		case http.MethodPost:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				t.Errorf("read request: %v", err)
			}
			sections[key] = body
		case http.MethodDelete:
			delete(sections, key)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := NewAgentClient(server.URL, 2*time.Second)

	if err := client.Set(ctx, "100", []byte(`{"systemPrompt":"be nice"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	raw, err := client.Get(ctx, "100")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(raw) != `{"systemPrompt":"be nice"}` {
		t.Errorf("Get = %s", raw)
	}
	if err := client.Clear(ctx, "100"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	raw, err = client.Get(ctx, "100")
	if err != nil {
		t.Fatalf("Get after Clear: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("section survived clear: %s", raw)
	}
}

func TestWhisperClientListen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			AudioURL string `json:"audioUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if in.AudioURL != "https://cdn.example.com/v.ogg" {
			t.Errorf("audioUrl = %q", in.AudioURL)
		}
		json.NewEncoder(w).Encode(map[string]string{"data": "what time is it"})
	}))
	defer server.Close()

	client := NewWhisperClient(server.URL, 2*time.Second)
	text, err := client.Listen(context.Background(), "https://cdn.example.com/v.ogg")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if text != "what time is it" {
		t.Errorf("text = %q", text)
	}
}

func TestSonataClientSpeak(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in SpeakInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if in.Text != "It is noon." || in.Metadata.ChatID != "100" {
			t.Errorf("request = %+v", in)
		}
		json.NewEncoder(w).Encode(map[string]string{"data": "https://cdn.example.com/out.ogg"})
	}))
	defer server.Close()

	client := NewSonataClient(server.URL, 2*time.Second)
	url, err := client.Speak(context.Background(), SpeakInput{
		Text:     "It is noon.",
		Metadata: SpeakMetadata{ChatID: "100", MessageID: "10"},
	})
	if err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if url != "https://cdn.example.com/out.ogg" {
		t.Errorf("url = %q", url)
	}
}

func TestDisabledCapabilities(t *testing.T) {
	ctx := context.Background()

	if _, err := (DisabledWhisper{}).Listen(ctx, "https://x/v.ogg"); err == nil {
		t.Error("disabled whisper should error")
	}
	url, err := (DisabledSonata{}).Speak(ctx, SpeakInput{Text: "hi"})
	if err != nil {
		t.Errorf("disabled sonata should not error: %v", err)
	}
	if url != "" {
		t.Errorf("disabled sonata returned %q, want empty", url)
	}
}
