package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aisyah-ai/telegraph/internal/kv"
	"github.com/aisyah-ai/telegraph/internal/settings"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const agentSettingsPrefix = "agent_settings"

// OpenAIAgent is a local stand-in for the agent service: it answers chats
// directly through the OpenAI API and keeps the agent settings section in the
// gateway's own key-value store. Used when no agent service URL is
// configured. It implements both Agent and settings.SectionStore.
type OpenAIAgent struct {
	client       *openai.Client
	kv           kv.Store
	model        string
	systemPrompt string
	logger       *zap.Logger
}

func NewOpenAIAgent(apiKey, model, systemPrompt string, store kv.Store, logger *zap.Logger) *OpenAIAgent {
	return &OpenAIAgent{
		client:       openai.NewClient(apiKey),
		kv:           store,
		model:        model,
		systemPrompt: systemPrompt,
		logger:       logger,
	}
}

func (a *OpenAIAgent) Chat(ctx context.Context, in ChatInput) (string, error) {
	cfg := a.loadSettings(ctx, in.ChatID)

	messages := make([]openai.ChatCompletionMessage, 0, len(in.ChatHistory)+2)
	prompt := a.systemPrompt
	if cfg.SystemPrompt != nil && *cfg.SystemPrompt != "" {
		prompt = *cfg.SystemPrompt
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: prompt,
	})
	for _, msg := range in.ChatHistory {
		role := openai.ChatMessageRoleUser
		if msg.Type == "ai" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: fmt.Sprintf("[%s] %s: %s", msg.Timestamp, msg.SenderName, msg.Message),
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("%s: %s", in.SenderName, in.Message),
	})

	req := openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
		User:     in.SenderID,
	}
	if cfg.LLM != nil {
		if cfg.LLM.Model != "" {
			req.Model = cfg.LLM.Model
		}
		if cfg.LLM.Temperature != nil {
			req.Temperature = float32(*cfg.LLM.Temperature)
		}
		if cfg.LLM.MaxTokens != nil {
			req.MaxTokens = *cfg.LLM.MaxTokens
		}
		if cfg.LLM.TopP != nil {
			req.TopP = float32(*cfg.LLM.TopP)
		}
		if cfg.LLM.FrequencyPenalty != nil {
			req.FrequencyPenalty = float32(*cfg.LLM.FrequencyPenalty)
		}
		if cfg.LLM.PresencePenalty != nil {
			req.PresencePenalty = float32(*cfg.LLM.PresencePenalty)
		}
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("agent chat failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("agent chat returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (a *OpenAIAgent) loadSettings(ctx context.Context, chatID string) settings.AgentSettings {
	var cfg settings.AgentSettings
	raw, err := a.Get(ctx, chatID)
	if err != nil {
		a.logger.Warn("Failed to load agent settings",
			zap.Error(err),
			zap.String("chat_id", chatID))
		return cfg
	}
	if len(raw) == 0 {
		return cfg
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		a.logger.Warn("Failed to decode agent settings",
			zap.Error(err),
			zap.String("chat_id", chatID))
	}
	return cfg
}

// Get, Set and Clear implement settings.SectionStore in the gateway's own
// key-value store, mirroring the agent service's settings endpoints.

func (a *OpenAIAgent) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := a.kv.Get(ctx, agentSettingsPrefix+":"+key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

func (a *OpenAIAgent) Set(ctx context.Context, key string, section []byte) error {
	return a.kv.Set(ctx, agentSettingsPrefix+":"+key, string(section), 0)
}

func (a *OpenAIAgent) Clear(ctx context.Context, key string) error {
	return a.kv.Del(ctx, agentSettingsPrefix+":"+key)
}
