// Package settings holds the per-chat configuration shared across the Aisyah
// services and the inline-keyboard menu that edits it. The configuration is
// split into three independently persisted sections: telegraph (this
// gateway), agent, and sonata (speech synthesis).
package settings

// Models accepted by the agent's LLM setting.
var Models = []string{"gpt-3.5-turbo", "gpt-4o-mini", "gpt-4o"}

// Voices accepted by the sonata voice setting.
var Voices = []string{
	"Brian", "Alice", "Bill", "Callum", "Charlie", "Charlotte", "Chris",
	"Daniel", "Eric", "George", "Jessica", "Laura", "Liam", "Lily",
	"Matilda", "Sarah", "Will",
}

type Settings struct {
	Telegraph TelegraphSettings `json:"telegraph"`
	Agent     AgentSettings     `json:"agent"`
	Sonata    SonataSettings    `json:"sonata"`
}

type TelegraphSettings struct {
	ChatHistoryLimit *int `json:"chatHistoryLimit,omitempty"`
}

type AgentSettings struct {
	SystemPrompt *string      `json:"systemPrompt,omitempty"`
	LLM          *LLMSettings `json:"llm,omitempty"`
}

type LLMSettings struct {
	Model            string   `json:"model,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxTokens        *int     `json:"maxTokens,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	FrequencyPenalty *float64 `json:"frequencyPenalty,omitempty"`
	PresencePenalty  *float64 `json:"presencePenalty,omitempty"`
}

type SonataSettings struct {
	Voice string `json:"voice,omitempty"`
}
