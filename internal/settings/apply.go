package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Apply interprets a menu path key ("a::b::c" means field path [a, b] with
// leaf value "c"), converts the value according to the schema, and returns a
// copy of s with that one field set. The field-by-field switch trades the
// original's dynamic deep-set for compile-time safety; the schema is fixed,
// so every settable path is enumerated here.
func Apply(s Settings, data string) (Settings, error) {
	segments := strings.Split(data, PathSeparator)
	if len(segments) < 2 {
		return s, fmt.Errorf("not a settable path: %q", data)
	}
	path := segments[:len(segments)-1]
	value := segments[len(segments)-1]

	field := findField(Schema, path)
	if field == nil {
		return s, fmt.Errorf("unknown settings field: %q", strings.Join(path, PathSeparator))
	}
	if field.Kind == KindEnum && !contains(field.Values, value) {
		return s, fmt.Errorf("invalid value %q for %q", value, field.Name)
	}

	switch strings.Join(path, PathSeparator) {
	case "telegraph::chatHistoryLimit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return s, fmt.Errorf("invalid chat history limit %q: %w", value, err)
		}
		s.Telegraph.ChatHistoryLimit = &n
	case "agent::systemPrompt":
		s.Agent.SystemPrompt = &value
	case "agent::llm::model":
		llm := cloneLLM(s.Agent.LLM)
		llm.Model = value
		s.Agent.LLM = llm
	case "agent::llm::temperature":
		return applyLLMFloat(s, value, func(llm *LLMSettings, f *float64) { llm.Temperature = f })
	case "agent::llm::maxTokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return s, fmt.Errorf("invalid max tokens %q: %w", value, err)
		}
		llm := cloneLLM(s.Agent.LLM)
		llm.MaxTokens = &n
		s.Agent.LLM = llm
	case "agent::llm::topP":
		return applyLLMFloat(s, value, func(llm *LLMSettings, f *float64) { llm.TopP = f })
	case "agent::llm::frequencyPenalty":
		return applyLLMFloat(s, value, func(llm *LLMSettings, f *float64) { llm.FrequencyPenalty = f })
	case "agent::llm::presencePenalty":
		return applyLLMFloat(s, value, func(llm *LLMSettings, f *float64) { llm.PresencePenalty = f })
	case "sonata::voice":
		s.Sonata.Voice = value
	default:
		return s, fmt.Errorf("field %q is not settable", strings.Join(path, PathSeparator))
	}
	return s, nil
}

// ValueAt returns the saved value at a field path as a string, for comparing
// against enum leaf suffixes when rendering checkmarks. The second result is
// false when the path does not name a set scalar field.
func ValueAt(s Settings, path []string) (string, bool) {
	switch strings.Join(path, PathSeparator) {
	case "telegraph::chatHistoryLimit":
		if s.Telegraph.ChatHistoryLimit != nil {
			return strconv.Itoa(*s.Telegraph.ChatHistoryLimit), true
		}
	case "agent::systemPrompt":
		if s.Agent.SystemPrompt != nil {
			return *s.Agent.SystemPrompt, true
		}
	case "agent::llm::model":
		if s.Agent.LLM != nil && s.Agent.LLM.Model != "" {
			return s.Agent.LLM.Model, true
		}
	case "agent::llm::temperature":
		return formatFloat(llmFloat(s, func(llm *LLMSettings) *float64 { return llm.Temperature }))
	case "agent::llm::maxTokens":
		if s.Agent.LLM != nil && s.Agent.LLM.MaxTokens != nil {
			return strconv.Itoa(*s.Agent.LLM.MaxTokens), true
		}
	case "agent::llm::topP":
		return formatFloat(llmFloat(s, func(llm *LLMSettings) *float64 { return llm.TopP }))
	case "agent::llm::frequencyPenalty":
		return formatFloat(llmFloat(s, func(llm *LLMSettings) *float64 { return llm.FrequencyPenalty }))
	case "agent::llm::presencePenalty":
		return formatFloat(llmFloat(s, func(llm *LLMSettings) *float64 { return llm.PresencePenalty }))
	case "sonata::voice":
		if s.Sonata.Voice != "" {
			return s.Sonata.Voice, true
		}
	}
	return "", false
}

func applyLLMFloat(s Settings, value string, set func(*LLMSettings, *float64)) (Settings, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return s, fmt.Errorf("invalid number %q: %w", value, err)
	}
	llm := cloneLLM(s.Agent.LLM)
	set(llm, &f)
	s.Agent.LLM = llm
	return s, nil
}

func llmFloat(s Settings, get func(*LLMSettings) *float64) *float64 {
	if s.Agent.LLM == nil {
		return nil
	}
	return get(s.Agent.LLM)
}

func formatFloat(f *float64) (string, bool) {
	if f == nil {
		return "", false
	}
	return strconv.FormatFloat(*f, 'f', -1, 64), true
}

func cloneLLM(llm *LLMSettings) *LLMSettings {
	if llm == nil {
		return &LLMSettings{}
	}
	clone := *llm
	return &clone
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
