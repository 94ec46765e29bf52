package settings

import (
	"strings"
	"testing"
)

func TestApplyEnumRoundTrip(t *testing.T) {
	// Every enum leaf in the compiled menu must be settable through its own
	// callback data, and the saved value must read back as the literal.
	menu := Compile()
	var leaves []Menu
	var walk func(m Menu)
	walk = func(m Menu) {
		for _, child := range m.Children {
			if len(child.Children) == 0 {
				leaves = append(leaves, child)
			}
			walk(child)
		}
	}
	walk(menu)
	if len(leaves) == 0 {
		t.Fatal("menu has no leaves")
	}

	for _, leaf := range leaves {
		segments := splitPath(leaf.Data)
		field := findField(Schema, segments[:len(segments)-1])
		if field == nil || field.Kind != KindEnum {
			continue
		}
		s, err := Apply(Settings{}, leaf.Data)
		if err != nil {
			t.Errorf("Apply(%q): %v", leaf.Data, err)
			continue
		}
		got, ok := ValueAt(s, segments[:len(segments)-1])
		if !ok || got != segments[len(segments)-1] {
			t.Errorf("after Apply(%q): ValueAt = %q, %v", leaf.Data, got, ok)
		}
	}
}

func TestApplyVoice(t *testing.T) {
	s, err := Apply(Settings{}, "sonata::voice::Brian")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Sonata.Voice != "Brian" {
		t.Errorf("voice = %q, want Brian", s.Sonata.Voice)
	}
}

func TestApplyInvalidEnumValue(t *testing.T) {
	if _, err := Apply(Settings{}, "agent::llm::model::gpt-9"); err == nil {
		t.Error("expected error for unknown model literal")
	}
	if _, err := Apply(Settings{}, "sonata::voice::HAL"); err == nil {
		t.Error("expected error for unknown voice literal")
	}
}

func TestApplyNumberParsing(t *testing.T) {
	s, err := Apply(Settings{}, "agent::llm::temperature::0.7")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Agent.LLM == nil || s.Agent.LLM.Temperature == nil || *s.Agent.LLM.Temperature != 0.7 {
		t.Errorf("temperature not set: %+v", s.Agent.LLM)
	}

	s, err = Apply(s, "telegraph::chatHistoryLimit::25")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Telegraph.ChatHistoryLimit == nil || *s.Telegraph.ChatHistoryLimit != 25 {
		t.Errorf("chat history limit not set: %+v", s.Telegraph)
	}

	if _, err := Apply(Settings{}, "agent::llm::maxTokens::lots"); err == nil {
		t.Error("expected error for non-numeric max tokens")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	model := "gpt-4o"
	orig := Settings{Agent: AgentSettings{LLM: &LLMSettings{Model: model}}}

	updated, err := Apply(orig, "agent::llm::model::gpt-4o-mini")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if orig.Agent.LLM.Model != "gpt-4o" {
		t.Errorf("input mutated: model = %q", orig.Agent.LLM.Model)
	}
	if updated.Agent.LLM.Model != "gpt-4o-mini" {
		t.Errorf("update lost: model = %q", updated.Agent.LLM.Model)
	}
}

func TestApplyRejectsBadPaths(t *testing.T) {
	for _, data := range []string{"settings", "bogus::field::1", "agent::llm::1"} {
		if _, err := Apply(Settings{}, data); err == nil {
			t.Errorf("Apply(%q) succeeded, want error", data)
		}
	}
}

func splitPath(data string) []string {
	return strings.Split(data, PathSeparator)
}
