package llm

import (
	"context"
	"testing"
)

func TestStaticProviderGenerate(t *testing.T) {
	t.Parallel()

	p := &StaticProvider{Name: "OpenAI"}
	got, err := p.Generate(context.Background(), "ping")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	want := "[OpenAI] Response to: ping"
	if got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestManagerGet(t *testing.T) {
	t.Parallel()

	m := NewManager()
	for _, name := range []string{"openai", "llama", "vllm", "deepseek"} {
		if _, err := m.Get(name); err != nil {
			t.Errorf("Get(%q) error: %v", name, err)
		}
	}

	// Provider names are matched case-insensitively.
	if _, err := m.Get("OpenAI"); err != nil {
		t.Errorf("Get(\"OpenAI\") error: %v", err)
	}

	if _, err := m.Get("claude"); err == nil {
		t.Error("Get() for unknown provider returned nil error")
	}
}

func TestManagerRegisterOverrides(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.Register("OpenAI", &StaticProvider{Name: "Custom"})

	p, err := m.Get("openai")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	got, _ := p.Generate(context.Background(), "x")
	if got != "[Custom] Response to: x" {
		t.Errorf("registered provider not used, got %q", got)
	}
}
