package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider generates a completion for a fully rendered prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StaticProvider is a stand-in that echoes the prompt with a provider tag.
// Real API integrations plug in behind the same interface.
type StaticProvider struct {
	Name string
}

func (p *StaticProvider) Generate(_ context.Context, prompt string) (string, error) {
	return fmt.Sprintf("[%s] Response to: %s", p.Name, prompt), nil
}

// Manager resolves an agent's configured provider name to an implementation.
type Manager struct {
	providers map[string]Provider
}

func NewManager() *Manager {
	return &Manager{
		providers: map[string]Provider{
			"openai":   &StaticProvider{Name: "OpenAI"},
			"llama":    &StaticProvider{Name: "Llama"},
			"vllm":     &StaticProvider{Name: "vLLM"},
			"deepseek": &StaticProvider{Name: "DeepSeek"},
		},
	}
}

// Register replaces or adds a provider under the given name.
func (m *Manager) Register(name string, p Provider) {
	m.providers[strings.ToLower(name)] = p
}

func (m *Manager) Get(name string) (Provider, error) {
	p, ok := m.providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("llm provider %q is not supported", name)
	}
	return p, nil
}
