package app

import (
	"context"
	"fmt"
	"strings"

	"agenthub/internal/llm"
)

type ChatService struct {
	agentService *AgentService
	llmManager   *llm.Manager
}

func NewChatService(agentService *AgentService, llmManager *llm.Manager) *ChatService {
	return &ChatService{
		agentService: agentService,
		llmManager:   llmManager,
	}
}

type ChatInput struct {
	AgentID uint
	UserID  uint
	Message string
}

// ProcessChat runs one chat turn: access-checked agent fetch, prompt
// assembly, provider call.
func (s *ChatService) ProcessChat(ctx context.Context, input ChatInput) (string, error) {
	message := strings.TrimSpace(input.Message)
	if input.AgentID == 0 || message == "" {
		return "", ErrInvalidInput
	}

	agent, err := s.agentService.GetAgentByID(input.AgentID, input.UserID)
	if err != nil {
		return "", err
	}

	provider, err := s.llmManager.Get(agent.Provider)
	if err != nil {
		return "", fmt.Errorf("resolve provider failed: %w", err)
	}

	prompt := BuildPrompt(agent.Prompt, message)
	reply, err := provider.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("llm generate failed: %w", err)
	}
	return reply, nil
}

// BuildPrompt combines the agent's system prompt with the user turn.
func BuildPrompt(systemPrompt, message string) string {
	return fmt.Sprintf("%s\n\nUser: %s\nAssistant:", systemPrompt, message)
}
