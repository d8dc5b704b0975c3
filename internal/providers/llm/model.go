package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/studybuddy/internal/core"
)

// PromptModel sends each prompt as a single user message.
type PromptModel struct {
	provider core.AIProvider
}

func NewPromptModel(provider core.AIProvider) *PromptModel {
	return &PromptModel{provider: provider}
}

func (m *PromptModel) Invoke(ctx context.Context, prompt string) (string, error) {
	reply, err := m.provider.Chat(ctx, []core.Message{
		{Role: core.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("invoke model: %w", err)
	}
	return reply.Content, nil
}
