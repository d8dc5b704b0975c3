package llm

import (
	"context"
	"strings"

	"github.com/sandevgo/studybuddy/internal/core"
)

const (
	anthropicBaseURL   = "https://api.anthropic.com"
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
)

type Anthropic struct {
	baseProvider
}

func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider(anthropicBaseURL, apiKey, model),
	}
}

func (a *Anthropic) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	// System messages go into the top-level system field.
	var (
		system   []string
		messages []msg
	)
	for _, m := range history {
		if m.Role == core.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		messages = append(messages, msg{Role: m.Role, Content: m.Content})
	}

	payload := map[string]any{
		"model":      a.model,
		"max_tokens": anthropicMaxTokens,
		"messages":   messages,
	}
	if len(system) > 0 {
		payload["system"] = strings.Join(system, "\n\n")
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := a.postJSON(ctx, "/v1/messages", payload, headers, &result); err != nil {
		return core.Message{}, err
	}

	var text strings.Builder
	for _, c := range result.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	return core.Message{Role: core.RoleAssistant, Content: text.String()}, nil
}
