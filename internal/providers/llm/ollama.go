package llm

import (
	"context"
	"strings"

	"github.com/sandevgo/studybuddy/internal/core"
)

// Ollama uses the native /api/chat endpoint so the context window can be
// set per request; the OpenAI shim ignores num_ctx.
type Ollama struct {
	baseProvider
	numCtx int
}

func NewOllama(baseURL, apiKey, model string, numCtx int) *Ollama {
	return &Ollama{
		baseProvider: newBaseProvider(strings.TrimRight(baseURL, "/"), apiKey, model),
		numCtx:       numCtx,
	}
}

func (o *Ollama) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	payload := map[string]any{
		"model":    o.model,
		"messages": history,
		"stream":   false,
	}
	if o.numCtx > 0 {
		payload["options"] = map[string]any{"num_ctx": o.numCtx}
	}

	headers := map[string]string{}
	if o.apiKey != "" {
		headers["Authorization"] = "Bearer " + o.apiKey
	}

	var result struct {
		Message core.Message `json:"message"`
		Done    bool         `json:"done"`
	}
	if err := o.postJSON(ctx, "/api/chat", payload, headers, &result); err != nil {
		return core.Message{}, err
	}
	if result.Message.Role == "" {
		result.Message.Role = core.RoleAssistant
	}
	return result.Message, nil
}
