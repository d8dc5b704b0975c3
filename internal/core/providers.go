package core

import "context"

// AIProvider is a chat completion backend.
type AIProvider interface {
	Chat(ctx context.Context, history []Message) (Message, error)
}

// LanguageModel maps a prompt to a response text in one round trip.
type LanguageModel interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
