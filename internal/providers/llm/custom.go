package llm

import "strings"

// CustomOpenAI targets a self-hosted OpenAI-compatible server (vLLM, LM Studio, llama.cpp).
type CustomOpenAI struct {
	*OpenAICompatible
}

// NewCustomOpenAI accepts a base URL with or without the trailing /v1.
func NewCustomOpenAI(baseURL, apiKey, model string) *CustomOpenAI {
	baseURL = strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/v1")
	return &CustomOpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    baseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}
