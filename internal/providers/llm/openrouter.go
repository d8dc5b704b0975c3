package llm

import "github.com/sandevgo/studybuddy/internal/core"

const openRouterBaseURL = "https://openrouter.ai/api"

type OpenRouter struct {
	*OpenAICompatible
}

// NewOpenRouter sets the attribution headers OpenRouter uses for its app rankings.
func NewOpenRouter(apiKey, model string) *OpenRouter {
	return &OpenRouter{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    openRouterBaseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			ExtraHeaders: map[string]string{
				"HTTP-Referer": core.RepositoryURL,
				"X-Title":      core.AppName,
			},
		}),
	}
}
