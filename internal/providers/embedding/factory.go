package embedding

import (
	"context"

	"github.com/sandevgo/studybuddy/internal/config"
	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/pkg/log"
)

func NewEmbedder(ctx context.Context, cfg *config.RAGConfig) core.Embedder {
	log.FromCtx(ctx).Debug().
		Str("base_url", cfg.EmbeddingBaseURL).
		Str("model", cfg.EmbeddingModel).
		Msg("starting embedder")

	return NewOpenAI(Config{
		BaseURL:   cfg.EmbeddingBaseURL,
		APIKey:    cfg.EmbeddingAPIKey,
		Model:     cfg.EmbeddingModel,
		MaxTokens: cfg.EmbeddingMaxTokens,
	})
}
