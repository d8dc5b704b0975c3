package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/studybuddy/pkg/log"
)

type RAGConfig struct {
	EmbeddingBaseURL   string `env:"EMBEDDING_BASE_URL" envDefault:"http://localhost:11434/v1"`
	EmbeddingAPIKey    string `env:"EMBEDDING_API_KEY" envDefault:"ollama"`
	EmbeddingModel     string `env:"EMBEDDING_MODEL" envDefault:"nomic-embed-text"`
	EmbeddingMaxTokens int    `env:"EMBEDDING_MAX_TOKENS" envDefault:"2048"`

	NResults          int     `env:"RAG_N_RESULTS" envDefault:"20"`
	DistanceThreshold float64 `env:"RAG_DISTANCE_THRESHOLD" envDefault:"1.5"`

	HistoryResults           int     `env:"RAG_HISTORY_RESULTS" envDefault:"3"`
	HistoryDistanceThreshold float64 `env:"RAG_HISTORY_DISTANCE_THRESHOLD" envDefault:"1.2"`
	HistoryFallback          int     `env:"RAG_HISTORY_FALLBACK" envDefault:"2"`

	MinChunkLength int `env:"RAG_MIN_CHUNK_LENGTH" envDefault:"10"`
}

func NewRAGConfig(ctx context.Context) *RAGConfig {
	cfg, err := ParseRAGConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse RAG config")
	}
	return cfg
}

func ParseRAGConfig() (*RAGConfig, error) {
	cfg := &RAGConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
