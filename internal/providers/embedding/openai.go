package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sandevgo/studybuddy/pkg/log"
	"github.com/sandevgo/studybuddy/pkg/retry"
	"github.com/sashabaranov/go-openai"
)

var ErrNoEmbedding = errors.New("embedding endpoint returned no vector")

// OpenAI embeds text through any OpenAI-compatible /embeddings endpoint,
// Ollama's /v1 included.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
	retrier   *retry.Retrier
}

type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Retry     *retry.Config
}

func NewOpenAI(cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	rc := cfg.Retry
	if rc == nil {
		rc = retry.NewDefaultConfig()
	}

	return &OpenAI{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		retrier:   retry.NewRetrier(rc),
	}
}

func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	input := Clip(text, e.maxTokens)
	if len(input) < len(text) {
		log.FromCtx(ctx).Debug().
			Int("chars", len(text)).
			Int("kept", len(input)).
			Msg("embedding input clipped")
	}

	return retry.DoValue(ctx, e.retrier, func() ([]float32, error) {
		rsp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{input},
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			if !retryable(err) {
				return nil, retry.Permanent(fmt.Errorf("embed: %w", err))
			}
			log.FromCtx(ctx).Warn().Err(err).Msg("embedding request failed, retrying")
			return nil, fmt.Errorf("embed: %w", err)
		}
		if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
			return nil, retry.Permanent(ErrNoEmbedding)
		}
		return rsp.Data[0].Embedding, nil
	})
}

// retryable reports whether err is a transport failure, a rate limit or a
// server error. Other client errors will not succeed on a second try.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return true
	}
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
