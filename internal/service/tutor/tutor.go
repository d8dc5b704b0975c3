package tutor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/internal/service/prompt"
	"github.com/sandevgo/studybuddy/internal/service/retrieval"
	"github.com/sandevgo/studybuddy/pkg/log"
)

const MetaRetrievedDocs = "retrieved_docs_count"

type Memory interface {
	Add(ctx context.Context, question, answer string, metadata map[string]any) (core.Conversation, error)
	Relevant(ctx context.Context, query string, n int) ([]core.Conversation, error)
	All(ctx context.Context) ([]core.Conversation, error)
}

type Documents interface {
	Process(ctx context.Context, query string, importantTerms, keyTerms []string) core.Retrieval
}

type QueryOptimizer interface {
	Optimize(ctx context.Context, question string, history []core.Conversation) (string, error)
}

type Config struct {
	HistoryResults           int
	HistoryDistanceThreshold float64
	HistoryFallback          int
}

func DefaultConfig() Config {
	return Config{
		HistoryResults:           3,
		HistoryDistanceThreshold: 1.2,
		HistoryFallback:          2,
	}
}

// Answer is the outcome of one turn.
type Answer struct {
	RequestID      string
	Question       string
	OptimizedQuery string
	Prompt         string
	Text           string
	History        []core.Conversation
	Retrieval      core.Retrieval
}

// Tutor runs the question pipeline: history lookup, query rewrite,
// document retrieval, prompting and storing the turn.
type Tutor struct {
	model     core.LanguageModel
	optimizer QueryOptimizer
	documents Documents
	memory    Memory
	cfg       Config

	mu    sync.Mutex
	asked bool
}

func New(model core.LanguageModel, optimizer QueryOptimizer, documents Documents, memory Memory, cfg Config) *Tutor {
	return &Tutor{
		model:     model,
		optimizer: optimizer,
		documents: documents,
		memory:    memory,
		cfg:       cfg,
	}
}

// Ask answers question with relevant history. The first question of a
// Tutor's lifetime is answered without history. Turns are serialised.
func (t *Tutor) Ask(ctx context.Context, question string) (Answer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ctx, _ = withRequestID(ctx)

	var history []core.Conversation
	if t.asked {
		history = t.RelevantHistory(ctx, question)
	}
	t.asked = true

	return t.Process(ctx, question, history)
}

// RelevantHistory returns the stored turns closer than the history threshold.
// With none close enough it falls back to the most recent turns. Memory
// errors yield no history.
func (t *Tutor) RelevantHistory(ctx context.Context, question string) []core.Conversation {
	logger := log.FromCtx(ctx)

	relevant, err := t.memory.Relevant(ctx, question, t.cfg.HistoryResults)
	if err != nil {
		logger.Warn().Err(err).Msg("relevant history lookup failed")
	}

	var kept []core.Conversation
	for _, c := range relevant {
		if c.Distance < t.cfg.HistoryDistanceThreshold {
			kept = append(kept, c)
		}
	}
	if len(kept) > 0 {
		logger.Debug().Int("relevant", len(kept)).Msg("using relevant history")
		return kept
	}

	all, err := t.memory.All(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("history lookup failed")
		return nil
	}
	if n := t.cfg.HistoryFallback; len(all) > n {
		all = all[len(all)-n:]
	}
	if len(all) == 0 {
		return nil
	}
	logger.Debug().Int("recent", len(all)).Msg("no close history, using most recent turns")
	return all
}

// Process runs one turn with the given history. Only model errors are
// returned; a failed retrieval still produces a prompt without documents.
func (t *Tutor) Process(ctx context.Context, question string, history []core.Conversation) (Answer, error) {
	ctx, id := withRequestID(ctx)
	logger := log.FromCtx(ctx)
	ans := Answer{RequestID: id, Question: question, History: history}

	optimized, err := t.optimizer.Optimize(ctx, question, history)
	if err != nil {
		return ans, err
	}
	ans.OptimizedQuery = optimized
	logger.Info().Str("query", optimized).Msg("optimized query")

	keyTerms, importantTerms := retrieval.Tokenize(optimized)
	ans.Retrieval = t.documents.Process(ctx, optimized, importantTerms, keyTerms)
	if !ans.Retrieval.OK() {
		logger.Warn().Str("retrieval", ans.Retrieval.String()).Msg("answering without documents")
	} else {
		logger.Debug().Str("retrieval", ans.Retrieval.String()).Msg("documents retrieved")
	}

	ans.Prompt = prompt.Format(question, ans.Retrieval.Text, history)
	logger.Debug().Str("prompt", ans.Prompt).Msg("prompt sent to model")

	ans.Text, err = t.model.Invoke(ctx, ans.Prompt)
	if err != nil {
		return ans, fmt.Errorf("answer question: %w", err)
	}

	meta := map[string]any{MetaRetrievedDocs: len(ans.Retrieval.Hits)}
	if _, err := t.memory.Add(ctx, question, ans.Text, meta); err != nil {
		logger.Error().Err(err).Msg("failed to store conversation")
	}

	return ans, nil
}

type requestIDKey struct{}

// withRequestID tags ctx and its logger with a request id unless it already
// carries one.
func withRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return ctx, id
	}
	id := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	return log.With(ctx, "request_id", id), id
}
