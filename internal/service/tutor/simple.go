package tutor

import (
	"context"
	"fmt"

	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/internal/service/prompt"
	"github.com/sandevgo/studybuddy/internal/service/retrieval"
	"github.com/sandevgo/studybuddy/pkg/log"
)

const DefaultSimpleResults = 10

type Searcher interface {
	Query(ctx context.Context, text string, n int) ([]core.Hit, error)
}

// Simple answers a single question from the top n hits with no filtering,
// no query rewrite and no memory.
type Simple struct {
	model    core.LanguageModel
	searcher Searcher
	n        int
}

func NewSimple(model core.LanguageModel, searcher Searcher, n int) *Simple {
	if n <= 0 {
		n = DefaultSimpleResults
	}
	return &Simple{model: model, searcher: searcher, n: n}
}

func (s *Simple) Ask(ctx context.Context, question string) (Answer, error) {
	ctx, id := withRequestID(ctx)
	ans := Answer{RequestID: id, Question: question, OptimizedQuery: question}

	hits, err := s.searcher.Query(ctx, question, s.n)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("search failed, answering without documents")
		ans.Retrieval = core.Retrieval{Outcome: core.OutcomeFailed, Reason: core.ReasonStoreError, Err: err}
	} else if len(hits) == 0 {
		ans.Retrieval = core.Retrieval{Outcome: core.OutcomeFailed, Reason: core.ReasonNoResults}
	} else {
		ans.Retrieval = core.Retrieval{Outcome: core.OutcomeRaw, Hits: hits, Kept: hits, Text: retrieval.Format(hits)}
	}

	ans.Prompt = prompt.FormatSimple(question, ans.Retrieval.Text)
	ans.Text, err = s.model.Invoke(ctx, ans.Prompt)
	if err != nil {
		return ans, fmt.Errorf("answer question: %w", err)
	}
	return ans, nil
}
