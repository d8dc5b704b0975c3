package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/pkg/log"
)

const (
	DefaultNResults          = 20
	DefaultDistanceThreshold = 1.5
)

// Store is the part of a document collection the processor reads.
type Store interface {
	Query(ctx context.Context, text string, n int) ([]core.Hit, error)
	Count(ctx context.Context) (int, error)
}

type Config struct {
	NResults          int
	DistanceThreshold float64
}

func DefaultConfig() Config {
	return Config{
		NResults:          DefaultNResults,
		DistanceThreshold: DefaultDistanceThreshold,
	}
}

// Processor retrieves document chunks for a query and turns them into the
// documents block of the tutor prompt.
type Processor struct {
	store Store
	cfg   Config
}

func NewProcessor(store Store, cfg Config) *Processor {
	if cfg.NResults <= 0 {
		cfg.NResults = DefaultNResults
	}
	return &Processor{store: store, cfg: cfg}
}

func (p *Processor) Retrieve(ctx context.Context, query string) ([]core.Hit, error) {
	return p.store.Query(ctx, query, p.cfg.NResults)
}

// Filter keeps hits closer than the distance threshold whose lowercased text
// contains an important term. Key terms are used when there are no important
// terms; with neither, only the distance gate applies.
func (p *Processor) Filter(hits []core.Hit, importantTerms, keyTerms []string) []core.Hit {
	terms := importantTerms
	if len(terms) == 0 {
		terms = keyTerms
	}

	var kept []core.Hit
	for _, hit := range hits {
		if hit.Distance >= p.cfg.DistanceThreshold {
			continue
		}
		if len(terms) > 0 && !containsAny(strings.ToLower(hit.Document), terms) {
			continue
		}
		kept = append(kept, hit)
	}
	return kept
}

// Format renders hits as numbered document blocks.
func Format(hits []core.Hit) string {
	var sb strings.Builder
	for i, hit := range hits {
		fmt.Fprintf(&sb, "\n--- Document %d (Source: %s) ---\n", i+1, hit.Source())
		sb.WriteString(hit.Document)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Process runs retrieve, filter and format. It never returns a Go error: a
// store failure or an empty result is reported through the Retrieval outcome.
func (p *Processor) Process(ctx context.Context, query string, importantTerms, keyTerms []string) core.Retrieval {
	logger := log.FromCtx(ctx)

	hits, err := p.Retrieve(ctx, query)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("document retrieval failed")
		return core.Retrieval{Outcome: core.OutcomeFailed, Reason: core.ReasonStoreError, Err: err}
	}

	if len(hits) == 0 {
		return p.emptyResult(ctx)
	}

	res := core.Retrieval{Hits: hits}
	if res.Kept = p.Filter(hits, importantTerms, keyTerms); len(res.Kept) > 0 {
		res.Outcome = core.OutcomeFiltered
		res.Text = Format(res.Kept)
	} else {
		res.Outcome = core.OutcomeRaw
		res.Text = Format(hits)
	}

	logger.Debug().
		Str("outcome", string(res.Outcome)).
		Int("hits", len(hits)).
		Int("kept", len(res.Kept)).
		Msg("documents retrieved")

	return res
}

func (p *Processor) emptyResult(ctx context.Context) core.Retrieval {
	n, err := p.store.Count(ctx)
	switch {
	case err != nil:
		return core.Retrieval{Outcome: core.OutcomeFailed, Reason: core.ReasonStoreError, Err: err}
	case n == 0:
		return core.Retrieval{Outcome: core.OutcomeFailed, Reason: core.ReasonEmptyStore}
	default:
		return core.Retrieval{Outcome: core.OutcomeFailed, Reason: core.ReasonNoResults}
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
