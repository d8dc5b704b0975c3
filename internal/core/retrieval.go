package core

import "fmt"

// RetrievalOutcome tags which tier produced the documents text.
type RetrievalOutcome string

const (
	// OutcomeFiltered means at least one hit passed the distance and term gates.
	OutcomeFiltered RetrievalOutcome = "filtered"
	// OutcomeRaw means nothing passed the gates and the unfiltered hits were used.
	OutcomeRaw RetrievalOutcome = "raw"
	// OutcomeFailed means no documents text could be produced.
	OutcomeFailed RetrievalOutcome = "failed"
)

// RetrievalReason explains a failed retrieval.
type RetrievalReason string

const (
	ReasonNone       RetrievalReason = ""
	ReasonEmptyStore RetrievalReason = "empty_store"
	ReasonNoResults  RetrievalReason = "no_results"
	ReasonStoreError RetrievalReason = "store_error"
)

// Retrieval is the result of one document lookup.
type Retrieval struct {
	Outcome RetrievalOutcome
	Reason  RetrievalReason
	// Text is the formatted documents block; empty when Outcome is failed.
	Text string
	// Hits are the raw ranked results as returned by the store.
	Hits []Hit
	// Kept are the hits that passed filtering.
	Kept []Hit
	Err  error
}

func (r Retrieval) OK() bool {
	return r.Outcome != OutcomeFailed
}

func (r Retrieval) String() string {
	switch {
	case r.Outcome != OutcomeFailed:
		return fmt.Sprintf("%s: %d of %d hits", r.Outcome, len(r.Kept), len(r.Hits))
	case r.Err != nil:
		return fmt.Sprintf("%s (%s): %v", r.Outcome, r.Reason, r.Err)
	default:
		return fmt.Sprintf("%s (%s)", r.Outcome, r.Reason)
	}
}
