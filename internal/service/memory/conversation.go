package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sandevgo/studybuddy/internal/core"
)

const (
	keyTimestamp = "timestamp"
	keyQuestion  = "question"
	keyAnswer    = "answer"
)

// Accepted timestamp layouts, newest writer first. The naive layouts match
// sessions written by the earlier Python tool.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ConversationMemory keeps question/answer turns in a vector collection so
// earlier turns can be found by similarity.
type ConversationMemory struct {
	store core.Collection
	now   func() time.Time

	mu     sync.Mutex
	lastID string
	dupes  int
}

func NewConversationMemory(store core.Collection) *ConversationMemory {
	return &ConversationMemory{store: store, now: time.Now}
}

// Add stores one turn keyed by the current timestamp. Extra metadata is
// merged over the reserved keys.
func (m *ConversationMemory) Add(ctx context.Context, question, answer string, metadata map[string]any) (core.Conversation, error) {
	ts := m.now().Format(time.RFC3339Nano)

	meta := map[string]any{
		keyTimestamp: ts,
		keyQuestion:  question,
		keyAnswer:    answer,
	}
	for k, v := range metadata {
		meta[k] = v
	}

	rec := core.Record{
		ID:       m.nextID(ts),
		Document: fmt.Sprintf("Question: %s\nAnswer: %s", question, answer),
		Metadata: meta,
	}
	if err := m.store.Add(ctx, rec); err != nil {
		return core.Conversation{}, fmt.Errorf("store conversation: %w", err)
	}

	return fromMetadata(meta), nil
}

// Relevant returns up to n stored turns ranked by similarity to query.
func (m *ConversationMemory) Relevant(ctx context.Context, query string, n int) ([]core.Conversation, error) {
	hits, err := m.store.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}

	out := make([]core.Conversation, 0, len(hits))
	for _, hit := range hits {
		conv := fromMetadata(hit.Metadata)
		conv.Distance = hit.Distance
		out = append(out, conv)
	}
	return out, nil
}

// All returns every stored turn in chronological order. Turns with a missing
// or unparsable timestamp sort first.
func (m *ConversationMemory) All(ctx context.Context) ([]core.Conversation, error) {
	records, err := m.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get conversations: %w", err)
	}

	out := make([]core.Conversation, 0, len(records))
	for _, rec := range records {
		out = append(out, fromMetadata(rec.Metadata))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i].Timestamp) < sortKey(out[j].Timestamp)
	})
	return out, nil
}

// nextID returns ts, suffixed when two turns land on the same timestamp.
func (m *ConversationMemory) nextID(ts string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ts != m.lastID {
		m.lastID = ts
		m.dupes = 0
		return ts
	}
	m.dupes++
	return fmt.Sprintf("%s#%d", ts, m.dupes)
}

func fromMetadata(meta map[string]any) core.Conversation {
	conv := core.Conversation{
		Question:  stringValue(meta[keyQuestion]),
		Answer:    stringValue(meta[keyAnswer]),
		Timestamp: stringValue(meta[keyTimestamp]),
		Metadata:  map[string]any{},
	}
	for k, v := range meta {
		switch k {
		case keyQuestion, keyAnswer, keyTimestamp:
		default:
			conv.Metadata[k] = v
		}
	}
	return conv
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func sortKey(ts string) int64 {
	if ts == "" {
		return 0
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UnixNano()
		}
	}
	return 0
}
