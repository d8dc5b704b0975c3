package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSession struct {
	ConversationsFunc func(ctx context.Context) ([]core.Conversation, error)
	FlushFunc         func(ctx context.Context) error
	flushed           int
}

func (m *mockSession) Conversations(ctx context.Context) ([]core.Conversation, error) {
	if m.ConversationsFunc != nil {
		return m.ConversationsFunc(ctx)
	}
	return nil, nil
}

func (m *mockSession) Flush(ctx context.Context) error {
	m.flushed++
	if m.FlushFunc != nil {
		return m.FlushFunc(ctx)
	}
	return nil
}

func (m *mockSession) Path() string { return "/tmp/session.json" }

type mockDocuments struct {
	QueryFunc func(ctx context.Context, text string, n int) ([]core.Hit, error)
	GetFunc   func(ctx context.Context) ([]core.Record, error)
}

func (m *mockDocuments) Query(ctx context.Context, text string, n int) ([]core.Hit, error) {
	return m.QueryFunc(ctx, text, n)
}

func (m *mockDocuments) Get(ctx context.Context) ([]core.Record, error) {
	return m.GetFunc(ctx)
}

func newRouter(session *mockSession, docs *mockDocuments) *Router {
	return New(NewCommands(session, docs))
}

func TestRouter_Execute(t *testing.T) {
	ctx := context.Background()
	session := &mockSession{}
	r := newRouter(session, &mockDocuments{})

	tests := []struct {
		name      string
		input     string
		handled   bool
		wantParts []string
	}{
		{name: "plain question", input: "what is osmosis?", handled: false},
		{name: "unknown command", input: "/model gpt", handled: true, wantParts: []string{"Unknown command: /model"}},
		{name: "help lists commands", input: "/help", handled: true, wantParts: []string{"/history", "/save", "/sources", "/help", "quit"}},
		{name: "case insensitive", input: "/HELP", handled: true, wantParts: []string{"/sources"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, handled := r.Execute(ctx, tt.input)
			assert.Equal(t, tt.handled, handled)
			for _, part := range tt.wantParts {
				assert.Contains(t, out, part)
			}
		})
	}
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	var names []string
	for _, cmd := range newRouter(&mockSession{}, &mockDocuments{}).ListCommands() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"help", "history", "save", "sources"}, names)
}

func TestHistoryCommand(t *testing.T) {
	ctx := context.Background()
	convs := []core.Conversation{
		{Question: "first", Answer: "a1"},
		{Question: "second", Answer: strings.Repeat("x", 300)},
		{Question: "third", Answer: "a3"},
	}
	cmd := NewHistoryCommand(&mockSession{ConversationsFunc: func(ctx context.Context) ([]core.Conversation, error) {
		return convs, nil
	}})

	t.Run("all", func(t *testing.T) {
		out, err := cmd.Execute(ctx, nil)
		require.NoError(t, err)
		assert.Contains(t, out, "History (3)")
		assert.Contains(t, out, "**first**")
		assert.Contains(t, out, strings.Repeat("x", 200)+"...")
		assert.NotContains(t, out, strings.Repeat("x", 201))
	})

	t.Run("last n", func(t *testing.T) {
		out, err := cmd.Execute(ctx, []string{"1"})
		require.NoError(t, err)
		assert.Contains(t, out, "History (1)")
		assert.Contains(t, out, "**third**")
		assert.NotContains(t, out, "**first**")
	})

	t.Run("bad argument", func(t *testing.T) {
		out, err := cmd.Execute(ctx, []string{"many"})
		require.NoError(t, err)
		assert.Contains(t, out, "/history [N]")
	})

	t.Run("empty", func(t *testing.T) {
		out, err := NewHistoryCommand(&mockSession{}).Execute(ctx, nil)
		require.NoError(t, err)
		assert.Contains(t, out, "No conversations yet")
	})
}

func TestSaveCommand(t *testing.T) {
	ctx := context.Background()

	session := &mockSession{}
	out, err := NewSaveCommand(session).Execute(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, session.flushed)
	assert.Contains(t, out, "/tmp/session.json")

	failing := &mockSession{FlushFunc: func(ctx context.Context) error { return errors.New("disk full") }}
	out, handled := New(NewCommands(failing, &mockDocuments{})).Execute(ctx, "/save")
	assert.True(t, handled)
	assert.Contains(t, out, "/save failed")
	assert.Contains(t, out, "disk full")
}

func TestSourcesCommand(t *testing.T) {
	ctx := context.Background()
	var gotQuery string
	var gotN int
	docs := &mockDocuments{
		GetFunc: func(ctx context.Context) ([]core.Record, error) {
			return []core.Record{
				{Metadata: map[string]any{"source": "b.pdf"}},
				{Metadata: map[string]any{"source": "a.txt"}},
				{Metadata: map[string]any{"source": "b.pdf"}},
			}, nil
		},
		QueryFunc: func(ctx context.Context, text string, n int) ([]core.Hit, error) {
			gotQuery, gotN = text, n
			return []core.Hit{{Record: core.Record{Document: "chunk", Metadata: map[string]any{"source": "a.txt"}}, Distance: 0.5}}, nil
		},
	}
	cmd := NewSourcesCommand(docs)

	t.Run("list", func(t *testing.T) {
		out, err := cmd.Execute(ctx, nil)
		require.NoError(t, err)
		assert.Contains(t, out, "Sources (2 files, 3 chunks)")
		assert.Less(t, strings.Index(out, "a.txt"), strings.Index(out, "b.pdf"))
		assert.Contains(t, out, "`b.pdf`  2 chunks")
	})

	t.Run("search", func(t *testing.T) {
		out, err := cmd.Execute(ctx, []string{"cell", "wall"})
		require.NoError(t, err)
		assert.Equal(t, "cell wall", gotQuery)
		assert.Equal(t, sourcesResults, gotN)
		assert.Contains(t, out, "--- Result 1 (Distance: 0.5000) ---")
	})

	t.Run("empty store", func(t *testing.T) {
		empty := &mockDocuments{GetFunc: func(ctx context.Context) ([]core.Record, error) { return nil, nil }}
		out, err := NewSourcesCommand(empty).Execute(ctx, nil)
		require.NoError(t, err)
		assert.Contains(t, out, "No documents ingested yet")
	})
}
