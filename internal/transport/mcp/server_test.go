package mcp

import (
	"context"
	"errors"
	"testing"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/internal/service/tutor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAsker struct {
	AskFunc func(ctx context.Context, question string) (tutor.Answer, error)
}

func (m *mockAsker) Ask(ctx context.Context, question string) (tutor.Answer, error) {
	return m.AskFunc(ctx, question)
}

type mockSearcher struct {
	QueryFunc func(ctx context.Context, text string, n int) ([]core.Hit, error)
}

func (m *mockSearcher) Query(ctx context.Context, text string, n int) ([]core.Hit, error) {
	return m.QueryFunc(ctx, text, n)
}

func callRequest(name string, args map[string]any) mcpproto.CallToolRequest {
	var req mcpproto.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcpproto.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcpproto.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestServer_Search(t *testing.T) {
	ctx := context.Background()
	var gotN int
	searcher := &mockSearcher{QueryFunc: func(ctx context.Context, text string, n int) ([]core.Hit, error) {
		gotN = n
		if text == "broken" {
			return nil, errors.New("store closed")
		}
		return []core.Hit{{Record: core.Record{Document: "ATP synthase", Metadata: map[string]any{"source": "bio.txt"}}, Distance: 0.25}}, nil
	}}
	s := NewServer(&mockAsker{}, searcher, nil, nil)

	tests := []struct {
		name    string
		args    map[string]any
		wantN   int
		isError bool
		want    string
	}{
		{name: "default count", args: map[string]any{"query": "atp"}, wantN: defaultSearchResults, want: "Source: bio.txt"},
		{name: "explicit count", args: map[string]any{"query": "atp", "n_results": 3}, wantN: 3, want: "Distance: 0.2500"},
		{name: "count capped", args: map[string]any{"query": "atp", "n_results": 500}, wantN: maxSearchResults, want: "ATP synthase"},
		{name: "missing query", args: map[string]any{}, isError: true},
		{name: "store error", args: map[string]any{"query": "broken"}, wantN: defaultSearchResults, isError: true, want: "store closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotN = 0
			res, err := s.handleSearch(ctx, callRequest("search_documents", tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.isError, res.IsError)
			assert.Equal(t, tt.wantN, gotN)
			if tt.want != "" {
				assert.Contains(t, resultText(t, res), tt.want)
			}
		})
	}
}

func TestServer_Ask(t *testing.T) {
	ctx := context.Background()
	asker := &mockAsker{AskFunc: func(ctx context.Context, question string) (tutor.Answer, error) {
		if question == "fail" {
			return tutor.Answer{}, errors.New("model down")
		}
		return tutor.Answer{Text: "The mitochondria."}, nil
	}}
	s := NewServer(asker, &mockSearcher{}, nil, nil)

	res, err := s.handleAsk(ctx, callRequest("ask", map[string]any{"question": "powerhouse?"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "The mitochondria.", resultText(t, res))

	res, err = s.handleAsk(ctx, callRequest("ask", map[string]any{"question": "fail"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "model down")

	res, err = s.handleAsk(ctx, callRequest("ask", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
