package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockModel struct {
	InvokeFunc func(ctx context.Context, prompt string) (string, error)
	prompts    []string
}

func (m *mockModel) Invoke(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.InvokeFunc(ctx, prompt)
}

func reply(s string) *mockModel {
	return &mockModel{InvokeFunc: func(ctx context.Context, prompt string) (string, error) { return s, nil }}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc...", truncate("abcdef", 3))
	assert.Equal(t, "ab...", truncate("ab", 3))
	assert.Equal(t, "...", truncate("", 3))
	assert.Equal(t, "héé...", truncate("hééllo", 3))
}

func TestFormat_NoHistory(t *testing.T) {
	docs := "\n--- Document 1 (Source: a.md) ---\nChunk\n"
	got := Format("What is CBR?", docs, nil)

	assert.True(t, strings.HasPrefix(got, "You are StudyBuddy"))
	assert.Contains(t, got, "## USER QUESTION\nWhat is CBR?\n\n## RETRIEVED DOCUMENTS (PRIMARY SOURCE)\n"+docs+"\n\n## YOUR TASK")
	assert.NotContains(t, got, "PREVIOUS CONVERSATION CONTEXT")
	assert.NotContains(t, got, "{")
}

func TestFormat_WithHistory(t *testing.T) {
	long := strings.Repeat("x", 300)
	history := []core.Conversation{
		{Question: "What is case-based reasoning?", Answer: long},
		{Question: "Steps?", Answer: "Retrieve, reuse."},
	}

	got := Format("example", "DOCS", history)

	assert.Contains(t, got, "## PREVIOUS CONVERSATION CONTEXT (FOR REFERENCE ONLY)")
	assert.Contains(t, got, "**Previous Q&A 1:**\nQuestion: What is case-based reasoning?\nAnswer: "+strings.Repeat("x", 200)+"...\n\n")
	assert.Contains(t, got, "**Previous Q&A 2:**\nQuestion: Steps?\nAnswer: Retrieve, reuse....\n\n")
	assert.NotContains(t, got, strings.Repeat("x", 201))

	// History sits between the question and the documents.
	qIdx := strings.Index(got, "## USER QUESTION")
	hIdx := strings.Index(got, "## PREVIOUS CONVERSATION CONTEXT")
	dIdx := strings.Index(got, "## RETRIEVED DOCUMENTS")
	assert.True(t, qIdx < hIdx && hIdx < dIdx)
}

func TestFormatSimple(t *testing.T) {
	got := FormatSimple("What is entropy?", "DOCS")
	assert.Contains(t, got, "The user's question is: What is entropy?")
	assert.Contains(t, got, "knowledge base are:\nDOCS\n")
}

func TestOptimizer_Optimize(t *testing.T) {
	ctx := context.Background()
	history := []core.Conversation{
		{Question: "What is case-based reasoning?", Answer: "A method."},
		{Question: "Who invented it?", Answer: "Researchers."},
		{Question: "Third turn", Answer: "Ignored."},
	}

	tests := []struct {
		name     string
		question string
		history  []core.Conversation
		response string
		want     string
	}{
		{
			name:     "no history keeps model output",
			question: "example",
			response: "  example  \n",
			want:     "example",
		},
		{
			name:     "terse rewrite with short question uses previous question",
			question: "Give me an example",
			history:  history,
			response: "example",
			want:     "What is case-based reasoning? Give me an example",
		},
		{
			name:     "two word rewrite still terse",
			question: "how?",
			history:  history,
			response: "reasoning how",
			want:     "What is case-based reasoning? how?",
		},
		{
			name:     "three word rewrite kept",
			question: "example",
			history:  history,
			response: "case-based reasoning example",
			want:     "case-based reasoning example",
		},
		{
			name:     "long question keeps terse rewrite",
			question: "can you please give me an example",
			history:  history,
			response: "CBR example",
			want:     "CBR example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewOptimizer(reply(tt.response)).Optimize(ctx, tt.question, tt.history)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptimizer_PromptContents(t *testing.T) {
	model := reply("query")
	history := []core.Conversation{
		{Question: "Q1", Answer: strings.Repeat("a", 260)},
		{Question: "Q2", Answer: "short"},
		{Question: "Q3", Answer: "never shown"},
	}

	_, err := NewOptimizer(model).Optimize(context.Background(), "follow up", history)
	require.NoError(t, err)
	require.Len(t, model.prompts, 1)

	p := model.prompts[0]
	assert.Contains(t, p, "## CURRENT USER QUESTION\nfollow up\n\n## PREVIOUS CONVERSATION CONTEXT (MANDATORY TO USE)\n")
	assert.Contains(t, p, "Previous Conversation 1:\nQuestion: Q1\nAnswer summary: "+strings.Repeat("a", 250)+"...\n\n")
	assert.Contains(t, p, "Previous Conversation 2:\nQuestion: Q2\nAnswer summary: short...\n\n")
	assert.NotContains(t, p, "Q3")
}

func TestOptimizer_PromptWithoutHistory(t *testing.T) {
	model := reply("query")
	_, err := NewOptimizer(model).Optimize(context.Background(), "What is CBR?", nil)
	require.NoError(t, err)

	assert.Contains(t, model.prompts[0], "## CURRENT USER QUESTION\nWhat is CBR?\n\n## ABSOLUTE REQUIREMENT")
}

func TestOptimizer_ModelError(t *testing.T) {
	sentinel := errors.New("model offline")
	model := &mockModel{InvokeFunc: func(ctx context.Context, prompt string) (string, error) {
		return "", sentinel
	}}

	_, err := NewOptimizer(model).Optimize(context.Background(), "q", nil)
	assert.ErrorIs(t, err, sentinel)
	assert.Len(t, model.prompts, 1)
}
