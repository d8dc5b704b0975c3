package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/pkg/log"
)

const (
	terseRewriteWords = 2
	shortQuestion     = 4
)

// Optimizer rewrites a possibly elliptical question into a self-contained
// search query using the model and the previous turns.
type Optimizer struct {
	model core.LanguageModel
}

func NewOptimizer(model core.LanguageModel) *Optimizer {
	return &Optimizer{model: model}
}

// Optimize invokes the model once. When history exists and both the rewrite
// and the question are short, the rewrite is replaced by the previous
// question followed by the current one.
func (o *Optimizer) Optimize(ctx context.Context, question string, history []core.Conversation) (string, error) {
	prompt := fill(QueryOptimizerTemplate,
		"{user_question}", question,
		"{history_context}", historyContext(history),
	)

	response, err := o.model.Invoke(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("optimize query: %w", err)
	}
	optimized := strings.TrimSpace(response)

	if len(history) > 0 &&
		len(strings.Fields(optimized)) <= terseRewriteWords &&
		len(strings.Fields(question)) <= shortQuestion {
		log.FromCtx(ctx).Debug().
			Str("rewrite", optimized).
			Msg("terse rewrite replaced with previous question")
		optimized = history[0].Question + " " + question
	}

	return optimized, nil
}

func historyContext(history []core.Conversation) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > optimizerHistoryMax {
		history = history[:optimizerHistoryMax]
	}

	var sb strings.Builder
	sb.WriteString("\n## PREVIOUS CONVERSATION CONTEXT (MANDATORY TO USE)\n")
	sb.WriteString("The current question is a FOLLOW-UP. You MUST use the context below.\n\n")
	for i, conv := range history {
		fmt.Fprintf(&sb, "Previous Conversation %d:\n", i+1)
		fmt.Fprintf(&sb, "Question: %s\n", conv.Question)
		fmt.Fprintf(&sb, "Answer summary: %s\n\n", truncate(conv.Answer, optimizerAnswerLimit))
	}
	return sb.String()
}
