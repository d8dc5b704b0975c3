package prompt

import (
	"fmt"
	"strings"

	"github.com/sandevgo/studybuddy/internal/core"
)

const (
	historyAnswerLimit   = 200
	optimizerAnswerLimit = 250
	optimizerHistoryMax  = 2
)

func fill(template string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(template)
}

// truncate keeps the first n characters of s and always appends an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}

// Format assembles the tutor prompt. The history block is included only when
// history is non-empty.
func Format(question, documentsText string, history []core.Conversation) string {
	return fill(TutorTemplate,
		"{user_question}", question,
		"{history_text}", historyText(history),
		"{documents_text}", documentsText,
	)
}

// FormatSimple builds the one-shot prompt with no history block.
func FormatSimple(question, documentsText string) string {
	return fill(SimpleTemplate,
		"{user_question}", question,
		"{documents_text}", documentsText,
	)
}

func historyText(history []core.Conversation) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, conv := range history {
		fmt.Fprintf(&sb, "**Previous Q&A %d:**\n", i+1)
		fmt.Fprintf(&sb, "Question: %s\n", conv.Question)
		fmt.Fprintf(&sb, "Answer: %s\n\n", truncate(conv.Answer, historyAnswerLimit))
	}

	return fill(HistoryContextTemplate, "{previous_qa}", sb.String())
}
