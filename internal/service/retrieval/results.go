package retrieval

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/studybuddy/internal/core"
)

const previewLimit = 200

// FormatResults renders hits for people rather than for the model: distance,
// source and chunk index of each hit plus a preview of its text.
func FormatResults(hits []core.Hit) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d results:\n\n", len(hits))
	for i, hit := range hits {
		fmt.Fprintf(&sb, "--- Result %d (Distance: %.4f) ---\n", i+1, hit.Distance)
		fmt.Fprintf(&sb, "Source: %s\n", hit.Source())
		fmt.Fprintf(&sb, "Chunk Index: %s\n", hit.ChunkIndex())
		fmt.Fprintf(&sb, "Content: %s\n\n", preview(hit.Document))
	}
	return sb.String()
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLimit {
		return text
	}
	return string([]rune(text)[:previewLimit]) + "..."
}
