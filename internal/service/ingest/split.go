package ingest

import (
	"strings"
	"unicode/utf8"
)

const DefaultMinChunkLength = 10

type Chunk struct {
	Index int
	Text  string
}

// Split cuts a document on blank lines. Empty pieces are dropped before
// indexing; pieces shorter than minLength characters are dropped after, so
// indexes stay stable when a short piece sits between two long ones. The
// second return value is the number of short pieces dropped.
func Split(document string, minLength int) ([]Chunk, int) {
	var (
		chunks  []Chunk
		skipped int
		index   int
	)
	for _, piece := range strings.Split(document, "\n\n") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if utf8.RuneCountInString(piece) < minLength {
			skipped++
		} else {
			chunks = append(chunks, Chunk{Index: index, Text: piece})
		}
		index++
	}
	return chunks, skipped
}
