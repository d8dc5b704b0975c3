package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty", query: "", want: nil},
		{name: "single word", query: "reasoning", want: nil},
		{
			name:  "machine learning basics",
			query: "machine learning basics",
			want:  []string{"machine learning", "learning basics"},
		},
		{
			name:  "lowercased and whitespace collapsed",
			query: "  Case-Based\tReasoning   EXAMPLE ",
			want:  []string{"case-based reasoning", "reasoning example"},
		},
		{
			// "the cat" is 7 chars, "on mat" is 6, every pair qualifies.
			name:  "short words",
			query: "the cat sat on mat",
			want:  []string{"the cat", "cat sat", "sat on", "on mat"},
		},
		{
			name:  "pair of length five excluded",
			query: "ab cd",
			want:  nil,
		},
		{
			name:  "pair of length six included",
			query: "ab cde",
			want:  []string{"ab cde"},
		},
		{
			// five runes, nine bytes
			name:  "accented pair of five characters excluded",
			query: "éé ab",
			want:  nil,
		},
		{
			name:  "cyrillic pairs",
			query: "Как работает память",
			want:  []string{"как работает", "работает память"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyTerms(tt.query))
		})
	}
}

func TestImportantTerms(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "empty", in: nil, want: nil},
		{
			name: "every word long",
			in:   []string{"machine learning", "learning basics"},
			want: []string{"machine learning", "learning basics"},
		},
		{
			name: "strict tier filters",
			in:   []string{"what is", "neural networks", "networks work"},
			want: []string{"neural networks"},
		},
		{
			name: "relaxed tier when strict is empty",
			in:   []string{"what analogical", "is it"},
			want: []string{"what analogical"},
		},
		{
			name: "fallback to all key terms",
			in:   []string{"the cat", "cat sat"},
			want: []string{"the cat", "cat sat"},
		},
		{
			name: "cyrillic word lengths count runes",
			in:   []string{"как работает", "работает память"},
			want: []string{"работает память"},
		},
		{
			// "años" is four runes but five bytes
			name: "accented word not long enough for strict tier",
			in:   []string{"años pasan", "el tiempo"},
			want: []string{"años pasan", "el tiempo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImportantTerms(tt.in))
		})
	}
}

func TestTokenize(t *testing.T) {
	key, important := Tokenize("how does photosynthesis work")
	assert.Equal(t, []string{"how does", "does photosynthesis", "photosynthesis work"}, key)
	assert.Equal(t, []string{"does photosynthesis", "photosynthesis work"}, important)

	key, important = Tokenize("как работает память")
	assert.Equal(t, []string{"как работает", "работает память"}, key)
	assert.Equal(t, []string{"работает память"}, important)
}
