package embedding

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Rough chars-per-token ratio used when the BPE ranks cannot be loaded.
const fallbackCharsPerToken = 4

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

func tokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	return tk, tkErr
}

// Clip shortens text to at most maxTokens cl100k tokens. maxTokens <= 0
// disables clipping.
func Clip(text string, maxTokens int) string {
	if maxTokens <= 0 || text == "" {
		return text
	}

	enc, err := tokenizer()
	if err != nil {
		runes := []rune(text)
		if limit := maxTokens * fallbackCharsPerToken; len(runes) > limit {
			return string(runes[:limit])
		}
		return text
	}

	ids := enc.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return enc.Decode(ids[:maxTokens])
}

// CountTokens returns the cl100k token count of text, or -1 when the
// tokenizer is unavailable.
func CountTokens(text string) int {
	enc, err := tokenizer()
	if err != nil {
		return -1
	}
	return len(enc.Encode(text, nil, nil))
}
