package retrieval

import (
	"strings"
	"unicode/utf8"
)

const (
	minPairLength      = 5
	importantWordLen   = 4
	distinctiveWordLen = 6
)

// KeyTerms returns the lowercase adjacent word pairs of query whose joined
// form (with the separating space) is longer than five characters. Lengths
// count runes.
func KeyTerms(query string) []string {
	words := strings.Fields(strings.ToLower(query))

	var terms []string
	for i := 0; i+1 < len(words); i++ {
		pair := words[i] + " " + words[i+1]
		if utf8.RuneCountInString(pair) > minPairLength {
			terms = append(terms, pair)
		}
	}
	return terms
}

// ImportantTerms narrows key terms to the most domain-specific ones: pairs
// where every word is longer than four characters, else pairs with any word
// longer than six, else all of them.
func ImportantTerms(keyTerms []string) []string {
	if important := selectTerms(keyTerms, func(words []string) bool {
		for _, w := range words {
			if utf8.RuneCountInString(w) <= importantWordLen {
				return false
			}
		}
		return true
	}); len(important) > 0 {
		return important
	}

	if important := selectTerms(keyTerms, func(words []string) bool {
		for _, w := range words {
			if utf8.RuneCountInString(w) > distinctiveWordLen {
				return true
			}
		}
		return false
	}); len(important) > 0 {
		return important
	}

	return keyTerms
}

// Tokenize returns the key terms of query and their important subset.
func Tokenize(query string) (keyTerms, importantTerms []string) {
	keyTerms = KeyTerms(query)
	return keyTerms, ImportantTerms(keyTerms)
}

func selectTerms(terms []string, keep func(words []string) bool) []string {
	var out []string
	for _, term := range terms {
		if keep(strings.Fields(term)) {
			out = append(out, term)
		}
	}
	return out
}
