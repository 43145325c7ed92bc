package local

import (
	"strings"
	"unicode"
)

// Tokenize lowercases s and splits it on whitespace. Leading and trailing
// punctuation is removed from each term and empty terms are dropped.
func Tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, unicode.IsPunct)
		if f == "" {
			continue
		}

		terms = append(terms, f)
	}

	return terms
}
