// Package match scores claims against the snippet corpus: a TF-IDF index
// fitted once over every snippet, a numeric-aware labelling chain per
// candidate and a verdict per claim.
package match

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// tokenRe keeps runs of two or more letters, digits or underscores
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize normalizes text (NFKC, case folded) and splits it into terms,
// dropping English stop words.
func Tokenize(text string) []string {
	// A Caser is stateful, so each call gets its own
	text = cases.Fold().String(norm.NFKC.String(text))

	raw := tokenRe.FindAllString(text, -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// containsAny reports whether lower-cased text contains any of words
func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
