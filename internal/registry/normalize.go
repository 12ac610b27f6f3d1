package registry

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// NormalizeTokens splits a phrase into normalized word tokens: NFKC
// normalization (so "sin²θ" and "sin2θ" agree on the digit), Unicode case
// folding, and punctuation treated as whitespace. Both alias registration and
// free-text matching go through this function, so the two sides can never
// disagree on what a token is.
func NormalizeTokens(s string) []string {
	folded := foldCaser.String(norm.NFKC.String(s))

	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return tokens
}

// aliasKey joins normalized tokens into the index key.
func aliasKey(tokens []string) string {
	return strings.Join(tokens, " ")
}
