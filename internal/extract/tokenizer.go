package extract

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/veldt/simaudit/internal/registry"
)

// tokenKind discriminates scanner tokens.
type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenNumber
)

// token is one scanner token with its span in the original text.
// Word tokens carry normalized text; number tokens carry the parsed value.
type token struct {
	kind    tokenKind
	text    string  // normalized word text (words only)
	value   float64 // parsed value (numbers only)
	percent bool    // number immediately followed by '%'
	raw     string  // original span
	start   int     // byte offset in original text
	end     int
}

// tokenize scans text into word and number tokens.
//
// Numbers: optional sign (only at a token boundary), digits, optional
// fraction, optional exponent, optional trailing '%'. Words: maximal runs of
// letters and digits, normalized through the same rules the registry applies
// to aliases so the two sides always agree.
func tokenize(text string) []token {
	var tokens []token
	i := 0
	n := len(text)

	for i < n {
		r, size := utf8.DecodeRuneInString(text[i:])

		switch {
		case unicode.IsDigit(r):
			tok, next := scanNumber(text, i)
			tokens = append(tokens, tok)
			i = next

		case (r == '-' || r == '+') && i+size < n && isASCIIDigit(text[i+size]):
			tok, next := scanNumber(text, i)
			tokens = append(tokens, tok)
			i = next

		case unicode.IsLetter(r):
			start := i
			for i < n {
				r2, s2 := utf8.DecodeRuneInString(text[i:])
				if !unicode.IsLetter(r2) && !unicode.IsDigit(r2) {
					break
				}
				i += s2
			}
			raw := text[start:i]
			// One raw run can normalize into several tokens (NFKC may split
			// ligatures); all inherit the same span.
			for _, w := range registry.NormalizeTokens(raw) {
				tokens = append(tokens, token{
					kind:  tokenWord,
					text:  w,
					raw:   raw,
					start: start,
					end:   i,
				})
			}

		default:
			i += size
		}
	}

	return tokens
}

// scanNumber consumes a numeric literal starting at offset start.
// Returns the token and the next scan offset.
func scanNumber(text string, start int) (token, int) {
	i := start
	n := len(text)

	if text[i] == '-' || text[i] == '+' {
		i++
	}
	for i < n && isASCIIDigit(text[i]) {
		i++
	}
	// Fraction: '.' must be followed by a digit, otherwise it is sentence
	// punctuation.
	if i+1 < n && text[i] == '.' && isASCIIDigit(text[i+1]) {
		i++
		for i < n && isASCIIDigit(text[i]) {
			i++
		}
	}
	// Exponent.
	if i < n && (text[i] == 'e' || text[i] == 'E') {
		j := i + 1
		if j < n && (text[j] == '-' || text[j] == '+') {
			j++
		}
		if j < n && isASCIIDigit(text[j]) {
			i = j
			for i < n && isASCIIDigit(text[i]) {
				i++
			}
		}
	}

	raw := text[start:i]
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Unreachable for spans produced above; fall back to a zero-valued
		// word token so the scanner never stalls.
		return token{kind: tokenWord, text: raw, raw: raw, start: start, end: i}, i
	}

	tok := token{
		kind:  tokenNumber,
		value: value,
		raw:   raw,
		start: start,
		end:   i,
	}
	if i < n && text[i] == '%' {
		tok.percent = true
		i++
		tok.raw = text[start:i]
		tok.end = i
	}
	return tok, i
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
