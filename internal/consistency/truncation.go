package consistency

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/veldt/simaudit/internal/record"
)

// danglingWords lists fragments a text field cannot legitimately end on:
// prepositions, conjunctions, articles, and auxiliaries. A field whose last
// word is one of these (with no terminal punctuation) was cut mid-sentence.
var danglingWords = map[string]bool{
	"a":       true,
	"an":      true,
	"and":     true,
	"are":     true,
	"as":      true,
	"at":      true,
	"be":      true,
	"between": true,
	"but":     true,
	"by":      true,
	"for":     true,
	"from":    true,
	"in":      true,
	"into":    true,
	"is":      true,
	"of":      true,
	"on":      true,
	"onto":    true,
	"or":      true,
	"over":    true,
	"per":     true,
	"than":    true,
	"that":    true,
	"the":     true,
	"to":      true,
	"under":   true,
	"via":     true,
	"was":     true,
	"were":    true,
	"when":    true,
	"where":   true,
	"which":   true,
	"while":   true,
	"with":    true,
	"within":  true,
}

// terminalPunct is the set of characters that legitimately end a text field.
const terminalPunct = ".!?:;)\"]"

// truncField pairs one scannable text field with its issue location.
type truncField struct {
	field    record.SourceField
	sourceID string
	text     string
}

// checkTruncation scans every text field for truncation signatures.
// Severity is LOW, upgraded to MEDIUM when the truncated field is a
// certificate or parameter description that also feeds a numeric mismatch.
func checkTruncation(rec *record.SimulationRecord, mismatched map[string]bool) []record.ConsistencyIssue {
	var fields []truncField
	for _, f := range rec.Formulas {
		fields = append(fields, truncField{record.FieldFormulaDesc, f.ID, f.Description})
	}
	for _, p := range rec.Parameters {
		fields = append(fields, truncField{record.FieldParamDesc, p.ID, p.Description})
	}
	for _, c := range rec.Certificates {
		fields = append(fields, truncField{record.FieldCertDesc, c.ID, c.Description})
	}
	for _, sv := range rec.SelfValidation {
		fields = append(fields, truncField{record.FieldSelfValMessage, sv.Name, sv.Message})
	}
	for _, sec := range rec.SectionText {
		fields = append(fields, truncField{record.FieldSectionText, sec.Name, sec.Text})
	}
	if rec.TheoryContext != "" {
		fields = append(fields, truncField{record.FieldTheoryContext, "theory_context", rec.TheoryContext})
	}

	var issues []record.ConsistencyIssue
	for _, tf := range fields {
		if !isTruncated(tf.text) {
			continue
		}
		severity := record.SeverityLow
		if (tf.field == record.FieldCertDesc || tf.field == record.FieldParamDesc) && mismatched[tf.sourceID] {
			severity = record.SeverityMedium
		}
		issues = append(issues, record.ConsistencyIssue{
			Kind:     record.IssueTruncation,
			Severity: severity,
			Locations: []record.Location{
				{Field: tf.field, SourceID: tf.sourceID, Span: tailSnippet(tf.text)},
			},
			Detail: map[string]string{
				"last_word": lastWord(tf.text),
			},
		})
	}
	return issues
}

// isTruncated reports whether text ends mid-word: no terminal punctuation,
// no trailing numeric token, and the last word is either a known dangling
// fragment or a short vowel-less partial word.
func isTruncated(text string) bool {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if trimmed == "" {
		return false
	}
	last := trimmed[len(trimmed)-1]
	if strings.IndexByte(terminalPunct, last) >= 0 {
		return false
	}
	if last == '-' {
		return true // hyphen at end of field is always a cut
	}

	// A field ending on a number ("equals 1.2", "within 0.05%") ends on a
	// complete token; the word before the number is not the last token and
	// must not be judged as one.
	rest := strings.TrimSuffix(trimmed, "%")
	if rest != "" {
		r, _ := utf8.DecodeLastRuneInString(rest)
		if unicode.IsDigit(r) {
			return false
		}
	}

	word := lastWord(trimmed)
	if word == "" {
		return false
	}
	if danglingWords[word] {
		return true
	}
	return len(word) < 3 && !hasVowel(word)
}

// lastWord extracts the final run of letters, lowercased.
func lastWord(text string) string {
	end := len(text)
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:end])
		if unicode.IsLetter(r) {
			break
		}
		end -= size
	}
	start := end
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !unicode.IsLetter(r) {
			break
		}
		start -= size
	}
	return strings.ToLower(text[start:end])
}

func hasVowel(word string) bool {
	return strings.ContainsAny(word, "aeiouy")
}

// tailSnippet returns the last few characters of the field for the issue
// span, enough to see the cut without replaying the whole field.
func tailSnippet(text string) string {
	const tail = 40
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if len(trimmed) <= tail {
		return trimmed
	}
	cut := len(trimmed) - tail
	// Do not split a multi-byte rune.
	for cut < len(trimmed) && trimmed[cut]&0xC0 == 0x80 {
		cut++
	}
	return trimmed[cut:]
}
