package extract

import (
	"strconv"

	"github.com/veldt/simaudit/internal/record"
	"github.com/veldt/simaudit/internal/registry"
)

// DefaultWindow is the default token window within which a number associates
// with an alias mention.
const DefaultWindow = 8

// DeviationClaim is a percentage claim embedded in a certificate description
// ("within 0.05% of the PDG value"), tied to the concept mentioned alongside
// it. Claims are not value occurrences: a percentage near an alias is a
// statement about the quantity's agreement, not the quantity itself, and is
// cross-checked by recomputation instead of mismatch grouping.
type DeviationClaim struct {
	CertID         string  `json:"cert_id"`
	ConceptID      string  `json:"concept_id"`
	ClaimedPercent float64 `json:"claimed_percent"` // as stated, e.g. 0.05
	Claimed        float64 `json:"claimed"`         // as fraction, e.g. 0.0005
	RawSpan        string  `json:"raw_span,omitempty"`
}

// Extraction is the extractor's complete output for one record.
type Extraction struct {
	Occurrences []record.QuantityOccurrence
	Claims      []DeviationClaim
	Issues      []record.ConsistencyIssue // AMBIGUOUS_MATCH findings
}

// Extractor scans records against one immutable registry.
type Extractor struct {
	reg    *registry.Registry
	window int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithWindow overrides the token window (default DefaultWindow).
func WithWindow(window int) Option {
	return func(e *Extractor) {
		if window > 0 {
			e.window = window
		}
	}
}

// New creates an Extractor bound to a registry.
func New(reg *registry.Registry, opts ...Option) *Extractor {
	e := &Extractor{reg: reg, window: DefaultWindow}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract produces all quantity occurrences, deviation claims, and ambiguity
// issues for a record. Field scan order is fixed (formulas, parameters,
// certificates, self-validation, sections) so output order is deterministic.
func (e *Extractor) Extract(rec *record.SimulationRecord) *Extraction {
	ext := &Extraction{}

	for _, f := range rec.Formulas {
		e.scanText(ext, record.FieldFormulaDesc, f.ID, f.Description)
	}

	for _, p := range rec.Parameters {
		if p.Value != nil {
			ext.Occurrences = append(ext.Occurrences, record.QuantityOccurrence{
				ConceptID:   p.ID,
				RawValue:    *p.Value,
				Unit:        p.Unit,
				SourceField: record.FieldParamValue,
				SourceID:    p.ID,
				RawSpan:     formatValue(*p.Value),
				Match:       record.MatchExactID,
			})
		}
		if p.Exp != nil {
			ext.Occurrences = append(ext.Occurrences, record.QuantityOccurrence{
				ConceptID:   p.ID,
				RawValue:    *p.Exp,
				Unit:        p.Unit,
				SourceField: record.FieldParamExp,
				SourceID:    p.ID,
				RawSpan:     formatValue(*p.Exp),
				Match:       record.MatchExactID,
			})
		}
	}

	for _, c := range rec.Certificates {
		e.scanText(ext, record.FieldCertDesc, c.ID, c.Description)
	}

	for _, sv := range rec.SelfValidation {
		e.scanText(ext, record.FieldSelfValMessage, sv.Name, sv.Message)
	}

	for _, sec := range rec.SectionText {
		e.scanText(ext, record.FieldSectionText, sec.Name, sec.Text)
	}

	return ext
}

// aliasMatch is one alias mention found in a token stream.
type aliasMatch struct {
	start, end int      // token index range [start, end)
	concepts   []string // >1 means ambiguous (equal-length tie)
}

// scanText extracts occurrences from one text field.
func (e *Extractor) scanText(ext *Extraction, field record.SourceField, sourceID, text string) {
	if text == "" {
		return
	}
	tokens := tokenize(text)
	matches := e.findAliasMatches(tokens)

	// Surface every ambiguous mention once, whether or not a number
	// associates with it (invariant: never silently dropped).
	for _, m := range matches {
		if len(m.concepts) > 1 {
			ext.Issues = append(ext.Issues, record.ConsistencyIssue{
				Kind:     record.IssueAmbiguousMatch,
				Severity: record.SeverityLow,
				Locations: []record.Location{{
					Field:    field,
					SourceID: sourceID,
					Span:     spanText(text, tokens, m.start, m.end-1),
				}},
				Detail: map[string]string{
					"candidates": joinConcepts(m.concepts),
				},
			})
		}
	}

	for ti, tok := range tokens {
		if tok.kind != tokenNumber {
			continue
		}

		if tok.percent {
			// Percentages are deviation claims, and only certificate
			// descriptions state checkable claims. Attribution skips
			// ambiguous mentions: the nearest unambiguous mention inside
			// the window wins, otherwise the claim is dropped.
			if field != record.FieldCertDesc {
				continue
			}
			m, ok := nearestMatch(unambiguousOnly(matches), ti, e.window)
			if !ok {
				continue
			}
			ext.Claims = append(ext.Claims, DeviationClaim{
				CertID:         sourceID,
				ConceptID:      m.concepts[0],
				ClaimedPercent: tok.value,
				Claimed:        tok.value / 100,
				RawSpan:        spanText(text, tokens, minInt(m.start, ti), maxInt(m.end-1, ti)),
			})
			continue
		}

		m, ok := nearestMatch(matches, ti, e.window)
		if !ok {
			continue // bare number, no concept within the window
		}

		occ := record.QuantityOccurrence{
			RawValue:    tok.value,
			SourceField: field,
			SourceID:    sourceID,
			RawSpan:     spanText(text, tokens, minInt(m.start, ti), maxInt(m.end-1, ti)),
		}
		if len(m.concepts) == 1 {
			occ.ConceptID = m.concepts[0]
			occ.Match = record.MatchAliasText
			occ.Unit = e.unitAfter(tokens, ti, m.concepts[0])
		} else {
			occ.Match = record.MatchAmbiguous
			occ.Candidates = m.concepts
		}
		ext.Occurrences = append(ext.Occurrences, occ)
	}
}

// findAliasMatches scans tokens left to right, longest alias first, so a
// multi-word alias always beats a substring ("sin2 theta w" beats "theta").
// Matched tokens are consumed; matches never overlap.
func (e *Extractor) findAliasMatches(tokens []token) []aliasMatch {
	var matches []aliasMatch
	maxLen := e.reg.MaxAliasTokens()

	// Alias keys are word sequences; build the parallel word view once.
	words := make([]string, len(tokens))
	for i, t := range tokens {
		if t.kind == tokenWord {
			words[i] = t.text
		}
	}

	i := 0
	for i < len(tokens) {
		if tokens[i].kind != tokenWord {
			i++
			continue
		}
		matched := false
		limit := maxLen
		if rest := len(tokens) - i; rest < limit {
			limit = rest
		}
		for l := limit; l >= 1; l-- {
			if !allWords(tokens, i, l) {
				continue
			}
			ids := e.reg.LookupAlias(words, i, l)
			if len(ids) == 0 {
				continue
			}
			matches = append(matches, aliasMatch{start: i, end: i + l, concepts: ids})
			i += l
			matched = true
			break
		}
		if !matched {
			i++
		}
	}
	return matches
}

// unambiguousOnly filters matches down to single-concept mentions, for claim
// attribution.
func unambiguousOnly(matches []aliasMatch) []aliasMatch {
	var out []aliasMatch
	for _, m := range matches {
		if len(m.concepts) == 1 {
			out = append(out, m)
		}
	}
	return out
}

func allWords(tokens []token, start, length int) bool {
	for i := start; i < start+length; i++ {
		if tokens[i].kind != tokenWord {
			return false
		}
	}
	return true
}

// nearestMatch picks the alias mention closest to token index ti, within the
// window. Gap is counted in tokens between the number and the nearest edge
// of the mention. On an exact distance tie the preceding mention wins
// ("<concept> ... <number>" is the dominant pattern in the corpus).
func nearestMatch(matches []aliasMatch, ti, window int) (aliasMatch, bool) {
	best := -1
	bestGap := window + 1
	for idx, m := range matches {
		var gap int
		switch {
		case ti >= m.end:
			gap = ti - m.end
		case ti < m.start:
			gap = m.start - ti
		default:
			gap = 0 // number inside the mention span
		}
		if gap < bestGap || (gap == bestGap && best >= 0 && m.end <= ti && matches[best].start > ti) {
			best = idx
			bestGap = gap
		}
	}
	if best < 0 || bestGap > window {
		return aliasMatch{}, false
	}
	return matches[best], true
}

// unitAfter reports the concept's canonical unit if the word right after the
// number spells it; otherwise empty. No unit conversion is attempted.
func (e *Extractor) unitAfter(tokens []token, ti int, conceptID string) string {
	unit := e.reg.UnitFor(conceptID)
	if unit == "" || ti+1 >= len(tokens) {
		return ""
	}
	next := tokens[ti+1]
	if next.kind != tokenWord {
		return ""
	}
	unitTokens := registry.NormalizeTokens(unit)
	if len(unitTokens) == 1 && unitTokens[0] == next.text {
		return unit
	}
	return ""
}

// spanText slices the original text covering tokens [first, last].
func spanText(text string, tokens []token, first, last int) string {
	if first < 0 || last >= len(tokens) || first > last {
		return ""
	}
	return text[tokens[first].start:tokens[last].end]
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func joinConcepts(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
