package record

// SourceField identifies which field of a record produced a quantity
// occurrence. The declared constant order is also the deterministic sort
// order used when consolidating mismatch locations.
type SourceField string

const (
	FieldFormulaDesc    SourceField = "FORMULA_DESC"
	FieldParamValue     SourceField = "PARAM_VALUE"
	FieldParamExp       SourceField = "PARAM_EXP"
	FieldCertDesc       SourceField = "CERT_DESC"
	FieldSelfValMessage SourceField = "SELFVAL_MESSAGE"
	FieldSectionText    SourceField = "SECTION_TEXT"

	// Location-only fields. Never produced as occurrence sources (parameter
	// descriptions and theory context are not quantity-scanned) but issues
	// such as TRUNCATION must still be able to point at them.
	FieldParamDesc     SourceField = "PARAM_DESC"
	FieldTheoryContext SourceField = "THEORY_CONTEXT"
)

// sourceFieldRank fixes the deterministic ordering of source fields.
var sourceFieldRank = map[SourceField]int{
	FieldFormulaDesc:    0,
	FieldParamValue:     1,
	FieldParamExp:       2,
	FieldCertDesc:       3,
	FieldSelfValMessage: 4,
	FieldSectionText:    5,
	FieldParamDesc:      6,
	FieldTheoryContext:  7,
}

// Rank returns the deterministic sort rank of the field.
// Unknown fields sort last.
func (f SourceField) Rank() int {
	if r, ok := sourceFieldRank[f]; ok {
		return r
	}
	return len(sourceFieldRank)
}

// MatchKind tags how an occurrence was resolved to a canonical concept.
type MatchKind string

const (
	// MatchExactID means the occurrence came from a Parameter value/exp
	// field; the parameter id is the concept id, no text matching involved.
	MatchExactID MatchKind = "EXACT_ID_MATCH"

	// MatchAliasText means a registry alias matched inside free text within
	// the token window.
	MatchAliasText MatchKind = "ALIAS_TEXT_MATCH"

	// MatchAmbiguous means two or more aliases of equal length matched the
	// same span; the occurrence is recorded but excluded from mismatch
	// comparison until resolved.
	MatchAmbiguous MatchKind = "AMBIGUOUS"
)

// QuantityOccurrence is one (concept, value) sighting extracted from a
// record field.
type QuantityOccurrence struct {
	ConceptID   string      `json:"concept_id"`
	RawValue    float64     `json:"raw_value"`
	Unit        string      `json:"unit,omitempty"`
	SourceField SourceField `json:"source_field"`
	SourceID    string      `json:"source_id"`
	RawSpan     string      `json:"raw_span,omitempty"` // text snippet for traceability
	Match       MatchKind   `json:"match"`

	// Candidates lists the concept ids that tied, for AMBIGUOUS matches.
	Candidates []string `json:"candidates,omitempty"`
}
