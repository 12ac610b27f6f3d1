package record

// IssueKind categorizes consistency issues.
type IssueKind string

const (
	// IssueNumericMismatch: the same concept carries divergent values in
	// different fields of the record. Exactly one issue per concept lists
	// all divergent locations.
	IssueNumericMismatch IssueKind = "NUMERIC_MISMATCH"

	// IssueClaimedDeviationMismatch: a certificate claims a deviation that
	// disagrees with the deviation recomputed from the underlying parameter
	// value/exp pair. Distinct from NUMERIC_MISMATCH because the inputs may
	// agree while the claim about them is false.
	IssueClaimedDeviationMismatch IssueKind = "CLAIMED_DEVIATION_MISMATCH"

	// IssueTypeMismatch: a field carries the wrong primitive type, e.g. a
	// self-validation `passed` encoded as a string.
	IssueTypeMismatch IssueKind = "TYPE_MISMATCH"

	// IssueTruncation: a text field ends mid-word.
	IssueTruncation IssueKind = "TRUNCATION"

	// IssueInvalidInterval: a confidence interval with lower > upper or
	// sigma < 0.
	IssueInvalidInterval IssueKind = "INVALID_INTERVAL"

	// IssueAmbiguousMatch: a text mention matched two or more aliases with
	// equal confidence; never resolved by guessing.
	IssueAmbiguousMatch IssueKind = "AMBIGUOUS_MATCH"
)

// Severity grades consistency issues.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// severityRank fixes the deterministic ordering of severities (highest first
// would invert; rank ascends LOW < MEDIUM < HIGH).
var severityRank = map[Severity]int{
	SeverityLow:    0,
	SeverityMedium: 1,
	SeverityHigh:   2,
}

// Rank returns the ordinal of the severity. Unknown severities rank lowest.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Location pins an issue to a record field, optionally with the value seen
// there.
type Location struct {
	Field    SourceField `json:"field"`
	SourceID string      `json:"source_id"`
	Value    *float64    `json:"value,omitempty"`
	Span     string      `json:"span,omitempty"`
}

// ConsistencyIssue is one structured finding. Detail is a flat string map so
// downstream consumers get machine-readable fields, never prose.
type ConsistencyIssue struct {
	Kind      IssueKind         `json:"kind"`
	Severity  Severity          `json:"severity"`
	ConceptID string            `json:"concept_id,omitempty"`
	Locations []Location        `json:"locations"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// Float64Ptr returns a pointer to v. Convenience for Location.Value and
// Parameter.Value/Exp construction.
func Float64Ptr(v float64) *float64 {
	return &v
}
