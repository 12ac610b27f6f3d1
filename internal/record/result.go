package record

import "math"

// Criterion is one of the ten fixed rubric axes.
type Criterion string

const (
	CriterionFormulaStrength     Criterion = "FormulaStrength"
	CriterionDerivationRigor     Criterion = "DerivationRigor"
	CriterionValidationStrength  Criterion = "ValidationStrength"
	CriterionSectionWording      Criterion = "SectionWording"
	CriterionScientificStanding  Criterion = "ScientificStanding"
	CriterionDescriptionAccuracy Criterion = "DescriptionAccuracy"
	CriterionMetadataPolish      Criterion = "MetadataPolish"
	CriterionSchemaCompliance    Criterion = "SchemaCompliance"
	CriterionInternalConsistency Criterion = "InternalConsistency"
	CriterionTheoryConsistency   Criterion = "TheoryConsistency"
)

// Criteria lists the ten criteria in their fixed, published order. Scores in
// a ReviewResult always appear in this order.
var Criteria = []Criterion{
	CriterionFormulaStrength,
	CriterionDerivationRigor,
	CriterionValidationStrength,
	CriterionSectionWording,
	CriterionScientificStanding,
	CriterionDescriptionAccuracy,
	CriterionMetadataPolish,
	CriterionSchemaCompliance,
	CriterionInternalConsistency,
	CriterionTheoryConsistency,
}

// SSOTStatus is the aggregate single-source-of-truth verdict for a record.
type SSOTStatus string

const (
	// StatusAllGreen: every certificate passed, every self-validation check
	// passed, and no HIGH-severity issue exists.
	StatusAllGreen SSOTStatus = "ALL_GREEN"

	// StatusDegraded: certificates and self-validation pass but LOW/MEDIUM
	// issues exist.
	StatusDegraded SSOTStatus = "DEGRADED"

	// StatusFailed: a certificate or self-validation check failed, or a
	// HIGH-severity issue exists. The record's own SSOT flags are advisory
	// input only and never override this.
	StatusFailed SSOTStatus = "FAILED"
)

// Deduction records one weighted penalty applied to a criterion.
// Issue is the index into ReviewResult.Issues.
type Deduction struct {
	Issue  int     `json:"issue"`
	Weight float64 `json:"weight"`
}

// RubricScore is the scored outcome of one criterion: baseline 10.0 minus
// the deduction weights, floored at 0.0, one decimal place.
type RubricScore struct {
	Criterion  Criterion   `json:"criterion"`
	Score      float64     `json:"score"`
	Deductions []Deduction `json:"deductions,omitempty"`
}

// FixProposal is a structured auto-fix suggestion for one location. Values
// are carried as strings because proposals cover numeric substitutions,
// boolean coercions, and text placeholders alike.
type FixProposal struct {
	Kind      IssueKind   `json:"kind"`
	ConceptID string      `json:"concept_id,omitempty"`
	Field     SourceField `json:"field"`
	SourceID  string      `json:"source_id"`
	OldValue  string      `json:"old_value"`
	NewValue  string      `json:"new_value"`
	Note      string      `json:"note,omitempty"`
}

// ReviewResult is the complete deterministic verdict for one record.
// Never mutated after construction; recomputation replaces it wholesale.
type ReviewResult struct {
	RecordID     string             `json:"record_id"`
	Scores       []RubricScore      `json:"scores"`
	OverallScore float64            `json:"overall_score"`
	SSOTStatus   SSOTStatus         `json:"ssot_status"`
	Issues       []ConsistencyIssue `json:"issues"`
	FixProposals []FixProposal      `json:"fix_proposals,omitempty"`
}

// RoundScore rounds a score to one decimal place, half away from zero.
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
