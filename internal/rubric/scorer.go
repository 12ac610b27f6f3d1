package rubric

import (
	"github.com/veldt/simaudit/internal/record"
)

// baseline is the starting score of every criterion.
const baseline = 10.0

// affectedCriteria restricts each issue kind to the criteria it deducts
// from. Kinds absent from this table deduct from nothing.
var affectedCriteria = map[record.IssueKind][]record.Criterion{
	record.IssueNumericMismatch: {
		record.CriterionInternalConsistency,
		record.CriterionValidationStrength,
	},
	record.IssueClaimedDeviationMismatch: {
		record.CriterionInternalConsistency,
		record.CriterionValidationStrength,
	},
	record.IssueTypeMismatch: {
		record.CriterionSchemaCompliance,
	},
	record.IssueInvalidInterval: {
		record.CriterionSchemaCompliance,
	},
	record.IssueTruncation: {
		record.CriterionSectionWording,
		record.CriterionMetadataPolish,
	},
	record.IssueAmbiguousMatch: {
		record.CriterionDescriptionAccuracy,
	},
}

// deductionWeights maps (kind, severity) to the weight removed from each
// affected criterion.
var deductionWeights = map[record.IssueKind]map[record.Severity]float64{
	record.IssueNumericMismatch: {
		record.SeverityLow:    1.0,
		record.SeverityMedium: 2.0,
		record.SeverityHigh:   4.0,
	},
	record.IssueClaimedDeviationMismatch: {
		record.SeverityLow:    1.5,
		record.SeverityMedium: 2.5,
		record.SeverityHigh:   4.0,
	},
	record.IssueTypeMismatch: {
		record.SeverityLow:    1.0,
		record.SeverityMedium: 2.0,
		record.SeverityHigh:   3.0,
	},
	record.IssueInvalidInterval: {
		record.SeverityLow:    1.0,
		record.SeverityMedium: 2.0,
		record.SeverityHigh:   3.0,
	},
	record.IssueTruncation: {
		record.SeverityLow:    0.5,
		record.SeverityMedium: 1.5,
		record.SeverityHigh:   2.5,
	},
	record.IssueAmbiguousMatch: {
		record.SeverityLow:    0.5,
		record.SeverityMedium: 1.0,
		record.SeverityHigh:   1.5,
	},
}

// Score produces the ten criterion scores and the weighted overall score for
// an issue list. Deductions reference issues by index into the given slice,
// which is the exact slice serialized into the ReviewResult.
func Score(issues []record.ConsistencyIssue, weights Weights) ([]record.RubricScore, float64) {
	type tally struct {
		total      float64
		deductions []record.Deduction
	}
	tallies := make(map[record.Criterion]*tally, len(record.Criteria))
	for _, criterion := range record.Criteria {
		tallies[criterion] = &tally{}
	}

	for i, issue := range issues {
		weight := deductionWeights[issue.Kind][issue.Severity]
		if weight == 0 {
			continue
		}
		for _, criterion := range affectedCriteria[issue.Kind] {
			t := tallies[criterion]
			t.total += weight
			t.deductions = append(t.deductions, record.Deduction{Issue: i, Weight: weight})
		}
	}

	scores := make([]record.RubricScore, 0, len(record.Criteria))
	for _, criterion := range record.Criteria {
		t := tallies[criterion]
		value := baseline - t.total
		if value < 0 {
			value = 0
		}
		scores = append(scores, record.RubricScore{
			Criterion:  criterion,
			Score:      record.RoundScore(value),
			Deductions: t.deductions,
		})
	}

	return scores, Overall(scores, weights)
}

// Overall computes the weighted mean of criterion scores, rounded to one
// decimal. Criteria missing from the weights map contribute nothing; a nil
// or empty map means equal weights.
func Overall(scores []record.RubricScore, weights Weights) float64 {
	if len(scores) == 0 {
		return 0
	}
	if len(weights) == 0 {
		weights = EqualWeights()
	}

	sum := 0.0
	total := 0.0
	for _, s := range scores {
		w := weights[s.Criterion]
		sum += w * s.Score
		total += w
	}
	if total == 0 {
		return 0
	}
	return record.RoundScore(sum / total)
}
