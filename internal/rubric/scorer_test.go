package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt/simaudit/internal/record"
)

func issueOf(kind record.IssueKind, severity record.Severity) record.ConsistencyIssue {
	return record.ConsistencyIssue{Kind: kind, Severity: severity}
}

func scoreFor(t *testing.T, scores []record.RubricScore, criterion record.Criterion) record.RubricScore {
	t.Helper()
	for _, s := range scores {
		if s.Criterion == criterion {
			return s
		}
	}
	t.Fatalf("criterion %s not in scores", criterion)
	return record.RubricScore{}
}

func TestScore_NoIssues(t *testing.T) {
	scores, overall := Score(nil, nil)

	require.Len(t, scores, len(record.Criteria))
	for i, s := range scores {
		assert.Equal(t, record.Criteria[i], s.Criterion, "scores follow the fixed criteria order")
		assert.Equal(t, 10.0, s.Score)
		assert.Empty(t, s.Deductions)
	}
	assert.Equal(t, 10.0, overall)
}

func TestScore_DeductionsPerKind(t *testing.T) {
	issues := []record.ConsistencyIssue{
		issueOf(record.IssueNumericMismatch, record.SeverityHigh),          // -4 IC, VS
		issueOf(record.IssueClaimedDeviationMismatch, record.SeverityHigh), // -4 IC, VS
		issueOf(record.IssueTypeMismatch, record.SeverityHigh),             // -3 Schema
		issueOf(record.IssueTruncation, record.SeverityLow),                // -0.5 Wording, Polish
		issueOf(record.IssueAmbiguousMatch, record.SeverityLow),            // -0.5 Accuracy
	}

	scores, overall := Score(issues, nil)

	ic := scoreFor(t, scores, record.CriterionInternalConsistency)
	assert.Equal(t, 2.0, ic.Score)
	require.Len(t, ic.Deductions, 2)
	assert.Equal(t, record.Deduction{Issue: 0, Weight: 4}, ic.Deductions[0])
	assert.Equal(t, record.Deduction{Issue: 1, Weight: 4}, ic.Deductions[1])

	assert.Equal(t, 2.0, scoreFor(t, scores, record.CriterionValidationStrength).Score)
	assert.Equal(t, 7.0, scoreFor(t, scores, record.CriterionSchemaCompliance).Score)
	assert.Equal(t, 9.5, scoreFor(t, scores, record.CriterionSectionWording).Score)
	assert.Equal(t, 9.5, scoreFor(t, scores, record.CriterionMetadataPolish).Score)
	assert.Equal(t, 9.5, scoreFor(t, scores, record.CriterionDescriptionAccuracy).Score)
	assert.Equal(t, 10.0, scoreFor(t, scores, record.CriterionFormulaStrength).Score)

	// (2+2+7+9.5+9.5+9.5+10*4)/10 = 79.5/10
	assert.Equal(t, 8.0, overall)
}

func TestScore_FloorsAtZero(t *testing.T) {
	issues := []record.ConsistencyIssue{
		issueOf(record.IssueNumericMismatch, record.SeverityHigh),
		issueOf(record.IssueNumericMismatch, record.SeverityHigh),
		issueOf(record.IssueNumericMismatch, record.SeverityHigh),
	}

	scores, _ := Score(issues, nil)

	ic := scoreFor(t, scores, record.CriterionInternalConsistency)
	assert.Equal(t, 0.0, ic.Score)
	// Deductions record the full weight even past the floor.
	require.Len(t, ic.Deductions, 3)
	for i, d := range ic.Deductions {
		assert.Equal(t, i, d.Issue)
		assert.Equal(t, 4.0, d.Weight)
	}
}

func TestScore_SeverityScalesWeight(t *testing.T) {
	tests := []struct {
		severity record.Severity
		want     float64
	}{
		{record.SeverityLow, 9.0},
		{record.SeverityMedium, 8.0},
		{record.SeverityHigh, 6.0},
	}
	for _, tt := range tests {
		issues := []record.ConsistencyIssue{issueOf(record.IssueNumericMismatch, tt.severity)}
		scores, _ := Score(issues, nil)
		assert.Equal(t, tt.want, scoreFor(t, scores, record.CriterionInternalConsistency).Score,
			"severity %s", tt.severity)
	}
}

func TestOverall_WeightedMean(t *testing.T) {
	scores := []record.RubricScore{
		{Criterion: record.CriterionInternalConsistency, Score: 4},
		{Criterion: record.CriterionSchemaCompliance, Score: 10},
	}
	weights := Weights{
		record.CriterionInternalConsistency: 3,
		record.CriterionSchemaCompliance:    1,
	}

	// (3*4 + 1*10) / 4 = 5.5
	assert.Equal(t, 5.5, Overall(scores, weights))
}

func TestOverall_Edges(t *testing.T) {
	assert.Equal(t, 0.0, Overall(nil, nil))

	scores := []record.RubricScore{
		{Criterion: record.CriterionInternalConsistency, Score: 4},
	}
	// All-zero weights contribute nothing.
	assert.Equal(t, 0.0, Overall(scores, Weights{record.CriterionInternalConsistency: 0}))
	// Empty map falls back to equal weights.
	assert.Equal(t, 4.0, Overall(scores, Weights{}))
}
