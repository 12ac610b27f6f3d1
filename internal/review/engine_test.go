package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt/simaudit/internal/normalize"
	"github.com/veldt/simaudit/internal/record"
	"github.com/veldt/simaudit/internal/registry"
	"github.com/veldt/simaudit/internal/rubric"
	"github.com/veldt/simaudit/internal/testutil"
)

func testEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	reg, err := registry.Load(testutil.SampleRegistryPath(t))
	require.NoError(t, err)
	return New(reg, opts...)
}

func cleanDoc(t *testing.T) []byte {
	return testutil.NewRecord("rec-clean").
		Parameter("higgs.vev_GeV", "Higgs vacuum expectation value.", 246.22, 246.22).
		Certificate("c.vev", "The Higgs vev matches the reference.", "PASS").
		SelfValidation("sv.vev", true, 246.0, 246.5, 2.0, "Interval brackets the value.").
		JSON(t)
}

func driftDoc(t *testing.T) []byte {
	return testutil.NewRecord("rec-drift").
		Parameter("higgs.vev_GeV", "Higgs vacuum expectation value.", 123.0, 246.22).
		Certificate("c.vev", "The Higgs vev matches the reference.", "PASS").
		SelfValidation("sv.vev", true, 246.0, 246.5, 2.0, "Interval brackets the value.").
		JSON(t)
}

func TestReview_CleanRecord(t *testing.T) {
	e := testEngine(t)
	res, err := e.ReviewDocument("rec-clean.json", cleanDoc(t))
	require.NoError(t, err)

	assert.Equal(t, "rec-clean", res.RecordID)
	assert.Equal(t, record.StatusAllGreen, res.SSOTStatus)
	assert.Equal(t, 10.0, res.OverallScore)
	require.NotNil(t, res.Issues)
	assert.Empty(t, res.Issues, "issues is an empty slice, never nil")
	require.Len(t, res.Scores, len(record.Criteria))
}

func TestReview_DriftedRecord(t *testing.T) {
	e := testEngine(t)
	res, err := e.ReviewDocument("rec-drift.json", driftDoc(t))
	require.NoError(t, err)

	assert.Equal(t, record.StatusFailed, res.SSOTStatus)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, record.IssueNumericMismatch, res.Issues[0].Kind)
	assert.Equal(t, record.SeverityHigh, res.Issues[0].Severity)
	assert.Equal(t, "higgs.vev_GeV", res.Issues[0].ConceptID)
	assert.Less(t, res.OverallScore, 10.0)
}

func TestReview_Deterministic(t *testing.T) {
	e := testEngine(t)
	doc := driftDoc(t)

	first, err := e.ReviewDocument("rec-drift.json", doc)
	require.NoError(t, err)
	second, err := e.ReviewDocument("rec-drift.json", doc)
	require.NoError(t, err)

	a, err := record.MarshalCanonical(first)
	require.NoError(t, err)
	b, err := record.MarshalCanonical(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReviewDocument_SchemaError(t *testing.T) {
	e := testEngine(t)
	data := testutil.NewRecord("rec-bad").Delete("certificates").JSON(t)

	_, err := e.ReviewDocument("rec-bad.json", data)
	var sve *normalize.SchemaValidationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, []string{"certificates"}, sve.MissingFields)
}

func TestWithWeights(t *testing.T) {
	// Weight only the criteria the mismatch deducts from, dragging the
	// overall score down versus equal weighting.
	weighted := testEngine(t, WithWeights(rubric.Weights{
		record.CriterionInternalConsistency: 1,
		record.CriterionValidationStrength:  1,
	}))
	equal := testEngine(t)

	doc := driftDoc(t)
	wres, err := weighted.ReviewDocument("rec-drift.json", doc)
	require.NoError(t, err)
	eres, err := equal.ReviewDocument("rec-drift.json", doc)
	require.NoError(t, err)

	assert.Less(t, wres.OverallScore, eres.OverallScore)
	// Per-criterion scores never depend on weighting.
	assert.Equal(t, eres.Scores, wres.Scores)
}

// Applying a numeric fix proposal and re-reviewing clears the mismatch it
// was proposed for: the declared parameter value is authoritative, so the
// patched record converges in one pass.
func TestReview_AppliedProposalClearsMismatch(t *testing.T) {
	e := testEngine(t)

	buildDoc := func(sectionText string) []byte {
		return testutil.NewRecord("rec-roundtrip").
			Parameter("higgs.vev_GeV", "Higgs vacuum expectation value.", 246.22, 246.22).
			Section("body", sectionText).
			JSON(t)
	}

	sectionText := "The Higgs vev reaches 250 today."
	res, err := e.ReviewDocument("rec-roundtrip.json", buildDoc(sectionText))
	require.NoError(t, err)

	require.Len(t, res.Issues, 1)
	assert.Equal(t, record.IssueNumericMismatch, res.Issues[0].Kind)
	require.Len(t, res.FixProposals, 1)

	p := res.FixProposals[0]
	assert.Equal(t, record.FieldSectionText, p.Field)
	assert.Equal(t, "250", p.OldValue)
	assert.Equal(t, "246.22", p.NewValue)

	patched := strings.Replace(sectionText, p.OldValue, p.NewValue, 1)
	res, err = e.ReviewDocument("rec-roundtrip.json", buildDoc(patched))
	require.NoError(t, err)

	assert.Empty(t, res.Issues)
	assert.Empty(t, res.FixProposals)
	assert.Equal(t, record.StatusAllGreen, res.SSOTStatus)
}

func TestWithWindow(t *testing.T) {
	// Alias and number separated by three filler tokens: visible at the
	// default window, invisible at window 1.
	doc := testutil.NewRecord("rec-window").
		Parameter("higgs.vev_GeV", "Higgs vacuum expectation value.", 246.22, 246.22).
		Section("body", "The Higgs vev was measured close to 123.0 overall.").
		JSON(t)

	wide := testEngine(t)
	res, err := wide.ReviewDocument("rec-window.json", doc)
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, record.IssueNumericMismatch, res.Issues[0].Kind)

	narrow := testEngine(t, WithWindow(1))
	res, err = narrow.ReviewDocument("rec-window.json", doc)
	require.NoError(t, err)
	assert.Empty(t, res.Issues)
}
