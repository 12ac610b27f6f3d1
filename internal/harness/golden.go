package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/veldt/simaudit/internal/record"
)

// RunWithGolden runs a scenario and compares the canonical JSON of its
// ReviewResult against testdata/golden/{scenario.Name}.golden. Because
// canonical JSON is byte-stable, a matching golden file is also a
// determinism check across runs and platforms.
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenarioPath string) *Result {
	t.Helper()

	result, err := Run(scenarioPath)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if result.SchemaErr != nil {
		t.Fatalf("scenario %s: record rejected: %v", result.Scenario.Name, result.SchemaErr)
	}

	AssertGolden(t, result.Scenario.Name, result.Review)
	return result
}

// AssertGolden compares a ReviewResult's canonical JSON against a golden
// file, for callers who have already run a scenario or built a result some
// other way.
func AssertGolden(t *testing.T, name string, reviewed *record.ReviewResult) {
	t.Helper()

	payload, err := record.MarshalCanonical(reviewed)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, payload)
}
