package harness

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/veldt/simaudit/internal/normalize"
	"github.com/veldt/simaudit/internal/record"
	"github.com/veldt/simaudit/internal/registry"
	"github.com/veldt/simaudit/internal/review"
	"github.com/veldt/simaudit/internal/rubric"
)

// Result is the outcome of running one scenario.
type Result struct {
	Scenario *Scenario

	// Review is the engine's verdict, nil when normalization rejected the
	// record.
	Review *record.ReviewResult

	// SchemaErr holds the normalization failure, if any.
	SchemaErr *normalize.SchemaValidationError

	// Errors lists every failed expectation. Empty means the scenario passed.
	Errors []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

func (r *Result) addErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Run loads a scenario file, reviews its record fixture through a real
// engine, and evaluates the scenario's expectations. Fixture paths resolve
// relative to the scenario file's directory.
//
// Unlike assertion frameworks that replay canned outputs, the harness runs
// the full pipeline: registry load, normalization, extraction, consistency
// checking, aggregation, scoring, and fix proposal. A scenario can therefore
// fail for real.
func Run(scenarioPath string) (*Result, error) {
	scenario, err := LoadScenario(scenarioPath)
	if err != nil {
		return nil, err
	}
	return RunScenario(scenario, filepath.Dir(scenarioPath))
}

// RunScenario runs an already-loaded scenario with fixture paths resolved
// against baseDir.
func RunScenario(scenario *Scenario, baseDir string) (*Result, error) {
	reg, err := registry.Load(filepath.Join(baseDir, scenario.Registry))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	opts := []review.Option{}
	if scenario.Weights != "" {
		weights, err := rubric.LoadWeights(filepath.Join(baseDir, scenario.Weights))
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		opts = append(opts, review.WithWeights(weights))
	}
	if scenario.Window > 0 {
		opts = append(opts, review.WithWindow(scenario.Window))
	}
	engine := review.New(reg, opts...)

	recordPath := filepath.Join(baseDir, scenario.Record)
	data, err := os.ReadFile(recordPath)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: read record: %w", scenario.Name, err)
	}

	result := &Result{Scenario: scenario}

	reviewed, err := engine.ReviewDocument(filepath.Base(recordPath), data)
	if err != nil {
		var schemaErr *normalize.SchemaValidationError
		if !errors.As(err, &schemaErr) {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.SchemaErr = schemaErr
		if !scenario.ExpectSchemaError {
			result.addErrorf("record rejected by schema validation: %v", schemaErr)
		}
		return result, nil
	}

	if scenario.ExpectSchemaError {
		result.addErrorf("expected schema validation failure, record was accepted")
		return result, nil
	}

	result.Review = reviewed
	evaluate(result, scenario.Expect, reviewed)
	return result, nil
}

// evaluate checks every expectation and records failures on the result.
func evaluate(res *Result, expect Expectation, reviewed *record.ReviewResult) {
	if expect.SSOTStatus != "" && string(reviewed.SSOTStatus) != expect.SSOTStatus {
		res.addErrorf("ssot_status: want %s, got %s", expect.SSOTStatus, reviewed.SSOTStatus)
	}
	if expect.OverallScore != nil && !scoreEqual(reviewed.OverallScore, *expect.OverallScore) {
		res.addErrorf("overall_score: want %.1f, got %.1f", *expect.OverallScore, reviewed.OverallScore)
	}
	if expect.OverallScoreMax != nil && reviewed.OverallScore > *expect.OverallScoreMax {
		res.addErrorf("overall_score: want <= %.1f, got %.1f", *expect.OverallScoreMax, reviewed.OverallScore)
	}
	if expect.TotalIssues != nil && len(reviewed.Issues) != *expect.TotalIssues {
		res.addErrorf("total_issues: want %d, got %d", *expect.TotalIssues, len(reviewed.Issues))
	}

	for _, want := range expect.Issues {
		matched := matchIssues(reviewed.Issues, want)
		if len(matched) != want.Count {
			res.addErrorf("issues[%s]: want %d matching (%s), got %d",
				want.Kind, want.Count, issueFilterLabel(want), len(matched))
			continue
		}
		if want.Locations != nil && want.Count > 0 {
			if got := len(matched[0].Locations); got != *want.Locations {
				res.addErrorf("issues[%s]: want %d locations on first match, got %d",
					want.Kind, *want.Locations, got)
			}
		}
	}

	for _, want := range expect.Scores {
		score, ok := findScore(reviewed.Scores, record.Criterion(want.Criterion))
		if !ok {
			res.addErrorf("scores[%s]: criterion not in result", want.Criterion)
			continue
		}
		if want.Score != nil && !scoreEqual(score.Score, *want.Score) {
			res.addErrorf("scores[%s]: want %.1f, got %.1f", want.Criterion, *want.Score, score.Score)
		}
		if want.Below != nil && score.Score >= *want.Below {
			res.addErrorf("scores[%s]: want < %.1f, got %.1f", want.Criterion, *want.Below, score.Score)
		}
		if want.AtLeast != nil && score.Score < *want.AtLeast {
			res.addErrorf("scores[%s]: want >= %.1f, got %.1f", want.Criterion, *want.AtLeast, score.Score)
		}
	}

	for _, want := range expect.FixProposals {
		count := 0
		for _, proposal := range reviewed.FixProposals {
			if string(proposal.Kind) == want.Kind {
				count++
			}
		}
		if count != want.Count {
			res.addErrorf("fix_proposals[%s]: want %d, got %d", want.Kind, want.Count, count)
		}
	}
}

func matchIssues(issues []record.ConsistencyIssue, want IssueExpectation) []record.ConsistencyIssue {
	var matched []record.ConsistencyIssue
	for _, issue := range issues {
		if string(issue.Kind) != want.Kind {
			continue
		}
		if want.ConceptID != "" && issue.ConceptID != want.ConceptID {
			continue
		}
		if want.Severity != "" && string(issue.Severity) != want.Severity {
			continue
		}
		matched = append(matched, issue)
	}
	return matched
}

func issueFilterLabel(want IssueExpectation) string {
	label := "any concept"
	if want.ConceptID != "" {
		label = "concept " + want.ConceptID
	}
	if want.Severity != "" {
		label += ", severity " + want.Severity
	}
	return label
}

func findScore(scores []record.RubricScore, criterion record.Criterion) (record.RubricScore, bool) {
	for _, score := range scores {
		if score.Criterion == criterion {
			return score, true
		}
	}
	return record.RubricScore{}, false
}

// scoreEqual compares published one-decimal scores without trusting exact
// float equality.
func scoreEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.05
}
