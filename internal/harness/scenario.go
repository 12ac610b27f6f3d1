package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Registry is the registry fixture path, relative to the scenario file.
	Registry string `yaml:"registry"`

	// Record is the raw record JSON fixture path, relative to the scenario
	// file.
	Record string `yaml:"record"`

	// Weights optionally names a weighting config fixture.
	Weights string `yaml:"weights,omitempty"`

	// Window optionally overrides the extractor token window.
	Window int `yaml:"window,omitempty"`

	// Expect holds the assertions evaluated against the ReviewResult.
	Expect Expectation `yaml:"expect"`

	// ExpectSchemaError asserts the record fails normalization instead of
	// producing a result. Mutually exclusive with Expect assertions.
	ExpectSchemaError bool `yaml:"expect_schema_error,omitempty"`
}

// Expectation asserts properties of a ReviewResult. Zero-valued fields are
// not checked.
type Expectation struct {
	SSOTStatus      string             `yaml:"ssot_status,omitempty"`
	OverallScore    *float64           `yaml:"overall_score,omitempty"`
	OverallScoreMax *float64           `yaml:"overall_score_max,omitempty"`
	TotalIssues     *int               `yaml:"total_issues,omitempty"`
	Issues          []IssueExpectation `yaml:"issues,omitempty"`
	Scores          []ScoreExpectation `yaml:"scores,omitempty"`
	FixProposals    []FixExpectation   `yaml:"fix_proposals,omitempty"`
}

// IssueExpectation asserts how many issues of a kind (optionally narrowed by
// concept and severity) the result carries, and optionally how many
// locations the first such issue references.
type IssueExpectation struct {
	Kind      string `yaml:"kind"`
	ConceptID string `yaml:"concept_id,omitempty"`
	Severity  string `yaml:"severity,omitempty"`
	Count     int    `yaml:"count"`
	Locations *int   `yaml:"locations,omitempty"`
}

// ScoreExpectation asserts a criterion's exact score or bounds.
type ScoreExpectation struct {
	Criterion string   `yaml:"criterion"`
	Score     *float64 `yaml:"score,omitempty"`
	Below     *float64 `yaml:"below,omitempty"`
	AtLeast   *float64 `yaml:"at_least,omitempty"`
}

// FixExpectation asserts how many fix proposals of a kind exist.
type FixExpectation struct {
	Kind  string `yaml:"kind"`
	Count int    `yaml:"count"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so a typo in an assertion key cannot silently pass.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if scenario.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if scenario.Registry == "" {
		return nil, fmt.Errorf("scenario %s: registry is required", path)
	}
	if scenario.Record == "" {
		return nil, fmt.Errorf("scenario %s: record is required", path)
	}

	return &scenario, nil
}
