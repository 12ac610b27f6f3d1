package rubric

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veldt/simaudit/internal/record"
)

// Weights assigns a relative weight to each criterion for the overall score.
// Detection and per-criterion scoring never read this; only the published
// overall number does.
type Weights map[record.Criterion]float64

// EqualWeights is the default weighting: every criterion counts the same.
func EqualWeights() Weights {
	w := make(Weights, len(record.Criteria))
	for _, criterion := range record.Criteria {
		w[criterion] = 1
	}
	return w
}

// weightsFile is the on-disk YAML shape:
//
//	weights:
//	  InternalConsistency: 2.0
//	  ValidationStrength: 2.0
//
// Criteria left out keep weight 1. Unknown criterion names are rejected.
type weightsFile struct {
	Weights map[string]float64 `yaml:"weights"`
}

// LoadWeights reads a weighting config. Malformed files are fatal at
// startup, like registry files: every published overall score depends on
// them.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("weights %s: %w", path, err)
	}
	return ParseWeights(data)
}

// ParseWeights validates weighting YAML bytes.
func ParseWeights(data []byte) (Weights, error) {
	var file weightsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}

	known := make(map[record.Criterion]bool, len(record.Criteria))
	for _, criterion := range record.Criteria {
		known[criterion] = true
	}

	w := EqualWeights()
	for name, value := range file.Weights {
		criterion := record.Criterion(name)
		if !known[criterion] {
			return nil, fmt.Errorf("weights: unknown criterion %q", name)
		}
		if value < 0 {
			return nil, fmt.Errorf("weights: criterion %q: weight must be >= 0", name)
		}
		w[criterion] = value
	}
	return w, nil
}
