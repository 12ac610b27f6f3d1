package rubric

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt/simaudit/internal/record"
)

func TestEqualWeights(t *testing.T) {
	w := EqualWeights()
	require.Len(t, w, len(record.Criteria))
	for _, criterion := range record.Criteria {
		assert.Equal(t, 1.0, w[criterion])
	}
}

func TestParseWeights(t *testing.T) {
	w, err := ParseWeights([]byte(`
weights:
  InternalConsistency: 2.5
  SchemaCompliance: 0
`))
	require.NoError(t, err)

	assert.Equal(t, 2.5, w[record.CriterionInternalConsistency])
	assert.Equal(t, 0.0, w[record.CriterionSchemaCompliance])
	// Unlisted criteria keep their default weight.
	assert.Equal(t, 1.0, w[record.CriterionFormulaStrength])
}

func TestParseWeights_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown criterion", "weights:\n  Elegance: 2\n"},
		{"negative weight", "weights:\n  SchemaCompliance: -1\n"},
		{"unknown top-level field", "weights: {}\nextra: 1\n"},
		{"not yaml", "weights: [1, 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWeights([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights:\n  ValidationStrength: 3\n"), 0o644))

	w, err := LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, w[record.CriterionValidationStrength])

	_, err = LoadWeights(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
