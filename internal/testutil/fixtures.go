// Package testutil provides shared fixtures for package tests: a sample
// quantity registry and a builder for raw record documents.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SampleRegistryYAML is a small registry exercising every tolerance policy:
// a per-concept tolerance, the file default, integer exactness, and one
// alias shared by two concepts (the ambiguity case).
const SampleRegistryYAML = `version: "test-1"
default_tolerance: 0.001
concepts:
  - concept_id: electroweak.sin2_theta_W_onshell
    aliases:
      - "sin2 theta W"
      - "weak mixing angle"
    tolerance: 0.0005
  - concept_id: higgs.vev_GeV
    aliases:
      - "Higgs vev"
    unit: GeV
  - concept_id: topology.euler_characteristic
    aliases:
      - "Euler characteristic"
    integer_exact: true
  - concept_id: qcd.alpha_s
    aliases:
      - "strong coupling"
      - "coupling constant"
  - concept_id: qed.alpha_em
    aliases:
      - "fine structure constant"
      - "coupling constant"
`

// WriteTemp writes content to name under a fresh temp dir and returns the
// full path.
func WriteTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// SampleRegistryPath writes SampleRegistryYAML to a temp file.
func SampleRegistryPath(t *testing.T) string {
	t.Helper()
	return WriteTemp(t, "registry.yaml", SampleRegistryYAML)
}
