package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt/simaudit/internal/review"
	"github.com/veldt/simaudit/internal/testutil"
)

func cleanRecordPath(t *testing.T) string {
	t.Helper()
	return testutil.NewRecord("clean-1").
		Parameter("higgs.vev_GeV", "Higgs field vacuum expectation scale.", 246.22, 246.22).
		Certificate("cert.scale", "Derived scale agrees with the reference.", "PASS").
		SelfValidation("scale_check", true, 246.0, 246.5, 2.0, "Scale inside the reference interval.").
		WriteJSON(t, "clean.json")
}

func failedRecordPath(t *testing.T) string {
	t.Helper()
	return testutil.NewRecord("broken-1").
		Parameter("higgs.vev_GeV", "Higgs field vacuum expectation scale.", 123.0, 246.22).
		Certificate("cert.scale", "Derived scale agrees with the reference.", "PASS").
		SelfValidation("scale_check", true, 246.0, 246.5, 2.0, "Scale inside the reference interval.").
		WriteJSON(t, "broken.json")
}

func TestReview_CleanRecordPasses(t *testing.T) {
	reg := testutil.SampleRegistryPath(t)
	rec := cleanRecordPath(t)

	out, _, err := execute(t, "review", "--registry", reg, rec)
	require.NoError(t, err)
	assert.Contains(t, out, "clean-1")
	assert.Contains(t, out, "ALL_GREEN")
	assert.Contains(t, out, "1 ALL_GREEN, 0 DEGRADED, 0 FAILED, 0 rejected")
}

func TestReview_FailedRecordTripsGate(t *testing.T) {
	reg := testutil.SampleRegistryPath(t)
	rec := failedRecordPath(t)

	out, _, err := execute(t, "review", "--registry", reg, rec)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAILED")
}

func TestReview_FailOnNever(t *testing.T) {
	reg := testutil.SampleRegistryPath(t)
	rec := failedRecordPath(t)

	_, _, err := execute(t, "review", "--registry", reg, "--fail-on", "never", rec)
	require.NoError(t, err)
}

func TestReview_SchemaRejectedFileTripsGate(t *testing.T) {
	reg := testutil.SampleRegistryPath(t)
	rec := testutil.NewRecord("no-params").Delete("parameters").WriteJSON(t, "bad.json")

	out, _, err := execute(t, "review", "--registry", reg, rec)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "REJECTED")
}

func TestReview_JSONOutput(t *testing.T) {
	reg := testutil.SampleRegistryPath(t)
	rec := cleanRecordPath(t)

	out, _, err := execute(t, "--format", "json", "review", "--registry", reg, rec)
	require.NoError(t, err)

	var resp struct {
		Status string             `json:"status"`
		Data   review.BatchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Results, 1)
	assert.Equal(t, "clean-1", resp.Data.Results[0].RecordID)
	assert.InDelta(t, 10.0, resp.Data.Results[0].OverallScore, 0.01)
}

func TestReview_MissingRegistryFlag(t *testing.T) {
	rec := cleanRecordPath(t)
	_, _, err := execute(t, "review", rec)
	require.Error(t, err)
}

func TestReview_UnreadableRecord(t *testing.T) {
	reg := testutil.SampleRegistryPath(t)
	_, _, err := execute(t, "review", "--registry", reg, filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReview_InvalidFailOn(t *testing.T) {
	reg := testutil.SampleRegistryPath(t)
	rec := cleanRecordPath(t)
	_, _, err := execute(t, "review", "--registry", reg, "--fail-on", "sometimes", rec)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReview_PersistAndInspect(t *testing.T) {
	reg := testutil.SampleRegistryPath(t)
	clean := cleanRecordPath(t)
	failed := failedRecordPath(t)
	db := filepath.Join(t.TempDir(), "results.db")

	_, _, err := execute(t, "review", "--registry", reg, "--db", db, "--fail-on", "never", clean, failed)
	require.NoError(t, err)

	out, _, err := execute(t, "runs", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "registry=test-1")
	assert.Contains(t, out, "green=1")
	assert.Contains(t, out, "failed=1")
	assert.Contains(t, out, "1 runs")

	// Pull the run id out of the JSON listing and show its results.
	jsonOut, _, err := execute(t, "--format", "json", "runs", "list", "--db", db)
	require.NoError(t, err)
	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &resp))
	require.Len(t, resp.Data, 1)

	showOut, _, err := execute(t, "runs", "show", "--db", db, "--run", resp.Data[0].ID)
	require.NoError(t, err)
	assert.Contains(t, showOut, "broken-1")
	assert.Contains(t, showOut, "clean-1")
	assert.Contains(t, showOut, "2 results")

	oneOut, _, err := execute(t, "runs", "show", "--db", db, "--run", resp.Data[0].ID, "--record", "broken-1")
	require.NoError(t, err)
	assert.Contains(t, oneOut, "NUMERIC_MISMATCH")

	_, _, err = execute(t, "runs", "show", "--db", db, "--run", resp.Data[0].ID, "--record", "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
