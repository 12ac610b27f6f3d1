package review

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt/simaudit/internal/record"
	"github.com/veldt/simaudit/internal/testutil"
)

func TestReviewBatch_PreservesInputOrder(t *testing.T) {
	e := testEngine(t, WithWorkers(8))

	var inputs []BatchInput
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("rec-%02d", i)
		doc := testutil.NewRecord(id).
			Parameter("higgs.vev_GeV", "Higgs vacuum expectation value.", 246.22, 246.22).
			JSON(t)
		inputs = append(inputs, BatchInput{Name: id + ".json", Data: doc})
	}

	batch, err := e.ReviewBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, batch.Results, 20)
	assert.Empty(t, batch.Failures)

	for i, res := range batch.Results {
		assert.Equal(t, fmt.Sprintf("rec-%02d", i), res.RecordID)
	}
}

func TestReviewBatch_SchemaFailureIsolated(t *testing.T) {
	e := testEngine(t)

	inputs := []BatchInput{
		{Name: "good.json", Data: cleanDoc(t)},
		{Name: "broken.json", Data: testutil.NewRecord("rec-broken").Delete("formulas").JSON(t)},
		{Name: "drift.json", Data: driftDoc(t)},
	}

	batch, err := e.ReviewBatch(context.Background(), inputs)
	require.NoError(t, err)

	require.Len(t, batch.Results, 2)
	assert.Equal(t, "rec-clean", batch.Results[0].RecordID)
	assert.Equal(t, "rec-drift", batch.Results[1].RecordID)

	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "broken.json", batch.Failures[0].Name)
	assert.Equal(t, []string{"formulas"}, batch.Failures[0].Err.MissingFields)
}

func TestReviewBatch_ContextCancellation(t *testing.T) {
	e := testEngine(t, WithWorkers(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []BatchInput{{Name: "rec.json", Data: cleanDoc(t)}}
	_, err := e.ReviewBatch(ctx, inputs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReviewBatch_Empty(t *testing.T) {
	e := testEngine(t)
	batch, err := e.ReviewBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, batch.Results)
	assert.Empty(t, batch.Failures)
}

func TestReviewBatch_StatusMix(t *testing.T) {
	e := testEngine(t)

	degraded := testutil.NewRecord("rec-degraded").
		Section("body", "residuals remain within").
		JSON(t)

	inputs := []BatchInput{
		{Name: "clean.json", Data: cleanDoc(t)},
		{Name: "degraded.json", Data: degraded},
		{Name: "drift.json", Data: driftDoc(t)},
	}

	batch, err := e.ReviewBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, batch.Results, 3)
	assert.Equal(t, record.StatusAllGreen, batch.Results[0].SSOTStatus)
	assert.Equal(t, record.StatusDegraded, batch.Results[1].SSOTStatus)
	assert.Equal(t, record.StatusFailed, batch.Results[2].SSOTStatus)
}
