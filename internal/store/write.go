package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veldt/simaudit/internal/record"
	"github.com/veldt/simaudit/internal/review"
)

// Run identifies one persisted batch run.
type Run struct {
	ID              string
	RegistryVersion string
	CreatedAt       time.Time
}

// BeginRun registers a new batch run and returns its identity. The uuid and
// timestamp live only here; they never enter a ReviewResult, which stays a
// pure function of its inputs.
func (s *Store) BeginRun(ctx context.Context, registryVersion string) (Run, error) {
	run := Run{
		ID:              uuid.NewString(),
		RegistryVersion: registryVersion,
		CreatedAt:       time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, registry_version, created_at)
		VALUES (?, ?, ?)
	`, run.ID, run.RegistryVersion, run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}

	return run, nil
}

// WriteResult persists one review result under a run. Idempotent: rewriting
// the same (run, record) replaces the row wholesale, matching the result
// lifecycle: recomputation replaces, never mutates.
func (s *Store) WriteResult(ctx context.Context, runID string, result *record.ReviewResult) error {
	payload, err := record.MarshalCanonical(result)
	if err != nil {
		return fmt.Errorf("write result %s: %w", result.RecordID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (run_id, record_id, ssot_status, overall_score, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, record_id) DO UPDATE SET
			ssot_status   = excluded.ssot_status,
			overall_score = excluded.overall_score,
			payload       = excluded.payload
	`, runID, result.RecordID, string(result.SSOTStatus), result.OverallScore, string(payload))
	if err != nil {
		return fmt.Errorf("write result %s: %w", result.RecordID, err)
	}

	return nil
}

// WriteFailure records a document excluded from a run by schema validation.
func (s *Store) WriteFailure(ctx context.Context, runID string, failure review.BatchFailure) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO failures (run_id, input_name, detail)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id, input_name) DO UPDATE SET
			detail = excluded.detail
	`, runID, failure.Name, failure.Err.Error())
	if err != nil {
		return fmt.Errorf("write failure %s: %w", failure.Name, err)
	}
	return nil
}

// WriteBatch persists a complete batch outcome under a run.
func (s *Store) WriteBatch(ctx context.Context, runID string, batch *review.BatchResult) error {
	for _, result := range batch.Results {
		if err := s.WriteResult(ctx, runID, result); err != nil {
			return err
		}
	}
	for _, failure := range batch.Failures {
		if err := s.WriteFailure(ctx, runID, failure); err != nil {
			return err
		}
	}
	return nil
}
