package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/veldt/simaudit/internal/record"
)

// ErrNotFound reports a missing run or result.
var ErrNotFound = errors.New("not found")

// ReadResult loads one persisted review result.
func (s *Store) ReadResult(ctx context.Context, runID, recordID string) (*record.ReviewResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM results WHERE run_id = ? AND record_id = ?
	`, runID, recordID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %s/%s: %w", runID, recordID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read result %s/%s: %w", runID, recordID, err)
	}

	var result record.ReviewResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode result %s/%s: %w", runID, recordID, err)
	}
	return &result, nil
}

// ListResults returns a run's results ordered by record id.
func (s *Store) ListResults(ctx context.Context, runID string) ([]*record.ReviewResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM results WHERE run_id = ? ORDER BY record_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results %s: %w", runID, err)
	}
	defer rows.Close()

	var results []*record.ReviewResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("list results %s: %w", runID, err)
		}
		var result record.ReviewResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("decode result in run %s: %w", runID, err)
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results %s: %w", runID, err)
	}
	return results, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, registry_version, created_at FROM runs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var created string
		if err := rows.Scan(&run.ID, &run.RegistryVersion, &created); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// CountByStatus tallies a run's results per SSOT status, for CI gating.
func (s *Store) CountByStatus(ctx context.Context, runID string) (map[record.SSOTStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ssot_status, COUNT(*) FROM results WHERE run_id = ? GROUP BY ssot_status
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("count by status %s: %w", runID, err)
	}
	defer rows.Close()

	counts := make(map[record.SSOTStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("count by status %s: %w", runID, err)
		}
		counts[record.SSOTStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by status %s: %w", runID, err)
	}
	return counts, nil
}
