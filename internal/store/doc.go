// Package store persists review results. It sits outside the pure core: the
// engine never touches it, and nothing in a ReviewResult depends on it; it
// is the sink the batch runner and CLI write into.
//
// Storage is SQLite with WAL mode. Each batch run gets a uuid and records the
// registry version it ran against; results are keyed by (run, record) and
// written idempotently, carrying the canonical JSON payload alongside the
// columns dashboards filter on (ssot_status, overall_score). Schema-invalid
// documents land in a separate failures table so a run's exclusions stay
// auditable.
package store
