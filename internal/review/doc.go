// Package review wires the pipeline together: normalizer, quantity
// extractor, consistency checker, certification aggregator, rubric scorer,
// and auto-fix proposer, in that order. Data flows strictly left to right;
// no stage depends on anything downstream of it.
//
// An Engine holds only immutable configuration (registry, weights, token
// window), so one Engine can review any number of records concurrently.
// Records are independent: a batch fans out across a bounded worker pool
// with no coordination beyond result collection, and a record that fails
// schema validation is reported and skipped without touching its siblings.
//
// The engine performs no I/O and knows no wall-clock time. Reviewing the
// same record against the same registry twice yields byte-identical results.
package review
