// Package consistency implements the cross-field consistency checker.
//
// Given a record and its extraction, the checker runs five independent
// checks:
//
//   - numeric mismatch: occurrences of the same concept disagreeing beyond
//     the concept's configured tolerance (exact equality for integer-exact
//     concepts); exactly one issue per concept referencing all locations
//   - claimed deviation: certificate percentage claims recomputed from the
//     underlying parameter value/exp pair
//   - type mismatch: self-validation `passed` carried as a string
//   - invalid interval: confidence intervals with lower > upper or sigma < 0
//   - truncation: text fields ending mid-word
//
// Every check is a pure function over the record/extraction data; results
// merge by list concatenation in a fixed order, so per-concept and per-field
// checks could run in parallel without coordination. Tolerances always come
// from the registry; there is no global epsilon.
package consistency
