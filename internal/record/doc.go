// Package record defines the canonical data model for simulation record
// review.
//
// This package contains type definitions and canonical serialization only.
// All other internal packages import record; record imports nothing internal.
// This keeps the data model the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - SimulationRecord is immutable once normalized; nothing downstream
//     mutates it.
//   - ReviewResult is a pure function of (record, registry, config); it
//     carries no timestamps, run identifiers, or other ambient state, so
//     recomputation is byte-identical.
//   - All JSON tags use snake_case.
//   - Enumerations are string-typed for stable serialization.
package record
