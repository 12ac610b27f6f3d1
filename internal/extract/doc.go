// Package extract implements the quantity extractor: it scans every text and
// number field of a normalized simulation record and produces
// QuantityOccurrence entries resolving named-quantity mentions to canonical
// concept ids.
//
// Matching is deliberately NOT natural-language understanding. It is a
// bounded heuristic: registry aliases are matched case- and
// punctuation-insensitively, longest alias wins, and a numeric token
// associates with an alias mention only inside a fixed token window (default
// 8). A mention matching two or more aliases of equal length is surfaced as
// an AMBIGUOUS_MATCH issue and excluded from mismatch comparison, never
// resolved by guessing.
//
// Parameter value/exp fields skip text matching entirely: the parameter's
// own namespaced id is the canonical concept (EXACT_ID_MATCH).
package extract
