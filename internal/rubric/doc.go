// Package rubric implements the deterministic scorer: it maps consistency
// issues onto the ten fixed criteria through a fixed deduction table.
//
// Every criterion starts at 10.0. Each issue deducts a weight determined by
// (kind, severity), restricted to the criteria that kind affects. Scores
// floor at 0.0 and round to one decimal. The overall score is a weighted
// mean over the criteria; weighting is configuration, detection is not. A
// published weighting change never alters which issues are found.
package rubric
