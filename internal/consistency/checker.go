package consistency

import (
	"math"
	"sort"
	"strconv"

	"github.com/veldt/simaudit/internal/extract"
	"github.com/veldt/simaudit/internal/record"
	"github.com/veldt/simaudit/internal/registry"
)

// highSeverityFactor marks a relative divergence so far beyond tolerance
// that it cannot be rounding drift.
const highSeverityFactor = 10

// Checker cross-checks one record's occurrences against the registry's
// tolerance policy.
type Checker struct {
	reg *registry.Registry
}

// New creates a Checker bound to a registry.
func New(reg *registry.Registry) *Checker {
	return &Checker{reg: reg}
}

// Check runs all consistency checks and returns the merged issue list.
//
// Merge order is fixed so identical inputs always produce identically
// ordered output: numeric mismatches (concepts sorted), claimed deviations
// (claim order), type mismatches, invalid intervals (check order),
// truncation (field scan order), then the extractor's ambiguity issues.
func (c *Checker) Check(rec *record.SimulationRecord, ext *extract.Extraction) []record.ConsistencyIssue {
	var issues []record.ConsistencyIssue

	mismatches := c.checkNumericMismatches(ext.Occurrences)
	issues = append(issues, mismatches...)
	issues = append(issues, c.checkClaimedDeviations(rec, ext.Claims)...)
	issues = append(issues, checkPassedTypes(rec)...)
	issues = append(issues, checkIntervals(rec)...)
	issues = append(issues, checkTruncation(rec, mismatchSources(mismatches))...)
	issues = append(issues, ext.Issues...)

	return issues
}

// checkNumericMismatches groups unambiguous occurrences by concept and emits
// exactly one NUMERIC_MISMATCH per concept whose values disagree beyond
// tolerance, referencing every location, never one issue per pair.
func (c *Checker) checkNumericMismatches(occs []record.QuantityOccurrence) []record.ConsistencyIssue {
	groups := make(map[string][]record.QuantityOccurrence)
	for _, occ := range occs {
		if occ.Match == record.MatchAmbiguous {
			continue // excluded from comparison until resolved
		}
		groups[occ.ConceptID] = append(groups[occ.ConceptID], occ)
	}

	conceptIDs := make([]string, 0, len(groups))
	for id, g := range groups {
		if len(g) >= 2 {
			conceptIDs = append(conceptIDs, id)
		}
	}
	sort.Strings(conceptIDs)

	var issues []record.ConsistencyIssue
	for _, id := range conceptIDs {
		if issue, ok := c.compareGroup(id, groups[id]); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

// compareGroup decides whether a concept's occurrences diverge and builds
// the consolidated issue.
func (c *Checker) compareGroup(conceptID string, group []record.QuantityOccurrence) (record.ConsistencyIssue, bool) {
	integerExact := c.reg.IntegerExact(conceptID)
	tol := c.reg.ToleranceFor(conceptID)

	diverged := false
	maxRel := 0.0
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			a, b := group[i].RawValue, group[j].RawValue
			if integerExact {
				if a != b {
					diverged = true
				}
				continue
			}
			rel := relDiff(a, b)
			if rel > maxRel {
				maxRel = rel
			}
			if rel > tol {
				diverged = true
			}
		}
	}
	if !diverged {
		return record.ConsistencyIssue{}, false
	}

	locations := make([]record.Location, 0, len(group))
	for _, occ := range group {
		locations = append(locations, record.Location{
			Field:    occ.SourceField,
			SourceID: occ.SourceID,
			Value:    record.Float64Ptr(occ.RawValue),
			Span:     occ.RawSpan,
		})
	}
	sortLocations(locations)

	severity := record.SeverityMedium
	if integerExact || maxRel > highSeverityFactor*tol {
		severity = record.SeverityHigh
	}

	detail := map[string]string{
		"occurrences": strconv.Itoa(len(group)),
	}
	if integerExact {
		detail["policy"] = "integer_exact"
	} else {
		detail["policy"] = "relative_tolerance"
		detail["tolerance"] = formatFloat(tol)
		detail["max_relative_diff"] = formatFloat(maxRel)
	}

	return record.ConsistencyIssue{
		Kind:      record.IssueNumericMismatch,
		Severity:  severity,
		ConceptID: conceptID,
		Locations: locations,
		Detail:    detail,
	}, true
}

// checkClaimedDeviations recomputes each certificate's percentage claim from
// the referenced parameter's value/exp pair. The inputs may be perfectly
// consistent while the claim about them is false; that case is
// CLAIMED_DEVIATION_MISMATCH, not NUMERIC_MISMATCH.
func (c *Checker) checkClaimedDeviations(rec *record.SimulationRecord, claims []extract.DeviationClaim) []record.ConsistencyIssue {
	params := make(map[string]record.Parameter, len(rec.Parameters))
	for _, p := range rec.Parameters {
		params[p.ID] = p
	}

	var issues []record.ConsistencyIssue
	for _, claim := range claims {
		p, ok := params[claim.ConceptID]
		if !ok || p.Value == nil || p.Exp == nil || *p.Exp == 0 {
			continue // nothing to recompute against
		}
		recomputed := math.Abs(*p.Value-*p.Exp) / math.Abs(*p.Exp)

		tol := c.reg.ToleranceFor(claim.ConceptID)
		if relDiff(claim.Claimed, recomputed) <= tol {
			continue
		}

		issues = append(issues, record.ConsistencyIssue{
			Kind:      record.IssueClaimedDeviationMismatch,
			Severity:  record.SeverityHigh,
			ConceptID: claim.ConceptID,
			Locations: []record.Location{
				{Field: record.FieldParamValue, SourceID: p.ID, Value: p.Value},
				{Field: record.FieldParamExp, SourceID: p.ID, Value: p.Exp},
				{Field: record.FieldCertDesc, SourceID: claim.CertID, Span: claim.RawSpan},
			},
			Detail: map[string]string{
				"claimed_percent":    formatFloat(claim.ClaimedPercent),
				"recomputed_percent": formatFloat(recomputed * 100),
			},
		})
	}
	return issues
}

// checkPassedTypes flags self-validation checks whose `passed` arrived as a
// string. HIGH severity: a string silently breaks downstream boolean logic.
func checkPassedTypes(rec *record.SimulationRecord) []record.ConsistencyIssue {
	var issues []record.ConsistencyIssue
	for _, sv := range rec.SelfValidation {
		if !sv.PassedWasString {
			continue
		}
		issues = append(issues, record.ConsistencyIssue{
			Kind:     record.IssueTypeMismatch,
			Severity: record.SeverityHigh,
			Locations: []record.Location{
				{Field: record.FieldSelfValMessage, SourceID: sv.Name},
			},
			Detail: map[string]string{
				"field":    "passed",
				"expected": "bool",
				"actual":   "string",
			},
		})
	}
	return issues
}

// checkIntervals rejects confidence intervals with lower > upper or
// sigma < 0, regardless of anything else about the check.
func checkIntervals(rec *record.SimulationRecord) []record.ConsistencyIssue {
	var issues []record.ConsistencyIssue
	for _, sv := range rec.SelfValidation {
		ci := sv.ConfidenceInterval
		if ci.Lower <= ci.Upper && ci.Sigma >= 0 {
			continue
		}
		issues = append(issues, record.ConsistencyIssue{
			Kind:     record.IssueInvalidInterval,
			Severity: record.SeverityHigh,
			Locations: []record.Location{
				{Field: record.FieldSelfValMessage, SourceID: sv.Name},
			},
			Detail: map[string]string{
				"lower": formatFloat(ci.Lower),
				"upper": formatFloat(ci.Upper),
				"sigma": formatFloat(ci.Sigma),
			},
		})
	}
	return issues
}

// mismatchSources collects the source ids implicated in numeric mismatches,
// used to upgrade truncation severity for certificate and parameter
// descriptions that also feed a mismatch.
func mismatchSources(mismatches []record.ConsistencyIssue) map[string]bool {
	sources := make(map[string]bool)
	for _, issue := range mismatches {
		for _, loc := range issue.Locations {
			sources[loc.SourceID] = true
		}
	}
	return sources
}

// sortLocations orders locations by field rank, then source id, then value.
func sortLocations(locations []record.Location) {
	sort.SliceStable(locations, func(i, j int) bool {
		a, b := locations[i], locations[j]
		if a.Field.Rank() != b.Field.Rank() {
			return a.Field.Rank() < b.Field.Rank()
		}
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		av, bv := 0.0, 0.0
		if a.Value != nil {
			av = *a.Value
		}
		if b.Value != nil {
			bv = *b.Value
		}
		return av < bv
	})
}

// relDiff is the relative difference |a-b| / max(|a|,|b|), zero when both
// values are zero.
func relDiff(a, b float64) float64 {
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return 0
	}
	return math.Abs(a-b) / denom
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
