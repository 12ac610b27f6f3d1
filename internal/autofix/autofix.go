// Package autofix proposes canonical resolutions for issue kinds that have
// one. Proposals are structured (field, old value, proposed value) diffs;
// text is never fabricated: truncation gets an explicit placeholder
// requiring human completion.
package autofix

import (
	"fmt"
	"strconv"

	"github.com/veldt/simaudit/internal/record"
)

// TruncationPlaceholder marks a cut field as requiring human completion.
const TruncationPlaceholder = "<<INCOMPLETE: requires human completion>>"

// Propose emits fix proposals for every issue with a canonical resolution
// rule. Issues without one (INVALID_INTERVAL and AMBIGUOUS_MATCH, which need
// a human decision) produce nothing. Output order follows issue order, so the
// proposal list is as deterministic as the issue list.
func Propose(rec *record.SimulationRecord, issues []record.ConsistencyIssue) []record.FixProposal {
	checks := make(map[string]record.SelfValidationCheck, len(rec.SelfValidation))
	for _, sv := range rec.SelfValidation {
		checks[sv.Name] = sv
	}

	var proposals []record.FixProposal
	for _, issue := range issues {
		switch issue.Kind {
		case record.IssueNumericMismatch:
			proposals = append(proposals, proposeNumeric(issue)...)
		case record.IssueTypeMismatch:
			proposals = append(proposals, proposeBoolCoercion(issue, checks)...)
		case record.IssueTruncation:
			proposals = append(proposals, proposeTruncation(issue)...)
		case record.IssueClaimedDeviationMismatch:
			proposals = append(proposals, proposeClaimRewrite(issue)...)
		}
	}
	return proposals
}

// proposeNumeric adopts the PARAM_VALUE occurrence as authoritative: the
// parameter's own declared value outranks free-text mentions and certificate
// claims. Without a PARAM_VALUE location there is no authority to adopt and
// no proposal is made.
func proposeNumeric(issue record.ConsistencyIssue) []record.FixProposal {
	var authoritative *record.Location
	for i := range issue.Locations {
		if issue.Locations[i].Field == record.FieldParamValue && issue.Locations[i].Value != nil {
			authoritative = &issue.Locations[i]
			break
		}
	}
	if authoritative == nil {
		return nil
	}

	canonical := formatValue(*authoritative.Value)
	var proposals []record.FixProposal
	for _, loc := range issue.Locations {
		if loc.Field == record.FieldParamValue || loc.Value == nil {
			continue
		}
		if *loc.Value == *authoritative.Value {
			continue // already agrees
		}
		proposals = append(proposals, record.FixProposal{
			Kind:      issue.Kind,
			ConceptID: issue.ConceptID,
			Field:     loc.Field,
			SourceID:  loc.SourceID,
			OldValue:  formatValue(*loc.Value),
			NewValue:  canonical,
			Note:      "adopt declared parameter value",
		})
	}
	return proposals
}

// proposeBoolCoercion proposes replacing a stringly-typed `passed` with the
// literal boolean it was coerced to.
func proposeBoolCoercion(issue record.ConsistencyIssue, checks map[string]record.SelfValidationCheck) []record.FixProposal {
	if issue.Detail["field"] != "passed" {
		return nil
	}
	var proposals []record.FixProposal
	for _, loc := range issue.Locations {
		sv, ok := checks[loc.SourceID]
		if !ok {
			continue
		}
		proposals = append(proposals, record.FixProposal{
			Kind:     issue.Kind,
			Field:    loc.Field,
			SourceID: loc.SourceID,
			OldValue: sv.PassedRaw,
			NewValue: strconv.FormatBool(sv.Passed),
			Note:     "coerce to native boolean",
		})
	}
	return proposals
}

func proposeTruncation(issue record.ConsistencyIssue) []record.FixProposal {
	var proposals []record.FixProposal
	for _, loc := range issue.Locations {
		proposals = append(proposals, record.FixProposal{
			Kind:     issue.Kind,
			Field:    loc.Field,
			SourceID: loc.SourceID,
			OldValue: loc.Span,
			NewValue: loc.Span + " " + TruncationPlaceholder,
			Note:     "field ends mid-word; completion must come from a human",
		})
	}
	return proposals
}

// proposeClaimRewrite substitutes the recomputed deviation into the
// certificate description span, raw numbers shown.
func proposeClaimRewrite(issue record.ConsistencyIssue) []record.FixProposal {
	recomputed := issue.Detail["recomputed_percent"]
	if recomputed == "" {
		return nil
	}

	var value, exp string
	var certLoc *record.Location
	for i := range issue.Locations {
		loc := &issue.Locations[i]
		switch loc.Field {
		case record.FieldParamValue:
			if loc.Value != nil {
				value = formatValue(*loc.Value)
			}
		case record.FieldParamExp:
			if loc.Value != nil {
				exp = formatValue(*loc.Value)
			}
		case record.FieldCertDesc:
			certLoc = loc
		}
	}
	if certLoc == nil {
		return nil
	}

	return []record.FixProposal{{
		Kind:      issue.Kind,
		ConceptID: issue.ConceptID,
		Field:     certLoc.Field,
		SourceID:  certLoc.SourceID,
		OldValue:  certLoc.Span,
		NewValue:  fmt.Sprintf("deviation %s%% (recomputed from value=%s, exp=%s)", recomputed, value, exp),
		Note:      "replace claimed deviation with recomputed deviation",
	}}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
