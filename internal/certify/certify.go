// Package certify implements the certification aggregator: the single SSOT
// verdict combining certificate outcomes, self-validation outcomes, and
// high-severity consistency issues.
//
// The record's own ssot_flags are advisory input only. A record declaring
// every flag "YES" while a certificate and a self-validation message
// contradict each other still aggregates to FAILED; the flags never
// override the computed verdict.
package certify

import (
	"github.com/veldt/simaudit/internal/record"
)

// Aggregate computes the SSOT status for a record given its complete issue
// list.
//
//	ALL_GREEN: every certificate PASS, every self-validation passed, and no
//	           HIGH-severity issue
//	DEGRADED:  certificates and self-validation clean, but LOW/MEDIUM issues
//	FAILED:    a certificate or self-validation failure, or any HIGH issue
func Aggregate(rec *record.SimulationRecord, issues []record.ConsistencyIssue) record.SSOTStatus {
	clean := true

	for _, c := range rec.Certificates {
		if c.Status != record.CertPass {
			clean = false
		}
	}
	for _, sv := range rec.SelfValidation {
		if !sv.Passed {
			clean = false
		}
	}
	for _, issue := range issues {
		if issue.Severity == record.SeverityHigh {
			clean = false
		}
	}

	if clean {
		if len(issues) == 0 {
			return record.StatusAllGreen
		}
		return record.StatusDegraded
	}
	return record.StatusFailed
}
