// Package harness provides conformance testing for the review engine.
//
// A scenario is a YAML file naming a registry fixture, a raw record fixture,
// and expectations over the resulting ReviewResult: the SSOT status, issue
// counts by kind, score bounds per criterion, and fix proposal counts.
//
// # Scenario Format
//
//	name: residue_count_conflict
//	description: "Certificate and self-validation disagree on an integer count"
//	registry: registry.yaml
//	record: residues.json
//	expect:
//	  ssot_status: FAILED
//	  issues:
//	    - kind: NUMERIC_MISMATCH
//	      concept_id: spectral.n_residues
//	      severity: HIGH
//	      count: 1
//	  scores:
//	    - criterion: InternalConsistency
//	      below: 10.0
//
// Scenarios run the real engine end to end (fixture bytes go through the
// normalizer, never hand-built records) and can additionally snapshot the
// canonical ReviewResult JSON against a golden file, which doubles as the
// determinism check: a golden match on re-run is byte-identity by
// construction.
package harness
