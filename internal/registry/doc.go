// Package registry implements the alias registry: the versioned, immutable
// mapping from canonical concept identifiers to known aliases, units, and
// numeric tolerances.
//
// The registry is loaded once at process start and never mutated afterwards.
// Updating it means loading a new Registry value between batches; there is no
// in-place reload. Every tolerance decision the consistency checker makes
// comes from here; there is no compiled-in epsilon.
//
// Registry files are YAML:
//
//	version: "2026.08"
//	default_tolerance: 0.01
//	concepts:
//	  - concept_id: electroweak.sin2_theta_W_onshell
//	    aliases: ["sin2 theta W", "weak mixing angle"]
//	    unit: dimensionless
//	    tolerance: 0.01
//	  - concept_id: spectral.n_residues
//	    aliases: ["residue count", "spectral residues"]
//	    integer_exact: true
//
// Malformed registry files are fatal to process start, never per-record.
package registry
