package normalize

import (
	"fmt"
	"strings"
)

// SchemaValidationError is the fatal per-record failure: the document is
// structurally unusable (missing sections, wrong shapes). It excludes the
// record from a batch's results, never the batch itself.
type SchemaValidationError struct {
	// RecordID is the document's id when one could be read, otherwise the
	// caller-supplied input name.
	RecordID string

	// MissingFields lists absent required top-level sections.
	MissingFields []string

	// Problems lists structural violations beyond missing fields, one per
	// schema error.
	Problems []string
}

func (e *SchemaValidationError) Error() string {
	var parts []string
	if len(e.MissingFields) > 0 {
		parts = append(parts, fmt.Sprintf("missing fields: %s", strings.Join(e.MissingFields, ", ")))
	}
	if len(e.Problems) > 0 {
		parts = append(parts, strings.Join(e.Problems, "; "))
	}
	if len(parts) == 0 {
		parts = append(parts, "invalid record")
	}
	return fmt.Sprintf("record %s: %s", e.RecordID, strings.Join(parts, "; "))
}
