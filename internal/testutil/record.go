package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// RecordBuilder assembles raw record documents for tests. Every section a
// record must carry is present from the start, so a bare builder already
// passes schema validation.
type RecordBuilder struct {
	doc map[string]any
}

// NewRecord creates a builder for a minimal schema-valid document.
func NewRecord(id string) *RecordBuilder {
	return &RecordBuilder{doc: map[string]any{
		"id":              id,
		"version":         "1.0.0",
		"formulas":        []any{},
		"parameters":      []any{},
		"certificates":    []any{},
		"self_validation": []any{},
	}}
}

// Formula appends a formula entry.
func (b *RecordBuilder) Formula(id, description string, steps int) *RecordBuilder {
	b.append("formulas", map[string]any{
		"id":                    id,
		"description":           description,
		"category":              "ESTABLISHED",
		"derivation_step_count": steps,
	})
	return b
}

// Parameter appends a parameter with declared and expected values.
func (b *RecordBuilder) Parameter(id, description string, value, exp float64) *RecordBuilder {
	b.append("parameters", map[string]any{
		"id":          id,
		"description": description,
		"category":    "DERIVED",
		"value":       value,
		"exp":         exp,
	})
	return b
}

// Certificate appends a certificate; status is "PASS" or "FAIL".
func (b *RecordBuilder) Certificate(id, description, status string) *RecordBuilder {
	b.append("certificates", map[string]any{
		"id":          id,
		"description": description,
		"status":      status,
	})
	return b
}

// SelfValidation appends a self-validation check. passed may be a bool or a
// string, matching what the schema admits.
func (b *RecordBuilder) SelfValidation(name string, passed any, lower, upper, sigma float64, message string) *RecordBuilder {
	b.append("self_validation", map[string]any{
		"name":   name,
		"passed": passed,
		"confidence_interval": map[string]any{
			"lower": lower,
			"upper": upper,
			"sigma": sigma,
		},
		"message": message,
	})
	return b
}

// Section appends a free-text section block.
func (b *RecordBuilder) Section(name, text string) *RecordBuilder {
	blocks, _ := b.doc["section_text"].([]any)
	b.doc["section_text"] = append(blocks, map[string]any{"name": name, "text": text})
	return b
}

// TheoryContext sets the theory context text.
func (b *RecordBuilder) TheoryContext(text string) *RecordBuilder {
	b.doc["theory_context"] = text
	return b
}

// Set overrides any top-level field, including removing required sections by
// setting them to nil via Delete.
func (b *RecordBuilder) Set(key string, value any) *RecordBuilder {
	b.doc[key] = value
	return b
}

// Delete removes a top-level field, for building schema-invalid documents.
func (b *RecordBuilder) Delete(key string) *RecordBuilder {
	delete(b.doc, key)
	return b
}

// JSON serializes the document.
func (b *RecordBuilder) JSON(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(b.doc)
	require.NoError(t, err)
	return data
}

// WriteJSON writes the document to a temp file and returns the path.
func (b *RecordBuilder) WriteJSON(t *testing.T, name string) string {
	t.Helper()
	return WriteTemp(t, name, string(b.JSON(t)))
}

func (b *RecordBuilder) append(key string, entry map[string]any) {
	entries, _ := b.doc[key].([]any)
	b.doc[key] = append(entries, entry)
}
