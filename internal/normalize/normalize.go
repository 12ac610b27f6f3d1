// Package normalize implements the record normalizer: it validates a raw
// JSON-shaped simulation record document against the structural schema and
// produces an immutable SimulationRecord.
//
// Normalization is a pure transform. It fails fatally only when the document
// is structurally un-parseable; recoverable defects (a string where `passed`
// should be a boolean) are coerced, marked on the record, and left for the
// consistency checker to surface as issues.
package normalize

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/veldt/simaudit/internal/record"
)

//go:embed schema.cue
var schemaCUE string

// requiredSections are the top-level fields a document must carry to be
// reviewable at all.
var requiredSections = []string{
	"id", "version", "formulas", "parameters", "certificates", "self_validation",
}

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

// recordSchema compiles the embedded schema once per process.
func recordSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile record schema: %w", err)
			return
		}
		schemaValue = v.LookupPath(cue.ParsePath("#Record"))
		if err := schemaValue.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Record: %w", err)
		}
	})
	return schemaValue, schemaErr
}

// rawRecord mirrors the document shape with loose typing where coercion is
// required.
type rawRecord struct {
	ID             string                `json:"id"`
	Version        string                `json:"version"`
	Path           string                `json:"path"`
	SSOTFlags      map[string]bool       `json:"ssot_flags"`
	Formulas       []rawFormula          `json:"formulas"`
	Parameters     []record.Parameter    `json:"parameters"`
	Certificates   []record.Certificate  `json:"certificates"`
	SelfValidation []rawSelfValidation   `json:"self_validation"`
	References     []record.Reference    `json:"references"`
	SectionText    []record.SectionBlock `json:"section_text"`
	TheoryContext  string                `json:"theory_context"`
}

type rawFormula struct {
	ID                  string `json:"id"`
	Description         string `json:"description"`
	Category            string `json:"category"`
	DerivationStepCount int    `json:"derivation_step_count"`
}

type rawSelfValidation struct {
	Name               string                    `json:"name"`
	Passed             any                       `json:"passed"`
	ConfidenceInterval record.ConfidenceInterval `json:"confidence_interval"`
	LogLevel           string                    `json:"log_level"`
	Message            string                    `json:"message"`
}

// Normalize validates raw document bytes and produces an immutable
// SimulationRecord. inputName labels errors for documents whose id cannot be
// read.
func Normalize(inputName string, data []byte) (*record.SimulationRecord, error) {
	// Cheap structural pass first: the document must be a JSON object with
	// every required section present. This yields precise missing_fields
	// before the schema engine weighs in.
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &SchemaValidationError{
			RecordID: inputName,
			Problems: []string{fmt.Sprintf("not a JSON object: %v", err)},
		}
	}

	recordID := inputName
	if idRaw, ok := top["id"]; ok {
		var id string
		if json.Unmarshal(idRaw, &id) == nil && id != "" {
			recordID = id
		}
	}

	var missing []string
	for _, section := range requiredSections {
		if _, ok := top[section]; !ok {
			missing = append(missing, section)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaValidationError{RecordID: recordID, MissingFields: missing}
	}

	if err := validateShape(recordID, data); err != nil {
		return nil, err
	}

	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		// The schema pass admits shapes json.Unmarshal cannot place into the
		// typed struct only when the schema itself has a gap; report rather
		// than panic.
		return nil, &SchemaValidationError{
			RecordID: recordID,
			Problems: []string{fmt.Sprintf("decode: %v", err)},
		}
	}

	return build(&raw), nil
}

// validateShape unifies the document with the CUE schema and collects every
// violation instead of stopping at the first.
func validateShape(recordID string, data []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract(recordID, data)
	if err != nil {
		return &SchemaValidationError{
			RecordID: recordID,
			Problems: []string{fmt.Sprintf("extract: %v", err)},
		}
	}

	ctx := schema.Context()
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return &SchemaValidationError{
			RecordID: recordID,
			Problems: []string{fmt.Sprintf("build: %v", err)},
		}
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		var problems []string
		for _, e := range cueerrors.Errors(err) {
			problems = append(problems, e.Error())
		}
		return &SchemaValidationError{RecordID: recordID, Problems: problems}
	}
	return nil
}

// build assembles the normalized record, applying the boolean coercion rule
// for stringly-typed `passed` values.
func build(raw *rawRecord) *record.SimulationRecord {
	rec := &record.SimulationRecord{
		ID:            raw.ID,
		Version:       raw.Version,
		Path:          raw.Path,
		SSOTFlags:     raw.SSOTFlags,
		Parameters:    raw.Parameters,
		Certificates:  raw.Certificates,
		References:    raw.References,
		SectionText:   raw.SectionText,
		TheoryContext: raw.TheoryContext,
	}

	rec.Formulas = make([]record.Formula, 0, len(raw.Formulas))
	for _, f := range raw.Formulas {
		rec.Formulas = append(rec.Formulas, record.Formula{
			ID:                  f.ID,
			Description:         f.Description,
			Category:            record.Category(strings.ToUpper(f.Category)),
			DerivationStepCount: f.DerivationStepCount,
		})
	}

	rec.SelfValidation = make([]record.SelfValidationCheck, 0, len(raw.SelfValidation))
	for _, sv := range raw.SelfValidation {
		check := record.SelfValidationCheck{
			Name:               sv.Name,
			ConfidenceInterval: sv.ConfidenceInterval,
			LogLevel:           sv.LogLevel,
			Message:            sv.Message,
		}
		switch passed := sv.Passed.(type) {
		case bool:
			check.Passed = passed
		case string:
			check.Passed = coerceBool(passed)
			check.PassedWasString = true
			check.PassedRaw = passed
		default:
			// Schema admits bool | string only; anything else failed
			// validateShape already. An unreadable outcome is a failed one.
			check.Passed = false
		}
		rec.SelfValidation = append(rec.SelfValidation, check)
	}

	return rec
}

// coerceBool maps the string spellings observed in the corpus onto booleans.
// Unrecognized spellings coerce to false: a check whose outcome cannot be
// read did not pass.
func coerceBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "pass", "passed", "1":
		return true
	default:
		return false
	}
}
