package record

// Category classifies the epistemic standing of a formula or parameter.
type Category string

// Formula and parameter categories. VALIDATION applies to parameters only.
const (
	CategoryEstablished  Category = "ESTABLISHED"
	CategoryFoundational Category = "FOUNDATIONAL"
	CategoryDerived      Category = "DERIVED"
	CategoryPredicted    Category = "PREDICTED"
	CategoryHeuristic    Category = "HEURISTIC"
	CategoryGeometric    Category = "GEOMETRIC"
	CategoryValidation   Category = "VALIDATION"
)

// ValidFormulaCategories defines the categories a Formula may carry.
var ValidFormulaCategories = map[Category]bool{
	CategoryEstablished:  true,
	CategoryFoundational: true,
	CategoryDerived:      true,
	CategoryPredicted:    true,
	CategoryHeuristic:    true,
	CategoryGeometric:    true,
}

// ValidParameterCategories defines the categories a Parameter may carry.
// Parameters additionally allow VALIDATION.
var ValidParameterCategories = map[Category]bool{
	CategoryEstablished:  true,
	CategoryFoundational: true,
	CategoryDerived:      true,
	CategoryPredicted:    true,
	CategoryHeuristic:    true,
	CategoryGeometric:    true,
	CategoryValidation:   true,
}

// CertStatus is the binary outcome of a certificate.
type CertStatus string

const (
	CertPass CertStatus = "PASS"
	CertFail CertStatus = "FAIL"
)

// SimulationRecord is a normalized simulation record document.
// Immutable once produced by the normalizer.
type SimulationRecord struct {
	ID             string                `json:"id"`
	Version        string                `json:"version"`
	Path           string                `json:"path"` // opaque provenance label
	SSOTFlags      map[string]bool       `json:"ssot_flags,omitempty"`
	Formulas       []Formula             `json:"formulas"`
	Parameters     []Parameter           `json:"parameters"`
	Certificates   []Certificate         `json:"certificates"`
	SelfValidation []SelfValidationCheck `json:"self_validation"`
	References     []Reference           `json:"references,omitempty"`
	SectionText    []SectionBlock        `json:"section_text,omitempty"`
	TheoryContext  string                `json:"theory_context,omitempty"`
}

// Formula describes one formula entry of a record.
type Formula struct {
	ID                  string   `json:"id"`
	Description         string   `json:"description"`
	Category            Category `json:"category"`
	DerivationStepCount int      `json:"derivation_step_count"`
}

// Parameter describes one named quantity declared by the record.
// The parameter id is namespaced (e.g. "electroweak.sin2_theta_W_onshell")
// and serves directly as the canonical concept id for its value and
// expected-value occurrences.
type Parameter struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Value       *float64 `json:"value,omitempty"`
	Exp         *float64 `json:"exp,omitempty"` // expected value
	Unit        string   `json:"unit,omitempty"`
}

// Certificate is a named binary claim about a derived value. The description
// typically embeds the numeric claim ("within 0.05% of PDG value").
type Certificate struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Status      CertStatus `json:"status"`
}

// SelfValidationCheck is an internally computed assertion with a boolean
// outcome and a statistical confidence interval.
//
// PassedWasString records that the source document carried `passed` as a
// string literal rather than a boolean; PassedRaw preserves the original
// literal for fix proposals. The normalizer coerces the value so the record
// stays usable, but the coercion is a type violation the checker must
// surface.
type SelfValidationCheck struct {
	Name               string             `json:"name"`
	Passed             bool               `json:"passed"`
	PassedWasString    bool               `json:"passed_was_string,omitempty"`
	PassedRaw          string             `json:"passed_raw,omitempty"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	LogLevel           string             `json:"log_level,omitempty"`
	Message            string             `json:"message"`
}

// ConfidenceInterval carries the statistical bounds of a self-validation
// check. Invariant (enforced by the checker, not here): Lower <= Upper and
// Sigma >= 0.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Sigma float64 `json:"sigma"`
}

// Reference is citation provenance. References are never quantity-checked.
type Reference struct {
	Key     string   `json:"key"`
	Year    int      `json:"year,omitempty"`
	Authors []string `json:"authors,omitempty"`
}

// SectionBlock is one ordered free-text block of the record body.
type SectionBlock struct {
	Name string `json:"name"`
	Text string `json:"text"`
}
