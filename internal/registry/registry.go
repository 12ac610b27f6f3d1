package registry

import (
	"fmt"
)

// Concept is one registry entry: a canonical concept id, its textual
// aliases, and its comparison policy.
type Concept struct {
	ConceptID    string   `yaml:"concept_id" json:"concept_id"`
	Aliases      []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Unit         string   `yaml:"unit,omitempty" json:"unit,omitempty"`
	Tolerance    *float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	IntegerExact bool     `yaml:"integer_exact,omitempty" json:"integer_exact,omitempty"`
}

// Registry is the immutable alias registry. Construct via Load or Parse;
// never mutate a Registry after construction; concurrent record reviews
// read it without locks.
type Registry struct {
	version          string
	defaultTolerance float64
	concepts         map[string]Concept
	order            []string // concept ids in declaration order

	// aliasIndex maps a normalized alias key (joined normalized tokens) to
	// the concept ids carrying that alias. More than one id under a key is
	// an ambiguity surfaced at match time, never resolved by guessing.
	aliasIndex map[string][]string

	// maxAliasTokens bounds the longest-match scan.
	maxAliasTokens int
}

// Version returns the registry file's declared version.
func (r *Registry) Version() string {
	return r.version
}

// DefaultTolerance returns the file-level tolerance applied to concepts
// without their own.
func (r *Registry) DefaultTolerance() float64 {
	return r.defaultTolerance
}

// Concept looks up an entry by canonical id.
func (r *Registry) Concept(id string) (Concept, bool) {
	c, ok := r.concepts[id]
	return c, ok
}

// Concepts returns all entries in declaration order.
func (r *Registry) Concepts() []Concept {
	out := make([]Concept, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.concepts[id])
	}
	return out
}

// ToleranceFor returns the relative tolerance configured for a concept.
// Concepts not present in the registry (e.g. parameter-id keyed occurrences)
// inherit the file's default tolerance.
func (r *Registry) ToleranceFor(id string) float64 {
	if c, ok := r.concepts[id]; ok && c.Tolerance != nil {
		return *c.Tolerance
	}
	return r.defaultTolerance
}

// IntegerExact reports whether a concept requires exact integer equality
// instead of tolerance comparison.
func (r *Registry) IntegerExact(id string) bool {
	c, ok := r.concepts[id]
	return ok && c.IntegerExact
}

// UnitFor returns the canonical unit declared for a concept, if any.
func (r *Registry) UnitFor(id string) string {
	if c, ok := r.concepts[id]; ok {
		return c.Unit
	}
	return ""
}

// MaxAliasTokens returns the token length of the longest registered alias.
func (r *Registry) MaxAliasTokens() int {
	return r.maxAliasTokens
}

// LookupAlias returns the concept ids registered under the normalized token
// sequence tokens[start:start+length]. The returned slice is sorted at index
// build time and must not be mutated.
func (r *Registry) LookupAlias(tokens []string, start, length int) []string {
	if start < 0 || length <= 0 || start+length > len(tokens) {
		return nil
	}
	return r.aliasIndex[aliasKey(tokens[start:start+length])]
}

// build constructs the immutable lookup structures from parsed entries.
func build(version string, defaultTolerance float64, entries []Concept) (*Registry, error) {
	r := &Registry{
		version:          version,
		defaultTolerance: defaultTolerance,
		concepts:         make(map[string]Concept, len(entries)),
		aliasIndex:       make(map[string][]string),
	}

	for i, c := range entries {
		if c.ConceptID == "" {
			return nil, fmt.Errorf("concept %d: concept_id is required", i)
		}
		if _, dup := r.concepts[c.ConceptID]; dup {
			return nil, fmt.Errorf("duplicate concept_id: %s", c.ConceptID)
		}
		if c.Tolerance != nil {
			if *c.Tolerance < 0 {
				return nil, fmt.Errorf("concept %s: tolerance must be >= 0", c.ConceptID)
			}
			if c.IntegerExact {
				return nil, fmt.Errorf("concept %s: tolerance and integer_exact are mutually exclusive", c.ConceptID)
			}
		}
		r.concepts[c.ConceptID] = c
		r.order = append(r.order, c.ConceptID)

		for _, alias := range c.Aliases {
			tokens := NormalizeTokens(alias)
			if len(tokens) == 0 {
				return nil, fmt.Errorf("concept %s: alias %q normalizes to nothing", c.ConceptID, alias)
			}
			key := aliasKey(tokens)
			ids := r.aliasIndex[key]
			if !containsString(ids, c.ConceptID) {
				r.aliasIndex[key] = insertSorted(ids, c.ConceptID)
			}
			if len(tokens) > r.maxAliasTokens {
				r.maxAliasTokens = len(tokens)
			}
		}
	}

	return r, nil
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// insertSorted keeps alias index slices sorted so ambiguity candidates come
// out in a deterministic order.
func insertSorted(ss []string, s string) []string {
	i := 0
	for i < len(ss) && ss[i] < s {
		i++
	}
	ss = append(ss, "")
	copy(ss[i+1:], ss[i:])
	ss[i] = s
	return ss
}
