package registry

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// registryFile is the on-disk YAML shape.
type registryFile struct {
	Version          string    `yaml:"version"`
	DefaultTolerance *float64  `yaml:"default_tolerance"`
	Concepts         []Concept `yaml:"concepts"`
}

// LoadError describes a fatal registry config problem. Registry load
// failures abort the process before any record is reviewed: every
// subsequent result depends on the registry, so there is nothing sensible to
// continue with.
type LoadError struct {
	Path    string
	Field   string
	Message string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("registry %s: %s: %s", e.Path, e.Field, e.Message)
	}
	return fmt.Sprintf("registry: %s: %s", e.Field, e.Message)
}

// Load reads and validates a registry YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Field: "file", Message: err.Error()}
	}
	r, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Field: "yaml", Message: err.Error()}
	}
	return r, nil
}

// Parse validates registry YAML bytes and builds the immutable Registry.
// Unknown YAML fields are rejected: a typo in a tolerance key must never
// silently fall back to the default.
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, &LoadError{Field: "yaml", Message: err.Error()}
	}

	if file.Version == "" {
		return nil, &LoadError{Field: "version", Message: "version is required"}
	}
	if file.DefaultTolerance == nil {
		return nil, &LoadError{Field: "default_tolerance", Message: "default_tolerance is required (no compiled-in epsilon)"}
	}
	if *file.DefaultTolerance < 0 {
		return nil, &LoadError{Field: "default_tolerance", Message: "default_tolerance must be >= 0"}
	}
	if len(file.Concepts) == 0 {
		return nil, &LoadError{Field: "concepts", Message: "at least one concept is required"}
	}

	r, err := build(file.Version, *file.DefaultTolerance, file.Concepts)
	if err != nil {
		return nil, &LoadError{Field: "concepts", Message: err.Error()}
	}
	return r, nil
}
