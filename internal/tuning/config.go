package tuning

import (
	"fmt"
	"regexp"
)

// Literal is the canonical textual form of a configuration value, carried
// opaque. Examples: "32", "[[8, 16]]", "#gpu.pipeline_options<...>".
type Literal string

// String returns the literal text.
func (l Literal) String() string { return string(l) }

// Configuration is an immutable (name, literal) pair produced by an
// external autotuner. Lists of configurations are ordered and may contain
// duplicate names; duplicates are never deduplicated here.
type Configuration struct {
	Name  string  `json:"name" yaml:"name"`
	Value Literal `json:"value" yaml:"value"`
}

// validName matches configuration names usable both as attribute keys and
// as components of generated SSA names.
var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Validate checks that the configuration can be rendered.
func (c Configuration) Validate() error {
	if !validName.MatchString(c.Name) {
		return fmt.Errorf("invalid configuration name %q", c.Name)
	}
	if c.Value == "" {
		return fmt.Errorf("configuration %q has empty value", c.Name)
	}
	return nil
}
