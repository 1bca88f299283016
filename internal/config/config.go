// Package config loads the solver's tuning knobs from a YAML file, the
// same "plain struct tags, yaml.Unmarshal, validate required fields"
// shape as the teacher's internal/eval_harness.LoadSpec.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config tunes the constraint solver and generalizer without touching
// code: how hard to keep trying before giving up, which classes get
// defaulted and in what order, and whether the monomorphism restriction
// applies even where the algorithm would otherwise exempt it.
type Config struct {
	// MaxSolverIterations bounds the worklist's canonicalize/interact/
	// top-react loop — a runaway defaulting cycle or a buggy instance set
	// fails with a diagnostic instead of spinning forever.
	MaxSolverIterations int `yaml:"max_solver_iterations"`

	// DefaultingTypes lists, in preference order, the concrete types tried
	// against an ambiguous, otherwise-unresolved numeric class predicate
	// at the top level (the Haskell "default (Integer, Double)" rule,
	// generalized to whatever classes/types this dialect defaults).
	DefaultingTypes []string `yaml:"defaulting_types"`

	// SuppressMonomorphismAtTopLevel forces the monomorphism restriction
	// to apply even to top-level signature-less pattern bindings, which
	// the algorithm exempts by default.
	SuppressMonomorphismAtTopLevel bool `yaml:"suppress_monomorphism_at_top_level"`

	// MaxSkolemDepth is loaded and defaulted like the other fields, but no
	// checker component reads it: skolemization depth is not bounded and
	// no depth-limit diagnostic is reported.
	MaxSkolemDepth int `yaml:"max_skolem_depth"`
}

// Default returns the solver's out-of-the-box tuning: a generous but
// finite iteration ceiling, Haskell's own default-type preference order,
// the top-level monomorphism exemption left in place, and a skolem depth
// deep enough for any signature a person would actually write.
func Default() *Config {
	return &Config{
		MaxSolverIterations:            1000,
		DefaultingTypes:                []string{"Integer", "Double"},
		SuppressMonomorphismAtTopLevel: false,
		MaxSkolemDepth:                 64,
	}
}

// Load reads a Config from a YAML file, filling in any field the file
// omits from Default() first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if cfg.MaxSolverIterations <= 0 {
		return nil, fmt.Errorf("config: max_solver_iterations must be positive, got %d", cfg.MaxSolverIterations)
	}
	if len(cfg.DefaultingTypes) == 0 {
		return nil, fmt.Errorf("config: defaulting_types must not be empty")
	}

	return cfg, nil
}
