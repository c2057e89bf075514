package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cloudycalc/internal/vars"
)

// Script is a batch of calculator inputs.
type Script struct {
	// Name identifies the script in transcripts.
	Name string `yaml:"name"`

	// Description explains what the script computes.
	Description string `yaml:"description,omitempty"`

	// Inputs are fed to the calculator in order. Entries are usually
	// strings; any other YAML scalar is passed through as is and rejected
	// by the calculator.
	Inputs []any `yaml:"inputs"`

	// Expect holds the expected output text for each input. When present
	// it must have one entry per input.
	Expect []string `yaml:"expect,omitempty"`

	// Variables are expected final variable values (subset match).
	Variables map[string]any `yaml:"variables,omitempty"`
}

// Load reads and parses a script YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a script from YAML.
func Parse(data []byte) (*Script, error) {
	// Reject unknown fields (catches typos like "input:" vs "inputs:")
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// validate checks that required fields are present and consistent.
func validate(s *Script) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Inputs) == 0 {
		return fmt.Errorf("inputs list is required and must be non-empty")
	}

	if len(s.Expect) > 0 && len(s.Expect) != len(s.Inputs) {
		return fmt.Errorf("expect has %d entries for %d inputs", len(s.Expect), len(s.Inputs))
	}

	for name := range s.Variables {
		if !vars.ValidName(name) {
			return fmt.Errorf("variables: invalid variable name %q", name)
		}
	}

	return nil
}
