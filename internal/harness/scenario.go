package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/uppmon/internal/ir"
)

// Scenario defines a synthesis test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Base is the first id handed out to the monitors.
	Base int `yaml:"base"`

	// Declaration is the document-level declaration.
	Declaration string `yaml:"declaration,omitempty"`

	// System replaces the generated system line when set.
	System string `yaml:"system,omitempty"`

	// Monitors are synthesized in order into one document.
	Monitors []ir.MonitorSpec `yaml:"monitors"`

	// Assertions validate the built document.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of the built document.
//
// Pointer fields distinguish "not checked" (nil) from "must be absent" ("").
type Assertion struct {
	// Type specifies the assertion type:
	// - "location_count": Template has exactly Count locations
	// - "transition_count": Template has exactly Count transitions
	// - "location": Location ID exists with the given name/invariant/committed
	// - "edge": An edge Source -> Target exists with the given labels
	// - "init": Template's init is ID
	// - "query": Document contains Formula
	// - "error": Building fails with Code
	Type string `yaml:"type"`

	Template string `yaml:"template,omitempty"`
	Count    int    `yaml:"count,omitempty"`

	ID        *int    `yaml:"id,omitempty"`
	Name      *string `yaml:"name,omitempty"`
	Invariant *string `yaml:"invariant,omitempty"`
	Committed *bool   `yaml:"committed,omitempty"`

	Source *int    `yaml:"source,omitempty"`
	Target *int    `yaml:"target,omitempty"`
	Guard  *string `yaml:"guard,omitempty"`
	Sync   *string `yaml:"sync,omitempty"`

	Formula string `yaml:"formula,omitempty"`

	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertLocationCount   = "location_count"
	AssertTransitionCount = "transition_count"
	AssertLocation        = "location"
	AssertEdge            = "edge"
	AssertInit            = "init"
	AssertQuery           = "query"
	AssertError           = "error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML held in memory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Base < 0 {
		return fmt.Errorf("base must be non-negative, got %d", s.Base)
	}
	if len(s.Monitors) == 0 {
		return fmt.Errorf("monitors list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, m := range s.Monitors {
		if m.Name == "" {
			return fmt.Errorf("monitors[%d]: name is required", i)
		}
		if m.Kind == "" {
			return fmt.Errorf("monitors[%d]: kind is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	needsTemplate := func() error {
		if a.Template == "" {
			return fmt.Errorf("assertions[%d]: template is required for %s", index, a.Type)
		}
		return nil
	}

	switch a.Type {
	case AssertLocationCount, AssertTransitionCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
		return needsTemplate()
	case AssertLocation, AssertInit:
		if a.ID == nil {
			return fmt.Errorf("assertions[%d]: id is required for %s", index, a.Type)
		}
		return needsTemplate()
	case AssertEdge:
		if a.Source == nil || a.Target == nil {
			return fmt.Errorf("assertions[%d]: source and target are required for edge", index)
		}
		return needsTemplate()
	case AssertQuery:
		if a.Formula == "" {
			return fmt.Errorf("assertions[%d]: formula is required for query", index)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
