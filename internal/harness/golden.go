package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/uppmon/internal/ir"
)

// RunWithGolden executes a scenario and compares the written document
// against a golden file. The golden file is stored in
// testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot run, fails its assertions, or its
// build failed (a failed build has no document to compare).
// Test failure (via goldie) occurs if the XML doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %v", scenario.Name, result.Errors)
	}
	if result.BuildError != nil {
		return fmt.Errorf("scenario %s has no document: %w", scenario.Name, result.BuildError)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the given result's document against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	xml, err := ir.MarshalDocument(result.Document)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, xml)
	return nil
}
