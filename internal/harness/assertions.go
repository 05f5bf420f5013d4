package harness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/uppmon/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
//
// A build error fails every assertion except "error"; an "error"
// assertion fails when the build succeeded.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var msgs []string
	expectsError := false
	for _, a := range assertions {
		if a.Type == AssertError {
			expectsError = true
		}
	}
	if result.BuildError != nil && !expectsError {
		msgs = append(msgs, fmt.Sprintf("build failed: %v", result.BuildError))
		return msgs
	}

	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			msgs = append(msgs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return msgs
}

func evaluate(result *Result, a Assertion) error {
	if a.Type == AssertError {
		return assertError(result.BuildError, a)
	}
	if result.BuildError != nil {
		return &AssertionError{Type: a.Type, Expected: "a built document", Actual: result.BuildError.Error()}
	}
	if a.Type == AssertQuery {
		return assertQuery(result.Document, a)
	}

	tmpl, ok := findTemplate(result.Document, a.Template)
	if !ok {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("template %s", a.Template), Actual: "not in document"}
	}
	switch a.Type {
	case AssertLocationCount:
		return assertCount(a, len(tmpl.Locations), "locations")
	case AssertTransitionCount:
		return assertCount(a, len(tmpl.Transitions), "transitions")
	case AssertLocation:
		return assertLocation(tmpl, a)
	case AssertEdge:
		return assertEdge(tmpl, a)
	case AssertInit:
		if tmpl.Init != *a.ID {
			return &AssertionError{Type: a.Type, Expected: ir.RefID(*a.ID), Actual: ir.RefID(tmpl.Init)}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func findTemplate(doc ir.Document, name string) (ir.Template, bool) {
	for _, t := range doc.Templates {
		if t.Name == name {
			return t, true
		}
	}
	return ir.Template{}, false
}

func assertCount(a Assertion, got int, what string) error {
	if got != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d %s in %s", a.Count, what, a.Template),
			Actual:   fmt.Sprintf("%d", got),
		}
	}
	return nil
}

func assertLocation(tmpl ir.Template, a Assertion) error {
	loc, ok := tmpl.Location(*a.ID)
	if !ok {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("location %s in %s", ir.RefID(*a.ID), tmpl.Name), Actual: "missing"}
	}
	var diffs []string
	if a.Name != nil && loc.Name != *a.Name {
		diffs = append(diffs, fmt.Sprintf("name %q != %q", loc.Name, *a.Name))
	}
	if a.Invariant != nil && loc.Invariant != *a.Invariant {
		diffs = append(diffs, fmt.Sprintf("invariant %q != %q", loc.Invariant, *a.Invariant))
	}
	if a.Committed != nil && loc.Committed != *a.Committed {
		diffs = append(diffs, fmt.Sprintf("committed %t != %t", loc.Committed, *a.Committed))
	}
	if len(diffs) > 0 {
		return &AssertionError{Type: a.Type, Expected: describeLocation(a), Actual: strings.Join(diffs, ", ")}
	}
	return nil
}

func describeLocation(a Assertion) string {
	parts := []string{ir.RefID(*a.ID)}
	if a.Name != nil {
		parts = append(parts, "name="+*a.Name)
	}
	if a.Invariant != nil {
		parts = append(parts, "invariant="+*a.Invariant)
	}
	if a.Committed != nil {
		parts = append(parts, fmt.Sprintf("committed=%t", *a.Committed))
	}
	return strings.Join(parts, " ")
}

// assertEdge succeeds when any edge Source -> Target matches every label
// the assertion names.
func assertEdge(tmpl ir.Template, a Assertion) error {
	var seen []string
	for _, tr := range tmpl.Outgoing(*a.Source) {
		if tr.Target != *a.Target {
			continue
		}
		if (a.Guard == nil || tr.Guard == *a.Guard) && (a.Sync == nil || tr.Sync == *a.Sync) {
			return nil
		}
		seen = append(seen, fmt.Sprintf("guard=%q sync=%q", tr.Guard, tr.Sync))
	}
	actual := "no such edge"
	if len(seen) > 0 {
		actual = strings.Join(seen, "; ")
	}
	expected := fmt.Sprintf("%s -> %s", ir.RefID(*a.Source), ir.RefID(*a.Target))
	if a.Guard != nil {
		expected += fmt.Sprintf(" guard=%q", *a.Guard)
	}
	if a.Sync != nil {
		expected += fmt.Sprintf(" sync=%q", *a.Sync)
	}
	return &AssertionError{Type: a.Type, Expected: expected, Actual: actual}
}

func assertQuery(doc ir.Document, a Assertion) error {
	var formulas []string
	for _, q := range doc.Queries {
		if q.Formula == a.Formula {
			return nil
		}
		formulas = append(formulas, q.Formula)
	}
	return &AssertionError{Type: a.Type, Expected: a.Formula, Actual: fmt.Sprintf("queries %q", formulas)}
}

func assertError(err error, a Assertion) error {
	if err == nil {
		return &AssertionError{Type: a.Type, Expected: "build error " + a.Code, Actual: "build succeeded"}
	}
	var be *ir.BuildError
	if !errors.As(err, &be) {
		return &AssertionError{Type: a.Type, Expected: "build error " + a.Code, Actual: err.Error()}
	}
	if string(be.Code) != a.Code {
		return &AssertionError{Type: a.Type, Expected: "build error " + a.Code, Actual: string(be.Code)}
	}
	return nil
}
