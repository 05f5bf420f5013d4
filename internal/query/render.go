package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/uppmon/internal/ir"
)

// validIdentifier matches process and location names.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Render converts a formula to checker syntax.
// Returns an error for nil nodes, invalid identifiers, empty conjunctions
// and constraints that do not parse.
func Render(f Formula) (string, error) {
	if f == nil {
		return "", fmt.Errorf("cannot render nil formula")
	}

	switch q := f.(type) {
	case Exists:
		return unary("E<> ", q.P)
	case Potentially:
		return unary("E[] ", q.P)
	case Eventually:
		return unary("A<> ", q.P)
	case Always:
		return unary("A[] ", q.P)
	case LeadsTo:
		p, err := renderPredicate(q.P, false)
		if err != nil {
			return "", fmt.Errorf("leads-to left: %w", err)
		}
		r, err := renderPredicate(q.Q, false)
		if err != nil {
			return "", fmt.Errorf("leads-to right: %w", err)
		}
		return p + " --> " + r, nil
	default:
		return "", fmt.Errorf("unsupported formula type: %T", f)
	}
}

// MustRender is like Render but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRender(f Formula) string {
	s, err := Render(f)
	if err != nil {
		panic(err)
	}
	return s
}

func unary(prefix string, p Predicate) (string, error) {
	s, err := renderPredicate(p, false)
	if err != nil {
		return "", err
	}
	return prefix + s, nil
}

// renderPredicate renders p; nested wraps compound predicates in parentheses.
func renderPredicate(p Predicate, nested bool) (string, error) {
	if p == nil {
		return "", fmt.Errorf("cannot render nil predicate")
	}

	switch pred := p.(type) {
	case At:
		if !validIdentifier.MatchString(pred.Process) {
			return "", fmt.Errorf("invalid process name: %q", pred.Process)
		}
		if !validIdentifier.MatchString(pred.Location) {
			return "", fmt.Errorf("invalid location name: %q", pred.Location)
		}
		return pred.Process + "." + pred.Location, nil
	case Deadlock:
		return "deadlock", nil
	case Constraint:
		expr, err := ir.ParseExpr(pred.Expr)
		if err != nil {
			return "", fmt.Errorf("constraint: %w", err)
		}
		return wrap(expr.String(), nested && len(expr) > 1), nil
	case Not:
		inner, err := renderPredicate(pred.P, true)
		if err != nil {
			return "", err
		}
		return "not " + inner, nil
	case And:
		return join(pred.Predicates, " and ", nested)
	case Or:
		return join(pred.Predicates, " or ", nested)
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func join(preds []Predicate, sep string, nested bool) (string, error) {
	if len(preds) == 0 {
		return "", fmt.Errorf("empty%s", strings.TrimRight(sep, " "))
	}
	if len(preds) == 1 {
		return renderPredicate(preds[0], nested)
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		s, err := renderPredicate(p, true)
		if err != nil {
			return "", fmt.Errorf("operand %d: %w", i, err)
		}
		parts[i] = s
	}
	return wrap(strings.Join(parts, sep), nested), nil
}

func wrap(s string, parens bool) string {
	if parens {
		return "(" + s + ")"
	}
	return s
}
