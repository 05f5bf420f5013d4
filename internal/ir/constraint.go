package ir

import (
	"regexp"
	"strings"
)

// Comparator is a relational operator of a clock or data constraint.
type Comparator string

const (
	LT Comparator = "<"
	LE Comparator = "<="
	EQ Comparator = "=="
	NE Comparator = "!="
	GE Comparator = ">="
	GT Comparator = ">"
)

// StrictUpper turns a non-strict upper bound into a strict one (<= becomes <).
// Every other operator is returned unchanged.
func (c Comparator) StrictUpper() Comparator {
	if c == LE {
		return LT
	}
	return c
}

// StrictLower turns a non-strict lower bound into a strict one (>= becomes >).
// Every other operator is returned unchanged.
func (c Comparator) StrictLower() Comparator {
	if c == GE {
		return GT
	}
	return c
}

// Constraint is a single comparison "Left Op Right".
type Constraint struct {
	Left  string
	Op    Comparator
	Right string
}

// String renders the constraint without surrounding spaces around Op.
func (c Constraint) String() string {
	return c.Left + string(c.Op) + c.Right
}

var (
	conjunction = regexp.MustCompile(`&&|\band\b`)
	disjunction = regexp.MustCompile(`\|\||\bor\b`)
)

// Expr is a conjunction of constraints joined with "&&".
type Expr []Constraint

// String renders the conjunction.
func (e Expr) String() string {
	parts := make([]string, len(e))
	for i, c := range e {
		parts[i] = c.String()
	}
	return strings.Join(parts, " && ")
}

// Map returns a copy of e with fn applied to every comparator.
func (e Expr) Map(fn func(Comparator) Comparator) Expr {
	out := make(Expr, len(e))
	for i, c := range e {
		out[i] = Constraint{Left: c.Left, Op: fn(c.Op), Right: c.Right}
	}
	return out
}

// ParseExpr parses a conjunction such as "gclk>=10 && x<3" or
// "gclk>=10 and x<3". Disjunctions are rejected; each conjunct must hold
// exactly one comparator.
func ParseExpr(s string) (Expr, error) {
	if strings.TrimSpace(s) == "" {
		return nil, Errorf(ErrCodeBadConstraint, "empty constraint")
	}
	if disjunction.MatchString(s) {
		return nil, Errorf(ErrCodeBadConstraint, "disjunction is not supported in %q", s)
	}
	var expr Expr
	for _, part := range conjunction.Split(s, -1) {
		c, err := ParseConstraint(part)
		if err != nil {
			return nil, err
		}
		expr = append(expr, c)
	}
	return expr, nil
}

// ParseConstraint parses one comparison. The operator is located by
// scanning tokens, so identifiers that merely contain "le" or "ge" are
// never mistaken for operators.
func ParseConstraint(s string) (Constraint, error) {
	raw := strings.TrimSpace(s)
	idx, op := -1, Comparator("")
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '<', '>', '=', '!':
		default:
			continue
		}
		next := byte(0)
		if i+1 < len(raw) {
			next = raw[i+1]
		}
		var found Comparator
		switch {
		case raw[i] == '<' && next == '=':
			found = LE
		case raw[i] == '>' && next == '=':
			found = GE
		case raw[i] == '=' && next == '=':
			found = EQ
		case raw[i] == '!' && next == '=':
			found = NE
		case raw[i] == '<':
			found = LT
		case raw[i] == '>':
			found = GT
		default:
			// "=" alone is an assignment and "!" alone is negation
			return Constraint{}, Errorf(ErrCodeBadConstraint, "unexpected %q in %q", raw[i], raw)
		}
		if idx >= 0 {
			return Constraint{}, Errorf(ErrCodeBadConstraint, "more than one comparator in %q", raw)
		}
		idx, op = i, found
		i += len(found) - 1
	}
	if idx < 0 {
		return Constraint{}, Errorf(ErrCodeBadConstraint, "no comparator in %q", raw)
	}
	left := strings.TrimSpace(raw[:idx])
	right := strings.TrimSpace(raw[idx+len(op):])
	if left == "" || right == "" {
		return Constraint{}, Errorf(ErrCodeBadConstraint, "missing operand in %q", raw)
	}
	return Constraint{Left: left, Op: op, Right: right}, nil
}

// TightenUpper parses s and makes every upper bound strict.
// An empty s stays empty.
func TightenUpper(s string) (string, error) {
	return tighten(s, Comparator.StrictUpper)
}

// TightenLower parses s and makes every lower bound strict.
// An empty s stays empty.
func TightenLower(s string) (string, error) {
	return tighten(s, Comparator.StrictLower)
}

func tighten(s string, fn func(Comparator) Comparator) (string, error) {
	if s == "" {
		return "", nil
	}
	expr, err := ParseExpr(s)
	if err != nil {
		return "", err
	}
	return expr.Map(fn).String(), nil
}
