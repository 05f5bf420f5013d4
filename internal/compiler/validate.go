package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/uppmon/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// MonitorSpec errors (E101-E111)
	ErrInvalidName         = "E101" // name is not an identifier
	ErrUnknownKind         = "E102" // kind is not one of ir.ValidKinds
	ErrInvalidSignal       = "E103" // signal lacks a direction marker
	ErrInvalidGuard        = "E104" // guard cannot be parsed
	ErrInvalidInvariant    = "E105" // invariant cannot be parsed
	ErrAlphabetRequired    = "E106" // all_patterns needs a non-empty alphabet
	ErrInvalidAlphabet     = "E107" // alphabet entry invalid or edge repeated
	ErrSignalNotInAlphabet = "E108" // chain signal matches zero or several entries
	ErrInvalidConversion   = "E109" // conversion channel invalid or source repeated
	ErrFieldNotAllowed     = "E110" // field does not apply to the kind
	ErrDuplicateName       = "E111" // two monitors share a name
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate validates compiled IR against schema rules.
// Returns all errors found (does not fail-fast).
// Supports MonitorSpec and Definition.
func Validate(v any) []ValidationError {
	switch spec := v.(type) {
	case *ir.MonitorSpec:
		return validateMonitor(spec, "")
	case ir.MonitorSpec:
		return validateMonitor(&spec, "")
	case *ir.Definition:
		return validateDefinition(spec)
	case ir.Definition:
		return validateDefinition(&spec)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateDefinition(def *ir.Definition) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool)
	for i := range def.Monitors {
		m := &def.Monitors[i]
		prefix := fmt.Sprintf("monitors[%d].", i)

		// E111: duplicate monitor name
		if names[m.Name] {
			errs = append(errs, ValidationError{
				Field:   prefix + "name",
				Message: fmt.Sprintf("duplicate monitor name: %q", m.Name),
				Code:    ErrDuplicateName,
			})
		}
		names[m.Name] = true

		errs = append(errs, validateMonitor(m, prefix)...)
	}
	return errs
}

// validateMonitor validates one monitor. prefix is prepended to every field path.
func validateMonitor(spec *ir.MonitorSpec, prefix string) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:   prefix + field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		})
	}

	// E101: name must be usable as a process identifier
	if !identifier.MatchString(spec.Name) {
		add("name", ErrInvalidName, "monitor name %q is not an identifier", spec.Name)
	}
	if spec.Terminal != "" && !identifier.MatchString(spec.Terminal) {
		add("terminal", ErrInvalidName, "terminal %q is not an identifier", spec.Terminal)
	}

	// E102: kind
	if !ir.ValidKinds[spec.Kind] {
		add("kind", ErrUnknownKind, "unknown kind %q", spec.Kind)
		return errs
	}

	// E110: fields that the kind ignores
	if spec.Kind != ir.KindAllPatterns && len(spec.Alphabet) > 0 {
		add("alphabet", ErrFieldNotAllowed, "alphabet applies only to %s monitors", ir.KindAllPatterns)
	}
	if spec.Kind == ir.KindConverter {
		if len(spec.Signals) > 0 {
			add("signals", ErrFieldNotAllowed, "converters take conversions, not signals")
		}
		if spec.Terminal != "" {
			add("terminal", ErrFieldNotAllowed, "converters have no terminal location")
		}
		return append(errs, validateConversions(spec.Conversions, prefix)...)
	}
	if len(spec.Conversions) > 0 {
		add("conversions", ErrFieldNotAllowed, "conversions apply only to %s monitors", ir.KindConverter)
	}

	tightens := spec.Kind == ir.KindStrict || spec.Kind == ir.KindInputStrict
	for i, s := range spec.Signals {
		field := fmt.Sprintf("signals[%d]", i)

		// E103: direction marker
		if _, err := ir.ParseSignal(s.Signal); err != nil {
			add(field+".signal", ErrInvalidSignal, "%v", err)
		}
		if !tightens {
			continue
		}
		// E104/E105: strict traps tighten every invariant and every guard
		// but the last
		if s.Guard != "" && i < len(spec.Signals)-1 {
			if _, err := ir.ParseExpr(s.Guard); err != nil {
				add(field+".guard", ErrInvalidGuard, "%v", err)
			}
		}
		if s.Invariant != "" {
			if _, err := ir.ParseExpr(s.Invariant); err != nil {
				add(field+".invariant", ErrInvalidInvariant, "%v", err)
			}
		}
	}

	if spec.Kind == ir.KindAllPatterns {
		errs = append(errs, validateAlphabet(spec, prefix)...)
	}
	return errs
}

func validateAlphabet(spec *ir.MonitorSpec, prefix string) []ValidationError {
	var errs []ValidationError

	// E106: alphabet required
	if len(spec.Alphabet) == 0 {
		return []ValidationError{{
			Field:   prefix + "alphabet",
			Message: "all_patterns monitors need a non-empty alphabet",
			Code:    ErrAlphabetRequired,
		}}
	}

	// E107: entries are signals, edges unique
	edges := make(map[string]bool)
	normalized := make([]ir.Signal, 0, len(spec.Alphabet))
	valid := true
	for i, entry := range spec.Alphabet {
		field := fmt.Sprintf("%salphabet[%d]", prefix, i)
		if edges[entry.Edge] {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("duplicate edge %q", entry.Edge), Code: ErrInvalidAlphabet})
		}
		edges[entry.Edge] = true

		sig, err := ir.ParseSignal(entry.Signal)
		if err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error(), Code: ErrInvalidAlphabet})
			valid = false
			continue
		}
		normalized = append(normalized, sig.Normalize())
	}
	if !valid {
		return errs
	}

	// E108: each chain signal matches exactly one entry
	for i, s := range spec.Signals {
		sig, err := ir.ParseSignal(s.Signal)
		if err != nil {
			continue // reported as E103
		}
		matches := 0
		for _, entry := range normalized {
			if entry == sig.Normalize() {
				matches++
			}
		}
		if matches != 1 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%ssignals[%d].signal", prefix, i),
				Message: fmt.Sprintf("signal %q matches %d alphabet entries, want exactly 1", s.Signal, matches),
				Code:    ErrSignalNotInAlphabet,
			})
		}
	}
	return errs
}

func validateConversions(conversions []ir.Conversion, prefix string) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i, c := range conversions {
		field := fmt.Sprintf("%sconversions[%d]", prefix, i)
		from, to := strings.TrimSpace(c.From), strings.TrimSpace(c.To)

		// E109: channel names and unique sources
		if !identifier.MatchString(from) || !identifier.MatchString(to) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("conversion %q -> %q needs bare channel names", c.From, c.To),
				Code:    ErrInvalidConversion,
			})
			continue
		}
		if seen[from] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("channel %q is converted twice", from),
				Code:    ErrInvalidConversion,
			})
		}
		seen[from] = true
	}
	return errs
}
