package ir

import (
	"errors"
	"fmt"
)

// BuildError represents a caller-input error detected while constructing
// a fragment.
//
// Build errors include:
//   - Malformed references: a transition or init pointing at a missing location
//   - Id collisions: two locations sharing an id inside one document
//   - Malformed alphabets: empty alphabets or entries that are not signals
//   - Malformed constraints: guards or invariants that cannot be parsed
//
// None of them are transient; retrying with the same input fails the same way.
type BuildError struct {
	// Code identifies the error category.
	Code BuildErrorCode

	// Message is a human-readable description.
	Message string

	// Template names the affected template, when known.
	Template string

	// ID is the offending location id, when the error concerns one.
	ID int

	// Err is the underlying cause, if any.
	Err error
}

// BuildErrorCode categorizes build errors.
type BuildErrorCode string

const (
	// ErrCodeInvalidInput indicates an argument outside its domain (negative id, empty name).
	ErrCodeInvalidInput BuildErrorCode = "INVALID_INPUT"

	// ErrCodeDanglingReference indicates a transition endpoint with no matching location.
	ErrCodeDanglingReference BuildErrorCode = "DANGLING_REFERENCE"

	// ErrCodeMissingInit indicates an init id with no matching location.
	ErrCodeMissingInit BuildErrorCode = "MISSING_INIT"

	// ErrCodeDuplicateID indicates two locations of one template sharing an id.
	ErrCodeDuplicateID BuildErrorCode = "DUPLICATE_ID"

	// ErrCodeIDCollision indicates two templates of one document sharing an id.
	ErrCodeIDCollision BuildErrorCode = "ID_COLLISION"

	// ErrCodeDuplicateTemplate indicates two templates of one document sharing a name.
	ErrCodeDuplicateTemplate BuildErrorCode = "DUPLICATE_TEMPLATE"

	// ErrCodeBadAlphabet indicates an empty alphabet or an entry that is not a signal.
	ErrCodeBadAlphabet BuildErrorCode = "BAD_ALPHABET"

	// ErrCodeUnmatchedSignal indicates a chain signal absent from the alphabet.
	ErrCodeUnmatchedSignal BuildErrorCode = "UNMATCHED_SIGNAL"

	// ErrCodeAmbiguousSignal indicates a chain signal matching several alphabet entries.
	ErrCodeAmbiguousSignal BuildErrorCode = "AMBIGUOUS_SIGNAL"

	// ErrCodeBadConstraint indicates a guard or invariant that cannot be parsed.
	ErrCodeBadConstraint BuildErrorCode = "BAD_CONSTRAINT"

	// ErrCodeBadSignal indicates a synchronisation label without a direction marker.
	ErrCodeBadSignal BuildErrorCode = "BAD_SIGNAL"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Template != "" {
		msg = fmt.Sprintf("%s (template=%s)", msg, e.Template)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Errorf creates a BuildError with a formatted message.
func Errorf(code BuildErrorCode, format string, args ...any) *BuildError {
	return &BuildError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithTemplate returns a copy of e naming the affected template.
func (e *BuildError) WithTemplate(name string) *BuildError {
	c := *e
	c.Template = name
	return &c
}

// WithID returns a copy of e naming the offending location id.
func (e *BuildError) WithID(id int) *BuildError {
	c := *e
	c.ID = id
	return &c
}

// IsCode reports whether err is, or wraps, a BuildError with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code BuildErrorCode) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
