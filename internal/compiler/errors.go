package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/hashicorp/hcl/v2"
)

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field    string
	Message  string
	Filename string
	Line     int
	Column   int
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Filename, e.Line, e.Column,
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func cueError(field, message string, pos token.Pos) *CompileError {
	e := &CompileError{Field: field, Message: message}
	if pos.IsValid() {
		e.Filename, e.Line, e.Column = pos.Filename(), pos.Line(), pos.Column()
	}
	return e
}

func hclError(field, message string, rng *hcl.Range) *CompileError {
	e := &CompileError{Field: field, Message: message}
	if rng != nil {
		e.Filename, e.Line, e.Column = rng.Filename, rng.Start.Line, rng.Start.Column
	}
	return e
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return cueError("cue", firstErr.Error(), positions[0])
	}

	return err
}

// formatDiagnostics converts the first HCL error diagnostic.
func formatDiagnostics(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		msg := d.Summary
		if d.Detail != "" {
			msg += "; " + d.Detail
		}
		return hclError("hcl", msg, d.Subject)
	}
	return diags
}
