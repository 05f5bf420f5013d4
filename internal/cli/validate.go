package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/uppmon/internal/compiler"
	"github.com/roach88/uppmon/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Monitors int                        `json:"monitors"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate monitor definitions without writing a document",
		Long: `Validate CUE and HCL monitor definitions without writing output.

Performs syntax checking and schema validation, then synthesizes every
monitor in memory so that alphabet matching and id collisions are
reported too. Faster feedback than build during development.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	loadResult, err := LoadSpecs(specsDir)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Found %d spec file(s) in %s", loadResult.FileCount(), specsDir)

	validationErrors := ValidateDefinition(loadResult.Definition, formatter)
	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	return outputValidateSuccess(formatter, len(loadResult.Definition.Monitors))
}

// ValidateDefinition runs schema validation and, when that passes, a trial
// synthesis. Synthesis failures are reported with their build error code.
func ValidateDefinition(def *ir.Definition, formatter *OutputFormatter) []compiler.ValidationError {
	for _, m := range def.Monitors {
		formatter.VerboseLog("Validating monitor: %s (%s)", m.Name, m.Kind)
	}

	if errs := compiler.Validate(def); len(errs) > 0 {
		return errs
	}

	if _, _, err := synthesize(def, 0, formatter); err != nil {
		field := "monitors"
		var be *ir.BuildError
		code := ErrCodeGeneric
		if errors.As(err, &be) {
			code = string(be.Code)
			if be.Template != "" {
				field = "monitor." + be.Template
			}
		}
		return []compiler.ValidationError{{Field: field, Message: err.Error(), Code: code}}
	}
	return nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, monitors int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Monitors: monitors})
	}

	fmt.Fprintf(formatter.Writer, "✓ All %d monitor(s) valid\n", monitors)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Errors: errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (spec failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (spec failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
