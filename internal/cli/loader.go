package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/roach88/uppmon/internal/compiler"
	"github.com/roach88/uppmon/internal/ir"
)

// LoadResult contains the definition loaded from a specs directory.
type LoadResult struct {
	Definition *ir.Definition
	CUEFiles   []string
	HCLFiles   []string
}

// FileCount is the number of definition files that were read.
func (r *LoadResult) FileCount() int {
	return len(r.CUEFiles) + len(r.HCLFiles)
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code     string
	Message  string
	Filename string
	Line     int
	Column   int
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Filename, e.Line, e.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSpecs reads every .cue and .hcl file directly under dir and merges
// them into one definition. CUE files are unified into a single value;
// HCL files are decoded in name order and appended after the CUE monitors.
func LoadSpecs(dir string) (*LoadResult, error) {
	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, hclFiles, err := FindSpecFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 && len(hclFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE or HCL files found in %s", dir)}
	}

	result := &LoadResult{CUEFiles: cueFiles, HCLFiles: hclFiles}
	var defs []*ir.Definition

	if len(cueFiles) > 0 {
		def, err := loadCUE(dir, cueFiles)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	// One parser for the whole directory; it caches parsed files.
	parser := hclparse.NewParser()
	for _, path := range hclFiles {
		def, err := compiler.ParseHCLFile(path, parser)
		if err != nil {
			return nil, convertCompileError(err, ErrCodeLoadFailed)
		}
		defs = append(defs, def)
	}

	merged, err := compiler.Merge(defs...)
	if err != nil {
		return nil, convertCompileError(err, ErrCodeGeneric)
	}
	if len(merged.Monitors) == 0 {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "no monitors found in specs"}
	}
	result.Definition = merged
	return result, nil
}

// loadCUE unifies the given CUE files and compiles the result.
func loadCUE(dir string, files []string) (*ir.Definition, error) {
	args := make([]string, len(files))
	for i, f := range files {
		args[i] = filepath.Base(f)
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	// Check for load errors
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	// Build value from instance
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, convertCompileError(fmt.Errorf("building CUE value: %w", err), ErrCodeBuildFailed)
	}

	def, err := compiler.CompileDefinition(value)
	if err != nil {
		return nil, convertCompileError(err, ErrCodeGeneric)
	}
	return def, nil
}

// FindSpecFiles returns the .cue and .hcl files directly under dir,
// each list sorted by name. Subdirectories are not searched.
func FindSpecFiles(dir string) (cueFiles, hclFiles []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch filepath.Ext(e.Name()) {
		case ".cue":
			cueFiles = append(cueFiles, path)
		case ".hcl":
			hclFiles = append(hclFiles, path)
		}
	}
	sort.Strings(cueFiles)
	sort.Strings(hclFiles)
	return cueFiles, hclFiles, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, fallback string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:     MapFieldToErrorCode(compileErr.Field),
			Message:  err.Error(),
			Filename: compileErr.Filename,
			Line:     compileErr.Line,
			Column:   compileErr.Column,
		}
	}
	return &LoadError{Code: fallback, Message: err.Error()}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE or HCL files found
	ErrCodeLoadFailed  = "E004" // CUE load or HCL parse failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeStore       = "E008" // Build history error

	ErrCodeSyntax = "E010" // CUE or HCL syntax/type error
	ErrCodeField  = "E011" // Field missing or malformed
	ErrCodeSystem = "E012" // Conflicting system lines
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "cue", "hcl":
		return ErrCodeSyntax
	case "system":
		return ErrCodeSystem
	default:
		if field != "" {
			return ErrCodeField
		}
		return ErrCodeGeneric
	}
}
