package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/uppmon/internal/compiler"
	"github.com/roach88/uppmon/internal/ir"
	"github.com/roach88/uppmon/internal/monitor"
	"github.com/roach88/uppmon/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Output   string // output file path; stdout when empty
	Base     int    // first location id
	Database string // build history database; history is skipped when empty

	// IDGenerator allows overriding the build id generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDGenerator store.IDGenerator
}

// BuildSummary describes a finished build.
type BuildSummary struct {
	DocumentHash string          `json:"document_hash"`
	Templates    []TemplateEntry `json:"templates"`
	Output       string          `json:"output,omitempty"`
	XML          string          `json:"xml,omitempty"`
}

// TemplateEntry is one synthesized template and the ids it owns.
type TemplateEntry struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Base  int    `json:"base"`
	Size  int    `json:"size"`
	Hash  string `json:"template_hash"`
	Spec  string `json:"-"`
	IDs   string `json:"ids"`
	Traps int    `json:"traps"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	return newBuildCommand(&BuildOptions{RootOptions: rootOpts})
}

func newBuildCommand(opts *BuildOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <specs-dir>",
		Short: "Synthesize monitors into an UPPAAL document",
		Long: `Synthesize every monitor defined in a specs directory into one UPPAAL
document.

Monitors are allocated consecutive id ranges starting at --base, in the
order they are defined. The document is written to --output, or to stdout
when no output file is given. With --db the build is recorded in the
build history.

Examples:
  uppmon build ./monitors
  uppmon build ./monitors -o system.xml --base 1
  uppmon build ./monitors -o system.xml --db ./uppmon.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().IntVar(&opts.Base, "base", 0, "first location id")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite build history")

	return cmd
}

func runBuild(opts *BuildOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	loadResult, err := LoadSpecs(specsDir)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Found %d spec file(s) in %s", loadResult.FileCount(), specsDir)

	def := loadResult.Definition
	if errs := compiler.Validate(def); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	doc, entries, err := synthesize(def, opts.Base, formatter)
	if err != nil {
		return outputBuildError(formatter, err)
	}

	xml, err := ir.MarshalDocument(doc)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("writing document: %v", err))
	}
	docHash, err := ir.DocumentHash(doc)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("hashing document: %v", err))
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, xml, 0644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		slog.Debug("document written", "path", opts.Output, "bytes", len(xml))
	}

	var buildID string
	if opts.Database != "" {
		buildID, err = recordBuild(commandContext(cmd), opts, specsDir, docHash, xml, entries)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStore, err.Error())
		}
	}

	summary := BuildSummary{DocumentHash: docHash, Templates: entries, Output: opts.Output}
	return outputBuildSuccess(formatter, summary, xml, buildID)
}

// synthesize composes every monitor of def into one document.
func synthesize(def *ir.Definition, base int, formatter *OutputFormatter) (ir.Document, []TemplateEntry, error) {
	var composerOpts []monitor.ComposerOption
	if def.Declaration != "" {
		composerOpts = append(composerOpts, monitor.WithGlobalDeclaration(def.Declaration))
	}
	if def.System != "" {
		composerOpts = append(composerOpts, monitor.WithSystem(def.System))
	}
	composer, err := monitor.NewComposer(base, composerOpts...)
	if err != nil {
		return ir.Document{}, nil, err
	}

	entries := make([]TemplateEntry, 0, len(def.Monitors))
	for _, spec := range def.Monitors {
		tmpl, r, err := composer.Add(spec)
		if err != nil {
			return ir.Document{}, nil, err
		}
		hash, err := ir.TemplateHash(tmpl)
		if err != nil {
			return ir.Document{}, nil, err
		}
		specJSON, err := ir.MarshalMonitorSpec(spec)
		if err != nil {
			return ir.Document{}, nil, err
		}
		formatter.VerboseLog("Synthesized %s (%s) ids %s", tmpl.Name, spec.Kind, r)
		slog.Debug("monitor synthesized", "monitor", tmpl.Name, "kind", spec.Kind, "ids", r.String())

		entries = append(entries, TemplateEntry{
			Name:  tmpl.Name,
			Kind:  spec.Kind,
			Base:  r.Base(),
			Size:  r.Size(),
			Hash:  hash,
			Spec:  string(specJSON),
			IDs:   r.String(),
			Traps: len(monitor.TrapNames(spec)),
		})
	}
	return composer.Document(), entries, nil
}

// recordBuild writes the build to the history database and returns its id.
func recordBuild(ctx context.Context, opts *BuildOptions, specsDir, docHash string, xml []byte, entries []TemplateEntry) (string, error) {
	slog.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	gen := opts.IDGenerator
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}
	b := store.Build{
		ID:           gen.Generate(),
		DocumentHash: docHash,
		SpecDir:      specsDir,
		Base:         opts.Base,
		XML:          string(xml),
		ToolVersion:  ir.ToolVersion,
		IRVersion:    ir.SchemaVersion,
	}
	for _, e := range entries {
		b.Templates = append(b.Templates, store.BuildTemplate{
			Name:         e.Name,
			Kind:         e.Kind,
			Base:         e.Base,
			Size:         e.Size,
			TemplateHash: e.Hash,
			SpecJSON:     e.Spec,
		})
	}

	seq, err := st.WriteBuild(ctx, b)
	if err != nil {
		return "", err
	}
	slog.Info("build recorded", "id", b.ID, "seq", seq)
	return b.ID, nil
}

// outputBuildSuccess prints the document or a summary of where it went.
func outputBuildSuccess(formatter *OutputFormatter, summary BuildSummary, xml []byte, buildID string) error {
	if formatter.Format == "json" {
		if summary.Output == "" {
			summary.XML = string(xml)
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: summary, BuildID: buildID})
	}

	// Without an output file the document itself is the output.
	if summary.Output == "" {
		_, err := formatter.Writer.Write(xml)
		return err
	}

	fmt.Fprintf(formatter.Writer, "✓ Built %d template(s)\n\n", len(summary.Templates))
	for _, e := range summary.Templates {
		fmt.Fprintf(formatter.Writer, "  %s: %s, ids %s, %d trap(s)\n", e.Name, e.Kind, e.IDs, e.Traps)
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "Wrote %s (%s)\n", summary.Output, shortHash(summary.DocumentHash))
	if buildID != "" {
		fmt.Fprintf(formatter.Writer, "Recorded build %s\n", buildID)
	}
	return nil
}

// outputBuildError reports a synthesis failure. Synthesis errors are spec
// failures (exit code 1).
func outputBuildError(formatter *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	var details interface{}
	var be *ir.BuildError
	if errors.As(err, &be) {
		code = string(be.Code)
		details = map[string]interface{}{"template": be.Template, "id": be.ID}
	}
	_ = formatter.Error(code, err.Error(), details)
	return WrapExitError(ExitFailure, "build failed", err)
}

// outputLoadError reports a load failure (exit code 2).
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		msg := loadErr.Message
		if loadErr.Line > 0 {
			msg = fmt.Sprintf("%s:%d:%d: %s", loadErr.Filename, loadErr.Line, loadErr.Column, msg)
		}
		return outputCommandError(formatter, loadErr.Code, msg)
	}
	return outputCommandError(formatter, ErrCodeGeneric, err.Error())
}

// outputCommandError outputs a single command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
