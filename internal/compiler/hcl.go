package compiler

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/roach88/uppmon/internal/ir"
)

// hclFile represents the top-level structure of a monitor file for decoding.
type hclFile struct {
	Declaration string        `hcl:"declaration,optional"`
	System      string        `hcl:"system,optional"`
	Monitors    []*hclMonitor `hcl:"monitor,block"`
}

type hclMonitor struct {
	Name        string          `hcl:"name,label"`
	Kind        string          `hcl:"kind"`
	Terminal    string          `hcl:"terminal,optional"`
	Signals     []hclSignal     `hcl:"signal,block"`
	Alphabet    []hclAlphabet   `hcl:"alphabet,block"`
	Conversions []hclConversion `hcl:"conversion,block"`
}

type hclSignal struct {
	Name      string `hcl:"name"`
	Guard     string `hcl:"guard,optional"`
	Invariant string `hcl:"invariant,optional"`
}

type hclAlphabet struct {
	Edge   string `hcl:"edge"`
	Signal string `hcl:"signal"`
}

type hclConversion struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// ParseHCLFile parses a single HCL file and returns its definition.
// The parser caches files, so callers loading a directory should share one.
func ParseHCLFile(filePath string, parser *hclparse.Parser) (*ir.Definition, error) {
	f, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, formatDiagnostics(diags))
	}
	return decodeHCL(f, filePath)
}

// ParseHCL parses HCL source held in memory. filename is used in positions.
func ParseHCL(src []byte, filename string) (*ir.Definition, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %w", filename, formatDiagnostics(diags))
	}
	return decodeHCL(f, filename)
}

func decodeHCL(f *hcl.File, filename string) (*ir.Definition, error) {
	var parsed hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL %s: %w", filename, formatDiagnostics(diags))
	}

	def := &ir.Definition{
		Declaration: parsed.Declaration,
		System:      parsed.System,
		Monitors:    make([]ir.MonitorSpec, 0, len(parsed.Monitors)),
	}
	for _, m := range parsed.Monitors {
		if m.Kind == "" {
			return nil, &CompileError{Field: "monitor." + m.Name + ".kind", Message: "kind is required", Filename: filename}
		}
		def.Monitors = append(def.Monitors, m.spec())
	}
	return def, nil
}

func (m *hclMonitor) spec() ir.MonitorSpec {
	spec := ir.MonitorSpec{Name: m.Name, Kind: m.Kind, Terminal: m.Terminal}
	for _, s := range m.Signals {
		spec.Signals = append(spec.Signals, ir.ObservationSpec{Signal: s.Name, Guard: s.Guard, Invariant: s.Invariant})
	}
	for _, a := range m.Alphabet {
		spec.Alphabet = append(spec.Alphabet, ir.AlphabetEntry{Edge: a.Edge, Signal: a.Signal})
	}
	for _, c := range m.Conversions {
		spec.Conversions = append(spec.Conversions, ir.Conversion{From: c.From, To: c.To})
	}
	return spec
}

// Merge concatenates definitions loaded from several files. Declarations
// are joined with a newline; at most one file may set the system line.
func Merge(defs ...*ir.Definition) (*ir.Definition, error) {
	out := &ir.Definition{}
	for _, d := range defs {
		if d == nil {
			continue
		}
		if d.Declaration != "" {
			if out.Declaration != "" {
				out.Declaration += "\n"
			}
			out.Declaration += d.Declaration
		}
		if d.System != "" {
			if out.System != "" {
				return nil, &CompileError{Field: "system", Message: "system line is set in more than one file"}
			}
			out.System = d.System
		}
		out.Monitors = append(out.Monitors, d.Monitors...)
	}
	return out, nil
}
