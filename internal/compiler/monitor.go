package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/uppmon/internal/ir"
)

// CompileMonitor parses a CUE value into a MonitorSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the monitor struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`monitor: Output: { kind: "strict", signals: [...] }`)
//	spec, err := CompileMonitor(v.LookupPath(cue.ParsePath("monitor.Output")))
func CompileMonitor(v cue.Value) (*ir.MonitorSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.MonitorSpec{}

	// Monitor name comes from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, cueError("kind", "kind is required", v.Pos())
	}
	kind, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	spec.Kind = kind

	if spec.Terminal, err = optionalString(v, "terminal"); err != nil {
		return nil, err
	}

	spec.Signals, err = parseSignals(v)
	if err != nil {
		return nil, err
	}
	spec.Alphabet, err = parseAlphabet(v)
	if err != nil {
		return nil, err
	}
	spec.Conversions, err = parseConversions(v)
	if err != nil {
		return nil, err
	}

	return spec, nil
}

// CompileDefinition extracts the top-level declaration, system line and
// every monitor of a built CUE value. It stops at the first bad monitor.
func CompileDefinition(v cue.Value) (*ir.Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	def := &ir.Definition{}

	var err error
	if def.Declaration, err = optionalString(v, "declaration"); err != nil {
		return nil, err
	}
	if def.System, err = optionalString(v, "system"); err != nil {
		return nil, err
	}

	monitorsVal := v.LookupPath(cue.ParsePath("monitor"))
	if !monitorsVal.Exists() {
		return def, nil
	}
	iter, err := monitorsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		spec, err := CompileMonitor(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("monitor.%s: %w", iter.Label(), err)
		}
		def.Monitors = append(def.Monitors, *spec)
	}
	return def, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// parseSignals reads the signals list. Each element is either a bare
// synchronisation label or a struct {signal, guard?, invariant?}.
func parseSignals(v cue.Value) ([]ir.ObservationSpec, error) {
	var signals []ir.ObservationSpec

	listVal := v.LookupPath(cue.ParsePath("signals"))
	if !listVal.Exists() {
		return signals, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		item := iter.Value()

		// Try as string first
		if s, err := item.String(); err == nil {
			signals = append(signals, ir.ObservationSpec{Signal: s})
			continue
		}

		sigVal := item.LookupPath(cue.ParsePath("signal"))
		if !sigVal.Exists() {
			return nil, cueError("signals", "must be a string or object with signal field", item.Pos())
		}
		var obs ir.ObservationSpec
		if obs.Signal, err = sigVal.String(); err != nil {
			return nil, formatCUEError(err)
		}
		if obs.Guard, err = optionalString(item, "guard"); err != nil {
			return nil, err
		}
		if obs.Invariant, err = optionalString(item, "invariant"); err != nil {
			return nil, err
		}
		signals = append(signals, obs)
	}
	return signals, nil
}

// parseAlphabet reads the alphabet struct {edge: "sig!"} in field order.
func parseAlphabet(v cue.Value) ([]ir.AlphabetEntry, error) {
	var entries []ir.AlphabetEntry

	alphaVal := v.LookupPath(cue.ParsePath("alphabet"))
	if !alphaVal.Exists() {
		return entries, nil
	}
	iter, err := alphaVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		sig, err := iter.Value().String()
		if err != nil {
			return nil, cueError("alphabet."+iter.Label(), "alphabet entries must be strings", iter.Value().Pos())
		}
		entries = append(entries, ir.AlphabetEntry{Edge: iter.Label(), Signal: sig})
	}
	return entries, nil
}

// parseConversions reads the conversions struct {from: to} in field order.
func parseConversions(v cue.Value) ([]ir.Conversion, error) {
	var conversions []ir.Conversion

	convVal := v.LookupPath(cue.ParsePath("conversions"))
	if !convVal.Exists() {
		return conversions, nil
	}
	iter, err := convVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		to, err := iter.Value().String()
		if err != nil {
			return nil, cueError("conversions."+iter.Label(), "conversion targets must be strings", iter.Value().Pos())
		}
		conversions = append(conversions, ir.Conversion{From: iter.Label(), To: to})
	}
	return conversions, nil
}
