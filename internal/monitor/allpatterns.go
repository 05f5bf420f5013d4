package monitor

import (
	"errors"
	"fmt"

	"github.com/roach88/uppmon/internal/builder"
	"github.com/roach88/uppmon/internal/ir"
)

// AllPatterns synthesizes a chain that rejects every unexpected signal.
//
// The main chain is Chain's shape without guards or invariants. For each
// step i and each alphabet entry whose signal (normalized to the receive
// marker) differs from signals[i].Signal, one trap location and one edge
// into it are added. The j-th such entry of step i gets id
//
//	base + n + 1 + i·(k-1) + j
//
// where k = len(alphabet) and j restarts at 0 per step, skipping the
// matching entry. Every chain signal must match exactly one entry;
// otherwise the grid above would overlap and an error is returned.
func AllPatterns(name string, signals []ir.ObservationSpec, base int, alphabet []ir.AlphabetEntry, opts ...Option) (ir.Template, error) {
	cfg := newConfig(DefaultTerminal, opts)
	if base < 0 {
		return ir.Template{}, ir.Errorf(ir.ErrCodeInvalidInput, "base id must be non-negative, got %d", base).WithTemplate(name)
	}

	entries, err := normalizeAlphabet(alphabet)
	if err != nil {
		return ir.Template{}, withTemplate(err, name)
	}
	expected, err := matchAlphabet(signals, entries)
	if err != nil {
		return ir.Template{}, withTemplate(err, name)
	}

	n, k := len(signals), len(entries)
	locations := make([]ir.Location, 0, AllPatternsSize(n, k))
	transitions := make([]ir.Transition, 0, n*k)

	for i := range signals {
		loc, err := builder.Location(base+i, StepX*i, ChainY)
		if err != nil {
			return ir.Template{}, err
		}
		locations = append(locations, loc)
	}
	tail, err := builder.Location(base+n, StepX*n, ChainY, builder.WithName(cfg.terminal))
	if err != nil {
		return ir.Template{}, err
	}
	locations = append(locations, tail)

	for i, s := range signals {
		tr, err := builder.Transition(base+i, base+i+1, StepX*i+LabelOffsetX, ChainY, builder.WithSync(s.Signal))
		if err != nil {
			return ir.Template{}, err
		}
		transitions = append(transitions, tr)
	}

	// trap edges go after all main edges, trap locations after the tail
	var trapEdges []ir.Transition
	for i := range signals {
		j := 0
		for e, entry := range entries {
			if e == expected[i] {
				continue
			}
			trapID := base + n + 1 + i*(k-1) + j

			trap, err := builder.Location(trapID, StepX*i, PatternTrapY+PatternStepY*j, builder.WithName(ErrName(i, j)))
			if err != nil {
				return ir.Template{}, err
			}
			locations = append(locations, trap)

			tr, err := builder.Transition(base+i, trapID, StepX*i+LabelOffsetX, ChainY, builder.WithSync(entry.String()))
			if err != nil {
				return ir.Template{}, err
			}
			trapEdges = append(trapEdges, tr)
			j++
		}
	}
	transitions = append(transitions, trapEdges...)

	return builder.Template(name, locations, base, transitions,
		builder.WithParameter(cfg.parameter), builder.WithDeclaration(cfg.declaration))
}

// normalizeAlphabet parses every entry and maps it to the receive marker.
func normalizeAlphabet(alphabet []ir.AlphabetEntry) ([]ir.Signal, error) {
	if len(alphabet) == 0 {
		return nil, ir.Errorf(ir.ErrCodeBadAlphabet, "alphabet is empty")
	}
	edges := make(map[string]bool, len(alphabet))
	out := make([]ir.Signal, len(alphabet))
	for i, entry := range alphabet {
		if edges[entry.Edge] {
			return nil, ir.Errorf(ir.ErrCodeBadAlphabet, "edge %q appears twice", entry.Edge)
		}
		edges[entry.Edge] = true

		sig, err := ir.ParseSignal(entry.Signal)
		if err != nil {
			return nil, &ir.BuildError{
				Code:    ir.ErrCodeBadAlphabet,
				Message: fmt.Sprintf("edge %q has no valid signal", entry.Edge),
				Err:     err,
			}
		}
		out[i] = sig.Normalize()
	}
	return out, nil
}

// matchAlphabet returns, for each step, the index of the single alphabet
// entry equal to the step's signal.
func matchAlphabet(signals []ir.ObservationSpec, entries []ir.Signal) ([]int, error) {
	expected := make([]int, len(signals))
	for i, s := range signals {
		sig, err := ir.ParseSignal(s.Signal)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		sig = sig.Normalize()

		expected[i] = -1
		for e, entry := range entries {
			if entry != sig {
				continue
			}
			if expected[i] >= 0 {
				return nil, ir.Errorf(ir.ErrCodeAmbiguousSignal, "observation %d signal %q matches alphabet entries %d and %d", i, s.Signal, expected[i], e)
			}
			expected[i] = e
		}
		if expected[i] < 0 {
			return nil, ir.Errorf(ir.ErrCodeUnmatchedSignal, "observation %d signal %q is not in the alphabet", i, s.Signal)
		}
	}
	return expected, nil
}

// ErrName is the name of the all-patterns trap for step i, slot j.
func ErrName(i, j int) string {
	return fmt.Sprintf("err%d_%d", i, j)
}

// withTemplate prefixes err with the template name.
func withTemplate(err error, name string) error {
	var be *ir.BuildError
	if errors.As(err, &be) && be == err && be.Template == "" {
		return be.WithTemplate(name)
	}
	return fmt.Errorf("%s: %w", name, err)
}
