package monitor

import (
	"fmt"
	"strconv"

	"github.com/roach88/uppmon/internal/builder"
	"github.com/roach88/uppmon/internal/ir"
)

// chainMode selects what a chain carries on its trap edges.
type chainMode int

const (
	modePlain chainMode = iota
	// modeStrictSync: traps fire on the expected signal.
	modeStrictSync
	// modeStrictSilent: traps fire without synchronisation (generator side).
	modeStrictSilent
)

// Chain synthesizes the plain monitor "observe signals[0], ..., signals[n-1],
// then stay in the terminal location".
//
// Ids base..base+n are allocated: location i carries signals[i].Invariant and
// transition i (base+i -> base+i+1) carries signals[i].Guard and Signal.
// Labels are passed through verbatim.
func Chain(name string, signals []ir.ObservationSpec, base int, opts ...Option) (ir.Template, error) {
	cfg := newConfig(DefaultTerminal, opts)
	return buildChain(name, signals, base, cfg, modePlain)
}

// StrictChain synthesizes Chain plus one trap per step.
//
// Trap i has id base+n+1+i, sits at (300·i, -200), is named "fail<i>" and
// carries signals[i].Invariant with its upper bounds made strict. The edge
// into trap i fires on signals[i].Signal; for i > 0 it is guarded by
// signals[i-1].Guard with its lower bounds made strict, and for i = 0 it is
// unguarded.
func StrictChain(name string, signals []ir.ObservationSpec, base int, opts ...Option) (ir.Template, error) {
	cfg := newConfig(DefaultTerminal, opts)
	return buildChain(name, signals, base, cfg, modeStrictSync)
}

// Input synthesizes the generator-side chain: the same shape as Chain with
// terminal "Finish". With Strict() it adds StrictChain's traps, but the trap
// edges carry no synchronisation label.
func Input(name string, signals []ir.ObservationSpec, base int, opts ...Option) (ir.Template, error) {
	cfg := newConfig(DefaultInputTerminal, opts)
	mode := modePlain
	if cfg.strict {
		mode = modeStrictSilent
	}
	return buildChain(name, signals, base, cfg, mode)
}

func buildChain(name string, signals []ir.ObservationSpec, base int, cfg config, mode chainMode) (ir.Template, error) {
	if base < 0 {
		return ir.Template{}, ir.Errorf(ir.ErrCodeInvalidInput, "base id must be non-negative, got %d", base).WithTemplate(name)
	}
	n := len(signals)

	locations := make([]ir.Location, 0, StrictSize(n))
	transitions := make([]ir.Transition, 0, 2*n)

	for i, s := range signals {
		loc, err := builder.Location(base+i, StepX*i, ChainY, builder.WithInvariant(s.Invariant))
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
		tr, err := builder.Transition(base+i, base+i+1, StepX*i+LabelOffsetX, ChainY,
			builder.WithGuard(s.Guard), builder.WithSync(s.Signal))
		if err != nil {
			return ir.Template{}, err
		}
		transitions = append(transitions, tr)
	}

	if mode != modePlain {
		for i, s := range signals {
			trapID := base + n + 1 + i

			inv, err := ir.TightenUpper(s.Invariant)
			if err != nil {
				return ir.Template{}, fmt.Errorf("%s: observation %d invariant: %w", name, i, err)
			}
			trap, err := builder.Location(trapID, StepX*i, StrictTrapY,
				builder.WithName(FailName(i)), builder.WithInvariant(inv))
			if err != nil {
				return ir.Template{}, err
			}
			locations = append(locations, trap)

			// the first observation is never too early
			guard := ""
			if i > 0 {
				guard, err = ir.TightenLower(signals[i-1].Guard)
				if err != nil {
					return ir.Template{}, fmt.Errorf("%s: observation %d guard: %w", name, i-1, err)
				}
			}
			sync := s.Signal
			if mode == modeStrictSilent {
				sync = ""
			}
			tr, err := builder.Transition(base+i, trapID, StepX*i+LabelOffsetX, StrictLabelY,
				builder.WithGuard(guard), builder.WithSync(sync))
			if err != nil {
				return ir.Template{}, err
			}
			transitions = append(transitions, tr)
		}
	}

	return builder.Template(name, locations, base, transitions,
		builder.WithParameter(cfg.parameter), builder.WithDeclaration(cfg.declaration))
}

// FailName is the name of the strict trap for step i.
func FailName(i int) string {
	return "fail" + strconv.Itoa(i)
}
