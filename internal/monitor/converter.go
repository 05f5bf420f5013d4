package monitor

import (
	"strings"

	"github.com/roach88/uppmon/internal/builder"
	"github.com/roach88/uppmon/internal/ir"
)

// SignalConverter synthesizes a relay that listens on each conversion's From
// channel and re-emits on its To channel.
//
// The idle location has id base. Conversion i gets the committed location
// base+1+i, an edge idle -> c_i on "From?" and an edge c_i -> idle on "To!".
// Committed relays keep the re-emission in the same instant.
func SignalConverter(name string, conversions []ir.Conversion, base int, opts ...Option) (ir.Template, error) {
	cfg := newConfig(ConverterIdle, opts)
	if base < 0 {
		return ir.Template{}, ir.Errorf(ir.ErrCodeInvalidInput, "base id must be non-negative, got %d", base).WithTemplate(name)
	}

	seen := make(map[string]bool, len(conversions))
	for i, c := range conversions {
		from, to := strings.TrimSpace(c.From), strings.TrimSpace(c.To)
		if !validChannel(from) || !validChannel(to) {
			return ir.Template{}, ir.Errorf(ir.ErrCodeBadSignal, "conversion %d has invalid channel names %q -> %q", i, c.From, c.To).WithTemplate(name)
		}
		if seen[from] {
			return ir.Template{}, ir.Errorf(ir.ErrCodeInvalidInput, "channel %q is converted twice", from).WithTemplate(name)
		}
		seen[from] = true
	}

	locations := make([]ir.Location, 0, ConverterSize(len(conversions)))
	transitions := make([]ir.Transition, 0, 2*len(conversions))

	idle, err := builder.Location(base, 0, 0, builder.WithName(cfg.terminal))
	if err != nil {
		return ir.Template{}, err
	}
	locations = append(locations, idle)

	for i, c := range conversions {
		id := base + 1 + i
		loc, err := builder.Location(id, StepX*i, ChainY, builder.Committed())
		if err != nil {
			return ir.Template{}, err
		}
		locations = append(locations, loc)

		in, err := builder.Transition(base, id, StepX*i+LabelOffsetX, ConverterInY,
			builder.WithSync(strings.TrimSpace(c.From)+string(rune(ir.Receive))))
		if err != nil {
			return ir.Template{}, err
		}
		out, err := builder.Transition(id, base, StepX*i+LabelOffsetX, ConverterOutY,
			builder.WithSync(strings.TrimSpace(c.To)+string(rune(ir.Send))))
		if err != nil {
			return ir.Template{}, err
		}
		transitions = append(transitions, in, out)
	}

	return builder.Template(name, locations, base, transitions,
		builder.WithParameter(cfg.parameter), builder.WithDeclaration(cfg.declaration))
}

func validChannel(s string) bool {
	return s != "" && !strings.ContainsAny(s, "!?")
}
