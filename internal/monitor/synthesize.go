package monitor

import (
	"github.com/roach88/uppmon/internal/ir"
)

// Synthesize builds the template described by spec with its ids starting at
// base. It consumes exactly SizeOf(spec) ids.
func Synthesize(spec ir.MonitorSpec, base int, opts ...Option) (ir.Template, error) {
	if spec.Terminal != "" {
		opts = append([]Option{WithTerminal(spec.Terminal)}, opts...)
	}
	switch spec.Kind {
	case ir.KindChain:
		return Chain(spec.Name, spec.Signals, base, opts...)
	case ir.KindStrict:
		return StrictChain(spec.Name, spec.Signals, base, opts...)
	case ir.KindAllPatterns:
		return AllPatterns(spec.Name, spec.Signals, base, spec.Alphabet, opts...)
	case ir.KindInput:
		return Input(spec.Name, spec.Signals, base, opts...)
	case ir.KindInputStrict:
		return Input(spec.Name, spec.Signals, base, append(opts, Strict())...)
	case ir.KindConverter:
		return SignalConverter(spec.Name, spec.Conversions, base, opts...)
	default:
		return ir.Template{}, ir.Errorf(ir.ErrCodeInvalidInput, "unknown monitor kind %q", spec.Kind).WithTemplate(spec.Name)
	}
}

// Terminal returns the name of the location a successful run of spec ends
// in, or "" for kinds that have none.
func Terminal(spec ir.MonitorSpec) string {
	switch spec.Kind {
	case ir.KindConverter:
		return ""
	case ir.KindInput, ir.KindInputStrict:
		if spec.Terminal != "" {
			return spec.Terminal
		}
		return DefaultInputTerminal
	default:
		if spec.Terminal != "" {
			return spec.Terminal
		}
		return DefaultTerminal
	}
}

// TrapNames lists the violation locations Synthesize gives spec, in id order.
func TrapNames(spec ir.MonitorSpec) []string {
	n := len(spec.Signals)
	switch spec.Kind {
	case ir.KindStrict, ir.KindInputStrict:
		names := make([]string, n)
		for i := range names {
			names[i] = FailName(i)
		}
		return names
	case ir.KindAllPatterns:
		k := len(spec.Alphabet)
		if k < 2 {
			return nil
		}
		names := make([]string, 0, n*(k-1))
		for i := 0; i < n; i++ {
			for j := 0; j < k-1; j++ {
				names = append(names, ErrName(i, j))
			}
		}
		return names
	default:
		return nil
	}
}
