package monitor

// Layout constants, in checker canvas units.
const (
	StepX         = 300
	ChainY        = 200
	LabelOffsetX  = 100
	StrictTrapY   = -200
	StrictLabelY  = -100
	PatternTrapY  = 500
	PatternStepY  = 100
	ConverterInY  = 100
	ConverterOutY = 300
)

// Default terminal names.
const (
	DefaultTerminal      = "pass"
	DefaultInputTerminal = "Finish"
	ConverterIdle        = "idle"
)

// Option customizes a synthesized template.
type Option func(*config)

type config struct {
	terminal    string
	parameter   string
	declaration string
	strict      bool
}

func newConfig(terminal string, opts []Option) config {
	cfg := config{terminal: terminal}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTerminal renames the tail location. An empty name keeps the default.
func WithTerminal(name string) Option {
	return func(c *config) {
		if name != "" {
			c.terminal = name
		}
	}
}

// WithParameter sets the template parameter list.
func WithParameter(p string) Option {
	return func(c *config) {
		c.parameter = p
	}
}

// WithDeclaration sets the template-local declaration, e.g. "clock t;".
func WithDeclaration(d string) Option {
	return func(c *config) {
		c.declaration = d
	}
}

// Strict adds timing traps to Input. StrictChain always has them.
func Strict() Option {
	return func(c *config) {
		c.strict = true
	}
}
