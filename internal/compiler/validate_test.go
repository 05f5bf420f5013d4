package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uppmon/internal/ir"
)

func validStrict() ir.MonitorSpec {
	return ir.MonitorSpec{
		Name: "Output",
		Kind: ir.KindStrict,
		Signals: []ir.ObservationSpec{
			{Signal: "sigA?", Guard: "gclk>=5", Invariant: "gclk<=10"},
			{Signal: "sigB?", Guard: "gclk>=2", Invariant: "gclk<=8"},
		},
	}
}

func codes(errs []ValidationError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateMonitorValid(t *testing.T) {
	spec := validStrict()
	assert.Empty(t, Validate(spec))
	assert.Empty(t, Validate(&spec))

	assert.Empty(t, Validate(ir.MonitorSpec{
		Name:     "Watch",
		Kind:     ir.KindAllPatterns,
		Signals:  []ir.ObservationSpec{{Signal: "a?"}},
		Alphabet: []ir.AlphabetEntry{{Edge: "a", Signal: "a!"}, {Edge: "b", Signal: "b!"}},
	}))
	assert.Empty(t, Validate(ir.MonitorSpec{
		Name:        "Relay",
		Kind:        ir.KindConverter,
		Conversions: []ir.Conversion{{From: "raw", To: "clean"}},
	}))
}

func TestValidateMonitorErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ir.MonitorSpec)
		want   []string
	}{
		{"bad name", func(s *ir.MonitorSpec) { s.Name = "my monitor" }, []string{ErrInvalidName}},
		{"bad terminal", func(s *ir.MonitorSpec) { s.Terminal = "1st" }, []string{ErrInvalidName}},
		{"unknown kind", func(s *ir.MonitorSpec) { s.Kind = "lenient" }, []string{ErrUnknownKind}},
		{"no marker", func(s *ir.MonitorSpec) { s.Signals[0].Signal = "sigA" }, []string{ErrInvalidSignal}},
		{"bad guard", func(s *ir.MonitorSpec) { s.Signals[0].Guard = "gclk = 2" }, []string{ErrInvalidGuard}},
		{"bad invariant", func(s *ir.MonitorSpec) { s.Signals[0].Invariant = "gclk<=1 || x" }, []string{ErrInvalidInvariant}},
		{"alphabet on chain", func(s *ir.MonitorSpec) {
			s.Alphabet = []ir.AlphabetEntry{{Edge: "a", Signal: "a!"}}
		}, []string{ErrFieldNotAllowed}},
		{"conversions on chain", func(s *ir.MonitorSpec) {
			s.Conversions = []ir.Conversion{{From: "a", To: "b"}}
		}, []string{ErrFieldNotAllowed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validStrict()
			tt.mutate(&spec)
			assert.Equal(t, tt.want, codes(Validate(spec)))
		})
	}
}

func TestValidateConstraintsOnlyWhereTightened(t *testing.T) {
	signals := func() []ir.ObservationSpec {
		return []ir.ObservationSpec{
			{Signal: "a?", Guard: "x>=1 || y>=2", Invariant: "x<=5 and y<=3 || z"},
			{Signal: "b?", Guard: "x>=1 || y>=2"},
		}
	}

	for _, kind := range []string{ir.KindChain, ir.KindInput} {
		t.Run(kind, func(t *testing.T) {
			assert.Empty(t, Validate(ir.MonitorSpec{Name: "M", Kind: kind, Signals: signals()}))
		})
	}
	for _, kind := range []string{ir.KindStrict, ir.KindInputStrict} {
		t.Run(kind, func(t *testing.T) {
			errs := Validate(ir.MonitorSpec{Name: "M", Kind: kind, Signals: signals()})
			assert.Equal(t, []string{ErrInvalidGuard, ErrInvalidInvariant}, codes(errs))
			assert.Equal(t, "signals[0].guard", errs[0].Field)
		})
	}

	// the last guard is never tightened
	spec := ir.MonitorSpec{Name: "M", Kind: ir.KindStrict, Signals: []ir.ObservationSpec{
		{Signal: "a?", Guard: "x>=1"},
		{Signal: "b?", Guard: "x>=1 || y>=2"},
	}}
	assert.Empty(t, Validate(spec))
}

func TestValidateAlphabet(t *testing.T) {
	base := func() ir.MonitorSpec {
		return ir.MonitorSpec{
			Name:    "Watch",
			Kind:    ir.KindAllPatterns,
			Signals: []ir.ObservationSpec{{Signal: "a?"}, {Signal: "b?"}},
		}
	}

	spec := base()
	assert.Equal(t, []string{ErrAlphabetRequired}, codes(Validate(spec)))

	spec = base()
	spec.Alphabet = []ir.AlphabetEntry{{Edge: "a", Signal: "a!"}, {Edge: "a", Signal: "b!"}}
	assert.Equal(t, []string{ErrInvalidAlphabet}, codes(Validate(spec)))

	spec = base()
	spec.Alphabet = []ir.AlphabetEntry{{Edge: "a", Signal: "a"}, {Edge: "b", Signal: "b!"}}
	assert.Equal(t, []string{ErrInvalidAlphabet}, codes(Validate(spec)))

	spec = base()
	spec.Alphabet = []ir.AlphabetEntry{{Edge: "a", Signal: "a!"}}
	errs := Validate(spec)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrSignalNotInAlphabet, errs[0].Code)
	assert.Equal(t, "signals[1].signal", errs[0].Field)

	spec = base()
	spec.Alphabet = []ir.AlphabetEntry{{Edge: "a", Signal: "a!"}, {Edge: "a2", Signal: "a?"}, {Edge: "b", Signal: "b!"}}
	assert.Equal(t, []string{ErrSignalNotInAlphabet}, codes(Validate(spec)))
}

func TestValidateConverter(t *testing.T) {
	spec := ir.MonitorSpec{
		Name:        "Relay",
		Kind:        ir.KindConverter,
		Terminal:    "done",
		Signals:     []ir.ObservationSpec{{Signal: "a?"}},
		Conversions: []ir.Conversion{{From: "a", To: "b"}, {From: "a", To: "c"}, {From: "x!", To: "y"}},
	}
	assert.Equal(t, []string{ErrFieldNotAllowed, ErrFieldNotAllowed, ErrInvalidConversion, ErrInvalidConversion}, codes(Validate(spec)))
}

func TestValidateDefinition(t *testing.T) {
	def := ir.Definition{Monitors: []ir.MonitorSpec{validStrict(), validStrict()}}
	def.Monitors[1].Signals[0].Signal = "oops"

	errs := Validate(&def)
	assert.Equal(t, []string{ErrDuplicateName, ErrInvalidSignal}, codes(errs))
	assert.Equal(t, "monitors[1].name", errs[0].Field)
	assert.Equal(t, "monitors[1].signals[0].signal", errs[1].Field)
}

func TestValidateUnsupportedType(t *testing.T) {
	errs := Validate("nope")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnsupportedIRType, errs[0].Code)
}

func TestValidationErrorFormat(t *testing.T) {
	e := ValidationError{Field: "kind", Message: "unknown kind", Code: ErrUnknownKind}
	assert.Equal(t, "[E102] kind: unknown kind", e.Error())
	e.Line = 4
	assert.Equal(t, "[E102] line 4: kind: unknown kind", e.Error())
}
