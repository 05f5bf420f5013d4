package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/uppmon/internal/ir"
)

func TestObservations(t *testing.T) {
	obs := Observations(2)
	assert.Equal(t, []ir.ObservationSpec{
		{Signal: "sig0?", Guard: "gclk>=1", Invariant: "gclk<=5"},
		{Signal: "sig1?", Guard: "gclk>=2", Invariant: "gclk<=6"},
	}, obs)
	assert.Empty(t, Observations(0))
}

func TestUntimed(t *testing.T) {
	assert.Equal(t, []ir.ObservationSpec{{Signal: "sig0?"}, {Signal: "sig1?"}}, Untimed(2))
}

func TestAlphabet(t *testing.T) {
	assert.Equal(t, []ir.AlphabetEntry{
		{Edge: "e0", Signal: "sig0!"},
		{Edge: "e1", Signal: "sig1!"},
	}, Alphabet(2))
}

func TestDeclaration(t *testing.T) {
	assert.Equal(t, "clock gclk;", Declaration(0))
	assert.Equal(t, "clock gclk;\nchan sig0, sig1;", Declaration(2))
}
