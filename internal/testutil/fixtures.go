package testutil

import (
	"fmt"

	"github.com/roach88/uppmon/internal/ir"
)

// Observations returns n receive observations sig0? .. sig{n-1}? where
// observation i must happen in [i+1, i+5] time units of gclk.
func Observations(n int) []ir.ObservationSpec {
	out := make([]ir.ObservationSpec, n)
	for i := range out {
		out[i] = ir.ObservationSpec{
			Signal:    fmt.Sprintf("sig%d?", i),
			Guard:     fmt.Sprintf("gclk>=%d", i+1),
			Invariant: fmt.Sprintf("gclk<=%d", i+5),
		}
	}
	return out
}

// Untimed returns n receive observations sig0? .. sig{n-1}? with no guard
// or invariant.
func Untimed(n int) []ir.ObservationSpec {
	out := make([]ir.ObservationSpec, n)
	for i := range out {
		out[i] = ir.ObservationSpec{Signal: fmt.Sprintf("sig%d?", i)}
	}
	return out
}

// Alphabet returns k emit entries e0: sig0! .. e{k-1}: sig{k-1}!, matching
// the channels of Observations and Untimed.
func Alphabet(k int) []ir.AlphabetEntry {
	out := make([]ir.AlphabetEntry, k)
	for j := range out {
		out[j] = ir.AlphabetEntry{Edge: fmt.Sprintf("e%d", j), Signal: fmt.Sprintf("sig%d!", j)}
	}
	return out
}

// Declaration returns a global declaration with gclk and channels
// sig0 .. sig{n-1}.
func Declaration(n int) string {
	decl := "clock gclk;"
	if n == 0 {
		return decl
	}
	decl += "\nchan "
	for i := 0; i < n; i++ {
		if i > 0 {
			decl += ", "
		}
		decl += fmt.Sprintf("sig%d", i)
	}
	return decl + ";"
}
