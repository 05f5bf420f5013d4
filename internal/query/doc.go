// Package query provides a small IR for verification formulas and renders
// it to the checker's query syntax.
//
// Formula and Predicate are sealed interfaces: only types in this package
// implement them, which keeps the renderer's type switches exhaustive.
//
//	f := query.Exists{P: query.At{Process: "Output", Location: "pass"}}
//	s, _ := query.Render(f) // "E<> Output.pass"
//
// Supported path quantifiers: E<>, E[], A<>, A[] and the leads-to operator.
// Predicates cover location membership, deadlock, clock/data constraints
// and boolean combinations of those.
package query
