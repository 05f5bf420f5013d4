// Package builder constructs individual model fragments.
//
// Every function here is pure: it takes plain values, validates them at the
// boundary and returns a new ir fragment. Optional labels are supplied as
// functional options; an option that is not given leaves its label out of
// the rendered element.
//
//	loc, err := builder.Location(37, -169, -59,
//	    builder.WithName("pass"),
//	    builder.WithInvariant("gclk<=122"))
//
// Template is the only constructor that reasons across fragments: it
// checks that the init reference and every transition endpoint name a
// location of the same template.
package builder
