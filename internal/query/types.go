package query

// Formula is a top-level verification property.
//
// This is a sealed interface - only types in this package implement it.
type Formula interface {
	formulaNode()
}

// Predicate is a state formula used inside a Formula.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode()
}

// Exists is "E<> P": some path reaches a state satisfying P.
type Exists struct {
	P Predicate
}

// Potentially is "E[] P": some path keeps P forever.
type Potentially struct {
	P Predicate
}

// Eventually is "A<> P": every path reaches a state satisfying P.
type Eventually struct {
	P Predicate
}

// Always is "A[] P": P holds in every reachable state.
type Always struct {
	P Predicate
}

// LeadsTo is "P --> Q": whenever P holds, Q eventually holds.
type LeadsTo struct {
	P Predicate
	Q Predicate
}

func (Exists) formulaNode()      {}
func (Potentially) formulaNode() {}
func (Eventually) formulaNode()  {}
func (Always) formulaNode()      {}
func (LeadsTo) formulaNode()     {}

// At holds when Process is in Location.
type At struct {
	Process  string
	Location string
}

// Deadlock holds in deadlocked states.
type Deadlock struct{}

// Constraint holds when the clock/data expression holds, e.g. "gclk<=10".
type Constraint struct {
	Expr string
}

// Not negates P.
type Not struct {
	P Predicate
}

// And holds when every predicate holds.
type And struct {
	Predicates []Predicate
}

// Or holds when at least one predicate holds.
type Or struct {
	Predicates []Predicate
}

func (At) predicateNode()         {}
func (Deadlock) predicateNode()   {}
func (Constraint) predicateNode() {}
func (Not) predicateNode()        {}
func (And) predicateNode()        {}
func (Or) predicateNode()         {}

// Reach is shorthand for E<> process.location.
func Reach(process, location string) Formula {
	return Exists{P: At{Process: process, Location: location}}
}

// Never is shorthand for A[] not process.location.
func Never(process, location string) Formula {
	return Always{P: Not{P: At{Process: process, Location: location}}}
}

// NoDeadlock is A[] not deadlock.
func NoDeadlock() Formula {
	return Always{P: Not{P: Deadlock{}}}
}
