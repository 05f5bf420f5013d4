package ir

// ObservationSpec is one expected observation of a monitor chain.
// Order within a chain is significant: it is the order the chain observes.
type ObservationSpec struct {
	Signal    string `json:"signal" yaml:"signal"`                           // "sigA?" or "sigA!"
	Guard     string `json:"guard,omitempty" yaml:"guard,omitempty"`         // e.g. "gclk>=10"
	Invariant string `json:"invariant,omitempty" yaml:"invariant,omitempty"` // e.g. "gclk<=5"
}

// Location is a state of a template.
type Location struct {
	ID        int    `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Name      string `json:"name,omitempty"`
	Invariant string `json:"invariant,omitempty"`
	Committed bool   `json:"committed,omitempty"`
}

// Transition is a directed edge between two locations of the same template.
// X and Y anchor the label stack.
type Transition struct {
	Source     int    `json:"source"`
	Target     int    `json:"target"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Guard      string `json:"guard,omitempty"`
	Sync       string `json:"sync,omitempty"`
	Assignment string `json:"assignment,omitempty"`
}

// Template is a named automaton.
type Template struct {
	Name        string       `json:"name"`
	Parameter   string       `json:"parameter,omitempty"`
	Declaration string       `json:"declaration,omitempty"`
	Locations   []Location   `json:"locations"`
	Init        int          `json:"init"`
	Transitions []Transition `json:"transitions"`
}

// Query is a verification formula with an optional comment.
type Query struct {
	Formula string `json:"formula"`
	Comment string `json:"comment,omitempty"`
}

// Document is a complete model: global declaration, templates, the system
// line and the verification queries.
type Document struct {
	Declaration string     `json:"declaration,omitempty"`
	Templates   []Template `json:"templates"`
	System      string     `json:"system,omitempty"`
	Queries     []Query    `json:"queries,omitempty"`
}

// AlphabetEntry maps an edge name to the signal it emits.
// Signals use the send marker ("sig!") by convention.
type AlphabetEntry struct {
	Edge   string `json:"edge" yaml:"edge"`
	Signal string `json:"signal" yaml:"signal"`
}

// Conversion renames one observable signal into another.
// From and To are bare channel names.
type Conversion struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Monitor kinds understood by the synthesizer.
const (
	KindChain       = "chain"
	KindStrict      = "strict"
	KindAllPatterns = "all_patterns"
	KindInput       = "input"
	KindInputStrict = "input_strict"
	KindConverter   = "converter"
)

// ValidKinds defines allowed monitor kinds.
var ValidKinds = map[string]bool{
	KindChain:       true,
	KindStrict:      true,
	KindAllPatterns: true,
	KindInput:       true,
	KindInputStrict: true,
	KindConverter:   true,
}

// MonitorSpec is a declarative request for one synthesized template.
type MonitorSpec struct {
	Name        string            `json:"name" yaml:"name"`
	Kind        string            `json:"kind" yaml:"kind"`
	Terminal    string            `json:"terminal,omitempty" yaml:"terminal,omitempty"`
	Signals     []ObservationSpec `json:"signals,omitempty" yaml:"signals,omitempty"`
	Alphabet    []AlphabetEntry   `json:"alphabet,omitempty" yaml:"alphabet,omitempty"`
	Conversions []Conversion      `json:"conversions,omitempty" yaml:"conversions,omitempty"`
}

// LocationIDs returns the ids of t's locations in document order.
func (t Template) LocationIDs() []int {
	ids := make([]int, len(t.Locations))
	for i, l := range t.Locations {
		ids[i] = l.ID
	}
	return ids
}

// Location returns the location with the given id.
func (t Template) Location(id int) (Location, bool) {
	for _, l := range t.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

// Outgoing returns the transitions leaving id, in document order.
func (t Template) Outgoing(id int) []Transition {
	var out []Transition
	for _, tr := range t.Transitions {
		if tr.Source == id {
			out = append(out, tr)
		}
	}
	return out
}

// IDSpan returns the smallest and largest location id of t.
// ok is false for a template without locations.
func (t Template) IDSpan() (lo, hi int, ok bool) {
	if len(t.Locations) == 0 {
		return 0, 0, false
	}
	lo, hi = t.Locations[0].ID, t.Locations[0].ID
	for _, l := range t.Locations[1:] {
		if l.ID < lo {
			lo = l.ID
		}
		if l.ID > hi {
			hi = l.ID
		}
	}
	return lo, hi, true
}

// Definition is everything one set of spec files declares: the global
// declaration, an optional hand-written system line, and the monitors in
// declaration order.
type Definition struct {
	Declaration string        `json:"declaration,omitempty" yaml:"declaration,omitempty"`
	System      string        `json:"system,omitempty" yaml:"system,omitempty"`
	Monitors    []MonitorSpec `json:"monitors" yaml:"monitors"`
}
