package ir

import "strconv"

// Label offsets relative to the owning location or transition anchor.
const (
	NameOffsetY       = -20
	InvariantOffsetY  = -40
	GuardOffsetY      = 0
	SyncOffsetY       = -30
	AssignmentOffsetY = -60
)

// Attr is a single element attribute. Attribute order is preserved.
type Attr struct {
	Name  string
	Value string
}

// Element is a labeled node of the document tree.
// An element carries either Text or Children, never both.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []Element
}

// Attr returns the value of the named attribute.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child with the given tag.
func (e Element) Child(tag string) (Element, bool) {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c, true
		}
	}
	return Element{}, false
}

// ChildrenByTag returns all direct children with the given tag.
func (e Element) ChildrenByTag(tag string) []Element {
	var out []Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// RefID renders a location id the way the checker expects it: "id" + N.
func RefID(id int) string {
	return "id" + strconv.Itoa(id)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func textElement(tag, text string) Element {
	return Element{Tag: tag, Text: text}
}

func positioned(tag string, x, y int, extra ...Attr) Element {
	attrs := append(extra, Attr{"x", itoa(x)}, Attr{"y", itoa(y)})
	return Element{Tag: tag, Attrs: attrs}
}

// DeclarationElement renders a declaration fragment.
func DeclarationElement(text string) Element {
	return textElement("declaration", text)
}

// Element renders a query as <query><formula/><comment/></query>.
func (q Query) Element() Element {
	return Element{
		Tag: "query",
		Children: []Element{
			textElement("formula", q.Formula),
			textElement("comment", q.Comment),
		},
	}
}

// QueriesElement renders queries in input order.
func QueriesElement(queries []Query) Element {
	e := Element{Tag: "queries"}
	for _, q := range queries {
		e.Children = append(e.Children, q.Element())
	}
	return e
}

// Element renders the location with its optional name, invariant and
// committed children, in that order.
func (l Location) Element() Element {
	e := Element{
		Tag:   "location",
		Attrs: []Attr{{"id", RefID(l.ID)}, {"x", itoa(l.X)}, {"y", itoa(l.Y)}},
	}
	if l.Name != "" {
		name := positioned("name", l.X, l.Y+NameOffsetY)
		name.Text = l.Name
		e.Children = append(e.Children, name)
	}
	if l.Invariant != "" {
		inv := positioned("label", l.X, l.Y+InvariantOffsetY, Attr{"kind", "invariant"})
		inv.Text = l.Invariant
		e.Children = append(e.Children, inv)
	}
	if l.Committed {
		e.Children = append(e.Children, Element{Tag: "committed"})
	}
	return e
}

// Element renders the transition: source, target, then the guard,
// synchronisation and assignment labels that are present.
func (t Transition) Element() Element {
	e := Element{
		Tag: "transition",
		Children: []Element{
			{Tag: "source", Attrs: []Attr{{"ref", RefID(t.Source)}}},
			{Tag: "target", Attrs: []Attr{{"ref", RefID(t.Target)}}},
		},
	}
	labels := []struct {
		kind, text string
		dy         int
	}{
		{"guard", t.Guard, GuardOffsetY},
		{"synchronisation", t.Sync, SyncOffsetY},
		{"assignment", t.Assignment, AssignmentOffsetY},
	}
	for _, l := range labels {
		if l.text == "" {
			continue
		}
		label := positioned("label", t.X, t.Y+l.dy, Attr{"kind", l.kind})
		label.Text = l.text
		e.Children = append(e.Children, label)
	}
	return e
}

// Element renders the template in the fixed order: name, parameter,
// declaration, locations, init, transitions.
func (t Template) Element() Element {
	e := Element{Tag: "template", Children: []Element{textElement("name", t.Name)}}
	if t.Parameter != "" {
		e.Children = append(e.Children, textElement("parameter", t.Parameter))
	}
	if t.Declaration != "" {
		e.Children = append(e.Children, textElement("declaration", t.Declaration))
	}
	for _, l := range t.Locations {
		e.Children = append(e.Children, l.Element())
	}
	e.Children = append(e.Children, Element{Tag: "init", Attrs: []Attr{{"ref", RefID(t.Init)}}})
	for _, tr := range t.Transitions {
		e.Children = append(e.Children, tr.Element())
	}
	return e
}

// Element renders the whole document as <nta>.
func (d Document) Element() Element {
	e := Element{Tag: "nta"}
	if d.Declaration != "" {
		e.Children = append(e.Children, DeclarationElement(d.Declaration))
	}
	for _, t := range d.Templates {
		e.Children = append(e.Children, t.Element())
	}
	if d.System != "" {
		e.Children = append(e.Children, textElement("system", d.System))
	}
	if len(d.Queries) > 0 {
		e.Children = append(e.Children, QueriesElement(d.Queries))
	}
	return e
}
