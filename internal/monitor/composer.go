package monitor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/roach88/uppmon/internal/ir"
	"github.com/roach88/uppmon/internal/query"
)

// Composer assembles several monitors into one document that shares a single
// id space.
//
// Each Add reserves the monitor's ids from the composer's Allocator before
// synthesis, so monitors added from different goroutines never overlap.
// Templates keep the order in which Add or AddTemplate returned.
type Composer struct {
	alloc  *Allocator
	ledger *IDLedger
	cfg    composerConfig

	mu        sync.Mutex
	names     map[string]bool
	templates []ir.Template
	queries   []ir.Query
}

type composerConfig struct {
	declaration string
	system      string
	noQueries   bool
}

// ComposerOption customizes the produced document.
type ComposerOption func(*composerConfig)

// WithGlobalDeclaration sets the document-level declaration.
func WithGlobalDeclaration(text string) ComposerOption {
	return func(c *composerConfig) {
		c.declaration = text
	}
}

// WithSystem replaces the generated system line.
func WithSystem(text string) ComposerOption {
	return func(c *composerConfig) {
		c.system = text
	}
}

// WithoutQueries disables query derivation.
func WithoutQueries() ComposerOption {
	return func(c *composerConfig) {
		c.noQueries = true
	}
}

// NewComposer creates a composer whose first allocated id is start.
func NewComposer(start int, opts ...ComposerOption) (*Composer, error) {
	alloc, err := NewAllocator(start)
	if err != nil {
		return nil, err
	}
	c := &Composer{
		alloc:  alloc,
		ledger: NewIDLedger(),
		names:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&c.cfg)
	}
	return c, nil
}

// Add synthesizes spec into a freshly reserved range and appends it.
func (c *Composer) Add(spec ir.MonitorSpec, opts ...Option) (ir.Template, Range, error) {
	size, err := SizeOf(spec)
	if err != nil {
		return ir.Template{}, Range{}, err
	}
	r, err := c.alloc.Reserve(size)
	if err != nil {
		return ir.Template{}, Range{}, err
	}
	t, err := Synthesize(spec, r.Base(), opts...)
	if err != nil {
		return ir.Template{}, r, err
	}
	for _, loc := range t.Locations {
		if !r.Contains(loc.ID) {
			return ir.Template{}, r, ir.Errorf(ir.ErrCodeIDCollision, "id %d escapes reserved range %s", loc.ID, r).
				WithTemplate(t.Name).WithID(loc.ID)
		}
	}

	var queries []ir.Query
	if !c.cfg.noQueries {
		queries, err = query.ForTemplate(t.Name, Terminal(spec), TrapNames(spec))
		if err != nil {
			return ir.Template{}, r, fmt.Errorf("%s: derive queries: %w", t.Name, err)
		}
	}
	if err := c.AddTemplate(t, queries...); err != nil {
		return ir.Template{}, r, err
	}
	return t, r, nil
}

// AddTemplate appends a template built elsewhere. Its ids must not overlap
// any template already added; they should also lie outside the allocator's
// future ranges, which the composer cannot check.
func (c *Composer) AddTemplate(t ir.Template, queries ...ir.Query) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.names[t.Name] {
		return ir.Errorf(ir.ErrCodeDuplicateTemplate, "template %q is already part of the document", t.Name).WithTemplate(t.Name)
	}
	if err := c.ledger.Claim(t); err != nil {
		return err
	}
	c.names[t.Name] = true
	c.templates = append(c.templates, t)
	c.queries = append(c.queries, queries...)
	return nil
}

// Next returns the first id the composer has not reserved.
func (c *Composer) Next() int {
	return c.alloc.Next()
}

// Document returns the assembled document. The system line instantiates
// every template in insertion order unless WithSystem replaced it.
func (c *Composer) Document() ir.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := ir.Document{
		Declaration: c.cfg.declaration,
		Templates:   append([]ir.Template(nil), c.templates...),
		System:      c.cfg.system,
		Queries:     append([]ir.Query(nil), c.queries...),
	}
	if doc.System == "" && len(c.templates) > 0 {
		doc.System = SystemLine(c.templates)
	}
	return doc
}

// SystemLine renders "system A, B;" for the given templates.
func SystemLine(templates []ir.Template) string {
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	return "system " + strings.Join(names, ", ") + ";"
}
