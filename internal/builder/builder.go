package builder

import (
	"fmt"
	"strings"

	"github.com/roach88/uppmon/internal/ir"
)

// Location builds a location at (x, y). The id must be non-negative; it is
// rendered as "id<N>".
func Location(id, x, y int, opts ...LocationOption) (ir.Location, error) {
	if id < 0 {
		return ir.Location{}, ir.Errorf(ir.ErrCodeInvalidInput, "location id must be non-negative, got %d", id).WithID(id)
	}
	var cfg locationConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return ir.Location{
		ID:        id,
		X:         x,
		Y:         y,
		Name:      cfg.name,
		Invariant: cfg.invariant,
		Committed: cfg.committed,
	}, nil
}

// Transition builds an edge from source to target whose label stack is
// anchored at (x, y). Endpoints are checked by Template, not here.
func Transition(source, target, x, y int, opts ...TransitionOption) (ir.Transition, error) {
	if source < 0 || target < 0 {
		return ir.Transition{}, ir.Errorf(ir.ErrCodeInvalidInput, "transition ids must be non-negative, got %d -> %d", source, target)
	}
	var cfg transitionConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return ir.Transition{
		Source:     source,
		Target:     target,
		X:          x,
		Y:          y,
		Guard:      cfg.guard,
		Sync:       cfg.sync,
		Assignment: cfg.assignment,
	}, nil
}

// Template assembles a template and checks its references:
//   - name is non-empty
//   - location ids are unique
//   - init names one of the locations
//   - every transition endpoint names one of the locations
//   - every label is text an XML document can carry
//
// The slices are copied; later changes by the caller do not leak in.
func Template(name string, locations []ir.Location, init int, transitions []ir.Transition, opts ...TemplateOption) (ir.Template, error) {
	if strings.TrimSpace(name) == "" {
		return ir.Template{}, ir.Errorf(ir.ErrCodeInvalidInput, "template name is required")
	}

	ids := make(map[int]bool, len(locations))
	for _, l := range locations {
		if ids[l.ID] {
			return ir.Template{}, ir.Errorf(ir.ErrCodeDuplicateID, "location %s appears twice", ir.RefID(l.ID)).WithTemplate(name).WithID(l.ID)
		}
		ids[l.ID] = true
	}

	if !ids[init] {
		return ir.Template{}, ir.Errorf(ir.ErrCodeMissingInit, "init %s is not a location of the template", ir.RefID(init)).WithTemplate(name).WithID(init)
	}

	for i, tr := range transitions {
		if !ids[tr.Source] {
			return ir.Template{}, ir.Errorf(ir.ErrCodeDanglingReference, "transition %d source %s is not a location of the template", i, ir.RefID(tr.Source)).WithTemplate(name).WithID(tr.Source)
		}
		if !ids[tr.Target] {
			return ir.Template{}, ir.Errorf(ir.ErrCodeDanglingReference, "transition %d target %s is not a location of the template", i, ir.RefID(tr.Target)).WithTemplate(name).WithID(tr.Target)
		}
	}

	var cfg templateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := checkText(name, cfg, locations, transitions); err != nil {
		return ir.Template{}, err
	}

	return ir.Template{
		Name:        name,
		Parameter:   cfg.parameter,
		Declaration: cfg.declaration,
		Locations:   append([]ir.Location(nil), locations...),
		Init:        init,
		Transitions: append([]ir.Transition(nil), transitions...),
	}, nil
}

func checkText(name string, cfg templateConfig, locations []ir.Location, transitions []ir.Transition) error {
	check := func(what, text string) error {
		if err := ir.ValidText(text); err != nil {
			return fmt.Errorf("template %q %s: %w", name, what, err)
		}
		return nil
	}
	if err := check("name", name); err != nil {
		return err
	}
	if err := check("parameter", cfg.parameter); err != nil {
		return err
	}
	if err := check("declaration", cfg.declaration); err != nil {
		return err
	}
	for _, l := range locations {
		for _, text := range []string{l.Name, l.Invariant} {
			if err := check("location "+ir.RefID(l.ID), text); err != nil {
				return err
			}
		}
	}
	for i, tr := range transitions {
		for _, text := range []string{tr.Guard, tr.Sync, tr.Assignment} {
			if err := check(fmt.Sprintf("transition %d", i), text); err != nil {
				return err
			}
		}
	}
	return nil
}

// Declaration builds a declaration fragment holding text verbatim.
func Declaration(text string) ir.Element {
	return ir.DeclarationElement(text)
}

// Query builds a single verification query with an empty comment.
func Query(formula string) ir.Query {
	return ir.Query{Formula: formula}
}

// Queries builds the queries fragment, one query per formula in input order.
func Queries(formulas ...string) ir.Element {
	qs := make([]ir.Query, len(formulas))
	for i, f := range formulas {
		qs[i] = Query(f)
	}
	return ir.QueriesElement(qs)
}
