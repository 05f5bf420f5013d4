package query

import "github.com/roach88/uppmon/internal/ir"

// ForTemplate derives the standard checks for one monitor instance:
// reachability of its terminal location, then one safety query per trap.
// An empty terminal skips the reachability query.
func ForTemplate(process, terminal string, traps []string) ([]ir.Query, error) {
	var formulas []Formula
	if terminal != "" {
		formulas = append(formulas, Reach(process, terminal))
	}
	for _, trap := range traps {
		formulas = append(formulas, Never(process, trap))
	}

	out := make([]ir.Query, 0, len(formulas))
	for _, f := range formulas {
		text, err := Render(f)
		if err != nil {
			return nil, err
		}
		out = append(out, ir.Query{Formula: text, Comment: comment(f)})
	}
	return out, nil
}

func comment(f Formula) string {
	switch f := f.(type) {
	case Exists:
		if at, ok := f.P.(At); ok {
			return at.Process + " can complete"
		}
	case Always:
		if n, ok := f.P.(Not); ok {
			if at, ok := n.P.(At); ok {
				return at.Process + " never reaches " + at.Location
			}
		}
	}
	return ""
}
