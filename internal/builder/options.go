package builder

// LocationOption customizes a location before it is returned.
type LocationOption func(*locationConfig)

type locationConfig struct {
	invariant string
	name      string
	committed bool
}

// WithInvariant sets the invariant label, e.g. "gclk<=5".
func WithInvariant(inv string) LocationOption {
	return func(c *locationConfig) {
		c.invariant = inv
	}
}

// WithName sets the name label.
func WithName(name string) LocationOption {
	return func(c *locationConfig) {
		c.name = name
	}
}

// Committed marks the location as committed.
func Committed() LocationOption {
	return func(c *locationConfig) {
		c.committed = true
	}
}

// TransitionOption customizes a transition before it is returned.
type TransitionOption func(*transitionConfig)

type transitionConfig struct {
	guard      string
	sync       string
	assignment string
}

// WithGuard sets the guard label, e.g. "t>=10".
func WithGuard(guard string) TransitionOption {
	return func(c *transitionConfig) {
		c.guard = guard
	}
}

// WithSync sets the synchronisation label. The caller includes the
// direction marker ("sig?" or "sig!").
func WithSync(sync string) TransitionOption {
	return func(c *transitionConfig) {
		c.sync = sync
	}
}

// WithAssignment sets the assignment label, e.g. "t=0".
func WithAssignment(assignment string) TransitionOption {
	return func(c *transitionConfig) {
		c.assignment = assignment
	}
}

// TemplateOption customizes a template before it is returned.
type TemplateOption func(*templateConfig)

type templateConfig struct {
	parameter   string
	declaration string
}

// WithParameter sets the parameter list, e.g. "broadcast chan &act, int tMin".
func WithParameter(p string) TemplateOption {
	return func(c *templateConfig) {
		c.parameter = p
	}
}

// WithDeclaration sets the local declaration, e.g. "clock t;".
func WithDeclaration(d string) TemplateOption {
	return func(c *templateConfig) {
		c.declaration = d
	}
}
