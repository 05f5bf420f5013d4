package monitor

import (
	"sync"

	"github.com/roach88/uppmon/internal/ir"
)

// IDLedger records which template owns each location id of a document.
//
// Ranges from one Allocator never overlap, so the ledger only trips on
// templates that were built outside the allocator (AddTemplate) or with a
// base chosen by hand.
//
// Thread-safe: Can be called concurrently.
type IDLedger struct {
	mu     sync.Mutex
	owners map[int]string
}

// NewIDLedger creates an empty ledger.
func NewIDLedger() *IDLedger {
	return &IDLedger{owners: make(map[int]string)}
}

// Collides returns the first id of t already owned by another template.
func (l *IDLedger) Collides(t ir.Template) (id int, owner string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.collides(t)
}

func (l *IDLedger) collides(t ir.Template) (int, string, bool) {
	for _, loc := range t.Locations {
		if owner, taken := l.owners[loc.ID]; taken {
			return loc.ID, owner, true
		}
	}
	return 0, "", false
}

// Claim records every location id of t, or records nothing and returns an
// ID_COLLISION error if any id is already owned.
func (l *IDLedger) Claim(t ir.Template) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id, owner, ok := l.collides(t); ok {
		return ir.Errorf(ir.ErrCodeIDCollision, "id %d is already used by template %q", id, owner).
			WithTemplate(t.Name).WithID(id)
	}
	for _, loc := range t.Locations {
		l.owners[loc.ID] = t.Name
	}
	return nil
}

// Owner returns the template owning id.
func (l *IDLedger) Owner(id int) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.owners[id]
	return owner, ok
}

// Size returns the number of claimed ids.
func (l *IDLedger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.owners)
}
