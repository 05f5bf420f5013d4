package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator produces ids "<prefix>-1", "<prefix>-2", ... for tests.
//
// Unlike store.FixedGenerator it never runs out, and it can be reset so the
// same scenario produces identical ids on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequenceGenerator creates a generator starting at 0.
//
// If prefix is empty, ids are "test-build-N".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "test-build"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate increments the sequence and returns the next id.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Current returns how many ids have been generated.
func (g *SequenceGenerator) Current() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. The next Generate returns "<prefix>-1".
func (g *SequenceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
