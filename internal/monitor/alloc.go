package monitor

import (
	"fmt"
	"sync/atomic"

	"github.com/roach88/uppmon/internal/ir"
)

// Allocator is a monotonic id arena shared by every template of one document.
//
// Reserve hands out disjoint ranges in increasing order. Ranges are never
// returned to the arena.
//
// Thread-safety: Allocator is safe for concurrent use (atomic operations).
type Allocator struct {
	next atomic.Int64
}

// NewAllocator creates an allocator whose first reserved id is start.
func NewAllocator(start int) (*Allocator, error) {
	if start < 0 {
		return nil, ir.Errorf(ir.ErrCodeInvalidInput, "allocator start must be non-negative, got %d", start)
	}
	a := &Allocator{}
	a.next.Store(int64(start))
	return a, nil
}

// Reserve claims size consecutive ids.
// Calls are linearizable - concurrent callers always receive disjoint ranges.
func (a *Allocator) Reserve(size int) (Range, error) {
	if size < 0 {
		return Range{}, ir.Errorf(ir.ErrCodeInvalidInput, "cannot reserve %d ids", size)
	}
	end := a.next.Add(int64(size))
	return Range{base: int(end) - size, size: size}, nil
}

// Next returns the first id not yet reserved.
func (a *Allocator) Next() int {
	return int(a.next.Load())
}

// Range is an opaque handle to a reserved block of ids.
type Range struct {
	base int
	size int
}

// Base returns the first id of the range.
func (r Range) Base() int { return r.base }

// Size returns the number of ids in the range.
func (r Range) Size() int { return r.size }

// End returns one past the last id of the range.
func (r Range) End() int { return r.base + r.size }

// Contains reports whether id belongs to the range.
func (r Range) Contains(id int) bool {
	return id >= r.base && id < r.End()
}

// ID returns the i-th id of the range.
func (r Range) ID(i int) (int, error) {
	if i < 0 || i >= r.size {
		return 0, fmt.Errorf("index %d outside range of size %d", i, r.size)
	}
	return r.base + i, nil
}

// String renders the range as "[base, end)".
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.base, r.End())
}

// ChainSize is the number of ids Chain and Input consume for n observations.
func ChainSize(n int) int {
	return n + 1
}

// StrictSize is the number of ids StrictChain and strict Input consume.
func StrictSize(n int) int {
	return 2*n + 1
}

// AllPatternsSize is the number of ids AllPatterns consumes for n
// observations over an alphabet of k entries.
func AllPatternsSize(n, k int) int {
	if k < 1 {
		return n + 1
	}
	return n + 1 + n*(k-1)
}

// ConverterSize is the number of ids SignalConverter consumes for m conversions.
func ConverterSize(m int) int {
	return m + 1
}

// SizeOf reports how many ids synthesizing spec consumes.
func SizeOf(spec ir.MonitorSpec) (int, error) {
	n := len(spec.Signals)
	switch spec.Kind {
	case ir.KindChain, ir.KindInput:
		return ChainSize(n), nil
	case ir.KindStrict, ir.KindInputStrict:
		return StrictSize(n), nil
	case ir.KindAllPatterns:
		return AllPatternsSize(n, len(spec.Alphabet)), nil
	case ir.KindConverter:
		return ConverterSize(len(spec.Conversions)), nil
	default:
		return 0, ir.Errorf(ir.ErrCodeInvalidInput, "unknown monitor kind %q", spec.Kind).WithTemplate(spec.Name)
	}
}
