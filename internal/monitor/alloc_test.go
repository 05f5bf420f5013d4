package monitor

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uppmon/internal/ir"
)

func TestAllocatorMonotonic(t *testing.T) {
	a, err := NewAllocator(1)
	require.NoError(t, err)

	r1, err := a.Reserve(3)
	require.NoError(t, err)
	r2, err := a.Reserve(0)
	require.NoError(t, err)
	r3, err := a.Reserve(5)
	require.NoError(t, err)

	assert.Equal(t, "[1, 4)", r1.String())
	assert.Equal(t, 4, r2.Base())
	assert.Equal(t, 0, r2.Size())
	assert.Equal(t, 4, r3.Base())
	assert.Equal(t, 9, a.Next())

	assert.True(t, r1.Contains(3))
	assert.False(t, r1.Contains(4))

	id, err := r3.ID(4)
	require.NoError(t, err)
	assert.Equal(t, 8, id)
	_, err = r3.ID(5)
	assert.Error(t, err)
}

func TestAllocatorRejectsNegative(t *testing.T) {
	_, err := NewAllocator(-1)
	assert.True(t, ir.IsCode(err, ir.ErrCodeInvalidInput))

	a, err := NewAllocator(0)
	require.NoError(t, err)
	_, err = a.Reserve(-2)
	assert.True(t, ir.IsCode(err, ir.ErrCodeInvalidInput))
}

func TestAllocatorConcurrentRangesAreDisjoint(t *testing.T) {
	a, err := NewAllocator(0)
	require.NoError(t, err)

	const workers, each, size = 8, 50, 3
	var (
		mu     sync.Mutex
		ranges []Range
		wg     sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				r, err := a.Reserve(size)
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				ranges = append(ranges, r)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, ranges, workers*each)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Base() < ranges[j].Base() })
	for i, r := range ranges {
		assert.Equal(t, i*size, r.Base())
	}
	assert.Equal(t, workers*each*size, a.Next())
}

func TestSizeOf(t *testing.T) {
	signals := sampleSignals()
	tests := []struct {
		spec ir.MonitorSpec
		want int
	}{
		{ir.MonitorSpec{Kind: ir.KindChain, Signals: signals}, 3},
		{ir.MonitorSpec{Kind: ir.KindInput, Signals: signals}, 3},
		{ir.MonitorSpec{Kind: ir.KindStrict, Signals: signals}, 5},
		{ir.MonitorSpec{Kind: ir.KindInputStrict, Signals: signals}, 5},
		{ir.MonitorSpec{Kind: ir.KindAllPatterns, Signals: signals, Alphabet: sampleAlphabet()}, 7},
		{ir.MonitorSpec{Kind: ir.KindConverter, Conversions: []ir.Conversion{{From: "a", To: "b"}}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Kind, func(t *testing.T) {
			got, err := SizeOf(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			tmpl, err := Synthesize(tt.spec, 0)
			require.NoError(t, err)
			assert.Len(t, tmpl.Locations, got)
		})
	}

	_, err := SizeOf(ir.MonitorSpec{Kind: "bogus"})
	assert.True(t, ir.IsCode(err, ir.ErrCodeInvalidInput))
}
