package suggest

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedSpace(t *testing.T) *Space {
	t.Helper()

	space, err := NewSpace([]ParameterSpec{
		{Name: "threads", FeasibleValues: []string{"1", "2", "4"}},
		{Name: "cache", FeasibleValues: []string{"on", "off"}},
		{Name: "batch", FeasibleValues: []string{"8", "16", "32", "64"}},
	})
	require.NoError(t, err)

	return space
}

func TestGridSamplerBijection(t *testing.T) {
	space := mixedSpace(t)
	g := newGridSampler(space, NewLedger(), 0)

	seen := make(map[TrialKey]bool, space.Size())

	for i := int64(0); i < space.Size(); i++ {
		s, stats, err := g.next()
		require.NoError(t, err)
		assert.Zero(t, stats.rejections)

		key := KeyOf(s)
		assert.False(t, seen[key], "index %d revisits %s", i, key)
		seen[key] = true
	}

	assert.Len(t, seen, int(space.Size()))

	_, _, err := g.next()
	assert.True(t, errors.Is(err, ErrExhaustedSpace))
}

func TestGridSamplerDeterministic(t *testing.T) {
	run := func(start int64) []AssignmentSet {
		space := mixedSpace(t)
		g := newGridSampler(space, NewLedger(), start)

		var out []AssignmentSet
		for i := 0; i < 5; i++ {
			s, _, err := g.next()
			require.NoError(t, err)
			out = append(out, s)
		}

		return out
	}

	assert.Empty(t, cmp.Diff(run(3), run(3)))

	// Starting later yields the tail of the same sequence.
	assert.Empty(t, cmp.Diff(run(3)[2:], run(5)[:3]))
}

func TestGridSamplerMostSignificantFirst(t *testing.T) {
	space := mixedSpace(t)
	g := newGridSampler(space, NewLedger(), 0)

	first, _, err := g.next()
	require.NoError(t, err)

	second, _, err := g.next()
	require.NoError(t, err)

	// Dimensions sorted by name: batch, cache, threads. The last one moves
	// fastest.
	assert.Equal(t, set("batch", "16", "cache", "off", "threads", "1"), first)
	assert.Equal(t, set("batch", "16", "cache", "off", "threads", "2"), second)
}

func TestRandomSamplerFillsSpace(t *testing.T) {
	space := mixedSpace(t)
	ledger := NewLedger()
	r := newRandomSampler(space, ledger, rand.New(rand.NewSource(3)), 0)

	for i := int64(0); i < space.Size(); i++ {
		_, _, err := r.next()
		require.NoError(t, err)
	}

	assert.Equal(t, int(space.Size()), ledger.Len())
}

func TestRandomSamplerFallsBackToScan(t *testing.T) {
	space := mixedSpace(t)
	ledger := NewLedger()

	// Claim everything but the last grid point.
	for idx := int64(0); idx < space.Size()-1; idx++ {
		require.NoError(t, ledger.Reserve(KeyOf(space.decode(idx))))
	}

	r := newRandomSampler(space, ledger, rand.New(rand.NewSource(11)), 1)

	s, stats, err := r.next()
	require.NoError(t, err)
	assert.Equal(t, space.decode(space.Size()-1), s)
	assert.LessOrEqual(t, stats.rejections, 1)

	// Nothing left at all.
	_, stats, err = r.next()
	assert.True(t, errors.Is(err, ErrExhaustedSpace))
	assert.True(t, stats.scanned)
}

func TestRandomSamplerScanWrapsAround(t *testing.T) {
	space := mixedSpace(t)
	ledger := NewLedger()

	// Only index 0 is free, so every scan start other than 0 must wrap.
	for idx := int64(1); idx < space.Size(); idx++ {
		require.NoError(t, ledger.Reserve(KeyOf(space.decode(idx))))
	}

	r := newRandomSampler(space, ledger, rand.New(rand.NewSource(5)), 1)

	s, err := r.scan()
	require.NoError(t, err)
	assert.Equal(t, space.decode(0), s)
}

func TestRandomSamplerIgnoresForeignHistory(t *testing.T) {
	space := mixedSpace(t)
	ledger := NewLedger()

	// Keys outside the space occupy the ledger but no point.
	ledger.Seed([]Trial{
		{Assignments: set("threads", "8", "cache", "on", "batch", "8")},
		{Assignments: set("threads", "1")},
	})

	r := newRandomSampler(space, ledger, rand.New(rand.NewSource(9)), 2)

	for i := int64(0); i < space.Size(); i++ {
		_, _, err := r.next()
		require.NoError(t, err)
	}

	assert.Equal(t, int(space.Size())+2, ledger.Len())
}
