package suggest

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// newRand returns the generator for one request. Policy: seed == 0 seeds
// from the clock, anything else is used verbatim so runs can be replayed.
//
// A *rand.Rand is not goroutine-safe; never share the result between
// requests.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed))
}

// randomSampler draws uniform points and rejects those already in the
// ledger.
//
// How it works:
// 1. Draw one independent uniform digit per dimension
// 2. If the resulting point is in the ledger, redraw the whole point
// 3. After maxRetries consecutive rejections, scan the space in grid order
// from a random start index and take the first unclaimed point
//
// maxRetries <= 0 disables step 3 and keeps redrawing until a free point
// turns up.
type randomSampler struct {
	space      *Space
	ledger     *Ledger
	rng        *rand.Rand
	maxRetries int
	digits     []int64
}

func newRandomSampler(space *Space, ledger *Ledger, rng *rand.Rand, maxRetries int) *randomSampler {
	return &randomSampler{
		space:      space,
		ledger:     ledger,
		rng:        rng,
		maxRetries: maxRetries,
		digits:     make([]int64, space.Dimension()),
	}
}

func (r *randomSampler) draw() {
	for i, p := range r.space.parameters {
		r.digits[i] = r.rng.Int63n(p.Cardinality())
	}
}

func (r *randomSampler) next() (AssignmentSet, sampleStats, error) {
	var stats sampleStats

	for r.maxRetries <= 0 || stats.rejections < r.maxRetries {
		r.draw()

		set := r.space.point(r.digits)
		key := KeyOf(set)

		if r.ledger.Contains(key) {
			stats.rejections++
			continue
		}

		if err := r.ledger.Reserve(key); err != nil {
			return nil, stats, errors.Wrap(ErrExhaustedSpace, err.Error())
		}

		return set, stats, nil
	}

	stats.scanned = true

	set, err := r.scan()

	return set, stats, err
}

// scan walks the grid order with wrap-around from a random index. Every
// skipped in-space point is a distinct ledger entry, so a free point is
// found within ledger.Len()+1 steps whenever one exists.
func (r *randomSampler) scan() (AssignmentSet, error) {
	size := r.space.size

	limit := int64(r.ledger.Len()) + 1
	if limit > size {
		limit = size
	}

	r.draw()
	start := r.space.index(r.digits)

	for n := int64(0); n < limit; n++ {
		idx := start + n
		if n >= size-start {
			idx = n - (size - start)
		}

		set := r.space.decode(idx)
		key := KeyOf(set)

		if r.ledger.Contains(key) {
			continue
		}

		if err := r.ledger.Reserve(key); err != nil {
			return nil, errors.Wrap(ErrExhaustedSpace, err.Error())
		}

		return set, nil
	}

	return nil, errors.Wrapf(ErrExhaustedSpace, "no unclaimed point among %d scanned", limit)
}
