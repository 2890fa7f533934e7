package suggest

import "github.com/pkg/errors"

// sampleStats describes how a point was found.
type sampleStats struct {
	rejections int
	scanned    bool
}

// sampler hands out one unclaimed point per call and reserves it in the
// request ledger.
type sampler interface {
	next() (AssignmentSet, sampleStats, error)
}

// gridSampler walks the space in mixed-radix order starting at a given
// index. The output depends only on the space and the start index.
type gridSampler struct {
	space  *Space
	ledger *Ledger
	cursor int64
}

// newGridSampler continues the enumeration at start, normally the number of
// trials already handed out, so that successive calls of one session never
// restart from zero.
func newGridSampler(space *Space, ledger *Ledger, start int64) *gridSampler {
	return &gridSampler{space: space, ledger: ledger, cursor: start}
}

func (g *gridSampler) next() (AssignmentSet, sampleStats, error) {
	if g.cursor < 0 || g.cursor >= g.space.size {
		return nil, sampleStats{}, errors.Wrapf(ErrExhaustedSpace, "grid index %d outside [0, %d)", g.cursor, g.space.size)
	}

	set := g.space.decode(g.cursor)

	// A collision here means the history does not match the grid prefix
	// the capacity check assumed.
	if err := g.ledger.Reserve(KeyOf(set)); err != nil {
		return nil, sampleStats{}, errors.Wrapf(ErrExhaustedSpace, "grid index %d: %v", g.cursor, err)
	}

	g.cursor++

	return set, sampleStats{}, nil
}
