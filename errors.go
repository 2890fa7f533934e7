package suggest

import "github.com/pkg/errors"

// Error taxonomy. Every error returned by this package wraps exactly one of
// these; match with errors.Is.
var (
	// ErrInvalidSpec reports a malformed or degenerate parameter space or
	// request.
	ErrInvalidSpec = errors.New("invalid parameter specification")

	// ErrCapacityOverflow reports a space whose size does not fit in int64.
	ErrCapacityOverflow = errors.New("parameter space size overflows int64")

	// ErrUnsupportedAlgorithm reports an algorithm outside the supported set.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrInsufficientCapacity reports a request for more points than remain
	// unclaimed.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrExhaustedSpace reports a reservation collision after the capacity
	// check passed. The history supplied across calls is inconsistent.
	ErrExhaustedSpace = errors.New("parameter space exhausted")

	// ErrAlreadyReserved is the ledger-level form of ErrExhaustedSpace.
	ErrAlreadyReserved = errors.New("trial already reserved")
)
