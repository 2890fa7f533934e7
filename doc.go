// Package suggest provides grid and random parameter suggestions over a
// discrete Cartesian parameter space. Given the declared parameters and the
// trials already handed out, it returns new assignments that were never
// offered before.
//
// # Features
//
// The package includes the following key features:
//
//   - Grid Sampling: Deterministic mixed-radix enumeration that continues
//     where the previous call of a tuning session left off
//   - Random Sampling: Uniform draws with rejection of already-seen points
//     and a bounded fallback scan once the space is nearly exhausted
//   - De-duplication: Canonical, order-independent trial keys
//   - Capacity Checks: Requests that cannot be served are rejected up front
//     and never partially answered
//   - Stateless Service: Every call owns its state, so one Service can serve
//     concurrent requests
//   - Progress Monitoring: Optional per-point updates via channels
//
// # Parameter Space
//
// Each parameter is a name and a list of feasible string values. Values are
// sorted lexicographically and parameters by name; that order defines which
// point a grid index refers to:
//
//	specs := []suggest.ParameterSpec{
//	    {Name: "cpu", FeasibleValues: []string{"1", "2"}},
//	    {Name: "memory", FeasibleValues: []string{"10", "20"}},
//	}
//
// yields a space of size 4 whose grid indices 0..3 decode to
// (cpu=1,memory=10), (cpu=1,memory=20), (cpu=2,memory=10), (cpu=2,memory=20).
//
// The declared ParameterType is carried along but never interpreted.
//
// # Algorithms
//
// Grid ("grid") starts at index len(ExistingResults) and emits consecutive
// grid indices. It assumes the history is exactly the grid prefix handed out
// by earlier calls:
//
//	svc := suggest.New(suggest.DefaultConfig())
//
//	resp, err := svc.Suggest(&suggest.Request{
//	    Algorithm:        suggest.AlgorithmGrid,
//	    RequiredSampling: 2,
//	    Parameters:       specs,
//	})
//
// Random ("random") draws every dimension independently and uniformly, and
// redraws the whole point when it was already evaluated or offered. The
// settings "random_state" (seed) and "max_retries" tune the sampler:
//
//	resp, err := svc.Suggest(&suggest.Request{
//	    Algorithm:        suggest.AlgorithmRandom,
//	    Settings:         map[string]string{"random_state": "42"},
//	    RequiredSampling: 2,
//	    Parameters:       specs,
//	})
//
// # Capacity
//
// A request can be served when
//
//	RequiredSampling <= min(space size, RequestedTotal) - len(ExistingResults)
//
// RequestedTotal <= 0 means no budget beyond the size of the space.
//
// # Errors
//
// All errors wrap one of ErrInvalidSpec, ErrCapacityOverflow,
// ErrUnsupportedAlgorithm, ErrInsufficientCapacity, ErrExhaustedSpace or
// ErrAlreadyReserved:
//
//	if errors.Is(err, suggest.ErrInsufficientCapacity) {
//	    // ask for fewer points
//	}
//
// The rpc sub-package exposes the Service over gRPC and cmd/suggestd runs it
// as a standalone process.
package suggest
