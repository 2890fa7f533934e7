package suggest

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

//////
// Exported functionalities.
//////

// maxPreallocated caps the capacity reserved up front for a response.
const maxPreallocated = 1024

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Seed:         0, // Seed from the clock.
		MaxRetries:   1000,
		ProgressChan: nil, // Default to no progress updates.
	}
}

// Service answers suggestion and validation requests.
//
// Important notes:
// - Thread-safe: the Service only holds its Config. Every call builds its own
// Space, Ledger and random generator and discards them on return
// - Stateless: nothing learned in one call is visible to the next. The
// caller supplies the complete history every time
type Service struct {
	config Config
}

// New returns a Service using config.
func New(config Config) *Service {
	return &Service{config: config}
}

// ValidateAlgorithm checks that name is a supported algorithm. It does not
// look at any parameter space.
func ValidateAlgorithm(name string) error {
	switch name {
	case AlgorithmGrid, AlgorithmRandom:
		return nil
	default:
		return errors.Wrapf(ErrUnsupportedAlgorithm, "algorithm %q is not supported", name)
	}
}

// Validate is the pre-flight check used at experiment configuration time.
// Besides the algorithm it parses the settings and, when parameters are
// present, builds the space to surface ErrInvalidSpec and
// ErrCapacityOverflow early. No sampling is performed.
func (s *Service) Validate(req *ValidationRequest) error {
	if req == nil {
		return errors.Wrap(ErrInvalidSpec, "nil validation request")
	}

	if err := ValidateAlgorithm(req.Algorithm); err != nil {
		return err
	}

	if _, err := ParseSettings(req.Settings); err != nil {
		return err
	}

	if len(req.Parameters) == 0 {
		return nil
	}

	_, err := NewSpace(req.Parameters)

	return err
}

// Suggest returns req.RequiredSampling assignment sets that are pairwise
// distinct and absent from req.ExistingResults.
//
// How it works:
// 1. Validates the algorithm and its settings
// 2. Builds the Space and seeds a Ledger with the history
// 3. Checks capacity: min(space size, RequestedTotal) minus the number of
// existing results must cover RequiredSampling
// 4. Draws points one at a time with the grid or random sampler, each point
// reserved in the Ledger as it is emitted
//
// Errors:
// - ErrUnsupportedAlgorithm: unknown algorithm
// - ErrInvalidSpec: malformed space, settings or negative RequiredSampling
// - ErrCapacityOverflow: space size does not fit in int64
// - ErrInsufficientCapacity: not enough unclaimed points; nothing is returned
// - ErrExhaustedSpace: a reservation collided although the capacity check
// passed, meaning the history is inconsistent with earlier calls
//
// Usage example:
//
//	svc := New(DefaultConfig())
//
//	resp, err := svc.Suggest(&Request{
//	    Algorithm:        AlgorithmGrid,
//	    RequiredSampling: 2,
//	    Parameters: []ParameterSpec{
//	        {Name: "cpu", FeasibleValues: []string{"1", "2"}},
//	        {Name: "memory", FeasibleValues: []string{"10", "20"}},
//	    },
//	})
func (s *Service) Suggest(req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.Wrap(ErrInvalidSpec, "nil request")
	}

	if err := ValidateAlgorithm(req.Algorithm); err != nil {
		return nil, err
	}

	settings, err := ParseSettings(req.Settings)
	if err != nil {
		return nil, err
	}

	if req.RequiredSampling < 0 {
		return nil, errors.Wrapf(ErrInvalidSpec, "required sampling %d is negative", req.RequiredSampling)
	}

	space, err := NewSpace(req.Parameters)
	if err != nil {
		return nil, err
	}

	ledger := NewLedger()
	ledger.Seed(req.ExistingResults)

	bound := space.Size()
	if req.RequestedTotal > 0 && req.RequestedTotal < bound {
		bound = req.RequestedTotal
	}

	existing := int64(len(req.ExistingResults))

	if req.RequiredSampling > bound-existing {
		return nil, errors.Wrapf(
			ErrInsufficientCapacity,
			"capacity %d (space size %d, requested total %d) is not enough to provide another %d samplings after %d existing trials",
			bound, space.Size(), req.RequestedTotal, req.RequiredSampling, existing,
		)
	}

	summary := SummarizeHistory(req.ExistingResults, req.Maximize)

	logArgs := []interface{}{
		"algorithm", req.Algorithm,
		"spaceSize", space.Size(),
		"dimension", space.Dimension(),
		"existing", existing,
		"required", req.RequiredSampling,
	}
	if summary.Best != nil {
		logArgs = append(logArgs, "bestObjective", summary.Best.ObjectiveValue, "meanObjective", summary.Mean)
	}

	klog.V(2).InfoS("New suggestions call", logArgs...)

	smp := s.newSampler(req.Algorithm, space, ledger, settings, existing)

	sets := make([]AssignmentSet, 0, min(req.RequiredSampling, maxPreallocated))

	for i := int64(0); i < req.RequiredSampling; i++ {
		set, stats, err := smp.next()
		if err != nil {
			return nil, err
		}

		sets = append(sets, set)

		klog.V(4).InfoS("Emitted assignment set",
			"algorithm", req.Algorithm,
			"position", i+1,
			"key", string(KeyOf(set)),
			"rejections", stats.rejections,
			"scanned", stats.scanned,
		)

		s.sendProgress(ProgressUpdate{
			Algorithm:   req.Algorithm,
			Emitted:     i + 1,
			Total:       req.RequiredSampling,
			Assignments: set,
			Rejections:  stats.rejections,
			Scanned:     stats.scanned,
		})
	}

	return &Response{AssignmentSets: sets}, nil
}

func (s *Service) newSampler(algorithm string, space *Space, ledger *Ledger, settings Settings, existing int64) sampler {
	if algorithm == AlgorithmGrid {
		return newGridSampler(space, ledger, existing)
	}

	seed := s.config.Seed
	if settings.HasSeed {
		seed = settings.Seed
	}

	maxRetries := s.config.MaxRetries
	if settings.HasMaxRetries {
		maxRetries = settings.MaxRetries
	}

	return newRandomSampler(space, ledger, newRand(seed), maxRetries)
}

// sendProgress never blocks; the update is dropped when the channel is
// full.
func (s *Service) sendProgress(update ProgressUpdate) {
	if s.config.ProgressChan == nil {
		return
	}

	select {
	case s.config.ProgressChan <- update:
	default:
	}
}
