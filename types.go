package suggest

// ParameterType is advisory metadata attached to a parameter specification.
//
// Sampling never looks at it: every feasible value is an opaque string and
// any numeric interpretation is left to the caller.
type ParameterType string

// Declared parameter types.
const (
	ParameterTypeDouble      ParameterType = "double"
	ParameterTypeInt         ParameterType = "int"
	ParameterTypeDiscrete    ParameterType = "discrete"
	ParameterTypeCategorical ParameterType = "categorical"
)

// Supported algorithm identifiers.
const (
	AlgorithmGrid   = "grid"
	AlgorithmRandom = "random"
)

// ParameterSpec declares one dimension of the search space as it arrives
// from the orchestrating system.
//
// Fields:
// - Name: Unique parameter name. Also defines the dimension order (sorted)
// - Type: Advisory type, see ParameterType
// - FeasibleValues: Every value this parameter may take, in any order
//
// Usage:
//
//	specs := []ParameterSpec{
//	    {Name: "cpu", Type: ParameterTypeDiscrete, FeasibleValues: []string{"1", "2"}},
//	    {Name: "memory", Type: ParameterTypeDiscrete, FeasibleValues: []string{"10", "20"}},
//	}
type ParameterSpec struct {
	Name           string        `json:"name" yaml:"name"`
	Type           ParameterType `json:"type,omitempty" yaml:"type,omitempty"`
	FeasibleValues []string      `json:"feasible_values" yaml:"feasible_values"`
}

// Assignment binds a single parameter name to one of its feasible values.
type Assignment struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AssignmentSet holds one Assignment per parameter. Order carries no
// meaning; use KeyOf to compare two sets.
type AssignmentSet []Assignment

// Get returns the value assigned to name.
func (s AssignmentSet) Get(name string) (string, bool) {
	for _, a := range s {
		if a.Key == name {
			return a.Value, true
		}
	}

	return "", false
}

// Trial is one evaluated point of the history supplied by the caller.
type Trial struct {
	// Assignments are the parameter values the trial was run with.
	Assignments AssignmentSet `json:"assignments"`

	// ObjectiveValue is the observed objective metric.
	ObjectiveValue float64 `json:"objective_value"`
}

// Request asks for new, previously unseen assignment sets.
//
// Fields:
// - Algorithm: "grid" or "random"
// - Settings: Free-form algorithm settings, see ParseSettings
// - RequestedTotal: Overall trial budget of the experiment. Values <= 0 mean
// no explicit budget, in which case the size of the space applies
// - RequiredSampling: How many new assignment sets this call must return
// - Maximize: Optimisation direction of the objective, used for reporting
// - ExistingResults: Every trial already handed out for this experiment
// - Parameters: The parameter space
type Request struct {
	Algorithm        string            `json:"algorithm_name"`
	Settings         map[string]string `json:"algorithm_settings,omitempty"`
	RequestedTotal   int64             `json:"requested_total"`
	RequiredSampling int64             `json:"required_sampling"`
	Maximize         bool              `json:"maximize,omitempty"`
	ExistingResults  []Trial           `json:"existing_results,omitempty"`
	Parameters       []ParameterSpec   `json:"parameters"`
}

// Response carries the assignment sets produced for a Request, in the order
// they were generated.
type Response struct {
	AssignmentSets []AssignmentSet `json:"assignment_sets"`
}

// ValidationRequest is the pre-flight variant of Request. It carries no
// history and triggers no sampling.
type ValidationRequest struct {
	Algorithm  string            `json:"algorithm_name"`
	Settings   map[string]string `json:"algorithm_settings,omitempty"`
	Parameters []ParameterSpec   `json:"parameters,omitempty"`
}

// ValidationResponse is empty on success; rejections travel as errors.
type ValidationResponse struct{}

// ProgressUpdate reports a single emitted assignment set.
type ProgressUpdate struct {
	// Algorithm that produced the point.
	Algorithm string

	// Emitted is the 1-based position of the point within the response.
	Emitted int64

	// Total is the number of points the request asked for.
	Total int64

	// Assignments is the emitted point.
	Assignments AssignmentSet

	// Rejections counts the draws discarded before this point was accepted.
	// Always 0 for grid sampling.
	Rejections int

	// Scanned is true when the random sampler fell back to the exhaustive
	// scan for this point.
	Scanned bool
}

// Config holds the service-wide sampling configuration.
//
// Fields explanation:
// - Seed: Seed for the random sampler when a request carries no
// "random_state" setting. 0 means seed from the clock
// - MaxRetries: Consecutive rejected draws tolerated for one point before
// the random sampler switches to an exhaustive scan. <= 0 disables the
// fallback
// - ProgressChan: Receives one ProgressUpdate per emitted point. Sends never
// block; updates are dropped when the channel is full
//
// Note:
// - A Config is copied into the Service and never mutated afterwards, so a
// single Service can serve concurrent requests.
type Config struct {
	Seed int64

	MaxRetries int

	ProgressChan chan<- ProgressUpdate
}
