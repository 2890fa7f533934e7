package suggest

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Parameter is one dimension of a Space with its feasible values sorted
// lexicographically and de-duplicated.
type Parameter struct {
	Name           string
	Type           ParameterType
	FeasibleValues []string
}

// Cardinality is the number of feasible values.
func (p Parameter) Cardinality() int64 {
	return int64(len(p.FeasibleValues))
}

// Space is the Cartesian product of a set of parameters.
//
// Parameters are kept sorted by name. That order is the digit order of the
// mixed-radix index used by the grid sampler, so it must not change between
// calls of one tuning session.
//
// A Space is immutable once built.
type Space struct {
	parameters []Parameter

	// strides[i] is the product of the cardinalities after dimension i.
	strides []int64

	size int64
}

// NewSpace builds the space described by specs.
//
// It fails with ErrInvalidSpec when specs is empty, a name is empty or
// repeated, or a parameter has no feasible values, and with
// ErrCapacityOverflow when the number of points does not fit in int64.
func NewSpace(specs []ParameterSpec) (*Space, error) {
	if len(specs) == 0 {
		return nil, errors.Wrap(ErrInvalidSpec, "no parameters declared")
	}

	params := make([]Parameter, 0, len(specs))

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, errors.Wrap(ErrInvalidSpec, "parameter with empty name")
		}

		if len(spec.FeasibleValues) == 0 {
			return nil, errors.Wrapf(ErrInvalidSpec, "parameter %q has no feasible values", spec.Name)
		}

		values := slices.Clone(spec.FeasibleValues)
		slices.Sort(values)

		params = append(params, Parameter{
			Name:           spec.Name,
			Type:           spec.Type,
			FeasibleValues: slices.Compact(values),
		})
	}

	slices.SortFunc(params, func(a, b Parameter) int {
		return strings.Compare(a.Name, b.Name)
	})

	for i := 1; i < len(params); i++ {
		if params[i].Name == params[i-1].Name {
			return nil, errors.Wrapf(ErrInvalidSpec, "parameter %q declared more than once", params[i].Name)
		}
	}

	size := int64(1)

	for _, p := range params {
		var ok bool

		size, ok = mulChecked(size, p.Cardinality(), math.MaxInt64)
		if !ok {
			return nil, errors.Wrapf(ErrCapacityOverflow, "overflow while adding parameter %q", p.Name)
		}
	}

	strides := make([]int64, len(params))
	stride := int64(1)

	for i := len(params) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= params[i].Cardinality()
	}

	return &Space{
		parameters: params,
		strides:    strides,
		size:       size,
	}, nil
}

// Size is the number of distinct points in the space.
func (s *Space) Size() int64 { return s.size }

// Dimension is the number of parameters.
func (s *Space) Dimension() int { return len(s.parameters) }

// Parameters returns the parameters in dimension order. Callers must not
// modify the result.
func (s *Space) Parameters() []Parameter { return s.parameters }

// Decode maps idx in [0, Size) to its point. Dimension 0 is the most
// significant digit.
func (s *Space) Decode(idx int64) (AssignmentSet, error) {
	if idx < 0 || idx >= s.size {
		return nil, errors.Wrapf(ErrInvalidSpec, "index %d outside [0, %d)", idx, s.size)
	}

	return s.decode(idx), nil
}

func (s *Space) decode(idx int64) AssignmentSet {
	set := make(AssignmentSet, len(s.parameters))

	for i, p := range s.parameters {
		digit := (idx / s.strides[i]) % p.Cardinality()
		set[i] = Assignment{Key: p.Name, Value: p.FeasibleValues[digit]}
	}

	return set
}

// point builds the assignment set for one digit per dimension.
func (s *Space) point(digits []int64) AssignmentSet {
	set := make(AssignmentSet, len(s.parameters))

	for i, p := range s.parameters {
		set[i] = Assignment{Key: p.Name, Value: p.FeasibleValues[digits[i]]}
	}

	return set
}

// index is the inverse of decode for a digit vector.
func (s *Space) index(digits []int64) int64 {
	var idx int64

	for i, d := range digits {
		idx += d * s.strides[i]
	}

	return idx
}
