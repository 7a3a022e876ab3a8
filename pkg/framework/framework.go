package framework

import "context"

// ObjectiveSpacePoint represents an M-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// Clone returns a copy of p backed by fresh storage.
func (p ObjectiveSpacePoint) Clone() ObjectiveSpacePoint {
	out := make(ObjectiveSpacePoint, len(p))
	copy(out, p)
	return out
}

// Evaluator maps a binary decision vector to a point in the objective space.
// All objectives are maximized.
type Evaluator interface {
	// M returns the number of objectives.
	M() int
	// N returns the length of the decision vector in bits.
	N() int
	// Evaluate computes the objective values for the given decision vector.
	Evaluate(bits []bool) ObjectiveSpacePoint
}

// Algorithm describes the contract that a MOO algorithm needs to implement.
// Run consumes the whole evaluation budget before returning; the context
// carries the logger.
type Algorithm interface {
	Name() string
	Run(ctx context.Context) error
}
