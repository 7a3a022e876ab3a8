package framework

import "math/rand"

// Solution couples a binary decision vector with its point in the objective
// space. Solutions are evaluated once on construction and never re-evaluated,
// so a stored solution can be shared freely between archives.
type Solution struct {
	Bits       []bool
	Objectives ObjectiveSpacePoint
}

// NewSolution evaluates bits against ev and returns the resulting solution.
// The bit slice is owned by the returned solution afterwards.
func NewSolution(bits []bool, ev Evaluator) *Solution {
	return &Solution{
		Bits:       bits,
		Objectives: ev.Evaluate(bits),
	}
}

// NewRandomSolution draws every bit uniformly at random and evaluates the
// result.
func NewRandomSolution(rng *rand.Rand, ev Evaluator) *Solution {
	bits := make([]bool, ev.N())
	for i := range bits {
		bits[i] = rng.Intn(2) == 1
	}
	return NewSolution(bits, ev)
}

// UniformFlipNeighbor returns a new solution derived from s by flipping each
// bit independently with probability 1/N, evaluated against ev.
func UniformFlipNeighbor(rng *rand.Rand, s *Solution, ev Evaluator) *Solution {
	p := 1.0 / float64(len(s.Bits))
	bits := make([]bool, len(s.Bits))
	copy(bits, s.Bits)
	for i := range bits {
		if rng.Float64() < p {
			bits[i] = !bits[i]
		}
	}
	return NewSolution(bits, ev)
}

// FlipNeighbor returns a new solution derived from s by flipping exactly the
// bit at position i, evaluated against ev.
func FlipNeighbor(s *Solution, i int, ev Evaluator) *Solution {
	bits := make([]bool, len(s.Bits))
	copy(bits, s.Bits)
	bits[i] = !bits[i]
	return NewSolution(bits, ev)
}

// Clone returns a deep copy of s.
func (s *Solution) Clone() *Solution {
	bits := make([]bool, len(s.Bits))
	copy(bits, s.Bits)
	return &Solution{
		Bits:       bits,
		Objectives: s.Objectives.Clone(),
	}
}

// SameBits reports whether s and o encode the same decision vector.
func (s *Solution) SameBits(o *Solution) bool {
	if len(s.Bits) != len(o.Bits) {
		return false
	}
	for i := range s.Bits {
		if s.Bits[i] != o.Bits[i] {
			return false
		}
	}
	return true
}

// GASolution extends Solution with the scalar fitness used by indicator-based
// selection.
type GASolution struct {
	Solution
	Fitness float64
}

// NewRandomGASolution draws a random solution and wraps it with a zero
// fitness.
func NewRandomGASolution(rng *rand.Rand, ev Evaluator) *GASolution {
	return &GASolution{Solution: *NewRandomSolution(rng, ev)}
}

// Clone returns a deep copy of s including its fitness.
func (s *GASolution) Clone() *GASolution {
	return &GASolution{
		Solution: *s.Solution.Clone(),
		Fitness:  s.Fitness,
	}
}
