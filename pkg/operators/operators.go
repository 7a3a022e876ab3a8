// Package operators holds the variation, selection and binary quality
// indicator operators used by the indicator-based evolutionary algorithm.
// Operators draw all randomness from the *rand.Rand handed in by the
// calling algorithm, so runs stay reproducible under a single seed.
package operators

import (
	"math/rand"

	"github.com/moobench/anymop/pkg/framework"
)

// Indicator is a binary quality indicator over points in the objective
// space. Value(a, b) measures how much a would have to improve to cover b.
type Indicator interface {
	Value(a, b framework.ObjectiveSpacePoint) float64
}

// Crossover recombines two solutions in place. Callers re-evaluate the
// offspring afterwards.
type Crossover interface {
	Cross(rng *rand.Rand, a, b *framework.GASolution)
}

// Mutation perturbs a solution in place. Callers re-evaluate afterwards.
type Mutation interface {
	Mutate(rng *rand.Rand, s *framework.GASolution)
}

// Selection draws a mating pool from the population. The returned solutions
// are copies, so variation operators can modify them freely.
type Selection interface {
	Select(rng *rand.Rand, pop []*framework.GASolution) []*framework.GASolution
}
