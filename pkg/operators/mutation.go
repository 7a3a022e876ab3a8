package operators

import (
	"math/rand"

	"github.com/moobench/anymop/pkg/framework"
)

// UniformMutation flips every bit independently with probability P.
type UniformMutation struct {
	P float64
}

var _ Mutation = UniformMutation{}

func (m UniformMutation) Mutate(rng *rand.Rand, s *framework.GASolution) {
	for i := range s.Bits {
		if rng.Float64() < m.P {
			s.Bits[i] = !s.Bits[i]
		}
	}
}
