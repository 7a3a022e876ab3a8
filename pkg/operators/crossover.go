package operators

import (
	"math/rand"

	"github.com/moobench/anymop/pkg/framework"
)

// NPointCrossover swaps aligned segments between two parents. When the rate
// gate passes, Points boundaries are drawn in order, each at or after the
// previous one, and the bits between consecutive boundaries are exchanged.
type NPointCrossover struct {
	Points int
	Rate   float64
}

var _ Crossover = NPointCrossover{}

func (c NPointCrossover) Cross(rng *rand.Rand, a, b *framework.GASolution) {
	if rng.Float64() >= c.Rate {
		return
	}
	n := len(a.Bits)
	p1 := 0
	for i := 0; i < c.Points; i++ {
		p2 := p1 + rng.Intn(n-p1)
		for j := p1; j < p2; j++ {
			a.Bits[j], b.Bits[j] = b.Bits[j], a.Bits[j]
		}
		p1 = p2
	}
}

// UniformCrossover exchanges each aligned bit pair on a fair coin flip. The
// rate is carried for the driver's sake but does not gate the operator.
type UniformCrossover struct {
	Rate float64
}

var _ Crossover = UniformCrossover{}

func (UniformCrossover) Cross(rng *rand.Rand, a, b *framework.GASolution) {
	for i := range a.Bits {
		if rng.Intn(2) == 1 {
			a.Bits[i], b.Bits[i] = b.Bits[i], a.Bits[i]
		}
	}
}
