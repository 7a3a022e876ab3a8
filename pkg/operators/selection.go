package operators

import (
	"math/rand"

	"github.com/moobench/anymop/pkg/framework"
)

// KWayTournament fills a mating pool of PoolSize copies, each won by the
// fittest of TournamentSize contenders drawn with replacement. Ties keep
// the earliest draw.
type KWayTournament struct {
	TournamentSize int
	PoolSize       int
}

var _ Selection = KWayTournament{}

func (s KWayTournament) Select(rng *rand.Rand, pop []*framework.GASolution) []*framework.GASolution {
	pool := make([]*framework.GASolution, 0, s.PoolSize)
	for i := 0; i < s.PoolSize; i++ {
		best := rng.Intn(len(pop))
		for j := 0; j < s.TournamentSize-1; j++ {
			other := rng.Intn(len(pop))
			if pop[other].Fitness > pop[best].Fitness {
				best = other
			}
		}
		pool = append(pool, pop[best].Clone())
	}
	return pool
}
