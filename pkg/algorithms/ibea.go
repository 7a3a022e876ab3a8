package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"k8s.io/klog/v2"

	"github.com/moobench/anymop/pkg/framework"
	"github.com/moobench/anymop/pkg/hv"
	"github.com/moobench/anymop/pkg/operators"
)

// IBEAConfig carries the parameters of an IBEA run.
type IBEAConfig struct {
	// Evaluator maps decision vectors to objective vectors.
	Evaluator framework.Evaluator
	// MaxEval is the evaluation budget. Seeding the population consumes one
	// evaluation per initial solution.
	MaxEval int
	// Seed initializes the random stream.
	Seed int64
	// PopulationSize caps the population between generations.
	PopulationSize int
	// Generations caps the number of generations.
	Generations int
	// ScalingFactor is the kappa constant dividing indicator values in the
	// fitness kernel.
	ScalingFactor float64
	// Adaptive additionally divides by the largest absolute pairwise
	// indicator value over the normalized population.
	Adaptive bool
	// Indicator compares pairs of objective vectors for fitness assignment.
	Indicator operators.Indicator
	// Crossover recombines consecutive mating pool pairs.
	Crossover operators.Crossover
	// Mutation perturbs every mating pool member.
	Mutation operators.Mutation
	// Selection draws the mating pool from the population.
	Selection operators.Selection
	// HVRef is the hypervolume reference point. Nil means the origin.
	HVRef framework.ObjectiveSpacePoint
}

// Validate reports the first problem with the configuration.
func (c *IBEAConfig) Validate() error {
	if c.Evaluator == nil {
		return fmt.Errorf("%w: evaluator is required", ErrConfig)
	}
	if c.MaxEval < 0 {
		return fmt.Errorf("%w: maxeval %d is negative", ErrConfig, c.MaxEval)
	}
	if c.PopulationSize < 1 {
		return fmt.Errorf("%w: population size %d is not positive", ErrConfig, c.PopulationSize)
	}
	if c.Generations < 0 {
		return fmt.Errorf("%w: generation count %d is negative", ErrConfig, c.Generations)
	}
	if c.ScalingFactor <= 0 {
		return fmt.Errorf("%w: scaling factor %v is not positive", ErrConfig, c.ScalingFactor)
	}
	if c.Indicator == nil || c.Crossover == nil || c.Mutation == nil || c.Selection == nil {
		return fmt.Errorf("%w: indicator, crossover, mutation and selection operators are all required", ErrConfig)
	}
	if c.HVRef != nil && len(c.HVRef) != c.Evaluator.M() {
		return fmt.Errorf("%w: reference point has %d components, want %d", ErrConfig, len(c.HVRef), c.Evaluator.M())
	}
	return nil
}

// IBEA is the indicator-based evolutionary algorithm. A population evolves
// through indicator-driven tournament selection, crossover and mutation;
// every evaluated child is offered to the archive regardless of whether it
// survives environmental selection.
type IBEA struct {
	cfg IBEAConfig

	rng        *rand.Rand
	archive    *framework.Archive
	hvo        *hv.Engine
	trace      framework.Trace
	evaluation int
	generation int
	c          float64
}

var _ framework.Algorithm = &IBEA{}

// NewIBEA validates cfg and returns a runnable IBEA.
func NewIBEA(cfg IBEAConfig) (*IBEA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", IBEAName, err)
	}
	if cfg.HVRef == nil {
		cfg.HVRef = make(framework.ObjectiveSpacePoint, cfg.Evaluator.M())
	}
	b := &IBEA{cfg: cfg}
	b.reset()
	return b, nil
}

func (b *IBEA) reset() {
	b.rng = rand.New(rand.NewSource(b.cfg.Seed))
	b.archive = framework.NewArchive()
	b.hvo = hv.NewEngine(b.cfg.HVRef)
	b.trace = nil
	b.evaluation = 0
	b.generation = 0
	b.c = 1
}

// Name implements framework.Algorithm.
func (b *IBEA) Name() string { return IBEAName }

// Archive returns the non-dominated set found by the last run.
func (b *IBEA) Archive() *framework.Archive { return b.archive }

// Trace returns the anytime hypervolume trace of the last run.
func (b *IBEA) Trace() framework.Trace { return b.trace }

// Run evolves the population until the evaluation budget is spent or the
// generation cap is reached. The budget is checked between generations only,
// so the last generation may run over it. Calling Run again replays the
// identical run.
func (b *IBEA) Run(ctx context.Context) error {
	logger := klog.FromContext(ctx)
	b.reset()
	logger.V(4).Info("starting run", "algorithm", b.Name(), "maxeval", b.cfg.MaxEval,
		"population", b.cfg.PopulationSize, "generations", b.cfg.Generations,
		"adaptive", b.cfg.Adaptive, "seed", b.cfg.Seed)

	population := make([]*framework.GASolution, 0, b.cfg.PopulationSize)
	for i := 0; i < b.cfg.PopulationSize && b.evaluation < b.cfg.MaxEval; i++ {
		s := framework.NewRandomGASolution(b.rng, b.cfg.Evaluator)
		if b.archive.Add(&s.Solution) {
			b.hvo.Insert(s.Objectives)
			b.record()
		}
		population = append(population, s)
		b.evaluation++
	}

	if b.evaluation < b.cfg.MaxEval {
		b.assignFitness(population)
	}

	for ; b.evaluation < b.cfg.MaxEval && b.generation < b.cfg.Generations; b.generation++ {
		pool := b.cfg.Selection.Select(b.rng, population)

		for i := 0; i+1 < len(pool); i += 2 {
			b.cfg.Crossover.Cross(b.rng, pool[i], pool[i+1])
		}
		for _, child := range pool {
			b.cfg.Mutation.Mutate(b.rng, child)
			child.Objectives = b.cfg.Evaluator.Evaluate(child.Bits)
		}

		// Fitness is reassigned over the pre-mating population. The children
		// enter environmental selection with the fitness they inherited from
		// their parents at selection time.
		b.assignFitness(population)

		for _, child := range pool {
			if b.archive.Add(&child.Solution) {
				b.hvo.Insert(child.Objectives)
				b.record()
			}
			population = append(population, child)
			b.evaluation++
		}

		population = b.reduce(population)
	}

	b.record()
	logger.V(4).Info("run finished", "algorithm", b.Name(), "evaluations", b.evaluation,
		"generations", b.generation, "archive", b.archive.Len(), "hypervolume", b.hvo.Value())
	return nil
}

// assignFitness recomputes every fitness from scratch as the negated sum of
// exponential indicator losses against the rest of the population.
func (b *IBEA) assignFitness(population []*framework.GASolution) {
	b.c = 1
	if b.cfg.Adaptive {
		b.c = b.adaptiveFactor(population)
	}
	k := b.cfg.ScalingFactor * b.c
	for i, s := range population {
		fitness := 0.0
		for j, o := range population {
			if i != j {
				fitness -= math.Exp(-b.cfg.Indicator.Value(o.Objectives, s.Objectives) / k)
			}
		}
		s.Fitness = fitness
	}
}

// adaptiveFactor scales all objective components into [-1, 0] with a single
// pair of bounds and returns the largest absolute pairwise indicator value
// over the scaled copies. Degenerate populations yield 1 so the fitness
// kernel's divisor stays finite.
func (b *IBEA) adaptiveFactor(population []*framework.GASolution) float64 {
	ub, lb := math.Inf(-1), math.Inf(1)
	for _, s := range population {
		for _, v := range s.Objectives {
			ub = math.Max(ub, v)
			lb = math.Min(lb, v)
		}
	}
	if ub == lb {
		return 1
	}

	scaled := make([]framework.ObjectiveSpacePoint, len(population))
	for i, s := range population {
		o := make(framework.ObjectiveSpacePoint, len(s.Objectives))
		for j, v := range s.Objectives {
			o[j] = (v - ub) / (ub - lb)
		}
		scaled[i] = o
	}

	c := 0.0
	for i := range scaled {
		for j := range scaled {
			if i != j {
				c = math.Max(c, math.Abs(b.cfg.Indicator.Value(scaled[i], scaled[j])))
			}
		}
	}
	if c == 0 {
		return 1
	}
	return c
}

// reduce trims the population back to the configured size. Each removal
// withdraws the removed member's term from every survivor's fitness.
func (b *IBEA) reduce(population []*framework.GASolution) []*framework.GASolution {
	k := b.cfg.ScalingFactor * b.c
	for len(population) > b.cfg.PopulationSize {
		worst := 0
		for i := 1; i < len(population); i++ {
			if population[i].Fitness < population[worst].Fitness {
				worst = i
			}
		}

		last := len(population) - 1
		population[worst], population[last] = population[last], population[worst]
		removed := population[last]
		population = population[:last]
		for _, s := range population {
			s.Fitness += math.Exp(-b.cfg.Indicator.Value(removed.Objectives, s.Objectives) / k)
		}
	}
	return population
}

func (b *IBEA) record() {
	b.trace = append(b.trace, framework.Record{
		Evaluation:  b.evaluation,
		Generation:  b.generation,
		Hypervolume: b.hvo.Value(),
	})
}
