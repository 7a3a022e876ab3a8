package algorithms

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"k8s.io/klog/v2"

	"github.com/moobench/anymop/pkg/framework"
	"github.com/moobench/anymop/pkg/hv"
)

// Acceptance decides which neighbors a Pareto local search keeps.
type Acceptance string

// Acceptance criteria. AcceptNonDominating keeps any neighbor the archive
// accepts. AcceptDominating keeps only neighbors that dominate their pivot.
// AcceptBoth scans for dominating neighbors first and falls back to plain
// archive acceptance over the already evaluated candidates when none is found.
const (
	AcceptNonDominating Acceptance = "NON_DOMINATING"
	AcceptDominating    Acceptance = "DOMINATING"
	AcceptBoth          Acceptance = "BOTH"
)

// ParseAcceptance maps a command line token to an Acceptance, ignoring case.
func ParseAcceptance(s string) (Acceptance, error) {
	a := Acceptance(strings.ToUpper(s))
	switch a {
	case AcceptNonDominating, AcceptDominating, AcceptBoth:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown acceptance criterion %q", ErrConfig, s)
}

// Exploration decides when a Pareto local search stops scanning a
// neighborhood.
type Exploration string

// Exploration criteria. ExploreBest scans all N neighbors of a pivot,
// ExploreFirst stops a scan at the first accepted neighbor, and ExploreBoth
// runs the whole search with ExploreFirst and then restarts it from the
// front found so far with ExploreBest.
const (
	ExploreBest  Exploration = "BEST_IMPROVEMENT"
	ExploreFirst Exploration = "FIRST_IMPROVEMENT"
	ExploreBoth  Exploration = "BOTH"
)

// ParseExploration maps a command line token to an Exploration, ignoring
// case.
func ParseExploration(s string) (Exploration, error) {
	e := Exploration(strings.ToUpper(s))
	switch e {
	case ExploreBest, ExploreFirst, ExploreBoth:
		return e, nil
	}
	return "", fmt.Errorf("%w: unknown exploration criterion %q", ErrConfig, s)
}

// PLSConfig carries the parameters of a Pareto local search run.
type PLSConfig struct {
	// Evaluator maps decision vectors to objective vectors.
	Evaluator framework.Evaluator
	// MaxEval is the evaluation budget spent after the initial solution.
	MaxEval int
	// Seed initializes the random stream.
	Seed int64
	// Acceptance selects the neighbor acceptance criterion. Empty means
	// AcceptNonDominating.
	Acceptance Acceptance
	// Exploration selects the neighborhood exploration criterion. Empty
	// means ExploreBest.
	Exploration Exploration
	// HVRef is the hypervolume reference point. Nil means the origin.
	HVRef framework.ObjectiveSpacePoint
}

// Validate reports the first problem with the configuration.
func (c *PLSConfig) Validate() error {
	if c.Evaluator == nil {
		return fmt.Errorf("%w: evaluator is required", ErrConfig)
	}
	if c.MaxEval < 0 {
		return fmt.Errorf("%w: maxeval %d is negative", ErrConfig, c.MaxEval)
	}
	switch c.Acceptance {
	case "", AcceptNonDominating, AcceptDominating, AcceptBoth:
	default:
		return fmt.Errorf("%w: unknown acceptance criterion %q", ErrConfig, c.Acceptance)
	}
	switch c.Exploration {
	case "", ExploreBest, ExploreFirst, ExploreBoth:
	default:
		return fmt.Errorf("%w: unknown exploration criterion %q", ErrConfig, c.Exploration)
	}
	if c.HVRef != nil && len(c.HVRef) != c.Evaluator.M() {
		return fmt.Errorf("%w: reference point has %d components, want %d", ErrConfig, len(c.HVRef), c.Evaluator.M())
	}
	return nil
}

// PLS is the Pareto local search. It pops uniformly random pivots from a
// queue of unexplored solutions and offers their Hamming-1 neighbors, taken
// in bit order, to the archive.
type PLS struct {
	cfg PLSConfig

	rng        *rand.Rand
	archive    *framework.Archive
	hvo        *hv.Engine
	trace      framework.Trace
	evaluation int
}

var _ framework.Algorithm = &PLS{}

// NewPLS validates cfg, fills in the default criteria and returns a runnable
// PLS.
func NewPLS(cfg PLSConfig) (*PLS, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", PLSName, err)
	}
	if cfg.Acceptance == "" {
		cfg.Acceptance = AcceptNonDominating
	}
	if cfg.Exploration == "" {
		cfg.Exploration = ExploreBest
	}
	if cfg.HVRef == nil {
		cfg.HVRef = make(framework.ObjectiveSpacePoint, cfg.Evaluator.M())
	}
	p := &PLS{cfg: cfg}
	p.reset()
	return p, nil
}

func (p *PLS) reset() {
	p.rng = rand.New(rand.NewSource(p.cfg.Seed))
	p.archive = framework.NewArchive()
	p.hvo = hv.NewEngine(p.cfg.HVRef)
	p.trace = nil
	p.evaluation = 0
}

// Name implements framework.Algorithm.
func (p *PLS) Name() string { return PLSName }

// Archive returns the non-dominated set found by the last run.
func (p *PLS) Archive() *framework.Archive { return p.archive }

// Trace returns the anytime hypervolume trace of the last run.
func (p *PLS) Trace() framework.Trace { return p.trace }

// Run searches until the evaluation budget is spent or no unexplored
// solution remains. Calling Run again replays the identical run.
func (p *PLS) Run(ctx context.Context) error {
	logger := klog.FromContext(ctx)
	p.reset()
	logger.V(4).Info("starting run", "algorithm", p.Name(), "maxeval", p.cfg.MaxEval,
		"acceptance", p.cfg.Acceptance, "exploration", p.cfg.Exploration, "seed", p.cfg.Seed)

	init := framework.NewRandomSolution(p.rng, p.cfg.Evaluator)
	p.hvo.Insert(init.Objectives)
	queue := framework.NewArchive()
	queue.Add(init)
	p.archive = queue.Clone()
	p.record()

	if p.cfg.Exploration == ExploreBoth {
		p.explore(queue, ExploreFirst)
		// Restart from the front found so far.
		p.explore(p.archive.Clone(), ExploreBest)
	} else {
		p.explore(queue, p.cfg.Exploration)
	}

	logger.V(4).Info("run finished", "algorithm", p.Name(),
		"evaluations", p.evaluation+1, "archive", p.archive.Len(), "hypervolume", p.hvo.Value())
	return nil
}

// explore drains queue until the budget is spent or the queue empties.
func (p *PLS) explore(queue *framework.Archive, mode Exploration) {
	for p.evaluation < p.cfg.MaxEval && queue.Len() > 0 {
		pivot := queue.TakeAt(p.rng.Intn(queue.Len()))
		p.scan(queue, pivot, mode)
	}
}

// scan walks the Hamming-1 neighborhood of pivot and applies the configured
// acceptance criterion to every neighbor.
func (p *PLS) scan(queue *framework.Archive, pivot *framework.Solution, mode Exploration) {
	requireDominating := p.cfg.Acceptance != AcceptNonDominating
	useRemaining := p.cfg.Acceptance == AcceptBoth
	var remaining []*framework.Solution

	for i := 0; i < len(pivot.Bits) && p.evaluation < p.cfg.MaxEval; i++ {
		s := framework.FlipNeighbor(pivot, i, p.cfg.Evaluator)
		p.evaluation++

		accepted := false
		if requireDominating {
			if framework.Compare(s.Objectives, pivot.Objectives) == framework.Dominates && p.archive.Add(s) {
				accepted = true
				useRemaining = false
			} else if useRemaining {
				remaining = append(remaining, s)
			}
		} else {
			accepted = p.archive.Add(s)
		}

		if accepted {
			p.hvo.Insert(s.Objectives)
			queue.Add(s)
			p.record()
			if mode == ExploreFirst {
				break
			}
		}
	}

	if !useRemaining {
		return
	}
	// No neighbor dominated the pivot. Reconsider the stashed candidates
	// under plain archive acceptance, without spending further evaluations.
	for _, s := range remaining {
		if p.archive.Add(s) {
			p.hvo.Insert(s.Objectives)
			queue.Add(s)
			p.record()
			if mode == ExploreFirst {
				return
			}
		}
	}
}

func (p *PLS) record() {
	p.trace = append(p.trace, framework.Record{Evaluation: p.evaluation, Hypervolume: p.hvo.Value()})
}
