package algorithms

import (
	"context"
	"fmt"
	"math/rand"

	"k8s.io/klog/v2"

	"github.com/moobench/anymop/pkg/framework"
	"github.com/moobench/anymop/pkg/hv"
)

// GSEMOConfig carries the parameters of a GSEMO run.
type GSEMOConfig struct {
	// Evaluator maps decision vectors to objective vectors.
	Evaluator framework.Evaluator
	// MaxEval is the evaluation budget spent after the initial solution.
	MaxEval int
	// Seed initializes the random stream.
	Seed int64
	// HVRef is the hypervolume reference point. Nil means the origin.
	HVRef framework.ObjectiveSpacePoint
}

// Validate reports the first problem with the configuration.
func (c *GSEMOConfig) Validate() error {
	if c.Evaluator == nil {
		return fmt.Errorf("%w: evaluator is required", ErrConfig)
	}
	if c.MaxEval < 0 {
		return fmt.Errorf("%w: maxeval %d is negative", ErrConfig, c.MaxEval)
	}
	if c.HVRef != nil && len(c.HVRef) != c.Evaluator.M() {
		return fmt.Errorf("%w: reference point has %d components, want %d", ErrConfig, len(c.HVRef), c.Evaluator.M())
	}
	return nil
}

// GSEMO is the global simple evolutionary multi-objective optimizer. Every
// step picks a uniformly random archive member, flips each of its bits with
// probability 1/N and offers the result to the archive.
type GSEMO struct {
	cfg GSEMOConfig

	rng     *rand.Rand
	archive *framework.Archive
	hvo     *hv.Engine
	trace   framework.Trace
}

var _ framework.Algorithm = &GSEMO{}

// NewGSEMO validates cfg and returns a runnable GSEMO.
func NewGSEMO(cfg GSEMOConfig) (*GSEMO, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", GSEMOName, err)
	}
	if cfg.HVRef == nil {
		cfg.HVRef = make(framework.ObjectiveSpacePoint, cfg.Evaluator.M())
	}
	g := &GSEMO{cfg: cfg}
	g.reset()
	return g, nil
}

func (g *GSEMO) reset() {
	g.rng = rand.New(rand.NewSource(g.cfg.Seed))
	g.archive = framework.NewArchive()
	g.hvo = hv.NewEngine(g.cfg.HVRef)
	g.trace = nil
}

// Name implements framework.Algorithm.
func (g *GSEMO) Name() string { return GSEMOName }

// Archive returns the non-dominated set found by the last run.
func (g *GSEMO) Archive() *framework.Archive { return g.archive }

// Trace returns the anytime hypervolume trace of the last run.
func (g *GSEMO) Trace() framework.Trace { return g.trace }

// Run spends the whole evaluation budget. The initial random solution is not
// counted against it, so MaxEval+1 evaluations happen in total. Calling Run
// again replays the identical run.
func (g *GSEMO) Run(ctx context.Context) error {
	logger := klog.FromContext(ctx)
	g.reset()
	logger.V(4).Info("starting run", "algorithm", g.Name(), "maxeval", g.cfg.MaxEval, "seed", g.cfg.Seed)

	s := framework.NewRandomSolution(g.rng, g.cfg.Evaluator)
	g.hvo.Insert(s.Objectives)
	g.archive.Add(s)
	g.record(0)

	for i := 0; i < g.cfg.MaxEval; i++ {
		parent := g.archive.Items()[g.rng.Intn(g.archive.Len())]
		child := framework.UniformFlipNeighbor(g.rng, parent, g.cfg.Evaluator)
		if g.archive.Add(child) {
			g.hvo.Insert(child.Objectives)
			g.record(i + 1)
		}
	}

	logger.V(4).Info("run finished", "algorithm", g.Name(),
		"evaluations", g.cfg.MaxEval+1, "archive", g.archive.Len(), "hypervolume", g.hvo.Value())
	return nil
}

func (g *GSEMO) record(evaluation int) {
	g.trace = append(g.trace, framework.Record{Evaluation: evaluation, Hypervolume: g.hvo.Value()})
}
