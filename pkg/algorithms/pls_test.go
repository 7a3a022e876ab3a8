package algorithms

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/moobench/anymop/pkg/framework"
)

func TestParseAcceptance(t *testing.T) {
	tests := []struct {
		in   string
		want Acceptance
	}{
		{"NON_DOMINATING", AcceptNonDominating},
		{"non_dominating", AcceptNonDominating},
		{"Dominating", AcceptDominating},
		{"both", AcceptBoth},
	}
	for _, tt := range tests {
		got, err := ParseAcceptance(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseAcceptance(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseAcceptance("fastest"); !errors.Is(err, ErrConfig) {
		t.Errorf("ParseAcceptance(fastest) error = %v, want ErrConfig", err)
	}
}

func TestParseExploration(t *testing.T) {
	tests := []struct {
		in   string
		want Exploration
	}{
		{"BEST_IMPROVEMENT", ExploreBest},
		{"first_improvement", ExploreFirst},
		{"Both", ExploreBoth},
	}
	for _, tt := range tests {
		got, err := ParseExploration(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseExploration(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseExploration("greedy"); !errors.Is(err, ErrConfig) {
		t.Errorf("ParseExploration(greedy) error = %v, want ErrConfig", err)
	}
}

func TestPLSZeroBudget(t *testing.T) {
	p, err := NewPLS(PLSConfig{Evaluator: lotz{n: 8}, Seed: 3})
	if err != nil {
		t.Fatalf("NewPLS: %v", err)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(p.Trace()); got != 1 {
		t.Fatalf("trace has %d records, want 1 for the initial solution", got)
	}
	if p.Trace()[0].Evaluation != 0 {
		t.Errorf("initial record at evaluation %d, want 0", p.Trace()[0].Evaluation)
	}
	if p.Archive().Len() != 1 {
		t.Errorf("archive holds %d solutions, want 1", p.Archive().Len())
	}
}

// With a budget larger than the whole search space times N the queue must
// empty, and a full neighborhood scan guarantees that every surviving
// archive member is a Pareto local optimum.
func TestPLSBestImprovementReachesLocalOptimum(t *testing.T) {
	for _, acceptance := range []Acceptance{AcceptNonDominating, AcceptDominating} {
		ev := lotz{n: 8}
		p, err := NewPLS(PLSConfig{
			Evaluator:   ev,
			MaxEval:     5000,
			Seed:        3,
			Acceptance:  acceptance,
			Exploration: ExploreBest,
		})
		if err != nil {
			t.Fatalf("%s: NewPLS: %v", acceptance, err)
		}
		if err := p.Run(context.Background()); err != nil {
			t.Fatalf("%s: Run: %v", acceptance, err)
		}

		trace := p.Trace()
		checkTrace(t, trace)
		checkArchive(t, p.Archive())

		if last := trace[len(trace)-1].Evaluation; last >= 5000 {
			t.Errorf("%s: expected the queue to empty before the budget, last record at %d", acceptance, last)
		}
		for _, s := range p.Archive().Items() {
			for i := range s.Bits {
				nb := framework.FlipNeighbor(s, i, ev)
				if framework.Compare(nb.Objectives, s.Objectives) == framework.Dominates {
					t.Errorf("%s: neighbor %v of archived %v dominates it", acceptance, nb.Objectives, s.Objectives)
				}
			}
		}
	}
}

func TestPLSFirstImprovement(t *testing.T) {
	p, err := NewPLS(PLSConfig{
		Evaluator:   lotz{n: 8},
		MaxEval:     1000,
		Seed:        5,
		Acceptance:  AcceptNonDominating,
		Exploration: ExploreFirst,
	})
	if err != nil {
		t.Fatalf("NewPLS: %v", err)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	checkTrace(t, p.Trace())
	checkArchive(t, p.Archive())
	if last := p.Trace()[len(p.Trace())-1].Evaluation; last > 1000 {
		t.Errorf("record beyond the budget: evaluation %d", last)
	}
}

func TestPLSBothBoth(t *testing.T) {
	run := func() (*PLS, framework.Trace) {
		p, err := NewPLS(PLSConfig{
			Evaluator:   lotz{n: 10},
			MaxEval:     5000,
			Seed:        17,
			Acceptance:  AcceptBoth,
			Exploration: ExploreBoth,
		})
		if err != nil {
			t.Fatalf("NewPLS: %v", err)
		}
		if err := p.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		return p, p.Trace()
	}

	p, trace := run()
	checkTrace(t, trace)
	checkArchive(t, p.Archive())
	if final, first := trace[len(trace)-1].Hypervolume, trace[0].Hypervolume; final < first {
		t.Errorf("final hypervolume %v below initial %v", final, first)
	}

	_, again := run()
	if diff := cmp.Diff(trace, again); diff != "" {
		t.Errorf("same seed produced different traces (-first +second):\n%s", diff)
	}
}

// A pivot on the local front has no dominating neighbor, so under BOTH
// acceptance the scan falls back to plain archive acceptance over the
// stashed candidates.
func TestPLSScanFallsBackWhenNothingDominates(t *testing.T) {
	ev := lotz{n: 3}
	p, err := NewPLS(PLSConfig{Evaluator: ev, MaxEval: 100, Acceptance: AcceptBoth})
	if err != nil {
		t.Fatalf("NewPLS: %v", err)
	}

	pivot := framework.NewSolution([]bool{true, true, true}, ev)
	p.archive.Add(pivot)
	queue := framework.NewArchive()
	p.scan(queue, pivot, ExploreBest)

	if p.evaluation != 3 {
		t.Errorf("scan spent %d evaluations, want 3", p.evaluation)
	}
	// Only the neighbor 110 with objectives (2, 1) is incomparable to the
	// pivot's (3, 0); the others are dominated.
	if p.archive.Len() != 2 {
		t.Fatalf("archive holds %d solutions, want 2", p.archive.Len())
	}
	if queue.Len() != 1 {
		t.Fatalf("queue holds %d solutions, want 1", queue.Len())
	}
	got := queue.Items()[0].Objectives
	if got[0] != 2 || got[1] != 1 {
		t.Errorf("queued neighbor has objectives %v, want (2, 1)", got)
	}
	if len(p.trace) != 1 || p.trace[0].Evaluation != 3 {
		t.Errorf("trace = %+v, want one record at evaluation 3", p.trace)
	}
}

// A dominated pivot is replaced by its dominating neighbors, and once one is
// accepted the fallback pass is skipped.
func TestPLSScanAcceptsDominatingNeighbors(t *testing.T) {
	ev := lotz{n: 3}
	p, err := NewPLS(PLSConfig{Evaluator: ev, MaxEval: 100, Acceptance: AcceptBoth})
	if err != nil {
		t.Fatalf("NewPLS: %v", err)
	}

	// 010 scores (0, 1); flipping bit 0 yields 110 with (2, 1) and flipping
	// bit 1 yields 000 with (0, 3), both dominating the pivot.
	pivot := framework.NewSolution([]bool{false, true, false}, ev)
	p.archive.Add(pivot)
	queue := framework.NewArchive()
	p.scan(queue, pivot, ExploreBest)

	if p.evaluation != 3 {
		t.Errorf("scan spent %d evaluations, want 3", p.evaluation)
	}
	checkArchive(t, p.archive)
	if p.archive.Len() != 2 {
		t.Fatalf("archive holds %d solutions, want the two dominating neighbors", p.archive.Len())
	}
	for _, s := range p.archive.Items() {
		if framework.Compare(s.Objectives, pivot.Objectives) != framework.Dominates {
			t.Errorf("archived %v does not dominate the pivot %v", s.Objectives, pivot.Objectives)
		}
	}
	if len(p.trace) != 2 || p.trace[0].Evaluation != 1 || p.trace[1].Evaluation != 2 {
		t.Errorf("trace = %+v, want records at evaluations 1 and 2", p.trace)
	}
}

func TestPLSConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  PLSConfig
	}{
		{"missing evaluator", PLSConfig{MaxEval: 10}},
		{"negative budget", PLSConfig{Evaluator: lotz{n: 4}, MaxEval: -1}},
		{"bad acceptance", PLSConfig{Evaluator: lotz{n: 4}, Acceptance: "GREEDY"}},
		{"bad exploration", PLSConfig{Evaluator: lotz{n: 4}, Exploration: "RANDOM"}},
		{"short reference", PLSConfig{Evaluator: lotz{n: 4}, HVRef: framework.ObjectiveSpacePoint{0}}},
	}
	for _, tt := range tests {
		if _, err := NewPLS(tt.cfg); !errors.Is(err, ErrConfig) {
			t.Errorf("%s: NewPLS error = %v, want ErrConfig", tt.name, err)
		}
	}
}
