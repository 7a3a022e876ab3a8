package algorithms

import (
	"testing"

	"github.com/moobench/anymop/pkg/framework"
)

// lotz is the classic leading-ones trailing-zeros benchmark. Its Pareto
// front is the set of strings of the form 1^i 0^(n-i).
type lotz struct {
	n int
}

func (l lotz) M() int { return 2 }
func (l lotz) N() int { return l.n }

func (l lotz) Evaluate(bits []bool) framework.ObjectiveSpacePoint {
	leading := 0
	for _, b := range bits {
		if !b {
			break
		}
		leading++
	}
	trailing := 0
	for i := len(bits) - 1; i >= 0; i-- {
		if bits[i] {
			break
		}
		trailing++
	}
	return framework.ObjectiveSpacePoint{float64(leading), float64(trailing)}
}

// checkArchive fails the test when the archive holds comparable members or
// repeated decision vectors.
func checkArchive(t *testing.T, a *framework.Archive) {
	t.Helper()
	items := a.Items()
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			switch framework.Compare(items[i].Objectives, items[j].Objectives) {
			case framework.Dominates, framework.Dominated:
				t.Errorf("archive members %d and %d are comparable: %v vs %v",
					i, j, items[i].Objectives, items[j].Objectives)
			}
			if items[i].SameBits(items[j]) {
				t.Errorf("archive members %d and %d share a decision vector", i, j)
			}
		}
	}
}

// checkTrace fails the test when the trace is empty, loses hypervolume or
// steps backwards in evaluations.
func checkTrace(t *testing.T, trace framework.Trace) {
	t.Helper()
	if len(trace) == 0 {
		t.Fatal("trace is empty")
	}
	for i := 1; i < len(trace); i++ {
		if trace[i].Hypervolume < trace[i-1].Hypervolume {
			t.Errorf("hypervolume drops at record %d: %v -> %v",
				i, trace[i-1].Hypervolume, trace[i].Hypervolume)
		}
		if trace[i].Evaluation < trace[i-1].Evaluation {
			t.Errorf("evaluation drops at record %d: %d -> %d",
				i, trace[i-1].Evaluation, trace[i].Evaluation)
		}
	}
}
