package framework

// Relation is the outcome of comparing two points in the objective space
// under Pareto dominance.
type Relation int

const (
	// Incomparable means each point is strictly better on some objective.
	Incomparable Relation = iota
	// Dominates means the first point is at least as good everywhere and
	// strictly better somewhere.
	Dominates
	// Dominated is the mirror of Dominates.
	Dominated
	// Equal means the points coincide on every objective.
	Equal
)

func (r Relation) String() string {
	switch r {
	case Dominates:
		return "dominates"
	case Dominated:
		return "dominated"
	case Equal:
		return "equal"
	default:
		return "incomparable"
	}
}

// Compare classifies a against b. Objectives are maximized, so a component
// where a exceeds b counts in favor of a. The walk short-circuits as soon as
// both points have won on some component.
func Compare(a, b ObjectiveSpacePoint) Relation {
	res := Equal
	for i := range a {
		switch {
		case a[i] > b[i]:
			if res == Dominated {
				return Incomparable
			}
			res = Dominates
		case a[i] < b[i]:
			if res == Dominates {
				return Incomparable
			}
			res = Dominated
		}
	}
	return res
}

// WeaklyDominates reports whether every component of a is at least the
// matching component of b.
func WeaklyDominates(a, b ObjectiveSpacePoint) bool {
	for i := range a {
		if a[i] < b[i] {
			return false
		}
	}
	return true
}
