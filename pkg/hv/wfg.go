// Package hv implements incremental hypervolume computation with the WFG
// algorithm. All objectives are maximized and every point handed to the
// package must weakly dominate the reference point.
package hv

import (
	"math"
	"sort"

	"github.com/moobench/anymop/pkg/framework"
)

type point = framework.ObjectiveSpacePoint

// Engine maintains a set of mutually non-dominated points together with the
// hypervolume they dominate with respect to a fixed reference point. Inserts
// and removes update the value incrementally instead of recomputing it from
// scratch. The stored set is kept sorted by the first objective in
// descending order.
type Engine struct {
	ref   point
	set   []point
	value float64
}

// NewEngine returns an engine with an empty set and the given reference
// point.
func NewEngine(ref framework.ObjectiveSpacePoint) *Engine {
	return &Engine{ref: ref.Clone()}
}

// Value returns the hypervolume of the current set.
func (e *Engine) Value() float64 {
	return e.value
}

// Reference returns the reference point the engine was built with. Callers
// must not modify it.
func (e *Engine) Reference() framework.ObjectiveSpacePoint {
	return e.ref
}

// Len returns the number of stored points.
func (e *Engine) Len() int {
	return len(e.set)
}

// Contribution returns the exclusive hypervolume v would add to the current
// set, without modifying it.
func (e *Engine) Contribution(v framework.ObjectiveSpacePoint) float64 {
	return PointHV(v, e.ref) - setHV(limitSet(e.set, v), e.ref, 1)
}

// Insert adds v to the set when its contribution is nonzero and returns that
// contribution. Points adding no volume leave the engine untouched, so the
// stored set never holds dominated or duplicate points.
func (e *Engine) Insert(v framework.ObjectiveSpacePoint) float64 {
	c := e.Contribution(v)
	if c != 0 {
		insertNonDominated(v.Clone(), &e.set)
		e.value += c
	}
	return c
}

// Remove deletes the stored point equal to v and returns the hypervolume
// lost, measured against the remaining set. It returns -1 when no stored
// point equals v.
func (e *Engine) Remove(v framework.ObjectiveSpacePoint) float64 {
	idx := -1
	for i, p := range e.set {
		if equalPoints(p, v) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return -1
	}
	e.set = append(e.set[:idx], e.set[idx+1:]...)
	c := e.Contribution(v)
	e.value -= c
	return c
}

// PointHV returns the volume of the axis aligned box spanned by p and r.
func PointHV(p, r framework.ObjectiveSpacePoint) float64 {
	res := p[0] - r[0]
	for i := 1; i < len(p); i++ {
		res *= p[i] - r[i]
	}
	return res
}

// Compute returns the hypervolume of an arbitrary collection of points with
// respect to ref, from scratch. Dominated and duplicate points are
// tolerated. It sums every point's box volume minus the volume shared with
// the points sorted after it.
func Compute(points []framework.ObjectiveSpacePoint, ref framework.ObjectiveSpacePoint) float64 {
	set := make([]point, len(points))
	for i, p := range points {
		set[i] = point(p)
	}
	sort.Slice(set, func(i, j int) bool { return set[i][0] < set[j][0] })
	return computeWFG(set, ref)
}

func computeWFG(s []point, ref point) float64 {
	res := 0.0
	for i, p := range s {
		res += PointHV(p, ref) - computeWFG(limitSetFull(s[i+1:], p), ref)
	}
	return res
}

func equalPoints(a, b point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// weaklyDominatesTail checks a[1:] >= b[1:]. Inside a set sorted by the
// first objective that check is sufficient to decide weak dominance.
func weaklyDominatesTail(a, b point) bool {
	for i := 1; i < len(a); i++ {
		if a[i] < b[i] {
			return false
		}
	}
	return true
}

// insertNonDominated inserts v into the set, which is sorted by the first
// objective in descending order, dropping v or any stored points that become
// weakly dominated. The sort is preserved by shifting displaced points.
func insertNonDominated(v point, set *[]point) {
	s := *set
	i := 0

	for ; i < len(s) && s[i][0] > v[0]; i++ {
		if weaklyDominatesTail(s[i], v) {
			return
		}
	}

	for ; i < len(s) && s[i][0] == v[0]; i++ {
		if weaklyDominatesTail(s[i], v) {
			return
		}
		if weaklyDominatesTail(v, s[i]) {
			s[i] = v
			*set = filterDominated(s, i, i+1)
			return
		}
	}

	if i == len(s) {
		*set = append(s, v)
		return
	}

	aux := v
	aux, s[i] = s[i], aux
	for j := i + 1; j < len(s); j++ {
		if weaklyDominatesTail(s[i], aux) {
			*set = filterDominated(s, i, j)
			return
		}
		aux, s[j] = s[j], aux
	}
	if !weaklyDominatesTail(s[i], aux) {
		*set = append(s, aux)
	}
}

// filterDominated compacts s in place, removing from positions [from, len)
// every point weakly dominated in the tail objectives by s[keep].
func filterDominated(s []point, keep, from int) []point {
	out := s[:from]
	for j := from; j < len(s); j++ {
		if !weaklyDominatesTail(s[keep], s[j]) {
			out = append(out, s[j])
		}
	}
	return out
}

// insertNonDominatedFull is the unsorted variant used on freshly limited
// sets. It compares all objectives.
func insertNonDominatedFull(v point, set *[]point) {
	s := *set
	for i := 0; i < len(s); i++ {
		if framework.WeaklyDominates(s[i], v) {
			return
		}
		if framework.WeaklyDominates(v, s[i]) {
			last := len(s) - 1
			s[i] = s[last]
			s = s[:last]
			out := s[:i]
			for j := i; j < len(s); j++ {
				if !framework.WeaklyDominates(v, s[j]) {
					out = append(out, s[j])
				}
			}
			s = out
			break
		}
	}
	*set = append(s, v)
}

// limitSet replaces every point of s by its componentwise minimum with v and
// keeps only the non-dominated results, preserving the descending sort.
func limitSet(s []point, v point) []point {
	res := make([]point, 0, len(s))
	for _, p := range s {
		aux := make(point, len(p))
		for i := range p {
			aux[i] = math.Min(p[i], v[i])
		}
		insertNonDominated(aux, &res)
	}
	return res
}

func limitSetFull(s []point, v point) []point {
	res := make([]point, 0, len(s))
	for _, p := range s {
		aux := make(point, len(p))
		for i := range p {
			aux[i] = math.Min(p[i], v[i])
		}
		insertNonDominatedFull(aux, &res)
	}
	return res
}

// setHV computes the hypervolume of s against reference r, scaled by c. The
// set must be sorted by the first objective in descending order. Dedicated
// kernels terminate the recursion below four dimensions; higher dimensions
// peel the first objective off and recurse.
func setHV(s []point, r point, c float64) float64 {
	if len(s) == 0 {
		return 0
	}

	switch len(s[0]) {
	case 1:
		// A non-dominated one dimensional set holds a single point.
		return c * (s[0][0] - r[0])
	case 2:
		v := 0.0
		r1 := r[1]
		for _, p := range s {
			v += (p[1] - r1) * (p[0] - r[0])
			r1 = p[1]
		}
		return v * c
	case 3:
		return c * setHV3D(s, r)
	default:
		v := 0.0
		newr := r[1:]
		newl := make([]point, 0, len(s))
		for _, p := range s {
			newc := c * (p[0] - r[0])
			newp := p[1:]
			v += newc*PointHV(newp, newr) - setHV(limitSet(newl, newp), newr, newc)
			insertNonDominated(newp, &newl)
		}
		return v
	}
}

// setHV3D sweeps s along the first objective while maintaining a staircase
// over the other two, sorted by the third objective in descending order.
// Sentinel steps at the reference coordinates bound the staircase walk.
func setHV3D(s []point, r point) float64 {
	aux := [][2]float64{
		{r[1], math.Inf(1)},
		{math.Inf(1), r[2]},
	}

	v, a, z := 0.0, 0.0, 0.0
	for _, p := range s {
		v += a * (z - p[0])
		z = p[0]

		tmp := [2]float64{p[1], p[2]}
		it := sort.Search(len(aux), func(i int) bool { return aux[i][1] <= tmp[1] })
		jt := it

		r0 := aux[it-1][0]
		r1 := tmp[1]
		for ; aux[it][0] <= tmp[0]; it++ {
			a += (tmp[0] - r0) * (r1 - aux[it][1])
			r0 = aux[it][0]
			r1 = aux[it][1]
		}
		a += (tmp[0] - r0) * (r1 - aux[it][1])

		if jt != it {
			aux[jt] = tmp
			aux = append(aux[:jt+1], aux[it:]...)
		} else {
			aux = append(aux, [2]float64{})
			copy(aux[it+1:], aux[it:])
			aux[it] = tmp
		}
	}
	v += a * (z - r[0])
	return v
}
