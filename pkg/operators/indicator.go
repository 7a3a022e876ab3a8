package operators

import (
	"github.com/moobench/anymop/pkg/framework"
	"github.com/moobench/anymop/pkg/hv"
)

// EpsilonPlus is the additive epsilon indicator: the smallest amount that,
// added to every objective of a, would make a weakly dominate b. It is
// negative when a already strictly dominates b.
type EpsilonPlus struct{}

var _ Indicator = EpsilonPlus{}

func (EpsilonPlus) Value(a, b framework.ObjectiveSpacePoint) float64 {
	eps := b[0] - a[0]
	for i := 1; i < len(a); i++ {
		if d := b[i] - a[i]; d > eps {
			eps = d
		}
	}
	return eps
}

// IHD is the binary hypervolume difference indicator with respect to a fixed
// reference point: the volume dominated by b but not by a.
type IHD struct {
	Ref framework.ObjectiveSpacePoint
}

var _ Indicator = IHD{}

func (ind IHD) Value(a, b framework.ObjectiveSpacePoint) float64 {
	if framework.WeaklyDominates(a, b) {
		return hv.PointHV(b, ind.Ref) - hv.PointHV(a, ind.Ref)
	}
	e := hv.NewEngine(ind.Ref)
	e.Insert(a)
	e.Insert(b)
	return e.Value() - hv.PointHV(a, ind.Ref)
}
