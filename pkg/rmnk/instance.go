// Package rmnk loads, evaluates, generates and writes rMNK-landscape
// instances, the correlated multi-objective extension of Kauffman's
// NK-landscapes.
package rmnk

import (
	"fmt"

	"github.com/moobench/anymop/pkg/framework"
)

// Instance is an rMNK-landscape. Each of the m objectives is an
// NK-landscape over the same n bits: bit i contributes a table value
// selected by the states of its k+1 linked bits, and the objective is the
// mean contribution. All objective values fall in [0, 1] for generated
// instances.
type Instance struct {
	rho float64
	m   int
	n   int
	k   int

	// links[obj][i][j] is the index of the j-th bit feeding contribution i
	// of objective obj. tables[obj][i] has 1<<(k+1) entries indexed by the
	// packed states of those bits.
	links  [][][]int
	tables [][][]float64
}

var _ framework.Evaluator = &Instance{}

// New builds an instance from explicit link and table data. Dimensions are
// derived from the slices and validated.
func New(rho float64, links [][][]int, tables [][][]float64) (*Instance, error) {
	inst := &Instance{rho: rho, links: links, tables: tables}

	inst.m = len(links)
	if inst.m == 0 {
		return nil, fmt.Errorf("instance must have at least one objective")
	}
	if len(tables) != inst.m {
		return nil, fmt.Errorf("links describe %d objectives, tables %d", inst.m, len(tables))
	}
	inst.n = len(links[0])
	if inst.n == 0 {
		return nil, fmt.Errorf("instance must have at least one bit")
	}
	inst.k = len(links[0][0]) - 1

	if err := inst.validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) validate() error {
	if inst.k < 0 {
		return fmt.Errorf("contribution %d of objective %d has no links", 0, 0)
	}
	if inst.k+1 > inst.n {
		return fmt.Errorf("epistasis degree %d needs more bits than the %d available", inst.k, inst.n)
	}
	width := 1 << uint(inst.k+1)
	for obj := 0; obj < inst.m; obj++ {
		if len(inst.links[obj]) != inst.n || len(inst.tables[obj]) != inst.n {
			return fmt.Errorf("objective %d does not cover all %d bits", obj, inst.n)
		}
		for i := 0; i < inst.n; i++ {
			if len(inst.links[obj][i]) != inst.k+1 {
				return fmt.Errorf("contribution %d of objective %d has %d links, want %d", i, obj, len(inst.links[obj][i]), inst.k+1)
			}
			if len(inst.tables[obj][i]) != width {
				return fmt.Errorf("contribution %d of objective %d has %d table entries, want %d", i, obj, len(inst.tables[obj][i]), width)
			}
			for j, v := range inst.links[obj][i] {
				if v < 0 || v >= inst.n {
					return fmt.Errorf("link %d of contribution %d, objective %d points outside the bit string: %d", j, i, obj, v)
				}
			}
		}
	}
	return nil
}

// M returns the number of objectives.
func (inst *Instance) M() int { return inst.m }

// N returns the length of the bit string.
func (inst *Instance) N() int { return inst.n }

// K returns the epistasis degree, the number of extra bits feeding each
// contribution.
func (inst *Instance) K() int { return inst.k }

// Rho returns the correlation the contribution tuples were drawn with.
func (inst *Instance) Rho() float64 { return inst.rho }

// Evaluate computes the m objective values of the given bit string.
func (inst *Instance) Evaluate(bits []bool) framework.ObjectiveSpacePoint {
	out := make(framework.ObjectiveSpacePoint, inst.m)
	for obj := 0; obj < inst.m; obj++ {
		accu := 0.0
		for i := 0; i < inst.n; i++ {
			accu += inst.tables[obj][i][inst.sigma(obj, bits, i)]
		}
		out[obj] = accu / float64(inst.n)
	}
	return out
}

// sigma packs the states of the bits linked to contribution i of objective
// obj into a table index, least significant bit first.
func (inst *Instance) sigma(obj int, bits []bool, i int) int {
	accu := 0
	for j := 0; j <= inst.k; j++ {
		if bits[inst.links[obj][i][j]] {
			accu |= 1 << uint(j)
		}
	}
	return accu
}
