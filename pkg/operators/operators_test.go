package operators

import (
	"math/rand"
	"testing"

	"github.com/moobench/anymop/pkg/framework"
)

func pt(vals ...float64) framework.ObjectiveSpacePoint {
	return framework.ObjectiveSpacePoint(vals)
}

func gaSol(bits []bool, fitness float64) *framework.GASolution {
	return &framework.GASolution{
		Solution: framework.Solution{Bits: bits},
		Fitness:  fitness,
	}
}

func repeatBits(v bool, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = v
	}
	return bits
}

func TestEpsilonPlus(t *testing.T) {
	tests := []struct {
		name string
		a, b framework.ObjectiveSpacePoint
		want float64
	}{
		{"b better everywhere", pt(1, 1), pt(2, 2), 1},
		{"a better everywhere", pt(2, 3), pt(1, 2), -1},
		{"mixed", pt(1, 3), pt(2, 1), 1},
		{"equal", pt(2, 2), pt(2, 2), 0},
	}
	for _, tt := range tests {
		if got := (EpsilonPlus{}).Value(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Value(%v, %v) = %v, want %v", tt.name, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIHD(t *testing.T) {
	ind := IHD{Ref: pt(0, 0)}

	// a weakly dominates b: difference of the two box volumes.
	if got := ind.Value(pt(2, 2), pt(1, 1)); got != -3 {
		t.Errorf("dominating case = %v, want -3", got)
	}
	// Incomparable points: union volume minus a's box.
	if got := ind.Value(pt(2, 1), pt(1, 2)); got != 1 {
		t.Errorf("incomparable case = %v, want 1", got)
	}
	// b dominates a.
	if got := ind.Value(pt(1, 1), pt(2, 2)); got != 3 {
		t.Errorf("dominated case = %v, want 3", got)
	}
}

func TestNPointCrossoverGateClosed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := gaSol(repeatBits(true, 16), 0)
	b := gaSol(repeatBits(false, 16), 0)

	NPointCrossover{Points: 2, Rate: 0}.Cross(rng, a, b)

	for i := range a.Bits {
		if !a.Bits[i] || b.Bits[i] {
			t.Fatal("crossover with zero rate modified the parents")
		}
	}
}

func TestNPointCrossoverSinglePoint(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := gaSol(repeatBits(true, 32), 0)
	b := gaSol(repeatBits(false, 32), 0)

	NPointCrossover{Points: 1, Rate: 1}.Cross(rng, a, b)

	transitions := 0
	for i := 1; i < len(a.Bits); i++ {
		if a.Bits[i] != a.Bits[i-1] {
			transitions++
		}
	}
	if transitions > 1 {
		t.Errorf("single point crossover left %d transitions in a, want at most 1", transitions)
	}
	for i := range a.Bits {
		if a.Bits[i] == b.Bits[i] {
			t.Errorf("bit %d lost its pair after crossover", i)
		}
	}
}

func TestNPointCrossoverPreservesPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	orig1 := framework.NewRandomSolution(rng, bitsOnly{n: 24}).Bits
	orig2 := framework.NewRandomSolution(rng, bitsOnly{n: 24}).Bits

	a := gaSol(append([]bool(nil), orig1...), 0)
	b := gaSol(append([]bool(nil), orig2...), 0)
	NPointCrossover{Points: 3, Rate: 1}.Cross(rng, a, b)

	for i := range a.Bits {
		straight := a.Bits[i] == orig1[i] && b.Bits[i] == orig2[i]
		swapped := a.Bits[i] == orig2[i] && b.Bits[i] == orig1[i]
		if !straight && !swapped {
			t.Fatalf("bit %d is neither kept nor swapped", i)
		}
	}
}

func TestUniformCrossover(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	a := gaSol(repeatBits(true, 64), 0)
	b := gaSol(repeatBits(false, 64), 0)

	UniformCrossover{Rate: 0.9}.Cross(rng, a, b)

	swaps := 0
	for i := range a.Bits {
		if a.Bits[i] == b.Bits[i] {
			t.Fatalf("bit %d lost its pair after crossover", i)
		}
		if !a.Bits[i] {
			swaps++
		}
	}
	if swaps == 0 || swaps == len(a.Bits) {
		t.Errorf("uniform crossover swapped %d of %d bits", swaps, len(a.Bits))
	}
}

func TestUniformCrossoverDeterminism(t *testing.T) {
	run := func() []bool {
		rng := rand.New(rand.NewSource(19))
		a := gaSol(repeatBits(true, 32), 0)
		b := gaSol(repeatBits(false, 32), 0)
		UniformCrossover{}.Cross(rng, a, b)
		return a.Bits
	}
	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("same seed produced different crossover outcomes")
		}
	}
}

func TestUniformMutationExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	s := gaSol(repeatBits(false, 20), 0)
	UniformMutation{P: 1}.Mutate(rng, s)
	for i, b := range s.Bits {
		if !b {
			t.Errorf("bit %d not flipped with probability 1", i)
		}
	}

	UniformMutation{P: 0}.Mutate(rng, s)
	for i, b := range s.Bits {
		if !b {
			t.Errorf("bit %d flipped with probability 0", i)
		}
	}
}

func TestKWayTournament(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	pop := []*framework.GASolution{
		gaSol([]bool{true, false, false}, -3),
		gaSol([]bool{false, true, false}, -1),
		gaSol([]bool{false, false, true}, -2),
	}

	pool := KWayTournament{TournamentSize: 4, PoolSize: 40}.Select(rng, pop)
	if len(pool) != 40 {
		t.Fatalf("pool size = %d, want 40", len(pool))
	}

	bestSeen := false
	for _, s := range pool {
		matched := false
		for _, p := range pop {
			if s.SameBits(&p.Solution) {
				matched = true
				if s.Fitness != p.Fitness {
					t.Error("selected copy lost its fitness")
				}
			}
		}
		if !matched {
			t.Fatal("pool member does not come from the population")
		}
		if s.SameBits(&pop[1].Solution) {
			bestSeen = true
		}
	}
	if !bestSeen {
		t.Error("fittest member never won a tournament")
	}

	// Pool members are copies.
	for _, s := range pool {
		for i := range s.Bits {
			s.Bits[i] = !s.Bits[i]
		}
	}
	want := [][]bool{{true, false, false}, {false, true, false}, {false, false, true}}
	for i, p := range pop {
		for j := range p.Bits {
			if p.Bits[j] != want[i][j] {
				t.Fatal("mutating the pool changed the population")
			}
		}
	}
}

// bitsOnly is a stub evaluator for drawing random decision vectors.
type bitsOnly struct {
	n int
}

func (e bitsOnly) M() int { return 1 }
func (e bitsOnly) N() int { return e.n }
func (e bitsOnly) Evaluate(bits []bool) framework.ObjectiveSpacePoint {
	return framework.ObjectiveSpacePoint{0}
}
