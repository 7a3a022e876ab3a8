package rmnk

import (
	"fmt"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// GeneratorConfig describes a synthetic rMNK-landscape draw.
type GeneratorConfig struct {
	// Rho is the correlation between the contributions of different
	// objectives. It must stay above -1/(M-1) and below 1 for the
	// equicorrelation matrix to remain positive definite.
	Rho float64
	// M is the number of objectives.
	M int
	// N is the length of the bit string.
	N int
	// K is the epistasis degree. Every contribution depends on its own bit
	// plus K others.
	K int
	// Seed fixes the draw.
	Seed int64
}

// Validate checks the dimensions and the feasibility of the correlation.
func (cfg GeneratorConfig) Validate() error {
	if cfg.M < 1 {
		return fmt.Errorf("M must be at least 1, got %d", cfg.M)
	}
	if cfg.N < 1 {
		return fmt.Errorf("N must be at least 1, got %d", cfg.N)
	}
	if cfg.K < 0 || cfg.K+1 > cfg.N {
		return fmt.Errorf("K must be in [0, N-1], got %d with N = %d", cfg.K, cfg.N)
	}
	if cfg.M > 1 && (cfg.Rho >= 1 || cfg.Rho <= -1.0/float64(cfg.M-1)) {
		return fmt.Errorf("correlation %g is infeasible for %d objectives", cfg.Rho, cfg.M)
	}
	return nil
}

// Generate draws an instance. Contribution tuples across objectives follow a
// Gaussian copula with equicorrelation Rho, which keeps every marginal
// contribution uniform on [0, 1]. Each contribution links its own bit first
// and K distinct other bits, drawn independently per objective.
func Generate(cfg GeneratorConfig) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := exprand.New(exprand.NewSource(uint64(cfg.Seed)))

	sigma := mat.NewSymDense(cfg.M, nil)
	for a := 0; a < cfg.M; a++ {
		sigma.SetSym(a, a, 1)
		for b := a + 1; b < cfg.M; b++ {
			sigma.SetSym(a, b, cfg.Rho)
		}
	}
	normal, ok := distmv.NewNormal(make([]float64, cfg.M), sigma, rng)
	if !ok {
		return nil, fmt.Errorf("correlation %g is infeasible for %d objectives", cfg.Rho, cfg.M)
	}

	width := 1 << uint(cfg.K+1)
	links := make([][][]int, cfg.M)
	tables := make([][][]float64, cfg.M)
	for obj := range links {
		links[obj] = make([][]int, cfg.N)
		tables[obj] = make([][]float64, cfg.N)
		for i := 0; i < cfg.N; i++ {
			links[obj][i] = make([]int, cfg.K+1)
			tables[obj][i] = make([]float64, width)
		}
	}

	for obj := range links {
		for i := 0; i < cfg.N; i++ {
			links[obj][i][0] = i
			taken := make([]bool, cfg.N)
			taken[i] = true
			for j := 1; j <= cfg.K; j++ {
				v := rng.Intn(cfg.N)
				for taken[v] {
					v = rng.Intn(cfg.N)
				}
				taken[v] = true
				links[obj][i][j] = v
			}
		}
	}

	z := make([]float64, cfg.M)
	for i := 0; i < cfg.N; i++ {
		for j := 0; j < width; j++ {
			normal.Rand(z)
			for obj := 0; obj < cfg.M; obj++ {
				tables[obj][i][j] = distuv.UnitNormal.CDF(z[obj])
			}
		}
	}

	return New(cfg.Rho, links, tables)
}
