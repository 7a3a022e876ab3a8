// Package algorithms implements the anytime multi-objective optimizers:
// global simple evolutionary multi-objective optimization (GSEMO), Pareto
// local search (PLS) and the indicator-based evolutionary algorithm (IBEA).
//
// All three share the same skeleton: one seeded random stream, a
// non-dominated archive, an incremental hypervolume engine and an anytime
// trace that gains a record whenever the archive accepts a solution.
package algorithms

import "errors"

// Algorithm names as reported by Name and used by the command line driver.
const (
	GSEMOName = "GSEMO"
	PLSName   = "PLS"
	IBEAName  = "IBEA"
)

// ErrConfig tags configuration errors so callers can tell them apart from
// runtime failures.
var ErrConfig = errors.New("invalid configuration")
