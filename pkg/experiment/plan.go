// Package experiment executes benchmark plans: batches of algorithm runs
// over rmnk-landscape instances, with per-run anytime traces and aggregated
// final hypervolume statistics.
package experiment

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/moobench/anymop/apis/anymop/v1alpha1"
	"github.com/moobench/anymop/pkg/algorithms"
)

// PlanKind is the expected kind field of a plan document.
const PlanKind = "ExperimentPlan"

// LoadPlan reads, defaults and validates a plan document.
func LoadPlan(path string) (*v1alpha1.ExperimentPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	plan := &v1alpha1.ExperimentPlan{}
	if err := yaml.UnmarshalStrict(raw, plan); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	SetDefaults(plan)
	if err := Validate(plan); err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return plan, nil
}

// SetDefaults fills the optional plan fields in place.
func SetDefaults(plan *v1alpha1.ExperimentPlan) {
	if plan.Name == "" {
		plan.Name = "experiment"
	}
	if plan.Repetitions < 1 {
		plan.Repetitions = 1
	}
	for i := range plan.Algorithms {
		a := &plan.Algorithms[i]
		if a.Name == "" {
			a.Name = strings.ToLower(string(a.Algorithm))
		}
	}
}

// Validate rejects plans that cannot run. It expects defaults to be set.
func Validate(plan *v1alpha1.ExperimentPlan) error {
	if plan.Kind != "" && plan.Kind != PlanKind {
		return fmt.Errorf("unexpected kind %q, want %q", plan.Kind, PlanKind)
	}
	if plan.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", plan.Workers)
	}
	if len(plan.Instances) == 0 {
		return fmt.Errorf("plan lists no instances")
	}
	if len(plan.Algorithms) == 0 {
		return fmt.Errorf("plan lists no algorithms")
	}
	for i, spec := range plan.Instances {
		if (spec.Path == "") == (spec.Generate == nil) {
			return fmt.Errorf("instance %d: exactly one of path and generate must be set", i)
		}
	}
	seen := map[string]bool{}
	for i := range plan.Algorithms {
		a := &plan.Algorithms[i]
		if seen[a.Name] {
			return fmt.Errorf("algorithm %d: duplicate name %q", i, a.Name)
		}
		seen[a.Name] = true
		if err := validateAlgorithm(a); err != nil {
			return fmt.Errorf("algorithm %q: %w", a.Name, err)
		}
	}
	return nil
}

func validateAlgorithm(a *v1alpha1.AlgorithmSpec) error {
	if a.MaxEval < 0 {
		return fmt.Errorf("maxEval must be non-negative, got %d", a.MaxEval)
	}
	switch a.Algorithm {
	case v1alpha1.AlgorithmGSEMO:
		return nil

	case v1alpha1.AlgorithmPLS:
		if a.Acceptance != "" {
			if _, err := algorithms.ParseAcceptance(a.Acceptance); err != nil {
				return err
			}
		}
		if a.Exploration != "" {
			if _, err := algorithms.ParseExploration(a.Exploration); err != nil {
				return err
			}
		}
		return nil

	case v1alpha1.AlgorithmIBEA:
		if a.PopulationSize < 1 {
			return fmt.Errorf("populationSize must be positive, got %d", a.PopulationSize)
		}
		if a.Generations < 0 {
			return fmt.Errorf("generations must be non-negative, got %d", a.Generations)
		}
		if a.ScalingFactor <= 0 {
			return fmt.Errorf("scalingFactor must be positive, got %g", a.ScalingFactor)
		}
		switch a.Indicator {
		case v1alpha1.IndicatorIHD, v1alpha1.IndicatorEPS:
		default:
			return fmt.Errorf("unknown indicator %q", a.Indicator)
		}
		if a.Mutation == nil || a.Crossover == nil || a.Selection == nil {
			return fmt.Errorf("IBEA needs mutation, crossover and selection")
		}
		if p := a.Mutation.Probability; p < 0 || p > 1 {
			return fmt.Errorf("mutation probability %g outside [0, 1]", p)
		}
		if p := a.Crossover.Probability; p < 0 || p > 1 {
			return fmt.Errorf("crossover probability %g outside [0, 1]", p)
		}
		switch a.Crossover.Kind {
		case v1alpha1.NPointCrossover:
			if a.Crossover.Points < 0 {
				return fmt.Errorf("crossover points must be non-negative, got %d", a.Crossover.Points)
			}
		case v1alpha1.UniformCrossover:
		default:
			return fmt.Errorf("unknown crossover kind %q", a.Crossover.Kind)
		}
		if a.Selection.PoolSize < 1 || a.Selection.TournamentSize < 1 {
			return fmt.Errorf("selection pool and tournament sizes must be positive")
		}
		return nil
	}
	return fmt.Errorf("unknown algorithm kind %q", a.Algorithm)
}
