/*
Copyright 2026 The anymop Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

// ExperimentPlan describes a reproducible batch of benchmark runs. Every
// algorithm entry runs against every instance entry, Repetitions times,
// with per-run seeds derived from the plan seed.
type ExperimentPlan struct {
	// APIVersion and Kind identify the document schema.
	APIVersion string `json:"apiVersion,omitempty"`
	Kind       string `json:"kind,omitempty"`

	// Name labels the experiment and prefixes its output files.
	Name string `json:"name"`

	// OutputDir receives one trace CSV per run plus a summary CSV.
	// When empty only the summary is produced, on standard output.
	OutputDir string `json:"outputDir,omitempty"`

	// Repetitions is the number of independent runs per algorithm and
	// instance pair. Zero means one.
	Repetitions int `json:"repetitions,omitempty"`

	// Seed is the master seed every per-run seed derives from.
	Seed int64 `json:"seed,omitempty"`

	// Workers caps the number of runs executing concurrently. Zero means
	// one worker per CPU.
	Workers int `json:"workers,omitempty"`

	// Plot asks for an HTML scatter chart of the final archive fronts,
	// one file per instance, written next to the CSV outputs.
	Plot bool `json:"plot,omitempty"`

	// Instances lists the problem instances to optimize.
	Instances []InstanceSpec `json:"instances"`

	// Algorithms lists the algorithm configurations to benchmark.
	Algorithms []AlgorithmSpec `json:"algorithms"`
}

// InstanceSpec names one rmnk-landscape, either loaded from a file or drawn
// from the generator. Exactly one of Path and Generate must be set.
type InstanceSpec struct {
	// Path is an instance file to load.
	Path string `json:"path,omitempty"`

	// Generate draws a synthetic instance.
	Generate *GenerateSpec `json:"generate,omitempty"`
}

// GenerateSpec holds the parameters of a synthetic instance draw.
type GenerateSpec struct {
	// Rho is the correlation between the contributions of different
	// objectives.
	Rho float64 `json:"rho"`

	// Objectives is the number of objectives.
	Objectives int `json:"objectives"`

	// Bits is the length of the bit string.
	Bits int `json:"bits"`

	// Links is the epistasis degree.
	Links int `json:"links"`

	// Seed fixes the draw.
	Seed int64 `json:"seed"`
}

// AlgorithmKind names one of the supported search heuristics.
type AlgorithmKind string

const (
	// AlgorithmGSEMO is the global simple evolutionary multi-objective
	// optimizer.
	AlgorithmGSEMO AlgorithmKind = "GSEMO"

	// AlgorithmPLS is Pareto local search.
	AlgorithmPLS AlgorithmKind = "PLS"

	// AlgorithmIBEA is the indicator-based evolutionary algorithm.
	AlgorithmIBEA AlgorithmKind = "IBEA"
)

// AlgorithmSpec configures one algorithm entry of the plan.
type AlgorithmSpec struct {
	// Name labels the entry in output files and summaries. Defaults to
	// the lowercased algorithm kind.
	Name string `json:"name,omitempty"`

	// Algorithm selects the heuristic.
	Algorithm AlgorithmKind `json:"algorithm"`

	// MaxEval is the evaluation budget of every run.
	MaxEval int `json:"maxEval"`

	// HVRef is the hypervolume reference point. Defaults to the origin.
	HVRef []float64 `json:"hvRef,omitempty"`

	// Acceptance picks the PLS acceptance criterion: NON_DOMINATING,
	// DOMINATING or BOTH.
	Acceptance string `json:"acceptance,omitempty"`

	// Exploration picks the PLS exploration criterion: BEST_IMPROVEMENT,
	// FIRST_IMPROVEMENT or BOTH.
	Exploration string `json:"exploration,omitempty"`

	// PopulationSize is the IBEA population cap.
	PopulationSize int `json:"populationSize,omitempty"`

	// Generations is the IBEA generation cap.
	Generations int `json:"generations,omitempty"`

	// ScalingFactor is the IBEA fitness scaling factor kappa.
	ScalingFactor float64 `json:"scalingFactor,omitempty"`

	// Adaptive rescales the IBEA indicator every generation.
	Adaptive bool `json:"adaptive,omitempty"`

	// Indicator selects the IBEA binary quality indicator.
	Indicator IndicatorKind `json:"indicator,omitempty"`

	// Mutation configures the IBEA mutation operator.
	Mutation *MutationSpec `json:"mutation,omitempty"`

	// Crossover configures the IBEA crossover operator.
	Crossover *CrossoverSpec `json:"crossover,omitempty"`

	// Selection configures the IBEA selection operator.
	Selection *SelectionSpec `json:"selection,omitempty"`
}

// IndicatorKind names an IBEA binary quality indicator.
type IndicatorKind string

const (
	// IndicatorIHD is the binary hypervolume difference indicator.
	IndicatorIHD IndicatorKind = "IHD"

	// IndicatorEPS is the additive epsilon indicator.
	IndicatorEPS IndicatorKind = "EPS"
)

// MutationSpec configures the uniform bit-flip mutation.
type MutationSpec struct {
	// Probability is the per-bit flip probability.
	Probability float64 `json:"probability"`
}

// CrossoverKind names an IBEA crossover operator.
type CrossoverKind string

const (
	// NPointCrossover swaps the segments between randomly drawn cut
	// points.
	NPointCrossover CrossoverKind = "NPointCrossover"

	// UniformCrossover swaps every aligned bit pair on a fair coin flip.
	UniformCrossover CrossoverKind = "UniformCrossover"
)

// CrossoverSpec configures the IBEA crossover operator.
type CrossoverSpec struct {
	// Kind selects the operator.
	Kind CrossoverKind `json:"kind"`

	// Probability gates the n-point operator. It is carried but unused by
	// the uniform operator.
	Probability float64 `json:"probability"`

	// Points is the number of cut points of the n-point operator.
	Points int `json:"points,omitempty"`
}

// SelectionSpec configures the k-way tournament selection.
type SelectionSpec struct {
	// PoolSize is the target size of the mating pool.
	PoolSize int `json:"poolSize"`

	// TournamentSize is the number of contenders drawn per tournament.
	TournamentSize int `json:"tournamentSize"`
}
