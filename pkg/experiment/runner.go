package experiment

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/patrickmn/go-cache"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"

	"github.com/moobench/anymop/apis/anymop/v1alpha1"
	"github.com/moobench/anymop/pkg/algorithms"
	"github.com/moobench/anymop/pkg/framework"
	"github.com/moobench/anymop/pkg/operators"
	"github.com/moobench/anymop/pkg/rmnk"
	"github.com/moobench/anymop/pkg/util"
)

// searcher is the algorithm surface the runner drives.
type searcher interface {
	framework.Algorithm
	Trace() framework.Trace
	Archive() *framework.Archive
}

// RunResult captures one finished run.
type RunResult struct {
	Instance   string
	Algorithm  string
	Repetition int
	Seed       int64
	Duration   time.Duration
	FinalHV    float64
	Trace      framework.Trace
	Front      []framework.ObjectiveSpacePoint
}

// Summary aggregates the final hypervolume over all repetitions of one
// algorithm entry on one instance.
type Summary struct {
	Instance    string
	Algorithm   string
	Runs        int
	HVMean      float64
	HVStdDev    float64
	HVMin       float64
	HVMax       float64
	ArchiveMean float64
}

// Report is everything a finished experiment produced.
type Report struct {
	Summaries []Summary
	Results   []RunResult
}

// Runner executes a defaulted and validated plan. Loaded instances are
// cached, so a path or draw appearing in several entries is materialized
// once; the evaluator is read-only and shared between concurrent runs.
type Runner struct {
	plan      *v1alpha1.ExperimentPlan
	instances *cache.Cache
}

// NewRunner prepares a runner for the given plan.
func NewRunner(plan *v1alpha1.ExperimentPlan) *Runner {
	return &Runner{
		plan:      plan,
		instances: cache.New(cache.NoExpiration, 0),
	}
}

// instanceRef is a resolved instance with the label used in output files.
type instanceRef struct {
	label string
	inst  *rmnk.Instance
}

// job is one (instance, algorithm, repetition) triple with its derived seed.
type job struct {
	index int
	ref   instanceRef
	spec  *v1alpha1.AlgorithmSpec
	rep   int
	seed  int64
}

// Run executes every algorithm entry on every instance, Repetitions times.
// Per-run traces and optional front charts go to the plan's output
// directory; summaries come back in plan order.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	logger := klog.FromContext(ctx)

	refs, err := r.resolveInstances()
	if err != nil {
		return nil, err
	}
	if r.plan.OutputDir != "" {
		if err := os.MkdirAll(r.plan.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	// Seeds are drawn up front in plan order, so a rerun of the same plan
	// reproduces every run regardless of worker interleaving.
	seeds := rand.New(rand.NewSource(r.plan.Seed))
	var jobs []job
	for _, ref := range refs {
		for ai := range r.plan.Algorithms {
			for rep := 0; rep < r.plan.Repetitions; rep++ {
				jobs = append(jobs, job{
					index: len(jobs),
					ref:   ref,
					spec:  &r.plan.Algorithms[ai],
					rep:   rep,
					seed:  seeds.Int63(),
				})
			}
		}
	}

	workers := r.plan.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	start := time.Now()
	results := make([]RunResult, len(jobs))
	errs := make([]error, len(jobs))
	queue := make(chan job)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				results[j.index], errs[j.index] = r.runOne(ctx, logger, j)
			}
		}()
	}
	for _, j := range jobs {
		queue <- j
	}
	close(queue)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var evals int64
	for _, j := range jobs {
		evals += int64(j.spec.MaxEval)
	}
	logger.Info("experiment finished", "plan", r.plan.Name, "runs", len(jobs),
		"evaluations", humanize.Comma(evals), "elapsed", time.Since(start).Round(time.Millisecond))

	report := &Report{
		Summaries: summarize(refs, r.plan.Algorithms, r.plan.Repetitions, results),
		Results:   results,
	}
	if err := r.writePlots(refs, results); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Runner) resolveInstances() ([]instanceRef, error) {
	refs := make([]instanceRef, 0, len(r.plan.Instances))
	used := map[string]bool{}
	for i, spec := range r.plan.Instances {
		inst, err := r.resolve(spec)
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		label := instanceLabel(spec)
		if used[label] {
			label = fmt.Sprintf("%s_%d", label, i)
		}
		used[label] = true
		refs = append(refs, instanceRef{label: label, inst: inst})
	}
	return refs, nil
}

func (r *Runner) resolve(spec v1alpha1.InstanceSpec) (*rmnk.Instance, error) {
	key := instanceKey(spec)
	if v, ok := r.instances.Get(key); ok {
		return v.(*rmnk.Instance), nil
	}

	var inst *rmnk.Instance
	var err error
	if spec.Path != "" {
		inst, err = rmnk.Load(spec.Path)
	} else {
		g := spec.Generate
		inst, err = rmnk.Generate(rmnk.GeneratorConfig{
			Rho:  g.Rho,
			M:    g.Objectives,
			N:    g.Bits,
			K:    g.Links,
			Seed: g.Seed,
		})
	}
	if err != nil {
		return nil, err
	}
	r.instances.Set(key, inst, cache.NoExpiration)
	return inst, nil
}

func instanceKey(spec v1alpha1.InstanceSpec) string {
	if spec.Path != "" {
		return "path:" + spec.Path
	}
	g := spec.Generate
	return fmt.Sprintf("gen:%g:%d:%d:%d:%d", g.Rho, g.Objectives, g.Bits, g.Links, g.Seed)
}

// instanceLabel derives the output label of an instance spec. Generated
// instances follow the rmnk_rho_M_N_K naming of instance files.
func instanceLabel(spec v1alpha1.InstanceSpec) string {
	if spec.Path != "" {
		base := filepath.Base(spec.Path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	g := spec.Generate
	return fmt.Sprintf("rmnk_%g_%d_%d_%d_%d", g.Rho, g.Objectives, g.Bits, g.Links, g.Seed)
}

func (r *Runner) runOne(ctx context.Context, logger logr.Logger, j job) (RunResult, error) {
	alg, err := buildAlgorithm(j.spec, j.ref.inst, j.seed)
	if err != nil {
		return RunResult{}, fmt.Errorf("%s on %s: %w", j.spec.Name, j.ref.label, err)
	}

	runLogger := logger.WithValues("algorithm", j.spec.Name, "instance", j.ref.label, "repetition", j.rep)
	start := time.Now()
	if err := alg.Run(klog.NewContext(ctx, runLogger)); err != nil {
		return RunResult{}, fmt.Errorf("%s on %s: %w", j.spec.Name, j.ref.label, err)
	}

	res := RunResult{
		Instance:   j.ref.label,
		Algorithm:  j.spec.Name,
		Repetition: j.rep,
		Seed:       j.seed,
		Duration:   time.Since(start),
		Trace:      alg.Trace(),
	}
	if len(res.Trace) > 0 {
		res.FinalHV = res.Trace[len(res.Trace)-1].Hypervolume
	}
	for _, s := range alg.Archive().Items() {
		res.Front = append(res.Front, s.Objectives.Clone())
	}

	if r.plan.OutputDir != "" {
		if err := r.writeRunTrace(j, res.Trace); err != nil {
			return RunResult{}, err
		}
	}
	runLogger.V(2).Info("run finished", "hypervolume", res.FinalHV,
		"archive", len(res.Front), "elapsed", res.Duration.Round(time.Millisecond))
	return res, nil
}

func (r *Runner) writeRunTrace(j job, trace framework.Trace) (err error) {
	name := fmt.Sprintf("%s_%s_%s_%02d.csv", r.plan.Name, j.ref.label, j.spec.Name, j.rep)
	f, err := os.Create(filepath.Join(r.plan.OutputDir, name))
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return trace.WriteCSV(f, j.spec.Algorithm == v1alpha1.AlgorithmIBEA)
}

// buildAlgorithm wires one run from its spec. Every run gets a fresh
// algorithm instance around the shared evaluator.
func buildAlgorithm(spec *v1alpha1.AlgorithmSpec, inst *rmnk.Instance, seed int64) (searcher, error) {
	hvref := framework.ObjectiveSpacePoint(spec.HVRef)

	switch spec.Algorithm {
	case v1alpha1.AlgorithmGSEMO:
		return algorithms.NewGSEMO(algorithms.GSEMOConfig{
			Evaluator: inst,
			MaxEval:   spec.MaxEval,
			Seed:      seed,
			HVRef:     hvref,
		})

	case v1alpha1.AlgorithmPLS:
		var accept algorithms.Acceptance
		var explore algorithms.Exploration
		var err error
		if spec.Acceptance != "" {
			if accept, err = algorithms.ParseAcceptance(spec.Acceptance); err != nil {
				return nil, err
			}
		}
		if spec.Exploration != "" {
			if explore, err = algorithms.ParseExploration(spec.Exploration); err != nil {
				return nil, err
			}
		}
		return algorithms.NewPLS(algorithms.PLSConfig{
			Evaluator:   inst,
			MaxEval:     spec.MaxEval,
			Seed:        seed,
			Acceptance:  accept,
			Exploration: explore,
			HVRef:       hvref,
		})

	case v1alpha1.AlgorithmIBEA:
		var indicator operators.Indicator
		switch spec.Indicator {
		case v1alpha1.IndicatorIHD:
			indicator = operators.IHD{Ref: make(framework.ObjectiveSpacePoint, inst.M())}
		case v1alpha1.IndicatorEPS:
			indicator = operators.EpsilonPlus{}
		default:
			return nil, fmt.Errorf("unknown indicator %q", spec.Indicator)
		}

		var crossover operators.Crossover
		switch spec.Crossover.Kind {
		case v1alpha1.NPointCrossover:
			crossover = operators.NPointCrossover{Points: spec.Crossover.Points, Rate: spec.Crossover.Probability}
		case v1alpha1.UniformCrossover:
			crossover = operators.UniformCrossover{Rate: spec.Crossover.Probability}
		default:
			return nil, fmt.Errorf("unknown crossover kind %q", spec.Crossover.Kind)
		}

		return algorithms.NewIBEA(algorithms.IBEAConfig{
			Evaluator:      inst,
			MaxEval:        spec.MaxEval,
			Seed:           seed,
			PopulationSize: spec.PopulationSize,
			Generations:    spec.Generations,
			ScalingFactor:  spec.ScalingFactor,
			Adaptive:       spec.Adaptive,
			Indicator:      indicator,
			Crossover:      crossover,
			Mutation:       operators.UniformMutation{P: spec.Mutation.Probability},
			Selection: operators.KWayTournament{
				TournamentSize: spec.Selection.TournamentSize,
				PoolSize:       spec.Selection.PoolSize,
			},
			HVRef: hvref,
		})
	}
	return nil, fmt.Errorf("unknown algorithm kind %q", spec.Algorithm)
}

// summarize walks the results in job order, reps consecutive runs per
// algorithm and instance pair.
func summarize(refs []instanceRef, specs []v1alpha1.AlgorithmSpec, reps int, results []RunResult) []Summary {
	out := make([]Summary, 0, len(refs)*len(specs))
	idx := 0
	for _, ref := range refs {
		for si := range specs {
			hvs := make([]float64, reps)
			sizes := make([]float64, reps)
			for rep := 0; rep < reps; rep++ {
				hvs[rep] = results[idx].FinalHV
				sizes[rep] = float64(len(results[idx].Front))
				idx++
			}
			s := Summary{
				Instance:    ref.label,
				Algorithm:   specs[si].Name,
				Runs:        reps,
				HVMean:      stat.Mean(hvs, nil),
				HVMin:       floats.Min(hvs),
				HVMax:       floats.Max(hvs),
				ArchiveMean: stat.Mean(sizes, nil),
			}
			if reps > 1 {
				s.HVStdDev = stat.StdDev(hvs, nil)
			}
			out = append(out, s)
		}
	}
	return out
}

// WriteSummaryCSV writes one row per summary. Floats carry 12 significant
// digits, matching the trace format.
func WriteSummaryCSV(w io.Writer, summaries []Summary) error {
	cw := csv.NewWriter(w)
	header := []string{"instance", "algorithm", "runs", "hv_mean", "hv_std", "hv_min", "hv_max", "archive_mean"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range summaries {
		row := []string{
			s.Instance,
			s.Algorithm,
			strconv.Itoa(s.Runs),
			strconv.FormatFloat(s.HVMean, 'g', 12, 64),
			strconv.FormatFloat(s.HVStdDev, 'g', 12, 64),
			strconv.FormatFloat(s.HVMin, 'g', 12, 64),
			strconv.FormatFloat(s.HVMax, 'g', 12, 64),
			strconv.FormatFloat(s.ArchiveMean, 'g', 12, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writePlots renders one chart per two-objective instance, one series per
// algorithm holding the non-dominated union of its repetition fronts.
func (r *Runner) writePlots(refs []instanceRef, results []RunResult) error {
	if !r.plan.Plot || r.plan.OutputDir == "" {
		return nil
	}

	specs := r.plan.Algorithms
	reps := r.plan.Repetitions
	idx := 0
	for _, ref := range refs {
		if ref.inst.M() != 2 {
			idx += len(specs) * reps
			continue
		}
		series := make([]util.FrontSeries, 0, len(specs))
		for si := range specs {
			fronts := make([][]framework.ObjectiveSpacePoint, 0, reps)
			for rep := 0; rep < reps; rep++ {
				fronts = append(fronts, results[idx].Front)
				idx++
			}
			series = append(series, util.FrontSeries{Name: specs[si].Name, Points: mergeFronts(fronts...)})
		}
		if err := r.writePlot(ref.label, series); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) writePlot(label string, series []util.FrontSeries) (err error) {
	name := fmt.Sprintf("%s_%s_fronts.html", r.plan.Name, label)
	f, err := os.Create(filepath.Join(r.plan.OutputDir, name))
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return util.PlotFronts(f, fmt.Sprintf("%s on %s", r.plan.Name, label), series)
}

// mergeFronts keeps the non-dominated union of the given fronts, dropping
// duplicate points.
func mergeFronts(fronts ...[]framework.ObjectiveSpacePoint) []framework.ObjectiveSpacePoint {
	var out []framework.ObjectiveSpacePoint
	for _, front := range fronts {
		for _, p := range front {
			out = mergePoint(out, p)
		}
	}
	return out
}

// mergePoint inserts p unless a kept point dominates or equals it, removing
// the points p dominates.
func mergePoint(out []framework.ObjectiveSpacePoint, p framework.ObjectiveSpacePoint) []framework.ObjectiveSpacePoint {
	for _, q := range out {
		switch framework.Compare(p, q) {
		case framework.Dominated, framework.Equal:
			return out
		}
	}
	kept := out[:0]
	for _, q := range out {
		if framework.Compare(p, q) != framework.Dominates {
			kept = append(kept, q)
		}
	}
	return append(kept, p)
}
