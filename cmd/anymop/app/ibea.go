package app

import (
	"flag"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/moobench/anymop/pkg/algorithms"
	"github.com/moobench/anymop/pkg/framework"
	"github.com/moobench/anymop/pkg/operators"
)

const (
	groupIndicator = "indicator"
	groupMutation  = "mutation"
	groupCrossover = "crossover"
	groupSelection = "selection"
)

// operatorKeywords maps the case-insensitive operator names and their short
// aliases to the operator slot they fill.
var operatorKeywords = map[string]string{
	"ihd":              groupIndicator,
	"eps":              groupIndicator,
	"uniformmutation":  groupMutation,
	"um":               groupMutation,
	"npointcrossover":  groupCrossover,
	"npc":              groupCrossover,
	"uniformcrossover": groupCrossover,
	"uc":               groupCrossover,
	"kwaytournament":   groupSelection,
	"kwt":              groupSelection,
}

// operatorGroup is one operator keyword together with the arguments that
// followed it on the command line.
type operatorGroup struct {
	keyword string
	args    []string
}

func newIBEACommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ibea instance [flags] INDICATOR MUTATION [flags] CROSSOVER [flags] SELECTION [flags]",
		Aliases: []string{"IBEA"},
		Short:   "Indicator-based evolutionary algorithm",
		Long: `Runs IBEA on an rmnk-landscape instance. The operators are picked on the
command line: one indicator (IHD or EPS), one mutation (UniformMutation with
-p/--probability), one crossover (NPointCrossover with -p/--probability and
-n/--points, or UniformCrossover with -p/--probability) and one selection
(KWayTournament with -s/--pool-size and -t/--tournament-size). Operator names
are case insensitive and each accepts its flags right after its name.

Common flags (before the first operator name):
  -m, --maxeval         maximum number of evaluations (required)
  -p, --pop-size        population size (required)
  -g, --generations     maximum number of generations (required)
  -k, --scaling-factor  indicator scaling factor kappa (required)
  -a, --adaptive        rescale the indicator every generation
  -s, --seed            pseudo random generator seed
  -o, --output          file receiving the anytime trace
  -r, --hvref           hypervolume reference point`,
		// Operator groups reuse shorthand letters already taken by the
		// common flags, so parsing is done by hand on keyword-delimited
		// segments.
		DisableFlagParsing: true,
		RunE:               runIBEA,
	}
	return cmd
}

func runIBEA(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return cmd.Help()
		}
	}

	common, groups := splitOperatorArgs(args)

	opts := &commonOptions{}
	var (
		popSize  int
		gens     int
		kappa    float64
		adaptive bool
	)
	fs := pflag.NewFlagSet("ibea", pflag.ContinueOnError)
	opts.addFlags(fs)
	fs.IntVarP(&popSize, "pop-size", "p", 0, "population size")
	fs.IntVarP(&gens, "generations", "g", 0, "maximum number of generations")
	fs.Float64VarP(&kappa, "scaling-factor", "k", 0, "indicator scaling factor kappa")
	fs.BoolVarP(&adaptive, "adaptive", "a", false, "rescale the indicator every generation")
	// Flag parsing is disabled on the command, so the inherited logging
	// flags have to be re-registered here to stay usable.
	logFlags := flag.NewFlagSet("logging", flag.ContinueOnError)
	klog.InitFlags(logFlags)
	fs.AddGoFlagSet(logFlags)
	if err := fs.Parse(common); err != nil {
		return err
	}
	for _, name := range []string{"maxeval", "pop-size", "generations", "scaling-factor"} {
		if !fs.Changed(name) {
			return fmt.Errorf("required flag --%s not set", name)
		}
	}
	opts.complete(fs)

	if n := len(fs.Args()); n != 1 {
		return fmt.Errorf("expected exactly one instance argument, got %d", n)
	}
	inst, err := loadInstance(cmd, fs.Args()[0])
	if err != nil {
		return err
	}

	cfg := algorithms.IBEAConfig{
		Evaluator:      inst,
		MaxEval:        opts.MaxEval,
		Seed:           opts.Seed,
		PopulationSize: popSize,
		Generations:    gens,
		ScalingFactor:  kappa,
		Adaptive:       adaptive,
		HVRef:          opts.hvref(),
	}

	seen := map[string]bool{}
	for _, g := range groups {
		slot := operatorKeywords[g.keyword]
		if seen[slot] {
			return fmt.Errorf("more than one %s operator given", slot)
		}
		seen[slot] = true
		if err := applyOperator(&cfg, inst.M(), g); err != nil {
			return err
		}
	}
	for _, slot := range []string{groupIndicator, groupMutation, groupCrossover, groupSelection} {
		if !seen[slot] {
			return fmt.Errorf("missing %s operator", slot)
		}
	}

	b, err := algorithms.NewIBEA(cfg)
	if err != nil {
		return err
	}
	if err := b.Run(cmd.Context()); err != nil {
		return err
	}
	return writeTrace(cmd, opts.Output, b.Trace(), true)
}

// splitOperatorArgs separates the common arguments from the operator groups.
// Every operator keyword opens a new group that collects the arguments up to
// the next keyword.
func splitOperatorArgs(args []string) (common []string, groups []operatorGroup) {
	for _, arg := range args {
		key := strings.ToLower(arg)
		if _, ok := operatorKeywords[key]; ok {
			groups = append(groups, operatorGroup{keyword: key})
			continue
		}
		if len(groups) == 0 {
			common = append(common, arg)
			continue
		}
		last := &groups[len(groups)-1]
		last.args = append(last.args, arg)
	}
	return common, groups
}

// applyOperator parses the flags of one operator group and stores the
// configured operator in cfg. m is the number of objectives of the loaded
// instance.
func applyOperator(cfg *algorithms.IBEAConfig, m int, g operatorGroup) error {
	fs := pflag.NewFlagSet(g.keyword, pflag.ContinueOnError)

	switch g.keyword {
	case "ihd":
		// The binary hypervolume indicator measures against the origin,
		// independently of the anytime reference point.
		cfg.Indicator = operators.IHD{Ref: make(framework.ObjectiveSpacePoint, m)}
		return parseGroup(fs, g)

	case "eps":
		cfg.Indicator = operators.EpsilonPlus{}
		return parseGroup(fs, g)

	case "uniformmutation", "um":
		p := fs.Float64P("probability", "p", 0, "per-bit flip probability")
		if err := parseGroup(fs, g, "probability"); err != nil {
			return err
		}
		if err := checkProbability(g.keyword, *p); err != nil {
			return err
		}
		cfg.Mutation = operators.UniformMutation{P: *p}
		return nil

	case "npointcrossover", "npc":
		p := fs.Float64P("probability", "p", 0, "crossover probability")
		n := fs.IntP("points", "n", 0, "number of crossover points")
		if err := parseGroup(fs, g, "probability", "points"); err != nil {
			return err
		}
		if err := checkProbability(g.keyword, *p); err != nil {
			return err
		}
		if *n < 0 {
			return fmt.Errorf("%s: points must be non-negative, got %d", g.keyword, *n)
		}
		cfg.Crossover = operators.NPointCrossover{Points: *n, Rate: *p}
		return nil

	case "uniformcrossover", "uc":
		p := fs.Float64P("probability", "p", 0, "crossover probability")
		if err := parseGroup(fs, g, "probability"); err != nil {
			return err
		}
		if err := checkProbability(g.keyword, *p); err != nil {
			return err
		}
		cfg.Crossover = operators.UniformCrossover{Rate: *p}
		return nil

	case "kwaytournament", "kwt":
		pool := fs.IntP("pool-size", "s", 0, "target size of the mating pool")
		tour := fs.IntP("tournament-size", "t", 0, "contenders drawn per tournament")
		if err := parseGroup(fs, g, "pool-size", "tournament-size"); err != nil {
			return err
		}
		if *pool < 1 || *tour < 1 {
			return fmt.Errorf("%s: pool and tournament sizes must be positive", g.keyword)
		}
		cfg.Selection = operators.KWayTournament{TournamentSize: *tour, PoolSize: *pool}
		return nil
	}
	return fmt.Errorf("unknown operator %q", g.keyword)
}

// parseGroup parses one group's arguments and enforces its required flags.
func parseGroup(fs *pflag.FlagSet, g operatorGroup, required ...string) error {
	if err := fs.Parse(g.args); err != nil {
		return fmt.Errorf("%s: %w", g.keyword, err)
	}
	if rest := fs.Args(); len(rest) != 0 {
		return fmt.Errorf("%s: unexpected argument %q", g.keyword, rest[0])
	}
	for _, name := range required {
		if !fs.Changed(name) {
			return fmt.Errorf("%s: required flag --%s not set", g.keyword, name)
		}
	}
	return nil
}

func checkProbability(keyword string, p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%s: probability %g outside [0, 1]", keyword, p)
	}
	return nil
}
