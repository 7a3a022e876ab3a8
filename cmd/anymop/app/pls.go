package app

import (
	"github.com/spf13/cobra"

	"github.com/moobench/anymop/pkg/algorithms"
)

func newPLSCommand() *cobra.Command {
	opts := &commonOptions{}
	var acceptance, exploration string

	cmd := &cobra.Command{
		Use:     "pls instance",
		Aliases: []string{"PLS"},
		Short:   "Pareto local search",
		Long: `Runs Pareto local search on an rmnk-landscape instance: unvisited
archive members are explored by flipping every bit in turn, with the
acceptance and exploration criteria picking which neighbors survive and
when a scan stops.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.complete(cmd.Flags())

			accept, err := algorithms.ParseAcceptance(acceptance)
			if err != nil {
				return err
			}
			explore, err := algorithms.ParseExploration(exploration)
			if err != nil {
				return err
			}

			inst, err := loadInstance(cmd, args[0])
			if err != nil {
				return err
			}

			p, err := algorithms.NewPLS(algorithms.PLSConfig{
				Evaluator:   inst,
				MaxEval:     opts.MaxEval,
				Seed:        opts.Seed,
				Acceptance:  accept,
				Exploration: explore,
				HVRef:       opts.hvref(),
			})
			if err != nil {
				return err
			}
			if err := p.Run(cmd.Context()); err != nil {
				return err
			}
			return writeTrace(cmd, opts.Output, p.Trace(), false)
		},
	}

	opts.addFlags(cmd.Flags())
	cmd.Flags().StringVarP(&acceptance, "acceptance", "a", string(algorithms.AcceptNonDominating),
		"acceptance criterion: NON_DOMINATING, DOMINATING or BOTH")
	cmd.Flags().StringVarP(&exploration, "exploration", "e", string(algorithms.ExploreBest),
		"exploration criterion: BEST_IMPROVEMENT, FIRST_IMPROVEMENT or BOTH")
	cobra.CheckErr(cmd.MarkFlagRequired("maxeval"))
	return cmd
}
