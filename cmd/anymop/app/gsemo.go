package app

import (
	"github.com/spf13/cobra"

	"github.com/moobench/anymop/pkg/algorithms"
)

func newGSEMOCommand() *cobra.Command {
	opts := &commonOptions{}

	cmd := &cobra.Command{
		Use:     "gsemo instance",
		Aliases: []string{"GSEMO"},
		Short:   "Global simple evolutionary multi-objective optimizer",
		Long: `Runs GSEMO on an rmnk-landscape instance: a uniformly drawn archive
member is mutated with an independent per-bit flip and the offspring enters
the archive when no member dominates it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.complete(cmd.Flags())

			inst, err := loadInstance(cmd, args[0])
			if err != nil {
				return err
			}

			g, err := algorithms.NewGSEMO(algorithms.GSEMOConfig{
				Evaluator: inst,
				MaxEval:   opts.MaxEval,
				Seed:      opts.Seed,
				HVRef:     opts.hvref(),
			})
			if err != nil {
				return err
			}
			if err := g.Run(cmd.Context()); err != nil {
				return err
			}
			return writeTrace(cmd, opts.Output, g.Trace(), false)
		},
	}

	opts.addFlags(cmd.Flags())
	cobra.CheckErr(cmd.MarkFlagRequired("maxeval"))
	return cmd
}
