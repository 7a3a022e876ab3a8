package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moobench/anymop/pkg/experiment"
)

func newExperimentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment plan",
		Short: "Run a benchmark plan",
		Long: `Executes an experiment plan: every algorithm entry runs against every
instance entry the requested number of times. Per-run traces and front
charts go to the plan's output directory; the aggregated summary is written
as CSV, next to the traces or to stdout when no directory is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			plan, err := experiment.LoadPlan(args[0])
			if err != nil {
				return err
			}
			report, err := experiment.NewRunner(plan).Run(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if plan.OutputDir != "" {
				f, cerr := os.Create(filepath.Join(plan.OutputDir, plan.Name+"_summary.csv"))
				if cerr != nil {
					return fmt.Errorf("creating summary file: %w", cerr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}
			return experiment.WriteSummaryCSV(w, report.Summaries)
		},
	}
	return cmd
}
