package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/moobench/anymop/pkg/rmnk"
)

func newGenerateCommand() *cobra.Command {
	cfg := rmnk.GeneratorConfig{}
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic rmnk-landscape instance",
		Long: `Draws an rmnk-landscape instance with the requested dimensions and
objective correlation and writes it in the instance file format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if !cmd.Flags().Changed("seed") {
				cfg.Seed = time.Now().UnixNano()
			}
			inst, err := rmnk.Generate(cfg)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, cerr := os.Create(output)
				if cerr != nil {
					return fmt.Errorf("creating output file: %w", cerr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}
			_, err = inst.WriteTo(w)
			return err
		},
	}

	fs := cmd.Flags()
	fs.Float64Var(&cfg.Rho, "rho", 0, "correlation between objective contributions")
	fs.IntVarP(&cfg.M, "objectives", "M", 2, "number of objectives")
	fs.IntVarP(&cfg.N, "bits", "N", 16, "length of the bit string")
	fs.IntVarP(&cfg.K, "links", "K", 1, "epistasis degree")
	fs.Int64VarP(&cfg.Seed, "seed", "s", 0, "pseudo random generator seed, defaults to the current time")
	fs.StringVarP(&output, "output", "o", "", "file receiving the instance, defaults to stdout")
	return cmd
}
