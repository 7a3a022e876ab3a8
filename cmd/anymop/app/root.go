// Package app wires the anytime rmnk-landscapes heuristics into a command
// line driver. Every algorithm subcommand loads an instance file, runs the
// search and dumps the anytime trace as CSV.
package app

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/moobench/anymop/pkg/framework"
	"github.com/moobench/anymop/pkg/rmnk"
)

// NewAnymopCommand builds the root command with all subcommands attached.
func NewAnymopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anymop",
		Short: "Anytime search heuristics for rmnk-landscapes",
		Long: `Driver for anytime multi-objective search heuristics on rmnk-landscapes.

Each algorithm subcommand optimizes an instance file under an evaluation
budget and writes a CSV trace with one row per hypervolume improvement.`,
		SilenceUsage: true,
	}

	logFlags := flag.NewFlagSet("logging", flag.ContinueOnError)
	klog.InitFlags(logFlags)
	cmd.PersistentFlags().AddGoFlagSet(logFlags)

	cmd.AddCommand(
		newGSEMOCommand(),
		newPLSCommand(),
		newIBEACommand(),
		newGenerateCommand(),
		newExperimentCommand(),
	)
	return cmd
}

// commonOptions holds the flags shared by every algorithm subcommand.
type commonOptions struct {
	MaxEval int
	Seed    int64
	Output  string
	HVRef   []float64
}

func (o *commonOptions) addFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&o.MaxEval, "maxeval", "m", 0, "maximum number of evaluations (stopping criterion)")
	fs.Int64VarP(&o.Seed, "seed", "s", 0, "pseudo random generator seed, defaults to the current time")
	fs.StringVarP(&o.Output, "output", "o", "", "file receiving the anytime trace, defaults to stdout")
	fs.Float64SliceVarP(&o.HVRef, "hvref", "r", nil, "hypervolume reference point, defaults to the origin")
}

// complete fills in the time based seed when none was given.
func (o *commonOptions) complete(fs *pflag.FlagSet) {
	if !fs.Changed("seed") {
		o.Seed = time.Now().UnixNano()
	}
}

func (o *commonOptions) hvref() framework.ObjectiveSpacePoint {
	if len(o.HVRef) == 0 {
		return nil
	}
	return framework.ObjectiveSpacePoint(o.HVRef)
}

// loadInstance reads the positional instance argument.
func loadInstance(cmd *cobra.Command, path string) (*rmnk.Instance, error) {
	inst, err := rmnk.Load(path)
	if err != nil {
		return nil, err
	}
	logger := klog.FromContext(cmd.Context())
	logger.V(2).Info("loaded instance", "path", path,
		"objectives", inst.M(), "bits", inst.N(), "links", inst.K(), "rho", inst.Rho())
	return inst, nil
}

// writeTrace dumps the trace as CSV to path, or to the command's standard
// output when path is empty.
func writeTrace(cmd *cobra.Command, path string, trace framework.Trace, withGeneration bool) (err error) {
	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, cerr := os.Create(path)
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
	return trace.WriteCSV(w, withGeneration)
}
