package cmdutil

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/dicomstd/pkg/hierarchy"
	"github.com/agentstation/dicomstd/pkg/modules"
)

// BatchFlags holds flags controlling how a batch of modules is processed.
type BatchFlags struct {
	KeepGoing   bool
	Concurrency int
}

// AddBatchFlags adds --keep-going and --concurrency to a command.
func AddBatchFlags(cmd *cobra.Command) *BatchFlags {
	flags := &BatchFlags{}
	cmd.Flags().BoolVar(&flags.KeepGoing, "keep-going", false,
		"Skip modules that fail and report them at the end")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", 0,
		"Number of modules processed in parallel (default from config)")
	return flags
}

// Apply overrides opts with the flags the user set explicitly.
func (f *BatchFlags) Apply(cmd *cobra.Command, opts hierarchy.BatchOptions) hierarchy.BatchOptions {
	if cmd.Flags().Changed("keep-going") {
		opts.KeepGoing = f.KeepGoing
	}
	if cmd.Flags().Changed("concurrency") && f.Concurrency > 0 {
		opts.Concurrency = f.Concurrency
	}
	return opts
}

// Emit writes the modules that survived a run and then returns the run's
// error, so a partial batch is never lost.
func Emit(stdout io.Writer, path, outputFormat string, mods []*modules.Module, runErr error) error {
	if len(mods) > 0 || runErr == nil {
		if err := WriteModules(stdout, path, outputFormat, mods); err != nil {
			return err
		}
	}
	return runErr
}
