// Package process provides the process command, which runs the hierarchy
// and references passes back to back.
package process

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dicomstd/internal/appcontext"
	"github.com/agentstation/dicomstd/internal/cmd/cmdutil"
	"github.com/agentstation/dicomstd/internal/pipeline"
	"github.com/agentstation/dicomstd/pkg/modules"
)

// NewCommand creates the process command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		writeFlags *cmdutil.WriteFlags
		batchFlags *cmdutil.BatchFlags
	)

	cmd := &cobra.Command{
		Use:     "process <input>",
		GroupID: "core",
		Short:   "Assign ids and record references in one pass",
		Example: `  dicomstd process modules.json -w processed.json.xz`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, runErr := Run(cmd, app, args[0], batchFlags)
			return cmdutil.Emit(cmd.OutOrStdout(), writeFlags.Write, app.OutputFormat(), out, runErr)
		},
	}

	writeFlags = cmdutil.AddWriteFlags(cmd)
	batchFlags = cmdutil.AddBatchFlags(cmd)

	return cmd
}

// Run loads input and processes it with the app's passes. It is shared by
// the commands that consume processed modules.
func Run(cmd *cobra.Command, app appcontext.Interface, input string, flags *cmdutil.BatchFlags) ([]*modules.Module, error) {
	mods, err := modules.Load(input)
	if err != nil {
		return nil, err
	}
	opts := app.BatchOptions()
	if flags != nil {
		opts = flags.Apply(cmd, opts)
	}
	return pipeline.Process(cmd.Context(), app, mods, opts)
}
