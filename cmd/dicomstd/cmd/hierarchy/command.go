// Package hierarchy provides the hierarchy command.
package hierarchy

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dicomstd/internal/appcontext"
	"github.com/agentstation/dicomstd/internal/cmd/cmdutil"
	"github.com/agentstation/dicomstd/internal/pipeline"
	"github.com/agentstation/dicomstd/pkg/modules"
)

// NewCommand creates the hierarchy command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		writeFlags *cmdutil.WriteFlags
		batchFlags *cmdutil.BatchFlags
	)

	cmd := &cobra.Command{
		Use:     "hierarchy <input>",
		GroupID: "core",
		Short:   "Assign hierarchical ids to module attributes",
		Long: `Hierarchy reads scraped module tables and gives every attribute an id
built from its ancestors' tags, following the ">" depth markers in the
attribute names. Markers are then stripped from name, tag and type.

A module with an attribute whose tag yields no identifier is rejected as a
whole. With --keep-going the remaining modules are still written and the
command exits non-zero.`,
		Example: `  dicomstd hierarchy modules.json
  dicomstd hierarchy modules.json.xz -w out/modules.json
  dicomstd hierarchy modules.json --keep-going -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := modules.Load(args[0])
			if err != nil {
				return err
			}

			opts := batchFlags.Apply(cmd, app.BatchOptions())
			out, runErr := pipeline.Hierarchy(cmd.Context(), app.Builder(), mods, opts)
			return cmdutil.Emit(cmd.OutOrStdout(), writeFlags.Write, app.OutputFormat(), out, runErr)
		},
	}

	writeFlags = cmdutil.AddWriteFlags(cmd)
	batchFlags = cmdutil.AddBatchFlags(cmd)

	return cmd
}
