// Package docs provides the docs command.
package docs

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/dicomstd/cmd/dicomstd/cmd/process"
	"github.com/agentstation/dicomstd/internal/appcontext"
	"github.com/agentstation/dicomstd/internal/cmd/cmdutil"
	"github.com/agentstation/dicomstd/internal/docs"
)

// NewCommand creates the docs command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		dir        string
		batchFlags *cmdutil.BatchFlags
	)

	cmd := &cobra.Command{
		Use:     "docs <input>",
		GroupID: "output",
		Short:   "Write a Markdown page per module",
		Example: `  dicomstd docs modules.json --dir ./docs/modules`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, runErr := process.Run(cmd, app, args[0], batchFlags)
			if len(mods) == 0 {
				return runErr
			}

			paths, err := docs.WriteModules(dir, mods)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			app.Logger().Info().Str("dir", dir).Int("files", len(paths)).Msg("Generated module documentation")
			return runErr
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "docs", "Output directory for Markdown files")
	batchFlags = cmdutil.AddBatchFlags(cmd)

	return cmd
}
