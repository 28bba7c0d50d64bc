// Package export provides the export command, which stores processed
// modules in a SQLite database.
package export

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dicomstd/cmd/dicomstd/cmd/process"
	"github.com/agentstation/dicomstd/internal/appcontext"
	"github.com/agentstation/dicomstd/internal/cmd/cmdutil"
	"github.com/agentstation/dicomstd/internal/cmd/output"
	"github.com/agentstation/dicomstd/internal/store/sqlite"
	"github.com/agentstation/dicomstd/pkg/modules"
)

// Summary reports what an export wrote.
type Summary struct {
	Database   string `json:"database"`
	Modules    int    `json:"modules"`
	Attributes int    `json:"attributes"`
	References int    `json:"references"`
}

// NewCommand creates the export command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		dbPath     string
		batchFlags *cmdutil.BatchFlags
	)

	cmd := &cobra.Command{
		Use:     "export <input>",
		GroupID: "output",
		Short:   "Process modules and store them in a SQLite database",
		Long: `Export processes the input like the process command and then replaces
the stored rows of every processed module in the database. Each attribute
row carries its parent id so the hierarchy can be walked with SQL.`,
		Example: `  dicomstd export modules.json --db dicom.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, runErr := process.Run(cmd, app, args[0], batchFlags)
			if len(mods) == 0 {
				return runErr
			}

			ctx := cmd.Context()
			store, err := sqlite.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveModules(ctx, mods); err != nil {
				return err
			}

			summary := Summarize(dbPath, mods)
			app.Logger().Info().
				Str("database", dbPath).
				Int("modules", summary.Modules).
				Int("attributes", summary.Attributes).
				Msg("Exported modules")

			formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
			if err := formatter.Format(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "dicomstd.db", "SQLite database path")
	batchFlags = cmdutil.AddBatchFlags(cmd)

	return cmd
}

// Summarize counts the rows an export of mods writes.
func Summarize(dbPath string, mods []*modules.Module) Summary {
	s := Summary{Database: dbPath, Modules: len(mods)}
	for _, m := range mods {
		s.Attributes += len(m.Attributes)
		for _, a := range m.Attributes {
			s.References += len(a.ExternalReferences)
		}
	}
	return s
}
