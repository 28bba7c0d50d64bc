package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dicomstd/cmd/dicomstd/cmd/docs"
	"github.com/agentstation/dicomstd/cmd/dicomstd/cmd/export"
	"github.com/agentstation/dicomstd/cmd/dicomstd/cmd/hierarchy"
	"github.com/agentstation/dicomstd/cmd/dicomstd/cmd/process"
	"github.com/agentstation/dicomstd/cmd/dicomstd/cmd/references"
	"github.com/agentstation/dicomstd/cmd/dicomstd/cmd/tree"
	"github.com/agentstation/dicomstd/cmd/dicomstd/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(hierarchy.NewCommand(a))
	rootCmd.AddCommand(references.NewCommand(a))
	rootCmd.AddCommand(process.NewCommand(a))

	// Output commands
	rootCmd.AddCommand(tree.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))
	rootCmd.AddCommand(docs.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
