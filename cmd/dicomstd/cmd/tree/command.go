// Package tree provides the tree command.
package tree

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/dicomstd/internal/appcontext"
	"github.com/agentstation/dicomstd/internal/cmd/cmdutil"
	"github.com/agentstation/dicomstd/internal/cmd/output"
	"github.com/agentstation/dicomstd/internal/pipeline"
	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/hierarchy"
	"github.com/agentstation/dicomstd/pkg/modules"
)

// NewCommand creates the tree command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		moduleID   string
		batchFlags *cmdutil.BatchFlags
	)

	cmd := &cobra.Command{
		Use:     "tree <input>",
		GroupID: "output",
		Short:   "Show the attribute hierarchy of each module",
		Example: `  dicomstd tree modules.json --module patient
  dicomstd tree modules.json -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := modules.Load(args[0])
			if err != nil {
				return err
			}
			if moduleID != "" {
				mods, err = selectModule(mods, moduleID)
				if err != nil {
					return err
				}
			}

			opts := batchFlags.Apply(cmd, app.BatchOptions())
			built, runErr := pipeline.Hierarchy(cmd.Context(), app.Builder(), mods, opts)
			if len(built) > 0 {
				formatter := output.NewFormatter(output.DetectFormat(app.OutputFormat()))
				if err := formatter.Format(cmd.OutOrStdout(), Data(built)); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&moduleID, "module", "m", "", "Only show the module with this id")
	batchFlags = cmdutil.AddBatchFlags(cmd)

	return cmd
}

// Data converts built modules to table rows, one per attribute.
func Data(mods []*modules.Module) output.Data {
	data := output.Data{
		Headers:      []string{"ID", "Depth", "Tag", "Name", "Type"},
		RightAligned: []int{1},
	}
	for _, m := range mods {
		for _, a := range m.Attributes {
			depth := len(hierarchy.Segments(a.ID)) - 2
			data.Rows = append(data.Rows, []string{
				a.ID,
				strconv.Itoa(depth),
				a.Tag,
				a.Name,
				a.Type,
			})
		}
	}
	return data
}

func selectModule(mods []*modules.Module, id string) ([]*modules.Module, error) {
	for _, m := range mods {
		if m.ID == id {
			return []*modules.Module{m}, nil
		}
	}
	return nil, errors.NewNotFoundError("module", id)
}
