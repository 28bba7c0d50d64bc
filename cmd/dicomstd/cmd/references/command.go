// Package references provides the references command.
package references

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dicomstd/internal/appcontext"
	"github.com/agentstation/dicomstd/internal/cmd/cmdutil"
	"github.com/agentstation/dicomstd/internal/pipeline"
	"github.com/agentstation/dicomstd/pkg/modules"
	"github.com/agentstation/dicomstd/pkg/references"
)

// NewCommand creates the references command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		baseURL    string
		keepGoing  bool
		writeFlags *cmdutil.WriteFlags
	)

	cmd := &cobra.Command{
		Use:     "references <input>",
		GroupID: "core",
		Short:   "Record the external references in attribute descriptions",
		Long: `References finds the links to other sections of the standard in each
attribute description, stores them as externalReferences and turns the
recorded anchors into spans so they are not recorded twice.

Links to other parts, glossary entries and external sites are left alone.`,
		Example: `  dicomstd references modules.json
  dicomstd references modules.json --base-url https://dicom.nema.org/medical/dicom/2024a/output/html/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := modules.Load(args[0])
			if err != nil {
				return err
			}

			recorder := app.Recorder()
			if baseURL != "" {
				recorder = references.New(references.WithBaseURL(baseURL))
			}

			opts := app.BatchOptions()
			if cmd.Flags().Changed("keep-going") {
				opts.KeepGoing = keepGoing
			}

			out, runErr := pipeline.References(cmd.Context(), recorder, mods, opts.KeepGoing)
			return cmdutil.Emit(cmd.OutOrStdout(), writeFlags.Write, app.OutputFormat(), out, runErr)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "URL that resolved references are appended to")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Skip modules that fail and report them at the end")
	writeFlags = cmdutil.AddWriteFlags(cmd)

	return cmd
}
