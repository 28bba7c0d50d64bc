// Package cmdutil provides shared flags and helpers for dicomstd commands.
package cmdutil

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/dicomstd/pkg/modules"
)

// WriteFlags holds flags for commands that emit module documents.
type WriteFlags struct {
	Write string
}

// AddWriteFlags adds the -w/--write flag to a command.
func AddWriteFlags(cmd *cobra.Command) *WriteFlags {
	flags := &WriteFlags{}
	cmd.Flags().StringVarP(&flags.Write, "write", "w", "",
		"Write modules to file instead of stdout (.json, .yaml, optionally .xz)")
	return flags
}

// DocumentFormat picks the encoding for module documents written to stdout.
// Only yaml is honoured; every other output format yields JSON.
func DocumentFormat(outputFormat string) modules.Format {
	if strings.EqualFold(outputFormat, string(modules.FormatYAML)) {
		return modules.FormatYAML
	}
	return modules.FormatJSON
}

// WriteModules writes mods to path, or to stdout when path is empty or "-".
func WriteModules(stdout io.Writer, path, outputFormat string, mods []*modules.Module) error {
	if path == "" || path == "-" {
		return modules.Encode(stdout, mods, DocumentFormat(outputFormat))
	}
	return modules.Save(path, mods)
}
