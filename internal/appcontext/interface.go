// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App type so they can be tested against a Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/dicomstd/pkg/hierarchy"
	"github.com/agentstation/dicomstd/pkg/references"
)

// Interface defines the application context that commands need.
// The App struct from cmd/dicomstd/app implements it.
type Interface interface {
	// Builder returns the hierarchy builder shared by all commands.
	Builder() *hierarchy.Builder

	// Recorder returns the reference recorder configured with the base URL.
	Recorder() *references.Recorder

	// BatchOptions returns the concurrency and failure policy for batch builds.
	BatchOptions() hierarchy.BatchOptions

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
