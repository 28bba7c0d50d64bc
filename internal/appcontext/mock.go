package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/dicomstd/pkg/hierarchy"
	"github.com/agentstation/dicomstd/pkg/references"
)

// Mock provides a mock implementation of Interface for testing.
// Unset fields fall back to working defaults.
type Mock struct {
	BuilderFunc  func() *hierarchy.Builder
	RecorderFunc func() *references.Recorder
	Batch        hierarchy.BatchOptions
	Log          *zerolog.Logger
	Format       string
	VersionValue string
}

// Builder returns the mock builder or a default one.
func (m *Mock) Builder() *hierarchy.Builder {
	if m.BuilderFunc != nil {
		return m.BuilderFunc()
	}
	return hierarchy.New()
}

// Recorder returns the mock recorder or a default one.
func (m *Mock) Recorder() *references.Recorder {
	if m.RecorderFunc != nil {
		return m.RecorderFunc()
	}
	return references.New()
}

// BatchOptions returns the configured batch options.
func (m *Mock) BatchOptions() hierarchy.BatchOptions {
	return m.Batch
}

// Logger returns the mock logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.Log != nil {
		return m.Log
	}
	nop := zerolog.Nop()
	return &nop
}

// OutputFormat returns the configured format.
func (m *Mock) OutputFormat() string {
	return m.Format
}

// Version returns the mock version or "test".
func (m *Mock) Version() string {
	if m.VersionValue != "" {
		return m.VersionValue
	}
	return "test"
}

// Commit returns a fixed commit hash.
func (m *Mock) Commit() string { return "none" }

// Date returns a fixed build date.
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns a fixed builder identifier.
func (m *Mock) BuiltBy() string { return "test" }

var _ Interface = (*Mock)(nil)
