// Package pipeline chains the processing passes that the CLI commands run
// over a batch of modules: hierarchy ids first, then description references.
package pipeline

import (
	"context"

	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/hierarchy"
	"github.com/agentstation/dicomstd/pkg/logging"
	"github.com/agentstation/dicomstd/pkg/modules"
	"github.com/agentstation/dicomstd/pkg/references"
)

// Passes provides the configured processors for a run.
type Passes interface {
	Builder() *hierarchy.Builder
	Recorder() *references.Recorder
}

// Hierarchy assigns hierarchical ids to every module.
// The successful modules are returned together with any batch error so
// callers can still emit them.
func Hierarchy(ctx context.Context, b *hierarchy.Builder, mods []*modules.Module, opts hierarchy.BatchOptions) ([]*modules.Module, error) {
	result, err := b.BuildAll(logging.WithOperation(ctx, "hierarchy"), mods, opts)
	if err != nil {
		return result.Modules, err
	}
	return result.Modules, result.Err()
}

// References records the external references of every module.
// With keepGoing a failing module is skipped and reported in a
// *errors.BatchError; otherwise the first failure stops the pass.
func References(ctx context.Context, r *references.Recorder, mods []*modules.Module, keepGoing bool) ([]*modules.Module, error) {
	logger := logging.FromContext(ctx)
	out := make([]*modules.Module, 0, len(mods))
	batchErr := &errors.BatchError{Operation: "references"}

	for _, m := range mods {
		if ctx.Err() != nil {
			return out, errors.ErrCanceled
		}
		recorded, err := r.RecordModule(m)
		if err != nil {
			var modErr *errors.ModuleError
			if !errors.As(err, &modErr) {
				modErr = &errors.ModuleError{Module: idOf(m), Err: err}
			}
			batchErr.Failures = append(batchErr.Failures, modErr)
			if !keepGoing {
				return out, batchErr
			}
			logger.Error().Err(err).Str("module", idOf(m)).Msg("Failed to record references")
			continue
		}
		out = append(out, recorded)
	}

	logger.Debug().Int("modules", len(out)).Msg("Recorded description references")
	if len(batchErr.Failures) > 0 {
		return out, batchErr
	}
	return out, nil
}

// Process runs the hierarchy pass followed by the references pass.
// Modules that fail the first pass are not passed to the second.
func Process(ctx context.Context, p Passes, mods []*modules.Module, opts hierarchy.BatchOptions) ([]*modules.Module, error) {
	built, buildErr := Hierarchy(ctx, p.Builder(), mods, opts)
	if buildErr != nil && !opts.KeepGoing {
		return built, buildErr
	}

	recorded, refErr := References(ctx, p.Recorder(), built, opts.KeepGoing)
	if buildErr != nil {
		return recorded, merge(buildErr, refErr)
	}
	return recorded, refErr
}

// merge folds the failures of two passes into one batch error.
func merge(first, second error) error {
	if second == nil {
		return first
	}
	var a, b *errors.BatchError
	if !errors.As(first, &a) || !errors.As(second, &b) {
		return first
	}
	return &errors.BatchError{
		Operation: "process",
		Failures:  append(append([]*errors.ModuleError{}, a.Failures...), b.Failures...),
	}
}

func idOf(m *modules.Module) string {
	if m == nil {
		return ""
	}
	return m.ID
}
