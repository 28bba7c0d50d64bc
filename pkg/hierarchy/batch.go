package hierarchy

import (
	"context"
	"sync"

	"github.com/agentstation/dicomstd/pkg/constants"
	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/logging"
	"github.com/agentstation/dicomstd/pkg/modules"
)

// BatchOptions controls how a batch of modules is processed.
type BatchOptions struct {
	// Concurrency is the number of modules built at once.
	// Zero means constants.MaxConcurrentModules.
	Concurrency int

	// KeepGoing reports failures per module instead of aborting the batch.
	KeepGoing bool
}

// BatchResult holds the modules that were built, in input order, and the
// modules that failed.
type BatchResult struct {
	Modules  []*modules.Module
	Failures []*errors.ModuleError
}

// Err returns the failures as a *errors.BatchError, or nil.
func (r *BatchResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &errors.BatchError{Operation: "hierarchy", Failures: r.Failures}
}

// BuildAll builds every module. Modules share no state, so they are built
// concurrently; attributes within a module are always walked in order.
//
// Without KeepGoing the first failure cancels the remaining work and is
// returned as a *errors.BatchError. With KeepGoing the error is nil and
// failures are listed in the result.
func (b *Builder) BuildAll(ctx context.Context, mods []*modules.Module, opts BatchOptions) (*BatchResult, error) {
	workers := opts.Concurrency
	if workers <= 0 {
		workers = constants.MaxConcurrentModules
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := logging.FromContext(ctx)
	logger.Debug().
		Int("modules", len(mods)).
		Int("workers", workers).
		Bool("keep_going", opts.KeepGoing).
		Msg("Building module hierarchies")

	built := make([]*modules.Module, len(mods))
	failed := make([]error, len(mods))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr = -1
	)
	jobs := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					failed[i] = errors.ErrCanceled
					continue
				}
				m, err := b.Build(logging.WithModule(ctx, moduleID(mods[i])), mods[i])
				if err != nil {
					failed[i] = err
					if !opts.KeepGoing {
						mu.Lock()
						if firstErr < 0 || i < firstErr {
							firstErr = i
						}
						mu.Unlock()
						cancel()
					}
					continue
				}
				built[i] = m
			}
		}()
	}

feed:
	for i := range mods {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(mods); j++ {
				failed[j] = errors.ErrCanceled
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	result := &BatchResult{}
	if !opts.KeepGoing && firstErr >= 0 {
		result.Failures = []*errors.ModuleError{{Module: moduleID(mods[firstErr]), Err: failed[firstErr]}}
		return result, result.Err()
	}

	canceled := false
	for i, m := range built {
		switch {
		case m != nil:
			result.Modules = append(result.Modules, m)
		case failed[i] == errors.ErrCanceled:
			canceled = true
		case failed[i] != nil:
			logger.Error().Err(failed[i]).Str("module", moduleID(mods[i])).Msg("Failed to build module hierarchy")
			result.Failures = append(result.Failures, &errors.ModuleError{Module: moduleID(mods[i]), Err: failed[i]})
		}
	}
	if canceled {
		return result, errors.ErrCanceled
	}
	return result, nil
}

func moduleID(m *modules.Module) string {
	if m == nil {
		return ""
	}
	return m.ID
}
