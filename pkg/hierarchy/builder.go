// Package hierarchy reconstructs the nesting of module attributes from the
// depth markers on their names.
//
// The standard's tables encode nesting by prefixing an attribute name with
// one marker per level (">Item", ">>Nested Item"). A single forward pass with
// a stack of path segments turns that into ids such as
// "patient:00101002:00100020", where every prefix is the id of an ancestor.
package hierarchy

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/dicomstd/pkg/constants"
	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/logging"
	"github.com/agentstation/dicomstd/pkg/modules"
	"github.com/agentstation/dicomstd/pkg/slug"
)

// Builder assigns hierarchical ids to module attributes.
// A Builder holds no per-module state and is safe for concurrent use.
type Builder struct {
	marker rune
	logger *zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithMarker sets the depth marker character. The default is '>'.
func WithMarker(marker rune) Option {
	return func(b *Builder) {
		b.marker = marker
	}
}

// WithLogger sets the logger used when no logger is carried by the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{marker: constants.HierarchyMarker}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns a copy of m in which every attribute carries its
// hierarchical id and has markers and whitespace stripped from its name,
// tag and type. m itself is never modified.
//
// Build fails with a *errors.MalformedTagError on the first attribute whose
// tag yields no path segment; no partial result is returned.
func (b *Builder) Build(ctx context.Context, m *modules.Module) (*modules.Module, error) {
	if m == nil {
		return nil, errors.NewValidationError("module", nil, "module is nil")
	}
	if strings.TrimSpace(m.ID) == "" {
		return nil, errors.NewValidationError("id", m.ID, "module id is empty")
	}

	logger := b.loggerFor(ctx).With().Str("module", m.ID).Logger()
	out := m.Clone()
	w := newWalker(m.ID)

	for i, attr := range out.Attributes {
		if attr == nil {
			return nil, errors.NewValidationError("attributes", i, "attribute is nil")
		}

		segment := slug.Make(clean(attr.Tag, b.marker))
		if !slug.Valid(segment) {
			return nil, errors.NewMalformedTagError(m.ID, i, attr.Tag)
		}

		depth := len(markers(attr.Name, b.marker))
		if delta := w.step(depth, segment); delta > 2 {
			logger.Warn().
				Int("index", i).
				Str("tag", attr.Tag).
				Int("depth", depth).
				Int("delta", delta).
				Msg("Depth jumped more than two levels; treated as a single level")
		} else if delta == 2 {
			logger.Debug().
				Int("index", i).
				Str("tag", attr.Tag).
				Msg("Clamped double hierarchy marker to one level")
		}

		attr.ID = w.id()
		attr.Name = clean(attr.Name, b.marker)
		attr.Tag = clean(attr.Tag, b.marker)
		attr.Type = clean(attr.Type, b.marker)
	}

	logger.Debug().Int("attributes", len(out.Attributes)).Msg("Built module hierarchy")
	return out, nil
}

func (b *Builder) loggerFor(ctx context.Context) *zerolog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return logging.FromContext(ctx)
}

// walker tracks the current path and depth across one module.
type walker struct {
	path  []string
	level int
}

func newWalker(root string) *walker {
	return &walker{path: []string{root}, level: -1}
}

// step moves the walker to an attribute at depth with the given segment and
// returns the unclamped depth change.
//
// The standard has at least one table where two markers are used instead of
// one, so any descent of more than one level is taken as exactly one.
func (w *walker) step(depth int, segment string) int {
	raw := depth - w.level
	delta := raw
	if delta > 1 {
		delta = 1
	}

	switch {
	case delta == 0:
		w.path[len(w.path)-1] = segment
	case delta == 1:
		w.path = append(w.path, segment)
		w.level++
	default:
		w.path = w.path[:len(w.path)+delta]
		w.path[len(w.path)-1] = segment
		w.level += delta
	}
	return raw
}

func (w *walker) id() string {
	return strings.Join(w.path, constants.IDSeparator)
}
