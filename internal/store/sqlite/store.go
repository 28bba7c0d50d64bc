// Package sqlite exports processed modules into a SQLite database so the
// reconstructed hierarchy can be queried with parent/child relations.
//
// The pure Go modernc.org/sqlite driver is used so the CLI builds without CGO.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/hierarchy"
	"github.com/agentstation/dicomstd/pkg/modules"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS modules (
	id TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS attributes (
	module_id   TEXT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	id          TEXT NOT NULL,
	parent_id   TEXT,
	depth       INTEGER NOT NULL,
	tag         TEXT NOT NULL,
	name        TEXT NOT NULL,
	type        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (module_id, position)
);
CREATE INDEX IF NOT EXISTS attributes_id ON attributes(id);
CREATE INDEX IF NOT EXISTS attributes_parent ON attributes(parent_id, position);
CREATE TABLE IF NOT EXISTS attribute_references (
	module_id  TEXT NOT NULL,
	position   INTEGER NOT NULL,
	source_url TEXT NOT NULL,
	title      TEXT NOT NULL,
	FOREIGN KEY (module_id, position) REFERENCES attributes(module_id, position) ON DELETE CASCADE
);
`

// Store is a SQLite database of modules and their attributes.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	// one connection keeps ":memory:" databases and foreign_keys consistent
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("open", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("migrate", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return errors.WrapIO("close", s.path, s.db.Close())
}

// SaveModules replaces the stored contents of every given module in a
// single transaction. Attributes must already carry hierarchical ids.
func (s *Store) SaveModules(ctx context.Context, mods []*modules.Module) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapIO("begin", s.path, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, m := range mods {
		if err = saveModule(ctx, tx, m); err != nil {
			return errors.WrapModule(m.ID, err)
		}
	}
	return errors.WrapIO("commit", s.path, tx.Commit())
}

func saveModule(ctx context.Context, tx *sql.Tx, m *modules.Module) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM modules WHERE id = ?`, m.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO modules (id) VALUES (?)`, m.ID); err != nil {
		return err
	}

	insertAttr, err := tx.PrepareContext(ctx, `INSERT INTO attributes
		(id, module_id, parent_id, depth, position, tag, name, type, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = insertAttr.Close() }()

	insertRef, err := tx.PrepareContext(ctx, `INSERT INTO attribute_references
		(module_id, position, source_url, title) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = insertRef.Close() }()

	for i, a := range m.Attributes {
		if a.ID == "" {
			return errors.NewValidationError("id", a.Tag, "attribute has no hierarchical id")
		}

		var parent sql.NullString
		if p, ok := hierarchy.ParentID(a.ID); ok && p != m.ID {
			parent = sql.NullString{String: p, Valid: true}
		}
		depth := len(hierarchy.Segments(a.ID)) - 2

		if _, err := insertAttr.ExecContext(ctx, a.ID, m.ID, parent, depth, i, a.Tag, a.Name, a.Type, a.Description); err != nil {
			return err
		}
		for _, ref := range a.ExternalReferences {
			if _, err := insertRef.ExecContext(ctx, m.ID, i, ref.SourceURL, ref.Title); err != nil {
				return err
			}
		}
	}
	return nil
}

// ModuleIDs lists the stored module ids in order.
func (s *Store) ModuleIDs(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `SELECT id FROM modules ORDER BY id`)
}

// Children lists the ids of the direct children of parentID in table order.
// Passing a module id lists the module's top-level attributes.
func (s *Store) Children(ctx context.Context, parentID string) ([]string, error) {
	return s.strings(ctx, `SELECT id FROM attributes
		WHERE parent_id = ? OR (parent_id IS NULL AND module_id = ?)
		ORDER BY position`, parentID, parentID)
}

// Attribute loads a single attribute with its references. When a module
// repeats an id, the first occurrence is returned.
func (s *Store) Attribute(ctx context.Context, id string) (*modules.Attribute, error) {
	var (
		moduleID string
		position int
	)
	a := &modules.Attribute{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT module_id, position, tag, name, type, description
		FROM attributes WHERE id = ? ORDER BY module_id, position LIMIT 1`, id).
		Scan(&moduleID, &position, &a.Tag, &a.Name, &a.Type, &a.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("attribute", id)
	}
	if err != nil {
		return nil, errors.WrapIO("query", s.path, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT source_url, title FROM attribute_references
		WHERE module_id = ? AND position = ? ORDER BY rowid`, moduleID, position)
	if err != nil {
		return nil, errors.WrapIO("query", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var ref modules.Reference
		if err := rows.Scan(&ref.SourceURL, &ref.Title); err != nil {
			return nil, errors.WrapIO("query", s.path, err)
		}
		a.ExternalReferences = append(a.ExternalReferences, ref)
	}
	return a, errors.WrapIO("query", s.path, rows.Err())
}

func (s *Store) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapIO("query", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.WrapIO("query", s.path, err)
		}
		out = append(out, v)
	}
	return out, errors.WrapIO("query", s.path, rows.Err())
}
