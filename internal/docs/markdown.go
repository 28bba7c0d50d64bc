// Package docs renders processed modules as Markdown reference pages.
package docs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/dicomstd/pkg/constants"
	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/hierarchy"
	"github.com/agentstation/dicomstd/pkg/modules"
)

// RenderModule writes a page for m: a heading with the module id and a
// table of its attributes. Nested attribute names are indented with
// non-breaking spaces so the hierarchy stays visible in rendered tables.
func RenderModule(w io.Writer, m *modules.Module) error {
	rows := make([][]string, 0, len(m.Attributes))
	for _, a := range m.Attributes {
		depth := len(hierarchy.Segments(a.ID)) - 2
		if depth < 0 {
			depth = 0
		}
		rows = append(rows, []string{
			md.Code(escapeCell(a.ID)),
			escapeCell(a.Tag),
			strings.Repeat("&nbsp;&nbsp;", depth) + escapeCell(a.Name),
			escapeCell(a.Type),
			strconv.Itoa(depth),
			referenceLinks(a.ExternalReferences),
		})
	}

	doc := md.NewMarkdown(w).
		H1(m.ID).
		PlainTextf("%d attributes.", len(m.Attributes)).
		LF()
	if len(rows) > 0 {
		doc = doc.Table(md.TableSet{
			Header: []string{"ID", "Tag", "Name", "Type", "Depth", "References"},
			Rows:   rows,
		})
	}
	return doc.Build()
}

// WriteModules writes one <module id>.md file per module into dir. A module
// whose id is not a plain file name is rejected before anything is written
// for it.
func WriteModules(dir string, mods []*modules.Module) ([]string, error) {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}

	paths := make([]string, 0, len(mods))
	for _, m := range mods {
		if err := checkFileName(m.ID); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, m.ID+".md")
		f, err := os.Create(path)
		if err != nil {
			return paths, errors.WrapIO("create", path, err)
		}
		if err := RenderModule(f, m); err != nil {
			_ = f.Close()
			return paths, errors.WrapIO("write", path, err)
		}
		if err := f.Close(); err != nil {
			return paths, errors.WrapIO("close", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func checkFileName(id string) error {
	if id == "" || id == "." || id == ".." ||
		strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return errors.NewValidationError("id", id, "module id cannot be used as a file name")
	}
	return nil
}

func referenceLinks(refs []modules.Reference) string {
	links := make([]string, len(refs))
	for i, ref := range refs {
		title := ref.Title
		if title == "" {
			title = fmt.Sprintf("ref %d", i+1)
		}
		links[i] = md.Link(escapeCell(title), ref.SourceURL)
	}
	return strings.Join(links, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
