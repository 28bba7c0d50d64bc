package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/modules"
)

func sampleModule() *modules.Module {
	return &modules.Module{ID: "patient", Attributes: []*modules.Attribute{
		{ID: "patient:00101002", Tag: "(0010,1002)", Name: "Other Patient IDs Sequence", Type: "3"},
		{ID: "patient:00101002:00100020", Tag: "(0010,0020)", Name: "Patient ID", Type: "1",
			ExternalReferences: []modules.Reference{{SourceURL: "http://x/p#s", Title: "S10"}}},
	}}
}

func TestRenderModule(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, RenderModule(&sb, sampleModule()))

	out := sb.String()
	assert.Contains(t, out, "# patient")
	assert.Contains(t, out, "2 attributes.")
	assert.Contains(t, out, "`patient:00101002:00100020`")
	assert.Contains(t, out, "&nbsp;&nbsp;Patient ID")
	assert.Contains(t, out, "[S10](http://x/p#s)")
}

func TestRenderEmptyModule(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, RenderModule(&sb, &modules.Module{ID: "empty"}))
	assert.Contains(t, sb.String(), "0 attributes.")
	assert.NotContains(t, sb.String(), "| ID")
}

func TestWriteModules(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	paths, err := WriteModules(dir, []*modules.Module{sampleModule(), {ID: "general-study"}})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	data, err := os.ReadFile(filepath.Join(dir, "patient.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# patient")
	assert.FileExists(t, filepath.Join(dir, "general-study.md"))
}

func TestWriteModulesRejectsUnsafeIDs(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "docs")
	for _, id := range []string{"../escaped", "a/b", `a\b`, "..", ""} {
		t.Run(id, func(t *testing.T) {
			paths, err := WriteModules(dir, []*modules.Module{sampleModule(), {ID: id}})
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Equal(t, []string{filepath.Join(dir, "patient.md")}, paths)
		})
	}
	assert.NoFileExists(t, filepath.Join(root, "escaped.md"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "patient.md", entries[0].Name())
}

func TestRenderEscapesEveryCell(t *testing.T) {
	m := &modules.Module{ID: "odd", Attributes: []*modules.Attribute{
		{ID: "odd:a|b", Tag: "(0010|0010)", Name: "A | B", Type: "1|2"},
	}}
	var sb strings.Builder
	require.NoError(t, RenderModule(&sb, m))

	out := sb.String()
	assert.Contains(t, out, "`odd:a\\|b`")
	assert.Contains(t, out, `(0010\|0010)`)
	assert.Contains(t, out, `A \| B`)
	assert.Contains(t, out, `1\|2`)
	assert.NotContains(t, out, "(0010|0010)")
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a \| b`, escapeCell("a | b"))
	assert.Equal(t, "", referenceLinks(nil))
	assert.Equal(t, "[ref 1](u)", referenceLinks([]modules.Reference{{SourceURL: "u"}}))
}
