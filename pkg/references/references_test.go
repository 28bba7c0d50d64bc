package references_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dicomstd/pkg/constants"
	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/modules"
	"github.com/agentstation/dicomstd/pkg/references"
)

func TestResolveHref(t *testing.T) {
	r := references.New()
	tests := []struct {
		href string
		want string
	}{
		{"#sect_C.7.1.1", "part03.html#sect_C.7.1.1"},
		{"part04.html#sect_B.5", "part04.html#sect_B.5"},
		{"part06.html", "part06.html"},
		{"#a#b", "part03.html#a#b"},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ResolveHref(tt.href))
		})
	}
}

func TestIgnored(t *testing.T) {
	r := references.New()
	for _, href := range []string{
		"http://www.ietf.org/rfc/rfc3986.txt",
		"ftp://example.org/file",
		"part05.html#sect_6.2",
		"#chapter_A",
		"PS3.16.html",
		"#DCM_121000",
		"#glossentry_Attribute",
	} {
		assert.True(t, r.Ignored(href), href)
	}
	assert.False(t, r.Ignored("#sect_C.7.6.1"))
	assert.False(t, r.Ignored("part04.html#table_B.5-1"))
}

func TestRecord(t *testing.T) {
	r := references.New()
	desc := `<p>See <a class="xref" href="#sect_C.7.6.1" title="C.7.6.1 General Image Module">Section C.7.6.1</a>` +
		` and <a href="part05.html#sect_6.2">PS3.5</a>.</p>`

	out, refs, err := r.Record(desc)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, modules.Reference{
		SourceURL: constants.DefaultBaseURL + "part03.html#sect_C.7.6.1",
		Title:     "Section C.7.6.1",
	}, refs[0])

	assert.Contains(t, out, `<span class="xref" href="" title="C.7.6.1 General Image Module">Section C.7.6.1</span>`)
	assert.Contains(t, out, `<a href="part05.html#sect_6.2">PS3.5</a>`)
	assert.NotContains(t, out, `href="#sect_C.7.6.1"`)

	// a recorded description has nothing left to record
	again, refs, err := r.Record(out)
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.Equal(t, out, again)
}

func TestRecordNestedTitle(t *testing.T) {
	out, refs, err := references.New().Record(`<p><a href="part04.html#x"><em>Storage</em> SOP Class</a></p>`)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Storage SOP Class", refs[0].Title)
	assert.Equal(t, constants.DefaultBaseURL+"part04.html#x", refs[0].SourceURL)
	assert.Equal(t, `<p><span href=""><em>Storage</em> SOP Class</span></p>`, out)
}

func TestRecordWithoutAnchors(t *testing.T) {
	r := references.New()
	for _, desc := range []string{
		"",
		"Plain text with no markup.",
		"<p>Paragraph with <b>bold</b> only.</p>",
		`<p><a name="anchor">no href</a></p>`,
	} {
		out, refs, err := r.Record(desc)
		require.NoError(t, err)
		assert.Equal(t, desc, out)
		assert.NotNil(t, refs)
		assert.Empty(t, refs)
	}
}

func TestResolve(t *testing.T) {
	r := references.New()
	hrefs, err := r.Resolve(`<a href="#sect_1">a</a><a href="http://x">b</a><a href="part04.html#s">c</a>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"part03.html#sect_1", "part04.html#s"}, hrefs)
}

func TestOptions(t *testing.T) {
	r := references.New(
		references.WithBaseURL("https://example.org/dicom/"),
		references.WithIgnored(regexp.MustCompile(`part04`)),
	)
	assert.Equal(t, "https://example.org/dicom/", r.BaseURL())

	_, refs, err := r.Record(`<a href="part04.html#a">a</a><a href="http://host/#b">b</a>`)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "https://example.org/dicom/http://host/#b", refs[0].SourceURL)

	// empty values keep the defaults
	r = references.New(references.WithBaseURL(""), references.WithIgnored(nil))
	assert.Equal(t, constants.DefaultBaseURL, r.BaseURL())
	assert.True(t, r.Ignored("http://x"))
}

func TestRecordModule(t *testing.T) {
	m := &modules.Module{ID: "patient", Attributes: []*modules.Attribute{
		{ID: "patient:00100010", Name: "Patient's Name", Description: `<p>See <a href="#sect_10.2">Name</a>.</p>`},
		{ID: "patient:00100020", Name: "Patient ID", Description: "Primary identifier."},
	}}

	out, err := references.New().RecordModule(m)
	require.NoError(t, err)
	require.Len(t, out.Attributes[0].ExternalReferences, 1)
	assert.Equal(t, "Name", out.Attributes[0].ExternalReferences[0].Title)
	assert.NotNil(t, out.Attributes[1].ExternalReferences)
	assert.Empty(t, out.Attributes[1].ExternalReferences)

	// the input is left untouched
	assert.Nil(t, m.Attributes[0].ExternalReferences)
	assert.Contains(t, m.Attributes[0].Description, `href="#sect_10.2"`)

	_, err = references.New().RecordModule(nil)
	assert.True(t, errors.IsValidationError(err))
}
