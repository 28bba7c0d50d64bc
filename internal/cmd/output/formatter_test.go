package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() Data {
	return Data{
		Headers:      []string{"ID", "Depth"},
		Rows:         [][]string{{"patient:00100010", "0"}, {"patient:00101002:00100020", "1"}},
		RightAligned: []int{1},
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, sampleData()))
	assert.Contains(t, buf.String(), "patient:00101002:00100020")
}

func TestTableFormatterStruct(t *testing.T) {
	summary := struct {
		Modules    int `json:"modules"`
		Attributes int `json:"max_depth"`
		hidden     int
	}{Modules: 2, Attributes: 3}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, summary))
	assert.Contains(t, buf.String(), "Modules")
	assert.Contains(t, buf.String(), "Max Depth")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestJSONFormatterConvertsData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, sampleData()))
	assert.JSONEq(t, `[{"id":"patient:00100010","depth":"0"},{"id":"patient:00101002:00100020","depth":"1"}]`, buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, sampleData()))
	assert.Contains(t, buf.String(), "id: patient:00100010")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	assert.Equal(t, FormatYAML, DetectFormat("yaml"))
}
