package modules

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/ulikunitz/xz"

	"github.com/agentstation/dicomstd/pkg/constants"
	"github.com/agentstation/dicomstd/pkg/errors"
)

// Format is a serialization format for module documents.
type Format string

const (
	// FormatJSON is the scraper's native format.
	FormatJSON Format = "json"
	// FormatYAML is accepted for hand-written fixtures.
	FormatYAML Format = "yaml"
)

// compressedExt marks documents that are xz compressed.
const compressedExt = ".xz"

// FormatFromPath picks a format from a file name, ignoring a trailing .xz.
func FormatFromPath(path string) Format {
	path = strings.TrimSuffix(strings.ToLower(path), compressedExt)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", errors.NewValidationError("format", s, "must be one of: json, yaml")
	}
}

// Load reads the modules stored at path. "-" reads standard input as JSON.
func Load(path string) ([]*Module, error) {
	if path == "-" {
		return Decode(os.Stdin, FormatJSON)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(strings.ToLower(path), compressedExt) {
		zr, err := xz.NewReader(r)
		if err != nil {
			return nil, errors.WrapIO("decompress", path, err)
		}
		r = zr
	}

	mods, err := Decode(r, FormatFromPath(path))
	if err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) && parseErr.File == "" {
			parseErr.File = path
		}
		return nil, err
	}
	return mods, nil
}

// Decode reads either a JSON array of modules or a single module object.
func Decode(r io.Reader, format Format) ([]*Module, error) {
	data, err := io.ReadAll(io.LimitReader(r, constants.MaxInputSize+1))
	if err != nil {
		return nil, errors.WrapIO("read", "", err)
	}
	if len(data) > constants.MaxInputSize {
		return nil, errors.NewValidationError("input", len(data), fmt.Sprintf("document exceeds %d bytes", constants.MaxInputSize))
	}

	if format == FormatYAML {
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, errors.WrapParse(string(FormatYAML), "", err)
		}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.NewParseError(string(format), "", "empty document", nil)
	}

	if trimmed[0] == '{' {
		var m Module
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return nil, errors.WrapParse(string(FormatJSON), "", err)
		}
		return []*Module{&m}, nil
	}

	var mods []*Module
	if err := json.Unmarshal(trimmed, &mods); err != nil {
		return nil, errors.WrapParse(string(FormatJSON), "", err)
	}
	for i, m := range mods {
		if m == nil {
			return nil, errors.NewValidationError("modules", i, fmt.Sprintf("module %d is null", i))
		}
	}
	return mods, nil
}

// Encode writes modules as an indented JSON array or a YAML sequence.
func Encode(w io.Writer, mods []*Module, format Format) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if mods == nil {
		mods = []*Module{}
	}
	if err := enc.Encode(mods); err != nil {
		return errors.WrapParse(string(FormatJSON), "", err)
	}

	data := buf.Bytes()
	if format == FormatYAML {
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return errors.WrapParse(string(FormatYAML), "", err)
		}
		data = out
	}

	if _, err := w.Write(data); err != nil {
		return errors.WrapIO("write", "", err)
	}
	return nil
}

// Save writes modules to path, compressing when the name ends in .xz.
// "-" writes JSON to standard output.
func Save(path string, mods []*Module) error {
	if path == "-" {
		return Encode(os.Stdout, mods, FormatJSON)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}

	var w io.Writer = f
	var zw *xz.Writer
	if strings.HasSuffix(strings.ToLower(path), compressedExt) {
		zw, err = xz.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return errors.WrapIO("compress", path, err)
		}
		w = zw
	}

	if err := Encode(w, mods, FormatFromPath(path)); err != nil {
		_ = f.Close()
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			_ = f.Close()
			return errors.WrapIO("compress", path, err)
		}
	}
	return errors.WrapIO("close", path, f.Close())
}
