// Package modules defines the module-attribute records scraped from the
// DICOM standard and their JSON and YAML encodings.
package modules

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Module is one module table of the standard. Its ID is the root segment
// of every attribute id inside it.
//
// Module-level keys other than id and attributes (name, linkToStandard,
// description, ...) are kept in Extra and written back unchanged.
type Module struct {
	ID         string       `json:"id" yaml:"id"`
	Attributes []*Attribute `json:"attributes" yaml:"attributes"`

	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

// Clone returns a deep copy of the module.
func (m *Module) Clone() *Module {
	if m == nil {
		return nil
	}
	out := &Module{ID: m.ID, Extra: cloneExtra(m.Extra)}
	if m.Attributes != nil {
		out.Attributes = make([]*Attribute, len(m.Attributes))
		for i, attr := range m.Attributes {
			out.Attributes[i] = attr.Clone()
		}
	}
	return out
}

// moduleJSON mirrors Module without its methods.
type moduleJSON struct {
	ID         string       `json:"id"`
	Attributes []*Attribute `json:"attributes"`
}

// UnmarshalJSON decodes id and attributes and keeps the rest in Extra.
func (m *Module) UnmarshalJSON(data []byte) error {
	var known moduleJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := unknownKeys(data, func(k string) bool { return k == "id" || k == "attributes" })
	if err != nil {
		return err
	}
	*m = Module{ID: known.ID, Attributes: known.Attributes, Extra: extra}
	return nil
}

// MarshalJSON writes id and attributes followed by Extra in key order.
func (m *Module) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range []struct {
		key   string
		value any
	}{{"id", m.ID}, {"attributes", m.Attributes}} {
		raw, err := marshalRaw(f.value)
		if err != nil {
			return nil, err
		}
		if err := writeRaw(&buf, &first, f.key, raw); err != nil {
			return nil, err
		}
	}
	if err := writeExtra(&buf, &first, m.Extra); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Attribute returns the attribute with the given hierarchical id.
func (m *Module) Attribute(id string) (*Attribute, bool) {
	for _, attr := range m.Attributes {
		if attr.ID == id {
			return attr, true
		}
	}
	return nil, false
}

// Reference is an external link found in an attribute description.
type Reference struct {
	SourceURL string `json:"sourceUrl" yaml:"sourceUrl"`
	Title     string `json:"title" yaml:"title"`
}

// Attribute is a single row of a module table.
//
// Name may carry leading hierarchy markers (">>Referenced SOP Class UID")
// until the hierarchy builder strips them. ExternalReferences is nil until
// references have been recorded and empty (not nil) when none were found.
type Attribute struct {
	ID                 string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name               string      `json:"name" yaml:"name"`
	Tag                string      `json:"tag" yaml:"tag"`
	Type               string      `json:"type" yaml:"type"`
	Description        string      `json:"description,omitempty" yaml:"description,omitempty"`
	ExternalReferences []Reference `json:"externalReferences,omitempty" yaml:"externalReferences,omitempty"`

	// Extra keeps keys this package does not model so they are written back unchanged.
	Extra map[string]json.RawMessage `json:"-" yaml:"-"`

	// hasDescription records a description key present on input, even when empty.
	hasDescription bool
}

// knownFields are the JSON keys mapped onto Attribute struct fields.
var knownFields = map[string]bool{
	"id":                 true,
	"name":               true,
	"tag":                true,
	"type":               true,
	"description":        true,
	"externalReferences": true,
}

// Clone returns a deep copy of the attribute.
func (a *Attribute) Clone() *Attribute {
	if a == nil {
		return nil
	}
	out := *a
	if a.ExternalReferences != nil {
		out.ExternalReferences = append([]Reference{}, a.ExternalReferences...)
	}
	out.Extra = cloneExtra(a.Extra)
	return &out
}

func cloneExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	if extra == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(extra))
	for k, v := range extra {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// unknownKeys returns the keys of the JSON object in data that known rejects.
func unknownKeys(data []byte, known func(string) bool) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	var extra map[string]json.RawMessage
	for k, v := range all {
		if known(k) {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	return extra, nil
}

// attributeJSON mirrors Attribute without its methods.
type attributeJSON struct {
	ID                 string      `json:"id,omitempty"`
	Name               string      `json:"name"`
	Tag                string      `json:"tag"`
	Type               string      `json:"type"`
	Description        string      `json:"description,omitempty"`
	ExternalReferences []Reference `json:"externalReferences"`
}

// UnmarshalJSON decodes the modelled fields and keeps the rest in Extra.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var known attributeJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var present struct {
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(data, &present); err != nil {
		return err
	}
	extra, err := unknownKeys(data, func(k string) bool { return knownFields[k] })
	if err != nil {
		return err
	}

	*a = Attribute{
		ID:                 known.ID,
		Name:               known.Name,
		Tag:                known.Tag,
		Type:               known.Type,
		Description:        known.Description,
		ExternalReferences: known.ExternalReferences,
		Extra:              extra,
		hasDescription:     present.Description != nil,
	}
	return nil
}

// MarshalJSON writes the modelled fields followed by Extra in key order.
// An empty, non-nil ExternalReferences is written as []. An empty
// description is written only when the input carried the key.
func (a *Attribute) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value any) error {
		raw, err := marshalRaw(value)
		if err != nil {
			return err
		}
		return writeRaw(&buf, &first, key, raw)
	}

	if a.ID != "" {
		if err := write("id", a.ID); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		key   string
		value string
	}{{"name", a.Name}, {"tag", a.Tag}, {"type", a.Type}} {
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}
	if a.Description != "" || a.hasDescription {
		if err := write("description", a.Description); err != nil {
			return nil, err
		}
	}
	if a.ExternalReferences != nil {
		if err := write("externalReferences", a.ExternalReferences); err != nil {
			return nil, err
		}
	}

	if err := writeExtra(&buf, &first, a.Extra); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeExtra writes the extra keys in sorted order.
func writeExtra(buf *bytes.Buffer, first *bool, extra map[string]json.RawMessage) error {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeRaw(buf, first, k, extra[k]); err != nil {
			return err
		}
	}
	return nil
}

// marshalRaw encodes v without escaping the HTML carried in descriptions.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func writeRaw(buf *bytes.Buffer, first *bool, key string, raw []byte) error {
	if !*first {
		buf.WriteByte(',')
	}
	*first = false
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(raw)
	return nil
}
