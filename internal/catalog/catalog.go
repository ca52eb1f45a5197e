// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog describes every conversion tool the client offers: which
// backend endpoint it calls, what inputs its form collects, and which
// filename and messages it uses when the round trip finishes.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ID identifies a tool. Values match the tool modes of the web client.
type ID string

// Shape is the request shape a tool sends to its endpoint.
type Shape int

const (
	// ShapeFile sends one "file" part plus string option parts.
	ShapeFile Shape = iota
	// ShapeFiles sends one repeated "files" part per input.
	ShapeFiles
	// ShapeFilePair sends "file1" and "file2".
	ShapeFilePair
	// ShapeJSONURL sends a JSON body {"url": ...} and no files.
	ShapeJSONURL
)

func (s Shape) String() string {
	switch s {
	case ShapeFile:
		return "file"
	case ShapeFiles:
		return "files"
	case ShapeFilePair:
		return "file-pair"
	case ShapeJSONURL:
		return "json-url"
	}
	return "unknown"
}

// FieldKind controls how a field is edited and validated.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindEnum
	KindSecret
	KindURL
)

// Field is one option input of a tool form. Name is the form key sent to
// the backend.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Default  string
	Options  []string
	Required bool
}

// Group is a sidebar section listing tools in display order.
type Group struct {
	Title string
	Tools []ID
}

// Tool describes one conversion tool.
type Tool struct {
	ID          ID
	Label       string
	Description string
	Endpoint    string
	Shape       Shape
	Accept      string
	Fields      []Field

	// MinFiles applies to ShapeFiles tools.
	MinFiles int

	// Filename is the fixed download name. When it contains "{field}",
	// the placeholder is replaced by the lowercased value of that field.
	Filename string

	SuccessMessage string
	ErrorMessage   string
}

var (
	// ErrUnknownTool is returned by MustLookup-style helpers for unknown IDs.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrNotReady means a submission does not satisfy the tool's form rules;
	// the submit action stays disabled.
	ErrNotReady = errors.New("tool is not ready to submit")
)

// Inputs is the data a user has entered into a tool form.
type Inputs struct {
	Files  []string
	Values map[string]string
}

// Field returns the field with the given form name.
func (t Tool) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns a fresh map of every field's default value.
func (t Tool) Defaults() map[string]string {
	out := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		out[f.Name] = f.Default
	}
	return out
}

// Values merges user values over the defaults. Keys that are not declared
// fields are dropped.
func (t Tool) Values(user map[string]string) map[string]string {
	out := t.Defaults()
	for k, v := range user {
		if _, ok := out[k]; ok {
			out[k] = v
		}
	}
	return out
}

// FileCount returns how many input files the tool takes: the exact number
// for single and pair tools, the minimum for multi-file tools.
func (t Tool) FileCount() int {
	switch t.Shape {
	case ShapeFile:
		return 1
	case ShapeFilePair:
		return 2
	case ShapeFiles:
		if t.MinFiles < 1 {
			return 1
		}
		return t.MinFiles
	}
	return 0
}

// Ready reports whether in can be submitted. It returns an error wrapping
// ErrNotReady that names the first missing or invalid input.
func (t Tool) Ready(in Inputs) error {
	files := nonEmpty(in.Files)
	switch t.Shape {
	case ShapeFile:
		if len(files) != 1 {
			return fmt.Errorf("%w: select one file", ErrNotReady)
		}
	case ShapeFilePair:
		if len(files) != 2 {
			return fmt.Errorf("%w: select both files", ErrNotReady)
		}
	case ShapeFiles:
		if len(files) < t.FileCount() {
			return fmt.Errorf("%w: select at least %d file(s)", ErrNotReady, t.FileCount())
		}
	case ShapeJSONURL:
		if len(files) != 0 {
			return fmt.Errorf("%w: this tool takes no files", ErrNotReady)
		}
	}

	values := t.Values(in.Values)
	for _, f := range t.Fields {
		v := strings.TrimSpace(values[f.Name])
		if v == "" {
			if f.Required {
				return fmt.Errorf("%w: %s is required", ErrNotReady, f.Label)
			}
			continue
		}
		if err := f.validate(v); err != nil {
			return fmt.Errorf("%w: %v", ErrNotReady, err)
		}
	}
	return nil
}

func (f Field) validate(v string) error {
	switch f.Kind {
	case KindInt:
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("%s must be a whole number", f.Label)
		}
	case KindEnum:
		if !slices.Contains(f.Options, v) {
			return fmt.Errorf("%s must be one of %s", f.Label, strings.Join(f.Options, ", "))
		}
	case KindURL:
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return fmt.Errorf("%s must start with http:// or https://", f.Label)
		}
	}
	return nil
}

// OutputName returns the filename the downloaded result is saved under.
func (t Tool) OutputName(values map[string]string) string {
	name := t.Filename
	start := strings.IndexByte(name, '{')
	end := strings.IndexByte(name, '}')
	if start < 0 || end < start {
		return name
	}
	key := name[start+1 : end]
	v := strings.ToLower(t.Values(values)[key])
	return name[:start] + v + name[end+1:]
}

func nonEmpty(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

var index = func() map[ID]int {
	m := make(map[ID]int, len(tools))
	for i, t := range tools {
		m[t.ID] = i
	}
	return m
}()

// All returns every tool in sidebar order.
func All() []Tool {
	return slices.Clone(tools)
}

// Lookup returns the tool with the given ID.
func Lookup(id ID) (Tool, bool) {
	i, ok := index[id]
	if !ok {
		return Tool{}, false
	}
	return tools[i], true
}

// Get is Lookup with an error for unknown IDs.
func Get(id string) (Tool, error) {
	t, ok := Lookup(ID(id))
	if !ok {
		return Tool{}, fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	return t, nil
}

// ByEndpoint returns the tool that calls endpoint.
func ByEndpoint(endpoint string) (Tool, bool) {
	for _, t := range tools {
		if t.Endpoint == endpoint {
			return t, true
		}
	}
	return Tool{}, false
}

// Groups returns the sidebar sections in display order.
func Groups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Title: g.Title, Tools: slices.Clone(g.Tools)}
	}
	return out
}

// GroupOf returns the sidebar section title that lists id.
func GroupOf(id ID) string {
	for _, g := range groups {
		if slices.Contains(g.Tools, id) {
			return g.Title
		}
	}
	return ""
}
