// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/nexus-tools/internal/catalog"
	"github.com/pdiddy/nexus-tools/internal/client"
)

// input is one row of a tool form. File rows have no field.
type input struct {
	label string
	field *catalog.Field
	multi bool
	ti    textinput.Model
}

// form collects the files and option values of one tool.
type form struct {
	tool   catalog.Tool
	inputs []input
	focus  int
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.Width = 48
	return ti
}

func newForm(tool catalog.Tool) form {
	f := form{tool: tool}
	switch tool.Shape {
	case catalog.ShapeFile:
		f.inputs = append(f.inputs, input{label: "File", ti: newTextInput("path/to/file" + tool.Accept)})
	case catalog.ShapeFilePair:
		f.inputs = append(f.inputs,
			input{label: "First file", ti: newTextInput("path/to/first" + tool.Accept)},
			input{label: "Second file", ti: newTextInput("path/to/second" + tool.Accept)},
		)
	case catalog.ShapeFiles:
		label := "Files (comma separated)"
		if tool.MinFiles > 1 {
			label = fmt.Sprintf("Files (comma separated, at least %d)", tool.MinFiles)
		}
		f.inputs = append(f.inputs, input{label: label, multi: true, ti: newTextInput("a" + tool.Accept + ", b" + tool.Accept)})
	}

	for i := range tool.Fields {
		fd := &tool.Fields[i]
		ti := newTextInput(fd.Label)
		ti.SetValue(fd.Default)
		label := fd.Label
		switch fd.Kind {
		case catalog.KindSecret:
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		case catalog.KindEnum:
			label += " (" + strings.Join(fd.Options, "|") + ")"
		}
		f.inputs = append(f.inputs, input{label: label, field: fd, ti: ti})
	}
	f.setFocus(0)
	return f
}

// splitPaths splits a comma-separated list of paths, dropping blanks.
func splitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// submission returns what the form currently holds.
func (f form) submission() client.Submission {
	sub := client.Submission{Values: make(map[string]string)}
	for _, in := range f.inputs {
		v := strings.TrimSpace(in.ti.Value())
		switch {
		case in.field != nil:
			sub.Values[in.field.Name] = v
		case in.multi:
			sub.Files = append(sub.Files, splitPaths(v)...)
		case v != "":
			sub.Files = append(sub.Files, v)
		}
	}
	return sub
}

// ready reports whether the form can be submitted, with the reason when
// it cannot.
func (f form) ready() error {
	return f.tool.Ready(f.submission())
}

func (f *form) setFocus(i int) {
	if len(f.inputs) == 0 {
		return
	}
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].ti.Focus()
		} else {
			f.inputs[j].ti.Blur()
		}
	}
}

func (f *form) blur() {
	for j := range f.inputs {
		f.inputs[j].ti.Blur()
	}
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if len(f.inputs) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus].ti, cmd = f.inputs[f.focus].ti.Update(msg)
	return f, cmd
}

// setValue sets the row for a field name, or the first file row when name
// is empty.
func (f *form) setValue(name, value string) bool {
	for i, in := range f.inputs {
		if (name == "" && in.field == nil) || (in.field != nil && in.field.Name == name) {
			f.inputs[i].ti.SetValue(value)
			return true
		}
	}
	return false
}

func (f form) view(st styles, busy bool, spin string, width int) string {
	var b strings.Builder
	b.WriteString(st.title.Render(f.tool.Label))
	b.WriteString("\n")
	b.WriteString(st.muted.Render(f.tool.Description))
	b.WriteString("\n\n")

	for i, in := range f.inputs {
		label := st.label
		if i == f.focus {
			label = st.focusLabel
		}
		b.WriteString(label.Render(in.label))
		b.WriteString("\n")
		b.WriteString(in.ti.View())
		b.WriteString("\n\n")
	}
	if len(f.inputs) == 0 {
		b.WriteString(st.muted.Render("This tool takes no input."))
		b.WriteString("\n\n")
	}

	switch err := f.ready(); {
	case busy:
		b.WriteString(st.button.Render(spin + " Processing..."))
	case err != nil:
		b.WriteString(st.disabled.Render("Submit"))
		b.WriteString("  ")
		b.WriteString(st.muted.Render(reason(err)))
	default:
		b.WriteString(st.button.Render("Submit ⏎"))
	}
	b.WriteString("\n\n")
	b.WriteString(st.muted.Render("→ " + f.tool.OutputName(f.submission().Values)))
	return st.form.Width(width).Render(b.String())
}

// reason strips the sentinel prefix from a readiness error.
func reason(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
