// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui is the interactive terminal shell: a collapsible sidebar of
// tools, the form of the selected tool, and toast notifications in the top
// right corner.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/nexus-tools/internal/catalog"
	"github.com/pdiddy/nexus-tools/internal/client"
	"github.com/pdiddy/nexus-tools/pkg/types"
)

// Submitter runs one tool submission to completion.
type Submitter interface {
	Run(ctx context.Context, tool catalog.Tool, sub client.Submission) (client.Outcome, error)
}

// Toasts is the read side of the notification center.
type Toasts interface {
	Active() []types.Toast
	Next() (time.Duration, bool)
	Expire() int
}

type pane int

const (
	paneSidebar pane = iota
	paneForm
)

// resultMsg reports a finished submission.
type resultMsg struct {
	tool    catalog.ID
	outcome client.Outcome
	err     error
}

// expireMsg fires when the earliest toast is due to expire.
type expireMsg struct{}

// Model is the bubbletea model of the shell.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	runner Submitter
	toasts Toasts
	st     styles

	sidebar   list.Model
	collapsed bool
	form      *form
	focus     pane
	busy      map[catalog.ID]bool
	spin      spinner.Model
	status    string
	expiring  bool

	width  int
	height int
}

// New creates the shell. Cancelling ctx, or quitting, cancels requests in
// flight.
func New(ctx context.Context, runner Submitter, toasts Toasts) Model {
	ctx, cancel := context.WithCancel(ctx)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		runner:  runner,
		toasts:  toasts,
		st:      defaultStyles(),
		sidebar: newSidebar(20),
		busy:    make(map[catalog.ID]bool),
		spin:    sp,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sidebar.SetSize(sidebarWidth, max(msg.Height-4, 5))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		delete(m.busy, msg.tool)
		cmd := m.scheduleExpiry()
		return m, cmd

	case expireMsg:
		m.expiring = false
		m.toasts.Expire()
		cmd := m.scheduleExpiry()
		return m, cmd

	case spinner.TickMsg:
		if len(m.busy) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.focus == paneForm && m.form != nil {
		var cmd tea.Cmd
		*m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "tab":
		m.collapsed = !m.collapsed
		if m.collapsed && m.form != nil {
			m.focusForm()
		}
		return m, nil
	}

	if m.focus == paneSidebar && !m.collapsed {
		return m.sidebarKey(msg)
	}
	return m.formKey(msg)
}

func (m Model) sidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.sidebar.FilterState() == list.Filtering
	switch msg.String() {
	case "q":
		if !filtering {
			m.cancel()
			return m, tea.Quit
		}
	case "enter":
		if !filtering {
			if t, ok := selectedTool(m.sidebar); ok {
				m.selectTool(t)
			}
			return m, nil
		}
	case "right", "l":
		if !filtering && m.form != nil {
			m.focusForm()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.sidebar, cmd = m.sidebar.Update(msg)
	return m, cmd
}

func (m Model) formKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.form.blur()
		m.focus = paneSidebar
		m.collapsed = false
		return m, nil
	case "up", "shift+tab":
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	case "down":
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case "enter":
		// submit mutates m, so it runs before m is copied into the result.
		cmd := m.submit()
		return m, cmd
	}
	m.status = ""
	var cmd tea.Cmd
	*m.form, cmd = m.form.update(msg)
	return m, cmd
}

// selectTool opens the form of t. The previous form is discarded.
func (m *Model) selectTool(t catalog.Tool) {
	f := newForm(t)
	m.form = &f
	m.status = ""
	m.focusForm()
}

func (m *Model) focusForm() {
	m.focus = paneForm
	m.form.setFocus(m.form.focus)
}

// submit starts the selected tool. A busy tool ignores the request and an
// incomplete form reports why inline.
func (m *Model) submit() tea.Cmd {
	t := m.form.tool
	if m.busy[t.ID] {
		return nil
	}
	if err := m.form.ready(); err != nil {
		m.status = reason(err)
		return nil
	}
	m.status = ""
	m.busy[t.ID] = true
	return tea.Batch(m.spin.Tick, m.run(t, m.form.submission()))
}

func (m Model) run(t catalog.Tool, sub client.Submission) tea.Cmd {
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		out, err := runner.Run(ctx, t, sub)
		return resultMsg{tool: t.ID, outcome: out, err: err}
	}
}

// scheduleExpiry arms a single timer for the earliest toast expiry.
func (m *Model) scheduleExpiry() tea.Cmd {
	if m.expiring {
		return nil
	}
	d, ok := m.toasts.Next()
	if !ok {
		return nil
	}
	m.expiring = true
	return tea.Tick(d, func(time.Time) tea.Msg { return expireMsg{} })
}

// Busy reports whether t has a submission in flight.
func (m Model) Busy(id catalog.ID) bool { return m.busy[id] }

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}

	var main string
	formWidth := width
	if !m.collapsed {
		formWidth = max(width-sidebarWidth-2, 20)
	}
	if m.form != nil {
		main = m.form.view(m.st, m.busy[m.form.tool.ID], m.spin.View(), formWidth)
		if m.status != "" {
			main += "\n" + m.st.form.Render(m.st.status.Render(m.status))
		}
	} else {
		main = m.st.form.Width(formWidth).Render(
			m.st.title.Render("Nexus Tools") + "\n" +
				m.st.muted.Render("Pick a tool from the sidebar and press enter."))
	}

	body := main
	if !m.collapsed {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.st.sidebar.Render(m.sidebar.View()), main)
	}

	var b strings.Builder
	if toasts := m.toastsView(); toasts != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, toasts))
		b.WriteString("\n")
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.st.help.Render(m.helpLine()))
	return b.String()
}

func (m Model) toastsView() string {
	active := m.toasts.Active()
	if len(active) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(active))
	for _, t := range active {
		boxes = append(boxes, m.st.toastStyle(t.Kind).Render(t.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func (m Model) helpLine() string {
	if m.focus == paneForm && m.form != nil {
		return "↑/↓ field • enter submit • esc tools • tab sidebar • ctrl+c quit"
	}
	return "↑/↓ move • / filter • enter open • tab collapse • q quit"
}
