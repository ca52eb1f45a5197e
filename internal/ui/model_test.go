// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nexus-tools/internal/catalog"
	"github.com/pdiddy/nexus-tools/internal/client"
	"github.com/pdiddy/nexus-tools/internal/notify"
	"github.com/pdiddy/nexus-tools/pkg/types"
)

type fakeSubmitter struct {
	mu    sync.Mutex
	calls []client.Submission
	err   error
}

func (f *fakeSubmitter) Run(_ context.Context, tool catalog.Tool, sub client.Submission) (client.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sub)
	return client.Outcome{Record: types.RunRecord{Tool: string(tool.ID)}}, f.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestModel(t *testing.T) (Model, *fakeSubmitter, *notify.Center, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	center := notify.NewCenter(types.NotifyConfig{}, notify.WithClock(clk.now))
	sub := &fakeSubmitter{}
	m := New(context.Background(), sub, center)
	t.Cleanup(m.cancel)
	return m, sub, center, clk
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func mustTool(t *testing.T, id catalog.ID) catalog.Tool {
	t.Helper()
	tool, ok := catalog.Lookup(id)
	require.True(t, ok)
	return tool
}

func TestSidebarListsEveryTool(t *testing.T) {
	items := sidebarItems()
	require.Len(t, items, len(catalog.All()))

	first := items[0].(toolItem)
	assert.Equal(t, catalog.PDFMerger, first.tool.ID)
	assert.Equal(t, "PDF Core", first.Description())
	last := items[len(items)-1].(toolItem)
	assert.Equal(t, catalog.FileHash, last.tool.ID)
	assert.Equal(t, "Utilities", last.group)
}

func TestEnterOpensSelectedTool(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	assert.Nil(t, m.form)

	m, _ = update(t, m, key("enter"))
	require.NotNil(t, m.form)
	assert.Equal(t, catalog.PDFMerger, m.form.tool.ID)
	assert.Equal(t, paneForm, m.focus)
	assert.Contains(t, m.View(), "Merge PDF")
}

func TestIncompleteFormIsNotSubmitted(t *testing.T) {
	m, sub, center, _ := newTestModel(t)
	m, _ = update(t, m, key("enter"))

	m, cmd := update(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, "select at least 2 file(s)", m.status)
	assert.False(t, m.Busy(catalog.PDFMerger))
	assert.Empty(t, sub.calls)
	assert.Empty(t, center.Active(), "an incomplete form never shows a toast")
	assert.Contains(t, m.View(), "select at least 2 file(s)")
}

func TestSubmitLifecycle(t *testing.T) {
	m, sub, center, _ := newTestModel(t)
	tool := mustTool(t, catalog.FileHash)
	m.selectTool(tool)
	require.True(t, m.form.setValue("", "/tmp/report.txt"))

	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.Busy(catalog.FileHash))
	assert.Contains(t, m.View(), "Processing...")

	m, cmd = update(t, m, key("enter"))
	assert.Nil(t, cmd, "a busy tool ignores submit")

	msg := m.run(tool, m.form.submission())()
	res, ok := msg.(resultMsg)
	require.True(t, ok)
	require.Len(t, sub.calls, 1)
	assert.Equal(t, []string{"/tmp/report.txt"}, sub.calls[0].Files)

	center.Success(tool.SuccessMessage)
	m, cmd = update(t, m, res)
	assert.False(t, m.Busy(catalog.FileHash))
	assert.NotNil(t, cmd, "a toast schedules its expiry")
	assert.True(t, m.expiring, "the armed timer is kept in the returned model")
	assert.Contains(t, m.View(), tool.SuccessMessage)
}

func TestFailedSubmitClearsBusy(t *testing.T) {
	m, sub, _, _ := newTestModel(t)
	sub.err = &client.ToolError{Message: "Hash failed"}
	tool := mustTool(t, catalog.FileHash)
	m.selectTool(tool)
	m.form.setValue("", "/tmp/a.bin")

	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	res := m.run(tool, m.form.submission())().(resultMsg)
	require.Error(t, res.err)

	m, _ = update(t, m, res)
	assert.False(t, m.Busy(catalog.FileHash))
}

func TestToastExpiry(t *testing.T) {
	m, _, center, clk := newTestModel(t)
	assert.Nil(t, m.scheduleExpiry(), "no toasts, no timer")

	center.Info("first")
	require.NotNil(t, m.scheduleExpiry())
	assert.Nil(t, m.scheduleExpiry(), "one timer at a time")

	clk.t = clk.t.Add(2 * time.Second)
	center.Info("second")

	clk.t = clk.t.Add(notify.DefaultLifetime - time.Second)
	m, cmd := update(t, m, expireMsg{})
	require.Len(t, center.Active(), 1)
	assert.Equal(t, "second", center.Active()[0].Message)
	assert.NotNil(t, cmd, "the remaining toast is rescheduled")
	assert.True(t, m.expiring)

	clk.t = clk.t.Add(notify.DefaultLifetime)
	m, cmd = update(t, m, expireMsg{})
	assert.Empty(t, center.Active())
	assert.Nil(t, cmd)
	assert.False(t, m.expiring)
}

func TestNavigationKeys(t *testing.T) {
	m, _, _, _ := newTestModel(t)

	m, _ = update(t, m, key("tab"))
	assert.True(t, m.collapsed)
	assert.NotContains(t, m.View(), "Merge PDF")
	m, _ = update(t, m, key("tab"))
	assert.False(t, m.collapsed)

	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("enter"))
	require.NotNil(t, m.form)
	assert.Equal(t, catalog.PDFSplitter, m.form.tool.ID)

	m, _ = update(t, m, key("down"))
	assert.Equal(t, 1, m.form.focus)

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, paneSidebar, m.focus)
	assert.NotNil(t, m.form, "the form stays open behind the sidebar")
}

func TestQuitCancelsRequests(t *testing.T) {
	for _, k := range []string{"ctrl+c", "q"} {
		t.Run(k, func(t *testing.T) {
			m, _, _, _ := newTestModel(t)
			m, cmd := update(t, m, key(k))
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.ErrorIs(t, m.ctx.Err(), context.Canceled)
		})
	}
}

func TestWindowResize(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 36, m.sidebar.Height())
}

func TestFormRows(t *testing.T) {
	tests := []struct {
		id     catalog.ID
		labels []string
	}{
		{catalog.PDFMerger, []string{"Files (comma separated, at least 2)"}},
		{catalog.ComparePDF, []string{"First file", "Second file"}},
		{catalog.HTMLToPDF, []string{"URL"}},
		{catalog.CompressPDF, []string{"File", "Quality (low|medium|high)"}},
		{catalog.PDFSplitter, []string{"File", "Start Page", "End Page"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			f := newForm(mustTool(t, tt.id))
			var labels []string
			for _, in := range f.inputs {
				labels = append(labels, in.label)
			}
			assert.Equal(t, tt.labels, labels)
			assert.True(t, f.inputs[0].ti.Focused())
		})
	}
}

func TestFormSubmission(t *testing.T) {
	f := newForm(mustTool(t, catalog.PDFMerger))
	f.setValue("", " a.pdf, ,b.pdf ,c.pdf")
	sub := f.submission()
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, sub.Files)
	assert.NoError(t, f.ready())

	split := newForm(mustTool(t, catalog.PDFSplitter))
	split.setValue("", "doc.pdf")
	sub = split.submission()
	assert.Equal(t, map[string]string{"start_page": "1", "end_page": "1"}, sub.Values)
	assert.True(t, split.setValue("end_page", "x"))
	assert.EqualError(t, split.ready(), "tool is not ready to submit: End Page must be a whole number")
	assert.False(t, split.setValue("missing", "1"))

	lock := newForm(mustTool(t, catalog.LockPDF))
	assert.Equal(t, textinput.EchoPassword, lock.inputs[1].ti.EchoMode)
}

func TestSplitPaths(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"a.pdf", []string{"a.pdf"}},
		{"a.pdf,b.pdf", []string{"a.pdf", "b.pdf"}},
		{" /x/a b.pdf , c.pdf ", []string{"/x/a b.pdf", "c.pdf"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitPaths(tt.in), tt.in)
	}
}

func TestToastStyles(t *testing.T) {
	st := defaultStyles()
	for _, kind := range []types.ToastKind{types.ToastSuccess, types.ToastError, types.ToastInfo} {
		assert.Contains(t, st.toastStyle(kind).Render("saved"), "saved")
	}
}
