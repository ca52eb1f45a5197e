// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/pdiddy/nexus-tools/internal/catalog"
)

const sidebarWidth = 34

// toolItem is one sidebar row.
type toolItem struct {
	tool  catalog.Tool
	group string
}

func (i toolItem) Title() string       { return i.tool.Label }
func (i toolItem) Description() string { return i.group }
func (i toolItem) FilterValue() string { return i.tool.Label + " " + i.group }

// sidebarItems lists every tool, section by section.
func sidebarItems() []list.Item {
	var items []list.Item
	for _, g := range catalog.Groups() {
		for _, id := range g.Tools {
			t, ok := catalog.Lookup(id)
			if !ok {
				continue
			}
			items = append(items, toolItem{tool: t, group: g.Title})
		}
	}
	return items
}

func newSidebar(height int) list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(colorAccent).BorderForeground(colorAccent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(colorMuted).BorderForeground(colorAccent)

	l := list.New(sidebarItems(), d, sidebarWidth, height)
	l.Title = "Nexus Tools"
	l.Styles.Title = l.Styles.Title.Background(colorAccent)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	return l
}

// selectedTool returns the highlighted sidebar tool.
func selectedTool(l list.Model) (catalog.Tool, bool) {
	it, ok := l.SelectedItem().(toolItem)
	if !ok {
		return catalog.Tool{}, false
	}
	return it.tool, true
}
