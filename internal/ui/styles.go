// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/nexus-tools/pkg/types"
)

var (
	colorAccent  = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorText    = lipgloss.Color("#F9FAFB")
)

type styles struct {
	title      lipgloss.Style
	muted      lipgloss.Style
	label      lipgloss.Style
	focusLabel lipgloss.Style
	button     lipgloss.Style
	disabled   lipgloss.Style
	status     lipgloss.Style
	sidebar    lipgloss.Style
	form       lipgloss.Style
	help       lipgloss.Style
	toast      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		muted:      lipgloss.NewStyle().Foreground(colorMuted),
		label:      lipgloss.NewStyle().Foreground(colorText),
		focusLabel: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		button:     lipgloss.NewStyle().Foreground(colorText).Background(colorAccent).Padding(0, 2),
		disabled:   lipgloss.NewStyle().Foreground(colorMuted).Background(colorBorder).Padding(0, 2),
		status:     lipgloss.NewStyle().Foreground(colorError),
		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(colorBorder).
			PaddingRight(1),
		form: lipgloss.NewStyle().Padding(1, 2),
		help: lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1),
		toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MaxWidth(48),
	}
}

// toastStyle colours a toast box by its kind.
func (s styles) toastStyle(kind types.ToastKind) lipgloss.Style {
	switch kind {
	case types.ToastSuccess:
		return s.toast.BorderForeground(colorSuccess).Foreground(colorSuccess)
	case types.ToastError:
		return s.toast.BorderForeground(colorError).Foreground(colorError)
	}
	return s.toast.BorderForeground(colorInfo).Foreground(colorInfo)
}
