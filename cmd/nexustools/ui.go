// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdiddy/nexus-tools/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive tool shell",
	Long: `UI opens the full-screen shell: a sidebar of tools grouped by section, the
form of the selected tool, and notifications in the top right corner.
Logs are written to nexustools.log in the history directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		m := ui.New(cmd.Context(), s.runner, s.notes)
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
