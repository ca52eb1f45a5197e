// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nexus-tools/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available tools by section",
	Long: `List prints every tool the client offers, grouped by sidebar section,
with its identifier, endpoint, and the options its form collects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		group, _ := cmd.Flags().GetString("group")
		asJSON, _ := cmd.Flags().GetBool("json")

		var sections []catalog.Group
		for _, g := range catalog.Groups() {
			if group == "" || strings.EqualFold(g.Title, group) {
				sections = append(sections, g)
			}
		}
		if len(sections) == 0 {
			return fmt.Errorf("no section named %q", group)
		}

		if asJSON {
			type entry struct {
				ID       string   `json:"id"`
				Section  string   `json:"section"`
				Label    string   `json:"label"`
				Endpoint string   `json:"endpoint"`
				Options  []string `json:"options,omitempty"`
			}
			var out []entry
			for _, g := range sections {
				for _, id := range g.Tools {
					t, _ := catalog.Lookup(id)
					out = append(out, entry{ID: string(t.ID), Section: g.Title, Label: t.Label, Endpoint: t.Endpoint, Options: fieldNames(t)})
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, g := range sections {
			fmt.Fprintf(w, "%s\n", g.Title)
			for _, id := range g.Tools {
				t, _ := catalog.Lookup(id)
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", t.ID, t.Label, t.Endpoint, strings.Join(fieldNames(t), ","))
			}
		}
		return w.Flush()
	},
}

func fieldNames(t catalog.Tool) []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}
	return names
}

func init() {
	listCmd.Flags().String("group", "", "only list tools of this section")
	listCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(listCmd)
}
