// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nexus-tools/internal/catalog"
	"github.com/pdiddy/nexus-tools/internal/client"
)

var runCmd = &cobra.Command{
	Use:   "run <tool> [files...]",
	Short: "Run one tool on local files and save the result",
	Long: `Run submits the given files and options to a tool's endpoint and saves the
downloaded result under the tool's fixed filename in the output directory.

Options are passed as --set name=value, for example:

  nexustools run pdf-splitter report.pdf --set start_page=2 --set end_page=4
  nexustools run html-to-pdf --set url=https://example.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, err := catalog.Get(args[0])
		if err != nil {
			return err
		}
		sets, _ := cmd.Flags().GetStringArray("set")
		values, err := parseSets(sets)
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		out, err := s.runner.Run(cmd.Context(), tool, client.Submission{Files: args[1:], Values: values})
		if err != nil {
			if out.Toast.Message != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), out.Toast.Message)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\nSaved %s (%d bytes)\n", out.Toast.Message, out.Record.OutputPath, out.Record.Bytes)
		return nil
	},
}

// parseSets turns name=value flags into form values.
func parseSets(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q: want name=value", s)
		}
		values[strings.TrimSpace(name)] = value
	}
	return values, nil
}

func init() {
	runCmd.Flags().StringArray("set", nil, "tool option as name=value (repeatable)")

	rootCmd.AddCommand(runCmd)
}
