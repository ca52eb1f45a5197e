// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nexus-tools/internal/history"
	"github.com/pdiddy/nexus-tools/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show, export, or prune past tool runs",
	Long: `History lists recent tool runs from the local history database, newest
first. Runs can be filtered by tool and status, exported to YAML or JSON,
summarised by status, or pruned by age.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), apiToken)
		if err != nil {
			return err
		}
		store, err := history.Open(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if age, _ := cmd.Flags().GetDuration("prune"); age > 0 {
			n, err := store.Prune(ctx, time.Now().Add(-age))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Pruned %d run(s)\n", n)
			return nil
		}

		if stats, _ := cmd.Flags().GetBool("stats"); stats {
			counts, err := store.Stats(ctx)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(counts))
			for k := range counts {
				keys = append(keys, string(k))
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%-7s %d\n", k, counts[types.RunStatus(k)])
			}
			return nil
		}

		tool, _ := cmd.Flags().GetString("tool")
		status, _ := cmd.Flags().GetString("status")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		opts := history.QueryOptions{Tool: tool, Status: types.RunStatus(status), MaxResults: maxResults}

		switch format, _ := cmd.Flags().GetString("export"); format {
		case "":
		case "yaml":
			path, err := store.ExportYAML(ctx, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Exported to", path)
			return nil
		case "json":
			path, err := store.ExportJSON(ctx, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Exported to", path)
			return nil
		default:
			return fmt.Errorf("unknown export format %q (want yaml or json)", format)
		}

		runs, err := store.Recent(ctx, opts)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTARTED\tTOOL\tSTATUS\tTOOK\tOUTPUT")
		for _, r := range runs {
			detail := r.OutputPath
			if r.Status != types.RunOK {
				detail = r.Error
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.StartedAt.Local().Format(time.DateTime), r.Tool, r.Status, r.Duration.Round(time.Millisecond), detail)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().String("tool", "", "only runs of this tool")
	historyCmd.Flags().String("status", "", "only runs with this status: ok, failed, busy")
	historyCmd.Flags().Int("max-results", 0, "maximum number of runs (default from config)")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().String("export", "", "export matching runs to the history directory: yaml or json")
	historyCmd.Flags().Bool("stats", false, "count runs by status")
	historyCmd.Flags().Duration("prune", 0, "delete runs older than this age")

	rootCmd.AddCommand(historyCmd)
}
