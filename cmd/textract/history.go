// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/textract/internal/ledger"
	"github.com/pdiddy/textract/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show files and runs recorded in the ledger",
	Long: `History reads the ledger written by runs with --ledger or --incremental.
By default it lists recorded files, newest first. Filter with --status and
--run, list runs instead with --runs, or dump the ledger with --export.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	listRuns, _ := cmd.Flags().GetBool("runs")
	export, _ := cmd.Flags().GetString("export")

	switch types.FileStatus(status) {
	case "", types.StatusProcessed, types.StatusSkipped, types.StatusFailed:
	default:
		return fmt.Errorf("unsupported status %q: use processed, skipped, or failed", status)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	opts := ledger.QueryOptions{
		Status: types.FileStatus(status),
		RunID:  runID,
		Limit:  limit,
	}

	switch export {
	case "":
	case "yaml":
		return store.ExportYAML(ctx, out, opts)
	case "json":
		return store.ExportJSON(ctx, out, opts)
	default:
		return fmt.Errorf("unsupported export format %q: use yaml or json", export)
	}

	if listRuns {
		runs, err := store.Runs(ctx, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, runs)
		}
		printRuns(out, runs)
		return nil
	}

	entries, err := store.Recent(ctx, opts)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, entries)
	}
	printEntries(out, entries)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEntries(w io.Writer, entries []ledger.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No files recorded.")
		return
	}

	fmt.Fprintf(w, "%-20s  %-8s  %-9s  %-6s  %5s  %s\n",
		"Recorded", "Run", "Status", "Kind", "Pages", "Path")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range entries {
		fmt.Fprintf(w, "%-20s  %-8s  %-9s  %-6s  %5d  %s\n",
			formatStamp(e.RecordedAt), shortID(e.RunID), e.Status, e.Kind, e.Pages, e.Path)
	}
	fmt.Fprintf(w, "\n%d files\n", len(entries))
}

func printRuns(w io.Writer, runs []ledger.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-20s  %9s  %7s  %6s  %s\n",
		"Run", "Started", "Processed", "Skipped", "Failed", "Root")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range runs {
		fmt.Fprintf(w, "%-8s  %-20s  %9d  %7d  %6d  %s\n",
			shortID(r.ID), formatStamp(r.StartedAt), r.Processed, r.Skipped, r.Failed, r.Root)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func init() {
	historyCmd.Flags().String("status", "", "filter by status: processed, skipped, or failed")
	historyCmd.Flags().String("run", "", "filter by run ID")
	historyCmd.Flags().Int("limit", 0, "maximum entries to show (0 = default of 50)")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().Bool("runs", false, "list runs instead of files")
	historyCmd.Flags().String("export", "", "dump runs and files as yaml or json")

	rootCmd.AddCommand(historyCmd)
}
