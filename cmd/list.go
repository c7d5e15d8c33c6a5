package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/solaris-diary/solaris/internal/model"
	"github.com/solaris-diary/solaris/internal/storage"
	"github.com/solaris-diary/solaris/internal/timecalc"
)

var (
	listLimit  int
	listMood   string
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent memos",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", storage.DefaultLimit, "Maximum number of memos to show")
	listCmd.Flags().StringVar(&listMood, "mood", "", "Only show memos with this mood")
	listCmd.Flags().StringVar(&listFormat, "format", "text", "Output format: text, json")
}

func runList(cmd *cobra.Command, args []string) error {
	if listLimit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}
	if listFormat != "text" && listFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", listFormat)
	}
	opts := storage.ReadOptions{Limit: listLimit}
	if listMood != "" {
		m, err := model.ParseMood(listMood)
		if err != nil {
			return err
		}
		opts.Mood = &m
	}

	ctx := cmd.Context()
	env, err := loadEnv()
	if err != nil {
		return err
	}
	engine, err := env.openStorage(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	entries, err := engine.ReadEntries(ctx, opts)
	if err != nil {
		return err
	}

	if listFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), entries)
	}
	printList(cmd.OutOrStdout(), entries, time.Local)
	return nil
}

// printList prints entries newest first, timestamps shown in loc.
func printList(w io.Writer, entries []model.Entry, loc *time.Location) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No memos found.")
		return
	}

	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		mood := ""
		if e.Mood != nil {
			mood = "  [" + string(*e.Mood) + "]"
		}
		fmt.Fprintf(w, "%s%s\n", timecalc.LocalTimestamp(e.Timestamp, loc), mood)
		fmt.Fprintf(w, "  %s\n", e.Content)
		if e.Context != nil {
			fmt.Fprintf(w, "  (%s)\n", *e.Context)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
