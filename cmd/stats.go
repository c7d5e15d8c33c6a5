package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/solaris-diary/solaris/internal/model"
	"github.com/solaris-diary/solaris/internal/timecalc"
	"github.com/solaris-diary/solaris/internal/tools"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show diary statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFormat, "format", "md", "Output format: md, json")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsFormat != "md" && statsFormat != "json" {
		return fmt.Errorf("unknown format %q (want md or json)", statsFormat)
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

	stats, err := engine.Stats(ctx)
	if err != nil {
		return err
	}

	if statsFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), stats)
	}
	printStatsMarkdown(cmd.OutOrStdout(), stats)
	return nil
}

// printStatsMarkdown renders the aggregate as a Markdown table.
func printStatsMarkdown(w io.Writer, stats model.Stats) {
	fmt.Fprintln(w, "## Diary")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total entries: %d\n", stats.TotalEntries)
	if stats.FirstEntry != nil && stats.LastEntry != nil {
		fmt.Fprintf(w, "First entry: %s\n", *stats.FirstEntry)
		fmt.Fprintf(w, "Last entry: %s\n", *stats.LastEntry)
		if span, err := timecalc.Span(*stats.FirstEntry, *stats.LastEntry); err == nil {
			fmt.Fprintf(w, "Span: %s\n", timecalc.FormatDuration(span))
		}
	}

	moods := tools.SortedMoods(stats.MoodDistribution)
	if len(moods) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Mood | Entries |")
	fmt.Fprintln(w, "|------|---------|")
	for _, mc := range moods {
		fmt.Fprintf(w, "| %s | %d |\n", mc.Mood, mc.Count)
	}
}
