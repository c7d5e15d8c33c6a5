package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/solaris-diary/solaris/internal/logging"
	"github.com/solaris-diary/solaris/internal/model"
	"github.com/solaris-diary/solaris/internal/timecalc"
)

// StatsTool summarizes the diary.
type StatsTool struct {
	store Store
	log   logging.Logger
}

func NewStatsTool(store Store, log logging.Logger) *StatsTool {
	return &StatsTool{store: store, log: log}
}

func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_stats",
		mcp.WithTitleAnnotation("Diary Stats"),
		mcp.WithDescription("Summarize your memos: how many there are, when they start and end, and how often each mood appears."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *StatsTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.Stats(ctx)
	if err != nil {
		t.log.Error(ctx, "get_stats failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read stats: %v", err)), nil
	}
	return mcp.NewToolResultText(FormatStats(stats)), nil
}

// MoodCount is one row of a mood distribution.
type MoodCount struct {
	Mood  model.Mood
	Count int
}

// SortedMoods orders a distribution by count, most frequent first, then by name.
func SortedMoods(dist map[model.Mood]int) []MoodCount {
	out := make([]MoodCount, 0, len(dist))
	for m, n := range dist {
		out = append(out, MoodCount{Mood: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Mood < out[j].Mood
	})
	return out
}

// FormatStats renders stats for the agent.
func FormatStats(stats model.Stats) string {
	if stats.TotalEntries == 0 {
		return "No memos yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total entries: %d\n", stats.TotalEntries)
	if stats.FirstEntry != nil && stats.LastEntry != nil {
		fmt.Fprintf(&b, "First entry: %s\n", *stats.FirstEntry)
		fmt.Fprintf(&b, "Last entry: %s\n", *stats.LastEntry)
		if span, err := timecalc.Span(*stats.FirstEntry, *stats.LastEntry); err == nil {
			fmt.Fprintf(&b, "Span: %s\n", timecalc.FormatDuration(span))
		}
	}

	moods := SortedMoods(stats.MoodDistribution)
	if len(moods) == 0 {
		b.WriteString("No moods recorded.")
		return b.String()
	}
	b.WriteString("Mood distribution:")
	for _, mc := range moods {
		fmt.Fprintf(&b, "\n  %s: %d", mc.Mood, mc.Count)
	}
	return b.String()
}
