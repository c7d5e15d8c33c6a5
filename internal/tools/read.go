package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/solaris-diary/solaris/internal/logging"
	"github.com/solaris-diary/solaris/internal/model"
	"github.com/solaris-diary/solaris/internal/storage"
)

// ReadMemosTool lists recent entries.
type ReadMemosTool struct {
	store Store
	log   logging.Logger
}

func NewReadMemosTool(store Store, log logging.Logger) *ReadMemosTool {
	return &ReadMemosTool{store: store, log: log}
}

func (t *ReadMemosTool) Definition() mcp.Tool {
	return mcp.NewTool("read_memos",
		mcp.WithTitleAnnotation("Read Memos"),
		mcp.WithDescription("Read your saved memos, newest first. Check this when you want to remember past thoughts or notes."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of memos to return (default %d).", storage.DefaultLimit)),
			mcp.Min(1),
		),
		mcp.WithString("mood",
			mcp.Description("Only return memos recorded with this mood."),
			mcp.Enum(model.MoodNames()...),
		),
	)
}

func (t *ReadMemosTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := optionalLimit(req, "limit", storage.DefaultLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mood, err := optionalMood(req, "mood")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries, err := t.store.ReadEntries(ctx, storage.ReadOptions{Limit: limit, Mood: mood})
	if err != nil {
		t.log.Error(ctx, "read_memos failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read memos: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No memos found."), nil
	}
	return mcp.NewToolResultText(FormatEntries(entries)), nil
}

// FormatEntries renders entries as blocks separated by blank lines.
func FormatEntries(entries []model.Entry) string {
	blocks := make([]string, len(entries))
	for i, e := range entries {
		var b strings.Builder
		b.WriteString("--- ")
		b.WriteString(e.Timestamp)
		if e.Mood != nil {
			fmt.Fprintf(&b, " (%s)", *e.Mood)
		}
		b.WriteString(" ---\n")
		b.WriteString(e.Content)
		if e.Context != nil {
			fmt.Fprintf(&b, "\nContext: %s", *e.Context)
		}
		blocks[i] = b.String()
	}
	return strings.Join(blocks, "\n\n")
}
