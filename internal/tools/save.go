package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/solaris-diary/solaris/internal/logging"
	"github.com/solaris-diary/solaris/internal/model"
	"github.com/solaris-diary/solaris/internal/storage"
)

// DefaultSyncTimeout bounds the best-effort cloud upload after a save.
const DefaultSyncTimeout = 10 * time.Second

// SaveMemoTool writes a new entry.
type SaveMemoTool struct {
	store       Store
	syncer      Syncer
	syncTimeout time.Duration
	log         logging.Logger
}

// NewSaveMemoTool returns the save_memo tool. syncer may be nil, which
// disables cloud upload.
func NewSaveMemoTool(store Store, syncer Syncer, log logging.Logger) *SaveMemoTool {
	return &SaveMemoTool{store: store, syncer: syncer, syncTimeout: DefaultSyncTimeout, log: log}
}

func (t *SaveMemoTool) Definition() mcp.Tool {
	return mcp.NewTool("save_memo",
		mcp.WithTitleAnnotation("Save Memo"),
		mcp.WithDescription("Save a private memo. Use this to record thoughts, notes, or anything worth remembering."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The memo text."),
		),
		mcp.WithString("mood",
			mcp.Description("How you feel about it."),
			mcp.Enum(model.MoodNames()...),
		),
		mcp.WithString("context",
			mcp.Description("What you were doing when writing this, e.g. the task or project."),
		),
	)
}

func (t *SaveMemoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("content must not be empty"), nil
	}
	mood, err := optionalMood(req, "mood")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := optionalString(req, "context")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := t.store.WriteEntry(ctx, storage.NewEntry{Content: content, Mood: mood, Context: note})
	if err != nil {
		t.log.Error(ctx, "save_memo failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save memo: %v", err)), nil
	}

	text := fmt.Sprintf("Memo saved at %s.", entry.Timestamp)
	if t.syncer != nil {
		syncCtx, cancel := context.WithTimeout(ctx, t.syncTimeout)
		synced := t.syncer.Sync(syncCtx, entry)
		cancel()
		if synced {
			text += " Synced to cloud."
		}
	}
	return mcp.NewToolResultText(text), nil
}
