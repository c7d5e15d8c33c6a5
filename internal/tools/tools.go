// Package tools exposes the diary to MCP clients. Handlers validate input,
// call the storage engine and render plain-text answers for the agent.
package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/solaris-diary/solaris/internal/model"
	"github.com/solaris-diary/solaris/internal/storage"
)

// Store is the subset of the storage engine the tools need.
type Store interface {
	WriteEntry(ctx context.Context, in storage.NewEntry) (model.Entry, error)
	ReadEntries(ctx context.Context, opts storage.ReadOptions) ([]model.Entry, error)
	Stats(ctx context.Context) (model.Stats, error)
}

// Syncer uploads a saved entry; it reports success and never fails the caller.
type Syncer interface {
	Sync(ctx context.Context, entry model.Entry) bool
}

// optionalMood reads an optional mood argument. Absent, null and "" all mean
// no mood.
func optionalMood(req mcp.CallToolRequest, key string) (*model.Mood, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string", key)
	}
	if s == "" {
		return nil, nil
	}
	m, err := model.ParseMood(s)
	if err != nil {
		return nil, fmt.Errorf("%w (expected one of: %s)", err, strings.Join(model.MoodNames(), ", "))
	}
	return &m, nil
}

// optionalString reads an optional free-text argument; "" means absent.
func optionalString(req mcp.CallToolRequest, key string) (*string, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string", key)
	}
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

// optionalLimit reads a positive integer limit, defaulting to def.
func optionalLimit(req mcp.CallToolRequest, key string, def int) (int, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return def, nil
	}
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return int(f), nil
}
