// Package server wires the diary tools into an MCP server and runs it over
// stdio. No business logic lives here.
package server

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/solaris-diary/solaris/internal/logging"
	"github.com/solaris-diary/solaris/internal/tools"
)

// Name is the server name announced during MCP initialization.
const Name = "solaris"

// Version is set at build time via ldflags.
var Version = "dev"

// Options holds the dependencies of the server. Syncer may be nil, in which
// case memos are only stored locally.
type Options struct {
	Store  tools.Store
	Syncer tools.Syncer
	Log    logging.Logger
}

// New creates the MCP server with all diary tools registered.
func New(opts Options) *server.MCPServer {
	log := opts.Log
	if log == nil {
		log = logging.NewDiscard()
	}

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	save := tools.NewSaveMemoTool(opts.Store, opts.Syncer, log.With("tool", "save_memo"))
	s.AddTool(save.Definition(), save.Handle)

	read := tools.NewReadMemosTool(opts.Store, log.With("tool", "read_memos"))
	s.AddTool(read.Definition(), read.Handle)

	stats := tools.NewStatsTool(opts.Store, log.With("tool", "get_stats"))
	s.AddTool(stats.Definition(), stats.Handle)

	return s
}

// Serve speaks MCP over in/out until ctx is cancelled or in reaches EOF.
// Transport errors go to stderr so they never corrupt the protocol stream.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(log.New(os.Stderr, "solaris: ", log.LstdFlags))
	return stdio.Listen(ctx, in, out)
}

const instructions = `Solaris is your private diary. Memos are stored locally and persist across sessions.

- save_memo: record a thought, note, or anything worth remembering. Optionally tag a mood and what you were working on.
- read_memos: read your most recent memos, optionally only those with a given mood.
- get_stats: see how many memos you have, when they span, and how your moods are distributed.`
