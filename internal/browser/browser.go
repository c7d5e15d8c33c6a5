// Package browser opens URLs in the user's default browser.
package browser

import (
	"context"
	"os/exec"
	"runtime"

	"github.com/solaris-diary/solaris/internal/logging"
)

// Opener launches the platform's URL handler. Failures are logged, never returned.
type Opener struct {
	log logging.Logger
	// command builds the launcher invocation; replaced in tests.
	command func(ctx context.Context, uri string) *exec.Cmd
}

// NewOpener returns an Opener for the current platform.
func NewOpener(log logging.Logger) *Opener {
	return &Opener{log: log, command: platformCommand}
}

// Open starts the launcher and returns without waiting for it.
func (o *Opener) Open(ctx context.Context, uri string) {
	cmd := o.command(ctx, uri)
	if err := cmd.Start(); err != nil {
		o.log.Debug(ctx, "browser: could not open URL", "uri", uri, "error", err)
		return
	}
	// Reap the launcher so it doesn't linger as a zombie.
	go func() { _ = cmd.Wait() }()
}

func platformCommand(ctx context.Context, uri string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", uri)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", uri)
	default:
		return exec.CommandContext(ctx, "xdg-open", uri)
	}
}
