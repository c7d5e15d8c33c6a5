package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/solaris-diary/solaris/internal/config"
	"github.com/solaris-diary/solaris/internal/logging"
	"github.com/solaris-diary/solaris/internal/storage"
)

// appEnv is what every command needs: where the data lives, the loaded
// configuration and a logger writing to stderr.
type appEnv struct {
	base string
	cfg  config.Config
	log  logging.Logger
}

func loadEnv() (*appEnv, error) {
	base, err := config.BaseDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(base)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &appEnv{base: base, cfg: cfg, log: log}, nil
}

// openStorage returns an initialized engine; the caller must Close it.
func (e *appEnv) openStorage(ctx context.Context) (*storage.Engine, error) {
	engine := storage.New(config.DatabasePath(e.base), e.log)
	if err := engine.Initialize(ctx); err != nil {
		_ = engine.Close()
		return nil, err
	}
	return engine, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
