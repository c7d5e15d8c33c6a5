package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/solaris-diary/solaris/internal/cloudsync"
	"github.com/solaris-diary/solaris/internal/config"
	"github.com/solaris-diary/solaris/internal/credentials"
	"github.com/solaris-diary/solaris/internal/server"
	"github.com/solaris-diary/solaris/internal/tools"
)

var serveCloud bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveCloud, "cloud", false, "Sync saved memos to the cloud")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	env, err := loadEnv()
	if err != nil {
		return err
	}

	engine, err := env.openStorage(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	var syncer tools.Syncer
	if serveCloud {
		creds := credentials.NewStore(config.TokenPath(env.base))
		if _, ok := creds.Token(); !ok {
			env.log.Warn(ctx, "cloud sync enabled but not authenticated, run: solaris auth login")
		}
		syncer = cloudsync.New(env.cfg.Cloud.MemoAPIURL, creds, env.log)
	}

	s := server.New(server.Options{Store: engine, Syncer: syncer, Log: env.log})
	env.log.Info(ctx, "solaris MCP server starting", "db", engine.Path(), "cloud", serveCloud)
	return server.Serve(ctx, s, os.Stdin, os.Stdout)
}
