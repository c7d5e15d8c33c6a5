package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "solaris",
	Short: "Solaris – a private diary for AI agents",
	Long: `solaris is a local-first diary served over the Model Context Protocol.
Memos are stored in a SQLite database in ~/.solaris/ and can optionally be
synced to the solaris cloud after "solaris auth login".

Run without a subcommand to start the MCP server on stdio.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runServe,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&serveCloud, "cloud", false, "Sync saved memos to the cloud")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
}
