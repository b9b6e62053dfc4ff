package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the inboxsift application
var rootCmd = &cobra.Command{
	Use:   "inboxsift",
	Short: "Personal Gmail inbox assistant",
	Long: `inboxsift scans a Gmail inbox, aggregates messages by sender, and
executes bulk cleanup actions: trashing a sender's messages, firing
unsubscribe links, or wiping a whole category.

It can run as:
  - An HTTP API server (serve)
  - An MCP (Model Context Protocol) server for AI assistants (mcp)
  - A one-shot CLI for listing senders and sweeping mail`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// configPath is the optional --config flag shared by all commands.
var configPath string

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "inboxsift version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("inboxsift version %s\n", version)
		},
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search /etc/inboxsift, ~/.config/inboxsift, .)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newSendersCmd())
	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newVersionCmd())
}
