package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the trellist application
var rootCmd = &cobra.Command{
	Use:   "trellist",
	Short: "MCP server for the Trello API",
	Long: `trellist exposes Trello boards, lists, and cards as Model Context
Protocol (MCP) tools for AI assistants.

Credentials are read from the TRELLO_API_KEY and TRELLO_API_TOKEN
environment variables, optionally loaded from a .env file.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "trellist version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
