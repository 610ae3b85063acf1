// Package commands implements the CLI commands for the stash server
// and its companion client.
package commands

import "github.com/spf13/cobra"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stash",
	Short: "Stash - multi-user bookmark server",
	Long: `Stash is a single-process bookmark server speaking a line-based TCP
protocol. Clients register, log in and manage named bookmark groups;
bookmarked pages are fetched to extract titles and keyword tags.

Use "stash [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(clientCmd)
}
