package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/agentwire/agentwire/internal/cli.version=1.2.3"
	version = "0.4.1"
	logo    = "\n" +
		"                        _          _\n" +
		"   __ _  __ _  ___ _ __ | |___     _(_)_ __ ___\n" +
		"  / _` |/ _` |/ _ \\ '_ \\| __\\ \\ / / | '__/ _ \\\n" +
		" | (_| | (_| |  __/ | | | |_ \\ V V /| | | |  __/\n" +
		"  \\__,_|\\__, |\\___|_| |_|\\__| \\_/\\_/ |_|_|  \\___|\n" +
		"        |___/\n"
)

var rootCmd = &cobra.Command{
	Use:   "agentwire",
	Short: "agentwire - policy-governed agent messaging",
	Long:  color.CyanString(logo) + "\nDeclared agent links, durable conversation channels, compactable history.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(gatewayCmd)
}
