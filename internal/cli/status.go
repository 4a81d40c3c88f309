package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentwire/agentwire/internal/config"
	"github.com/agentwire/agentwire/internal/links"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("agentwire Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and graph status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("agentwire Status")
		fmt.Printf("Version: %s\n", version)

		path, err := config.ConfigPath()
		if err == nil {
			if _, statErr := os.Stat(path); statErr == nil {
				fmt.Println("Config:  ✓ Found (" + path + ")")
			} else {
				fmt.Println("Config:  ✗ Not found (" + path + ")")
			}
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Config load failed: %v\n", err)
			return
		}
		fmt.Printf("Agents:  %d configured\n", len(cfg.Agents))

		edges, err := links.Validate(cfg.Links)
		if err != nil {
			fmt.Printf("Links:   ✗ %v\n", err)
			return
		}
		fmt.Printf("Links:   %d validated\n", len(edges))

		if _, err := os.Stat(cfg.DBPath()); err == nil {
			fmt.Println("Store:   ✓ " + cfg.DBPath())
		} else {
			fmt.Println("Store:   ✗ no database yet (" + cfg.DBPath() + ")")
		}
	},
}
