package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentwire/agentwire/internal/config"
	"github.com/agentwire/agentwire/internal/conversation"
	"github.com/agentwire/agentwire/internal/workpool"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List conversation channels in the local store",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("💬 agentwire Channels")

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Config error: %v\n", err)
			os.Exit(1)
		}
		if _, err := os.Stat(cfg.DBPath()); err != nil {
			fmt.Println("No conversation store yet. Start the gateway first.")
			return
		}

		pool := workpool.New(1, 1)
		defer pool.Close()
		store, err := conversation.Open(cfg.DBPath(), pool)
		if err != nil {
			fmt.Printf("Store error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		channels, err := store.ListChannels()
		if err != nil {
			fmt.Printf("List error: %v\n", err)
			os.Exit(1)
		}
		if len(channels) == 0 {
			fmt.Println("No channels recorded yet.")
			return
		}

		for _, ch := range channels {
			name := ch.ChannelName
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("%s  %s  %d message(s), last %s\n",
				color.CyanString(ch.ChannelID),
				name,
				ch.MessageCount,
				ch.LastActivity.Local().Format("2006-01-02 15:04"),
			)
		}
	},
}
