package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentwire/agentwire/internal/bus"
	"github.com/agentwire/agentwire/internal/compactor"
	"github.com/agentwire/agentwire/internal/config"
	"github.com/agentwire/agentwire/internal/conversation"
	"github.com/agentwire/agentwire/internal/links"
	"github.com/agentwire/agentwire/internal/relay"
	"github.com/agentwire/agentwire/internal/router"
	"github.com/agentwire/agentwire/internal/workpool"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the agent gateway (link graph, router, HTTP API)",
	Run:   runGateway,
}

var gatewaySignalNotify = signal.Notify
var gatewaySignalStop = signal.Stop

func runGateway(cmd *cobra.Command, args []string) {
	printHeader("🌐 agentwire Gateway")
	fmt.Println("Starting agentwire Gateway...")

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	// 2. Validate the link graph. A bad definition aborts startup rather
	// than running with a partial graph.
	edges, err := links.Validate(cfg.Links)
	if err != nil {
		fmt.Printf("Link definition error: %v\n", err)
		os.Exit(1)
	}
	registry := links.NewRegistry(edges)
	fmt.Printf("🔗 Link graph loaded: %d agent(s), %d link(s)\n", len(cfg.Agents), len(edges))

	// 3. Setup the write pool and conversation store
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		fmt.Printf("Data dir error: %v\n", err)
		os.Exit(1)
	}
	pool := workpool.New(cfg.Store.Workers, cfg.Store.QueueDepth)
	store, err := conversation.Open(cfg.DBPath(), pool)
	if err != nil {
		fmt.Printf("Store error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("💾 Conversation store ready:", cfg.DBPath())

	// 4. Setup Bus + Router
	msgBus := bus.NewMessageBus()
	rtr := router.New(registry, store, msgBus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	gatewaySignalNotify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer gatewaySignalStop(sigChan)

	go func() {
		if err := rtr.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("router stopped", "error", err)
		}
	}()
	go msgBus.DispatchOutbound(ctx)

	// 5. Setup Compaction
	comp := compactor.New(store, &compactor.TruncatingSummarizer{}, cfg.Compaction)
	if cfg.Compaction.Enabled {
		go comp.Run(ctx)
		fmt.Println("🗜️  Compaction enabled")
	}

	// 6. Setup Kafka relay (conditional)
	var source *relay.Source
	var sink *relay.Sink
	if cfg.Relay.Enabled && cfg.Relay.Brokers != "" {
		source = relay.NewSource(cfg.Relay, msgBus)
		source.Start(ctx)
		sink = relay.NewSink(cfg.Relay)
		for _, agentID := range cfg.AgentIDs() {
			msgBus.Subscribe(agentID, sink.Forward)
		}
		fmt.Println("📡 Kafka relay started:", cfg.Relay.Brokers)
	}

	// 7. HTTP API
	mux := newGatewayMux(cfg, registry, store, comp, time.Now())
	addr := fmt.Sprintf("%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		fmt.Printf("📡 API Server listening on http://%s\n", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("API Server Error: %v\n", err)
		}
	}()

	<-sigChan
	fmt.Println("\nShutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}
	cancel()
	if source != nil {
		source.Close()
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			slog.Warn("relay sink close", "error", err)
		}
	}
	// Drain queued writes before closing the database.
	pool.Close()
	if err := store.Close(); err != nil {
		slog.Warn("store close", "error", err)
	}
	fmt.Println("Goodbye.")
}
