// Package router enforces link policy on agent-to-agent traffic and records
// every routed message in the conversation store.
package router

import (
	"context"
	"log/slog"

	"github.com/agentwire/agentwire/internal/bus"
	"github.com/agentwire/agentwire/internal/conversation"
	"github.com/agentwire/agentwire/internal/links"
)

// Router consumes inbound messages, checks send permission against the
// current link snapshot, and forwards permitted traffic as outbound. Denied
// sends are logged and dropped; persistence is fire-and-forget either way.
type Router struct {
	registry *links.Registry
	store    *conversation.Store
	bus      *bus.MessageBus
}

// New creates a router over the given registry, store, and bus.
func New(registry *links.Registry, store *conversation.Store, b *bus.MessageBus) *Router {
	return &Router{registry: registry, store: store, bus: b}
}

// Route handles a single inbound message. It returns whether the message was
// permitted and forwarded.
func (r *Router) Route(msg *bus.InboundMessage) bool {
	edges := r.registry.Snapshot()
	if !links.Permits(edges, msg.FromAgent, msg.ToAgent) {
		slog.Warn("send denied: no permitting link", "from", msg.FromAgent, "to", msg.ToAgent)
		return false
	}

	channelID := links.ChannelPairID(msg.FromAgent, msg.ToAgent)
	senderName := msg.SenderName
	if senderName == "" {
		senderName = msg.FromAgent
	}
	r.store.AppendUserMessage(channelID, senderName, msg.FromAgent, msg.Content, msg.Metadata)

	r.bus.PublishOutbound(&bus.OutboundMessage{
		ChannelID: channelID,
		FromAgent: msg.FromAgent,
		ToAgent:   msg.ToAgent,
		Content:   msg.Content,
	})
	return true
}

// RecordReply persists an agent's reply on the channel. Fire-and-forget.
func (r *Router) RecordReply(channelID, content string) {
	r.store.AppendBotMessage(channelID, content)
}

// Run consumes inbound messages until the context is done. Run as a
// goroutine alongside the bus dispatcher.
func (r *Router) Run(ctx context.Context) error {
	slog.Info("router started")
	for {
		msg, err := r.bus.ConsumeInbound(ctx)
		if err != nil {
			return err
		}
		r.Route(msg)
	}
}
