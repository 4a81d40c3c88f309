package bus

import (
	"context"
	"testing"
	"time"
)

func TestPublishConsumeInbound(t *testing.T) {
	b := NewMessageBus()
	b.PublishInbound(&InboundMessage{FromAgent: "a", ToAgent: "b", Content: "hi"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := b.ConsumeInbound(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if msg.FromAgent != "a" || msg.ToAgent != "b" || msg.Content != "hi" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Error("expected publish to stamp the message")
	}
}

func TestConsumeInboundHonorsContext(t *testing.T) {
	b := NewMessageBus()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := b.ConsumeInbound(ctx); err == nil {
		t.Fatal("expected context error on empty bus")
	}
}

func TestDispatchOutboundRoutesBySubscriber(t *testing.T) {
	b := NewMessageBus()
	got := make(chan *OutboundMessage, 1)
	b.Subscribe("b", func(m *OutboundMessage) { got <- m })
	b.Subscribe("c", func(m *OutboundMessage) { t.Error("wrong subscriber invoked") })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.DispatchOutbound(ctx)

	b.PublishOutbound(&OutboundMessage{ChannelID: "link:a:b", FromAgent: "a", ToAgent: "b", Content: "routed"})

	select {
	case m := <-got:
		if m.Content != "routed" {
			t.Errorf("unexpected content %q", m.Content)
		}
	case <-time.After(time.Second):
		t.Fatal("outbound message never dispatched")
	}
}
