// Package relay bridges external Kafka topics onto the in-process bus.
// It is a thin ingress/egress adapter: delivery guarantees stay with Kafka.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/agentwire/agentwire/internal/bus"
)

// Config holds relay settings.
type Config struct {
	Enabled       bool     `json:"enabled" envconfig:"ENABLED"`
	Brokers       string   `json:"brokers" envconfig:"BROKERS"`
	ConsumerGroup string   `json:"consumerGroup" envconfig:"CONSUMER_GROUP"`
	InboundTopics []string `json:"inboundTopics"`
	OutboundTopic string   `json:"outboundTopic" envconfig:"OUTBOUND_TOPIC"`
}

// decodeInbound parses a topic message into an inbound bus message.
func decodeInbound(value []byte) (*bus.InboundMessage, error) {
	var msg bus.InboundMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return nil, fmt.Errorf("decode inbound envelope: %w", err)
	}
	if msg.FromAgent == "" || msg.ToAgent == "" {
		return nil, fmt.Errorf("inbound envelope missing from_agent/to_agent")
	}
	return &msg, nil
}

// Source consumes inbound envelopes from Kafka topics and publishes them to
// the bus.
type Source struct {
	cfg     Config
	bus     *bus.MessageBus
	readers []*kafka.Reader
	mu      sync.Mutex
}

// NewSource creates a source for the configured inbound topics.
func NewSource(cfg Config, b *bus.MessageBus) *Source {
	return &Source{cfg: cfg, bus: b}
}

// Start begins consuming from all configured topics. Non-blocking; readers
// run until the context is done.
func (s *Source) Start(ctx context.Context) {
	brokers := strings.Split(s.cfg.Brokers, ",")
	for _, topic := range s.cfg.InboundTopics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  s.cfg.ConsumerGroup,
			MinBytes: 1,
			MaxBytes: 10e6,
		})
		s.mu.Lock()
		s.readers = append(s.readers, reader)
		s.mu.Unlock()

		go func(r *kafka.Reader, t string) {
			for {
				m, err := r.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					slog.Warn("relay source: read error", "topic", t, "error", err)
					continue
				}
				msg, err := decodeInbound(m.Value)
				if err != nil {
					slog.Warn("relay source: bad envelope", "topic", t, "error", err)
					continue
				}
				s.bus.PublishInbound(msg)
			}
		}(reader, topic)
	}
}

// Close closes all readers.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.readers {
		_ = r.Close()
	}
	s.readers = nil
}

// Sink mirrors routed outbound messages to a Kafka topic. Write failures
// are logged and dropped.
type Sink struct {
	writer *kafka.Writer
}

// NewSink creates a sink writing to the configured outbound topic.
func NewSink(cfg Config) *Sink {
	return &Sink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(cfg.Brokers, ",")...),
			Topic:        cfg.OutboundTopic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Forward publishes one outbound message. Suitable as a bus subscriber.
func (s *Sink) Forward(msg *bus.OutboundMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("relay sink: encode failed", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.ChannelID),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		slog.Warn("relay sink: write failed", "channel_id", msg.ChannelID, "error", err)
	}
}

// Close closes the writer.
func (s *Sink) Close() error {
	return s.writer.Close()
}
