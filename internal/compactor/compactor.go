// Package compactor rolls up conversation history into summaries so a
// bounded context window can represent unbounded history.
package compactor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agentwire/agentwire/internal/conversation"
)

// Summarizer produces a rollup summary for a batch of messages.
type Summarizer interface {
	Summarize(ctx context.Context, messages []conversation.Message) (string, error)
}

// Config holds compaction settings.
type Config struct {
	Enabled   bool          `json:"enabled" envconfig:"ENABLED"`
	Interval  time.Duration `json:"interval"`
	Threshold int           `json:"threshold" envconfig:"THRESHOLD"`
	BatchSize int           `json:"batchSize" envconfig:"BATCH_SIZE"`
}

// DefaultConfig returns sensible compaction defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:   false,
		Interval:  5 * time.Minute,
		Threshold: 50,
		BatchSize: 200,
	}
}

// Compactor sweeps active channels and replaces message-history prefixes
// with summaries. The raw transcript is archived before each rollup so there
// is always an audit trail.
type Compactor struct {
	store      *conversation.Store
	summarizer Summarizer
	cfg        Config

	mu        sync.Mutex
	compacted map[string]int64 // channel -> message count at last rollup
}

// New creates a compactor. A nil summarizer falls back to the truncating
// summarizer so compaction degrades rather than disables.
func New(store *conversation.Store, summarizer Summarizer, cfg Config) *Compactor {
	if summarizer == nil {
		summarizer = &TruncatingSummarizer{}
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultConfig().Threshold
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Compactor{
		store:      store,
		summarizer: summarizer,
		cfg:        cfg,
		compacted:  make(map[string]int64),
	}
}

// Compact rolls up the channel's recent messages: archive the raw
// transcript, summarize, store the summary. Returns whether a rollup was
// produced. The archive and summary writes are fire-and-forget like all
// store writes; only the read and the summarizer can fail.
func (c *Compactor) Compact(ctx context.Context, channelID string) (bool, error) {
	messages, err := c.store.LoadRecent(channelID, c.cfg.BatchSize)
	if err != nil {
		return false, fmt.Errorf("load messages for compaction: %w", err)
	}
	if len(messages) < c.cfg.Threshold {
		return false, nil
	}

	transcript, err := json.Marshal(messages)
	if err != nil {
		return false, fmt.Errorf("encode transcript: %w", err)
	}
	// Archive first: the raw transcript must survive even if summarization
	// fails halfway.
	c.store.ArchiveTranscript(channelID, string(transcript))

	summary, err := c.summarizer.Summarize(ctx, messages)
	if err != nil {
		return false, fmt.Errorf("summarize channel %s: %w", channelID, err)
	}
	c.store.SaveCompactionSummary(channelID, summary, len(messages))

	c.mu.Lock()
	c.compacted[channelID] += int64(len(messages))
	c.mu.Unlock()
	return true, nil
}

// Run sweeps all known channels on the configured interval, compacting any
// channel that accumulated at least Threshold messages since its last
// rollup. Run as a goroutine.
func (c *Compactor) Run(ctx context.Context) error {
	slog.Info("compactor started", "interval", c.cfg.Interval, "threshold", c.cfg.Threshold)
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *Compactor) sweep(ctx context.Context) {
	channels, err := c.store.ListChannels()
	if err != nil {
		slog.Warn("compaction sweep: list channels failed", "error", err)
		return
	}
	for _, ch := range channels {
		c.mu.Lock()
		done := c.compacted[ch.ChannelID]
		c.mu.Unlock()
		if ch.MessageCount-done < int64(c.cfg.Threshold) {
			continue
		}
		if _, err := c.Compact(ctx, ch.ChannelID); err != nil {
			slog.Warn("compaction failed", "channel_id", ch.ChannelID, "error", err)
		}
	}
}

// Context is the reconstructed conversation state: prior rollups in the
// order they were produced, then the most recent raw messages.
type Context struct {
	Summaries []conversation.CompactionSummary `json:"summaries"`
	Recent    []conversation.Message           `json:"recent"`
}

// BuildContext assembles the bounded context window for a channel.
func (c *Compactor) BuildContext(channelID string, recentLimit int) (Context, error) {
	summaries, err := c.store.LoadCompactionSummaries(channelID)
	if err != nil {
		return Context{}, fmt.Errorf("load summaries: %w", err)
	}
	recent, err := c.store.LoadRecent(channelID, recentLimit)
	if err != nil {
		return Context{}, fmt.Errorf("load recent: %w", err)
	}
	return Context{Summaries: summaries, Recent: recent}, nil
}
