package conversation

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MetaChannelName is the metadata key carrying a human-readable channel
// label, used for name resolution.
const MetaChannelName = "discord_channel_name"

// Message is a persisted conversation message. Messages are append-only:
// never mutated, never deleted.
type Message struct {
	ID         string    `json:"id"`
	ChannelID  string    `json:"channel_id"`
	Role       string    `json:"role"`
	SenderName string    `json:"sender_name,omitempty"`
	SenderID   string    `json:"sender_id,omitempty"`
	Content    string    `json:"content"`
	Metadata   string    `json:"metadata,omitempty"` // JSON document
	CreatedAt  time.Time `json:"created_at"`
}

// CompactionSummary is a rollup replacing a prefix of a channel's message
// history, so context-window consumers can replay "summaries + recent
// messages" instead of the full log.
type CompactionSummary struct {
	ID           string    `json:"id"`
	ChannelID    string    `json:"channel_id"`
	Summary      string    `json:"summary"`
	TurnsCovered int       `json:"turns_covered"`
	CreatedAt    time.Time `json:"created_at"`
}

// Archive is a raw transcript snapshot taken before a compaction rolled up
// the corresponding messages.
type Archive struct {
	ID         string    `json:"id"`
	ChannelID  string    `json:"channel_id"`
	Transcript string    `json:"transcript"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChannelInfo is a derived per-channel aggregate; it is computed from
// conversation_messages, not stored.
type ChannelInfo struct {
	ChannelID    string    `json:"channel_id"`
	ChannelName  string    `json:"channel_name,omitempty"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int64     `json:"message_count"`
}

const Schema = `
CREATE TABLE IF NOT EXISTS conversation_messages (
	id TEXT PRIMARY KEY,
	channel_id TEXT NOT NULL,
	role TEXT NOT NULL,
	sender_name TEXT,
	sender_id TEXT,
	content TEXT NOT NULL,
	metadata TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_messages_channel ON conversation_messages(channel_id, created_at);

CREATE TABLE IF NOT EXISTS compaction_summaries (
	id TEXT PRIMARY KEY,
	channel_id TEXT NOT NULL,
	summary TEXT NOT NULL,
	turns_covered INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_summaries_channel ON compaction_summaries(channel_id, created_at);

CREATE TABLE IF NOT EXISTS conversation_archives (
	id TEXT PRIMARY KEY,
	channel_id TEXT NOT NULL,
	transcript TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_archives_channel ON conversation_archives(channel_id, created_at);
`
