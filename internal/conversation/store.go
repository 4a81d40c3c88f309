// Package conversation persists conversation history: an append-only message
// log per channel, compaction summaries, and raw transcript archives.
package conversation

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/agentwire/agentwire/internal/workpool"
)

// Store persists conversation messages keyed by channel identity.
//
// All write methods are fire-and-forget: they hand the insert to the shared
// worker pool and return immediately, so message ingestion never stalls on
// storage latency. A failed write is logged and dropped. Reads are
// synchronous and surface store errors to the caller.
type Store struct {
	db   *sql.DB
	pool *workpool.Pool
}

// Open opens (creating if needed) the conversation database at dbPath and
// applies the schema. The pool is shared with other background work and is
// not owned by the store.
func Open(dbPath string, pool *workpool.Pool) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open conversation db: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply conversation schema: %w", err)
	}
	return &Store{db: db, pool: pool}, nil
}

// Close closes the database. Callers should flush the worker pool first if
// they care about queued writes landing.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendUserMessage records an inbound message. Fire-and-forget.
func (s *Store) AppendUserMessage(channelID, senderName, senderID, content string, metadata map[string]any) {
	id := uuid.New().String()
	createdAt := time.Now().UTC()
	var metadataJSON any
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}
	s.pool.Submit(func() {
		_, err := s.db.Exec(
			`INSERT INTO conversation_messages (id, channel_id, role, sender_name, sender_id, content, metadata, created_at)
			 VALUES (?, ?, 'user', ?, ?, ?, ?, ?)`,
			id, channelID, senderName, senderID, content, metadataJSON, createdAt,
		)
		if err != nil {
			slog.Warn("failed to persist user message", "channel_id", channelID, "error", err)
		}
	})
}

// AppendBotMessage records an outbound assistant message. Fire-and-forget.
func (s *Store) AppendBotMessage(channelID, content string) {
	id := uuid.New().String()
	createdAt := time.Now().UTC()
	s.pool.Submit(func() {
		_, err := s.db.Exec(
			`INSERT INTO conversation_messages (id, channel_id, role, content, created_at)
			 VALUES (?, ?, 'assistant', ?, ?)`,
			id, channelID, content, createdAt,
		)
		if err != nil {
			slog.Warn("failed to persist bot message", "channel_id", channelID, "error", err)
		}
	})
}

// LoadRecent returns up to limit of the most recent messages for a channel,
// reordered oldest-first so callers always see chronological order.
func (s *Store) LoadRecent(channelID string, limit int) ([]Message, error) {
	return s.loadMessages(channelID, limit)
}

// LoadChannelTranscript is LoadRecent for arbitrary channels, used for
// cross-channel inspection rather than the active conversation.
func (s *Store) LoadChannelTranscript(channelID string, limit int) ([]Message, error) {
	return s.loadMessages(channelID, limit)
}

func (s *Store) loadMessages(channelID string, limit int) ([]Message, error) {
	rows, err := s.db.Query(
		`SELECT id, channel_id, role, COALESCE(sender_name,''), COALESCE(sender_id,''), content, COALESCE(metadata,''), created_at
		 FROM conversation_messages
		 WHERE channel_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		channelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.Role, &m.SenderName, &m.SenderID, &m.Content, &m.Metadata, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	// Fetched newest-first for the LIMIT; flip to chronological.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// SaveCompactionSummary stores a rollup covering turnsCovered messages.
// Fire-and-forget.
func (s *Store) SaveCompactionSummary(channelID, summary string, turnsCovered int) {
	id := uuid.New().String()
	createdAt := time.Now().UTC()
	s.pool.Submit(func() {
		_, err := s.db.Exec(
			`INSERT INTO compaction_summaries (id, channel_id, summary, turns_covered, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			id, channelID, summary, turnsCovered, createdAt,
		)
		if err != nil {
			slog.Warn("failed to persist compaction summary", "channel_id", channelID, "error", err)
		}
	})
}

// LoadCompactionSummaries returns all summaries for a channel, oldest first,
// so they replay in the order they were produced.
func (s *Store) LoadCompactionSummaries(channelID string) ([]CompactionSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, channel_id, summary, turns_covered, created_at
		 FROM compaction_summaries
		 WHERE channel_id = ?
		 ORDER BY created_at ASC, id ASC`,
		channelID,
	)
	if err != nil {
		return nil, fmt.Errorf("load compaction summaries: %w", err)
	}
	defer rows.Close()

	var summaries []CompactionSummary
	for rows.Next() {
		var c CompactionSummary
		if err := rows.Scan(&c.ID, &c.ChannelID, &c.Summary, &c.TurnsCovered, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan compaction summary: %w", err)
		}
		summaries = append(summaries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load compaction summaries: %w", err)
	}
	return summaries, nil
}

// ArchiveTranscript snapshots a raw transcript before compaction rolls up
// the corresponding messages. Fire-and-forget.
func (s *Store) ArchiveTranscript(channelID, transcript string) {
	id := uuid.New().String()
	createdAt := time.Now().UTC()
	s.pool.Submit(func() {
		_, err := s.db.Exec(
			`INSERT INTO conversation_archives (id, channel_id, transcript, created_at)
			 VALUES (?, ?, ?, ?)`,
			id, channelID, transcript, createdAt,
		)
		if err != nil {
			slog.Warn("failed to archive transcript", "channel_id", channelID, "error", err)
		}
	})
}

// LoadArchives returns a channel's transcript snapshots, oldest first.
func (s *Store) LoadArchives(channelID string) ([]Archive, error) {
	rows, err := s.db.Query(
		`SELECT id, channel_id, transcript, created_at
		 FROM conversation_archives
		 WHERE channel_id = ?
		 ORDER BY created_at ASC, id ASC`,
		channelID,
	)
	if err != nil {
		return nil, fmt.Errorf("load archives: %w", err)
	}
	defer rows.Close()

	var archives []Archive
	for rows.Next() {
		var a Archive
		if err := rows.Scan(&a.ID, &a.ChannelID, &a.Transcript, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		archives = append(archives, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load archives: %w", err)
	}
	return archives, nil
}

// ListChannels returns all known channels, most recently active first, with
// display names resolved from message metadata. The per-channel name lookup
// runs outside the aggregate scan's statement; a write racing between the
// two can yield a mixed-point-in-time view, which is acceptable for this
// advisory read.
func (s *Store) ListChannels() ([]ChannelInfo, error) {
	rows, err := s.db.Query(
		`SELECT channel_id, MAX(created_at) AS last_activity, COUNT(*) AS message_count
		 FROM conversation_messages
		 GROUP BY channel_id
		 ORDER BY last_activity DESC, channel_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []ChannelInfo
	for rows.Next() {
		var c ChannelInfo
		// MAX(created_at) is an expression, so SQLite reports no declared
		// type and the driver returns the stored text instead of a
		// time.Time. Parse it ourselves.
		var lastActivity string
		if err := rows.Scan(&c.ChannelID, &lastActivity, &c.MessageCount); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		t, err := parseStoredTime(lastActivity)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		c.LastActivity = t
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	for i := range channels {
		if name, ok := s.ResolveChannelName(channels[i].ChannelID); ok {
			channels[i].ChannelName = name
		}
	}
	return channels, nil
}

// storedTimeLayouts are the text forms the driver writes for bound
// time.Time values: time.Time.String output by default, the sqlite layout
// when the DSN sets _time_format.
var storedTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
}

func parseStoredTime(s string) (time.Time, error) {
	// time.Time.String appends a monotonic clock reading when one is
	// present; it is not part of the timestamp.
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized stored timestamp %q", s)
}

// ResolveChannelName extracts the display name from the most recent message
// carrying metadata. A missing name is a normal outcome, not an error;
// lookup failures are treated the same way.
func (s *Store) ResolveChannelName(channelID string) (string, bool) {
	var metadataJSON string
	err := s.db.QueryRow(
		`SELECT metadata FROM conversation_messages
		 WHERE channel_id = ? AND metadata IS NOT NULL
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		channelID,
	).Scan(&metadataJSON)
	if err != nil {
		return "", false
	}

	var metadata map[string]any
	if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
		return "", false
	}
	name, ok := metadata[MetaChannelName].(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
