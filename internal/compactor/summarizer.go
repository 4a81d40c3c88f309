package compactor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agentwire/agentwire/internal/conversation"
)

// TruncatingSummarizer is the fallback summarizer used when no model-backed
// implementation is wired: it keeps the opening and closing exchanges and
// states what was elided. Deterministic and dependency-free.
type TruncatingSummarizer struct {
	// SnippetLen bounds each quoted message. Zero means 120.
	SnippetLen int
}

func (s *TruncatingSummarizer) Summarize(_ context.Context, messages []conversation.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("nothing to summarize")
	}
	limit := s.SnippetLen
	if limit <= 0 {
		limit = 120
	}

	senders := make(map[string]struct{})
	for _, m := range messages {
		if m.SenderName != "" {
			senders[m.SenderName] = struct{}{}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d messages", len(messages))
	if len(senders) > 0 {
		names := make([]string, 0, len(senders))
		for name := range senders {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, " involving %s", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, ". Opened with: %s", snippet(messages[0].Content, limit))
	if len(messages) > 1 {
		fmt.Fprintf(&b, " Ended with: %s", snippet(messages[len(messages)-1].Content, limit))
	}
	return b.String(), nil
}

func snippet(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
