// Package links models the agent communication graph: who may message whom,
// and the social framing each edge carries.
package links

import (
	"fmt"
)

// Direction is the send-permission policy of a link.
type Direction string

const (
	// OneWay permits sends only from the link's From agent to its To agent.
	OneWay Direction = "one_way"
	// TwoWay permits sends in both directions.
	TwoWay Direction = "two_way"
)

// ParseDirection parses a config direction string.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "one_way":
		return OneWay, nil
	case "two_way":
		return TwoWay, nil
	default:
		return "", fmt.Errorf("invalid link direction: %q, expected \"one_way\" or \"two_way\"", s)
	}
}

// Kind is the relationship framing of a link. Hierarchical means the From
// agent is superior to the To agent; Peer means equals. The kind never gates
// delivery, it only frames how the receiving agent should treat the sender.
type Kind string

const (
	Hierarchical Kind = "hierarchical"
	Peer         Kind = "peer"
)

// ParseKind parses a config kind string. The legacy three-valued relationship
// schema ("peer", "superior", "subordinate") is still accepted: superior and
// subordinate both collapse onto Hierarchical, with the edge's direction
// carrying the orientation the removed values used to encode.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "hierarchical", "superior", "subordinate":
		return Hierarchical, nil
	case "peer":
		return Peer, nil
	default:
		return "", fmt.Errorf("invalid link kind: %q, expected \"hierarchical\" or \"peer\"", s)
	}
}

// Def is a raw link definition as it appears in configuration, before
// validation. Kind wins over the legacy Relationship field when both are set.
type Def struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Direction    string `json:"direction"`
	Kind         string `json:"kind,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

func (d Def) kindValue() string {
	if d.Kind != "" {
		return d.Kind
	}
	return d.Relationship
}

// AgentLink is a validated directed edge in the communication graph.
type AgentLink struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Direction Direction `json:"direction"`
	Kind      Kind      `json:"kind"`
}

// ChannelID returns the durable conversation identity shared by both
// endpoints of this link.
func (l AgentLink) ChannelID() string {
	return ChannelPairID(l.From, l.To)
}

// ChannelPairID maps an agent pair to its channel identity. The pair is
// sorted lexicographically so both directions of a conversation always
// resolve to the same channel.
func ChannelPairID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("link:%s:%s", a, b)
}

// Validate parses raw link definitions into edges. Validation is
// all-or-nothing: any bad definition fails the whole batch so a config typo
// can never silently drop a link.
func Validate(defs []Def) ([]AgentLink, error) {
	out := make([]AgentLink, 0, len(defs))
	for _, def := range defs {
		direction, err := ParseDirection(def.Direction)
		if err != nil {
			return nil, fmt.Errorf("%w (link %s -> %s)", err, def.From, def.To)
		}
		kind, err := ParseKind(def.kindValue())
		if err != nil {
			return nil, fmt.Errorf("%w (link %s -> %s)", err, def.From, def.To)
		}
		out = append(out, AgentLink{
			From:      def.From,
			To:        def.To,
			Direction: direction,
			Kind:      kind,
		})
	}
	return out, nil
}

// LinksFor returns every edge touching the given agent, regardless of
// direction. Direction gates send permission, not graph membership: an agent
// that can only receive on a one-way edge still lists that edge.
func LinksFor(all []AgentLink, agentID string) []AgentLink {
	var out []AgentLink
	for _, l := range all {
		if l.From == agentID || l.To == agentID {
			out = append(out, l)
		}
	}
	return out
}

// Permits reports whether the edge set allows a send from one agent to
// another. TwoWay edges permit either direction; OneWay only From to To.
func Permits(all []AgentLink, from, to string) bool {
	for _, l := range all {
		if l.From == from && l.To == to {
			return true
		}
		if l.Direction == TwoWay && l.From == to && l.To == from {
			return true
		}
	}
	return false
}
