// Package topology projects the agent/link graph for visualization.
package topology

import "github.com/agentwire/agentwire/internal/links"

// Agent is a graph node. The agent identifier doubles as the display name.
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Link is an edge restated with string-valued enums for rendering.
type Link struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Direction    string `json:"direction"`
	Relationship string `json:"relationship"`
}

// Topology is the full graph view.
type Topology struct {
	Agents []Agent `json:"agents"`
	Links  []Link  `json:"links"`
}

// Render builds the topology from the current edge snapshot and the
// configured agent identifiers. Pure projection, recomputed per call.
func Render(edges []links.AgentLink, agentIDs []string) Topology {
	agents := make([]Agent, 0, len(agentIDs))
	for _, id := range agentIDs {
		agents = append(agents, Agent{ID: id, Name: id})
	}
	out := make([]Link, 0, len(edges))
	for _, e := range edges {
		out = append(out, Link{
			From:         e.From,
			To:           e.To,
			Direction:    string(e.Direction),
			Relationship: string(e.Kind),
		})
	}
	return Topology{Agents: agents, Links: out}
}
