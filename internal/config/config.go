// Package config provides configuration types and loading for agentwire.
package config

import (
	"github.com/agentwire/agentwire/internal/compactor"
	"github.com/agentwire/agentwire/internal/links"
	"github.com/agentwire/agentwire/internal/relay"
)

// Config is the root configuration struct.
type Config struct {
	Paths      PathsConfig      `json:"paths"`
	Gateway    GatewayConfig    `json:"gateway"`
	Agents     []AgentDef       `json:"agents"`
	Links      []links.Def      `json:"links"`
	Store      StoreConfig      `json:"store"`
	Compaction compactor.Config `json:"compaction"`
	Relay      relay.Config     `json:"relay"`
}

// PathsConfig groups filesystem path settings.
type PathsConfig struct {
	DataDir string `json:"dataDir" envconfig:"DATA_DIR"`
}

// GatewayConfig configures the HTTP gateway.
type GatewayConfig struct {
	Host string `json:"host" envconfig:"HOST"`
	Port int    `json:"port" envconfig:"PORT"`
}

// AgentDef declares a known agent identity.
type AgentDef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// StoreConfig configures the conversation store and its write pool.
type StoreConfig struct {
	DBFile     string `json:"dbFile" envconfig:"DB_FILE"`
	Workers    int    `json:"workers" envconfig:"WORKERS"`
	QueueDepth int    `json:"queueDepth" envconfig:"QUEUE_DEPTH"`
}

// AgentIDs returns the configured agent identifiers in declaration order.
func (c *Config) AgentIDs() []string {
	ids := make([]string, 0, len(c.Agents))
	for _, a := range c.Agents {
		ids = append(ids, a.ID)
	}
	return ids
}
