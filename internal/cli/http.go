package cli

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agentwire/agentwire/internal/compactor"
	"github.com/agentwire/agentwire/internal/config"
	"github.com/agentwire/agentwire/internal/conversation"
	"github.com/agentwire/agentwire/internal/links"
	"github.com/agentwire/agentwire/internal/topology"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// newGatewayMux builds the read-only HTTP surface. Writes go through the
// message bus, never through HTTP.
func newGatewayMux(cfg *config.Config, registry *links.Registry, store *conversation.Store, comp *compactor.Compactor, started time.Time) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"version":        version,
			"agents":         len(cfg.Agents),
			"links":          len(registry.Snapshot()),
			"uptime_seconds": int(time.Since(started).Seconds()),
		})
	})

	mux.HandleFunc("/links", func(w http.ResponseWriter, r *http.Request) {
		edges := registry.Snapshot()
		if edges == nil {
			edges = []links.AgentLink{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"links": edges})
	})

	// /agents/{id}/links
	mux.HandleFunc("/agents/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/agents/")
		agentID, ok := strings.CutSuffix(rest, "/links")
		if !ok || agentID == "" || strings.Contains(agentID, "/") {
			http.NotFound(w, r)
			return
		}
		edges := links.LinksFor(registry.Snapshot(), agentID)
		if edges == nil {
			edges = []links.AgentLink{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"agent_id": agentID,
			"links":    edges,
		})
	})

	mux.HandleFunc("/topology", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, topology.Render(registry.Snapshot(), cfg.AgentIDs()))
	})

	mux.HandleFunc("/api/v1/channels", func(w http.ResponseWriter, r *http.Request) {
		channels, err := store.ListChannels()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if channels == nil {
			channels = []conversation.ChannelInfo{}
		}
		writeJSON(w, http.StatusOK, channels)
	})

	mux.HandleFunc("/api/v1/channels/resolve", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			http.Error(w, "name parameter required", http.StatusBadRequest)
			return
		}
		channelID, found, err := store.FindChannelByName(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !found {
			http.Error(w, "no channel matches "+name, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"channel_id": channelID})
	})

	// /api/v1/channels/{id}/{verb} — channel IDs contain colons, so the verb
	// is whatever follows the last slash.
	mux.HandleFunc("/api/v1/channels/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/v1/channels/")
		idx := strings.LastIndex(rest, "/")
		if idx <= 0 {
			http.NotFound(w, r)
			return
		}
		channelID, verb := rest[:idx], rest[idx+1:]

		switch verb {
		case "transcript":
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			if limit <= 0 {
				limit = 50
			}
			messages, err := store.LoadChannelTranscript(channelID, limit)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if messages == nil {
				messages = []conversation.Message{}
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"channel_id": channelID,
				"messages":   messages,
			})
		case "summaries":
			summaries, err := store.LoadCompactionSummaries(channelID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if summaries == nil {
				summaries = []conversation.CompactionSummary{}
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"channel_id": channelID,
				"summaries":  summaries,
			})
		case "archives":
			archives, err := store.LoadArchives(channelID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if archives == nil {
				archives = []conversation.Archive{}
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"channel_id": channelID,
				"archives":   archives,
			})
		case "context":
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			if limit <= 0 {
				limit = 20
			}
			cw, err := comp.BuildContext(channelID, limit)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, cw)
		default:
			http.NotFound(w, r)
		}
	})

	return mux
}
