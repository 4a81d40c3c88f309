package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentwire/agentwire/internal/compactor"
	"github.com/agentwire/agentwire/internal/config"
	"github.com/agentwire/agentwire/internal/conversation"
	"github.com/agentwire/agentwire/internal/links"
	"github.com/agentwire/agentwire/internal/workpool"
)

func newTestGateway(t *testing.T, defs []links.Def, agents []config.AgentDef) (*httptest.Server, *conversation.Store, *workpool.Pool) {
	t.Helper()
	edges, err := links.Validate(defs)
	if err != nil {
		t.Fatalf("validate links: %v", err)
	}
	registry := links.NewRegistry(edges)

	pool := workpool.New(1, 16)
	t.Cleanup(pool.Close)
	store, err := conversation.Open(filepath.Join(t.TempDir(), "conversations.db"), pool)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	cfg.Agents = agents
	comp := compactor.New(store, &compactor.TruncatingSummarizer{}, compactor.DefaultConfig())

	srv := httptest.NewServer(newGatewayMux(cfg, registry, store, comp, time.Now()))
	t.Cleanup(srv.Close)
	return srv, store, pool
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func TestGatewayTopologyScenario(t *testing.T) {
	defs := []links.Def{
		{From: "A", To: "B", Direction: "two_way", Kind: "peer"},
		{From: "B", To: "C", Direction: "one_way", Kind: "hierarchical"},
	}
	agents := []config.AgentDef{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	srv, _, _ := newTestGateway(t, defs, agents)

	var topo struct {
		Agents []struct {
			ID string `json:"id"`
		} `json:"agents"`
		Links []struct {
			From         string `json:"from"`
			To           string `json:"to"`
			Direction    string `json:"direction"`
			Relationship string `json:"relationship"`
		} `json:"links"`
	}
	getJSON(t, srv.URL+"/topology", http.StatusOK, &topo)

	if len(topo.Agents) != 3 {
		t.Fatalf("agents = %d, want 3", len(topo.Agents))
	}
	if len(topo.Links) != 2 {
		t.Fatalf("links = %d, want 2", len(topo.Links))
	}
	if topo.Links[0].Direction != "two_way" || topo.Links[0].Relationship != "peer" {
		t.Errorf("first link = %+v, want two_way peer", topo.Links[0])
	}
	if topo.Links[1].Direction != "one_way" || topo.Links[1].Relationship != "hierarchical" {
		t.Errorf("second link = %+v, want one_way hierarchical", topo.Links[1])
	}

	// B touches both edges, membership regardless of direction.
	var agentLinks struct {
		AgentID string            `json:"agent_id"`
		Links   []links.AgentLink `json:"links"`
	}
	getJSON(t, srv.URL+"/agents/B/links", http.StatusOK, &agentLinks)
	if agentLinks.AgentID != "B" {
		t.Errorf("agent_id = %q, want B", agentLinks.AgentID)
	}
	if len(agentLinks.Links) != 2 {
		t.Fatalf("B links = %d, want 2", len(agentLinks.Links))
	}

	getJSON(t, srv.URL+"/agents/C/links", http.StatusOK, &agentLinks)
	if len(agentLinks.Links) != 1 {
		t.Fatalf("C links = %d, want 1", len(agentLinks.Links))
	}
}

func TestGatewayLinksAndStatus(t *testing.T) {
	defs := []links.Def{{From: "alpha", To: "beta", Direction: "one_way", Kind: "peer"}}
	srv, _, _ := newTestGateway(t, defs, []config.AgentDef{{ID: "alpha"}, {ID: "beta"}})

	var body struct {
		Links []links.AgentLink `json:"links"`
	}
	getJSON(t, srv.URL+"/links", http.StatusOK, &body)
	if len(body.Links) != 1 {
		t.Fatalf("links = %d, want 1", len(body.Links))
	}
	if body.Links[0].From != "alpha" || body.Links[0].To != "beta" {
		t.Errorf("link = %+v", body.Links[0])
	}

	var status map[string]any
	getJSON(t, srv.URL+"/api/v1/status", http.StatusOK, &status)
	if status["version"] != version {
		t.Errorf("version = %v, want %s", status["version"], version)
	}
	if status["links"].(float64) != 1 {
		t.Errorf("status links = %v, want 1", status["links"])
	}
}

func TestGatewayChannelEndpoints(t *testing.T) {
	srv, store, pool := newTestGateway(t, nil, nil)

	channelID := links.ChannelPairID("helper", "planner")
	store.AppendUserMessage(channelID, "Helper", "helper", "status update", map[string]any{
		conversation.MetaChannelName: "ops-room",
	})
	store.AppendBotMessage(channelID, "acknowledged")
	pool.Flush()

	var channels []conversation.ChannelInfo
	getJSON(t, srv.URL+"/api/v1/channels", http.StatusOK, &channels)
	if len(channels) != 1 {
		t.Fatalf("channels = %d, want 1", len(channels))
	}
	if channels[0].ChannelName != "ops-room" {
		t.Errorf("channel name = %q, want ops-room", channels[0].ChannelName)
	}

	var resolved map[string]string
	getJSON(t, srv.URL+"/api/v1/channels/resolve?name=ops", http.StatusOK, &resolved)
	if resolved["channel_id"] != channelID {
		t.Errorf("resolved = %q, want %q", resolved["channel_id"], channelID)
	}

	getJSON(t, srv.URL+"/api/v1/channels/resolve", http.StatusBadRequest, nil)
	getJSON(t, srv.URL+"/api/v1/channels/resolve?name=nosuch", http.StatusNotFound, nil)

	// Channel IDs carry colons, the verb is still parsed off the tail.
	base := srv.URL + "/api/v1/channels/" + url.PathEscape(channelID)
	var transcript struct {
		ChannelID string                 `json:"channel_id"`
		Messages  []conversation.Message `json:"messages"`
	}
	getJSON(t, base+"/transcript?limit=10", http.StatusOK, &transcript)
	if len(transcript.Messages) != 2 {
		t.Fatalf("transcript = %d messages, want 2", len(transcript.Messages))
	}
	if transcript.Messages[0].Role != conversation.RoleUser || transcript.Messages[1].Role != conversation.RoleAssistant {
		t.Errorf("roles = %q, %q", transcript.Messages[0].Role, transcript.Messages[1].Role)
	}

	var summaries struct {
		Summaries []conversation.CompactionSummary `json:"summaries"`
	}
	getJSON(t, base+"/summaries", http.StatusOK, &summaries)
	if len(summaries.Summaries) != 0 {
		t.Errorf("summaries = %d, want 0", len(summaries.Summaries))
	}

	var archives struct {
		Archives []conversation.Archive `json:"archives"`
	}
	getJSON(t, base+"/archives", http.StatusOK, &archives)
	if len(archives.Archives) != 0 {
		t.Errorf("archives = %d, want 0", len(archives.Archives))
	}

	var cw compactor.Context
	getJSON(t, base+"/context?limit=5", http.StatusOK, &cw)
	if len(cw.Recent) != 2 {
		t.Errorf("context recent = %d, want 2", len(cw.Recent))
	}

	getJSON(t, base+"/nosuchverb", http.StatusNotFound, nil)
}

func TestGatewayEmptyGraph(t *testing.T) {
	srv, _, _ := newTestGateway(t, nil, nil)

	var body struct {
		Links []links.AgentLink `json:"links"`
	}
	getJSON(t, srv.URL+"/links", http.StatusOK, &body)
	if body.Links == nil || len(body.Links) != 0 {
		t.Errorf("links = %v, want empty non-nil", body.Links)
	}

	var agentLinks struct {
		Links []links.AgentLink `json:"links"`
	}
	getJSON(t, srv.URL+"/agents/ghost/links", http.StatusOK, &agentLinks)
	if len(agentLinks.Links) != 0 {
		t.Errorf("ghost links = %d, want 0", len(agentLinks.Links))
	}
}
