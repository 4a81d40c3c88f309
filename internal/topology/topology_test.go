package topology

import (
	"testing"

	"github.com/agentwire/agentwire/internal/links"
)

func TestRender(t *testing.T) {
	edges := []links.AgentLink{
		{From: "A", To: "B", Direction: links.TwoWay, Kind: links.Peer},
		{From: "B", To: "C", Direction: links.OneWay, Kind: links.Hierarchical},
	}
	top := Render(edges, []string{"A", "B", "C"})

	if len(top.Agents) != 3 {
		t.Fatalf("expected 3 agents, got %d", len(top.Agents))
	}
	for _, a := range top.Agents {
		if a.Name != a.ID {
			t.Errorf("agent %q: name %q should equal id", a.ID, a.Name)
		}
	}
	if len(top.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(top.Links))
	}
	if top.Links[0].Direction != "two_way" || top.Links[0].Relationship != "peer" {
		t.Errorf("unexpected first link: %+v", top.Links[0])
	}
	if top.Links[1].Direction != "one_way" || top.Links[1].Relationship != "hierarchical" {
		t.Errorf("unexpected second link: %+v", top.Links[1])
	}
}

func TestRenderEmpty(t *testing.T) {
	top := Render(nil, nil)
	if len(top.Agents) != 0 || len(top.Links) != 0 {
		t.Errorf("expected empty projection, got %+v", top)
	}
}
