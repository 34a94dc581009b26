package display

import (
	"testing"

	"github.com/msalah0e/graphlens/internal/graph"
)

func build(t *testing.T, text string, mode Mode) *Graph {
	t.Helper()
	c, err := graph.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return Build(c, mode)
}

func checkDegree(t *testing.T, g *Graph, id graph.NodeID, want Degree) {
	t.Helper()
	got, ok := g.Degree(id)
	if !ok {
		t.Fatalf("node %q missing", id)
	}
	if got != want {
		t.Errorf("node %q: expected %+v, got %+v", id, want, got)
	}
}

func TestUndirectedDedup(t *testing.T) {
	g := build(t, `{"a": ["b"], "b": ["a"]}`, Undirected)

	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d: %+v", len(g.Edges), g.Edges)
	}
	if g.Edges[0].ID != "e-a-b" || g.Edges[0].Source != "a" || g.Edges[0].Target != "b" {
		t.Errorf("unexpected edge: %+v", g.Edges[0])
	}
	checkDegree(t, g, "a", Degree{Total: 1})
	checkDegree(t, g, "b", Degree{Total: 1})
}

func TestUndirectedKeepsFirstOrientation(t *testing.T) {
	g := build(t, `{"z": ["a"], "a": ["z", "z"]}`, Undirected)
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	e := g.Edges[0]
	if e.ID != "e-a-z" || e.Source != "z" || e.Target != "a" {
		t.Errorf("unexpected edge: %+v", e)
	}
}

func TestDirectedDegrees(t *testing.T) {
	g := build(t, `{"a": ["b", "c"]}`, Directed)

	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(g.Edges))
	}
	checkDegree(t, g, "a", Degree{Out: 2})
	checkDegree(t, g, "b", Degree{In: 1})
	checkDegree(t, g, "c", Degree{In: 1})
}

func TestDirectedRepeatsCollapse(t *testing.T) {
	g := build(t, `{"a": ["b", "b", ["b", 3]], "b": ["a"]}`, Directed)

	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d: %+v", len(g.Edges), g.Edges)
	}
	if g.Edges[0].ID != "e-a-b" || g.Edges[1].ID != "e-b-a" {
		t.Errorf("unexpected ids: %s, %s", g.Edges[0].ID, g.Edges[1].ID)
	}
	checkDegree(t, g, "a", Degree{In: 1, Out: 1})
	checkDegree(t, g, "b", Degree{In: 1, Out: 1})
}

func TestSelfLoop(t *testing.T) {
	directed := build(t, `{"a": ["a"]}`, Directed)
	if len(directed.Nodes) != 1 || len(directed.Edges) != 1 {
		t.Fatalf("expected 1 node and 1 edge, got %d and %d", len(directed.Nodes), len(directed.Edges))
	}
	checkDegree(t, directed, "a", Degree{In: 1, Out: 1})

	undirected := build(t, `{"a": ["a"]}`, Undirected)
	checkDegree(t, undirected, "a", Degree{Total: 2})
}

func TestIsolatedNodesHaveZeroDegree(t *testing.T) {
	g := build(t, `{"a": "not a list", "b": []}`, Directed)
	checkDegree(t, g, "a", Degree{})
	checkDegree(t, g, "b", Degree{})
	if len(g.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(g.Nodes))
	}
}

func TestLabels(t *testing.T) {
	d := build(t, `{"a": ["b"]}`, Directed)
	if d.Nodes[0].FullLabel != "a\nI:0 O:1" {
		t.Errorf("unexpected directed label %q", d.Nodes[0].FullLabel)
	}
	u := build(t, `{"a": ["b"]}`, Undirected)
	if u.Nodes[1].FullLabel != "b\nD:1" {
		t.Errorf("unexpected undirected label %q", u.Nodes[1].FullLabel)
	}
}

func TestEdgeIDCollision(t *testing.T) {
	g := build(t, `{"a-b": ["c"], "a": ["b-c"]}`, Directed)
	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(g.Edges))
	}
	if g.Edges[0].ID == g.Edges[1].ID {
		t.Errorf("expected unique ids, both are %q", g.Edges[0].ID)
	}
	e, ok := g.EdgeByID(g.Edges[1].ID)
	if !ok || e.Source != "a" {
		t.Errorf("EdgeByID returned %+v, %v", e, ok)
	}
}

func TestNeighborhoodHelpers(t *testing.T) {
	g := build(t, `{"a": ["b"], "c": ["a"]}`, Directed)

	if out := g.Outgoing("a"); len(out) != 1 || out[0].Target != "b" {
		t.Errorf("unexpected outgoing: %+v", out)
	}
	if inc := g.Incident("a"); len(inc) != 2 {
		t.Errorf("expected 2 incident edges, got %+v", inc)
	}
	if !g.HasNode("c") || g.HasNode("zz") {
		t.Error("HasNode mismatch")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"directed": Directed, "Undirected": Undirected, " u ": Undirected}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("sideways"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
