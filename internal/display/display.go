package display

import (
	"fmt"
	"strings"

	"github.com/msalah0e/graphlens/internal/graph"
)

// Mode selects how canonical edges are interpreted.
type Mode string

const (
	Directed   Mode = "directed"
	Undirected Mode = "undirected"
)

// ParseMode accepts "directed" or "undirected" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "directed", "d":
		return Directed, nil
	case "undirected", "u":
		return Undirected, nil
	}
	return "", fmt.Errorf("unknown mode %q (use directed or undirected)", s)
}

// Degree holds per-node edge counts. Directed mode fills In and Out,
// undirected mode fills Total.
type Degree struct {
	In    int `json:"in"`
	Out   int `json:"out"`
	Total int `json:"total"`
}

// Node is a node as handed to a renderer.
type Node struct {
	ID        graph.NodeID `json:"id" yaml:"id"`
	InDeg     int          `json:"inDeg" yaml:"in_deg"`
	OutDeg    int          `json:"outDeg" yaml:"out_deg"`
	Total     int          `json:"total" yaml:"total"`
	FullLabel string       `json:"fullLabel" yaml:"full_label"`
}

// Edge is a deduplicated, mode-resolved edge.
type Edge struct {
	ID     string       `json:"id" yaml:"id"`
	Source graph.NodeID `json:"source" yaml:"source"`
	Target graph.NodeID `json:"target" yaml:"target"`
	Mode   Mode         `json:"mode" yaml:"mode"`
}

// Graph is the display model derived from a canonical graph and a mode.
type Graph struct {
	Mode  Mode   `json:"mode" yaml:"mode"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`

	degrees map[graph.NodeID]*Degree
	edgeIdx map[string]int
}

type pairKey struct {
	a, b graph.NodeID
}

// Build deduplicates c's edges for mode and computes degree statistics.
// Undirected mode keeps the first edge per unordered pair; directed mode
// keeps one edge per ordered pair. Degrees count only the kept edges.
func Build(c *graph.Canonical, mode Mode) *Graph {
	g := &Graph{
		Mode:    mode,
		Nodes:   make([]Node, 0, len(c.Nodes)),
		Edges:   make([]Edge, 0, len(c.Edges)),
		degrees: make(map[graph.NodeID]*Degree, len(c.Nodes)),
		edgeIdx: make(map[string]int, len(c.Edges)),
	}

	pairs := make(map[pairKey]int, len(c.Edges))
	for _, e := range c.Edges {
		key := pairKey{e.From, e.To}
		if mode == Undirected && key.b < key.a {
			key.a, key.b = key.b, key.a
		}

		if i, ok := pairs[key]; ok {
			if mode == Directed {
				// Same ordered pair: refresh data, keep the slot.
				g.Edges[i].Source, g.Edges[i].Target = e.From, e.To
			}
			continue
		}

		edge := Edge{
			ID:     g.uniqueID("e-" + string(key.a) + "-" + string(key.b)),
			Source: e.From,
			Target: e.To,
			Mode:   mode,
		}
		pairs[key] = len(g.Edges)
		g.edgeIdx[edge.ID] = len(g.Edges)
		g.Edges = append(g.Edges, edge)
	}

	for _, id := range c.Nodes {
		g.degrees[id] = &Degree{}
	}
	for _, e := range g.Edges {
		if mode == Undirected {
			g.degree(e.Source).Total++
			g.degree(e.Target).Total++
		} else {
			g.degree(e.Source).Out++
			g.degree(e.Target).In++
		}
	}

	for _, id := range c.Nodes {
		d := g.degrees[id]
		g.Nodes = append(g.Nodes, Node{
			ID:        id,
			InDeg:     d.In,
			OutDeg:    d.Out,
			Total:     d.Total,
			FullLabel: Label(id, *d, mode),
		})
	}
	return g
}

// uniqueID suffixes id when a different pair already rendered the same text,
// e.g. ("a-b","c") and ("a","b-c").
func (g *Graph) uniqueID(id string) string {
	if _, taken := g.edgeIdx[id]; !taken {
		return id
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s#%d", id, n)
		if _, taken := g.edgeIdx[candidate]; !taken {
			return candidate
		}
	}
}

func (g *Graph) degree(id graph.NodeID) *Degree {
	d, ok := g.degrees[id]
	if !ok {
		d = &Degree{}
		g.degrees[id] = d
	}
	return d
}

// Label is the presentational node caption for mode.
func Label(id graph.NodeID, d Degree, mode Mode) string {
	if mode == Directed {
		return fmt.Sprintf("%s\nI:%d O:%d", id, d.In, d.Out)
	}
	return fmt.Sprintf("%s\nD:%d", id, d.Total)
}

// Degree returns the statistics for id.
func (g *Graph) Degree(id graph.NodeID) (Degree, bool) {
	d, ok := g.degrees[id]
	if !ok {
		return Degree{}, false
	}
	return *d, true
}

// HasNode reports whether id is part of the graph.
func (g *Graph) HasNode(id graph.NodeID) bool {
	_, ok := g.degrees[id]
	return ok
}

// EdgeByID looks up an edge by its id.
func (g *Graph) EdgeByID(id string) (Edge, bool) {
	i, ok := g.edgeIdx[id]
	if !ok {
		return Edge{}, false
	}
	return g.Edges[i], true
}

// Outgoing returns edges whose source is id.
func (g *Graph) Outgoing(id graph.NodeID) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Incident returns every edge touching id.
func (g *Graph) Incident(id graph.NodeID) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id || e.Target == id {
			out = append(out, e)
		}
	}
	return out
}
