package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/graph"
	"github.com/msalah0e/graphlens/internal/interact"
	"gopkg.in/yaml.v3"
)

// Formats lists the supported export formats.
var Formats = []string{"table", "json", "yaml", "dot", "html"}

// Document is the serialized form of one build.
type Document struct {
	Mode      display.Mode                    `json:"mode" yaml:"mode"`
	Canonical *graph.Canonical                `json:"canonical" yaml:"canonical"`
	Display   *display.Graph                  `json:"display" yaml:"display"`
	Degrees   map[graph.NodeID]display.Degree `json:"degrees" yaml:"degrees"`
}

// NewDocument bundles a canonical graph with its display model.
func NewDocument(c *graph.Canonical, g *display.Graph) *Document {
	degrees := make(map[graph.NodeID]display.Degree, len(g.Nodes))
	for _, n := range g.Nodes {
		d, _ := g.Degree(n.ID)
		degrees[n.ID] = d
	}
	return &Document{Mode: g.Mode, Canonical: c, Display: g, Degrees: degrees}
}

// JSON returns the document as pretty-printed JSON.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML returns the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// DOT returns the display graph in Graphviz DOT format. Decorations, when
// given, color emphasized elements and gray out dimmed ones.
func DOT(g *display.Graph, deco *interact.Decorations) string {
	kind, arrow := "digraph", "->"
	if g.Mode == display.Undirected {
		kind, arrow = "graph", "--"
	}

	var b strings.Builder
	b.WriteString(kind + " graphlens {\n")
	b.WriteString("  layout=neato;\n")
	b.WriteString("  node [shape=circle, style=filled, fillcolor=\"#007aff\", fontcolor=white, fontsize=9];\n")
	b.WriteString("  edge [color=\"#888888\"];\n\n")

	for _, n := range g.Nodes {
		attrs := fmt.Sprintf("label=%q", n.FullLabel)
		if deco != nil {
			attrs += nodeStyle(deco.Nodes[n.ID])
		}
		b.WriteString(fmt.Sprintf("  %q [%s];\n", string(n.ID), attrs))
	}

	b.WriteString("\n")
	for _, e := range g.Edges {
		attrs := fmt.Sprintf("id=%q", e.ID)
		if deco != nil {
			attrs += edgeStyle(deco.Edges[e.ID])
		}
		b.WriteString(fmt.Sprintf("  %q %s %q [%s];\n", string(e.Source), arrow, string(e.Target), attrs))
	}

	b.WriteString("}\n")
	return b.String()
}

func nodeStyle(d interact.Decoration) string {
	switch d {
	case interact.Emphasized:
		return `, fillcolor="#ff9500"`
	case interact.Dimmed:
		return `, fillcolor="#007aff26", fontcolor="#ffffff26"`
	}
	return ""
}

func edgeStyle(d interact.Decoration) string {
	switch d {
	case interact.Emphasized:
		return `, color="#ff9500"`
	case interact.Dimmed:
		return `, color="#88888826"`
	}
	return ""
}

// Rows renders the display graph as table rows: one per node, sorted by
// total degree descending and then id.
func Rows(g *display.Graph, deco *interact.Decorations) [][]string {
	nodes := make([]display.Node, len(g.Nodes))
	copy(nodes, g.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		di := nodes[i].InDeg + nodes[i].OutDeg + nodes[i].Total
		dj := nodes[j].InDeg + nodes[j].OutDeg + nodes[j].Total
		if di != dj {
			return di > dj
		}
		return nodes[i].ID < nodes[j].ID
	})

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		state := string(interact.Plain)
		if deco != nil {
			state = string(deco.Nodes[n.ID])
		}
		if g.Mode == display.Directed {
			rows = append(rows, []string{string(n.ID), fmt.Sprintf("%d", n.InDeg), fmt.Sprintf("%d", n.OutDeg), state})
		} else {
			rows = append(rows, []string{string(n.ID), fmt.Sprintf("%d", n.Total), state})
		}
	}
	return rows
}

// Headers matches Rows for the graph's mode.
func Headers(mode display.Mode) []string {
	if mode == display.Directed {
		return []string{"Node", "In", "Out", "State"}
	}
	return []string{"Node", "Degree", "State"}
}
