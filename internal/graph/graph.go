package graph

import (
	"encoding/json"
	"math"
	"strings"
)

// NodeID identifies a node. Numeric inputs are stored in their text form,
// so 1 and "1" name the same node.
type NodeID string

// Edge is one source -> destination entry of the input, in input order.
type Edge struct {
	From   NodeID  `json:"from"`
	To     NodeID  `json:"to"`
	Weight float64 `json:"weight"`
}

// MarshalJSON writes non-finite weights as null.
func (e Edge) MarshalJSON() ([]byte, error) {
	type wire struct {
		From   NodeID   `json:"from"`
		To     NodeID   `json:"to"`
		Weight *float64 `json:"weight"`
	}
	w := wire{From: e.From, To: e.To}
	if !math.IsNaN(e.Weight) && !math.IsInf(e.Weight, 0) {
		w.Weight = &e.Weight
	}
	return json.Marshal(w)
}

// Canonical is the parsed graph: a deduplicated node list in first-seen
// order and the raw edge list, duplicates and self-loops included.
type Canonical struct {
	Nodes []NodeID `json:"nodes"`
	Edges []Edge   `json:"edges"`

	seen map[NodeID]struct{}
}

// New creates an empty graph.
func New() *Canonical {
	return &Canonical{
		Nodes: make([]NodeID, 0),
		Edges: make([]Edge, 0),
		seen:  make(map[NodeID]struct{}),
	}
}

// AddNode records id once, keeping first-seen order.
func (c *Canonical) AddNode(id NodeID) {
	if c.seen == nil {
		c.seen = make(map[NodeID]struct{}, len(c.Nodes))
		for _, n := range c.Nodes {
			c.seen[n] = struct{}{}
		}
	}
	if _, ok := c.seen[id]; ok {
		return
	}
	c.seen[id] = struct{}{}
	c.Nodes = append(c.Nodes, id)
}

// AddEdge appends an edge and registers both endpoints.
func (c *Canonical) AddEdge(from, to NodeID, weight float64) {
	c.AddNode(from)
	c.AddNode(to)
	c.Edges = append(c.Edges, Edge{From: from, To: to, Weight: weight})
}

// HasNode reports whether id is in the node set.
func (c *Canonical) HasNode(id NodeID) bool {
	for _, n := range c.Nodes {
		if n == id {
			return true
		}
	}
	return false
}

// Parse reads a dictionary-like adjacency description such as
//
//	{1: [2, (3, 0.5)], 'b': ["c"]}
//
// and returns its canonical graph. Empty input gives an empty graph. Any
// syntax problem, or a top level that is not a mapping, is a *ParseError.
func Parse(text string) (*Canonical, error) {
	text = strings.TrimSpace(text)
	c := New()
	if text == "" {
		return c, nil
	}

	doc, err := scan(text)
	if err != nil {
		return nil, err
	}
	if doc.kind != kindMap {
		return nil, &ParseError{Msg: "top-level value must be a mapping"}
	}

	for _, m := range doc.members {
		from := NodeID(m.key)
		c.AddNode(from)
		if m.val.kind != kindList {
			continue
		}
		for _, entry := range m.val.list {
			if entry.kind != kindList {
				c.AddEdge(from, NodeID(entry.text()), 1.0)
				continue
			}
			if len(entry.list) == 0 {
				continue
			}
			weight := math.NaN()
			if len(entry.list) > 1 {
				weight = weightOf(entry.list[1])
			}
			c.AddEdge(from, NodeID(entry.list[0].text()), weight)
		}
	}
	return c, nil
}
