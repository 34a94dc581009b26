package interact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/graph"
)

// ErrUnknownElement is returned when an event names a node or edge that is
// not in the current display graph.
var ErrUnknownElement = errors.New("unknown element")

// Filter is the standing highlight preference applied while nothing is focused.
type Filter string

const (
	FilterNone Filter = "none"
	FilterIn   Filter = "in"
	FilterOut  Filter = "out"
)

// ParseFilter accepts none, in/inFocus and out/outFocus.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FilterNone, nil
	case "in", "infocus":
		return FilterIn, nil
	case "out", "outfocus":
		return FilterOut, nil
	}
	return "", fmt.Errorf("unknown highlight filter %q (use none, in or out)", s)
}

// Phase is the controller's position in its state machine.
type Phase string

const (
	Idle        Phase = "idle"
	NodeFocused Phase = "nodeFocused"
	EdgeHover   Phase = "edgeHover"
)

// Decoration is the visual state of one element. Exactly one applies.
type Decoration string

const (
	Plain      Decoration = "plain"
	Dimmed     Decoration = "dimmed"
	Emphasized Decoration = "emphasized"
)

// State is the authoritative interaction state.
type State struct {
	Mode     display.Mode `json:"mode"`
	Filter   Filter       `json:"filter"`
	Phase    Phase        `json:"phase"`
	Selected graph.NodeID `json:"selected,omitempty"`
	Hovered  string       `json:"hovered,omitempty"`
}

// Decorations maps every node and edge of the current graph to its
// decoration. Nodes and edges have separate id spaces.
type Decorations struct {
	Nodes map[graph.NodeID]Decoration `json:"nodes"`
	Edges map[string]Decoration       `json:"edges"`
}

// Controller drives highlighting for one rendered graph. It is not safe for
// concurrent use; events are expected from a single loop.
type Controller struct {
	g     *display.Graph
	state State
	deco  Decorations
}

// New attaches a controller to g in the Idle phase with filter applied.
func New(g *display.Graph, filter Filter) *Controller {
	c := &Controller{state: State{Filter: filter}}
	c.Reset(g)
	return c
}

// Reset swaps in a rebuilt graph: Idle, nothing selected, filter reapplied.
func (c *Controller) Reset(g *display.Graph) {
	c.g = g
	c.state.Mode = g.Mode
	c.toIdle()
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// Graph returns the display graph the controller is attached to.
func (c *Controller) Graph() *display.Graph { return c.g }

// Decorations returns a copy of the current decorations.
func (c *Controller) Decorations() Decorations {
	out := Decorations{
		Nodes: make(map[graph.NodeID]Decoration, len(c.deco.Nodes)),
		Edges: make(map[string]Decoration, len(c.deco.Edges)),
	}
	for k, v := range c.deco.Nodes {
		out.Nodes[k] = v
	}
	for k, v := range c.deco.Edges {
		out.Edges[k] = v
	}
	return out
}

// TapNode focuses id from any phase. Directed mode emphasizes the node and
// its outgoing edges and successors; undirected mode its full neighborhood.
func (c *Controller) TapNode(id graph.NodeID) error {
	if !c.g.HasNode(id) {
		return fmt.Errorf("tap node %q: %w", id, ErrUnknownElement)
	}
	c.state.Phase = NodeFocused
	c.state.Selected = id
	c.state.Hovered = ""

	c.paintAll(Dimmed)
	c.deco.Nodes[id] = Emphasized

	edges := c.g.Incident(id)
	if c.g.Mode == display.Directed {
		edges = c.g.Outgoing(id)
	}
	for _, e := range edges {
		c.deco.Edges[e.ID] = Emphasized
		c.deco.Nodes[e.Source] = Emphasized
		c.deco.Nodes[e.Target] = Emphasized
	}
	return nil
}

// TapBackground clears any focus and reapplies the filter.
func (c *Controller) TapBackground() {
	c.toIdle()
}

// HoverEdge highlights an edge and its endpoints. It is a no-op while a
// node is focused.
func (c *Controller) HoverEdge(id string) error {
	if c.state.Phase == NodeFocused {
		return nil
	}
	e, ok := c.g.EdgeByID(id)
	if !ok {
		return fmt.Errorf("hover edge %q: %w", id, ErrUnknownElement)
	}
	c.state.Phase = EdgeHover
	c.state.Hovered = id

	c.paintAll(Dimmed)
	c.deco.Edges[e.ID] = Emphasized
	c.deco.Nodes[e.Source] = Emphasized
	c.deco.Nodes[e.Target] = Emphasized
	return nil
}

// UnhoverEdge returns to Idle unless a node is focused.
func (c *Controller) UnhoverEdge() {
	if c.state.Phase == NodeFocused {
		return
	}
	c.toIdle()
}

// SetFilter records f. The new filter shows immediately unless a node is
// focused, in which case it applies once focus clears.
func (c *Controller) SetFilter(f Filter) {
	c.state.Filter = f
	if c.state.Phase == NodeFocused {
		return
	}
	c.toIdle()
}

func (c *Controller) toIdle() {
	c.state.Phase = Idle
	c.state.Selected = ""
	c.state.Hovered = ""
	c.applyFilter()
}

// applyFilter paints the Idle decoration for the current filter.
func (c *Controller) applyFilter() {
	if c.state.Filter == FilterNone || c.state.Filter == "" {
		c.paintAll(Plain)
		return
	}
	c.paintAll(Dimmed)
	for _, n := range c.g.Nodes {
		if c.filterCount(n) > 0 {
			c.deco.Nodes[n.ID] = Emphasized
		}
	}
}

func (c *Controller) filterCount(n display.Node) int {
	if c.g.Mode == display.Undirected {
		return n.Total
	}
	if c.state.Filter == FilterIn {
		return n.InDeg
	}
	return n.OutDeg
}

func (c *Controller) paintAll(d Decoration) {
	c.deco.Nodes = make(map[graph.NodeID]Decoration, len(c.g.Nodes))
	c.deco.Edges = make(map[string]Decoration, len(c.g.Edges))
	for _, n := range c.g.Nodes {
		c.deco.Nodes[n.ID] = d
	}
	for _, e := range c.g.Edges {
		c.deco.Edges[e.ID] = d
	}
}
