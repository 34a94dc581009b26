package session

import (
	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/graph"
	"github.com/msalah0e/graphlens/internal/interact"
)

// StatusParseError is the status shown while the input does not parse.
const StatusParseError = "Parser Error: Ensure valid dictionary format."

// View is everything a renderer needs after an event.
type View struct {
	Status      string               `json:"status"`
	Graph       *display.Graph       `json:"graph"`
	State       interact.State       `json:"state"`
	Decorations interact.Decorations `json:"decorations"`
}

// Session owns one editing surface: the input text, the last good graph
// and the interaction controller attached to it. It is not safe for
// concurrent use.
type Session struct {
	text      string
	mode      display.Mode
	status    string
	lastErr   error
	canonical *graph.Canonical
	ctl       *interact.Controller

	// OnRebuild, if set, runs after every successful rebuild.
	OnRebuild func(text string, c *graph.Canonical)
}

// New starts a session on an empty graph.
func New(mode display.Mode, filter interact.Filter) *Session {
	c := graph.New()
	return &Session{
		mode:      mode,
		canonical: c,
		ctl:       interact.New(display.Build(c, mode), filter),
	}
}

// Edit replaces the input text and rebuilds. On a parse failure the
// previous graph and interaction state stay as they were and the status
// message is set; the returned error carries the details.
func (s *Session) Edit(text string) error {
	s.text = text
	return s.rebuild()
}

// SetMode switches between directed and undirected and rebuilds from the
// current text.
func (s *Session) SetMode(m display.Mode) error {
	s.mode = m
	return s.rebuild()
}

func (s *Session) rebuild() error {
	c, err := graph.Parse(s.text)
	if err != nil {
		s.status = StatusParseError
		s.lastErr = err
		return err
	}
	s.canonical = c
	s.ctl.Reset(display.Build(c, s.mode))
	s.status = ""
	s.lastErr = nil
	if s.OnRebuild != nil {
		s.OnRebuild(s.text, c)
	}
	return nil
}

// SetFilter changes the highlight filter.
func (s *Session) SetFilter(f interact.Filter) { s.ctl.SetFilter(f) }

// TapNode focuses a node.
func (s *Session) TapNode(id graph.NodeID) error { return s.ctl.TapNode(id) }

// TapBackground clears focus.
func (s *Session) TapBackground() { s.ctl.TapBackground() }

// HoverEdge highlights an edge while nothing is focused.
func (s *Session) HoverEdge(id string) error { return s.ctl.HoverEdge(id) }

// UnhoverEdge ends an edge hover.
func (s *Session) UnhoverEdge() { s.ctl.UnhoverEdge() }

func (s *Session) Text() string { return s.text }
func (s *Session) Mode() display.Mode { return s.mode }
func (s *Session) Status() string { return s.status }
func (s *Session) LastError() error { return s.lastErr }
func (s *Session) Canonical() *graph.Canonical { return s.canonical }
func (s *Session) Controller() *interact.Controller { return s.ctl }

// View snapshots the rendered state.
func (s *Session) View() View {
	return View{
		Status:      s.status,
		Graph:       s.ctl.Graph(),
		State:       s.ctl.State(),
		Decorations: s.ctl.Decorations(),
	}
}
