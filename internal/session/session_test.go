package session

import (
	"errors"
	"testing"

	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/graph"
	"github.com/msalah0e/graphlens/internal/interact"
)

func TestEditSuccessClearsStatus(t *testing.T) {
	s := New(display.Directed, interact.FilterNone)

	if err := s.Edit(`{"a": [`); err == nil {
		t.Fatal("expected parse error")
	}
	if s.Status() != StatusParseError {
		t.Errorf("expected status %q, got %q", StatusParseError, s.Status())
	}

	if err := s.Edit(`{"a": ["b"]}`); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if s.Status() != "" {
		t.Errorf("expected cleared status, got %q", s.Status())
	}
	if got := len(s.View().Graph.Edges); got != 1 {
		t.Errorf("expected 1 edge, got %d", got)
	}
}

func TestFailedEditKeepsLastGraph(t *testing.T) {
	s := New(display.Directed, interact.FilterNone)
	s.Edit(`{"a": ["b", "c"]}`)
	s.TapNode("a")
	before := s.View()

	err := s.Edit(`{"a": ["b", `)
	if !errors.Is(err, graph.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if !errors.Is(s.LastError(), graph.ErrParse) {
		t.Errorf("expected LastError to hold the parse error")
	}

	after := s.View()
	if after.Graph != before.Graph {
		t.Error("expected display graph untouched")
	}
	if after.State != before.State {
		t.Errorf("expected state untouched, got %+v", after.State)
	}
	if len(s.Canonical().Nodes) != 3 {
		t.Errorf("expected last good canonical graph, got %v", s.Canonical().Nodes)
	}
	if s.Text() != `{"a": ["b", ` {
		t.Errorf("expected text to track the input, got %q", s.Text())
	}
}

func TestRebuildResetsFocusKeepsFilter(t *testing.T) {
	s := New(display.Directed, interact.FilterIn)
	s.Edit(`{"a": ["b"]}`)
	s.TapNode("a")

	s.Edit(`{"a": ["b"], "b": ["c"]}`)
	st := s.View().State
	if st.Phase != interact.Idle || st.Selected != "" {
		t.Errorf("expected idle after rebuild, got %+v", st)
	}
	if st.Filter != interact.FilterIn {
		t.Errorf("expected filter kept, got %s", st.Filter)
	}
	if s.View().Decorations.Nodes["c"] != interact.Emphasized {
		t.Error("expected filter reapplied to the new graph")
	}
}

func TestSetModeRebuilds(t *testing.T) {
	s := New(display.Directed, interact.FilterNone)
	s.Edit(`{"a": ["b"], "b": ["a"]}`)
	if got := len(s.View().Graph.Edges); got != 2 {
		t.Fatalf("expected 2 directed edges, got %d", got)
	}

	if err := s.SetMode(display.Undirected); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	v := s.View()
	if len(v.Graph.Edges) != 1 || v.State.Mode != display.Undirected {
		t.Errorf("expected 1 undirected edge, got %+v", v.Graph.Edges)
	}
}

func TestOnRebuildHook(t *testing.T) {
	s := New(display.Directed, interact.FilterNone)
	var calls int
	s.OnRebuild = func(text string, c *graph.Canonical) { calls++ }

	s.Edit(`{"a": []}`)
	s.Edit(`{"a": [`)
	s.SetMode(display.Undirected)

	if calls != 1 {
		t.Errorf("expected 1 successful rebuild, got %d", calls)
	}
}

func TestEventsDelegate(t *testing.T) {
	s := New(display.Undirected, interact.FilterNone)
	s.Edit(`{"a": ["b"]}`)

	if err := s.HoverEdge("e-a-b"); err != nil {
		t.Fatalf("HoverEdge failed: %v", err)
	}
	if s.View().State.Phase != interact.EdgeHover {
		t.Error("expected edge hover")
	}
	s.UnhoverEdge()
	s.SetFilter(interact.FilterOut)
	if s.View().Decorations.Nodes["a"] != interact.Emphasized {
		t.Error("expected filter applied")
	}
	if err := s.TapNode("missing"); !errors.Is(err, interact.ErrUnknownElement) {
		t.Errorf("expected ErrUnknownElement, got %v", err)
	}
	s.TapBackground()
	if s.Controller().State().Phase != interact.Idle {
		t.Error("expected idle")
	}
}
