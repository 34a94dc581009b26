package explore

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/interact"
	"github.com/msalah0e/graphlens/internal/session"
)

const sample = `{"a": ["b", "c"], "b": ["c"], "d": []}`

func newModel(t *testing.T) Model {
	t.Helper()
	sess := session.New(display.Directed, interact.FilterNone)
	if err := sess.Edit(sample); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	return New(sess, false)
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestTabCyclesPanes(t *testing.T) {
	m := newModel(t)
	if m.Pane() != PaneEditor {
		t.Fatalf("expected editor pane first, got %v", m.Pane())
	}
	m = press(m, tab)
	if m.Pane() != PaneNodes {
		t.Errorf("expected nodes pane, got %v", m.Pane())
	}
	m = press(m, tab, tab)
	if m.Pane() != PaneEditor {
		t.Errorf("expected wrap to editor, got %v", m.Pane())
	}
}

func TestTapNodeFromList(t *testing.T) {
	m := press(newModel(t), tab, down, enter)

	st := m.Session().View().State
	if st.Phase != interact.NodeFocused || st.Selected != "b" {
		t.Fatalf("expected b focused, got %+v", st)
	}

	m = press(m, esc)
	if m.Session().View().State.Phase != interact.Idle {
		t.Error("esc should clear focus")
	}
}

func TestEdgePaneHovers(t *testing.T) {
	m := press(newModel(t), tab, tab)

	st := m.Session().View().State
	if st.Phase != interact.EdgeHover || st.Hovered != "e-a-b" {
		t.Fatalf("expected first edge hovered, got %+v", st)
	}

	m = press(m, down)
	if got := m.Session().View().State.Hovered; got != "e-a-c" {
		t.Errorf("expected hover to follow cursor, got %q", got)
	}

	m = press(m, tab)
	if m.Session().View().State.Phase != interact.Idle {
		t.Error("leaving edge pane should end the hover")
	}
}

func TestModeFilterAndDarkKeys(t *testing.T) {
	m := press(newModel(t), tab, runes("m"))
	if m.Session().Mode() != display.Undirected {
		t.Errorf("expected undirected, got %s", m.Session().Mode())
	}

	m = press(m, runes("f"))
	if f := m.Session().View().State.Filter; f != interact.FilterIn {
		t.Errorf("expected in filter, got %s", f)
	}
	m = press(m, runes("f"), runes("f"))
	if f := m.Session().View().State.Filter; f != interact.FilterNone {
		t.Errorf("expected filter to wrap to none, got %s", f)
	}

	m = press(m, runes("d"))
	if !m.Dark() {
		t.Error("expected dark mode on")
	}
}

func TestLettersTypeInEditor(t *testing.T) {
	m := press(newModel(t), runes("m"))
	if m.Session().Mode() != display.Directed {
		t.Error("letter keys in the editor must not toggle mode")
	}
	if m.Session().Status() != session.StatusParseError {
		t.Errorf("expected parse error status after typing, got %q", m.Session().Status())
	}
	if len(m.Session().View().Graph.Nodes) != 4 {
		t.Error("last good graph should stay visible")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.Session().Status() != "" {
		t.Errorf("expected status cleared, got %q", m.Session().Status())
	}
}

func TestViewRenders(t *testing.T) {
	m := press(newModel(t), tab, enter)
	out := m.View()

	for _, want := range []string{"graphlens", "Nodes", "Edges", "a → b", "nodeFocused"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m := press(newModel(t), tab)
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.(Model).View() != "" {
		t.Error("expected empty view after quit")
	}
}
