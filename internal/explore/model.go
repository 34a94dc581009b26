package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/interact"
	"github.com/msalah0e/graphlens/internal/session"
)

// Pane is the part of the screen that receives keys.
type Pane int

const (
	PaneEditor Pane = iota
	PaneNodes
	PaneEdges
)

var filterCycle = []interact.Filter{interact.FilterNone, interact.FilterIn, interact.FilterOut}

// Model is the explorer's bubbletea model. It drives a session: the editor
// is re-parsed on every change, and the node and edge lists stand in for
// taps and hovers.
type Model struct {
	sess   *session.Session
	editor textarea.Model
	help   help.Model
	keys   KeyMap
	styles Styles

	pane       Pane
	nodeCursor int
	edgeCursor int
	dark       bool

	width    int
	height   int
	quitting bool
}

// New creates an explorer over sess, editing its current text.
func New(sess *session.Session, dark bool) Model {
	editor := textarea.New()
	editor.Placeholder = `{"a": ["b", "c"], "b": ["c"]}`
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetWidth(48)
	editor.SetHeight(8)
	editor.SetValue(sess.Text())
	editor.Focus()

	m := Model{
		sess:   sess,
		editor: editor,
		help:   help.New(),
		keys:   DefaultKeyMap,
		dark:   dark,
	}
	m.styles = m.palette()
	return m
}

// Run starts the explorer full screen and returns when the user quits.
func Run(sess *session.Session, dark bool) error {
	_, err := tea.NewProgram(New(sess, dark), tea.WithAltScreen()).Run()
	return err
}

func (m Model) palette() Styles {
	if m.dark {
		return DarkStyles()
	}
	return LightStyles()
}

// Session returns the driven session.
func (m Model) Session() *session.Session { return m.sess }

// Pane reports which pane has the keyboard.
func (m Model) Pane() Pane { return m.pane }

// Dark reports whether the dark palette is active.
func (m Model) Dark() bool { return m.dark }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if w := msg.Width/2 - 4; w > 20 {
			m.editor.SetWidth(w)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ForceQuit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			return m.nextPane(), nil
		case key.Matches(msg, m.keys.Clear):
			m.sess.TapBackground()
			return m, nil
		}
		if m.pane == PaneEditor {
			return m.updateEditor(msg)
		}
		return m.handleListKeys(msg)
	}

	if m.pane == PaneEditor {
		return m.updateEditor(msg)
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if text := m.editor.Value(); text != m.sess.Text() {
		// A failed parse leaves the last good graph and sets the status.
		_ = m.sess.Edit(text)
		m.clampCursors()
	}
	return m, cmd
}

func (m Model) nextPane() Model {
	if m.pane == PaneEdges {
		m.sess.UnhoverEdge()
	}
	m.pane = (m.pane + 1) % 3

	switch m.pane {
	case PaneEditor:
		m.editor.Focus()
	case PaneNodes:
		m.editor.Blur()
	case PaneEdges:
		m.hoverCurrent()
	}
	return m
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.sess.View().Graph

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.pane == PaneNodes && m.nodeCursor > 0 {
			m.nodeCursor--
		}
		if m.pane == PaneEdges && m.edgeCursor > 0 {
			m.edgeCursor--
			m.hoverCurrent()
		}

	case key.Matches(msg, m.keys.Down):
		if m.pane == PaneNodes && m.nodeCursor < len(g.Nodes)-1 {
			m.nodeCursor++
		}
		if m.pane == PaneEdges && m.edgeCursor < len(g.Edges)-1 {
			m.edgeCursor++
			m.hoverCurrent()
		}

	case key.Matches(msg, m.keys.Tap):
		if m.pane == PaneNodes && m.nodeCursor < len(g.Nodes) {
			_ = m.sess.TapNode(g.Nodes[m.nodeCursor].ID)
		}

	case key.Matches(msg, m.keys.Mode):
		next := display.Undirected
		if m.sess.Mode() == display.Undirected {
			next = display.Directed
		}
		_ = m.sess.SetMode(next)
		m.clampCursors()
		if m.pane == PaneEdges {
			m.hoverCurrent()
		}

	case key.Matches(msg, m.keys.Filter):
		m.sess.SetFilter(nextFilter(m.sess.View().State.Filter))

	case key.Matches(msg, m.keys.Dark):
		m.dark = !m.dark
		m.styles = m.palette()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) hoverCurrent() {
	edges := m.sess.View().Graph.Edges
	if m.edgeCursor < len(edges) {
		_ = m.sess.HoverEdge(edges[m.edgeCursor].ID)
	}
}

func (m *Model) clampCursors() {
	g := m.sess.View().Graph
	m.nodeCursor = clamp(m.nodeCursor, len(g.Nodes))
	m.edgeCursor = clamp(m.edgeCursor, len(g.Edges))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func nextFilter(f interact.Filter) interact.Filter {
	for i, c := range filterCycle {
		if c == f {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return interact.FilterNone
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	v := m.sess.View()
	s := m.styles

	header := s.Title.Render("◉ graphlens") + "  " + s.Subtle.Render(fmt.Sprintf(
		"%s · highlight %s · %s", v.Graph.Mode, v.State.Filter, v.State.Phase))

	editor := m.paneStyle(PaneEditor).Render(m.editor.View())
	lists := lipgloss.JoinVertical(lipgloss.Left,
		m.paneStyle(PaneNodes).Render(m.renderNodes(v)),
		m.paneStyle(PaneEdges).Render(m.renderEdges(v)),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, editor, " ", lists)

	status := s.Subtle.Render(fmt.Sprintf("%d nodes, %d edges", len(v.Graph.Nodes), len(v.Graph.Edges)))
	if v.Status != "" {
		status = s.Error.Render(v.Status)
		if err := m.sess.LastError(); err != nil {
			status += "\n" + s.Subtle.Render(err.Error())
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, m.help.View(m.keys)) + "\n"
}

func (m Model) paneStyle(p Pane) lipgloss.Style {
	if m.pane == p {
		return m.styles.ActivePane
	}
	return m.styles.Pane
}

func (m Model) renderNodes(v session.View) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Nodes"))
	if len(v.Graph.Nodes) == 0 {
		b.WriteString("\n" + m.styles.Subtle.Render("(empty)"))
	}
	for i, n := range v.Graph.Nodes {
		label := strings.ReplaceAll(n.FullLabel, "\n", "  ")
		b.WriteString("\n" + m.cursor(PaneNodes, i == m.nodeCursor))
		b.WriteString(m.styles.For(v.Decorations.Nodes[n.ID]).Render(label))
	}
	return b.String()
}

func (m Model) renderEdges(v session.View) string {
	arrow := "→"
	if v.Graph.Mode == display.Undirected {
		arrow = "—"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Edges"))
	if len(v.Graph.Edges) == 0 {
		b.WriteString("\n" + m.styles.Subtle.Render("(none)"))
	}
	for i, e := range v.Graph.Edges {
		line := fmt.Sprintf("%s %s %s", e.Source, arrow, e.Target)
		b.WriteString("\n" + m.cursor(PaneEdges, i == m.edgeCursor))
		b.WriteString(m.styles.For(v.Decorations.Edges[e.ID]).Render(line))
	}
	return b.String()
}

func (m Model) cursor(p Pane, at bool) string {
	if at && m.pane == p {
		return m.styles.Cursor.Render("▸ ")
	}
	return "  "
}
