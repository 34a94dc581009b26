package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/msalah0e/graphlens/internal/config"
	"github.com/msalah0e/graphlens/internal/display"
	"github.com/msalah0e/graphlens/internal/interact"
	"github.com/msalah0e/graphlens/internal/session"
	"github.com/msalah0e/graphlens/internal/store"
)

func withConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	cfg = config.Default()
	t.Cleanup(func() { cfg = prev })
}

func TestViewFlagsResolve(t *testing.T) {
	withConfig(t)

	mode, filter, err := (&viewFlags{}).resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if mode != display.Directed || filter != interact.FilterNone {
		t.Errorf("expected config defaults, got %s/%s", mode, filter)
	}

	mode, filter, err = (&viewFlags{mode: "u", filter: "outFocus"}).resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if mode != display.Undirected || filter != interact.FilterOut {
		t.Errorf("expected flags to win, got %s/%s", mode, filter)
	}

	if _, _, err := (&viewFlags{mode: "sideways"}).resolve(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	os.WriteFile(good, []byte(`{"a": ["b", "c"]}`), 0o644)
	os.WriteFile(bad, []byte(`{"a": [}`), 0o644)

	summary, err := checkFile(good)
	if err != nil {
		t.Fatalf("checkFile failed: %v", err)
	}
	if summary != "3 nodes, 2 edges" {
		t.Errorf("unexpected summary %q", summary)
	}

	if _, err := checkFile(bad); err == nil {
		t.Error("expected parse error")
	}
	if _, err := checkFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected read error")
	}

	tasks := checkTasks([]string{good, bad})
	if len(tasks) != 2 || tasks[1].Name != bad {
		t.Errorf("unexpected tasks %+v", tasks)
	}
}

func TestRenderFormats(t *testing.T) {
	withConfig(t)
	sess := session.New(display.Directed, interact.FilterNone)
	if err := sess.Edit(`{"a": ["b"]}`); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	for format, want := range map[string]string{
		"json": `"mode": "directed"`,
		"yaml": "mode: directed",
		"dot":  `"a" -> "b"`,
		"html": "<!DOCTYPE html>",
	} {
		out, err := render(sess, format, "g.txt")
		if err != nil {
			t.Errorf("%s: %v", format, err)
			continue
		}
		if !strings.Contains(out, want) {
			t.Errorf("%s: expected %q in output", format, want)
		}
	}

	if _, err := render(sess, "png", "g.txt"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSeedSessionFallsBackToHistory(t *testing.T) {
	withConfig(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "flows.txt")

	hist, err := store.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	defer hist.Close()

	os.WriteFile(path, []byte(`{"a": ["b"]}`), 0o644)
	sess, err := seedSession(display.Directed, interact.FilterNone, path, hist)
	if err != nil {
		t.Fatalf("seedSession failed: %v", err)
	}
	if len(sess.Canonical().Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(sess.Canonical().Nodes))
	}
	if last, _ := hist.Latest(sourceKey(path)); last == nil {
		t.Fatal("expected good text recorded")
	}

	os.WriteFile(path, []byte(`{"a": [`), 0o644)
	sess, err = seedSession(display.Directed, interact.FilterNone, path, hist)
	if err != nil {
		t.Fatalf("seedSession failed: %v", err)
	}
	if sess.Status() != session.StatusParseError {
		t.Errorf("expected parse error status, got %q", sess.Status())
	}
	if sess.Text() != `{"a": [` {
		t.Errorf("expected editor to hold the file text, got %q", sess.Text())
	}
	if len(sess.View().Graph.Nodes) != 2 {
		t.Error("expected last good graph from history")
	}
}

func TestSeedSessionWithoutFile(t *testing.T) {
	sess, err := seedSession(display.Undirected, interact.FilterIn, "", nil)
	if err != nil {
		t.Fatalf("seedSession failed: %v", err)
	}
	if sess.Mode() != display.Undirected || len(sess.Canonical().Nodes) != 0 {
		t.Error("expected empty undirected session")
	}
}

func TestSourceKeyAndDisplayName(t *testing.T) {
	if sourceKey("-") != "stdin" || displayName("") != "stdin" {
		t.Error("expected stdin naming")
	}
	if !filepath.IsAbs(sourceKey("flows.txt")) {
		t.Error("expected absolute source key")
	}
	if displayName("/a/b/flows.txt") != "flows.txt" {
		t.Error("expected base name")
	}
}

func TestFormatAge(t *testing.T) {
	cases := map[time.Duration]string{
		10 * time.Second: "just now",
		5 * time.Minute:  "5m ago",
		3 * time.Hour:    "3h ago",
		50 * time.Hour:   "2d ago",
	}
	for d, want := range cases {
		if got := formatAge(d); got != want {
			t.Errorf("formatAge(%v) = %q, want %q", d, got, want)
		}
	}
}
