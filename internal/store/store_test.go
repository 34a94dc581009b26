package store

import (
	"path/filepath"
	"testing"

	"github.com/msalah0e/graphlens/internal/graph"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func canonical(t *testing.T, text string) *graph.Canonical {
	t.Helper()
	c, err := graph.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return c
}

func TestRecordAndLatest(t *testing.T) {
	s := openTestStore(t)

	latest, err := s.Latest("flows.txt")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected no snapshot, got %+v", latest)
	}

	text := `{"a": ["b", "c"]}`
	added, err := s.Record("flows.txt", text, canonical(t, text))
	if err != nil || !added {
		t.Fatalf("Record = %v, %v", added, err)
	}

	latest, err = s.Latest("flows.txt")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.Text != text || latest.Nodes != 3 || latest.Edges != 2 {
		t.Errorf("unexpected snapshot %+v", latest)
	}
	if latest.CreatedAt.IsZero() {
		t.Error("expected created_at set")
	}
}

func TestRecordSkipsUnchangedText(t *testing.T) {
	s := openTestStore(t)
	text := `{"a": []}`

	s.Record("x", text, canonical(t, text))
	added, err := s.Record("x", text, canonical(t, text))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if added {
		t.Error("expected duplicate text to be skipped")
	}

	all, _ := s.List("x", 0)
	if len(all) != 1 {
		t.Errorf("expected 1 snapshot, got %d", len(all))
	}
}

func TestListAndPrune(t *testing.T) {
	s := openTestStore(t)
	for _, text := range []string{`{"a": []}`, `{"a": ["b"]}`, `{"a": ["b", "c"]}`} {
		s.Record("one", text, canonical(t, text))
	}
	s.Record("two", `{}`, canonical(t, `{}`))

	all, err := s.List("", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(all))
	}
	if all[0].Source != "two" {
		t.Errorf("expected newest first, got %+v", all[0])
	}

	limited, _ := s.List("one", 2)
	if len(limited) != 2 || limited[0].Edges != 2 {
		t.Errorf("unexpected limited list %+v", limited)
	}

	removed, err := s.Prune(1)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 pruned, got %d", removed)
	}
	left, _ := s.List("one", 0)
	if len(left) != 1 || left[0].Edges != 2 {
		t.Errorf("expected newest snapshot kept, got %+v", left)
	}
}
