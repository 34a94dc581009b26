package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/msalah0e/graphlens/internal/graph"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source     TEXT    NOT NULL,
	text       TEXT    NOT NULL,
	nodes      INTEGER NOT NULL,
	edges      INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_source ON snapshots(source, id);
`

// Snapshot is one successfully parsed input text.
type Snapshot struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the SQLite snapshot history.
type Store struct {
	conn *sql.DB
	Path string
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{conn: conn, Path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Record saves text as the latest good input for source. Re-recording the
// text already on top is a no-op and reports false.
func (s *Store) Record(source, text string, c *graph.Canonical) (bool, error) {
	latest, err := s.Latest(source)
	if err != nil {
		return false, err
	}
	if latest != nil && latest.Text == text {
		return false, nil
	}

	_, err = s.conn.Exec(
		`INSERT INTO snapshots (source, text, nodes, edges, created_at) VALUES (?, ?, ?, ?, ?)`,
		source, text, len(c.Nodes), len(c.Edges), time.Now().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("recording snapshot: %w", err)
	}
	return true, nil
}

// Latest returns the newest snapshot for source, or nil if there is none.
func (s *Store) Latest(source string) (*Snapshot, error) {
	row := s.conn.QueryRow(`
		SELECT id, source, text, nodes, edges, created_at
		FROM snapshots WHERE source = ? ORDER BY id DESC LIMIT 1
	`, source)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// List returns up to limit snapshots, newest first. An empty source lists
// every source; limit <= 0 means no limit.
func (s *Store) List(source string, limit int) ([]Snapshot, error) {
	query := `SELECT id, source, text, nodes, edges, created_at FROM snapshots`
	var args []any
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Prune keeps only the newest keep snapshots per source.
func (s *Store) Prune(keep int) (int64, error) {
	res, err := s.conn.Exec(`
		DELETE FROM snapshots WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY source ORDER BY id DESC) AS rn
				FROM snapshots
			) WHERE rn > ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return res.RowsAffected()
}

func scanSnapshot(scanner interface{ Scan(dest ...any) error }) (Snapshot, error) {
	var snap Snapshot
	var created int64
	err := scanner.Scan(&snap.ID, &snap.Source, &snap.Text, &snap.Nodes, &snap.Edges, &created)
	snap.CreatedAt = time.UnixMilli(created)
	return snap, err
}
