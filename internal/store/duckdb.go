// Package store persists trace spans in DuckDB. Spans are grouped into
// named tracks; each track loads back as one sorted interval set, and
// materialized query results can be written back as regular tables for
// downstream SQL.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-trace/internal/interval"
	"github.com/inodb/vibe-trace/internal/table"
)

// Store manages a DuckDB connection holding trace spans.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS spans (
		track VARCHAR,
		id UINTEGER,
		ts UBIGINT,
		dur UBIGINT,
		PRIMARY KEY (track, id)
	)`)
	return err
}

// InsertSpans inserts intervals into a track, all or nothing.
func (s *Store) InsertSpans(track string, spans []interval.Interval) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO spans (track, id, ts, dur) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sp := range spans {
		if _, err := stmt.Exec(track, sp.ID, sp.Start, sp.End-sp.Start); err != nil {
			return fmt.Errorf("insert span %d: %w", sp.ID, err)
		}
	}
	return tx.Commit()
}

// LoadIntervals loads a track as a sorted interval set.
func (s *Store) LoadIntervals(track string) (interval.SortedIntervals, error) {
	rows, err := s.db.Query(`
		SELECT id, ts, dur
		FROM spans
		WHERE track = ?
		ORDER BY ts
	`, track)
	if err != nil {
		return nil, fmt.Errorf("query spans: %w", err)
	}
	defer rows.Close()

	var set interval.SortedIntervals
	for rows.Next() {
		var id uint32
		var ts, dur uint64
		if err := rows.Scan(&id, &ts, &dur); err != nil {
			return nil, fmt.Errorf("scan span: %w", err)
		}
		set = append(set, interval.Interval{Start: ts, End: ts + dur, ID: id})
	}
	return set, rows.Err()
}

// Tracks returns a sorted list of track names in the store.
func (s *Store) Tracks() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT track FROM spans ORDER BY track")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []string
	for rows.Next() {
		var track string
		if err := rows.Scan(&track); err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// SpanCount returns the number of spans in a track.
func (s *Store) SpanCount(track string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM spans WHERE track = ?", track).Scan(&count)
	return count, err
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// WriteTable persists a materialized result relation under name,
// replacing any previous table of that name. All or nothing.
func (s *Store) WriteTable(name string, t *table.Table) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	for _, col := range t.Columns() {
		if !identRe.MatchString(col) {
			return fmt.Errorf("invalid column name %q", col)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	cols := t.Columns()
	defs := make([]string, len(cols))
	for i, col := range cols {
		defs[i] = col + " BIGINT"
	}
	if _, err := tx.Exec("DROP TABLE IF EXISTS " + name); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for r := 0; r < t.RowCount(); r++ {
		for c := range cols {
			args[c] = t.Value(r, c)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %d: %w", r, err)
		}
	}
	return tx.Commit()
}
