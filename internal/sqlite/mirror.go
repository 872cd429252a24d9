// Package sqlite keeps a SQLite mirror of an ngi tree for lookups and
// searches, and reads and writes records as JSONL. The ngi file stays the
// source of truth: the mirror is rebuilt from records on every Load.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// DBFile is the name of the mirror database inside the data directory.
const DBFile = "index.db"

// Mirror implements types.Index on SQLite.
type Mirror struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	log    *slog.Logger
	closed bool
}

var _ types.Index = (*Mirror)(nil)

// NewMirror opens a fresh mirror database in dataDir, creating the
// directory when needed. Any database left by an earlier run is removed.
// An empty dataDir keeps the mirror in memory. A nil logger discards.
func NewMirror(dataDir string, log *slog.Logger) (*Mirror, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dsn := ":memory:"
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		dsn = filepath.Join(dataDir, DBFile)
		_ = os.Remove(dsn)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dsn, err)
	}
	// One connection, so an in-memory database is shared by every query.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, ddl := range append(schemaDDL, indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	m := &Mirror{db: db, path: dsn, log: log.With("index", dsn)}
	m.log.Debug("index opened")
	return m, nil
}

// Path returns the database path, or ":memory:".
func (m *Mirror) Path() string { return m.path }

// Lookup returns the value of the first property called name in the first
// section called section, in file order.
func (m *Mirror) Lookup(section, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", types.ErrIndexClosed
	}

	var value string
	err := m.db.QueryRow(`SELECT p.value
FROM properties p JOIN sections s ON s.section_id = p.section_id
WHERE s.name = ? AND p.name = ?
ORDER BY s.ordinal, p.ordinal
LIMIT 1`, section, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s/%s: %w", section, name, types.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("looking up %s/%s: %w", section, name, err)
	}
	return value, nil
}

// Search returns the records whose section name, property name or value
// match pattern as a LIKE expression. Sections without properties match on
// their name alone.
func (m *Mirror) Search(pattern string) ([]types.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, types.ErrIndexClosed
	}

	rows, err := m.db.Query(`SELECT s.name, s.ordinal,
    COALESCE(p.name, ''), COALESCE(p.ordinal, -1), COALESCE(p.value, '')
FROM sections s LEFT JOIN properties p ON p.section_id = s.section_id
WHERE s.name LIKE ? OR p.name LIKE ? OR p.value LIKE ?
ORDER BY s.ordinal, COALESCE(p.ordinal, -1)`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", pattern, err)
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		var r types.Record
		if err := rows.Scan(&r.Section, &r.SectionIndex, &r.Name, &r.PropertyIndex, &r.Value); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching %q: %w", pattern, err)
	}
	return out, nil
}

// Counts returns the number of indexed sections and properties.
func (m *Mirror) Counts() (sections, properties int, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, 0, types.ErrIndexClosed
	}
	err = m.db.QueryRow(`SELECT (SELECT COUNT(*) FROM sections), (SELECT COUNT(*) FROM properties)`).
		Scan(&sections, &properties)
	if err != nil {
		return 0, 0, fmt.Errorf("counting rows: %w", err)
	}
	return sections, properties, nil
}

// Close closes the database. Close is idempotent.
func (m *Mirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	if err := m.db.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", m.path, err)
	}
	return nil
}

// newUUID generates a UUID v7 row id.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
