package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with blognav's local state helpers.
type DB struct {
	*sql.DB
	mu   sync.RWMutex
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Each connection would get its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Path returns the database location.
func (d *DB) Path() string { return d.path }

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS index_builds (
    id TEXT PRIMARY KEY,
    built_at DATETIME NOT NULL,
    posts_dir TEXT NOT NULL,
    output TEXT NOT NULL,
    records INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_index_builds_built ON index_builds(built_at);
`

// Get returns the value stored under key.
func (d *DB) Get(key string) (string, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var v string
	err := d.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous value.
func (d *DB) Set(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := d.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (d *DB) Remove(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

// Build is one recorded index build.
type Build struct {
	ID       string
	BuiltAt  time.Time
	PostsDir string
	Output   string
	Records  int
}

// RecordBuild stores a completed index build and returns it with its id.
func (d *DB) RecordBuild(postsDir, output string, records int) (Build, error) {
	b := Build{
		ID:       uuid.NewString(),
		BuiltAt:  time.Now().UTC().Truncate(time.Second),
		PostsDir: postsDir,
		Output:   output,
		Records:  records,
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.Exec("INSERT INTO index_builds (id, built_at, posts_dir, output, records) VALUES (?, ?, ?, ?, ?)",
		b.ID, b.BuiltAt.Format(time.RFC3339), b.PostsDir, b.Output, b.Records)
	if err != nil {
		return Build{}, fmt.Errorf("recording build: %w", err)
	}
	return b, nil
}

// Builds returns up to limit recorded builds, newest first.
func (d *DB) Builds(limit int) ([]Build, error) {
	if limit <= 0 {
		limit = 10
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.Query("SELECT id, built_at, posts_dir, output, records FROM index_builds ORDER BY built_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}
	defer rows.Close()

	var out []Build
	for rows.Next() {
		var b Build
		var builtAt string
		if err := rows.Scan(&b.ID, &builtAt, &b.PostsDir, &b.Output, &b.Records); err != nil {
			return nil, fmt.Errorf("scanning build: %w", err)
		}
		t, err := time.Parse(time.RFC3339, builtAt)
		if err != nil {
			return nil, fmt.Errorf("parsing built_at of build %s: %w", b.ID, err)
		}
		b.BuiltAt = t
		out = append(out, b)
	}
	return out, rows.Err()
}
