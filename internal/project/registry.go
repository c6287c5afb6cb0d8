// Package project tracks which project directory the agent is working
// in across tool calls. The registry is advisory: tools update it as a
// side effect of successful operations and hosts can read it back for
// orientation, but no file operation consults it for correctness.
package project

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Entry is one registered project.
type Entry struct {
	Name      string            `json:"name"`
	Path      string            `json:"path"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	UpdatedAt string            `json:"updated_at"`
}

// Config holds registry configuration.
type Config struct {
	// DataDir is where the registry database lives.
	DataDir string
}

// DefaultConfig stores the registry under ~/.taskdeck.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".taskdeck")}
}

// Registry is the persistent project registry backed by SQLite.
// Tool handlers run on real OS threads, so all access goes through a
// mutex; contention is rare and every update is a single statement.
type Registry struct {
	mu sync.Mutex
	db *sql.DB
}

// New opens (creating if needed) the registry database and runs the
// schema migration.
func New(cfg Config) (*Registry, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("project: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "projects.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("project: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("project: pragma %q: %w", p, err)
		}
	}

	r := &Registry{db: db}
	if err := r.migrate(); err != nil {
		return nil, fmt.Errorf("project: migration: %w", err)
	}
	return r, nil
}

// Close closes the underlying database connection.
func (r *Registry) Close() error {
	return r.db.Close()
}

func (r *Registry) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS projects (
			name       TEXT PRIMARY KEY,
			path       TEXT NOT NULL,
			metadata   TEXT NOT NULL DEFAULT '{}',
			updated_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS current_project (
			id   INTEGER PRIMARY KEY CHECK (id = 1),
			name TEXT NOT NULL
		);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Set upserts a project entry. Last writer wins.
func (r *Registry) Set(name, path string, metadata map[string]string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("project name must not be empty")
	}

	meta := "{}"
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		meta = string(data)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`
		INSERT INTO projects (name, path, metadata, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			path = excluded.path,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, name, path, meta, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving project %q: %w", name, err)
	}
	return nil
}

// Get returns a project entry by name, or nil if it is not registered.
func (r *Registry) Get(name string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(name)
}

func (r *Registry) getLocked(name string) (*Entry, error) {
	row := r.db.QueryRow(`SELECT name, path, metadata, updated_at FROM projects WHERE name = ?`, name)

	var e Entry
	var meta string
	if err := row.Scan(&e.Name, &e.Path, &meta, &e.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("loading project %q: %w", name, err)
	}
	if meta != "" && meta != "{}" {
		if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata for %q: %w", name, err)
		}
	}
	return &e, nil
}

// List returns all registered projects ordered by name.
func (r *Registry) List() ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT name, path, metadata, updated_at FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var meta string
		if err := rows.Scan(&e.Name, &e.Path, &meta, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		if meta != "" && meta != "{}" {
			_ = json.Unmarshal([]byte(meta), &e.Metadata)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SetCurrent marks name as the current project. The project must have
// been registered with Set first.
func (r *Registry) SetCurrent(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.getLocked(name)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("project %q is not registered", name)
	}

	_, err = r.db.Exec(`
		INSERT INTO current_project (id, name) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, name)
	if err != nil {
		return fmt.Errorf("setting current project: %w", err)
	}
	return nil
}

// Current returns the current project entry, or nil if none is set.
func (r *Registry) Current() (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.db.QueryRow(`SELECT name FROM current_project WHERE id = 1`)
	var name string
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("loading current project: %w", err)
	}
	return r.getLocked(name)
}

// toolDir is resolved once: the directory holding the running binary.
// Overridable for tests.
var toolDir = func() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}()

// IsToolDirectory reports whether path lies within the directory the
// running binary was launched from. Destructive tools consult this to
// refuse operating on the tool's own installation.
func IsToolDirectory(path string) bool {
	if toolDir == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(toolDir, abs)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
