// ABOUTME: Database connection management and initialization
// ABOUTME: Opens SQLite in WAL mode and provides a lazily opened shared handle
package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

func OpenDatabase(path string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// Configure connection pool for SQLite (avoid database locked errors)
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// openCall is one in-flight open shared by every caller that arrives while
// it runs.
type openCall struct {
	done chan struct{}
	db   *sql.DB
	err  error
}

// Handle is the process-wide storage handle. It is built once at startup and
// passed to whatever needs storage; the database itself is opened on first
// use. Concurrent first callers share a single open, and a failed open is not
// remembered so the next caller retries.
type Handle struct {
	path   string
	opener func(string) (*sql.DB, error)

	mu      sync.Mutex
	db      *sql.DB
	pending *openCall
}

func NewHandle(path string) *Handle {
	return &Handle{path: path, opener: OpenDatabase}
}

func (h *Handle) Path() string {
	return h.path
}

// DB returns the open database, opening it if needed. A caller whose ctx ends
// while an open is in flight gets ctx.Err(); the open itself keeps going.
func (h *Handle) DB(ctx context.Context) (*sql.DB, error) {
	h.mu.Lock()
	if h.db != nil {
		db := h.db
		h.mu.Unlock()
		return db, nil
	}
	call := h.pending
	if call == nil {
		call = &openCall{done: make(chan struct{})}
		h.pending = call
		go h.open(call)
	}
	h.mu.Unlock()

	select {
	case <-call.done:
		return call.db, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handle) open(call *openCall) {
	call.db, call.err = h.opener(h.path)

	h.mu.Lock()
	if call.err == nil {
		h.db = call.db
	}
	h.pending = nil
	h.mu.Unlock()

	close(call.done)
}

// Close closes the database if it was ever opened.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}
