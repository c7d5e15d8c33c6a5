// Package storage owns the diary database: an insert-only entries table in a
// single SQLite file, created on first use.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	// Pure-Go SQLite driver, registers itself as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/solaris-diary/solaris/internal/logging"
	"github.com/solaris-diary/solaris/internal/model"
)

var (
	// ErrStorageInit is returned when the directory or database cannot be prepared.
	ErrStorageInit = errors.New("storage init failed")
	// ErrStorageWrite is returned when an entry cannot be inserted.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrStorageRead is returned when entries or stats cannot be queried.
	ErrStorageRead = errors.New("storage read failed")
)

// DefaultLimit is the number of entries ReadEntries returns when no limit is given.
const DefaultLimit = 10

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// NewEntry carries the caller-supplied fields of an entry. ID and Timestamp
// are always assigned by the database.
type NewEntry struct {
	Content string
	Mood    *model.Mood
	Context *string
}

// ReadOptions filters ReadEntries.
type ReadOptions struct {
	// Limit caps the result size; values <= 0 mean DefaultLimit.
	Limit int
	// Mood, when set, keeps only entries with exactly this mood.
	Mood *model.Mood
}

// Engine is the diary store. The zero value is not usable; call New.
// All methods initialize the database lazily, so calling Initialize up front
// is optional.
type Engine struct {
	path string
	log  logging.Logger

	mu sync.Mutex // guards db during lazy initialization
	db *sql.DB
}

// New returns an Engine for the database file at path. Nothing touches the
// disk until the first call.
func New(path string, log logging.Logger) *Engine {
	return &Engine{path: path, log: log.With("component", "storage")}
}

// Path returns the database file location.
func (e *Engine) Path() string {
	return e.path
}

// Initialize creates the directory, the database file and the schema if they
// don't exist. It is safe to call repeatedly; after the first success it
// returns immediately. A failed attempt is not remembered.
func (e *Engine) Initialize(ctx context.Context) error {
	_, err := e.handle(ctx)
	return err
}

func (e *Engine) handle(ctx context.Context) (*sql.DB, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db != nil {
		return e.db, nil
	}

	db, err := e.open(ctx)
	if err != nil {
		e.log.Error(ctx, "storage: init failed", "path", e.path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStorageInit, err)
	}
	e.db = db
	e.log.Info(ctx, "storage: database ready", "path", e.path)
	return db, nil
}

func (e *Engine) open(ctx context.Context) (*sql.DB, error) {
	dsn := e.path
	if e.path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(e.path), 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		// busy_timeout lets SQLite wait out writers from other processes
		// (a second server, or the CLI) instead of failing with SQLITE_BUSY.
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: keeps :memory: databases shared and serializes writers
	// inside this process.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database %s: %w", e.path, err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

// Close releases the database handle. The engine can be reopened by any
// later call.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}

// WriteEntry inserts a new entry and returns it with its generated id and
// timestamp.
func (e *Engine) WriteEntry(ctx context.Context, in NewEntry) (model.Entry, error) {
	if in.Content == "" {
		return model.Entry{}, fmt.Errorf("%w: content must not be empty", ErrStorageWrite)
	}
	db, err := e.handle(ctx)
	if err != nil {
		return model.Entry{}, err
	}

	row := db.QueryRowContext(ctx, `
		INSERT INTO entries (content, mood, context)
		VALUES (?, ?, ?)
		RETURNING id, timestamp, content, mood, context`,
		in.Content, moodArg(in.Mood), stringArg(in.Context))

	entry, err := scanEntry(row)
	if err != nil {
		return model.Entry{}, fmt.Errorf("%w: insert entry: %w", ErrStorageWrite, err)
	}
	e.log.Debug(ctx, "storage: entry written", "id", entry.ID, "timestamp", entry.Timestamp)
	return entry, nil
}

// ReadEntries returns up to opts.Limit entries, newest first. Entries sharing
// a timestamp are ordered by most recent insert first. The result is never nil.
func (e *Engine) ReadEntries(ctx context.Context, opts ReadOptions) ([]model.Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	db, err := e.handle(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, timestamp, content, mood, context FROM entries`
	var args []any
	if opts.Mood != nil {
		query += ` WHERE mood = ?`
		args = append(args, string(*opts.Mood))
	}
	query += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query entries: %w", ErrStorageRead, err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan entry: %w", ErrStorageRead, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate entries: %w", ErrStorageRead, err)
	}
	return entries, nil
}

// Stats aggregates all entries. Moods that were never recorded are absent
// from MoodDistribution; FirstEntry and LastEntry are nil on an empty store.
func (e *Engine) Stats(ctx context.Context) (model.Stats, error) {
	db, err := e.handle(ctx)
	if err != nil {
		return model.Stats{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.Stats{}, fmt.Errorf("%w: begin: %w", ErrStorageRead, err)
	}
	defer tx.Rollback() //nolint:errcheck // read-only

	stats := model.Stats{MoodDistribution: map[model.Mood]int{}}
	var first, last sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(timestamp), MAX(timestamp) FROM entries`).
		Scan(&stats.TotalEntries, &first, &last)
	if err != nil {
		return model.Stats{}, fmt.Errorf("%w: count entries: %w", ErrStorageRead, err)
	}
	stats.FirstEntry = nullToPtr(first)
	stats.LastEntry = nullToPtr(last)

	rows, err := tx.QueryContext(ctx,
		`SELECT mood, COUNT(*) FROM entries WHERE mood IS NOT NULL GROUP BY mood`)
	if err != nil {
		return model.Stats{}, fmt.Errorf("%w: mood distribution: %w", ErrStorageRead, err)
	}
	defer rows.Close()
	for rows.Next() {
		var mood string
		var n int
		if err := rows.Scan(&mood, &n); err != nil {
			return model.Stats{}, fmt.Errorf("%w: scan mood: %w", ErrStorageRead, err)
		}
		stats.MoodDistribution[model.Mood(mood)] = n
	}
	if err := rows.Err(); err != nil {
		return model.Stats{}, fmt.Errorf("%w: iterate moods: %w", ErrStorageRead, err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (model.Entry, error) {
	var (
		entry        model.Entry
		mood, detail sql.NullString
	)
	if err := s.Scan(&entry.ID, &entry.Timestamp, &entry.Content, &mood, &detail); err != nil {
		return model.Entry{}, err
	}
	if mood.Valid {
		m := model.Mood(mood.String)
		entry.Mood = &m
	}
	entry.Context = nullToPtr(detail)
	return entry, nil
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func moodArg(m *model.Mood) any {
	if m == nil {
		return nil
	}
	return string(*m)
}

func stringArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
