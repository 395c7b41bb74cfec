package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/marco/moviebrowser/internal/catalog"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS movies (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id INTEGER NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		overview TEXT NOT NULL DEFAULT '',
		poster_path TEXT NOT NULL DEFAULT '',
		backdrop_path TEXT NOT NULL DEFAULT '',
		release_date TEXT NOT NULL DEFAULT '',
		vote_average REAL NOT NULL DEFAULT 0,
		page INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_movies_page ON movies(page);
`

// SQLiteStore implements LocalStore on a single SQLite table.
//
// INSERT OR REPLACE deletes the conflicting row and inserts a new one, so a
// replaced movie gets a fresh seq and ordering by seq is insertion order.
type SQLiteStore struct {
	db     *sql.DB
	closed atomic.Bool
}

var _ LocalStore = (*SQLiteStore)(nil)

// Open creates a SQLite-backed store at dbPath.
// The database file and table are auto-created if they don't exist.
func Open(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	dbPath = filepath.Clean(dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection means one writer at a time; SQLite serializes the rest.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create movies table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Insert upserts movies in a single transaction.
func (s *SQLiteStore) Insert(ctx context.Context, movies []catalog.Movie) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if len(movies) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO movies
		 (id, title, overview, poster_path, backdrop_path, release_date, vote_average, page)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range movies {
		if _, err := stmt.ExecContext(ctx,
			m.ID, m.Title, m.Overview, m.PosterPath, m.BackdropPath, m.ReleaseDate, m.VoteAverage, m.Page,
		); err != nil {
			return fmt.Errorf("failed to insert movie %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insert: %w", err)
	}
	return nil
}

// Movies returns the movies cached for page.
func (s *SQLiteStore) Movies(ctx context.Context, page int) ([]catalog.Movie, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, overview, poster_path, backdrop_path, release_date, vote_average, page
		 FROM movies WHERE page = ? ORDER BY seq`,
		page,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies for page %d: %w", page, err)
	}
	defer rows.Close()

	movies := []catalog.Movie{}
	for rows.Next() {
		var m catalog.Movie
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Overview, &m.PosterPath, &m.BackdropPath, &m.ReleaseDate, &m.VoteAverage, &m.Page,
		); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movies for page %d: %w", page, err)
	}
	return movies, nil
}

// DeleteAll removes all movies from the cache.
func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM movies"); err != nil {
		return fmt.Errorf("failed to clear movies: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}
