// Package storage provides SQLite-based persistence for the level history:
// which level files were opened, and how playback sessions went.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for history persistence.
type Store struct {
	db *sql.DB
}

// LevelEntry is one known level file with its cached metadata.
type LevelEntry struct {
	ID          int64
	Path        string
	Title       string
	TileCount   int
	BPM         float64
	OpenedCount int
	LastOpened  time.Time
}

// SessionEntry records the outcome of one playback session.
type SessionEntry struct {
	ID         int64
	LevelPath  string
	DurationMs int
	Crossings  int
	Completed  bool
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS levels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			tile_count INTEGER NOT NULL DEFAULT 0,
			bpm REAL NOT NULL DEFAULT 0,
			opened_count INTEGER NOT NULL DEFAULT 0,
			last_opened DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_levels_last_opened ON levels(last_opened DESC);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_path TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			crossings INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_level ON sessions(level_path);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordOpen notes that a level file was opened, refreshing its cached
// metadata and bumping the open counter. Returns the row ID.
func (s *Store) RecordOpen(path, title string, tileCount int, bpm float64) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO levels (path, title, tile_count, bpm, opened_count, last_opened)
		 VALUES (?, ?, ?, ?, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			tile_count = excluded.tile_count,
			bpm = excluded.bpm,
			opened_count = opened_count + 1,
			last_opened = CURRENT_TIMESTAMP`,
		path, title, tileCount, bpm,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record open: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentLevels retrieves the most recently opened levels, newest first.
func (s *Store) RecentLevels(limit int) ([]LevelEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, path, title, tile_count, bpm, opened_count, last_opened
		 FROM levels
		 ORDER BY last_opened DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query levels: %w", err)
	}
	defer rows.Close()

	var entries []LevelEntry
	for rows.Next() {
		var e LevelEntry
		var lastOpened any
		if err := rows.Scan(&e.ID, &e.Path, &e.Title, &e.TileCount, &e.BPM, &e.OpenedCount, &lastOpened); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.LastOpened = parseTimestamp(lastOpened)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// LevelByPath retrieves one level entry, or nil when the path was never
// opened.
func (s *Store) LevelByPath(path string) (*LevelEntry, error) {
	var e LevelEntry
	var lastOpened any

	err := s.db.QueryRow(
		`SELECT id, path, title, tile_count, bpm, opened_count, last_opened
		 FROM levels
		 WHERE path = ?`,
		path,
	).Scan(&e.ID, &e.Path, &e.Title, &e.TileCount, &e.BPM, &e.OpenedCount, &lastOpened)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level: %w", err)
	}

	e.LastOpened = parseTimestamp(lastOpened)
	return &e, nil
}

// RecordSession records the outcome of one playback session.
// Returns the ID of the inserted record.
func (s *Store) RecordSession(levelPath string, durationMs, crossings int, completed bool) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions (level_path, duration_ms, crossings, completed)
		 VALUES (?, ?, ?, ?)`,
		levelPath, durationMs, crossings, completed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Sessions retrieves the playback sessions for a level, newest first.
func (s *Store) Sessions(levelPath string, limit int) ([]SessionEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level_path, duration_ms, crossings, completed, created_at
		 FROM sessions
		 WHERE level_path = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		levelPath, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var entries []SessionEntry
	for rows.Next() {
		var e SessionEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.LevelPath, &e.DurationMs, &e.Crossings, &e.Completed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// LevelStats contains aggregated playback statistics for one level.
type LevelStats struct {
	LevelPath    string
	SessionCount int
	Completions  int
	BestCrossing int
	TotalPlayMs  int64
	LastPlayed   time.Time
}

// GetLevelStats retrieves aggregated playback statistics for a level.
func (s *Store) GetLevelStats(levelPath string) (*LevelStats, error) {
	stats := &LevelStats{LevelPath: levelPath}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(completed), 0), COALESCE(MAX(crossings), 0), COALESCE(SUM(duration_ms), 0)
		 FROM sessions WHERE level_path = ?`,
		levelPath,
	).Scan(&stats.SessionCount, &stats.Completions, &stats.BestCrossing, &stats.TotalPlayMs)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM sessions WHERE level_path = ? ORDER BY created_at DESC LIMIT 1`,
		levelPath,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// ClearHistory deletes all level and session records.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM levels"); err != nil {
		return fmt.Errorf("storage: cannot clear levels: %w", err)
	}
	return nil
}

// parseTimestamp handles the driver returning either time.Time or the SQLite
// text representation.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
