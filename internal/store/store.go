// Package store provides SQLite persistence for streaks, library wins and
// daily-round progress.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/tkoide/isekadle/internal/game"
)

// Store handles SQLite persistence. Safe for use from a single session;
// the mutex guards the connection against the TUI's background commands.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Streaks is the win-streak record: a free-play streak and a daily streak
// that only advances once per published daily id.
type Streaks struct {
	Current     int
	Daily       int
	LastDailyID string
}

// DailyProgress is one persisted daily round, replayable on restart.
type DailyProgress struct {
	DailyID   string
	GuessIDs  []string
	SkipCount int
	Hints     map[string]game.HintState
	Outcome   string
}

// DefaultPath returns the progress database location under the user config
// directory, creating the directory if needed.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	dir := filepath.Join(base, "isekadle")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return filepath.Join(dir, "progress.db"), nil
}

// Open creates a Store at the given path, creating tables as needed.
// ":memory:" opens an in-memory database for tests.
func Open(path string) (*Store, error) {
	connStr := path
	if path == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS streaks (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		current INTEGER NOT NULL DEFAULT 0,
		daily INTEGER NOT NULL DEFAULT 0,
		last_daily_id TEXT NOT NULL DEFAULT ''
	);

	INSERT OR IGNORE INTO streaks (id) VALUES (1);

	CREATE TABLE IF NOT EXISTS library_wins (
		entry_id TEXT PRIMARY KEY,
		won_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS daily_progress (
		daily_id TEXT PRIMARY KEY,
		guesses TEXT NOT NULL DEFAULT '[]',
		skip_count INTEGER NOT NULL DEFAULT 0,
		hint_state TEXT NOT NULL DEFAULT '{}',
		outcome TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Streaks reads the current streak record.
func (s *Store) Streaks() (Streaks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Streaks
	row := s.db.QueryRow(`SELECT current, daily, last_daily_id FROM streaks WHERE id = 1`)
	if err := row.Scan(&st.Current, &st.Daily, &st.LastDailyID); err != nil {
		return Streaks{}, fmt.Errorf("read streaks: %w", err)
	}
	return st, nil
}

// RecordWin advances the streak for a won round. Free-play wins bump the
// current streak; a daily win only counts once per daily id.
func (s *Store) RecordWin(dailyID string) (Streaks, error) {
	st, err := s.Streaks()
	if err != nil {
		return Streaks{}, err
	}
	if dailyID != "" {
		if st.LastDailyID != dailyID {
			st.Daily++
			st.LastDailyID = dailyID
		}
	} else {
		st.Current++
	}
	return st, s.writeStreaks(st)
}

// RecordLoss resets the streak for a lost round. A daily loss also pins the
// daily id so a retry cannot re-earn the streak point.
func (s *Store) RecordLoss(dailyID string) (Streaks, error) {
	st, err := s.Streaks()
	if err != nil {
		return Streaks{}, err
	}
	if dailyID != "" {
		st.Daily = 0
		st.LastDailyID = dailyID
	} else {
		st.Current = 0
	}
	return st, s.writeStreaks(st)
}

func (s *Store) writeStreaks(st Streaks) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`UPDATE streaks SET current = ?, daily = ?, last_daily_id = ? WHERE id = 1`,
		st.Current, st.Daily, st.LastDailyID,
	)
	if err != nil {
		return fmt.Errorf("write streaks: %w", err)
	}
	return nil
}

// AddWins marks catalog ids as won in the library.
func (s *Store) AddWins(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO library_wins (entry_id) VALUES (?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			return fmt.Errorf("record win %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// WonIDs returns the set of catalog ids ever won.
func (s *Store) WonIDs() (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT entry_id FROM library_wins`)
	if err != nil {
		return nil, fmt.Errorf("read wins: %w", err)
	}
	defer rows.Close()

	won := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		won[id] = struct{}{}
	}
	return won, rows.Err()
}

// SaveDailyProgress upserts the round state for a daily id.
func (s *Store) SaveDailyProgress(p DailyProgress) error {
	if p.DailyID == "" {
		return fmt.Errorf("daily progress needs a daily id")
	}
	guesses, err := json.Marshal(p.GuessIDs)
	if err != nil {
		return err
	}
	hints := p.Hints
	if hints == nil {
		hints = map[string]game.HintState{}
	}
	hintState, err := json.Marshal(hints)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO daily_progress (daily_id, guesses, skip_count, hint_state, outcome, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(daily_id) DO UPDATE SET
			guesses = excluded.guesses,
			skip_count = excluded.skip_count,
			hint_state = excluded.hint_state,
			outcome = excluded.outcome,
			updated_at = excluded.updated_at
	`, p.DailyID, string(guesses), p.SkipCount, string(hintState), p.Outcome)
	if err != nil {
		return fmt.Errorf("save daily progress: %w", err)
	}
	return nil
}

// DailyProgress loads the saved round for a daily id; ok is false when none
// has been saved.
func (s *Store) DailyProgress(dailyID string) (DailyProgress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		p         DailyProgress
		guesses   string
		hintState string
	)
	row := s.db.QueryRow(
		`SELECT daily_id, guesses, skip_count, hint_state, outcome FROM daily_progress WHERE daily_id = ?`,
		dailyID,
	)
	err := row.Scan(&p.DailyID, &guesses, &p.SkipCount, &hintState, &p.Outcome)
	if err == sql.ErrNoRows {
		return DailyProgress{}, false, nil
	}
	if err != nil {
		return DailyProgress{}, false, fmt.Errorf("read daily progress: %w", err)
	}
	if err := json.Unmarshal([]byte(guesses), &p.GuessIDs); err != nil {
		return DailyProgress{}, false, fmt.Errorf("decode saved guesses: %w", err)
	}
	if err := json.Unmarshal([]byte(hintState), &p.Hints); err != nil {
		return DailyProgress{}, false, fmt.Errorf("decode saved hints: %w", err)
	}
	return p, true, nil
}
