// Package store provides SQLite-based persistence for episode results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages the SQLite database connection for episode results
type Store struct {
	db *sql.DB
}

// Episode is the result of one finished episode
type Episode struct {
	ID      int64
	EnvID   string
	Run     string
	Episode int
	Steps   int
	Return  float64

	// End is the way the episode ended, Terminated or Truncated
	End string

	World     int
	Stage     int
	XPos      int
	Life      int
	FlagGet   bool
	CreatedAt time.Time
}

// Summary aggregates the episodes of one environment
type Summary struct {
	EnvID      string
	Episodes   int
	MeanReturn float64
	BestReturn float64
	MeanSteps  float64
	Flags      int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("store: cannot expand home directory: %w",
				err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: cannot create directory %s: %w", dir,
			err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			env_id TEXT NOT NULL,
			run TEXT NOT NULL,
			episode INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			episode_return REAL NOT NULL,
			end_type TEXT NOT NULL,
			world INTEGER NOT NULL,
			stage INTEGER NOT NULL,
			x_pos INTEGER NOT NULL,
			life INTEGER NOT NULL,
			flag_get INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_episodes_env_id ON episodes(env_id);
		CREATE INDEX IF NOT EXISTS idx_episodes_run ON episodes(run, episode);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEpisode records a finished episode and returns the ID of the
// inserted record
func (s *Store) SaveEpisode(e Episode) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO episodes (env_id, run, episode, steps, episode_return,
			end_type, world, stage, x_pos, life, flag_get)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EnvID, e.Run, e.Episode, e.Steps, e.Return, e.End, e.World,
		e.Stage, e.XPos, e.Life, e.FlagGet,
	)
	if err != nil {
		return 0, fmt.Errorf("store: cannot save episode: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Episodes retrieves the most recent episodes of an environment, newest
// first. If envID is empty, episodes of every environment are returned.
func (s *Store) Episodes(envID string, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, env_id, run, episode, steps, episode_return, end_type, world,
			stage, x_pos, life, flag_get, created_at
		 FROM episodes
		 WHERE ? = '' OR env_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		envID, envID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var e Episode
		var createdAt any
		if err := rows.Scan(&e.ID, &e.EnvID, &e.Run, &e.Episode, &e.Steps,
			&e.Return, &e.End, &e.World, &e.Stage, &e.XPos, &e.Life,
			&e.FlagGet, &createdAt); err != nil {
			return nil, fmt.Errorf("store: cannot scan row: %w", err)
		}

		switch v := createdAt.(type) {
		case time.Time:
			e.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				e.CreatedAt = parsed
			}
		}
		episodes = append(episodes, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: row iteration error: %w", err)
	}
	return episodes, nil
}

// Summaries aggregates the stored episodes of each environment, ordered
// by environment ID
func (s *Store) Summaries() ([]Summary, error) {
	rows, err := s.db.Query(
		`SELECT env_id, COUNT(*), AVG(episode_return), MAX(episode_return), AVG(steps),
			SUM(flag_get)
		 FROM episodes
		 GROUP BY env_id
		 ORDER BY env_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("store: cannot query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.EnvID, &sum.Episodes, &sum.MeanReturn,
			&sum.BestReturn, &sum.MeanSteps, &sum.Flags); err != nil {
			return nil, fmt.Errorf("store: cannot scan row: %w", err)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: row iteration error: %w", err)
	}
	return summaries, nil
}

// DeleteRun removes every episode of a run and returns the number of
// episodes removed
func (s *Store) DeleteRun(run string) (int64, error) {
	result, err := s.db.Exec("DELETE FROM episodes WHERE run = ?", run)
	if err != nil {
		return 0, fmt.Errorf("store: cannot delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: cannot count deleted rows: %w", err)
	}
	return n, nil
}
