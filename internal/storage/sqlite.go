package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists records in a single SQLite file. Init must run before
// any other operation.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			agent TEXT NOT NULL,
			scenario TEXT NOT NULL,
			seed INTEGER NOT NULL,
			reached_goal INTEGER NOT NULL,
			deadlocked INTEGER NOT NULL,
			items_collected INTEGER NOT NULL,
			items_total INTEGER NOT NULL,
			steps_taken INTEGER NOT NULL,
			max_steps INTEGER NOT NULL,
			fallback_steps INTEGER NOT NULL,
			score REAL NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			agent TEXT NOT NULL,
			scenario TEXT NOT NULL,
			episodes INTEGER NOT NULL,
			successes INTEGER NOT NULL,
			deadlocks INTEGER NOT NULL,
			mean_score REAL NOT NULL,
			mean_steps REAL NOT NULL,
			created_at INTEGER NOT NULL
		);
	`)
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store not initialized")
	}
	return s.db, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) SaveEpisode(ctx context.Context, rec EpisodeRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO episodes (
			id, run_id, agent, scenario, seed,
			reached_goal, deadlocked, items_collected, items_total,
			steps_taken, max_steps, fallback_steps, score, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			run_id = excluded.run_id,
			agent = excluded.agent,
			scenario = excluded.scenario,
			seed = excluded.seed,
			reached_goal = excluded.reached_goal,
			deadlocked = excluded.deadlocked,
			items_collected = excluded.items_collected,
			items_total = excluded.items_total,
			steps_taken = excluded.steps_taken,
			max_steps = excluded.max_steps,
			fallback_steps = excluded.fallback_steps,
			score = excluded.score,
			created_at = excluded.created_at
	`,
		rec.ID, rec.RunID, rec.Agent, rec.Scenario, rec.Seed,
		boolToInt(rec.ReachedGoal), boolToInt(rec.Deadlocked), rec.ItemsCollected, rec.ItemsTotal,
		rec.StepsTaken, rec.MaxSteps, rec.FallbackSteps, rec.Score, rec.CreatedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) GetEpisode(ctx context.Context, id string) (EpisodeRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return EpisodeRecord{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, run_id, agent, scenario, seed,
			reached_goal, deadlocked, items_collected, items_total,
			steps_taken, max_steps, fallback_steps, score, created_at
		FROM episodes WHERE id = ?
	`, id)

	rec, err := scanEpisode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EpisodeRecord{}, false, nil
		}
		return EpisodeRecord{}, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) ListEpisodes(ctx context.Context, limit int) ([]EpisodeRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, run_id, agent, scenario, seed,
			reached_goal, deadlocked, items_collected, items_total,
			steps_taken, max_steps, fallback_steps, score, created_at
		FROM episodes ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EpisodeRecord
	for rows.Next() {
		rec, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveRunSummary(ctx context.Context, sum RunSummary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, agent, scenario, episodes, successes, deadlocks,
			mean_score, mean_steps, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			agent = excluded.agent,
			scenario = excluded.scenario,
			episodes = excluded.episodes,
			successes = excluded.successes,
			deadlocks = excluded.deadlocks,
			mean_score = excluded.mean_score,
			mean_steps = excluded.mean_steps,
			created_at = excluded.created_at
	`,
		sum.RunID, sum.Agent, sum.Scenario, sum.Episodes, sum.Successes, sum.Deadlocks,
		sum.MeanScore, sum.MeanSteps, sum.CreatedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) GetRunSummary(ctx context.Context, runID string) (RunSummary, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunSummary{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT run_id, agent, scenario, episodes, successes, deadlocks,
			mean_score, mean_steps, created_at
		FROM runs WHERE run_id = ?
	`, runID)

	sum, err := scanRunSummary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, false, nil
		}
		return RunSummary{}, false, err
	}
	return sum, true, nil
}

func (s *SQLiteStore) ListRunSummaries(ctx context.Context, limit int) ([]RunSummary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, agent, scenario, episodes, successes, deadlocks,
			mean_score, mean_steps, created_at
		FROM runs ORDER BY created_at DESC, run_id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		sum, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (EpisodeRecord, error) {
	var (
		rec                     EpisodeRecord
		reachedGoal, deadlocked int
		createdAt               int64
	)
	err := row.Scan(
		&rec.ID, &rec.RunID, &rec.Agent, &rec.Scenario, &rec.Seed,
		&reachedGoal, &deadlocked, &rec.ItemsCollected, &rec.ItemsTotal,
		&rec.StepsTaken, &rec.MaxSteps, &rec.FallbackSteps, &rec.Score, &createdAt,
	)
	if err != nil {
		return EpisodeRecord{}, err
	}

	rec.ReachedGoal = reachedGoal != 0
	rec.Deadlocked = deadlocked != 0
	rec.CreatedAt = time.Unix(0, createdAt)
	return rec, nil
}

func scanRunSummary(row rowScanner) (RunSummary, error) {
	var (
		sum       RunSummary
		createdAt int64
	)
	err := row.Scan(
		&sum.RunID, &sum.Agent, &sum.Scenario, &sum.Episodes, &sum.Successes, &sum.Deadlocks,
		&sum.MeanScore, &sum.MeanSteps, &createdAt,
	)
	if err != nil {
		return RunSummary{}, err
	}

	sum.CreatedAt = time.Unix(0, createdAt)
	return sum, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
