// Package storage persists episode outcomes and benchmark run summaries
// across invocations, either in memory or in a SQLite file.
package storage

import (
	"context"
	"fmt"
	"time"
)

// EpisodeRecord is one persisted episode outcome.
type EpisodeRecord struct {
	ID             string
	RunID          string
	Agent          string
	Scenario       string
	Seed           int64
	ReachedGoal    bool
	Deadlocked     bool
	ItemsCollected int
	ItemsTotal     int
	StepsTaken     int
	MaxSteps       int
	FallbackSteps  int
	Score          float64
	CreatedAt      time.Time
}

// RunSummary is the aggregate outcome of one benchmark run.
type RunSummary struct {
	RunID     string
	Agent     string
	Scenario  string
	Episodes  int
	Successes int
	Deadlocks int
	MeanScore float64
	MeanSteps float64
	CreatedAt time.Time
}

// Store defines persistence operations for episode outcomes.
type Store interface {
	Init(ctx context.Context) error
	SaveEpisode(ctx context.Context, rec EpisodeRecord) error
	GetEpisode(ctx context.Context, id string) (EpisodeRecord, bool, error)
	// ListEpisodes returns the newest records first; limit <= 0 means all.
	ListEpisodes(ctx context.Context, limit int) ([]EpisodeRecord, error)
	SaveRunSummary(ctx context.Context, sum RunSummary) error
	GetRunSummary(ctx context.Context, runID string) (RunSummary, bool, error)
	ListRunSummaries(ctx context.Context, limit int) ([]RunSummary, error)
}

// NewStore builds a store for the given backend kind.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes stores that hold external resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
