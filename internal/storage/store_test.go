package storage

import (
	"context"
	"testing"
	"time"
)

func sampleEpisode(id string, createdAt time.Time) EpisodeRecord {
	return EpisodeRecord{
		ID:             id,
		RunID:          "run-1",
		Agent:          "simple",
		Scenario:       "easy",
		Seed:           42,
		ReachedGoal:    true,
		Deadlocked:     false,
		ItemsCollected: 2,
		ItemsTotal:     3,
		StepsTaken:     17,
		MaxSteps:       25,
		FallbackSteps:  0,
		Score:          82.8,
		CreatedAt:      createdAt,
	}
}

// exerciseStore runs the Store contract shared by every backend.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"ep-a", "ep-b", "ep-c"} {
		if err := store.SaveEpisode(ctx, sampleEpisode(id, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("SaveEpisode(%s) failed: %v", id, err)
		}
	}

	t.Run("get episode", func(t *testing.T) {
		rec, ok, err := store.GetEpisode(ctx, "ep-b")
		if err != nil {
			t.Fatalf("GetEpisode failed: %v", err)
		}
		if !ok {
			t.Fatal("GetEpisode reported ep-b missing")
		}
		want := sampleEpisode("ep-b", base.Add(time.Second))
		if rec.ID != want.ID || rec.Score != want.Score || rec.StepsTaken != want.StepsTaken ||
			rec.ReachedGoal != want.ReachedGoal || rec.Deadlocked != want.Deadlocked ||
			rec.Agent != want.Agent || rec.Seed != want.Seed {
			t.Errorf("GetEpisode = %+v, want %+v", rec, want)
		}
		if !rec.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", rec.CreatedAt, want.CreatedAt)
		}
	})

	t.Run("missing episode", func(t *testing.T) {
		_, ok, err := store.GetEpisode(ctx, "no-such-id")
		if err != nil {
			t.Fatalf("GetEpisode failed: %v", err)
		}
		if ok {
			t.Error("GetEpisode reported a missing record as present")
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		recs, err := store.ListEpisodes(ctx, 2)
		if err != nil {
			t.Fatalf("ListEpisodes failed: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("ListEpisodes returned %d records, want 2", len(recs))
		}
		if recs[0].ID != "ep-c" || recs[1].ID != "ep-b" {
			t.Errorf("ListEpisodes order = [%s, %s], want [ep-c, ep-b]", recs[0].ID, recs[1].ID)
		}

		all, err := store.ListEpisodes(ctx, 0)
		if err != nil {
			t.Fatalf("ListEpisodes failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("ListEpisodes(0) returned %d records, want all 3", len(all))
		}
	})

	t.Run("save is an upsert", func(t *testing.T) {
		update := sampleEpisode("ep-a", base)
		update.Score = 12.5
		if err := store.SaveEpisode(ctx, update); err != nil {
			t.Fatalf("SaveEpisode failed: %v", err)
		}

		rec, ok, err := store.GetEpisode(ctx, "ep-a")
		if err != nil || !ok {
			t.Fatalf("GetEpisode after update: ok=%v err=%v", ok, err)
		}
		if rec.Score != 12.5 {
			t.Errorf("Score = %v after update, want 12.5", rec.Score)
		}

		all, err := store.ListEpisodes(ctx, 0)
		if err != nil {
			t.Fatalf("ListEpisodes failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("upsert grew the episode count to %d, want 3", len(all))
		}
	})

	t.Run("run summaries", func(t *testing.T) {
		sum := RunSummary{
			RunID:     "run-1",
			Agent:     "advised",
			Scenario:  "medium",
			Episodes:  20,
			Successes: 17,
			Deadlocks: 1,
			MeanScore: 71.25,
			MeanSteps: 41.3,
			CreatedAt: base,
		}
		if err := store.SaveRunSummary(ctx, sum); err != nil {
			t.Fatalf("SaveRunSummary failed: %v", err)
		}

		got, ok, err := store.GetRunSummary(ctx, "run-1")
		if err != nil || !ok {
			t.Fatalf("GetRunSummary: ok=%v err=%v", ok, err)
		}
		if got.Episodes != 20 || got.Successes != 17 || got.MeanScore != 71.25 {
			t.Errorf("GetRunSummary = %+v, want %+v", got, sum)
		}

		sums, err := store.ListRunSummaries(ctx, 10)
		if err != nil {
			t.Fatalf("ListRunSummaries failed: %v", err)
		}
		if len(sums) != 1 || sums[0].RunID != "run-1" {
			t.Errorf("ListRunSummaries = %+v, want one run-1 entry", sums)
		}

		_, ok, err = store.GetRunSummary(ctx, "run-404")
		if err != nil {
			t.Fatalf("GetRunSummary failed: %v", err)
		}
		if ok {
			t.Error("GetRunSummary reported a missing run as present")
		}
	})
}

func TestNewStore(t *testing.T) {
	store, err := NewStore("", "")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("NewStore(\"\") = %T, want *MemoryStore", store)
	}

	store, err = NewStore("sqlite", "episodes.db")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, ok := store.(*SQLiteStore); !ok {
		t.Errorf("NewStore(\"sqlite\") = %T, want *SQLiteStore", store)
	}

	if _, err := NewStore("postgres", ""); err == nil {
		t.Error("NewStore accepted an unsupported backend")
	}
}

func TestCloseIfSupported(t *testing.T) {
	if err := CloseIfSupported(NewMemoryStore()); err != nil {
		t.Errorf("CloseIfSupported(memory) = %v, want nil", err)
	}
	if err := CloseIfSupported(NewSQLiteStore("unused.db")); err != nil {
		t.Errorf("CloseIfSupported(uninitialized sqlite) = %v, want nil", err)
	}
}
