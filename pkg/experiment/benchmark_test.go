package experiment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OmriLeviGit/agentic-assignment/internal/storage"
	"github.com/OmriLeviGit/agentic-assignment/pkg/agent"
	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
)

// crossingLayout is a 5x5 world the rule-based decider solves in exactly 8
// steps, collecting the single item on the way.
func crossingLayout() world.Layout {
	return world.Layout{
		Width: 5, Height: 5,
		Agent:    world.Position{X: 0, Y: 0},
		Goal:     world.Position{X: 4, Y: 4},
		Items:    []world.Position{{X: 2, Y: 2}},
		MaxSteps: 25,
	}
}

func simpleDeciders(int) agent.Decider {
	return agent.NewSimpleAgent()
}

func TestBenchmarkFixedWorldIsDeterministic(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("store init failed: %v", err)
	}

	b := NewBenchmark("crossing", FixedWorld(crossingLayout()), simpleDeciders,
		WithEpisodes(5),
		WithParallelism(2),
		WithStore(store),
	)

	sum, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sum.Episodes != 5 {
		t.Errorf("Episodes = %d, want 5", sum.Episodes)
	}
	if sum.Successes != 5 {
		t.Errorf("Successes = %d, want 5", sum.Successes)
	}
	if sum.Deadlocks != 0 {
		t.Errorf("Deadlocks = %d, want 0", sum.Deadlocks)
	}
	if sum.SuccessRate() != 100 {
		t.Errorf("SuccessRate() = %v, want 100", sum.SuccessRate())
	}
	// Identical worlds and a deterministic decider leave no score spread.
	if sum.StdScore != 0 {
		t.Errorf("StdScore = %v, want 0", sum.StdScore)
	}
	if sum.MeanSteps != 8 {
		t.Errorf("MeanSteps = %v, want 8", sum.MeanSteps)
	}
	if sum.MeanItems != 1 {
		t.Errorf("MeanItems = %v, want 1", sum.MeanItems)
	}
	if sum.Agent != "simple" {
		t.Errorf("Agent = %q, want %q", sum.Agent, "simple")
	}

	recs, err := store.ListEpisodes(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListEpisodes failed: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("store holds %d episodes, want 5", len(recs))
	}
	for _, rec := range recs {
		if rec.RunID != b.RunID() {
			t.Errorf("episode %s has run ID %q, want %q", rec.ID, rec.RunID, b.RunID())
		}
		if rec.Scenario != "crossing" {
			t.Errorf("episode %s has scenario %q, want %q", rec.ID, rec.Scenario, "crossing")
		}
	}

	saved, ok, err := store.GetRunSummary(context.Background(), b.RunID())
	if err != nil || !ok {
		t.Fatalf("GetRunSummary = %v, %v; want stored summary", ok, err)
	}
	if saved.Episodes != 5 || saved.Successes != 5 {
		t.Errorf("stored summary = %+v, want 5 episodes, 5 successes", saved)
	}
}

func TestBenchmarkSeededWorldsRecordDerivedSeeds(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("store init failed: %v", err)
	}

	spec := world.GenSpec{
		Width: 6, Height: 6,
		ObstacleCount: 4,
		ItemCount:     3,
		MaxSteps:      40,
		Seed:          7,
	}
	b := NewBenchmark("random-6x6", SeededWorlds(spec), simpleDeciders,
		WithEpisodes(3),
		WithStore(store),
	)

	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	recs, err := store.ListEpisodes(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListEpisodes failed: %v", err)
	}
	seeds := make(map[int64]bool)
	for _, rec := range recs {
		seeds[rec.Seed] = true
	}
	for want := int64(7); want <= 9; want++ {
		if !seeds[want] {
			t.Errorf("no stored episode with derived seed %d (got %v)", want, seeds)
		}
	}
}

func TestBenchmarkCountsDeadlocks(t *testing.T) {
	enclosed := world.Layout{
		Width: 4, Height: 4,
		Agent:     world.Position{X: 0, Y: 0},
		Goal:      world.Position{X: 3, Y: 3},
		Obstacles: []world.Position{{X: 1, Y: 0}, {X: 0, Y: 1}},
		MaxSteps:  10,
	}

	sum, err := NewBenchmark("enclosed", FixedWorld(enclosed), simpleDeciders,
		WithEpisodes(2),
	).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sum.Deadlocks != 2 {
		t.Errorf("Deadlocks = %d, want 2", sum.Deadlocks)
	}
	if sum.Successes != 0 {
		t.Errorf("Successes = %d, want 0", sum.Successes)
	}
}

func TestBenchmarkWritesStatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")

	_, err := NewBenchmark("crossing", FixedWorld(crossingLayout()), simpleDeciders,
		WithEpisodes(3),
		WithStatsFile(path),
	).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("stats file missing: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("stats file has %d lines, want header plus 3 episodes:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "Episode,Seed,Agent,Outcome") {
		t.Errorf("unexpected stats header %q", lines[0])
	}
	for _, line := range lines[1:] {
		if !strings.Contains(line, "reached goal") {
			t.Errorf("episode row %q missing outcome", line)
		}
	}
}

func TestBenchmarkSurfacesWorldBuildFailure(t *testing.T) {
	broken := func(int) (*world.GridWorld, int64, error) {
		return nil, 0, fmt.Errorf("no such scenario")
	}

	_, err := NewBenchmark("broken", broken, simpleDeciders, WithEpisodes(2)).Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded with a failing world factory")
	}
}

func TestSummarySuccessRateOnEmptyRun(t *testing.T) {
	if got := (Summary{}).SuccessRate(); got != 0 {
		t.Errorf("SuccessRate() = %v, want 0", got)
	}
}
