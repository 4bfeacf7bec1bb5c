package sim

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/OmriLeviGit/agentic-assignment/pkg/agent"
	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
)

func mustWorld(t *testing.T, l world.Layout) *world.GridWorld {
	t.Helper()
	w, err := world.New(l)
	if err != nil {
		t.Fatalf("Failed to build world: %v", err)
	}
	return w
}

// openCrossing is a 5x5 world with one item on the diagonal between start
// and goal. The shortest start-item-goal walk takes exactly 8 steps.
func openCrossing(maxSteps int) world.Layout {
	return world.Layout{
		Width: 5, Height: 5,
		Agent:    world.Position{X: 0, Y: 0},
		Goal:     world.Position{X: 4, Y: 4},
		Items:    []world.Position{{X: 2, Y: 2}},
		MaxSteps: maxSteps,
	}
}

func TestEpisodeCollectsAndFinishesOnExactBudget(t *testing.T) {
	w := mustWorld(t, openCrossing(8))

	res, err := New(w).Run(context.Background(), agent.NewSimpleAgent())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !res.ReachedGoal {
		t.Errorf("ReachedGoal = false, want true")
	}
	if res.ItemsCollected != 1 {
		t.Errorf("ItemsCollected = %d, want 1", res.ItemsCollected)
	}
	if res.StepsTaken != 8 {
		t.Errorf("StepsTaken = %d, want 8", res.StepsTaken)
	}
	if res.Deadlocked {
		t.Error("Deadlocked = true, want false")
	}
	// Goal bonus plus full collection, nothing for the spent budget.
	if res.Score != 60 {
		t.Errorf("Score = %v, want 60", res.Score)
	}
	if res.Outcome() != "reached goal" {
		t.Errorf("Outcome() = %q, want %q", res.Outcome(), "reached goal")
	}
}

func TestEpisodeDeadlocksImmediatelyWhenEnclosed(t *testing.T) {
	w := mustWorld(t, world.Layout{
		Width: 4, Height: 4,
		Agent:     world.Position{X: 0, Y: 0},
		Goal:      world.Position{X: 3, Y: 3},
		Obstacles: []world.Position{{X: 1, Y: 0}, {X: 0, Y: 1}},
		Items:     []world.Position{{X: 2, Y: 2}},
		MaxSteps:  10,
	})

	res, err := New(w).Run(context.Background(), agent.NewSimpleAgent())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !res.Deadlocked {
		t.Error("Deadlocked = false, want true")
	}
	if res.StepsTaken != 0 {
		t.Errorf("StepsTaken = %d, want 0", res.StepsTaken)
	}
	if res.ReachedGoal {
		t.Error("ReachedGoal = true, want false")
	}
	if res.Score != 0 {
		t.Errorf("Score = %v, want 0", res.Score)
	}
	if res.Outcome() != "deadlocked" {
		t.Errorf("Outcome() = %q, want %q", res.Outcome(), "deadlocked")
	}
}

func TestEpisodeRunsOutOfSteps(t *testing.T) {
	// Goal is 4 steps east but the budget only allows 2.
	w := mustWorld(t, world.Layout{
		Width: 5, Height: 1,
		Agent:    world.Position{X: 0, Y: 0},
		Goal:     world.Position{X: 4, Y: 0},
		MaxSteps: 2,
	})

	res, err := New(w).Run(context.Background(), agent.NewSimpleAgent())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.ReachedGoal {
		t.Error("ReachedGoal = true, want false")
	}
	if res.Deadlocked {
		t.Error("Deadlocked = true, want false")
	}
	if res.StepsTaken != 2 {
		t.Errorf("StepsTaken = %d, want 2", res.StepsTaken)
	}
	if res.Score != 0 {
		t.Errorf("Score = %v, want 0", res.Score)
	}
	if res.Outcome() != "out of steps" {
		t.Errorf("Outcome() = %q, want %q", res.Outcome(), "out of steps")
	}
}

func TestRuleBasedPathMatchesManhattanDistance(t *testing.T) {
	// With no obstacles and no items, the walk to the goal must be a
	// shortest path, never a detour.
	start := world.Position{X: 0, Y: 0}
	goal := world.Position{X: 5, Y: 3}
	w := mustWorld(t, world.Layout{
		Width: 7, Height: 7,
		Agent:    start,
		Goal:     goal,
		MaxSteps: 30,
	})

	res, err := New(w).Run(context.Background(), agent.NewSimpleAgent())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !res.ReachedGoal {
		t.Fatal("ReachedGoal = false on an open grid")
	}
	if want := world.ManhattanDistance(start, goal); res.StepsTaken != want {
		t.Errorf("StepsTaken = %d, want Manhattan distance %d", res.StepsTaken, want)
	}
}

// illegalAdvisor always advises a cell that is never a legal move.
type illegalAdvisor struct{}

func (illegalAdvisor) Name() string { return "bad-remote" }

func (illegalAdvisor) Generate(_ context.Context, _ string, _ agent.GenerateOptions) (string, error) {
	return "definitely go to (4, 0)... wait, I mean <move>99</move>", nil
}

func TestAdvisedEpisodeSurvivesBadAdviceEveryStep(t *testing.T) {
	advised := agent.NewAdvisedAgent(
		agent.WithGenerators(illegalAdvisor{}),
		agent.WithDecisionTimeout(time.Second),
	)

	res, err := New(mustWorld(t, openCrossing(8))).Run(context.Background(), advised)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	baseline, err := New(mustWorld(t, openCrossing(8))).Run(context.Background(), agent.NewSimpleAgent())
	if err != nil {
		t.Fatalf("baseline Run failed: %v", err)
	}

	if !res.ReachedGoal {
		t.Error("ReachedGoal = false, want true")
	}
	if res.FallbackSteps != res.StepsTaken {
		t.Errorf("FallbackSteps = %d, want every step (%d)", res.FallbackSteps, res.StepsTaken)
	}
	if res.StepsTaken != baseline.StepsTaken || res.Score != baseline.Score || res.ItemsCollected != baseline.ItemsCollected {
		t.Errorf("advised-with-broken-tiers result %+v differs from rule-based baseline %+v", res, baseline)
	}
}

// stallingDecider insists on an illegal move, exercising the repair path.
type stallingDecider struct{ calls int }

func (d *stallingDecider) Name() string { return "staller" }

func (d *stallingDecider) DecideMove(_ context.Context, obs world.Observation) (world.Position, error) {
	d.calls++
	return world.Position{X: -5, Y: -5}, nil
}

func TestSimulatorRepairsIllegalDeciderMoves(t *testing.T) {
	d := &stallingDecider{}

	res, err := New(mustWorld(t, openCrossing(20))).Run(context.Background(), d)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !res.ReachedGoal {
		t.Error("ReachedGoal = false, want true; safety decider should have finished the episode")
	}
	if d.calls != res.StepsTaken {
		t.Errorf("decider consulted %d times over %d steps, want once per step", d.calls, res.StepsTaken)
	}
	if res.Agent != "staller" {
		t.Errorf("result names agent %q, want %q", res.Agent, "staller")
	}
}

// failingDecider returns a plain error on every call.
type failingDecider struct{}

func (failingDecider) Name() string { return "flaky" }

func (failingDecider) DecideMove(_ context.Context, _ world.Observation) (world.Position, error) {
	return world.Position{}, fmt.Errorf("internal decider bug")
}

func TestSimulatorRepairsDeciderErrors(t *testing.T) {
	res, err := New(mustWorld(t, openCrossing(20))).Run(context.Background(), failingDecider{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.ReachedGoal {
		t.Error("ReachedGoal = false, want true; errors must not end episodes early")
	}
}

func TestSimulatorObserverSeesEveryStep(t *testing.T) {
	var events []StepEvent
	simulator := New(
		mustWorld(t, openCrossing(8)),
		WithObserver(func(ev StepEvent) { events = append(events, ev) }),
	)

	res, err := simulator.Run(context.Background(), agent.NewSimpleAgent())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(events) != res.StepsTaken {
		t.Fatalf("observer saw %d events for %d steps", len(events), res.StepsTaken)
	}
	collected := 0
	for i, ev := range events {
		if ev.Step != i+1 {
			t.Errorf("event %d has Step %d, want %d", i, ev.Step, i+1)
		}
		if ev.Source != "simple" {
			t.Errorf("event %d sourced from %q, want %q", i, ev.Source, "simple")
		}
		if ev.ItemCollected {
			collected++
		}
	}
	if collected != 1 {
		t.Errorf("observer saw %d collection events, want 1", collected)
	}
	if last := events[len(events)-1]; !last.ReachedGoal {
		t.Error("final event not flagged as reaching the goal")
	}
}

func TestSimulatorHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(mustWorld(t, openCrossing(8))).Run(ctx, agent.NewSimpleAgent())
	if err == nil {
		t.Fatal("Run ignored a cancelled context")
	}
}

func TestEpisodeIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		res, err := New(mustWorld(t, openCrossing(8))).Run(context.Background(), agent.NewSimpleAgent())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if res.EpisodeID == "" {
			t.Fatal("empty episode ID")
		}
		if seen[res.EpisodeID] {
			t.Fatalf("episode ID %s repeated", res.EpisodeID)
		}
		seen[res.EpisodeID] = true
	}
}
