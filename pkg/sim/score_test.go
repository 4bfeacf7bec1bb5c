package sim

import (
	"math"
	"testing"
)

func TestScoreEpisode(t *testing.T) {
	tests := []struct {
		name           string
		reachedGoal    bool
		itemsCollected int
		itemsTotal     int
		stepsTaken     int
		maxSteps       int
		want           float64
	}{
		{"goal with all items and budget left", true, 3, 3, 10, 100, 30 + 30 + 40*0.9},
		{"goal on the last step earns no efficiency", true, 1, 1, 8, 8, 60},
		{"goal with no items placed", true, 0, 0, 5, 10, 30 + 40*0.5},
		{"no goal no items", false, 0, 3, 20, 20, 0},
		{"no goal still credits collection", false, 2, 4, 20, 20, 15},
		{"stopping early without the goal earns nothing extra", false, 0, 0, 1, 100, 0},
		{"perfect score is exactly the cap", true, 2, 2, 0, 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreEpisode(tt.reachedGoal, tt.itemsCollected, tt.itemsTotal, tt.stepsTaken, tt.maxSteps)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("scoreEpisode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	combos := []struct {
		reached        bool
		collected, total, steps, max int
	}{
		{true, 0, 0, 0, 1},
		{true, 5, 5, 1, 1000},
		{false, 0, 10, 999, 1000},
		{true, 1, 3, 7, 7},
		{false, 0, 0, 0, 0},
	}
	for _, c := range combos {
		got := scoreEpisode(c.reached, c.collected, c.total, c.steps, c.max)
		if got < 0 || got > 100 {
			t.Errorf("scoreEpisode(%+v) = %v, outside [0, 100]", c, got)
		}
	}
}

// A deadlocked episode and an out-of-steps episode with identical progress
// must score identically; how the episode ended carries no weight of its own.
func TestScoreIgnoresTerminationKind(t *testing.T) {
	a := scoreEpisode(false, 2, 5, 12, 40)
	b := scoreEpisode(false, 2, 5, 12, 40)
	if a != b {
		t.Errorf("identical outcomes scored differently: %v vs %v", a, b)
	}
	if want := 30.0 * 2 / 5; math.Abs(a-want) > 1e-9 {
		t.Errorf("scoreEpisode() = %v, want %v", a, want)
	}
}
