package sim

import "github.com/OmriLeviGit/agentic-assignment/pkg/world"

// Result is the only artifact an episode hands to reporting code. Scores,
// persistence and benchmark summaries are all derived from it; nothing
// reaches back into a finished simulator.
type Result struct {
	EpisodeID      string         `json:"episode_id"`
	Agent          string         `json:"agent"`
	ReachedGoal    bool           `json:"reached_goal"`
	Deadlocked     bool           `json:"deadlocked"`
	ItemsCollected int            `json:"items_collected"`
	ItemsTotal     int            `json:"items_total"`
	StepsTaken     int            `json:"steps_taken"`
	MaxSteps       int            `json:"max_steps"`
	Score          float64        `json:"score"`
	FinalPosition  world.Position `json:"final_position"`

	// FallbackSteps counts moves the decider sourced from its deterministic
	// fallback; zero for deciders without one.
	FallbackSteps int `json:"fallback_steps"`
}

// Outcome is a short human label for how the episode ended.
func (r Result) Outcome() string {
	switch {
	case r.ReachedGoal:
		return "reached goal"
	case r.Deadlocked:
		return "deadlocked"
	default:
		return "out of steps"
	}
}
