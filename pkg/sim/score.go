package sim

import "math"

// Scoring weights stay unexported on purpose: deciders are told only
// qualitatively what the score rewards, never the numbers, so advisory
// prompts cannot leak them.
const (
	goalBonus        = 30.0
	collectionWeight = 30.0
	efficiencyWeight = 40.0

	maxScore = 100.0
)

// scoreEpisode maps an episode outcome to its composite score. It is a pure
// function of its inputs: the same outcome always scores the same, whether
// the episode ended at the goal, in a deadlock or out of steps.
func scoreEpisode(reachedGoal bool, itemsCollected, itemsTotal, stepsTaken, maxSteps int) float64 {
	score := 0.0
	if reachedGoal {
		score += goalBonus
	}
	if itemsTotal > 0 {
		score += collectionWeight * float64(itemsCollected) / float64(itemsTotal)
	}
	score += efficiencyWeight * efficiencyFactor(reachedGoal, stepsTaken, maxSteps)

	return math.Min(maxScore, math.Max(0, score))
}

// efficiencyFactor rewards finishing with unused budget, scaled linearly.
// It pays out only when the goal was reached, so stalling early never reads
// as efficient.
func efficiencyFactor(reachedGoal bool, stepsTaken, maxSteps int) float64 {
	if !reachedGoal || maxSteps <= 0 {
		return 0
	}
	unused := float64(maxSteps-stepsTaken) / float64(maxSteps)
	return math.Min(1, math.Max(0, unused))
}
