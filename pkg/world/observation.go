package world

// Observation is the read-only snapshot a decider receives each step. It
// copies everything it carries, so holding one across steps never exposes
// later world mutations.
type Observation struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Agent Position `json:"agent"`
	Goal  Position `json:"goal"`

	// Items lists uncollected items only, row-major.
	Items     []Position `json:"items"`
	Obstacles []Position `json:"obstacles"`

	// LegalMoves holds the moves available right now, in the fixed north,
	// south, west, east order.
	LegalMoves []Position `json:"legal_moves"`

	// History is the recent trail of agent positions, oldest first.
	History []Position `json:"history"`

	StepsTaken int `json:"steps_taken"`
	MaxSteps   int `json:"max_steps"`

	ItemsCollected int `json:"items_collected"`
	ItemsTotal     int `json:"items_total"`
}

// Observe projects the current state into an Observation. The caller supplies
// the recent position trail it wants deciders to see.
func (w *GridWorld) Observe(history []Position) Observation {
	trail := make([]Position, len(history))
	copy(trail, history)

	return Observation{
		Width:          w.width,
		Height:         w.height,
		Agent:          w.agent,
		Goal:           w.goal,
		Items:          w.UncollectedItems(),
		Obstacles:      w.Obstacles(),
		LegalMoves:     w.PossibleMoves(w.agent),
		History:        trail,
		StepsTaken:     w.stepsTaken,
		MaxSteps:       w.maxSteps,
		ItemsCollected: w.ItemsCollected(),
		ItemsTotal:     w.ItemsTotal(),
	}
}
