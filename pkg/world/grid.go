package world

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMove reports an attempt to move the agent to a cell that is
	// not among the legal moves from its current position.
	ErrInvalidMove = errors.New("invalid move")

	// ErrDeadlock reports a state the agent cannot make progress from. It is
	// a terminal episode outcome, not a crash.
	ErrDeadlock = errors.New("no viable move available")
)

// Layout pins every entity of a grid world to an explicit cell. It is the
// serialized form of a world: presets, YAML scenario files and the random
// generator all produce a Layout and hand it to New.
type Layout struct {
	Width     int        `json:"width" yaml:"width"`
	Height    int        `json:"height" yaml:"height"`
	Agent     Position   `json:"agent" yaml:"agent"`
	Goal      Position   `json:"goal" yaml:"goal"`
	Obstacles []Position `json:"obstacles" yaml:"obstacles"`
	Items     []Position `json:"items" yaml:"items"`
	MaxSteps  int        `json:"max_steps" yaml:"max_steps"`
}

// GridWorld owns the mutable state of one episode: the agent position, the
// step counter and the collected flag of every item. Collected flags only
// ever flip from false to true; nothing resets mid-episode.
type GridWorld struct {
	width  int
	height int

	obstacles map[Position]struct{}
	items     map[Position]bool // value true once collected
	goal      Position
	agent     Position

	stepsTaken  int
	maxSteps    int
	reachedGoal bool
}

// New validates a layout and builds the initial world state for it.
func New(l Layout) (*GridWorld, error) {
	if l.Width < 1 || l.Height < 1 {
		return nil, fmt.Errorf("grid dimensions %dx%d must be positive", l.Width, l.Height)
	}
	if l.MaxSteps < 1 {
		return nil, fmt.Errorf("step budget %d must be positive", l.MaxSteps)
	}

	w := &GridWorld{
		width:     l.Width,
		height:    l.Height,
		obstacles: make(map[Position]struct{}, len(l.Obstacles)),
		items:     make(map[Position]bool, len(l.Items)),
		goal:      l.Goal,
		agent:     l.Agent,
		maxSteps:  l.MaxSteps,
	}

	if !w.Contains(l.Agent) {
		return nil, fmt.Errorf("agent start %s is outside the %dx%d grid", l.Agent, l.Width, l.Height)
	}
	if !w.Contains(l.Goal) {
		return nil, fmt.Errorf("goal %s is outside the %dx%d grid", l.Goal, l.Width, l.Height)
	}
	if l.Agent == l.Goal {
		return nil, fmt.Errorf("agent start and goal are both %s", l.Agent)
	}

	for _, o := range l.Obstacles {
		if !w.Contains(o) {
			return nil, fmt.Errorf("obstacle %s is outside the %dx%d grid", o, l.Width, l.Height)
		}
		if o == l.Agent || o == l.Goal {
			return nil, fmt.Errorf("obstacle %s overlaps the agent or goal", o)
		}
		w.obstacles[o] = struct{}{}
	}

	for _, it := range l.Items {
		if !w.Contains(it) {
			return nil, fmt.Errorf("item %s is outside the %dx%d grid", it, l.Width, l.Height)
		}
		if _, blocked := w.obstacles[it]; blocked {
			return nil, fmt.Errorf("item %s overlaps an obstacle", it)
		}
		if it == l.Agent || it == l.Goal {
			return nil, fmt.Errorf("item %s overlaps the agent or goal", it)
		}
		w.items[it] = false
	}

	return w, nil
}

func (w *GridWorld) Width() int  { return w.width }
func (w *GridWorld) Height() int { return w.height }

// Contains reports whether p lies inside the grid bounds.
func (w *GridWorld) Contains(p Position) bool {
	return p.X >= 0 && p.X < w.width && p.Y >= 0 && p.Y < w.height
}

func (w *GridWorld) isFree(p Position) bool {
	if !w.Contains(p) {
		return false
	}
	_, blocked := w.obstacles[p]
	return !blocked
}

// PossibleMoves returns the legal single-cell moves from p: in-bounds,
// non-obstacle neighbors in the fixed north, south, west, east order.
func (w *GridWorld) PossibleMoves(p Position) []Position {
	moves := make([]Position, 0, 4)
	for _, n := range Neighbors(p) {
		if w.isFree(n) {
			moves = append(moves, n)
		}
	}
	return moves
}

// ApplyMove moves the agent to an adjacent free cell, advancing the step
// counter and collecting any item there. Illegal targets leave the world
// untouched and return ErrInvalidMove.
func (w *GridWorld) ApplyMove(to Position) error {
	if !ContainsPosition(w.PossibleMoves(w.agent), to) {
		return fmt.Errorf("move from %s to %s: %w", w.agent, to, ErrInvalidMove)
	}

	w.agent = to
	w.stepsTaken++

	if collected, present := w.items[to]; present && !collected {
		w.items[to] = true
	}
	if to == w.goal {
		w.reachedGoal = true
	}
	return nil
}

// Deadlocked reports whether the agent has no legal moves at all.
func (w *GridWorld) Deadlocked() bool {
	return len(w.PossibleMoves(w.agent)) == 0
}

func (w *GridWorld) AgentPosition() Position { return w.agent }
func (w *GridWorld) Goal() Position          { return w.goal }
func (w *GridWorld) StepsTaken() int         { return w.stepsTaken }
func (w *GridWorld) MaxSteps() int           { return w.maxSteps }
func (w *GridWorld) ReachedGoal() bool       { return w.reachedGoal }

// StepsRemaining returns how much of the step budget is left.
func (w *GridWorld) StepsRemaining() int {
	return w.maxSteps - w.stepsTaken
}

// ItemsTotal returns the number of items placed in the world.
func (w *GridWorld) ItemsTotal() int {
	return len(w.items)
}

// ItemsCollected returns how many items have been picked up so far.
func (w *GridWorld) ItemsCollected() int {
	n := 0
	for _, collected := range w.items {
		if collected {
			n++
		}
	}
	return n
}

// UncollectedItems returns the positions of items still on the grid, in
// row-major order.
func (w *GridWorld) UncollectedItems() []Position {
	out := make([]Position, 0, len(w.items))
	for p, collected := range w.items {
		if !collected {
			out = append(out, p)
		}
	}
	SortPositions(out)
	return out
}

// Obstacles returns the obstacle positions in row-major order.
func (w *GridWorld) Obstacles() []Position {
	out := make([]Position, 0, len(w.obstacles))
	for p := range w.obstacles {
		out = append(out, p)
	}
	SortPositions(out)
	return out
}
