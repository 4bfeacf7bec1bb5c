package world

import (
	"fmt"
	"math/rand"
)

// placementAttemptsPerEntity bounds how hard the generator tries to find a
// free cell before giving up on a dense grid.
const placementAttemptsPerEntity = 10

// GenSpec parameterizes random world generation. The same seed always yields
// the same world.
type GenSpec struct {
	Width         int   `json:"width" yaml:"width"`
	Height        int   `json:"height" yaml:"height"`
	ObstacleCount int   `json:"obstacle_count" yaml:"obstacle_count"`
	ItemCount     int   `json:"item_count" yaml:"item_count"`
	MaxSteps      int   `json:"max_steps" yaml:"max_steps"`
	Seed          int64 `json:"seed" yaml:"seed"`
}

// Generate builds a random world: agent and goal first, then obstacles, then
// items, each avoiding everything placed before it. Placement attempts are
// bounded, so an overfull spec yields fewer entities rather than spinning.
func Generate(spec GenSpec) (*GridWorld, error) {
	if spec.Width < 2 || spec.Height < 2 {
		return nil, fmt.Errorf("grid dimensions %dx%d too small to place agent and goal", spec.Width, spec.Height)
	}
	if spec.ObstacleCount < 0 || spec.ItemCount < 0 {
		return nil, fmt.Errorf("entity counts must not be negative")
	}
	if spec.MaxSteps < 1 {
		return nil, fmt.Errorf("step budget %d must be positive", spec.MaxSteps)
	}

	rng := rand.New(rand.NewSource(spec.Seed))
	randomCell := func() Position {
		return Position{X: rng.Intn(spec.Width), Y: rng.Intn(spec.Height)}
	}

	agent := randomCell()
	goal := randomCell()
	for attempts := 0; goal == agent && attempts < placementAttemptsPerEntity*10; attempts++ {
		goal = randomCell()
	}
	if goal == agent {
		return nil, fmt.Errorf("could not place goal apart from agent on %dx%d grid", spec.Width, spec.Height)
	}

	taken := map[Position]struct{}{agent: {}, goal: {}}
	place := func(count int) []Position {
		placed := make([]Position, 0, count)
		for i := 0; i < count; i++ {
			for attempt := 0; attempt < placementAttemptsPerEntity; attempt++ {
				p := randomCell()
				if _, used := taken[p]; used {
					continue
				}
				taken[p] = struct{}{}
				placed = append(placed, p)
				break
			}
		}
		return placed
	}

	obstacles := place(spec.ObstacleCount)
	items := place(spec.ItemCount)

	return New(Layout{
		Width:     spec.Width,
		Height:    spec.Height,
		Agent:     agent,
		Goal:      goal,
		Obstacles: obstacles,
		Items:     items,
		MaxSteps:  spec.MaxSteps,
	})
}
