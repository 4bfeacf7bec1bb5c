package agent

import (
	"context"
	"fmt"

	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
)

// SimpleAgent is the deterministic rule-based decider. Each step it walks
// the shortest path toward the nearest uncollected item whose detour still
// leaves enough budget to reach the goal, and otherwise heads straight for
// the goal. Given equal observations it always returns the same move.
type SimpleAgent struct{}

// NewSimpleAgent creates the rule-based decider.
func NewSimpleAgent() *SimpleAgent {
	return &SimpleAgent{}
}

func (a *SimpleAgent) Name() string {
	return "simple"
}

// DecideMove implements Decider.
func (a *SimpleAgent) DecideMove(_ context.Context, obs world.Observation) (world.Position, error) {
	if len(obs.LegalMoves) == 0 {
		return world.Position{}, fmt.Errorf("agent at %s has no legal moves: %w", obs.Agent, world.ErrDeadlock)
	}

	fromAgent := search(obs, obs.Agent)
	fromGoal := search(obs, obs.Goal)

	// Nearest reachable item by path length. Items arrive in row-major
	// order, so keeping the first strict minimum breaks ties toward the
	// top-left of the grid.
	var (
		target     world.Position
		targetDist int
		found      bool
	)
	for _, item := range obs.Items {
		d, reachable := fromAgent.dist[item]
		if !reachable {
			continue
		}
		if !found || d < targetDist {
			target, targetDist, found = item, d, true
		}
	}

	if found {
		returnDist, returnable := fromGoal.dist[target]
		if returnable && obs.StepsTaken+targetDist+returnDist <= obs.MaxSteps {
			return fromAgent.firstStepTo(target)
		}
	}

	if _, reachable := fromGoal.dist[obs.Agent]; reachable && obs.Agent != obs.Goal {
		return fromAgent.firstStepTo(obs.Goal)
	}

	return world.Position{}, fmt.Errorf("goal %s unreachable from %s: %w", obs.Goal, obs.Agent, world.ErrDeadlock)
}

// searchResult holds BFS distances and parent pointers from one start cell.
type searchResult struct {
	start world.Position
	dist  map[world.Position]int
	prev  map[world.Position]world.Position
}

// search runs a breadth-first search from start across the unblocked cells
// of the observation. Neighbors expand in the fixed move order, so parent
// pointers, and therefore extracted paths, are deterministic.
func search(obs world.Observation, start world.Position) *searchResult {
	blocked := make(map[world.Position]struct{}, len(obs.Obstacles))
	for _, o := range obs.Obstacles {
		blocked[o] = struct{}{}
	}

	res := &searchResult{
		start: start,
		dist:  map[world.Position]int{start: 0},
		prev:  make(map[world.Position]world.Position),
	}

	queue := []world.Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, n := range world.Neighbors(cur) {
			if n.X < 0 || n.X >= obs.Width || n.Y < 0 || n.Y >= obs.Height {
				continue
			}
			if _, bad := blocked[n]; bad {
				continue
			}
			if _, seen := res.dist[n]; seen {
				continue
			}
			res.dist[n] = res.dist[cur] + 1
			res.prev[n] = cur
			queue = append(queue, n)
		}
	}
	return res
}

// firstStepTo walks the parent chain back from target and returns the cell
// right after the search start.
func (r *searchResult) firstStepTo(target world.Position) (world.Position, error) {
	if target == r.start {
		return world.Position{}, fmt.Errorf("already at %s", target)
	}
	if _, reachable := r.dist[target]; !reachable {
		return world.Position{}, fmt.Errorf("no path from %s to %s: %w", r.start, target, world.ErrDeadlock)
	}

	step := target
	for r.prev[step] != r.start {
		step = r.prev[step]
	}
	return step, nil
}
