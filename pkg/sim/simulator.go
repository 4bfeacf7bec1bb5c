package sim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/OmriLeviGit/agentic-assignment/pkg/agent"
	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
	"github.com/google/uuid"
)

const defaultHistorySize = 8

// StepEvent describes one applied move for observers such as renderers.
type StepEvent struct {
	Step          int
	From          world.Position
	To            world.Position
	Source        string
	ItemCollected bool
	ReachedGoal   bool
	Observation   world.Observation
}

// StepObserver receives every applied step, in order, on the loop goroutine.
type StepObserver func(StepEvent)

type SimParams struct {
	Observer    StepObserver
	Delay       time.Duration
	HistorySize int
	Safety      agent.Decider
}

type SimOption func(*SimParams)

// WithObserver registers a callback invoked after every applied step.
func WithObserver(obs StepObserver) SimOption {
	return func(p *SimParams) {
		p.Observer = obs
	}
}

// WithStepDelay inserts a pause after each step, for watchable playback.
func WithStepDelay(d time.Duration) SimOption {
	return func(p *SimParams) {
		p.Delay = d
	}
}

// WithHistorySize sets how many trailing positions observations carry.
func WithHistorySize(n int) SimOption {
	return func(p *SimParams) {
		p.HistorySize = n
	}
}

// WithSafetyDecider replaces the decider used to repair illegal or failed
// episode decisions.
func WithSafetyDecider(d agent.Decider) SimOption {
	return func(p *SimParams) {
		p.Safety = d
	}
}

// Simulator drives one decider through one world until the goal, a deadlock
// or step budget exhaustion. The loop is synchronous: one observation, one
// decision, one applied move per iteration, nothing concurrent.
type Simulator struct {
	world    *world.GridWorld
	observer StepObserver
	delay    time.Duration
	histSize int
	safety   agent.Decider
}

// New creates a simulator that owns w for the duration of the episode.
func New(w *world.GridWorld, opts ...SimOption) *Simulator {
	params := &SimParams{HistorySize: defaultHistorySize}
	for _, opt := range opts {
		opt(params)
	}
	if params.Safety == nil {
		params.Safety = agent.NewSimpleAgent()
	}

	return &Simulator{
		world:    w,
		observer: params.Observer,
		delay:    params.Delay,
		histSize: params.HistorySize,
		safety:   params.Safety,
	}
}

// Run plays the episode to completion and returns its result. Decider
// failures and illegal choices are repaired with the safety decider, and a
// deadlock is a normal terminal outcome, so the only error paths left are
// context cancellation and safety decider failure.
func (s *Simulator) Run(ctx context.Context, decider agent.Decider) (Result, error) {
	episodeID := "episode-" + uuid.New().String()
	trail := agent.NewHistory(s.histSize)
	trail.Push(s.world.AgentPosition())

	deadlocked := false

	for !s.world.ReachedGoal() && s.world.StepsTaken() < s.world.MaxSteps() {
		if err := ctx.Err(); err != nil {
			return s.result(episodeID, decider, deadlocked), err
		}

		if s.world.Deadlocked() {
			deadlocked = true
			break
		}

		obs := s.world.Observe(trail.Positions())
		from := s.world.AgentPosition()

		move, source, err := s.decide(ctx, decider, obs)
		if err != nil {
			if errors.Is(err, world.ErrDeadlock) {
				deadlocked = true
				break
			}
			return s.result(episodeID, decider, deadlocked), fmt.Errorf("episode %s: %w", episodeID, err)
		}

		itemsBefore := s.world.ItemsCollected()
		if err := s.world.ApplyMove(move); err != nil {
			// The safety decider only proposes legal moves, so this is a
			// world/decider contract violation worth dying loudly on.
			return s.result(episodeID, decider, deadlocked), fmt.Errorf("episode %s: apply move: %w", episodeID, err)
		}

		trail.Push(s.world.AgentPosition())

		if s.observer != nil {
			s.observer(StepEvent{
				Step:          s.world.StepsTaken(),
				From:          from,
				To:            move,
				Source:        source,
				ItemCollected: s.world.ItemsCollected() > itemsBefore,
				ReachedGoal:   s.world.ReachedGoal(),
				Observation:   s.world.Observe(trail.Positions()),
			})
		}

		if s.delay > 0 {
			select {
			case <-ctx.Done():
				return s.result(episodeID, decider, deadlocked), ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	return s.result(episodeID, decider, deadlocked), nil
}

// decide asks the episode decider for a move and repairs bad answers with
// the safety decider. A deadlock report passes through untouched; it is a
// terminal outcome, not a failure to recover from.
func (s *Simulator) decide(ctx context.Context, decider agent.Decider, obs world.Observation) (world.Position, string, error) {
	move, err := decider.DecideMove(ctx, obs)
	if err == nil && world.ContainsPosition(obs.LegalMoves, move) {
		return move, decider.Name(), nil
	}
	if err != nil && errors.Is(err, world.ErrDeadlock) {
		return world.Position{}, "", err
	}

	if err != nil {
		log.Printf("simulator: decider %s failed (%v), repairing with %s", decider.Name(), err, s.safety.Name())
	} else {
		log.Printf("simulator: decider %s chose illegal move %s, repairing with %s", decider.Name(), move, s.safety.Name())
	}

	move, err = s.safety.DecideMove(ctx, obs)
	if err != nil {
		return world.Position{}, "", err
	}
	return move, s.safety.Name(), nil
}

func (s *Simulator) result(id string, decider agent.Decider, deadlocked bool) Result {
	w := s.world

	fallbackSteps := 0
	if counter, ok := decider.(interface{ FallbackSteps() int }); ok {
		fallbackSteps = counter.FallbackSteps()
	}

	return Result{
		EpisodeID:      id,
		Agent:          decider.Name(),
		ReachedGoal:    w.ReachedGoal(),
		Deadlocked:     deadlocked,
		ItemsCollected: w.ItemsCollected(),
		ItemsTotal:     w.ItemsTotal(),
		StepsTaken:     w.StepsTaken(),
		MaxSteps:       w.MaxSteps(),
		Score:          scoreEpisode(w.ReachedGoal(), w.ItemsCollected(), w.ItemsTotal(), w.StepsTaken(), w.MaxSteps()),
		FinalPosition:  w.AgentPosition(),
		FallbackSteps:  fallbackSteps,
	}
}
