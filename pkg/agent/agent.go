package agent

import (
	"context"
	"errors"

	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
)

// Decider picks the agent's next move from a world observation. A decider
// never mutates the world; it returns either one of the observation's legal
// moves or an error, with world.ErrDeadlock reserved for "no viable move
// exists at all".
type Decider interface {
	// Name identifies the decider in logs and results.
	Name() string
	// DecideMove returns the next position to move to.
	DecideMove(ctx context.Context, obs world.Observation) (world.Position, error)
}

// GenerateOptions bound a single text generation request.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int64
}

// TextGenerator is the advisory capability an AdvisedAgent consults. Any
// backend failure (transport, auth, rate limit, timeout) surfaces as an
// error; callers treat all of them as "this tier is unavailable right now"
// and never inspect the cause.
type TextGenerator interface {
	// Name identifies the tier in logs, e.g. "gemini" or "ollama".
	Name() string
	// Generate returns the raw model response for a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// ErrNoMoveToken reports a generator response carrying no recognizable move
// token in any accepted form.
var ErrNoMoveToken = errors.New("no move token in response")
