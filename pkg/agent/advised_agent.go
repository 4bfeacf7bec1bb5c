package agent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
	"github.com/google/uuid"
)

const MOVE_PROMPT_TEMPLATE = `You are an agent on a %dx%d grid. Coordinates are (x, y): x grows east, y grows south, and (0, 0) is the top-left cell.
You move one cell per step. Obstacles block movement. Entering a cell that holds an item collects it automatically. The episode ends when you reach the goal or run out of steps.
Scoring favors reaching the goal, collecting a larger share of the items, and finishing with unused steps. The exact weights are not disclosed, so do not try to compute scores.

CURRENT STATE:
- You are at %s
- The goal is at %s
- Steps used: %d of %d
- Uncollected items: %s
- Obstacles: %s
%sLEGAL MOVES:
%s
Briefly reason about which legal move makes the most progress, then give your answer as the move number in the exact format <move>N</move>.`

const (
	defaultDecisionTimeout = 15 * time.Second
	defaultHistorySize     = 8
	defaultTemperature     = 0.2
	defaultMaxTokens       = 256
)

var (
	moveTagPattern    = regexp.MustCompile(`(?i)<move>\s*(\d+)\s*</move>`)
	coordinatePattern = regexp.MustCompile(`\(\s*(-?\d+)\s*,\s*(-?\d+)\s*\)`)
)

// AdvisedAgent asks a chain of text generation tiers for each move, in
// order, and falls back to a deterministic decider when every tier fails.
// A tier fails by erroring, timing out, answering with no recognizable move
// token, or naming an illegal cell; any of these just means the next tier
// gets asked. Episodes therefore always progress.
type AdvisedAgent struct {
	id       string
	chain    []TextGenerator
	fallback Decider
	history  *History
	timeout  time.Duration
	genOpts  GenerateOptions

	fallbackSteps int
	lastSource    string
}

type AgentParams struct {
	AgentID     string
	Generators  []TextGenerator
	Fallback    Decider
	Timeout     time.Duration
	HistorySize int
	Options     GenerateOptions
}

type AgentOption func(*AgentParams)

func WithAgentId(id string) AgentOption {
	return func(p *AgentParams) {
		p.AgentID = id
	}
}

// WithGenerators sets the advisory tiers in consultation order.
func WithGenerators(gens ...TextGenerator) AgentOption {
	return func(p *AgentParams) {
		p.Generators = gens
	}
}

// WithFallback replaces the default rule-based fallback decider.
func WithFallback(d Decider) AgentOption {
	return func(p *AgentParams) {
		p.Fallback = d
	}
}

// WithDecisionTimeout bounds each single generator call.
func WithDecisionTimeout(d time.Duration) AgentOption {
	return func(p *AgentParams) {
		p.Timeout = d
	}
}

// WithHistorySize sets how many accepted advised moves the prompt recalls.
func WithHistorySize(n int) AgentOption {
	return func(p *AgentParams) {
		p.HistorySize = n
	}
}

func WithGenerateOptions(opts GenerateOptions) AgentOption {
	return func(p *AgentParams) {
		p.Options = opts
	}
}

func defaultAgentParams() *AgentParams {
	return &AgentParams{
		AgentID:     "agent-" + uuid.New().String(),
		Timeout:     defaultDecisionTimeout,
		HistorySize: defaultHistorySize,
		Options: GenerateOptions{
			Temperature: defaultTemperature,
			MaxTokens:   defaultMaxTokens,
		},
	}
}

// NewAdvisedAgent creates an advised agent. Without options it has no
// advisory tiers and behaves exactly like its fallback.
func NewAdvisedAgent(opts ...AgentOption) *AdvisedAgent {
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}
	if params.Fallback == nil {
		params.Fallback = NewSimpleAgent()
	}

	return &AdvisedAgent{
		id:       params.AgentID,
		chain:    params.Generators,
		fallback: params.Fallback,
		history:  NewHistory(params.HistorySize),
		timeout:  params.Timeout,
		genOpts:  params.Options,
	}
}

func (a *AdvisedAgent) Name() string {
	return "advised"
}

func (a *AdvisedAgent) GetID() string {
	return a.id
}

// FallbackSteps returns how many moves the fallback decider supplied.
func (a *AdvisedAgent) FallbackSteps() int {
	return a.fallbackSteps
}

// LastSource names the tier that produced the most recent move.
func (a *AdvisedAgent) LastSource() string {
	return a.lastSource
}

// DecideMove implements Decider.
func (a *AdvisedAgent) DecideMove(ctx context.Context, obs world.Observation) (world.Position, error) {
	if len(obs.LegalMoves) == 0 {
		// Nothing to advise on; let the fallback report the terminal state.
		return a.delegate(ctx, obs)
	}

	prompt := a.buildMovePrompt(obs)
	for _, gen := range a.chain {
		move, err := a.consult(ctx, gen, prompt, obs.LegalMoves)
		if err != nil {
			log.Printf("agent %s: %s advisor rejected: %v", a.id, gen.Name(), err)
			continue
		}
		a.history.Push(move)
		a.lastSource = gen.Name()
		return move, nil
	}

	return a.delegate(ctx, obs)
}

// consult runs one advisory tier under the decision timeout and validates
// its answer against the legal moves.
func (a *AdvisedAgent) consult(ctx context.Context, gen TextGenerator, prompt string, legal []world.Position) (world.Position, error) {
	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	response, err := gen.Generate(genCtx, prompt, a.genOpts)
	if err != nil {
		return world.Position{}, err
	}

	move, err := parseMove(response, legal)
	if err != nil {
		return world.Position{}, err
	}
	if !world.ContainsPosition(legal, move) {
		return world.Position{}, fmt.Errorf("advised move %s is not legal here: %w", move, world.ErrInvalidMove)
	}
	return move, nil
}

func (a *AdvisedAgent) delegate(ctx context.Context, obs world.Observation) (world.Position, error) {
	move, err := a.fallback.DecideMove(ctx, obs)
	if err != nil {
		return world.Position{}, err
	}
	a.fallbackSteps++
	a.lastSource = a.fallback.Name()
	return move, nil
}

func (a *AdvisedAgent) buildMovePrompt(obs world.Observation) string {
	var recent strings.Builder
	if len(obs.History) > 0 {
		fmt.Fprintf(&recent, "- Your recent path: %s\n", formatPositions(obs.History))
	}
	if advised := a.history.Positions(); len(advised) > 0 {
		fmt.Fprintf(&recent, "- Your recent accepted advice: %s\n", formatPositions(advised))
	}

	return fmt.Sprintf(MOVE_PROMPT_TEMPLATE,
		obs.Width,
		obs.Height,
		obs.Agent,
		obs.Goal,
		obs.StepsTaken,
		obs.MaxSteps,
		formatPositions(obs.Items),
		formatPositions(obs.Obstacles),
		recent.String(),
		formatLegalMoves(obs),
	)
}

// parseMove extracts the move named by a generator response. It accepts a
// <move>N</move> tag, a bare (x, y) coordinate, or a bare move number. Index
// forms resolve against the enumerated legal moves; the coordinate form is
// returned as written so the caller can reject illegal cells explicitly.
func parseMove(response string, legal []world.Position) (world.Position, error) {
	if m := moveTagPattern.FindStringSubmatch(response); m != nil {
		return resolveIndex(m[1], legal)
	}

	if m := coordinatePattern.FindStringSubmatch(response); m != nil {
		x, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[2])
		return world.Position{X: x, Y: y}, nil
	}

	if bare := strings.TrimSpace(response); bare != "" {
		if _, err := strconv.Atoi(bare); err == nil {
			return resolveIndex(bare, legal)
		}
	}

	return world.Position{}, fmt.Errorf("%w: %q", ErrNoMoveToken, trimForLog(response))
}

// resolveIndex maps a 1-based move number onto the legal move list.
func resolveIndex(token string, legal []world.Position) (world.Position, error) {
	idx, err := strconv.Atoi(token)
	if err != nil || idx < 1 || idx > len(legal) {
		return world.Position{}, fmt.Errorf("%w: move number %q out of range 1..%d", ErrNoMoveToken, token, len(legal))
	}
	return legal[idx-1], nil
}

func formatPositions(ps []world.Position) string {
	if len(ps) == 0 {
		return "none"
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

func formatLegalMoves(obs world.Observation) string {
	var b strings.Builder
	for i, m := range obs.LegalMoves {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, m, world.DirectionName(obs.Agent, m))
	}
	return b.String()
}

func trimForLog(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
