// Package experiment runs benchmark batches: many episodes of the same
// scenario fanned out across goroutines, collected into per-episode records
// and one aggregate run summary.
package experiment

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/OmriLeviGit/agentic-assignment/internal/storage"
	"github.com/OmriLeviGit/agentic-assignment/pkg/agent"
	"github.com/OmriLeviGit/agentic-assignment/pkg/sim"
	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
	"github.com/google/uuid"
)

const (
	defaultEpisodes    = 20
	defaultParallelism = 4
)

// WorldFactory builds the world for one episode and reports the seed it came
// from, zero for fixed layouts. Each call must return a fresh world; episodes
// own their worlds exclusively.
type WorldFactory func(episode int) (*world.GridWorld, int64, error)

// DeciderFactory builds a fresh decider per episode, so per-episode state
// such as advice history and fallback counters never leaks between episodes.
type DeciderFactory func(episode int) agent.Decider

// FixedWorld replays the same layout every episode.
func FixedWorld(l world.Layout) WorldFactory {
	return func(int) (*world.GridWorld, int64, error) {
		w, err := world.New(l)
		return w, 0, err
	}
}

// SeededWorlds derives one generation seed per episode from the base spec.
func SeededWorlds(spec world.GenSpec) WorldFactory {
	return func(episode int) (*world.GridWorld, int64, error) {
		s := spec
		s.Seed = spec.Seed + int64(episode)
		w, err := world.Generate(s)
		return w, s.Seed, err
	}
}

// Summary aggregates one benchmark run.
type Summary struct {
	RunID         string
	Scenario      string
	Agent         string
	Episodes      int
	Successes     int
	Deadlocks     int
	MeanScore     float64
	StdScore      float64
	MeanSteps     float64
	MeanItems     float64
	FallbackSteps int
	Elapsed       time.Duration
}

// SuccessRate returns the goal-reached fraction as a percentage.
func (s Summary) SuccessRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Episodes) * 100
}

type BenchParams struct {
	RunID       string
	Episodes    int
	Parallelism int
	Store       storage.Store
	StatsPath   string
}

type BenchOption func(*BenchParams)

func WithRunID(id string) BenchOption {
	return func(p *BenchParams) {
		p.RunID = id
	}
}

// WithEpisodes sets how many episodes the run plays.
func WithEpisodes(n int) BenchOption {
	return func(p *BenchParams) {
		p.Episodes = n
	}
}

// WithParallelism bounds how many episodes run concurrently.
func WithParallelism(n int) BenchOption {
	return func(p *BenchParams) {
		p.Parallelism = n
	}
}

// WithStore persists per-episode records and the run summary.
func WithStore(store storage.Store) BenchOption {
	return func(p *BenchParams) {
		p.Store = store
	}
}

// WithStatsFile writes a per-episode CSV to the given path.
func WithStatsFile(path string) BenchOption {
	return func(p *BenchParams) {
		p.StatsPath = path
	}
}

// Benchmark plays one scenario many times with independent worlds and
// deciders. Episodes share nothing mutable, so they run in parallel freely.
type Benchmark struct {
	runID       string
	scenario    string
	worlds      WorldFactory
	deciders    DeciderFactory
	episodes    int
	parallelism int
	store       storage.Store
	statsPath   string
}

// NewBenchmark creates a benchmark for one named scenario.
func NewBenchmark(scenario string, worlds WorldFactory, deciders DeciderFactory, opts ...BenchOption) *Benchmark {
	params := &BenchParams{
		RunID:       "run-" + uuid.New().String(),
		Episodes:    defaultEpisodes,
		Parallelism: defaultParallelism,
	}
	for _, opt := range opts {
		opt(params)
	}
	if params.Episodes < 1 {
		params.Episodes = 1
	}
	if params.Parallelism < 1 {
		params.Parallelism = 1
	}

	return &Benchmark{
		runID:       params.RunID,
		scenario:    scenario,
		worlds:      worlds,
		deciders:    deciders,
		episodes:    params.Episodes,
		parallelism: params.Parallelism,
		store:       params.Store,
		statsPath:   params.StatsPath,
	}
}

func (b *Benchmark) RunID() string {
	return b.runID
}

type episodeOutcome struct {
	episode int
	seed    int64
	result  sim.Result
}

// Run plays every episode and returns the aggregate summary. A failed world
// build or a cancelled context aborts the run; everything an episode itself
// can go through ends in a normal Result.
func (b *Benchmark) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	log.Printf("benchmark %s: %d episodes of %s, %d in parallel", b.runID, b.episodes, b.scenario, b.parallelism)

	outcomes := make(chan episodeOutcome, b.episodes)
	errs := make(chan error, b.episodes)
	sem := make(chan struct{}, b.parallelism)

	var wg sync.WaitGroup
	for i := 0; i < b.episodes; i++ {
		wg.Add(1)
		go func(episode int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			w, seed, err := b.worlds(episode)
			if err != nil {
				errs <- fmt.Errorf("episode %d world: %w", episode, err)
				return
			}
			res, err := sim.New(w).Run(ctx, b.deciders(episode))
			if err != nil {
				errs <- fmt.Errorf("episode %d: %w", episode, err)
				return
			}
			outcomes <- episodeOutcome{episode: episode, seed: seed, result: res}
		}(i)
	}
	wg.Wait()
	close(outcomes)
	close(errs)

	if err := <-errs; err != nil {
		return Summary{}, err
	}

	collected := make([]episodeOutcome, 0, b.episodes)
	for o := range outcomes {
		collected = append(collected, o)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].episode < collected[j].episode })

	summary := b.summarize(collected, time.Since(start))
	b.writeStats(collected)
	b.persist(ctx, collected, summary)
	logSummary(summary)
	return summary, nil
}

func (b *Benchmark) summarize(outcomes []episodeOutcome, elapsed time.Duration) Summary {
	sum := Summary{
		RunID:    b.runID,
		Scenario: b.scenario,
		Episodes: len(outcomes),
		Elapsed:  elapsed,
	}

	var totalScore, totalSteps, totalItems float64
	scores := make([]float64, 0, len(outcomes))
	for _, o := range outcomes {
		res := o.result
		sum.Agent = res.Agent
		if res.ReachedGoal {
			sum.Successes++
		}
		if res.Deadlocked {
			sum.Deadlocks++
		}
		sum.FallbackSteps += res.FallbackSteps
		totalScore += res.Score
		totalSteps += float64(res.StepsTaken)
		totalItems += float64(res.ItemsCollected)
		scores = append(scores, res.Score)
	}

	if sum.Episodes > 0 {
		n := float64(sum.Episodes)
		sum.MeanScore = totalScore / n
		sum.MeanSteps = totalSteps / n
		sum.MeanItems = totalItems / n

		var sumSquares float64
		for _, s := range scores {
			diff := s - sum.MeanScore
			sumSquares += diff * diff
		}
		sum.StdScore = math.Sqrt(sumSquares / n)
	}
	return sum
}

// writeStats logs one CSV row per episode. Stats are best-effort: a failed
// write warns and the run keeps its summary.
func (b *Benchmark) writeStats(outcomes []episodeOutcome) {
	if b.statsPath == "" {
		return
	}

	f, err := os.Create(b.statsPath)
	if err != nil {
		log.Printf("Warning: failed to create stats file: %v", err)
		return
	}
	defer f.Close()

	f.WriteString("Episode,Seed,Agent,Outcome,StepsTaken,MaxSteps,ItemsCollected,ItemsTotal,FallbackSteps,Score\n")
	for _, o := range outcomes {
		res := o.result
		line := fmt.Sprintf("%d,%d,%s,%s,%d,%d,%d,%d,%d,%.2f\n",
			o.episode, o.seed, res.Agent, res.Outcome(),
			res.StepsTaken, res.MaxSteps, res.ItemsCollected, res.ItemsTotal,
			res.FallbackSteps, res.Score,
		)
		if _, err := f.WriteString(line); err != nil {
			log.Printf("Warning: failed to write to stats file: %v", err)
			return
		}
	}
	log.Printf("benchmark %s: per-episode stats written to %s", b.runID, b.statsPath)
}

func (b *Benchmark) persist(ctx context.Context, outcomes []episodeOutcome, summary Summary) {
	if b.store == nil {
		return
	}

	now := time.Now()
	for _, o := range outcomes {
		res := o.result
		rec := storage.EpisodeRecord{
			ID:             res.EpisodeID,
			RunID:          b.runID,
			Agent:          res.Agent,
			Scenario:       b.scenario,
			Seed:           o.seed,
			ReachedGoal:    res.ReachedGoal,
			Deadlocked:     res.Deadlocked,
			ItemsCollected: res.ItemsCollected,
			ItemsTotal:     res.ItemsTotal,
			StepsTaken:     res.StepsTaken,
			MaxSteps:       res.MaxSteps,
			FallbackSteps:  res.FallbackSteps,
			Score:          res.Score,
			CreatedAt:      now,
		}
		if err := b.store.SaveEpisode(ctx, rec); err != nil {
			log.Printf("Warning: failed to save episode %s: %v", res.EpisodeID, err)
		}
	}

	if err := b.store.SaveRunSummary(ctx, storage.RunSummary{
		RunID:     b.runID,
		Agent:     summary.Agent,
		Scenario:  b.scenario,
		Episodes:  summary.Episodes,
		Successes: summary.Successes,
		Deadlocks: summary.Deadlocks,
		MeanScore: summary.MeanScore,
		MeanSteps: summary.MeanSteps,
		CreatedAt: now,
	}); err != nil {
		log.Printf("Warning: failed to save run summary: %v", err)
	}
}

func logSummary(s Summary) {
	log.Printf("=== Benchmark %s ===", s.RunID)
	log.Printf("  Scenario: %s, Agent: %s", s.Scenario, s.Agent)
	log.Printf("  Episodes: %d in %s", s.Episodes, s.Elapsed.Round(time.Millisecond))
	log.Printf("  Success Rate: %.1f%% (%d reached goal, %d deadlocked)", s.SuccessRate(), s.Successes, s.Deadlocks)
	log.Printf("  Score: %.2f mean, %.2f std dev", s.MeanScore, s.StdScore)
	log.Printf("  Mean Steps: %.1f, Mean Items: %.1f", s.MeanSteps, s.MeanItems)
	if s.FallbackSteps > 0 {
		log.Printf("  Fallback Steps: %d", s.FallbackSteps)
	}
}
