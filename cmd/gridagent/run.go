package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/OmriLeviGit/agentic-assignment/internal/render"
	"github.com/OmriLeviGit/agentic-assignment/internal/storage"
	"github.com/OmriLeviGit/agentic-assignment/pkg/sim"
)

func newRunCmd() *cobra.Command {
	wf := &worldFlags{}
	var (
		agentKind string
		watch     bool
		delay     time.Duration
		save      bool
		dbPath    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one episode and print its result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			name, worlds, err := wf.resolve()
			if err != nil {
				return err
			}
			w, seed, err := worlds(0)
			if err != nil {
				return err
			}
			decider, err := buildDecider(ctx, agentKind)
			if err != nil {
				return err
			}

			noColor, _ := cmd.Flags().GetBool("no-color")
			r := render.New(os.Stdout, !noColor)

			var opts []sim.SimOption
			if watch {
				r.Frame(w.Observe(nil))
				opts = append(opts,
					sim.WithObserver(func(ev sim.StepEvent) {
						r.ClearScreen()
						r.Frame(ev.Observation)
						r.StepLine(ev)
					}),
					sim.WithStepDelay(delay),
				)
			}

			res, err := sim.New(w, opts...).Run(ctx, decider)
			if err != nil {
				return err
			}
			if res.ReachedGoal {
				r.Victory()
			}
			r.Summary(name, res)

			if save {
				return saveEpisode(ctx, dbPath, name, seed, res)
			}
			return nil
		},
	}

	wf.register(cmd)
	cmd.Flags().StringVarP(&agentKind, "agent", "a", "simple", "decider: simple or advised")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "render every step")
	cmd.Flags().DurationVar(&delay, "delay", 300*time.Millisecond, "pause between rendered steps")
	cmd.Flags().BoolVar(&save, "save", false, "persist the result to the episode database")
	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "SQLite episode database path")
	return cmd
}

func saveEpisode(ctx context.Context, dbPath, scenario string, seed int64, res sim.Result) error {
	store, err := storage.NewStore("sqlite", dbPath)
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("open episode database: %w", err)
	}
	defer storage.CloseIfSupported(store)

	rec := storage.EpisodeRecord{
		ID:             res.EpisodeID,
		RunID:          "adhoc",
		Agent:          res.Agent,
		Scenario:       scenario,
		Seed:           seed,
		ReachedGoal:    res.ReachedGoal,
		Deadlocked:     res.Deadlocked,
		ItemsCollected: res.ItemsCollected,
		ItemsTotal:     res.ItemsTotal,
		StepsTaken:     res.StepsTaken,
		MaxSteps:       res.MaxSteps,
		FallbackSteps:  res.FallbackSteps,
		Score:          res.Score,
		CreatedAt:      time.Now(),
	}
	if err := store.SaveEpisode(ctx, rec); err != nil {
		return fmt.Errorf("save episode: %w", err)
	}
	fmt.Printf("Saved episode %s to %s\n", res.EpisodeID, dbPath)
	return nil
}
