package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OmriLeviGit/agentic-assignment/internal/storage"
)

func newResultsCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List stored benchmark runs and recent episodes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := storage.NewStore("sqlite", dbPath)
			if err != nil {
				return err
			}
			if err := store.Init(ctx); err != nil {
				return fmt.Errorf("open episode database: %w", err)
			}
			defer storage.CloseIfSupported(store)

			runs, err := store.ListRunSummaries(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Printf("Runs (%d newest)\n", len(runs))
			for _, r := range runs {
				rate := 0.0
				if r.Episodes > 0 {
					rate = float64(r.Successes) / float64(r.Episodes) * 100
				}
				fmt.Printf("  %s  %-10s %-14s %3d episodes  %5.1f%% success  %6.2f mean score  %s\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"), r.Agent, r.Scenario, r.Episodes, rate, r.MeanScore, r.RunID)
			}

			recs, err := store.ListEpisodes(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Printf("\nEpisodes (%d newest)\n", len(recs))
			for _, rec := range recs {
				fmt.Printf("  %s  %-10s %-14s steps %3d/%3d  items %d/%d  score %6.2f  %s\n",
					rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Agent, rec.Scenario,
					rec.StepsTaken, rec.MaxSteps, rec.ItemsCollected, rec.ItemsTotal, rec.Score, outcomeLabel(rec))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "SQLite episode database path")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "how many records to list")
	return cmd
}

func outcomeLabel(rec storage.EpisodeRecord) string {
	switch {
	case rec.ReachedGoal:
		return "reached goal"
	case rec.Deadlocked:
		return "deadlocked"
	default:
		return "out of steps"
	}
}
