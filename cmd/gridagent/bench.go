package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/OmriLeviGit/agentic-assignment/internal/storage"
	"github.com/OmriLeviGit/agentic-assignment/pkg/experiment"
)

func newBenchCmd() *cobra.Command {
	wf := &worldFlags{}
	var (
		agentKind string
		episodes  int
		parallel  int
		csvPath   string
		dbPath    string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark an agent over many episodes and store the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			name, worlds, err := wf.resolve()
			if err != nil {
				return err
			}
			deciders, err := newDeciderFactory(ctx, agentKind)
			if err != nil {
				return err
			}

			opts := []experiment.BenchOption{
				experiment.WithEpisodes(episodes),
				experiment.WithParallelism(parallel),
			}
			if csvPath != "" {
				opts = append(opts, experiment.WithStatsFile(csvPath))
			}
			if dbPath != "" {
				store, err := storage.NewStore("sqlite", dbPath)
				if err != nil {
					return err
				}
				if err := store.Init(ctx); err != nil {
					return fmt.Errorf("open episode database: %w", err)
				}
				defer storage.CloseIfSupported(store)
				opts = append(opts, experiment.WithStore(store))
			}

			sum, err := experiment.NewBenchmark(name, worlds, deciders, opts...).Run(ctx)
			if err != nil {
				return err
			}
			printSummary(sum)
			return nil
		},
	}

	wf.register(cmd)
	cmd.Flags().StringVarP(&agentKind, "agent", "a", "simple", "decider: simple or advised")
	cmd.Flags().IntVarP(&episodes, "episodes", "n", 20, "number of episodes to play")
	cmd.Flags().IntVar(&parallel, "parallel", 4, "episodes running concurrently")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write per-episode stats to this CSV file")
	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "SQLite episode database path, empty to skip persistence")
	return cmd
}

func printSummary(sum experiment.Summary) {
	fmt.Printf("\nBenchmark %s\n", sum.RunID)
	fmt.Printf("  Scenario:     %s\n", sum.Scenario)
	fmt.Printf("  Agent:        %s\n", sum.Agent)
	fmt.Printf("  Episodes:     %d in %s\n", sum.Episodes, sum.Elapsed.Round(time.Millisecond))
	fmt.Printf("  Success rate: %.1f%% (%d reached goal, %d deadlocked)\n", sum.SuccessRate(), sum.Successes, sum.Deadlocks)
	fmt.Printf("  Score:        %.2f mean (std %.2f)\n", sum.MeanScore, sum.StdScore)
	fmt.Printf("  Steps:        %.1f mean\n", sum.MeanSteps)
	fmt.Printf("  Items:        %.1f mean\n", sum.MeanItems)
	if sum.FallbackSteps > 0 {
		fmt.Printf("  Fallback:     %d steps across the run\n", sum.FallbackSteps)
	}
}
