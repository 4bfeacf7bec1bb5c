package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/OmriLeviGit/agentic-assignment/pkg/agent"
	"github.com/OmriLeviGit/agentic-assignment/pkg/config"
	"github.com/OmriLeviGit/agentic-assignment/pkg/experiment"
	"github.com/OmriLeviGit/agentic-assignment/pkg/providers"
	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
)

const defaultDBPath = "gridagent.db"

func main() {
	for _, envFile := range []string{
		".env",
		"../../.env",
		"../../../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "gridagent",
		Short: "gridagent evaluates navigation agents in a deterministic grid world, from a rule-based baseline to LLM-advised deciders.",
	}
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored terminal output")

	rootCmd.AddCommand(newPlayCmd(), newRunCmd(), newBenchCmd(), newResultsCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newDeciderFactory resolves the decider kind once, so advisory tiers are
// probed a single time rather than once per episode.
func newDeciderFactory(ctx context.Context, kind string) (experiment.DeciderFactory, error) {
	switch kind {
	case "simple":
		return func(int) agent.Decider { return agent.NewSimpleAgent() }, nil
	case "advised":
		chain := providers.DefaultChain(ctx)
		if len(chain) == 0 {
			log.Println("no advisory tier available; every move will come from the rule-based fallback")
		}
		return func(int) agent.Decider {
			return agent.NewAdvisedAgent(agent.WithGenerators(chain...))
		}, nil
	default:
		return nil, fmt.Errorf("unknown agent %q (use simple or advised)", kind)
	}
}

func buildDecider(ctx context.Context, kind string) (agent.Decider, error) {
	factory, err := newDeciderFactory(ctx, kind)
	if err != nil {
		return nil, err
	}
	return factory(0), nil
}

// worldFlags selects where episode worlds come from: a difficulty preset, a
// YAML scenario file, or seeded random generation.
type worldFlags struct {
	difficulty string
	scenario   string
	random     bool
	width      int
	height     int
	obstacles  int
	items      int
	maxSteps   int
	seed       int64
}

func (f *worldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.difficulty, "difficulty", "d", "easy", "difficulty preset: easy, medium or hard")
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "YAML scenario file overriding the preset")
	cmd.Flags().BoolVar(&f.random, "random", false, "generate worlds randomly instead of using a preset")
	cmd.Flags().IntVar(&f.width, "width", 8, "random world width")
	cmd.Flags().IntVar(&f.height, "height", 8, "random world height")
	cmd.Flags().IntVar(&f.obstacles, "obstacles", 10, "random world obstacle count")
	cmd.Flags().IntVar(&f.items, "items", 5, "random world item count")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 60, "random world step budget")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "base seed for random worlds")
}

func (f *worldFlags) resolve() (string, experiment.WorldFactory, error) {
	switch {
	case f.scenario != "":
		sc, err := config.LoadScenario(f.scenario)
		if err != nil {
			return "", nil, err
		}
		return sc.Name, experiment.FixedWorld(sc.Layout), nil
	case f.random:
		spec := world.GenSpec{
			Width:         f.width,
			Height:        f.height,
			ObstacleCount: f.obstacles,
			ItemCount:     f.items,
			MaxSteps:      f.maxSteps,
			Seed:          f.seed,
		}
		return fmt.Sprintf("random-%dx%d", f.width, f.height), experiment.SeededWorlds(spec), nil
	default:
		d, err := config.ByName(f.difficulty)
		if err != nil {
			return "", nil, err
		}
		return d.Name, experiment.FixedWorld(d.Layout), nil
	}
}
