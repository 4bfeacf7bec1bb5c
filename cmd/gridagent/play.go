package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OmriLeviGit/agentic-assignment/internal/render"
	"github.com/OmriLeviGit/agentic-assignment/pkg/config"
	"github.com/OmriLeviGit/agentic-assignment/pkg/sim"
	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
)

func newPlayCmd() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play episodes interactively with a difficulty menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			noColor, _ := cmd.Flags().GetBool("no-color")
			r := render.New(os.Stdout, !noColor)
			reader := bufio.NewReader(os.Stdin)

			for {
				difficulty, ok := chooseDifficulty(reader)
				if !ok {
					fmt.Println("Bye!")
					return nil
				}
				agentKind := chooseAgent(reader)

				w, err := world.New(difficulty.Layout)
				if err != nil {
					return err
				}
				decider, err := buildDecider(ctx, agentKind)
				if err != nil {
					return err
				}

				r.Frame(w.Observe(nil))
				res, err := sim.New(w,
					sim.WithObserver(func(ev sim.StepEvent) {
						r.ClearScreen()
						r.Frame(ev.Observation)
						r.StepLine(ev)
					}),
					sim.WithStepDelay(delay),
				).Run(ctx, decider)
				if err != nil {
					return err
				}
				if res.ReachedGoal {
					r.Victory()
				}
				r.Summary(difficulty.Label, res)

				if !askYesNo(reader, "\nPlay again? [y/N]: ") {
					fmt.Println("Bye!")
					return nil
				}
			}
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 500*time.Millisecond, "pause between rendered steps")
	return cmd
}

func chooseDifficulty(reader *bufio.Reader) (config.Difficulty, bool) {
	difficulties := config.Difficulties()
	for {
		fmt.Println("\nSelect difficulty:")
		for i, d := range difficulties {
			fmt.Printf("  %d. %s (%s)\n", i+1, d.Label, d.Description)
		}
		fmt.Println("  q. Quit")

		choice := readLine(reader, "Choice: ")
		if strings.EqualFold(choice, "q") {
			return config.Difficulty{}, false
		}
		if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(difficulties) {
			return difficulties[idx-1], true
		}
		if d, err := config.ByName(choice); err == nil {
			return d, true
		}
		fmt.Printf("Invalid choice %q, try again.\n", choice)
	}
}

func chooseAgent(reader *bufio.Reader) string {
	for {
		choice := readLine(reader, "Agent (1. simple, 2. advised) [1]: ")
		switch strings.ToLower(choice) {
		case "", "1", "simple":
			return "simple"
		case "2", "advised":
			return "advised"
		}
		fmt.Printf("Invalid choice %q, try again.\n", choice)
	}
}

func askYesNo(reader *bufio.Reader, prompt string) bool {
	answer := strings.ToLower(readLine(reader, prompt))
	return answer == "y" || answer == "yes"
}

// readLine prompts and reads one trimmed line; EOF reads as quit.
func readLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "q"
	}
	return strings.TrimSpace(line)
}
