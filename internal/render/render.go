// Package render draws grid world frames and episode summaries as colored
// text for terminal playback.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/OmriLeviGit/agentic-assignment/pkg/sim"
	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
	"github.com/fatih/color"
)

const (
	glyphEmpty    = "."
	glyphObstacle = "#"
	glyphItem     = "$"
	glyphGoal     = "G"
	glyphAgent    = "A"
)

// Renderer writes frames to a single output. Color can be forced on or off,
// so output is stable under tests and redirection.
type Renderer struct {
	out io.Writer

	header   *color.Color
	status   *color.Color
	agent    *color.Color
	goal     *color.Color
	item     *color.Color
	obstacle *color.Color
	banner   *color.Color
}

func New(out io.Writer, enableColor bool) *Renderer {
	r := &Renderer{
		out:      out,
		header:   color.New(color.FgCyan),
		status:   color.New(color.FgYellow),
		agent:    color.New(color.BgBlue, color.FgWhite),
		goal:     color.New(color.BgGreen, color.FgWhite),
		item:     color.New(color.FgYellow),
		obstacle: color.New(color.BgRed, color.FgWhite),
		banner:   color.New(color.BgGreen, color.FgWhite),
	}

	for _, c := range []*color.Color{r.header, r.status, r.agent, r.goal, r.item, r.obstacle, r.banner} {
		if enableColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// ClearScreen rewinds the terminal for the next frame.
func (r *Renderer) ClearScreen() {
	fmt.Fprint(r.out, "\033[H\033[2J")
}

// Frame draws the observation as a bordered grid with a status header.
func (r *Renderer) Frame(obs world.Observation) {
	fmt.Fprintln(r.out)
	r.header.Fprintf(r.out, "Grid World (%dx%d)\n", obs.Width, obs.Height)
	r.status.Fprintf(r.out, "Steps: %d/%d, Items: %d/%d\n", obs.StepsTaken, obs.MaxSteps, obs.ItemsCollected, obs.ItemsTotal)
	fmt.Fprintln(r.out)

	border := "+" + strings.Repeat("-", obs.Width*2+1) + "+"
	fmt.Fprintln(r.out, border)

	items := make(map[world.Position]struct{}, len(obs.Items))
	for _, p := range obs.Items {
		items[p] = struct{}{}
	}
	obstacles := make(map[world.Position]struct{}, len(obs.Obstacles))
	for _, p := range obs.Obstacles {
		obstacles[p] = struct{}{}
	}

	for y := 0; y < obs.Height; y++ {
		fmt.Fprint(r.out, "| ")
		for x := 0; x < obs.Width; x++ {
			r.cell(obs, items, obstacles, world.Position{X: x, Y: y})
			fmt.Fprint(r.out, " ")
		}
		fmt.Fprintln(r.out, "|")
	}

	fmt.Fprintln(r.out, border)
}

func (r *Renderer) cell(obs world.Observation, items, obstacles map[world.Position]struct{}, p world.Position) {
	switch {
	case p == obs.Agent:
		r.agent.Fprint(r.out, glyphAgent)
	case p == obs.Goal:
		r.goal.Fprint(r.out, glyphGoal)
	default:
		if _, ok := items[p]; ok {
			r.item.Fprint(r.out, glyphItem)
			return
		}
		if _, ok := obstacles[p]; ok {
			r.obstacle.Fprint(r.out, glyphObstacle)
			return
		}
		fmt.Fprint(r.out, glyphEmpty)
	}
}

// StepLine prints a one-line account of an applied step.
func (r *Renderer) StepLine(ev sim.StepEvent) {
	note := ""
	if ev.ItemCollected {
		note = " (collected an item)"
	}
	fmt.Fprintf(r.out, "Step %d: %s moved %s to %s%s\n",
		ev.Step, ev.Source, world.DirectionName(ev.From, ev.To), ev.To, note)
}

// Victory prints the goal-reached banner.
func (r *Renderer) Victory() {
	fmt.Fprintln(r.out)
	r.banner.Fprintln(r.out, "VICTORY! Goal reached!")
}

// Summary prints the final accounting for an episode.
func (r *Renderer) Summary(label string, res sim.Result) {
	fmt.Fprintln(r.out)
	r.header.Fprintf(r.out, "Episode summary (%s)\n", label)
	fmt.Fprintf(r.out, "  Outcome:   %s\n", res.Outcome())
	fmt.Fprintf(r.out, "  Steps:     %d/%d\n", res.StepsTaken, res.MaxSteps)
	fmt.Fprintf(r.out, "  Items:     %d/%d\n", res.ItemsCollected, res.ItemsTotal)
	fmt.Fprintf(r.out, "  Score:     %.1f\n", res.Score)
	if res.FallbackSteps > 0 {
		fmt.Fprintf(r.out, "  Fallback:  %d steps\n", res.FallbackSteps)
	}
	fmt.Fprintf(r.out, "  Episode:   %s\n", res.EpisodeID)
}
