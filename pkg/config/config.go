// Package config supplies episode configurations: the built-in difficulty
// presets and YAML scenario files for custom layouts.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/OmriLeviGit/agentic-assignment/pkg/world"
	"gopkg.in/yaml.v3"
)

// Difficulty bundles a named preset layout with its menu copy.
type Difficulty struct {
	Name        string
	Label       string
	Description string
	Layout      world.Layout
}

// Scenario is a custom episode layout loaded from a YAML file.
type Scenario struct {
	Name         string `yaml:"name"`
	world.Layout `yaml:",inline"`
}

var easy = Difficulty{
	Name:        "easy",
	Label:       "Easy - Learning Mode",
	Description: "5x5 grid, 3 obstacles, 3 items, 25 max steps",
	Layout: world.Layout{
		Width: 5, Height: 5,
		Agent:     world.Position{X: 0, Y: 0},
		Goal:      world.Position{X: 4, Y: 4},
		Obstacles: []world.Position{{X: 2, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 2}},
		Items:     []world.Position{{X: 3, Y: 4}, {X: 1, Y: 1}, {X: 0, Y: 4}},
		MaxSteps:  25,
	},
}

var medium = Difficulty{
	Name:        "medium",
	Label:       "Medium - Standard Challenge",
	Description: "8x8 grid, 13 obstacles, 7 items, 60 max steps",
	Layout: world.Layout{
		Width: 8, Height: 8,
		Agent: world.Position{X: 0, Y: 0},
		Goal:  world.Position{X: 7, Y: 7},
		Obstacles: []world.Position{
			{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3},
			{X: 5, Y: 3}, {X: 5, Y: 4}, {X: 5, Y: 5},
			{X: 3, Y: 5}, {X: 4, Y: 5}, {X: 6, Y: 5},
			{X: 1, Y: 6}, {X: 6, Y: 1}, {X: 4, Y: 2}, {X: 7, Y: 3},
		},
		Items: []world.Position{
			{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 6, Y: 2}, {X: 3, Y: 2},
			{X: 4, Y: 4}, {X: 7, Y: 6}, {X: 3, Y: 7},
		},
		MaxSteps: 60,
	},
}

var hard = Difficulty{
	Name:        "hard",
	Label:       "Hard - Expert Mode",
	Description: "10x10 grid, 26 obstacles, 15 items, 100 max steps",
	Layout: world.Layout{
		Width: 10, Height: 10,
		Agent: world.Position{X: 0, Y: 0},
		Goal:  world.Position{X: 9, Y: 9},
		Obstacles: []world.Position{
			{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3},
			{X: 5, Y: 2}, {X: 5, Y: 3}, {X: 5, Y: 4}, {X: 5, Y: 5},
			{X: 0, Y: 6}, {X: 1, Y: 6}, {X: 2, Y: 6},
			{X: 6, Y: 3}, {X: 7, Y: 3}, {X: 8, Y: 2},
			{X: 3, Y: 8}, {X: 4, Y: 8}, {X: 5, Y: 8},
			{X: 1, Y: 1}, {X: 1, Y: 3}, {X: 8, Y: 1}, {X: 3, Y: 1},
			{X: 6, Y: 4}, {X: 8, Y: 5}, {X: 9, Y: 3}, {X: 4, Y: 2},
			{X: 6, Y: 6}, {X: 7, Y: 7},
		},
		Items: []world.Position{
			{X: 9, Y: 0}, {X: 8, Y: 0}, {X: 9, Y: 2}, {X: 2, Y: 8},
			{X: 1, Y: 9}, {X: 3, Y: 0}, {X: 6, Y: 0}, {X: 0, Y: 2},
			{X: 4, Y: 3}, {X: 9, Y: 1}, {X: 3, Y: 2}, {X: 3, Y: 5},
			{X: 6, Y: 5}, {X: 4, Y: 9}, {X: 0, Y: 7},
		},
		MaxSteps: 100,
	},
}

// Difficulties returns the built-in presets, easiest first.
func Difficulties() []Difficulty {
	return []Difficulty{easy, medium, hard}
}

// ByName resolves a preset by name or single-letter shorthand.
func ByName(name string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "easy", "e":
		return easy, nil
	case "medium", "m":
		return medium, nil
	case "hard", "h":
		return hard, nil
	default:
		return Difficulty{}, fmt.Errorf("unknown difficulty %q (use easy, medium or hard)", name)
	}
}

// LoadScenario reads a layout from a YAML file and validates it the same way
// the presets are validated: an unloadable or inconsistent scenario is
// rejected here, before any episode starts.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(path, ".yaml")
	}

	if _, err := world.New(s.Layout); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}
