package world

import (
	"fmt"
	"sort"
)

// Position is a grid coordinate. X grows eastward, Y grows southward, so
// (0, 0) is the top-left cell of the grid.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Less orders positions row by row, top-left first. Deciders use this order
// to break ties deterministically.
func (p Position) Less(o Position) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// ManhattanDistance returns the L1 distance between two positions.
func ManhattanDistance(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// moveDeltas is the fixed neighbor expansion order: north, south, west,
// east. Everything that enumerates moves goes through this table, so equal
// inputs always produce equally ordered outputs.
var moveDeltas = [4]struct {
	dx, dy int
	name   string
}{
	{0, -1, "north"},
	{0, 1, "south"},
	{-1, 0, "west"},
	{1, 0, "east"},
}

// Neighbors returns the four cells adjacent to p in the fixed move order,
// without any bounds or obstacle filtering.
func Neighbors(p Position) [4]Position {
	var out [4]Position
	for i, d := range moveDeltas {
		out[i] = Position{X: p.X + d.dx, Y: p.Y + d.dy}
	}
	return out
}

// DirectionName names the single-cell step between two adjacent positions,
// e.g. "north". Non-adjacent pairs return "?".
func DirectionName(from, to Position) string {
	for _, d := range moveDeltas {
		if to.X-from.X == d.dx && to.Y-from.Y == d.dy {
			return d.name
		}
	}
	return "?"
}

// SortPositions sorts in place using the row-major order of Less.
func SortPositions(ps []Position) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
}

// ContainsPosition reports whether ps includes p.
func ContainsPosition(ps []Position, p Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}
