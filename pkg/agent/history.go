package agent

import "github.com/OmriLeviGit/agentic-assignment/pkg/world"

// History is a bounded trail of recent positions. Pushing past capacity
// drops the oldest entry, so it always holds the newest N positions.
type History struct {
	trail    []world.Position
	capacity int
}

// NewHistory creates a history retaining at most capacity positions.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		trail:    make([]world.Position, 0, capacity),
		capacity: capacity,
	}
}

// Push records a position, evicting the oldest entry when full.
func (h *History) Push(p world.Position) {
	h.trail = append(h.trail, p)
	if len(h.trail) > h.capacity {
		h.trail = h.trail[1:]
	}
}

// Positions returns a copy of the retained trail, oldest first.
func (h *History) Positions() []world.Position {
	out := make([]world.Position, len(h.trail))
	copy(out, h.trail)
	return out
}

func (h *History) Len() int { return len(h.trail) }

func (h *History) Cap() int { return h.capacity }
