package simulation

import (
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/flock"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
)

// GroupSnapshot is what the UI needs to draw and describe one group.
type GroupSnapshot struct {
	Stats  flock.Stats
	Agents []flock.AgentView
}

// WorldSnapshot is a deep copy of the simulation after a tick. It shares no memory with
// the world actor, so the UI may read it from its own goroutine.
type WorldSnapshot struct {
	Tick     uint64
	Boundary geometry.Boundary
	Groups   []GroupSnapshot
}

// NewWorldSnapshot copies the state of s.
func NewWorldSnapshot(tick uint64, s *flock.System) *WorldSnapshot {
	snap := &WorldSnapshot{
		Tick:     tick,
		Boundary: s.Boundary(),
		Groups:   make([]GroupSnapshot, len(s.Groups())),
	}
	for i, g := range s.Groups() {
		snap.Groups[i] = GroupSnapshot{
			Stats:  g.Stats(),
			Agents: g.Views(),
		}
	}
	return snap
}

// AgentCount is the population over all groups.
func (s *WorldSnapshot) AgentCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Agents)
	}
	return n
}
