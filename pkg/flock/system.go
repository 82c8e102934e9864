package flock

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
)

// ErrGroupNotFound is returned for a group index outside the system.
var ErrGroupNotFound = errors.New("group not found")

// neighborBufferCap is the initial capacity of the neighbor buffers.
const neighborBufferCap = 300

// System owns every group, the shared arena and the boundary repulsion.
//
// Groups are updated one after the other, so agents of a later group see agents of an
// earlier group at their already integrated position for the current frame.
type System struct {
	groups        []*Group
	boundary      geometry.Boundary
	boundaryRepel geometry.Vector2D
	rng           RandomSource

	// scratch space for FindNearBoids, cleared on every call
	friendly []*Agent
	stranger []*Agent
	staged   []*Agent
}

// NewSystem creates an empty system for the given arena.
func NewSystem(boundary geometry.Boundary, boundaryRepel geometry.Vector2D, rng RandomSource) *System {
	if rng == nil {
		rng = NewRandomSource(0)
	}
	return &System{
		boundary:      boundary,
		boundaryRepel: boundaryRepel,
		rng:           rng,
		friendly:      make([]*Agent, 0, neighborBufferCap),
		stranger:      make([]*Agent, 0, neighborBufferCap),
		staged:        make([]*Agent, 0, neighborBufferCap),
	}
}

// AddGroup appends a group of count agents with DefaultParams.
func (s *System) AddGroup(count int) *Group {
	p := DefaultParams()
	p.Count = float64(count)
	return s.AddGroupWithParams(p)
}

// AddGroupWithParams appends a group and populates it up to p.Count.
func (s *System) AddGroupWithParams(p Params) *Group {
	g := NewGroup(p, s.boundary, s.rng)
	s.groups = append(s.groups, g)
	return g
}

// RemoveGroup deletes the group at index i, later groups shift down by one.
func (s *System) RemoveGroup(i int) error {
	if i < 0 || i >= len(s.groups) {
		return fmt.Errorf("%w: index %d of %d", ErrGroupNotFound, i, len(s.groups))
	}
	s.groups = slices.Delete(s.groups, i, i+1)
	return nil
}

// Group returns the group at index i.
func (s *System) Group(i int) (*Group, error) {
	if i < 0 || i >= len(s.groups) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrGroupNotFound, i, len(s.groups))
	}
	return s.groups[i], nil
}

// Groups returns the groups in update order.
func (s *System) Groups() []*Group {
	return s.groups
}

// Len is the total number of agents over all groups.
func (s *System) Len() int {
	n := 0
	for _, g := range s.groups {
		n += g.Len()
	}
	return n
}

// Boundary is the shared arena.
func (s *System) Boundary() geometry.Boundary {
	return s.boundary
}

// SetBoundary resizes the arena, e.g. after a window resize. Agents are left where they are.
func (s *System) SetBoundary(b geometry.Boundary) {
	s.boundary = b
}

// BoundaryRepel is the per-axis velocity nudge applied outside the arena.
func (s *System) BoundaryRepel() geometry.Vector2D {
	return s.boundaryRepel
}

// SetBoundaryRepel changes the boundary nudge.
func (s *System) SetBoundaryRepel(v geometry.Vector2D) {
	s.boundaryRepel = v
}

// FindNearBoids partitions the agents that a can see into friendly (same group) and
// stranger (any other group) sets. An agent of group G is visible when it is within G's
// ViewDistance, bounds included. a itself is never part of either set.
//
// The returned slices are owned by s and are only valid until the next call.
func (s *System) FindNearBoids(a *Agent) (friendly, stranger []*Agent) {
	s.friendly = s.friendly[:0]
	s.stranger = s.stranger[:0]

	for _, g := range s.groups {
		s.staged = s.staged[:0]
		own := false
		viewSq := g.params.ViewDistance * g.params.ViewDistance

		for _, b := range g.agents {
			if b == a {
				own = true
				continue
			}
			if a.Position.DistanceSquaredTo(b.Position) <= viewSq {
				s.staged = append(s.staged, b)
			}
		}

		if own {
			s.friendly = append(s.friendly[:0], s.staged...)
		} else {
			s.stranger = append(s.stranger, s.staged...)
		}
	}

	return s.friendly, s.stranger
}

// Update advances every group by dt, in order.
func (s *System) Update(dt float64) {
	for _, g := range s.groups {
		g.Update(dt, s)
	}
}

// SelectGroup returns the index of the group with the most agents inside area, the first
// one on a tie, or -1 when area holds no agent at all.
func (s *System) SelectGroup(area geometry.Boundary) int {
	best, bestCount := -1, 0
	for i, g := range s.groups {
		n := 0
		for _, a := range g.agents {
			if area.Contains(a.Position) {
				n++
			}
		}
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	return best
}
