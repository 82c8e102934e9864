package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
)

// Stats is a value copy of a group's parameters and population, safe to hand to a display.
type Stats struct {
	Count                 int
	Cohesion              float64
	Separation            float64
	Alignment             float64
	Friendliness          float64
	ViewDistance          float64
	MinSeparationDistance float64
	MaxSpeed              float64
	Size                  geometry.Vector2D
	Color                 Color
}

// Value reads the stat matching p. ParamCount reports the actual population.
func (s Stats) Value(p Param) float64 {
	switch p {
	case ParamCohesion:
		return s.Cohesion
	case ParamSeparation:
		return s.Separation
	case ParamAlignment:
		return s.Alignment
	case ParamFriendliness:
		return s.Friendliness
	case ParamViewDistance:
		return s.ViewDistance
	case ParamMinSeparationDistance:
		return s.MinSeparationDistance
	case ParamMaxSpeed:
		return s.MaxSpeed
	case ParamCount:
		return float64(s.Count)
	case ParamSizeX:
		return s.Size.X
	case ParamSizeY:
		return s.Size.Y
	case ParamColorR:
		return s.Color.R
	case ParamColorG:
		return s.Color.G
	case ParamColorB:
		return s.Color.B
	}
	return math.NaN()
}

// Group is a homogeneous population of agents sharing one parameter set.
type Group struct {
	agents []*Agent
	params Params
	rng    RandomSource
}

// NewGroup creates a group with params and fills it up to params.Count inside bounds.
func NewGroup(params Params, bounds geometry.Boundary, rng RandomSource) *Group {
	g := &Group{
		params: params,
		rng:    rng,
	}
	g.Resize(params.Count, bounds)
	return g
}

// MaxGroupLen caps the population of a single group.
const MaxGroupLen = 100_000

// desiredLen floors count to an integer in [0, MaxGroupLen]. NaN counts as zero.
func desiredLen(count float64) int {
	if !(count > 0) {
		return 0
	}
	if count >= MaxGroupLen {
		return MaxGroupLen
	}
	return int(math.Floor(count))
}

// Resize grows or shrinks the population to count. New agents get a uniform position
// inside bounds and a random heading at 50% to 100% of MaxSpeed. Shrinking truncates from
// the end. Existing agents are never touched.
func (g *Group) Resize(count float64, bounds geometry.Boundary) {
	g.params.Count = count
	n := desiredLen(count)

	if n < len(g.agents) {
		clear(g.agents[n:])
		g.agents = g.agents[:n]
		return
	}

	for len(g.agents) < n {
		speed := randRange(g.rng, 0.5, 1.0) * g.params.MaxSpeed
		g.agents = append(g.agents, &Agent{
			Position: randPointIn(g.rng, bounds),
			Velocity: randDirection(g.rng).Mul(speed),
		})
	}
}

// Update re-establishes the population size, then steers and moves every agent using the
// neighbor sets found by s. Friendly neighbors weigh fully, strangers are scaled by
// Friendliness.
func (g *Group) Update(dt float64, s *System) {
	g.Resize(g.params.Count, s.Boundary())

	p := g.params
	for _, a := range g.agents {
		friendly, stranger := s.FindNearBoids(a)

		a.Cohere(p.Cohesion, friendly, 1.0)
		a.Cohere(p.Cohesion, stranger, p.Friendliness)
		a.Separate(p.Separation, p.MinSeparationDistance, friendly, 1.0)
		a.Separate(p.Separation, p.MinSeparationDistance, stranger, p.Friendliness)
		a.Align(p.Alignment, friendly, 1.0)
		a.Align(p.Alignment, stranger, p.Friendliness)
		a.ConstrainBounds(s.Boundary(), s.BoundaryRepel())
		a.ConstrainSpeed(p.MaxSpeed)
		a.Integrate(dt)
	}
}

// Len is the current number of agents.
func (g *Group) Len() int {
	return len(g.agents)
}

// Agents exposes the members in order. Callers must not keep the slice across updates.
func (g *Group) Agents() []*Agent {
	return g.agents
}

// Views returns value copies of every agent's display data.
func (g *Group) Views() []AgentView {
	views := make([]AgentView, len(g.agents))
	for i, a := range g.agents {
		views[i] = a.View()
	}
	return views
}

// AveragePosition is the mean member position, zero for an empty group.
func (g *Group) AveragePosition() geometry.Vector2D {
	var sum geometry.Vector2D
	if len(g.agents) == 0 {
		return sum
	}
	for _, a := range g.agents {
		sum = sum.Add(a.Position)
	}
	return sum.Div(float64(len(g.agents)))
}

// AverageVelocity is the mean member velocity, zero for an empty group.
func (g *Group) AverageVelocity() geometry.Vector2D {
	var sum geometry.Vector2D
	if len(g.agents) == 0 {
		return sum
	}
	for _, a := range g.agents {
		sum = sum.Add(a.Velocity)
	}
	return sum.Div(float64(len(g.agents)))
}

// Params returns a copy of the parameter record.
func (g *Group) Params() Params {
	return g.params
}

// SetParams replaces the whole parameter record. The population follows on the next update.
func (g *Group) SetParams(p Params) {
	g.params = p
}

// Param reads one parameter, NaN for an unknown one.
func (g *Group) Param(p Param) float64 {
	return g.params.Get(p)
}

// SetParam writes one parameter. Unknown parameters are ignored.
func (g *Group) SetParam(p Param, v float64) {
	g.params.Set(p, v)
}

// Bind returns a handle on one parameter of this group.
func (g *Group) Bind(p Param) Binding {
	return Binding{group: g, param: p}
}

// Params converts the stats back into a parameter record, Count being the actual population.
func (s Stats) Params() Params {
	return Params{
		Cohesion:              s.Cohesion,
		Separation:            s.Separation,
		Alignment:             s.Alignment,
		Friendliness:          s.Friendliness,
		ViewDistance:          s.ViewDistance,
		MinSeparationDistance: s.MinSeparationDistance,
		MaxSpeed:              s.MaxSpeed,
		Size:                  s.Size,
		Color:                 s.Color,
		Count:                 float64(s.Count),
	}
}

// Stats returns a snapshot of the group for display.
func (g *Group) Stats() Stats {
	p := g.params
	return Stats{
		Count:                 len(g.agents),
		Cohesion:              p.Cohesion,
		Separation:            p.Separation,
		Alignment:             p.Alignment,
		Friendliness:          p.Friendliness,
		ViewDistance:          p.ViewDistance,
		MinSeparationDistance: p.MinSeparationDistance,
		MaxSpeed:              p.MaxSpeed,
		Size:                  p.Size,
		Color:                 p.Color,
	}
}
