// Package flock implements the multi-group boids engine: agents steered by cohesion,
// separation and alignment, groups sharing one parameter set, and the system that
// partitions every agent's neighborhood into friendly (same group) and stranger
// (other groups) agents.
//
// The engine is single threaded. Neighbor buffers are owned by the System and reused on
// every call, so nothing here may be shared between goroutines without external locking.
package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
)

const (
	// friendlinessEpsilon keeps 1/friendliness finite when friendliness is 0.
	friendlinessEpsilon = 1e-6
	// maxSeparationBoost caps how much a low friendliness amplifies separation.
	maxSeparationBoost = 2.0
)

// Agent is a single boid: a moving point with position and velocity.
type Agent struct {
	Position geometry.Vector2D
	Velocity geometry.Vector2D
}

// AgentView is what a renderer needs to draw an oriented shape for one agent.
type AgentView struct {
	Position  geometry.Vector2D
	Direction geometry.Vector2D
	Heading   float64 // degrees, see Agent.Heading
}

// Direction is the normalized velocity. Precondition: the velocity is not zero.
func (a *Agent) Direction() geometry.Vector2D {
	return a.Velocity.Normalize()
}

// Heading is the signed angle in degrees that rotates the velocity onto the +X axis.
// Rotating a shape drawn along +X by -Heading aligns it with the velocity.
func (a *Agent) Heading() float64 {
	return a.Velocity.AngleDeg(geometry.Vector2D{X: 1, Y: 0})
}

// View returns a value copy of the agent's display data.
func (a *Agent) View() AgentView {
	return AgentView{
		Position:  a.Position,
		Direction: a.Direction(),
		Heading:   a.Heading(),
	}
}

// Cohere steers toward the mean position of neighbors.
func (a *Agent) Cohere(weight float64, neighbors []*Agent, friendliness float64) {
	if len(neighbors) == 0 {
		return
	}

	var center geometry.Vector2D
	for _, n := range neighbors {
		center = center.Add(n.Position)
	}
	center = center.Div(float64(len(neighbors)))

	a.Velocity = a.Velocity.Add(center.Sub(a.Position).Mul(weight * friendliness))
}

// Separate pushes away from every neighbor with a term that falls off with the squared
// distance, scaled by minSeparationDistance² so the strength does not depend on the
// configured radius. A low friendliness amplifies the push, at most maxSeparationBoost times.
//
// A neighbor sitting exactly on the agent divides by zero and turns the velocity into NaN.
func (a *Agent) Separate(weight, minSeparationDistance float64, neighbors []*Agent, friendliness float64) {
	if len(neighbors) == 0 {
		return
	}

	minDistSq := minSeparationDistance * minSeparationDistance
	var push geometry.Vector2D
	for _, n := range neighbors {
		delta := a.Position.Sub(n.Position)
		push = push.Add(delta.Div(delta.LenSqr() / minDistSq))
	}

	boost := math.Min(1/(friendliness+friendlinessEpsilon), maxSeparationBoost)
	a.Velocity = a.Velocity.Add(push.Mul(weight * boost))
}

// Align adds the mean neighbor velocity itself to the velocity, not the difference
// between that mean and the agent's own velocity.
func (a *Agent) Align(weight float64, neighbors []*Agent, friendliness float64) {
	if len(neighbors) == 0 {
		return
	}

	var mean geometry.Vector2D
	for _, n := range neighbors {
		mean = mean.Add(n.Velocity)
	}
	mean = mean.Div(float64(len(neighbors)))

	a.Velocity = a.Velocity.Add(mean.Mul(weight * friendliness))
}

// ConstrainBounds nudges the velocity back toward the arena on every axis where the
// position is outside. It is a soft push, applied again on every frame spent outside.
func (a *Agent) ConstrainBounds(bounds geometry.Boundary, repel geometry.Vector2D) {
	if a.Position.X < bounds.Min.X {
		a.Velocity.X += repel.X
	} else if a.Position.X > bounds.Max.X {
		a.Velocity.X -= repel.X
	}

	if a.Position.Y < bounds.Min.Y {
		a.Velocity.Y += repel.Y
	} else if a.Position.Y > bounds.Max.Y {
		a.Velocity.Y -= repel.Y
	}
}

// ConstrainSpeed rescales the velocity to maxSpeed when it reaches or exceeds it.
func (a *Agent) ConstrainSpeed(maxSpeed float64) {
	if a.Velocity.LenSqr() >= maxSpeed*maxSpeed {
		a.Velocity = a.Velocity.Normalize().Mul(maxSpeed)
	}
}

// Integrate advances the position with one explicit Euler step.
func (a *Agent) Integrate(dt float64) {
	a.Position = a.Position.Add(a.Velocity.Mul(dt))
}
