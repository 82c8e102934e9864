package geometry

import "math"

// Boundary is an axis-aligned rectangle. Containment is inclusive on all four edges.
type Boundary struct {
	Min Vector2D `json:"min"`
	Max Vector2D `json:"max"`
}

// NewBoundary creates a Boundary from its min and max coordinates.
func NewBoundary(minX, minY, maxX, maxY float64) Boundary {
	return Boundary{Min: Vector2D{minX, minY}, Max: Vector2D{maxX, maxY}}
}

// NewBoundaryFromCorners builds the rectangle spanned by two arbitrary opposite corners,
// as produced by a mouse drag in any direction.
func NewBoundaryFromCorners(a, b Vector2D) Boundary {
	return Boundary{
		Min: Vector2D{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Vector2D{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// Contains reports whether p lies inside the rectangle or on its edges.
func (b Boundary) Contains(p Vector2D) bool {
	return b.Min.X <= p.X && b.Max.X >= p.X && b.Min.Y <= p.Y && b.Max.Y >= p.Y
}

// Width of the rectangle.
func (b Boundary) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height of the rectangle.
func (b Boundary) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Size returns (Width, Height) as a vector.
func (b Boundary) Size() Vector2D {
	return b.Max.Sub(b.Min)
}

// CircleBoundary is a disc defined by its center and radius.
type CircleBoundary struct {
	Center Vector2D `json:"center"`
	Radius float64  `json:"radius"`
}

// Contains compares squared distances so no square root is needed.
func (c CircleBoundary) Contains(p Vector2D) bool {
	return p.DistanceSquaredTo(c.Center) <= c.Radius*c.Radius
}
