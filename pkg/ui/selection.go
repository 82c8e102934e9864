package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
)

// Selection tracks a rectangle drawn with a mouse drag.
type Selection struct {
	start, current geometry.Vector2D
	active         bool
	wasPressed     bool

	Color color.RGBA
}

func NewSelection() *Selection {
	return &Selection{Color: color.RGBA{R: 255, G: 255, B: 255, A: 180}}
}

// Active reports whether a drag is in progress.
func (s *Selection) Active() bool {
	return s.active
}

// Rect is the rectangle spanned so far.
func (s *Selection) Rect() geometry.Boundary {
	return geometry.NewBoundaryFromCorners(s.start, s.current)
}

// HandleMouse feeds one frame of mouse state. A drag only starts on a fresh press where
// canStart is true. When the button is released it returns the selected area and true.
func (s *Selection) HandleMouse(p geometry.Vector2D, pressed, canStart bool) (geometry.Boundary, bool) {
	justPressed := pressed && !s.wasPressed
	s.wasPressed = pressed

	switch {
	case justPressed && canStart:
		s.start, s.current = p, p
		s.active = true
	case pressed && s.active:
		s.current = p
	case !pressed && s.active:
		s.current = p
		s.active = false
		return s.Rect(), true
	}
	return geometry.Boundary{}, false
}

// Draw outlines the rectangle while dragging.
func (s *Selection) Draw(screen *ebiten.Image) {
	if !s.active {
		return
	}
	r := s.Rect()
	vector.StrokeRect(screen,
		float32(r.Min.X), float32(r.Min.Y),
		float32(r.Width()), float32(r.Height()),
		1, s.Color, true)
}
