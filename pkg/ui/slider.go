package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
	"golang.org/x/image/font/basicfont"
)

// Slider maps a horizontal knob position to a value in [Min, Max] and writes it to its Binding.
// The knob is grabbed by pressing on it, follows the mouse while the button is held and is
// released on button up.
type Slider struct {
	Label      string
	Min, Max   float64
	X, Y       float64
	W, H       float64
	KnobRadius float64

	binding     Binding
	percent     float64
	grabbed     bool
	wasPressed  bool
	lastWritten float64
}

// NewSlider creates a slider bound to b. A nil binding gets a private ValueBinding set to min.
func NewSlider(x, y, width float64, label string, min, max float64, b Binding) *Slider {
	s := &Slider{
		Label:      label,
		Min:        min,
		Max:        max,
		X:          x,
		Y:          y,
		W:          width,
		H:          6,
		KnobRadius: 7,
	}
	if b == nil {
		b = NewValueBinding(min)
	}
	s.Bind(b)
	return s
}

// Bind attaches the slider to another value and moves the knob to match it.
func (s *Slider) Bind(b Binding) {
	s.binding = b
	s.grabbed = false
	s.SetPercentFromValue(b.Get())
}

// Binding returns the value the slider currently drives.
func (s *Slider) Binding() Binding {
	return s.binding
}

// Value is Min + (Max-Min)*percent.
func (s *Slider) Value() float64 {
	return s.Min + (s.Max-s.Min)*s.percent
}

// Percent is the knob position in [0,1].
func (s *Slider) Percent() float64 {
	return s.percent
}

// Grabbed reports whether the knob is being dragged.
func (s *Slider) Grabbed() bool {
	return s.grabbed
}

// SetPercentFromValue moves the knob to v, clamped to [Min, Max]. The binding is not written.
func (s *Slider) SetPercentFromValue(v float64) {
	if s.Max == s.Min {
		s.percent = 0
		return
	}
	s.percent = clamp01((v - s.Min) / (s.Max - s.Min))
	s.lastWritten = v
}

// knob is the grab area around the current knob position.
func (s *Slider) knob() geometry.CircleBoundary {
	return geometry.CircleBoundary{
		Center: geometry.Vector2D{X: s.X + s.W*s.percent, Y: s.Y + s.H/2},
		Radius: s.KnobRadius,
	}
}

// HandleMouse feeds one frame of mouse state. It returns true when the bound value was written.
func (s *Slider) HandleMouse(mx, my float64, pressed bool) bool {
	justPressed := pressed && !s.wasPressed
	s.wasPressed = pressed

	if !pressed {
		s.grabbed = false
		s.sync()
		return false
	}
	if justPressed && s.knob().Contains(geometry.Vector2D{X: mx, Y: my}) {
		s.grabbed = true
	}
	if !s.grabbed {
		s.sync()
		return false
	}

	s.percent = clamp01((mx - s.X) / s.W)
	v := s.Value()
	s.binding.Set(v)
	s.lastWritten = v
	return true
}

// sync follows changes made to the bound value by someone else.
func (s *Slider) sync() {
	if v := s.binding.Get(); v != s.lastWritten {
		s.SetPercentFromValue(v)
	}
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	s.HandleMouse(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// Text is the value shown next to the track.
func (s *Slider) Text() string {
	return fmt.Sprintf("%.2f", s.binding.Get())
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.percent), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	k := s.knob()
	knobColor := color.RGBA{R: 150, G: 150, B: 160, A: 255}
	if s.grabbed {
		knobColor = color.RGBA{R: 100, G: 150, B: 220, A: 255}
	}
	vector.FillCircle(screen, float32(k.Center.X), float32(k.Center.Y), float32(k.Radius), knobColor, true)

	text.Draw(screen, s.Text(), basicfont.Face7x13, int(s.X+s.W)-7*len(s.Text()), int(s.Y)-4, color.White)
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GetHeight leaves room for the label printed above the track.
func (s *Slider) GetHeight() float64 {
	return s.H + 25
}

func (s *Slider) SetY(y float64) {
	s.Y = y
}
