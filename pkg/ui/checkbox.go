package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox is a simple UI widget for boolean values
type Checkbox struct {
	Label    string
	Value    bool
	X, Y     float64
	Size     float64
	OnChange func(bool)
	clicked  bool // Track if already clicked this frame
}

// NewCheckbox creates a new checkbox instance
func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Label: label,
		Value: value,
		X:     x,
		Y:     y,
		Size:  16, // Default size
	}
}

func (c *Checkbox) contains(mx, my float64) bool {
	return mx >= c.X && mx <= c.X+c.Size && my >= c.Y && my <= c.Y+c.Size
}

// HandleMouse toggles the value once per press inside the box.
func (c *Checkbox) HandleMouse(mx, my float64, pressed bool) {
	if pressed && c.contains(mx, my) {
		if !c.clicked {
			c.Value = !c.Value
			c.clicked = true
			if c.OnChange != nil {
				c.OnChange(c.Value)
			}
		}
	} else {
		c.clicked = false
	}
}

// Update checks for mouse interaction
func (c *Checkbox) Update() {
	mx, my := ebiten.CursorPosition()
	c.HandleMouse(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// Draw renders the checkbox
func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		true)

	if c.Value {
		vector.FillRect(screen,
			float32(c.X+2), float32(c.Y+2),
			float32(c.Size-4), float32(c.Size-4),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
}

func (c *Checkbox) GetHeight() float64 {
	return c.Size + 5
}

func (c *Checkbox) SetY(y float64) {
	c.Y = y
}
