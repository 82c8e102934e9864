package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// TextBox displays the current value of a Binding.
type TextBox struct {
	Label  string
	Format string
	X, Y   float64
	W, H   float64

	binding Binding

	BGColor   color.RGBA
	TextColor color.Color
}

func NewTextBox(x, y, width float64, label string, b Binding) *TextBox {
	if b == nil {
		b = NewValueBinding(0)
	}
	return &TextBox{
		Label:     label,
		Format:    "%.2f",
		X:         x,
		Y:         y,
		W:         width,
		H:         18,
		binding:   b,
		BGColor:   color.RGBA{R: 25, G: 25, B: 30, A: 255},
		TextColor: color.White,
	}
}

// Bind swaps the displayed value.
func (t *TextBox) Bind(b Binding) {
	t.binding = b
}

// Text is the rendered content, "label: value".
func (t *TextBox) Text() string {
	v := fmt.Sprintf(t.Format, t.binding.Get())
	if t.Label == "" {
		return v
	}
	return t.Label + ": " + v
}

// Update is a no-op, text boxes are read only.
func (t *TextBox) Update() {}

func (t *TextBox) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), t.BGColor, true)
	text.Draw(screen, t.Text(), basicfont.Face7x13, int(t.X)+4, int(t.Y+t.H)-5, t.TextColor)
}

func (t *TextBox) GetHeight() float64 {
	return t.H + 20
}

func (t *TextBox) SetY(y float64) {
	t.Y = y
}
