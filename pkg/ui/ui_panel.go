package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is anything the panel can stack vertically.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	// GetHeight is the vertical room taken in the panel, label included.
	GetHeight() float64
	// SetY moves the widget when the panel scrolls.
	SetY(y float64)
}

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelHeight   = 15.0
	bottomMargin  = 40.0
	scrollStep    = 20.0
)

// PanelItem is a widget with the label printed above it. An empty label takes no room.
type PanelItem struct {
	Label  string
	Widget Widget
}

type panelSection struct {
	title string
	start int // index of the first item of the section
}

// UIPanel stacks widgets under section headers in a scrollable column.
type UIPanel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	Items         []PanelItem
	ScrollOffset  float64

	BGColor      color.RGBA
	BorderColor  color.RGBA
	SectionColor color.RGBA

	sections []panelSection
}

// NewUIPanel creates an empty panel at (x, y).
func NewUIPanel(x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:        "Configuration",
		X:            x,
		Y:            y,
		Width:        width,
		Height:       height,
		BGColor:      color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor:  color.RGBA{R: 100, G: 100, B: 110, A: 255},
		SectionColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection starts a new section, it runs until the next one.
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, panelSection{title: title, start: len(p.Items)})
}

// add appends w under label and places it below the current content.
func (p *UIPanel) add(label string, w Widget) {
	y := p.Y + p.contentHeight() - p.ScrollOffset
	if label != "" {
		y += labelHeight
	}
	w.SetY(y)
	p.Items = append(p.Items, PanelItem{Label: label, Widget: w})
}

func (p *UIPanel) innerX() float64     { return p.X + 10 }
func (p *UIPanel) innerWidth() float64 { return p.Width - 20 }

// AddSlider adds a slider driving b.
func (p *UIPanel) AddSlider(label string, min, max float64, b Binding) *Slider {
	s := NewSlider(p.innerX(), 0, p.innerWidth(), label, min, max, b)
	p.add(label, s)
	return s
}

// AddCheckbox adds a checkbox starting at value.
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.innerX(), 0, label, value)
	p.add(label, c)
	return c
}

// AddTextBox adds a read-only view of b.
func (p *UIPanel) AddTextBox(label string, b Binding) *TextBox {
	t := NewTextBox(p.innerX(), 0, p.innerWidth(), "", b)
	p.add(label, t)
	return t
}

// AddButton adds a full width button, its label is drawn on the button itself.
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.innerX(), 0, p.innerWidth(), 22, label, onClick)
	p.add("", b)
	return b
}

// Contains reports whether the screen point (x, y) is over the panel.
func (p *UIPanel) Contains(x, y float64) bool {
	return x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height
}

// layout walks the content from the top, calling header for each section and item for
// each widget with its screen y. It returns the unscrolled content height.
func (p *UIPanel) layout(header func(title string, y float64), item func(it PanelItem, y float64)) float64 {
	y := p.Y + titleHeight - p.ScrollOffset
	next := 0
	emitHeaders := func(i int) {
		for next < len(p.sections) && p.sections[next].start <= i {
			if header != nil {
				header(p.sections[next].title, y)
			}
			y += sectionHeight
			next++
		}
	}
	for i, it := range p.Items {
		emitHeaders(i)
		if item != nil {
			item(it, y)
		}
		y += it.Widget.GetHeight()
	}
	emitHeaders(len(p.Items))
	return y - p.Y + p.ScrollOffset
}

func (p *UIPanel) contentHeight() float64 {
	return p.layout(nil, nil)
}

// Update scrolls on the mouse wheel and lets every widget handle input.
func (p *UIPanel) Update() {
	_, dy := ebiten.Wheel()
	p.Scroll(dy)

	for _, it := range p.Items {
		it.Widget.Update()
	}
}

// Scroll moves the content by one mouse wheel delta, clamped to the content height.
func (p *UIPanel) Scroll(dy float64) {
	if dy == 0 {
		return
	}
	maxScroll := max(p.contentHeight()-p.Height+bottomMargin, 0)
	p.ScrollOffset = min(max(p.ScrollOffset-dy*scrollStep, 0), maxScroll)
}

// Draw renders the background, then the visible headers and widgets.
func (p *UIPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	visible := func(y, margin float64) bool {
		return y >= p.Y-margin && y <= p.Y+p.Height
	}
	p.layout(
		func(title string, y float64) {
			if !visible(y, sectionHeight) {
				return
			}
			vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20, p.SectionColor, true)
			ebitenutil.DebugPrintAt(screen, title, int(p.X+10), int(y+5))
		},
		func(it PanelItem, y float64) {
			if it.Label != "" {
				it.Widget.SetY(y + labelHeight)
			} else {
				it.Widget.SetY(y)
			}
			if !visible(y, titleHeight) {
				return
			}
			if it.Label != "" {
				ebitenutil.DebugPrintAt(screen, it.Label, int(p.X+10), int(y))
			}
			it.Widget.Draw(screen)
		},
	)
}
