package flock

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
)

// ErrUnknownParam is returned when a parameter name does not match any Param.
var ErrUnknownParam = errors.New("unknown group parameter")

// Color is an RGBA color with float channels in [0,1], so every channel can be bound to a slider.
type Color struct {
	R, G, B, A float64
}

// NewColor converts any color.Color.
func NewColor(c color.Color) Color {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{
		R: float64(n.R) / 0xffff,
		G: float64(n.G) / 0xffff,
		B: float64(n.B) / 0xffff,
		A: float64(n.A) / 0xffff,
	}
}

// RGBA implements color.Color, channels are clamped to [0,1].
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA64{
		R: toChannel(c.R),
		G: toChannel(c.G),
		B: toChannel(c.B),
		A: toChannel(c.A),
	}.RGBA()
}

func toChannel(v float64) uint16 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return uint16(math.Round(v * 0xffff))
}

// Params is the tunable parameter record shared by every agent of a Group.
// Weights and friendliness are not clamped: the UI restricts them, the engine accepts any float.
type Params struct {
	Cohesion              float64
	Separation            float64
	Alignment             float64
	Friendliness          float64
	ViewDistance          float64
	MinSeparationDistance float64
	MaxSpeed              float64
	Size                  geometry.Vector2D
	Color                 Color
	// Count is the desired number of agents. It is a float so it can follow a continuous slider.
	Count float64
}

// DefaultParams are the values a freshly added group starts with.
func DefaultParams() Params {
	return Params{
		Cohesion:              0.2,
		Separation:            0.5,
		Alignment:             0.3,
		Friendliness:          1.0,
		ViewDistance:          10,
		MinSeparationDistance: 40,
		MaxSpeed:              60,
		Size:                  geometry.Vector2D{X: 1, Y: 1},
		Color:                 Color{R: 0.1, G: 0.8, B: 0.3, A: 1},
	}
}

// Param names one bindable group parameter.
type Param int

const (
	ParamCohesion Param = iota
	ParamSeparation
	ParamAlignment
	ParamFriendliness
	ParamViewDistance
	ParamMinSeparationDistance
	ParamMaxSpeed
	ParamCount
	ParamSizeX
	ParamSizeY
	ParamColorR
	ParamColorG
	ParamColorB
	numParams
)

var paramNames = [numParams]string{
	ParamCohesion:              "cohesion",
	ParamSeparation:            "separation",
	ParamAlignment:             "alignment",
	ParamFriendliness:          "friendliness",
	ParamViewDistance:          "viewDistance",
	ParamMinSeparationDistance: "minSeparationDistance",
	ParamMaxSpeed:              "maxSpeed",
	ParamCount:                 "count",
	ParamSizeX:                 "sizeX",
	ParamSizeY:                 "sizeY",
	ParamColorR:                "colorR",
	ParamColorG:                "colorG",
	ParamColorB:                "colorB",
}

// AllParams lists every bindable parameter in display order.
func AllParams() []Param {
	all := make([]Param, 0, numParams)
	for p := Param(0); p < numParams; p++ {
		all = append(all, p)
	}
	return all
}

func (p Param) String() string {
	if p < 0 || p >= numParams {
		return fmt.Sprintf("Param(%d)", int(p))
	}
	return paramNames[p]
}

// ParseParam is the inverse of Param.String.
func ParseParam(name string) (Param, error) {
	for p, n := range paramNames {
		if n == name {
			return Param(p), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

// field returns the address of the parameter inside p, nil when out of range.
func (p *Params) field(param Param) *float64 {
	switch param {
	case ParamCohesion:
		return &p.Cohesion
	case ParamSeparation:
		return &p.Separation
	case ParamAlignment:
		return &p.Alignment
	case ParamFriendliness:
		return &p.Friendliness
	case ParamViewDistance:
		return &p.ViewDistance
	case ParamMinSeparationDistance:
		return &p.MinSeparationDistance
	case ParamMaxSpeed:
		return &p.MaxSpeed
	case ParamCount:
		return &p.Count
	case ParamSizeX:
		return &p.Size.X
	case ParamSizeY:
		return &p.Size.Y
	case ParamColorR:
		return &p.Color.R
	case ParamColorG:
		return &p.Color.G
	case ParamColorB:
		return &p.Color.B
	}
	return nil
}

// Get reads one parameter, NaN for an unknown one.
func (p Params) Get(param Param) float64 {
	if f := p.field(param); f != nil {
		return *f
	}
	return math.NaN()
}

// Set writes one parameter. Unknown parameters are ignored.
func (p *Params) Set(param Param, v float64) {
	if f := p.field(param); f != nil {
		*f = v
	}
}

// Binding is a get/set handle on one parameter of one group, handed to UI widgets
// instead of a pointer into the group.
type Binding struct {
	group *Group
	param Param
}

// Param returns the bound parameter.
func (b Binding) Param() Param {
	return b.param
}

// Get reads the current value.
func (b Binding) Get() float64 {
	return b.group.Param(b.param)
}

// Set writes v, it takes effect on the next update.
func (b Binding) Set(v float64) {
	b.group.SetParam(b.param, v)
}
