package flock

import (
	"image/color"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
)

func testParams(count float64) Params {
	p := DefaultParams()
	p.Count = count
	return p
}

func TestGroup_Resize(t *testing.T) {
	bounds := geometry.NewBoundary(100, 200, 300, 250)

	t.Run("GrowKeepsExistingAndPlacesNewInside", func(t *testing.T) {
		g := NewGroup(testParams(5), bounds, NewRandomSource(1))
		before := make([]Agent, g.Len())
		for i, a := range g.Agents() {
			before[i] = *a
		}

		g.Resize(12, bounds)

		if g.Len() != 12 {
			t.Fatalf("Len = %d; want 12", g.Len())
		}
		for i, want := range before {
			if *g.Agents()[i] != want {
				t.Errorf("agent %d changed from %+v to %+v", i, want, *g.Agents()[i])
			}
		}
		for i, a := range g.Agents() {
			if !bounds.Contains(a.Position) {
				t.Errorf("agent %d at %v outside %v", i, a.Position, bounds)
			}
			speed := a.Velocity.Len()
			maxSpeed := g.Params().MaxSpeed
			if speed < 0.5*maxSpeed-geometry.Epsilon || speed > maxSpeed+geometry.Epsilon {
				t.Errorf("agent %d speed %v outside [%v, %v]", i, speed, 0.5*maxSpeed, maxSpeed)
			}
		}
	})

	t.Run("ShrinkKeepsPrefix", func(t *testing.T) {
		g := NewGroup(testParams(10), bounds, NewRandomSource(2))
		keep := make([]*Agent, 4)
		state := make([]Agent, 4)
		copy(keep, g.Agents()[:4])
		for i, a := range keep {
			state[i] = *a
		}

		g.Resize(4, bounds)

		if g.Len() != 4 {
			t.Fatalf("Len = %d; want 4", g.Len())
		}
		for i := range keep {
			if g.Agents()[i] != keep[i] {
				t.Errorf("agent %d is not the same object", i)
			}
			if *g.Agents()[i] != state[i] {
				t.Errorf("agent %d state changed", i)
			}
		}
	})

	t.Run("CountIsFlooredAndNonNegative", func(t *testing.T) {
		tests := []struct {
			count float64
			want  int
		}{
			{3.9, 3},
			{0.4, 0},
			{-7, 0},
			{math.NaN(), 0},
			{6, 6},
			{math.Inf(-1), 0},
		}
		for _, tt := range tests {
			g := NewGroup(testParams(tt.count), bounds, NewRandomSource(3))
			if g.Len() != tt.want {
				t.Errorf("count %v: Len = %d; want %d", tt.count, g.Len(), tt.want)
			}
		}
	})

	t.Run("HugeCountSaturates", func(t *testing.T) {
		for _, count := range []float64{math.Inf(1), 1e19, MaxGroupLen + 0.5} {
			if got := desiredLen(count); got != MaxGroupLen {
				t.Errorf("desiredLen(%v) = %d; want %d", count, got, MaxGroupLen)
			}
		}

		g := NewGroup(testParams(3), bounds, NewRandomSource(3))
		g.Resize(math.Inf(1), bounds)
		if g.Len() != MaxGroupLen {
			t.Errorf("Len after +Inf = %d; want %d", g.Len(), MaxGroupLen)
		}
		g.Resize(1e19, bounds)
		if g.Len() != MaxGroupLen {
			t.Errorf("Len after 1e19 = %d; want %d", g.Len(), MaxGroupLen)
		}
		g.Resize(2, bounds)
		if g.Len() != 2 {
			t.Errorf("Len after shrink = %d; want 2", g.Len())
		}
	})
}

func TestGroup_UpdateReestablishesCount(t *testing.T) {
	bounds := geometry.NewBoundary(0, 0, 500, 500)
	s := NewSystem(bounds, geometry.Vector2D{X: 10, Y: 10}, NewRandomSource(4))
	g := s.AddGroupWithParams(testParams(8))

	g.Bind(ParamCount).Set(20.7)
	g.Update(0.016, s)
	if g.Len() != 20 {
		t.Errorf("Len after grow = %d; want 20", g.Len())
	}

	g.SetParam(ParamCount, 2)
	g.Update(0.016, s)
	if g.Len() != 2 {
		t.Errorf("Len after shrink = %d; want 2", g.Len())
	}
}

func TestGroup_Averages(t *testing.T) {
	g := &Group{}
	if got := g.AveragePosition(); got != (geometry.Vector2D{}) {
		t.Errorf("empty AveragePosition = %v; want zero", got)
	}
	if got := g.AverageVelocity(); got != (geometry.Vector2D{}) {
		t.Errorf("empty AverageVelocity = %v; want zero", got)
	}

	g.agents = []*Agent{
		{Position: geometry.Vector2D{X: 0, Y: 0}, Velocity: geometry.Vector2D{X: 1, Y: 1}},
		{Position: geometry.Vector2D{X: 4, Y: 2}, Velocity: geometry.Vector2D{X: 3, Y: -1}},
	}
	if got := g.AveragePosition(); !got.Eq(geometry.Vector2D{X: 2, Y: 1}) {
		t.Errorf("AveragePosition = %v; want (2, 1)", got)
	}
	if got := g.AverageVelocity(); !got.Eq(geometry.Vector2D{X: 2, Y: 0}) {
		t.Errorf("AverageVelocity = %v; want (2, 0)", got)
	}
}

func TestGroup_ParamsAndBindings(t *testing.T) {
	g := NewGroup(testParams(0), geometry.NewBoundary(0, 0, 10, 10), NewRandomSource(5))

	for i, p := range AllParams() {
		v := float64(i) + 0.25
		b := g.Bind(p)
		b.Set(v)
		if got := b.Get(); got != v {
			t.Errorf("%s: Get = %v; want %v", p, got, v)
		}
		if got := g.Param(p); got != v {
			t.Errorf("%s: Param = %v; want %v", p, got, v)
		}
		if b.Param() != p {
			t.Errorf("Binding.Param = %v; want %v", b.Param(), p)
		}
	}

	// bindings accept values outside the slider ranges
	g.Bind(ParamCohesion).Set(-3.5)
	if g.Params().Cohesion != -3.5 {
		t.Errorf("Cohesion = %v; want -3.5", g.Params().Cohesion)
	}

	if got := g.Param(Param(99)); !math.IsNaN(got) {
		t.Errorf("unknown Param = %v; want NaN", got)
	}
	g.SetParam(Param(99), 1) // ignored
}

func TestStats_Params(t *testing.T) {
	p := testParams(4)
	p.Size = geometry.Vector2D{X: 15, Y: 5}
	p.ViewDistance = 60
	g := NewGroup(p, geometry.NewBoundary(0, 0, 10, 10), NewRandomSource(8))

	if got := g.Stats().Params(); got != p {
		t.Errorf("Stats().Params() = %+v; want %+v", got, p)
	}
}

func TestGroup_StatsIsACopy(t *testing.T) {
	p := testParams(3)
	p.Color = NewColor(color.RGBA{R: 255, A: 255})
	g := NewGroup(p, geometry.NewBoundary(0, 0, 10, 10), NewRandomSource(6))

	stats := g.Stats()
	if stats.Count != 3 {
		t.Errorf("Count = %d; want 3", stats.Count)
	}
	if stats.Color.R != 1 || stats.Color.G != 0 {
		t.Errorf("Color = %+v; want red", stats.Color)
	}

	stats.Cohesion = 42
	stats.Size.X = 42
	if g.Params().Cohesion == 42 || g.Params().Size.X == 42 {
		t.Error("mutating Stats changed the group")
	}

	for _, param := range AllParams() {
		if param == ParamCount {
			continue
		}
		if got, want := g.Stats().Value(param), g.Param(param); got != want {
			t.Errorf("Stats.Value(%s) = %v; want %v", param, got, want)
		}
	}
	if got := g.Stats().Value(ParamCount); got != 3 {
		t.Errorf("Stats.Value(count) = %v; want 3", got)
	}
}

func TestGroup_Views(t *testing.T) {
	g := NewGroup(testParams(4), geometry.NewBoundary(0, 0, 10, 10), NewRandomSource(7))
	views := g.Views()
	if len(views) != 4 {
		t.Fatalf("len(Views) = %d; want 4", len(views))
	}
	views[0].Position.X = -99
	if g.Agents()[0].Position.X == -99 {
		t.Error("mutating a view changed the agent")
	}
}

func TestParseParam(t *testing.T) {
	for _, p := range AllParams() {
		got, err := ParseParam(p.String())
		if err != nil {
			t.Errorf("ParseParam(%q) error: %v", p.String(), err)
		}
		if got != p {
			t.Errorf("ParseParam(%q) = %v; want %v", p.String(), got, p)
		}
	}
	if _, err := ParseParam("nope"); err == nil {
		t.Error("ParseParam(nope) should fail")
	}
	if s := Param(-1).String(); s != "Param(-1)" {
		t.Errorf("String = %q", s)
	}
}

func TestColor(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: -1, A: 1}
	r, g, b, a := c.RGBA()
	if r != 0xffff || b != 0 || a != 0xffff {
		t.Errorf("RGBA = %x %x %x %x", r, g, b, a)
	}
	if g < 0x7fff || g > 0x8000 {
		t.Errorf("G = %x; want about half", g)
	}

	back := NewColor(color.NRGBA{R: 0, G: 0, B: 255, A: 255})
	if back.B != 1 || back.R != 0 || back.A != 1 {
		t.Errorf("NewColor = %+v", back)
	}
}
