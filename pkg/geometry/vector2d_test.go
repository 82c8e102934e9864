package geometry

import (
	"math"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVector(t *testing.T) {
	v := NewVector(1, 2)
	if v.X != 1 || v.Y != 2 {
		t.Errorf("NewVector(1, 2) = %v; want (1, 2)", v)
	}
}

func TestNewVectorPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"Zero radius", 0, 0, Vector2D{0, 0}},
		{"Zero angle (X-axis)", 10, 0, Vector2D{10, 0}},
		{"90 degrees (Y-axis)", 10, math.Pi / 2, Vector2D{0, 10}},
		{"180 degrees (Negative X)", 10, math.Pi, Vector2D{-10, 0}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector2D{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("NewVectorPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{1.234, 5.678}
	want := "(1.23, 5.68)"
	if got := v.String(); got != want {
		t.Errorf("Vector2D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		want := Vector2D{4, 6}
		if got := v1.Add(v2); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector2D{-2, -2}
		if got := v1.Sub(v2); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector2D{2, 4}
		if got := v1.Mul(2); !got.Eq(want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("Div", func(t *testing.T) {
		want := Vector2D{0.5, 1}
		if got := v1.Div(2); !got.Eq(want) {
			t.Errorf("%v.Div(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("DivByZero", func(t *testing.T) {
		got := v1.Div(0)
		if !math.IsInf(got.X, 1) || !math.IsInf(got.Y, 1) {
			t.Errorf("Div(0) should result in +Inf coordinates, got %v", got)
		}
		if got.IsFinite() {
			t.Errorf("Div(0) result should not be finite")
		}
	})
}

func TestVector_Products(t *testing.T) {
	v1 := Vector2D{1, 0}
	v2 := Vector2D{0, 1}
	v3 := Vector2D{1, 1}

	t.Run("Dot", func(t *testing.T) {
		if got := v1.Dot(v2); got != 0 {
			t.Errorf("Dot orthogonal = %v; want 0", got)
		}
		if got := v1.Dot(Vector2D{2, 0}); got != 2 {
			t.Errorf("Dot parallel = %v; want 2", got)
		}
	})

	t.Run("Det", func(t *testing.T) {
		if got := v1.Det(v2); got != 1 {
			t.Errorf("Det X,Y = %v; want 1", got)
		}
		if got := v2.Det(v1); got != -1 {
			t.Errorf("Det Y,X = %v; want -1", got)
		}
		if got := v3.Det(v3); got != 0 {
			t.Errorf("Det self = %v; want 0", got)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector2D{3, 4} // 3-4-5 triangle

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 5 {
			t.Errorf("Len = %v; want 5", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); got != 25 {
			t.Errorf("LenSqr = %v; want 25", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		want := Vector2D{0.6, 0.8}
		if !got.Eq(want) {
			t.Errorf("Normalize = %v; want %v", got, want)
		}
		if !floatEquals(got.Len(), 1.0) {
			t.Errorf("Normalize length = %v; want 1", got.Len())
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		got := Vector2D{0, 0}.Normalize()
		if !math.IsNaN(got.X) || !math.IsNaN(got.Y) {
			t.Errorf("Normalize(0,0) = %v; want (NaN, NaN)", got)
		}
	})
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector2D{1, 1}
	v2 := Vector2D{4, 5} // dx=3, dy=4, dist=5

	if got := v1.DistanceTo(v2); got != 5 {
		t.Errorf("DistanceTo = %v; want 5", got)
	}

	if got := v1.DistanceSquaredTo(v2); got != 25 {
		t.Errorf("DistanceSquaredTo = %v; want 25", got)
	}
}

func TestVector_Angles(t *testing.T) {
	xAxis := Vector2D{1, 0}
	tests := []struct {
		name string
		v    Vector2D
		want float64
	}{
		{"same direction", Vector2D{2, 0}, 0},
		{"quarter turn counter-clockwise", Vector2D{0, 1}, 90},
		{"quarter turn clockwise", Vector2D{0, -1}, -90},
		{"opposite", Vector2D{-1, 0}, 180},
		{"diagonal", Vector2D{1, 1}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := xAxis.AngleDeg(tt.v); !floatEquals(got, tt.want) {
				t.Errorf("%v.AngleDeg(%v) = %v; want %v", xAxis, tt.v, got, tt.want)
			}
			// the angle is signed: swapping operands flips it (except for +-180)
			if tt.want != 180 {
				if got := tt.v.AngleDeg(xAxis); !floatEquals(got, -tt.want) {
					t.Errorf("%v.AngleDeg(%v) = %v; want %v", tt.v, xAxis, got, -tt.want)
				}
			}
		})
	}

	if got := xAxis.AngleRad(Vector2D{0, 3}); !floatEquals(got, math.Pi/2) {
		t.Errorf("AngleRad = %v; want %v", got, math.Pi/2)
	}
}

func TestVector_Transformations(t *testing.T) {
	t.Run("Rotate", func(t *testing.T) {
		got := Vector2D{1, 0}.Rotate(math.Pi / 2)
		want := Vector2D{0, 1}
		if !got.Eq(want) {
			t.Errorf("Rotate(90) = %v; want %v", got, want)
		}
	})

	t.Run("Reflect", func(t *testing.T) {
		// bouncing off a floor whose normal points up
		got := Vector2D{1, -1}.Reflect(Vector2D{0, 1})
		want := Vector2D{1, 1}
		if !got.Eq(want) {
			t.Errorf("Reflect = %v; want %v", got, want)
		}
	})
}

func TestVector_Eq(t *testing.T) {
	v := Vector2D{1, 2}

	if !v.Eq(Vector2D{1, 2}) {
		t.Error("Eq exact match failed")
	}

	vClose := Vector2D{1 + Epsilon/2, 2 - Epsilon/2}
	if !v.Eq(vClose) {
		t.Error("Eq epsilon match failed")
	}

	if v.Eq(Vector2D{1.1, 2}) {
		t.Error("Eq mismatch failed")
	}
}
