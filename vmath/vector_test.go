package vmath

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 5, 6)

	if got := a.Add(b); got != V3(5, 7, 9) {
		t.Errorf("Add: expected (5,7,9), got %v", got)
	}
	if got := b.Sub(a); got != V3(3, 3, 3) {
		t.Errorf("Sub: expected (3,3,3), got %v", got)
	}
	if got := a.Mul(b); got != V3(4, 10, 18) {
		t.Errorf("Mul: expected componentwise (4,10,18), got %v", got)
	}
	if got := a.Scale(2); got != V3(2, 4, 6) {
		t.Errorf("Scale: expected (2,4,6), got %v", got)
	}
}

func TestMagnitude(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"vec2i", V2i(3, 4).Magnitude(), 5},
		{"vec2i negative", V2i(-3, -4).Magnitude(), 5},
		{"vec3", V3(2, 3, 6).Magnitude(), 7},
		{"vec4", Vec4{1, 1, 1, 1}.Magnitude(), 2},
		{"zero", V3(0, 0, 0).Magnitude(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.want, tt.got)
			}
			if tt.got < 0 {
				t.Errorf("Expected non-negative magnitude, got %f", tt.got)
			}
		})
	}
}

func TestVec3Vec4RoundTrip(t *testing.T) {
	v := V3(1.25, -3, 9)
	h := v.Vec4()
	if h.W != 1 {
		t.Errorf("Expected w=1 after promotion, got %f", h.W)
	}
	if got := h.Vec3(); got != v {
		t.Errorf("Expected %v after round trip, got %v", v, got)
	}
	if got := (Vec4{1, 2, 3, 9}).Vec3(); got != V3(1, 2, 3) {
		t.Errorf("Expected w discarded, got %v", got)
	}
}

func TestVec2iArithmetic(t *testing.T) {
	a := V2i(2, -3)
	b := V2i(5, 4)
	if got := a.Add(b); got != V2i(7, 1) {
		t.Errorf("Add: expected (7,1), got %v", got)
	}
	if got := a.Sub(b); got != V2i(-3, -7) {
		t.Errorf("Sub: expected (-3,-7), got %v", got)
	}
	if got := a.Mul(b); got != V2i(10, -12) {
		t.Errorf("Mul: expected (10,-12), got %v", got)
	}
}

func TestPlanarDistance(t *testing.T) {
	v := V3(3, 4, 100)
	if got := v.PlanarDistance(0, 0); got != 5 {
		t.Errorf("Expected depth ignored and distance 5, got %f", got)
	}
}

func TestXYTruncates(t *testing.T) {
	if got := V3(3.9, -2.7, 8).XY(); got != V2i(3, -2) {
		t.Errorf("Expected (3,-2), got %v", got)
	}
}
