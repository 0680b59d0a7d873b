package core

import (
	"math"
	"testing"
)

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if zero := NewVec3(0, 0, 0).Normalize(); !zero.IsZero() {
		t.Errorf("Expected zero vector to stay zero, got %v", zero)
	}
}

func TestVec3_Refract(t *testing.T) {
	n := NewVec3(0, 1, 0)

	// Straight through at normal incidence
	got := NewVec3(0, -1, 0).Refract(n, 1.0/1.5)
	if !vecNear(got, NewVec3(0, -1, 0), 1e-12) {
		t.Errorf("Normal incidence should not bend, got %v", got)
	}

	// Snell's law: sin(theta_t) = eta * sin(theta_i)
	in := NewVec3(math.Sin(0.5), -math.Cos(0.5), 0)
	out := in.Refract(n, 1.0/1.5)
	sinT := math.Abs(out.X) / out.Length()
	if math.Abs(sinT-math.Sin(0.5)/1.5) > 1e-9 {
		t.Errorf("Snell's law violated: sin(t)=%f expected %f", sinT, math.Sin(0.5)/1.5)
	}
}

func TestVec3_Reflect(t *testing.T) {
	got := NewVec3(1, -1, 0).Reflect(NewVec3(0, 1, 0))
	if !vecNear(got, NewVec3(1, 1, 0), 1e-12) {
		t.Errorf("Expected (1,1,0), got %v", got)
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Expected finite vector")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN should not be finite")
	}
	if NewVec3(0, math.Inf(-1), 0).IsFinite() {
		t.Error("Inf should not be finite")
	}
}

func TestRay_At(t *testing.T) {
	r := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	if got := r.At(1.5); got != NewVec3(1, 3, 0) {
		t.Errorf("Expected (1,3,0), got %v", got)
	}
}
