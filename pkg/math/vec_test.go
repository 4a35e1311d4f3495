package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
}

func TestVec2AngleTo(t *testing.T) {
	up := Vec2{0, 1}
	tests := []struct {
		name string
		v    Vec2
		want float32
	}{
		{"same direction", Vec2{0, 2}, 0},
		{"west is a quarter turn", Vec2{-1, 0}, 90},
		{"south is a half turn", Vec2{0, -1}, 180},
		{"east is three quarters", Vec2{1, 0}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := up.AngleTo(tt.v)
			if math.Abs(float64(got-tt.want)) > 1e-4 {
				t.Errorf("AngleTo(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Angle(t *testing.T) {
	got := Vec3{1, 0, 0}.Angle(Vec3{0, 3, 0})
	if math.Abs(float64(got)-math.Pi/2) > 1e-6 {
		t.Errorf("Vec3.Angle() = %v, want pi/2", got)
	}
	if a := (Vec3{}).Angle(Vec3{1, 0, 0}); a != 0 {
		t.Errorf("Angle with zero vector = %v, want 0", a)
	}
}

func TestVec3AsMapKey(t *testing.T) {
	m := map[Vec3]int{{1, 2, 3}: 7}
	if m[Vec3{1, 2, 3}] != 7 {
		t.Error("expected exact position lookup to hit")
	}
	if _, ok := m[Vec3{1, 2, 3.0001}]; ok {
		t.Error("expected nearby position to miss")
	}
}
