// Package math provides the float32 vector types shared by the terrain core and its tools.
package math

import "math"

// Vec2 is a 2D vector, used for positions on the world plane (X east, Y north).
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the Z component of the 3D cross product of v and other.
// Positive when other lies counter-clockwise of v.
func (v Vec2) Cross(other Vec2) float32 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// AngleTo returns the counter-clockwise angle in degrees that rotates v onto
// other, in the range [0, 360).
func (v Vec2) AngleTo(other Vec2) float32 {
	deg := math.Atan2(float64(v.Cross(other)), float64(v.Dot(other))) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return float32(deg)
}
