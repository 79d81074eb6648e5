// Package math provides the float32 vector types the terrain engine works in.
package math

import "math"

// Vec2 is a pair of floats, used for grid cell sizes and XZ-plane values.
type Vec2 struct {
	X, Y float32
}

// Add returns the component-wise sum.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Length returns the Euclidean magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalize returns the unit vector in the same direction. The zero vector
// normalizes to itself.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}
