package vmath

import (
	"math"
)

// Vec2i is an integer screen position
type Vec2i struct {
	X, Y int
}

// V2i builds a Vec2i from components
func V2i(x, y int) Vec2i {
	return Vec2i{X: x, Y: y}
}

func (v Vec2i) Add(o Vec2i) Vec2i {
	return Vec2i{v.X + o.X, v.Y + o.Y}
}

func (v Vec2i) Sub(o Vec2i) Vec2i {
	return Vec2i{v.X - o.X, v.Y - o.Y}
}

func (v Vec2i) Mul(o Vec2i) Vec2i {
	return Vec2i{v.X * o.X, v.Y * o.Y}
}

// Magnitude returns the Euclidean length as float64
func (v Vec2i) Magnitude() float64 {
	return math.Hypot(float64(v.X), float64(v.Y))
}
