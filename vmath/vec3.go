package vmath

import (
	"math"
)

// Vec3 is a float64 3D vector used for mesh vertices and transform parameters
type Vec3 struct {
	X, Y, Z float64
}

// V3 builds a Vec3 from components
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Mul is the componentwise (Hadamard) product
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) MagSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.MagSq())
}

// Vec4 promotes to homogeneous coordinates with w=1
func (v Vec3) Vec4() Vec4 {
	return Vec4{v.X, v.Y, v.Z, 1}
}

// Transform applies m to the point v (w=1) and drops w
func (v Vec3) Transform(m Mat4) Vec3 {
	return m.Apply(v.Vec4()).Vec3()
}

// XY projects onto the screen plane, truncating toward zero
func (v Vec3) XY() Vec2i {
	return Vec2i{int(v.X), int(v.Y)}
}

// PlanarDistance returns the Euclidean distance between (x, y) and the vector's XY projection
func (v Vec3) PlanarDistance(x, y float64) float64 {
	return math.Hypot(x-v.X, y-v.Y)
}
