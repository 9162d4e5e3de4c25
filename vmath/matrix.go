package vmath

import (
	"math"
)

// Mat4 is a row-major 4x4 matrix, translation lives in the last column
// Application computes out[i] = sum_j M[i][j] * v[j]
type Mat4 [4][4]float64

// Identity returns the 4x4 identity matrix
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Scale returns a diagonal scaling matrix
func Scale(s Vec3) Mat4 {
	return Mat4{
		{s.X, 0, 0, 0},
		{0, s.Y, 0, 0},
		{0, 0, s.Z, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns a matrix moving points by t
func Translation(t Vec3) Mat4 {
	return Mat4{
		{1, 0, 0, t.X},
		{0, 1, 0, t.Y},
		{0, 0, 1, t.Z},
		{0, 0, 0, 1},
	}
}

// RotationX returns a right-handed rotation about the X axis
func RotationX(a float64) Mat4 {
	s, c := math.Sincos(a)
	return Mat4{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
}

// RotationY returns a right-handed rotation about the Y axis
func RotationY(a float64) Mat4 {
	s, c := math.Sincos(a)
	return Mat4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// RotationZ returns a right-handed rotation about the Z axis
func RotationZ(a float64) Mat4 {
	s, c := math.Sincos(a)
	return Mat4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// EulerRotation composes Rx * Ry * Rz from angles in radians
// Order is fixed, gimbal lock is accepted
func EulerRotation(r Vec3) Mat4 {
	return RotationX(r.X).Mul(RotationY(r.Y)).Mul(RotationZ(r.Z))
}

// Mul returns the product m * o
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * o[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Apply transforms a homogeneous vector
func (m Mat4) Apply(v Vec4) Vec4 {
	var out [4]float64
	for i := 0; i < 4; i++ {
		var sum float64
		for j := 0; j < 4; j++ {
			sum += m[i][j] * v.at(j)
		}
		out[i] = sum
	}
	return Vec4{out[0], out[1], out[2], out[3]}
}
