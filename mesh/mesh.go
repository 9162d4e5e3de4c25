// Package mesh holds vertex lists with independently replaceable scale, rotation and translation
package mesh

import (
	"github.com/lixenwraith/splat/vmath"
)

// Mesh is an append-only list of local-space vertices with a scale/rotation/translation pose
// Transformed vertices are recomputed on every call
type Mesh struct {
	vertices    []vmath.Vec3
	scale       vmath.Mat4
	rotation    vmath.Mat4
	translation vmath.Mat4
}

// New creates an empty mesh with identity transforms
func New() *Mesh {
	return &Mesh{
		scale:       vmath.Identity(),
		rotation:    vmath.Identity(),
		translation: vmath.Identity(),
	}
}

// FromVertices creates a mesh owning a copy of verts
func FromVertices(verts []vmath.Vec3) *Mesh {
	m := New()
	m.vertices = append(make([]vmath.Vec3, 0, len(verts)), verts...)
	return m
}

func (m *Mesh) AddVertex(v vmath.Vec3) {
	m.vertices = append(m.vertices, v)
}

func (m *Mesh) SetScaleMatrix(s vmath.Mat4) {
	m.scale = s
}

func (m *Mesh) SetRotationMatrix(r vmath.Mat4) {
	m.rotation = r
}

func (m *Mesh) SetTranslationMatrix(t vmath.Mat4) {
	m.translation = t
}

// SetPose replaces all three transforms at once
func (m *Mesh) SetPose(scale, rotation, translation vmath.Mat4) {
	m.scale = scale
	m.rotation = rotation
	m.translation = translation
}

// Len returns the vertex count
func (m *Mesh) Len() int {
	return len(m.vertices)
}

// Vertices returns a copy of the local-space vertices
func (m *Mesh) Vertices() []vmath.Vec3 {
	out := make([]vmath.Vec3, len(m.vertices))
	copy(out, m.vertices)
	return out
}

// TransformedVertices applies scale, then rotation, then translation to every vertex, preserving order
func (m *Mesh) TransformedVertices() []vmath.Vec3 {
	out := make([]vmath.Vec3, len(m.vertices))
	for i, v := range m.vertices {
		h := v.Vec4()
		h = m.scale.Apply(h)
		h = m.rotation.Apply(h)
		h = m.translation.Apply(h)
		out[i] = h.Vec3()
	}
	return out
}
