// Package models loads triangle meshes for the scanline rasterizer.
package models

import (
	"fmt"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle referencing three vertices and a material.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the base color a loader found for a group of faces.
type Material struct {
	Name       string
	BaseColor  [4]float64 // RGBA in 0-1 range
	HasTexture bool
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// FromTriangleSoup builds a mesh from consecutive position triples and a
// parallel texture coordinate slice. A trailing partial triple is dropped.
// Missing coordinates default to zero.
func FromTriangleSoup(name string, positions []math3d.Vec3, uvs []math3d.Vec2) *Mesh {
	m := NewMesh(name)
	n := len(positions) / 3 * 3
	m.Vertices = make([]MeshVertex, n)
	m.Faces = make([]Face, 0, n/3)
	for i := range n {
		m.Vertices[i].Position = positions[i]
		if i < len(uvs) {
			m.Vertices[i].UV = uvs[i]
		}
	}
	for i := 0; i < n; i += 3 {
		m.Faces = append(m.Faces, Face{V: [3]int{i, i + 1, i + 2}, Material: -1})
	}
	m.CalculateBounds()
	return m
}

// Soup flattens the mesh back into consecutive position triples and their
// texture coordinates.
func (m *Mesh) Soup() ([]math3d.Vec3, []math3d.Vec2) {
	positions := make([]math3d.Vec3, 0, len(m.Faces)*3)
	uvs := make([]math3d.Vec2, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		for _, vi := range f.V {
			positions = append(positions, m.Vertices[vi].Position)
			uvs = append(uvs, m.Vertices[vi].UV)
		}
	}
	return positions, uvs
}

// Validate checks that every face references an existing vertex.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for _, vi := range f.V {
			if vi < 0 || vi >= len(m.Vertices) {
				return fmt.Errorf("face %d: vertex index %d out of range [0, %d)", i, vi, len(m.Vertices))
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle returns the positions and texture coordinates of face i.
func (m *Mesh) Triangle(i int) (pos [3]math3d.Vec3, uv [3]math3d.Vec2) {
	f := m.Faces[i]
	for k, vi := range f.V {
		v := &m.Vertices[vi]
		pos[k], uv[k] = v.Position, v.UV
	}
	return pos, uv
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// CalculateNormals assigns each face's normal to its vertices.
// Shared vertices end up with the normal of the last face written.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = n
		}
	}
}

// CalculateSmoothNormals averages area-weighted face normals per vertex.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}
	for _, f := range m.Faces {
		n := m.faceNormal(f) // not normalized: larger faces weigh more
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// hasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) hasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Fit uniformly scales the mesh so its largest extent equals size, then
// moves it to stand on y=0 centered on the X and Z axes.
func (m *Mesh) Fit(size float64) {
	ext := m.Size()
	largest := max(ext.X, ext.Y, ext.Z)
	if largest <= 0 || size <= 0 {
		return
	}
	s := size / largest
	c := m.Center()
	base := math3d.V3(c.X, m.BoundsMin.Y, c.Z)
	m.Transform(math3d.Scale(math3d.Splat3(s)).Mul(math3d.Translate(base.Negate())))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetFaceMaterial returns the material index for face i, or -1.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i, or nil if i is out of range.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}
