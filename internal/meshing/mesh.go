package meshing

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is the renderable geometry of one chunk, in chunk-local space.
// A Mesh is never mutated after Build returns it.
type Mesh struct {
	Vertices  []mgl32.Vec3
	Triangles []uint32
	UVs       []mgl32.Vec2
	Normals   []mgl32.Vec3

	vertexIndex uint32
}

// VertexCount returns the number of emitted vertices.
func (m *Mesh) VertexCount() int {
	return int(m.vertexIndex)
}

// QuadCount returns the number of emitted faces.
func (m *Mesh) QuadCount() int {
	return len(m.Vertices) / 4
}

// Empty reports whether the mesh has no geometry.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Vertices) == 0
}

// Equal reports whether two meshes carry identical buffers.
func (m *Mesh) Equal(o *Mesh) bool {
	if m.Empty() || o.Empty() {
		return m.Empty() && o.Empty()
	}
	if len(m.Vertices) != len(o.Vertices) || len(m.Triangles) != len(o.Triangles) || len(m.UVs) != len(o.UVs) {
		return false
	}
	for i := range m.Vertices {
		if m.Vertices[i] != o.Vertices[i] {
			return false
		}
	}
	for i := range m.Triangles {
		if m.Triangles[i] != o.Triangles[i] {
			return false
		}
	}
	for i := range m.UVs {
		if m.UVs[i] != o.UVs[i] {
			return false
		}
	}
	return true
}

func newMesh(capacityQuads int) *Mesh {
	return &Mesh{
		Vertices:  make([]mgl32.Vec3, 0, capacityQuads*4),
		Triangles: make([]uint32, 0, capacityQuads*6),
		UVs:       make([]mgl32.Vec2, 0, capacityQuads*4),
	}
}

// addQuad appends one face: 4 vertices, 6 indices and 4 UVs.
func (m *Mesh) addQuad(corners [4]mgl32.Vec3, uvs [4]mgl32.Vec2) {
	m.Vertices = append(m.Vertices, corners[:]...)
	m.UVs = append(m.UVs, uvs[:]...)
	for _, t := range quadTriangles {
		m.Triangles = append(m.Triangles, m.vertexIndex+t)
	}
	m.vertexIndex += 4
}

// recalculateNormals derives per-vertex normals from the triangle list by
// accumulating area-weighted face normals.
func (m *Mesh) recalculateNormals() {
	normals := make([]mgl32.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Triangles); i += 3 {
		a, b, c := m.Triangles[i], m.Triangles[i+1], m.Triangles[i+2]
		va, vb, vc := m.Vertices[a], m.Vertices[b], m.Vertices[c]
		n := vb.Sub(va).Cross(vc.Sub(va))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	m.Normals = normals
}
