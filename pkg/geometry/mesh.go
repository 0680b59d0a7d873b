package geometry

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MeshData holds imported mesh arrays: positions, optional per-vertex
// normals and triangle indices (three per triangle)
type MeshData struct {
	Positions []core.Vec3
	Normals   []core.Vec3
	Indices   []int
}

// TriangleCount returns the number of triangles described by the index array
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks that indices come in triples and reference existing vertices
func (m *MeshData) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if idx < 0 || idx >= len(m.Positions) {
			return fmt.Errorf("index %d at position %d out of range [0, %d)", idx, i, len(m.Positions))
		}
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("have %d normals for %d vertices", len(m.Normals), len(m.Positions))
	}
	return nil
}

// ComputeVertexNormals fills Normals with area-weighted averages of the adjacent face normals
func (m *MeshData) ComputeVertexNormals() {
	normals := make([]core.Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		// The unnormalized cross product is proportional to the face area
		faceNormal := m.Positions[i1].Subtract(m.Positions[i0]).Cross(m.Positions[i2].Subtract(m.Positions[i0]))
		normals[i0] = normals[i0].Add(faceNormal)
		normals[i1] = normals[i1].Add(faceNormal)
		normals[i2] = normals[i2].Add(faceNormal)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	m.Normals = normals
}

// Triangles builds one primitive per face. With smooth set, faces become
// SmoothTriangles and missing normals are computed from the geometry.
func (m *MeshData) Triangles(smooth bool, mat material.Material) ([]Hittable, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if smooth && len(m.Normals) == 0 {
		m.ComputeVertexNormals()
	}

	triangles := make([]Hittable, 0, m.TriangleCount())
	for i := 0; i < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0, p1, p2 := m.Positions[i0], m.Positions[i1], m.Positions[i2]
		if smooth {
			triangles = append(triangles, NewSmoothTriangle(p0, p1, p2, m.Normals[i0], m.Normals[i1], m.Normals[i2], mat))
		} else {
			triangles = append(triangles, NewTriangle(p0, p1, p2, mat))
		}
	}
	return triangles, nil
}

// NewMesh builds the triangles of data and wraps them in a BVH
func NewMesh(data *MeshData, smooth bool, mat material.Material) (Hittable, error) {
	triangles, err := data.Triangles(smooth, mat)
	if err != nil {
		return nil, fmt.Errorf("build mesh: %w", err)
	}
	return NewBVH(triangles), nil
}

// NewQuad returns the two triangles spanning the parallelogram corner, corner+u, corner+u+v, corner+v
func NewQuad(corner, u, v core.Vec3, mat material.Material) []Hittable {
	p1 := corner.Add(u)
	p2 := corner.Add(u).Add(v)
	p3 := corner.Add(v)
	return []Hittable{
		NewTriangle(corner, p1, p2, mat),
		NewTriangle(corner, p2, p3, mat),
	}
}
