package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// SmoothTriangle is a triangle whose shading normal is interpolated from
// per-vertex normals, giving continuous shading across shared vertices
type SmoothTriangle struct {
	V0, V1, V2 core.Vec3
	N0, N1, N2 core.Vec3
	Material   material.Material
	normal     core.Vec3 // geometric normal, used when interpolation degenerates
	bbox       core.AABB
}

// NewSmoothTriangle creates a triangle with per-vertex normals
func NewSmoothTriangle(v0, v1, v2, n0, n1, n2 core.Vec3, mat material.Material) *SmoothTriangle {
	return &SmoothTriangle{
		V0: v0, V1: v1, V2: v2,
		N0: n0.Normalize(), N1: n1.Normalize(), N2: n2.Normalize(),
		Material: mat,
		normal:   v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize(),
		bbox:     core.NewAABBFromPoints(v0, v1, v2).Pad(boxPadding),
	}
}

// Hit runs the flat triangle test and interpolates the vertex normals at the hit
func (t *SmoothTriangle) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	root, u, v, ok := intersectTriangle(ray, t.V0, t.V1, t.V2, tMin, tMax)
	if !ok {
		return nil, false
	}

	w := 1 - u - v
	n := t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
	if n.IsZero() {
		n = t.normal
	}

	hit := &material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: t.Material,
	}
	hit.SetFaceNormal(ray, n)
	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *SmoothTriangle) BoundingBox() core.AABB {
	return t.bbox
}
