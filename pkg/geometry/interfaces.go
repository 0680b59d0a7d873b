package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Hittable is anything a ray can be intersected with: a primitive, an
// instance, a flat list or a BVH node
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	BoundingBox() core.AABB
}

// Object pairs a primitive with the material it is rendered with. Scene
// descriptions hand the renderer a flat list of these.
type Object struct {
	Shape    Hittable
	Material material.Material
}
