package lights

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// TriangleLight is a flat triangular emitter. Both faces emit.
type TriangleLight struct {
	V0, V1, V2 core.Vec3
	normal     core.Vec3
	area       float64
	emissive   *material.Emissive
}

// NewTriangleLight creates a triangular light
func NewTriangleLight(v0, v1, v2 core.Vec3, emissive *material.Emissive) *TriangleLight {
	cross := v1.Subtract(v0).Cross(v2.Subtract(v0))
	return &TriangleLight{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		normal:   cross.Normalize(),
		area:     0.5 * cross.Length(),
		emissive: emissive,
	}
}

// Sample picks a uniform point on the triangle
func (tl *TriangleLight) Sample(sampler core.Sampler) core.Vec3 {
	uv := sampler.Get2D()
	return tl.SampleStratified(uv.X, uv.Y)
}

// SampleStratified folds the unit square onto the triangle so that (u, v)
// outside the lower-left half is reflected back inside
func (tl *TriangleLight) SampleStratified(u, v float64) core.Vec3 {
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	e1 := tl.V1.Subtract(tl.V0)
	e2 := tl.V2.Subtract(tl.V0)
	return tl.V0.Add(e1.Multiply(u)).Add(e2.Multiply(v))
}

// PDF converts the uniform area density 1/area to solid angle at hitPoint
func (tl *TriangleLight) PDF(hitPoint, lightPoint core.Vec3) float64 {
	return solidAnglePDF(hitPoint, lightPoint, tl.normal, tl.area)
}

// Area returns the triangle area
func (tl *TriangleLight) Area() float64 {
	return tl.area
}

func (tl *TriangleLight) Color() core.Vec3 {
	return tl.emissive.Emission
}

func (tl *TriangleLight) Material() material.Material {
	return tl.emissive
}
