package lights

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// SphereLight represents a spherical area light
type SphereLight struct {
	Center   core.Vec3
	Radius   float64
	emissive *material.Emissive
}

// NewSphereLight creates a spherical light sharing the emissive material of its sphere
func NewSphereLight(center core.Vec3, radius float64, emissive *material.Emissive) *SphereLight {
	return &SphereLight{
		Center:   center,
		Radius:   radius,
		emissive: emissive,
	}
}

// Sample picks a uniform point on the whole sphere surface
func (sl *SphereLight) Sample(sampler core.Sampler) core.Vec3 {
	uv := sampler.Get2D()
	return sl.SampleStratified(uv.X, uv.Y)
}

// SampleStratified uses spherical coordinates theta = 2πu, phi = acos(1-2v),
// which is area-uniform for uniform (u, v)
func (sl *SphereLight) SampleStratified(u, v float64) core.Vec3 {
	theta := 2 * math.Pi * u
	phi := math.Acos(1 - 2*v)
	sinPhi := math.Sin(phi)

	direction := core.NewVec3(sinPhi*math.Cos(theta), sinPhi*math.Sin(theta), math.Cos(phi))
	return sl.Center.Add(direction.Multiply(sl.Radius))
}

// PDF converts the uniform area density 1/(4πr²) to solid angle at hitPoint
func (sl *SphereLight) PDF(hitPoint, lightPoint core.Vec3) float64 {
	normal := lightPoint.Subtract(sl.Center).Normalize()
	return solidAnglePDF(hitPoint, lightPoint, normal, sl.Area())
}

// Area returns the sphere surface area
func (sl *SphereLight) Area() float64 {
	return 4 * math.Pi * sl.Radius * sl.Radius
}

func (sl *SphereLight) Color() core.Vec3 {
	return sl.emissive.Emission
}

func (sl *SphereLight) Material() material.Material {
	return sl.emissive
}
