package lights

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// pdfEpsilon keeps the area-to-solid-angle conversion finite for grazing samples
const pdfEpsilon = 1e-4

// Light interface for emitters that can be sampled for direct lighting
type Light interface {
	// Sample returns a uniformly distributed point on the emitter surface
	Sample(sampler core.Sampler) core.Vec3

	// SampleStratified maps externally supplied (u, v) in [0,1)² to a point
	// with the same distribution as Sample, for stratified light sampling
	SampleStratified(u, v float64) core.Vec3

	// PDF returns the solid-angle density, seen from hitPoint, of having
	// sampled lightPoint: distance² / (cos_at_light * area + ε)
	PDF(hitPoint, lightPoint core.Vec3) float64

	// Color returns the emitted radiance
	Color() core.Vec3

	// Material returns the emissive material shared with the light's geometry
	Material() material.Material
}

// solidAnglePDF converts a uniform area density on a surface of the given
// area into a solid-angle density at hitPoint
func solidAnglePDF(hitPoint, lightPoint, lightNormal core.Vec3, area float64) float64 {
	toHit := hitPoint.Subtract(lightPoint)
	distanceSquared := toHit.LengthSquared()
	if distanceSquared == 0 {
		return 0
	}
	cosine := math.Abs(lightNormal.Dot(toHit.Normalize()))
	return distanceSquared / (cosine*area + pdfEpsilon)
}
