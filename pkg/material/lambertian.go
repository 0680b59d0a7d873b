package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	nonEmissive
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// ScatterImportance samples a cosine-weighted direction around the normal
func (l *Lambertian) ScatterImportance(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterSample, bool) {
	direction := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
	cosTheta := math.Max(0, direction.Dot(hit.Normal))

	return ScatterSample{
		Scattered: core.NewRay(hit.Point, direction),
		Weight:    l.Albedo.Multiply(cosTheta / math.Pi),
		PDF:       clampPDF(cosTheta / math.Pi),
	}, true
}

// Evaluate returns albedo/π * cos(theta) and the cosine pdf toward direction
func (l *Lambertian) Evaluate(rayIn core.Ray, hit *HitRecord, direction core.Vec3) (core.Vec3, float64) {
	cosTheta := direction.Normalize().Dot(hit.Normal)
	if cosTheta <= 0 {
		return core.Vec3{}, 0
	}
	return l.Albedo.Multiply(cosTheta / math.Pi), cosTheta / math.Pi
}
