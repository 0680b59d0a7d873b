package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// PDFEpsilon is the floor applied to importance-sampling densities so that
// weight/pdf never divides by zero
const PDFEpsilon = 1e-4

// Material interface for surfaces that scatter or emit light
type Material interface {
	// ScatterImportance draws one outgoing direction. Weight is the BRDF value
	// already multiplied by cos(theta); PDF is > 0 whenever ok is true.
	ScatterImportance(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterSample, bool)

	// Evaluate returns the cosine-weighted BRDF toward direction and the pdf
	// ScatterImportance would have assigned to it. Delta lobes return zero.
	Evaluate(rayIn core.Ray, hit *HitRecord, direction core.Vec3) (core.Vec3, float64)

	// Emitted returns radiance leaving the surface toward the ray origin
	Emitted(rayIn core.Ray, hit *HitRecord) core.Vec3
}

// Scatterer is the simpler scatter-only contract: an outgoing ray and an attenuation
type Scatterer interface {
	Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (core.Ray, core.Vec3, bool)
}

// ScatterSample contains the result of importance sampling a material
type ScatterSample struct {
	Scattered core.Ray  // The scattered ray
	Weight    core.Vec3 // BRDF * cos(theta), or attenuation for scatter-only materials
	PDF       float64   // Density of Scattered.Direction (1 for scatter-only materials)
	Specular  bool      // Not importance sampled; skip light sampling and MIS
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether the outward normal already faced the ray
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// ImportanceFromScatter derives an importance sample from a scatter-only
// material: the attenuation becomes the weight and the pdf is 1
func ImportanceFromScatter(s Scatterer, rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterSample, bool) {
	scattered, attenuation, ok := s.Scatter(rayIn, hit, sampler)
	if !ok {
		return ScatterSample{}, false
	}
	return ScatterSample{
		Scattered: scattered,
		Weight:    attenuation,
		PDF:       1,
		Specular:  true,
	}, true
}

// Adapt turns any Scatterer into a full Material
func Adapt(s Scatterer) Material {
	if m, ok := s.(Material); ok {
		return m
	}
	return &scatterOnly{s}
}

type scatterOnly struct {
	Scatterer
}

func (a *scatterOnly) ScatterImportance(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterSample, bool) {
	return ImportanceFromScatter(a.Scatterer, rayIn, hit, sampler)
}

func (a *scatterOnly) Evaluate(core.Ray, *HitRecord, core.Vec3) (core.Vec3, float64) {
	return core.Vec3{}, 0
}

func (a *scatterOnly) Emitted(core.Ray, *HitRecord) core.Vec3 {
	return core.Vec3{}
}

func (a *scatterOnly) delta() {}

// nonEmissive is embedded by materials that do not emit
type nonEmissive struct{}

func (nonEmissive) Emitted(core.Ray, *HitRecord) core.Vec3 {
	return core.Vec3{}
}

// deltaLobe is embedded by materials whose scattering cannot be evaluated for an arbitrary direction
type deltaLobe struct{}

func (deltaLobe) Evaluate(core.Ray, *HitRecord, core.Vec3) (core.Vec3, float64) {
	return core.Vec3{}, 0
}

func (deltaLobe) delta() {}

// IsDelta reports whether m has no BRDF that light sampling can evaluate:
// mirrors, glass, scatter-only models and emitters
func IsDelta(m Material) bool {
	_, ok := m.(interface{ delta() })
	return ok
}

// IsEmissive reports whether a material emits any light
func IsEmissive(m Material) bool {
	_, ok := m.(*Emissive)
	return ok
}

// clampPDF floors a density at PDFEpsilon
func clampPDF(pdf float64) float64 {
	if pdf < PDFEpsilon {
		return PDFEpsilon
	}
	return pdf
}
