package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CookTorrance is a GGX microfacet specular lobe layered over a Lambertian base.
// Directions are drawn half the time from the visible-normal distribution and
// half the time from a cosine lobe; the sample pdf is the mixture of both.
type CookTorrance struct {
	nonEmissive
	Albedo    core.Vec3
	Roughness float64 // clamped to [0.05, 1]
	Metallic  float64 // clamped to [0, 1]
}

// NewCookTorrance creates a new microfacet material
func NewCookTorrance(albedo core.Vec3, roughness, metallic float64) *CookTorrance {
	return &CookTorrance{
		Albedo:    albedo,
		Roughness: max(0.05, min(1, roughness)),
		Metallic:  max(0, min(1, metallic)),
	}
}

// ScatterImportance picks the specular or diffuse strategy with equal probability
func (c *CookTorrance) ScatterImportance(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterSample, bool) {
	n := hit.Normal
	v := rayIn.Direction.Normalize().Negate()

	var l core.Vec3
	if sampler.Get1D() < 0.5 {
		frame := core.NewONB(n)
		h := frame.Local(SampleGGXVNDF(frame.World(v), c.alpha(), sampler.Get2D()))
		l = v.Negate().Reflect(h)
	} else {
		l = core.SampleCosineHemisphere(n, sampler.Get2D())
	}

	if l.Dot(n) <= 0 {
		return ScatterSample{}, false
	}

	weight, pdf := c.eval(n, v, l)
	return ScatterSample{
		Scattered: core.NewRay(hit.Point, l),
		Weight:    weight,
		PDF:       clampPDF(pdf),
	}, true
}

// Evaluate returns the cosine-weighted BRDF and mixture pdf toward direction
func (c *CookTorrance) Evaluate(rayIn core.Ray, hit *HitRecord, direction core.Vec3) (core.Vec3, float64) {
	return c.eval(hit.Normal, rayIn.Direction.Normalize().Negate(), direction.Normalize())
}

func (c *CookTorrance) alpha() float64 {
	return c.Roughness * c.Roughness
}

func (c *CookTorrance) eval(n, v, l core.Vec3) (core.Vec3, float64) {
	nDotL := n.Dot(l)
	if nDotL <= 0 {
		return core.Vec3{}, 0
	}
	nDotV := math.Max(n.Dot(v), 1e-4)

	h := v.Add(l).Normalize()
	nDotH := math.Max(n.Dot(h), 1e-4)
	vDotH := math.Max(v.Dot(h), 1e-4)

	f0 := core.NewVec3(0.04, 0.04, 0.04).Lerp(c.Albedo, c.Metallic)
	f := FresnelSchlick(vDotH, f0)
	d := GGXDistribution(nDotH, c.alpha())
	g := GeometrySchlickGGX(nDotV, c.Roughness) * GeometrySchlickGGX(nDotL, c.Roughness)

	specular := f.Multiply(d * g / (4*nDotV*nDotL + 1e-4))
	kd := core.NewVec3(1, 1, 1).Subtract(f).Multiply(1 - c.Metallic)
	diffuse := kd.MultiplyVec(c.Albedo.Multiply(1 / math.Pi))

	pdf := 0.5*GGXVNDFReflectionPDF(nDotV, nDotH, c.alpha()) + 0.5*nDotL/math.Pi
	return diffuse.Add(specular).Multiply(nDotL), pdf
}
