package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Disney is a principled multi-lobe material: Burley diffuse, sheen, GGX
// specular and a GTR1 clearcoat. Only the cosine lobe is importance sampled;
// the other lobes are evaluated along that one direction.
type Disney struct {
	nonEmissive
	BaseColor      core.Vec3
	Metallic       float64
	Roughness      float64
	Specular       float64
	SpecularTint   float64
	Sheen          float64
	SheenTint      float64
	Clearcoat      float64
	ClearcoatGloss float64
}

// NewDisney creates a principled material with the common defaults
// (specular 0.5, no tint, sheen or clearcoat)
func NewDisney(baseColor core.Vec3, metallic, roughness float64) *Disney {
	return &Disney{
		BaseColor: baseColor,
		Metallic:  max(0, min(1, metallic)),
		Roughness: max(0, min(1, roughness)),
		Specular:  0.5,
	}
}

// ScatterImportance samples a cosine-weighted direction and evaluates every lobe along it
func (d *Disney) ScatterImportance(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterSample, bool) {
	l := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
	weight, pdf := d.eval(hit.Normal, rayIn.Direction.Normalize().Negate(), l)

	return ScatterSample{
		Scattered: core.NewRay(hit.Point, l),
		Weight:    weight,
		PDF:       clampPDF(pdf),
	}, true
}

// Evaluate returns the summed lobes times cos(theta) and the cosine pdf
func (d *Disney) Evaluate(rayIn core.Ray, hit *HitRecord, direction core.Vec3) (core.Vec3, float64) {
	return d.eval(hit.Normal, rayIn.Direction.Normalize().Negate(), direction.Normalize())
}

func (d *Disney) eval(n, v, l core.Vec3) (core.Vec3, float64) {
	nDotL := n.Dot(l)
	if nDotL <= 0 {
		return core.Vec3{}, 0
	}
	nDotV := math.Max(n.Dot(v), 0)
	h := v.Add(l).Normalize()
	nDotH := math.Max(n.Dot(h), 0)
	lDotH := math.Max(l.Dot(h), 0)
	vDotH := math.Max(v.Dot(h), 0)

	tint := core.NewVec3(1, 1, 1)
	if m := d.BaseColor.MaxComponent(); m > 0 {
		tint = d.BaseColor.Divide(m)
	}

	// Fresnel
	f0 := core.NewVec3(0.04, 0.04, 0.04).Lerp(tint, d.SpecularTint).Multiply(d.Specular)
	f := FresnelSchlick(vDotH, f0.Lerp(d.BaseColor, d.Metallic))

	// Diffuse
	kd := core.NewVec3(1, 1, 1).Subtract(f).Multiply(1 - d.Metallic)
	diffuse := kd.MultiplyVec(DisneyDiffuse(d.BaseColor, d.Roughness, nDotL, nDotV, lDotH))

	// Sheen
	sheen := core.NewVec3(1, 1, 1).Lerp(tint, d.SheenTint).Multiply(SchlickWeight(lDotH) * d.Sheen)

	// Specular
	alpha := math.Max(d.Roughness*d.Roughness, 1e-3)
	g := SmithGGXG1(nDotV, alpha) * SmithGGXG1(nDotL, alpha)
	specular := f.Multiply(GGXDistribution(nDotH, alpha) * g / (4*nDotV*nDotL + 1e-4))

	// Clearcoat
	clearAlpha := lerp(0.1, 0.001, d.ClearcoatGloss)
	clearcoat := d.Clearcoat * GTR1(nDotH, clearAlpha) * FresnelSchlickScalar(vDotH, 0.04) /
		(4*nDotV*nDotL + 1e-4)

	total := diffuse.Add(specular).Add(sheen).Add(core.NewVec3(clearcoat, clearcoat, clearcoat))
	return total.Multiply(nDotL), nDotL / math.Pi
}
