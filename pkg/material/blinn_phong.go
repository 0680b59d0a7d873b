package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// BlinnPhong is a classic empirical shading model lit by a single fixed
// direction. It only implements Scatter and is not importance sampled.
type BlinnPhong struct {
	nonEmissive
	deltaLobe
	Diffuse   core.Vec3
	Specular  core.Vec3
	Shininess float64
	LightDir  core.Vec3 // unit vector toward the assumed light
}

// NewBlinnPhong creates a Blinn-Phong material
func NewBlinnPhong(diffuse, specular core.Vec3, shininess float64, lightDir core.Vec3) *BlinnPhong {
	return &BlinnPhong{
		Diffuse:   diffuse,
		Specular:  specular,
		Shininess: shininess,
		LightDir:  lightDir.Normalize(),
	}
}

// Scatter continues along the light direction, attenuated by the diffuse and
// half-vector specular terms. Surfaces facing away from the light absorb.
func (b *BlinnPhong) Scatter(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (core.Ray, core.Vec3, bool) {
	diff := hit.Normal.Dot(b.LightDir)
	if diff <= 0 {
		return core.Ray{}, core.Vec3{}, false
	}

	view := rayIn.Direction.Normalize().Negate()
	halfway := view.Add(b.LightDir).Normalize()
	spec := math.Pow(math.Max(hit.Normal.Dot(halfway), 0), b.Shininess)

	attenuation := b.Diffuse.Multiply(diff).Add(b.Specular.Multiply(spec))
	return core.NewRay(hit.Point, b.LightDir), attenuation, true
}

// ScatterImportance implements Material through the scatter-only fallback
func (b *BlinnPhong) ScatterImportance(rayIn core.Ray, hit *HitRecord, sampler core.Sampler) (ScatterSample, bool) {
	return ImportanceFromScatter(b, rayIn, hit, sampler)
}
