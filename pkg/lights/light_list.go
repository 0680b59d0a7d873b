package lights

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// LightList holds the lights of a scene. It is read-only once rendering starts.
type LightList struct {
	lights []Light
}

// NewLightList creates a list from the given lights
func NewLightList(lights ...Light) *LightList {
	return &LightList{lights: lights}
}

// Add appends a light
func (l *LightList) Add(light Light) {
	l.lights = append(l.lights, light)
}

// Len returns the number of lights
func (l *LightList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.lights)
}

// At returns the i-th light
func (l *LightList) At(i int) Light {
	return l.lights[i]
}

// Lights returns the underlying slice for iteration
func (l *LightList) Lights() []Light {
	if l == nil {
		return nil
	}
	return l.lights
}

// SampleUniform selects one light with equal probability, or nil when empty
func (l *LightList) SampleUniform(sampler core.Sampler) Light {
	n := l.Len()
	if n == 0 {
		return nil
	}
	i := int(sampler.Get1D() * float64(n))
	if i >= n {
		i = n - 1
	}
	return l.lights[i]
}

// PDFForHit estimates the light-sampling density of a BRDF-sampled ray from
// hitPoint that landed on an emitter at lightPoint. Lights sharing mat own the
// hit and their densities are averaged. An emitter no light owns is never
// light sampled, so its density is 0 and the BRDF sample keeps full weight.
func (l *LightList) PDFForHit(hitPoint, lightPoint core.Vec3, mat material.Material) float64 {
	if mat == nil {
		return 0
	}

	total, owners := 0.0, 0
	for _, light := range l.lights {
		if light.Material() == mat {
			total += light.PDF(hitPoint, lightPoint)
			owners++
		}
	}
	if owners == 0 {
		return 0
	}
	return total / float64(owners)
}

// Collect builds a light for every object with an emissive material whose
// shape can be sampled (spheres and triangles). Other emissive shapes still
// glow when hit but receive no direct light samples.
func Collect(objects []geometry.Object) *LightList {
	list := NewLightList()
	for _, obj := range objects {
		emissive, ok := obj.Material.(*material.Emissive)
		if !ok {
			continue
		}
		switch shape := obj.Shape.(type) {
		case *geometry.Sphere:
			list.Add(NewSphereLight(shape.Center, shape.Radius, emissive))
		case *geometry.Triangle:
			list.Add(NewTriangleLight(shape.V0, shape.V1, shape.V2, emissive))
		case *geometry.SmoothTriangle:
			list.Add(NewTriangleLight(shape.V0, shape.V1, shape.V2, emissive))
		}
	}
	return list
}
