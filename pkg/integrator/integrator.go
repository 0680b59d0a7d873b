package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Radiance estimates the radiance arriving along ray. depth bounds the
	// number of surface interactions; depth <= 0 returns zero.
	Radiance(ray core.Ray, world geometry.Hittable, lights *lights.LightList, depth int, sampler core.Sampler) core.Vec3
}

// Radiance traces ray with a default-configured PathTracer
func Radiance(ray core.Ray, world geometry.Hittable, lights *lights.LightList, depth int, sampler core.Sampler) core.Vec3 {
	return NewPathTracer(Options{}).Radiance(ray, world, lights, depth, sampler)
}
