package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
)

const (
	// hitEpsilon is the minimum t accepted for any traced ray, avoiding self-intersection
	hitEpsilon = 0.001

	defaultShadowEpsilon = 0.001
)

// Options configures a PathTracer. The zero value is usable.
type Options struct {
	// Background returns the radiance for rays that escape the scene; nil selects SkyGradient
	Background func(ray core.Ray) core.Vec3

	// ShadowEpsilon trims both ends of shadow rays so neither the shading
	// point nor the light surface occludes itself
	ShadowEpsilon float64

	// StratifiedLights is the side of the CMJ grid that drives light samples
	// at each shading point; 0 sizes it to ceil(sqrt(number of lights))
	StratifiedLights int
}

// PathTracer implements unidirectional path tracing with next-event
// estimation. Light samples and BRDF samples are combined with the balance
// heuristic. Termination is a hard depth cutoff, without Russian roulette.
type PathTracer struct {
	opts Options
}

// NewPathTracer creates a path tracer, filling unset options with defaults
func NewPathTracer(opts Options) *PathTracer {
	if opts.Background == nil {
		opts.Background = SkyGradient
	}
	if opts.ShadowEpsilon <= 0 {
		opts.ShadowEpsilon = defaultShadowEpsilon
	}
	return &PathTracer{opts: opts}
}

// Radiance computes the radiance along a camera or bounce ray. Non-finite
// estimates are discarded and returned as zero.
func (pt *PathTracer) Radiance(ray core.Ray, world geometry.Hittable, lightList *lights.LightList, depth int, sampler core.Sampler) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, hitEpsilon, math.Inf(1))
	if !isHit {
		return pt.opts.Background(ray)
	}

	color := pt.shade(ray, hit, world, lightList, depth, sampler, true)
	if !color.IsFinite() {
		return core.Vec3{}
	}
	return color
}

// shade returns the radiance leaving hit toward the ray origin. countEmission
// is false when the caller already added this surface's emission with an MIS weight.
func (pt *PathTracer) shade(ray core.Ray, hit *material.HitRecord, world geometry.Hittable, lightList *lights.LightList, depth int, sampler core.Sampler, countEmission bool) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	var color core.Vec3
	if countEmission {
		color = hit.Material.Emitted(ray, hit)
	}

	// Light sampling does not depend on the BRDF sample below succeeding
	sample, didScatter := hit.Material.ScatterImportance(ray, hit, sampler)
	if !material.IsDelta(hit.Material) {
		color = color.Add(pt.DirectLighting(ray, hit, world, lightList, sampler))
	}

	if !didScatter || sample.PDF <= 0 {
		return color
	}
	return color.Add(pt.indirectLighting(hit, sample, world, lightList, depth, sampler))
}

// DirectLighting samples one point on every light, driven by a CMJ grid,
// and returns the MIS-weighted sum of their unoccluded contributions
func (pt *PathTracer) DirectLighting(ray core.Ray, hit *material.HitRecord, world geometry.Hittable, lightList *lights.LightList, sampler core.Sampler) core.Vec3 {
	count := lightList.Len()
	if count == 0 {
		return core.Vec3{}
	}

	side := pt.opts.StratifiedLights
	if side <= 0 {
		side = core.CMJGridSize(count)
	}
	grid := core.GenerateCMJ2D(side, sampler)

	var total core.Vec3
	for i, light := range lightList.Lights() {
		uv := grid[i%len(grid)]
		lightPoint := light.SampleStratified(uv.X, uv.Y)

		toLight := lightPoint.Subtract(hit.Point)
		distance := toLight.Length()
		if distance <= 2*pt.opts.ShadowEpsilon {
			continue
		}
		direction := toLight.Multiply(1 / distance)

		// Light is behind the surface
		if direction.Dot(hit.Normal) <= 0 {
			continue
		}

		shadowRay := core.NewRay(hit.Point, direction)
		if _, blocked := world.Hit(shadowRay, pt.opts.ShadowEpsilon, distance-pt.opts.ShadowEpsilon); blocked {
			continue
		}

		brdf, brdfPDF := hit.Material.Evaluate(ray, hit, direction)
		if brdf.IsZero() {
			continue
		}

		lightPDF := light.PDF(hit.Point, lightPoint)
		if lightPDF <= 0 {
			continue
		}

		misWeight := core.BalanceHeuristic(1, lightPDF, 1, brdfPDF)
		total = total.Add(light.Color().MultiplyVec(brdf).Multiply(misWeight / lightPDF))
	}

	return total
}

// indirectLighting follows the material sample one bounce. Emission found
// directly by a non-specular bounce is weighted against light sampling here;
// the recursion then skips it so it is never counted twice.
func (pt *PathTracer) indirectLighting(hit *material.HitRecord, sample material.ScatterSample, world geometry.Hittable, lightList *lights.LightList, depth int, sampler core.Sampler) core.Vec3 {
	scattered := sample.Scattered
	throughput := sample.Weight.Multiply(1 / sample.PDF)

	nextHit, isHit := world.Hit(scattered, hitEpsilon, math.Inf(1))
	if !isHit {
		return throughput.MultiplyVec(pt.opts.Background(scattered))
	}

	var color core.Vec3
	if !sample.Specular {
		emitted := nextHit.Material.Emitted(scattered, nextHit)
		if !emitted.IsZero() {
			lightPDF := lightList.PDFForHit(hit.Point, nextHit.Point, nextHit.Material)
			misWeight := core.BalanceHeuristic(1, sample.PDF, 1, lightPDF)
			color = throughput.MultiplyVec(emitted).Multiply(misWeight)
		}
	}

	incoming := pt.shade(scattered, nextHit, world, lightList, depth-1, sampler, sample.Specular)
	return color.Add(throughput.MultiplyVec(incoming))
}

// SkyGradient blends from white (looking down) to light blue (looking up)
// by the normalized direction's y component
func SkyGradient(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)

	white := core.NewVec3(1.0, 1.0, 1.0)
	blue := core.NewVec3(0.5, 0.7, 1.0)
	return white.Multiply(1.0 - t).Add(blue.Multiply(t))
}

// Black is a background that contributes no light
func Black(core.Ray) core.Vec3 {
	return core.Vec3{}
}
