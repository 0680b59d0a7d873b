package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

func newTestSampler(seed int64) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(seed)))
}

func TestSphereLight_SamplesLieOnSurface(t *testing.T) {
	light := NewSphereLight(core.NewVec3(1, 2, 3), 0.5, material.NewEmissive(core.NewVec3(4, 4, 4)))
	sampler := newTestSampler(1)

	for i := 0; i < 1000; i++ {
		p := light.Sample(sampler)
		assert.InDelta(t, 0.5, p.Subtract(light.Center).Length(), 1e-12)
	}
	for _, uv := range [][2]float64{{0, 0}, {0.25, 0.5}, {0.999, 0.999}} {
		p := light.SampleStratified(uv[0], uv[1])
		assert.InDelta(t, 0.5, p.Subtract(light.Center).Length(), 1e-12)
	}
}

func TestSphereLight_UniformOverSurface(t *testing.T) {
	light := NewSphereLight(core.NewVec3(0, 0, 0), 1, material.NewEmissive(core.NewVec3(1, 1, 1)))
	sampler := newTestSampler(2)

	// Equal-height zones of a sphere have equal area (Archimedes)
	const n = 40000
	var zones [4]int
	for i := 0; i < n; i++ {
		z := light.Sample(sampler).Z
		zone := int((z + 1) / 2 * 4)
		if zone > 3 {
			zone = 3
		}
		zones[zone]++
	}
	for i, count := range zones {
		assert.InDelta(t, 0.25, float64(count)/n, 0.01, "zone %d", i)
	}
}

func TestSphereLight_PDF(t *testing.T) {
	light := NewSphereLight(core.NewVec3(0, 0, 0), 1, material.NewEmissive(core.NewVec3(1, 1, 1)))

	// Facing point straight on: d² / (1 * 4π + ε)
	pdf := light.PDF(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1))
	assert.InDelta(t, 16/(4*math.Pi+pdfEpsilon), pdf, 1e-9)

	// Farther points subtend less solid angle, so each sample is denser
	far := light.PDF(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, 1))
	assert.Greater(t, far, pdf)

	// Grazing samples stay finite
	grazing := light.PDF(core.NewVec3(5, 0, 1), core.NewVec3(0, 0, 1))
	assert.False(t, math.IsInf(grazing, 0) || math.IsNaN(grazing))
	assert.Greater(t, grazing, 0.0)
}

func TestTriangleLight_SamplesInsideTriangle(t *testing.T) {
	light := NewTriangleLight(
		core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0),
		material.NewEmissive(core.NewVec3(1, 1, 1)),
	)
	assert.InDelta(t, 2.0, light.Area(), 1e-12)

	sampler := newTestSampler(3)
	for i := 0; i < 1000; i++ {
		p := light.Sample(sampler)
		require.InDelta(t, 0, p.Z, 1e-12)
		require.GreaterOrEqual(t, p.X, 0.0)
		require.GreaterOrEqual(t, p.Y, 0.0)
		require.LessOrEqual(t, p.X+p.Y, 2+1e-12)
	}

	// Folded corner of the unit square maps back inside
	p := light.SampleStratified(0.9, 0.9)
	assert.InDelta(t, 0.2, p.X, 1e-12)
	assert.InDelta(t, 0.2, p.Y, 1e-12)
}

func TestTriangleLight_PDFIsTwoSided(t *testing.T) {
	light := NewTriangleLight(
		core.NewVec3(-1, -1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0),
		material.NewEmissive(core.NewVec3(1, 1, 1)),
	)
	above := light.PDF(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 0))
	below := light.PDF(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, 0))
	assert.InDelta(t, above, below, 1e-12)
	assert.InDelta(t, 9/(2+pdfEpsilon), above, 1e-9)
}

func TestLightList_SampleUniform(t *testing.T) {
	empty := NewLightList()
	assert.Nil(t, empty.SampleUniform(newTestSampler(1)))
	assert.Equal(t, 0, empty.Len())

	emissive := material.NewEmissive(core.NewVec3(1, 1, 1))
	a := NewSphereLight(core.NewVec3(0, 0, 0), 1, emissive)
	b := NewSphereLight(core.NewVec3(5, 0, 0), 1, emissive)
	c := NewSphereLight(core.NewVec3(10, 0, 0), 1, emissive)
	list := NewLightList(a, b)
	list.Add(c)
	require.Equal(t, 3, list.Len())
	assert.Same(t, b, list.At(1))
	assert.Len(t, list.Lights(), 3)

	counts := map[Light]int{}
	sampler := newTestSampler(4)
	for i := 0; i < 30000; i++ {
		counts[list.SampleUniform(sampler)]++
	}
	for _, light := range list.Lights() {
		assert.InDelta(t, 10000, counts[light], 500)
	}
}

func TestLightList_PDFForHit(t *testing.T) {
	red := material.NewEmissive(core.NewVec3(1, 0, 0))
	blue := material.NewEmissive(core.NewVec3(0, 0, 1))
	small := NewSphereLight(core.NewVec3(0, 0, 0), 0.5, red)
	large := NewSphereLight(core.NewVec3(0, 0, 0), 2, blue)
	list := NewLightList(small, large)

	hit := core.NewVec3(0, 0, 10)
	onSmall := core.NewVec3(0, 0, 0.5)

	assert.InDelta(t, small.PDF(hit, onSmall), list.PDFForHit(hit, onSmall, red), 1e-12)

	// Two lights sharing a material average their densities
	shared := NewLightList(small, NewSphereLight(core.NewVec3(0, 0, 0), 2, red))
	average := (small.PDF(hit, onSmall) + large.PDF(hit, onSmall)) / 2
	assert.InDelta(t, average, shared.PDFForHit(hit, onSmall, red), 1e-12)

	// Emitters without a light, such as instanced meshes, are only reached by BRDF sampling
	unknown := material.NewEmissive(core.NewVec3(1, 1, 1))
	assert.Equal(t, 0.0, list.PDFForHit(hit, onSmall, unknown))
	assert.Equal(t, 0.0, list.PDFForHit(hit, onSmall, nil))
	assert.Equal(t, 1.0, core.BalanceHeuristic(1, 0.3, 1, list.PDFForHit(hit, onSmall, unknown)))

	assert.Equal(t, 0.0, NewLightList().PDFForHit(hit, onSmall, red))
}

func TestCollect(t *testing.T) {
	emissive := material.NewEmissive(core.NewVec3(5, 5, 5))
	diffuse := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

	objects := []geometry.Object{
		{Shape: geometry.NewSphere(core.NewVec3(0, 3, 0), 0.5, emissive), Material: emissive},
		{Shape: geometry.NewSphere(core.NewVec3(0, 0, 0), 1, diffuse), Material: diffuse},
		{Shape: geometry.NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), emissive), Material: emissive},
		{Shape: geometry.NewHittableList(), Material: emissive},
	}

	list := Collect(objects)
	require.Equal(t, 2, list.Len())

	sphere, ok := list.At(0).(*SphereLight)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(0, 3, 0), sphere.Center)
	assert.Equal(t, core.NewVec3(5, 5, 5), sphere.Color())
	assert.Equal(t, material.Material(emissive), sphere.Material())

	_, ok = list.At(1).(*TriangleLight)
	assert.True(t, ok)
}
