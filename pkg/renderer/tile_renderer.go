package renderer

import (
	"image"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/lights"
)

// TileRenderer renders rectangular pixel regions into a frame buffer. It
// only reads shared state, so one instance serves every worker.
type TileRenderer struct {
	camera     *Camera
	world      geometry.Hittable
	lights     *lights.LightList
	integrator integrator.Integrator
	settings   Settings
	grid       []core.Vec2 // CMJ pixel offsets shared by every pixel
}

// NewTileRenderer creates a tile renderer. grid holds the stratified pixel
// offsets consumed before falling back to uniform random offsets.
func NewTileRenderer(camera *Camera, world geometry.Hittable, lightList *lights.LightList, integratorInst integrator.Integrator, settings Settings, grid []core.Vec2) *TileRenderer {
	return &TileRenderer{
		camera:     camera,
		world:      world,
		lights:     lightList,
		integrator: integratorInst,
		settings:   settings,
		grid:       grid,
	}
}

// RenderBounds renders the pixels inside bounds (buffer coordinates, row 0 at
// the bottom). Regions handed to concurrent calls must not overlap.
func (tr *TileRenderer) RenderBounds(bounds image.Rectangle, fb *FrameBuffer, random *rand.Rand) RenderStats {
	sampler := core.NewRandomSampler(random)
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), tr.settings.SamplesPerPixel)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps, taken, discarded := tr.samplePixel(i, j, sampler)
			fb.Set(i, j, ps.Color())
			fb.setSampleCount(i, j, ps.SampleCount)
			stats.addPixel(taken, discarded)
		}
	}

	stats.finalize()
	return stats
}

// samplePixel takes samples until the pixel converges or the budget is spent.
// It returns the statistics, the samples taken and how many were discarded.
func (tr *TileRenderer) samplePixel(i, j int, sampler core.Sampler) (PixelStats, int, int) {
	var ps PixelStats
	discarded := 0
	uScale := 1.0 / float64(max(1, tr.settings.Width-1))
	vScale := 1.0 / float64(max(1, tr.settings.Height-1))

	taken := 0
	for taken < tr.settings.SamplesPerPixel {
		var offset core.Vec2
		if taken < len(tr.grid) {
			offset = tr.grid[taken]
		} else {
			offset = sampler.Get2D()
		}
		taken++

		s := (float64(i) + offset.X) * uScale
		t := (float64(j) + offset.Y) * vScale
		ray := tr.camera.GetRay(s, t, sampler)

		color := tr.integrator.Radiance(ray, tr.world, tr.lights, tr.settings.MaxDepth, sampler)
		if !color.IsFinite() {
			discarded++
			continue
		}

		ps.AddSample(color)
		if ps.Converged(tr.settings.MinSamples, tr.settings.VarianceThreshold) {
			break
		}
	}

	return ps, taken, discarded
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []image.Rectangle {
	var tiles []image.Rectangle

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)
			tiles = append(tiles, image.Rect(x0, y0, x1, y1))
		}
	}

	return tiles
}

// NewRowSpans splits buffer row j into at most parts contiguous spans
func NewRowSpans(j, width, parts int) []image.Rectangle {
	parts = max(1, min(parts, width))
	spanWidth := (width + parts - 1) / parts

	var spans []image.Rectangle
	for x0 := 0; x0 < width; x0 += spanWidth {
		spans = append(spans, image.Rect(x0, j, min(x0+spanWidth, width), j+1))
	}
	return spans
}
