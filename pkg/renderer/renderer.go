package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/lights"
)

// Options holds optional collaborators of a Renderer
type Options struct {
	Logger     *zerolog.Logger       // nil = discard
	Integrator integrator.Integrator // nil = path tracer with the sky gradient background
}

// Renderer renders a scene into a frame buffer with a pool of workers
type Renderer struct {
	camera     *Camera
	world      geometry.Hittable
	lights     *lights.LightList
	integrator integrator.Integrator
	settings   Settings
	logger     zerolog.Logger
}

// New validates settings and creates a renderer. world and lights are only
// read during rendering and may be shared between renderers.
func New(camera *Camera, world geometry.Hittable, lightList *lights.LightList, settings Settings, opts Options) (*Renderer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, fmt.Errorf("%w: camera is required", ErrInvalidSettings)
	}

	r := &Renderer{
		camera:     camera,
		world:      world,
		lights:     lightList,
		integrator: opts.Integrator,
		settings:   settings.withDefaults(),
		logger:     zerolog.Nop(),
	}
	if opts.Logger != nil {
		r.logger = *opts.Logger
	}
	if r.integrator == nil {
		r.integrator = integrator.NewPathTracer(integrator.Options{})
	}
	if r.world == nil {
		r.world = geometry.NewHittableList()
	}
	return r, nil
}

// Settings returns the effective settings after defaults were applied
func (r *Renderer) Settings() Settings {
	return r.settings
}

// Render renders the full image. It stops handing out work once ctx is done
// and returns ctx's error with the partially rendered buffer.
func (r *Renderer) Render(ctx context.Context) (*FrameBuffer, RenderStats, error) {
	start := time.Now()
	s := r.settings
	fb := NewFrameBuffer(s.Width, s.Height)

	// One stratified pattern per render, shared read-only by every pixel
	gridRandom := rand.New(rand.NewSource(taskSeed(s.Seed, s.Frame, -1)))
	grid := core.GenerateCMJ2D(core.CMJGridSize(s.SamplesPerPixel), core.NewRandomSampler(gridRandom))
	tr := NewTileRenderer(r.camera, r.world, r.lights, r.integrator, s, grid)

	batches := r.batches()
	maxBatch := 0
	for _, batch := range batches {
		maxBatch = max(maxBatch, len(batch))
	}

	pool := NewWorkerPool(s.Workers, maxBatch, func(task RenderTask) RenderStats {
		random := rand.New(rand.NewSource(taskSeed(s.Seed, s.Frame, task.Index)))
		return tr.RenderBounds(task.Bounds, fb, random)
	})

	r.logger.Info().
		Str("mode", string(s.Mode)).
		Int("workers", pool.NumWorkers()).
		Int("width", s.Width).
		Int("height", s.Height).
		Int("spp", s.SamplesPerPixel).
		Int("lights", r.lights.Len()).
		Msg("render started")

	pool.Start(ctx)
	defer pool.Stop()

	stats := newRenderStats(0, s.SamplesPerPixel)
	index := 0
	for b, batch := range batches {
		for _, bounds := range batch {
			if err := pool.Submit(ctx, RenderTask{Index: index, Bounds: bounds}); err != nil {
				return fb, r.finish(stats, start, pool), err
			}
			index++
		}

		// Barrier: the next batch starts only after this one is complete
		var batchErr error
		for range batch {
			result, _ := pool.Result()
			if result.Err != nil {
				batchErr = result.Err
				continue
			}
			stats.merge(result.Stats)
		}
		if batchErr != nil {
			return fb, r.finish(stats, start, pool), batchErr
		}

		r.logger.Debug().Int("batch", b).Int("tasks", len(batch)).Int("pixels", stats.TotalPixels).Msg("batch complete")
	}

	stats = r.finish(stats, start, pool)
	r.logger.Info().
		Dur("elapsed", stats.Duration).
		Int("samples", stats.TotalSamples).
		Float64("avg_spp", stats.AverageSamples).
		Int("discarded", stats.Discarded).
		Msg("render finished")
	return fb, stats, nil
}

func (r *Renderer) finish(stats RenderStats, start time.Time, pool *WorkerPool) RenderStats {
	stats.Duration = time.Since(start)
	stats.Mode = r.settings.Mode
	stats.Workers = pool.NumWorkers()
	stats.finalize()
	return stats
}

// batches splits the image into groups of tasks separated by a barrier.
// Tiled mode is a single batch. Scanline mode is one batch per row, top row first.
func (r *Renderer) batches() [][]image.Rectangle {
	s := r.settings
	if s.Mode == ModeScanline {
		batches := make([][]image.Rectangle, 0, s.Height)
		for j := s.Height - 1; j >= 0; j-- {
			batches = append(batches, NewRowSpans(j, s.Width, s.Workers))
		}
		return batches
	}
	return [][]image.Rectangle{NewTileGrid(s.Width, s.Height, s.TileSize)}
}

// taskSeed derives an independent random seed for a task from the render
// seed, the frame number and the task index
func taskSeed(seed int64, frame, index int) int64 {
	x := uint64(seed)
	x = splitmix64(x ^ uint64(int64(frame))*0x9e3779b97f4a7c15)
	x = splitmix64(x ^ uint64(int64(index))*0xbf58476d1ce4e5b9)
	return int64(x)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
