package renderer

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
)

// constantIntegrator returns the same radiance for every ray
type constantIntegrator struct {
	color core.Vec3
}

func (c constantIntegrator) Radiance(core.Ray, geometry.Hittable, *lights.LightList, int, core.Sampler) core.Vec3 {
	return c.color
}

// noisyIntegrator alternates between two values and reports NaN every few samples
type noisyIntegrator struct{}

func (noisyIntegrator) Radiance(_ core.Ray, _ geometry.Hittable, _ *lights.LightList, _ int, sampler core.Sampler) core.Vec3 {
	u := sampler.Get1D()
	if u < 0.1 {
		return core.NewVec3(math.NaN(), 0, 0)
	}
	return core.NewVec3(u, u, u)
}

func testCamera(aspect float64) *Camera {
	return NewCamera(CameraConfig{
		LookFrom:    core.NewVec3(0, 1, 4),
		LookAt:      core.NewVec3(0, 0.5, 0),
		VUp:         core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: aspect,
	})
}

func testWorld() (geometry.Hittable, *lights.LightList) {
	diffuse := material.NewLambertian(core.NewVec3(0.7, 0.6, 0.5))
	light := material.NewEmissive(core.NewVec3(8, 8, 8))
	objects := []geometry.Object{
		{Shape: geometry.NewSphere(core.NewVec3(0, 0.5, 0), 0.5, diffuse), Material: diffuse},
		{Shape: geometry.NewSphere(core.NewVec3(0, -100, 0), 100, diffuse), Material: diffuse},
		{Shape: geometry.NewSphere(core.NewVec3(1, 2, 1), 0.3, light), Material: light},
	}
	shapes := make([]geometry.Hittable, len(objects))
	for i, o := range objects {
		shapes[i] = o.Shape
	}
	return geometry.NewBVH(shapes), lights.Collect(objects)
}

func smallSettings() Settings {
	s := DefaultSettings()
	s.Width = 16
	s.Height = 12
	s.SamplesPerPixel = 8
	s.MinSamples = 4
	s.VarianceThreshold = 0
	s.MaxDepth = 3
	s.TileSize = 4
	return s
}

func render(t *testing.T, s Settings, opts Options) (*FrameBuffer, RenderStats) {
	t.Helper()
	world, lightList := testWorld()
	r, err := New(testCamera(s.AspectRatio()), world, lightList, s, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fb, stats, err := r.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return fb, stats
}

func sameImage(a, b *FrameBuffer) bool {
	for j := 0; j < a.Height; j++ {
		for i := 0; i < a.Width; i++ {
			if a.Pixel(i, j) != b.Pixel(i, j) {
				return false
			}
		}
	}
	return true
}

func TestCameraRays(t *testing.T) {
	camera := NewCamera(CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		VUp:         core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2,
	})

	tests := []struct {
		name string
		s, t float64
		want core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-2, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(2, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Pinhole cameras never touch the sampler
			ray := camera.GetRay(tt.s, tt.t, nil)
			if !ray.Origin.IsZero() {
				t.Errorf("origin = %v, want zero", ray.Origin)
			}
			if ray.Direction.Subtract(tt.want).Length() > 1e-9 {
				t.Errorf("direction = %v, want %v", ray.Direction, tt.want)
			}
		})
	}
}

func TestCameraApertureStaysOnLens(t *testing.T) {
	camera := NewCamera(CameraConfig{
		LookFrom:  core.NewVec3(0, 0, 0),
		LookAt:    core.NewVec3(0, 0, -5),
		VUp:       core.NewVec3(0, 1, 0),
		VFov:      60,
		Aperture:  0.5,
		FocusDist: 5,
	})
	sampler := newTestSampler(9)
	focus := core.NewVec3(0, 0, -5)
	for i := 0; i < 1000; i++ {
		ray := camera.GetRay(0.5, 0.5, sampler)
		if ray.Origin.Length() > 0.25+1e-9 {
			t.Fatalf("lens offset %v exceeds aperture radius", ray.Origin)
		}
		if ray.Origin.Z != 0 {
			t.Fatalf("lens offset %v leaves the lens plane", ray.Origin)
		}
		// Every ray through the image center converges on the focus point
		tt := (focus.Z - ray.Origin.Z) / ray.Direction.Z
		if ray.At(tt).Subtract(focus).Length() > 1e-9 {
			t.Fatalf("ray misses focus point: %v", ray.At(tt))
		}
	}
}

func TestTileGridCoversImage(t *testing.T) {
	tests := []struct {
		width, height, size int
		wantTiles           int
	}{
		{16, 16, 16, 1},
		{17, 16, 16, 2},
		{100, 50, 16, 7 * 4},
		{3, 2, 16, 1},
	}

	for _, tt := range tests {
		tiles := NewTileGrid(tt.width, tt.height, tt.size)
		if len(tiles) != tt.wantTiles {
			t.Errorf("%dx%d/%d: %d tiles, want %d", tt.width, tt.height, tt.size, len(tiles), tt.wantTiles)
		}
		assertPartition(t, tiles, tt.width, tt.height)
	}
}

func TestRowSpansCoverRow(t *testing.T) {
	for _, parts := range []int{1, 3, 7, 50} {
		spans := NewRowSpans(5, 20, parts)
		if len(spans) > parts {
			t.Errorf("parts=%d: got %d spans", parts, len(spans))
		}
		covered := 0
		for _, span := range spans {
			if span.Min.Y != 5 || span.Max.Y != 6 {
				t.Errorf("span %v is not on row 5", span)
			}
			covered += span.Dx()
		}
		if covered != 20 {
			t.Errorf("parts=%d: spans cover %d pixels, want 20", parts, covered)
		}
	}
}

// assertPartition checks that rects cover every pixel exactly once
func assertPartition(t *testing.T, rects []image.Rectangle, width, height int) {
	t.Helper()
	counts := make([]int, width*height)
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if x < 0 || x >= width || y < 0 || y >= height {
					t.Fatalf("rect %v leaves the %dx%d image", r, width, height)
				}
				counts[y*width+x]++
			}
		}
	}
	for i, c := range counts {
		if c != 1 {
			t.Fatalf("pixel %d covered %d times", i, c)
		}
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	s := smallSettings()
	s.SamplesPerPixel = 0
	world, lightList := testWorld()
	if _, err := New(testCamera(1), world, lightList, s, Options{}); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
	if _, err := New(nil, world, lightList, smallSettings(), Options{}); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings for nil camera, got %v", err)
	}
}

func TestRenderFullBudgetWithZeroThreshold(t *testing.T) {
	for _, mode := range []Mode{ModeTiled, ModeScanline} {
		t.Run(string(mode), func(t *testing.T) {
			s := smallSettings()
			s.Mode = mode
			fb, stats := render(t, s, Options{})

			for j := 0; j < s.Height; j++ {
				for i := 0; i < s.Width; i++ {
					if n := fb.SampleCount(i, j); n != s.SamplesPerPixel {
						t.Fatalf("pixel (%d, %d) took %d samples, want %d", i, j, n, s.SamplesPerPixel)
					}
				}
			}
			if stats.TotalPixels != s.Width*s.Height {
				t.Errorf("TotalPixels = %d, want %d", stats.TotalPixels, s.Width*s.Height)
			}
			if stats.TotalSamples != s.Width*s.Height*s.SamplesPerPixel {
				t.Errorf("TotalSamples = %d", stats.TotalSamples)
			}
			if stats.Mode != mode {
				t.Errorf("Mode = %q, want %q", stats.Mode, mode)
			}
			if fb.AverageLuminance() <= 0 {
				t.Error("expected a lit image")
			}
		})
	}
}

func TestRenderAdaptiveStopsAtMinSamples(t *testing.T) {
	s := smallSettings()
	s.VarianceThreshold = 1e-6
	_, stats := render(t, s, Options{Integrator: constantIntegrator{core.NewVec3(0.2, 0.4, 0.6)}})

	if stats.MaxSamplesUsed != s.MinSamples || stats.MinSamples != s.MinSamples {
		t.Errorf("samples used in [%d, %d], want exactly %d", stats.MinSamples, stats.MaxSamplesUsed, s.MinSamples)
	}
	if stats.AverageSamples != float64(s.MinSamples) {
		t.Errorf("AverageSamples = %v, want %d", stats.AverageSamples, s.MinSamples)
	}
}

func TestRenderDiscardsNonFiniteSamples(t *testing.T) {
	s := smallSettings()
	s.SamplesPerPixel = 32
	fb, stats := render(t, s, Options{Integrator: noisyIntegrator{}})

	if stats.Discarded == 0 {
		t.Fatal("expected some discarded samples")
	}
	for j := 0; j < s.Height; j++ {
		for i := 0; i < s.Width; i++ {
			if !fb.Pixel(i, j).IsFinite() {
				t.Fatalf("pixel (%d, %d) is not finite", i, j)
			}
			if fb.SampleCount(i, j) > s.SamplesPerPixel {
				t.Fatalf("pixel (%d, %d) exceeded the sample budget", i, j)
			}
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	s := smallSettings()
	s.Workers = 1
	single, _ := render(t, s, Options{})

	// Tiles and their seeds do not depend on the worker count
	s.Workers = 4
	parallel, _ := render(t, s, Options{})
	if !sameImage(single, parallel) {
		t.Error("tiled render differs between 1 and 4 workers")
	}

	s.Mode = ModeScanline
	first, _ := render(t, s, Options{})
	second, _ := render(t, s, Options{})
	if !sameImage(first, second) {
		t.Error("scanline render is not reproducible")
	}

	s.Mode = ModeTiled
	s.Seed++
	reseeded, _ := render(t, s, Options{})
	if sameImage(parallel, reseeded) {
		t.Error("different seeds produced identical images")
	}

	s.Seed--
	s.Frame = 1
	nextFrame, _ := render(t, s, Options{})
	if sameImage(parallel, nextFrame) {
		t.Error("different frames produced identical images")
	}
}

func TestRenderCancelled(t *testing.T) {
	s := smallSettings()
	world, lightList := testWorld()
	r, err := New(testCamera(s.AspectRatio()), world, lightList, s, Options{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fb, _, err := r.Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fb == nil {
		t.Fatal("expected the partial frame buffer")
	}
}

func TestTaskSeedsDiffer(t *testing.T) {
	seen := make(map[int64]bool)
	for frame := 0; frame < 4; frame++ {
		for index := -1; index < 256; index++ {
			seed := taskSeed(42, frame, index)
			if seen[seed] {
				t.Fatalf("duplicate seed for frame %d task %d", frame, index)
			}
			seen[seed] = true
		}
	}
	if taskSeed(1, 0, 0) != taskSeed(1, 0, 0) {
		t.Error("taskSeed is not deterministic")
	}
}
