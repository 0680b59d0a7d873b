package renderer

import (
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	MaxSamples     int           // Maximum samples allowed per pixel
	MinSamples     int           // Fewest samples taken by any pixel
	MaxSamplesUsed int           // Maximum samples actually used by any pixel
	Discarded      int           // Non-finite samples dropped before accumulation
	Duration       time.Duration // Wall time of the render
	Mode           Mode
	Workers        int
}

// newRenderStats starts statistics for a region of pixelCount pixels
func newRenderStats(pixelCount, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: pixelCount,
		MaxSamples:  maxSamples,
		MinSamples:  maxSamples, // Start with max, will be reduced
	}
}

// addPixel records the samples used by one pixel
func (s *RenderStats) addPixel(samplesUsed, discarded int) {
	s.TotalSamples += samplesUsed
	s.Discarded += discarded
	s.MinSamples = min(s.MinSamples, samplesUsed)
	s.MaxSamplesUsed = max(s.MaxSamplesUsed, samplesUsed)
}

// merge folds the statistics of a disjoint region into s
func (s *RenderStats) merge(other RenderStats) {
	if other.TotalPixels == 0 {
		return
	}
	if s.TotalPixels == 0 {
		s.MinSamples = other.MinSamples
	} else {
		s.MinSamples = min(s.MinSamples, other.MinSamples)
	}
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.Discarded += other.Discarded
	s.MaxSamplesUsed = max(s.MaxSamplesUsed, other.MaxSamplesUsed)
}

// finalize calculates derived statistics after all pixels are rendered
func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
}

// PixelStats tracks the running mean and variance of a pixel per channel
// using Welford's algorithm
type PixelStats struct {
	mean        core.Vec3
	m2          core.Vec3 // Sum of squared differences from the mean
	SampleCount int
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.SampleCount++
	delta := color.Subtract(ps.mean)
	ps.mean = ps.mean.Add(delta.Multiply(1.0 / float64(ps.SampleCount)))
	ps.m2 = ps.m2.Add(delta.MultiplyVec(color.Subtract(ps.mean)))
}

// Color returns the current average color for this pixel
func (ps *PixelStats) Color() core.Vec3 {
	return ps.mean
}

// Variance returns the population variance per channel
func (ps *PixelStats) Variance() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.m2.Multiply(1.0 / float64(ps.SampleCount))
}

// Converged reports whether sampling can stop early: at least minSamples
// have been taken and every channel's variance is below threshold
func (ps *PixelStats) Converged(minSamples int, threshold float64) bool {
	if ps.SampleCount == 0 || ps.SampleCount < minSamples {
		return false
	}
	return ps.Variance().MaxComponent() < threshold
}
