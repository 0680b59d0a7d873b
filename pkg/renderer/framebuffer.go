package renderer

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
)

// FrameBuffer holds linear radiance per pixel. Row 0 is the bottom of the image.
type FrameBuffer struct {
	Width, Height int
	pixels        []core.Vec3
	samples       []int
}

// NewFrameBuffer allocates a black buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:   width,
		Height:  height,
		pixels:  make([]core.Vec3, width*height),
		samples: make([]int, width*height),
	}
}

// Bounds returns the image rectangle
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// Set stores the color of buffer pixel (i, j). Out-of-range writes are ignored.
func (fb *FrameBuffer) Set(i, j int, color core.Vec3) {
	if i < 0 || i >= fb.Width || j < 0 || j >= fb.Height {
		return
	}
	fb.pixels[j*fb.Width+i] = color
}

// Pixel returns buffer pixel (i, j) with j counted from the bottom. Out of
// range coordinates read as black.
func (fb *FrameBuffer) Pixel(i, j int) core.Vec3 {
	if i < 0 || i >= fb.Width || j < 0 || j >= fb.Height {
		return core.Vec3{}
	}
	return fb.pixels[j*fb.Width+i]
}

// GetRGB returns the color at image column x and row y, counting rows from
// the top as image formats do
func (fb *FrameBuffer) GetRGB(x, y int) (r, g, b float64) {
	c := fb.Pixel(x, fb.Height-1-y)
	return c.X, c.Y, c.Z
}

// SampleCount returns how many samples buffer pixel (i, j) received
func (fb *FrameBuffer) SampleCount(i, j int) int {
	if i < 0 || i >= fb.Width || j < 0 || j >= fb.Height {
		return 0
	}
	return fb.samples[j*fb.Width+i]
}

func (fb *FrameBuffer) setSampleCount(i, j, n int) {
	fb.samples[j*fb.Width+i] = n
}

// AverageLuminance returns the mean luminance over all pixels
func (fb *FrameBuffer) AverageLuminance() float64 {
	if len(fb.pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range fb.pixels {
		total += p.Luminance()
	}
	return total / float64(len(fb.pixels))
}
