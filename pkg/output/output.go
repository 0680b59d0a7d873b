// Package output writes rendered frames to image files
package output

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-openexr/exr"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrUnsupportedFormat is returned by Write for unknown file extensions
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultGamma is the display gamma applied to PNG output
const DefaultGamma = 2.0

// PixelSource is a linear RGB image with rows counted from the top
type PixelSource interface {
	Bounds() image.Rectangle
	GetRGB(x, y int) (r, g, b float64)
}

// ToRGBA tone maps src with gamma correction and clamping to 8 bits per channel
func ToRGBA(src PixelSource, gamma float64) *image.RGBA {
	bounds := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b := src.GetRGB(x, y)
			img.SetRGBA(x, y, vec3ToColor(core.NewVec3(r, g, b), gamma))
		}
	}
	return img
}

// vec3ToColor converts a linear color to RGBA with gamma correction and clamping
func vec3ToColor(c core.Vec3, gamma float64) color.RGBA {
	c = c.GammaCorrect(gamma).Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}

// EncodePNG writes src as an 8-bit PNG
func EncodePNG(w io.Writer, src PixelSource, gamma float64) error {
	return png.Encode(w, ToRGBA(src, gamma))
}

// WritePNG writes src to path as an 8-bit gamma corrected PNG
func WritePNG(path string, src PixelSource, gamma float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(file, src, gamma); err != nil {
		file.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return file.Close()
}

// ToEXR copies src into a half float RGBA image. Values stay linear and unclamped.
func ToEXR(src PixelSource) *exr.RGBAImage {
	bounds := src.Bounds()
	img := exr.NewRGBAImage(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b := src.GetRGB(x, y)
			img.SetRGBA(x, y, float32(r), float32(g), float32(b), 1)
		}
	}
	return img
}

// WriteEXR writes src to path as a linear OpenEXR image
func WriteEXR(path string, src PixelSource) error {
	if err := exr.EncodeFile(path, ToEXR(src)); err != nil {
		return fmt.Errorf("write exr: %w", err)
	}
	return nil
}

// Write picks the image format from the extension of path: .png or .exr
func Write(path string, src PixelSource) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return WritePNG(path, src, DefaultGamma)
	case ".exr":
		return WriteEXR(path, src)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}
