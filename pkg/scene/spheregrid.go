package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) Triple {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return Triple{
		math.Max(0, math.Min(1, r)),
		math.Max(0, math.Min(1, g)),
		math.Max(0, math.Min(1, blue)),
	}
}

// NewSphereGridDocument describes a gridSize×gridSize grid of colored metal
// spheres. Hue varies along X and chroma along Z.
func NewSphereGridDocument(gridSize int) *Document {
	gridSize = max(2, gridSize)

	settings := renderer.DefaultSettings()
	settings.Width = 800
	settings.Height = 450
	settings.MaxDepth = 40
	settings.VarianceThreshold = 0.001

	doc := &Document{
		Name: "sphere-grid",
		Camera: CameraDoc{
			LookFrom: Triple{4.5, 6, 18},
			LookAt:   Triple{4.5, 0.8, 4.5}, // Center of the grid
			VFov:     40,
			Aperture: 0.02,
		},
		Settings:   settings,
		Background: "sky",
		Materials: map[string]MaterialDoc{
			"ground": {Type: MaterialLambertian, Albedo: Triple{0.5, 0.5, 0.5}},
			"sun":    {Type: MaterialEmissive, Emission: Triple{12, 11.5, 10}},
		},
		Objects: []ObjectDoc{
			groundQuad(Triple{4.5, 0, 4.5}, 200, "ground"),
			{Name: "sun", Type: ObjectSphere, Material: "sun", Center: Triple{20, 25, 20}, Radius: 8},
		},
	}

	// Fit the grid into a 9×9 area regardless of its size
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	const baseLightness = 0.65
	const minChroma, maxChroma = 0.05, 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			name := fmt.Sprintf("sphere-%d-%d", i, j)
			doc.Materials[name] = MaterialDoc{
				Type:   MaterialMetal,
				Albedo: oklchToRGB(lightness, chroma, hue),
				Fuzz:   0.05 + 0.25*float64((i+j)%4)/3,
			}
			doc.Objects = append(doc.Objects, ObjectDoc{
				Name:     name,
				Type:     ObjectSphere,
				Material: name,
				Center:   Triple{x, sphereRadius, z},
				Radius:   sphereRadius,
			})
		}
	}

	return doc
}
