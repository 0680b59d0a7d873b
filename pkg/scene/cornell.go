package scene

import "github.com/df07/go-pathtracer/pkg/renderer"

// NewCornellDocument describes the classic Cornell box with a metal and a
// glass sphere, lit by a quad light under the ceiling
func NewCornellDocument() *Document {
	settings := renderer.DefaultSettings()
	settings.Width = 400
	settings.Height = 400
	settings.SamplesPerPixel = 150
	settings.MaxDepth = 40

	// Standard 555 unit box
	const boxSize = 555.0
	const lightSize = 130.0
	const lightOffset = (boxSize - lightSize) / 2

	return &Document{
		Name: "cornell",
		Camera: CameraDoc{
			LookFrom: Triple{278, 278, -800}, // Outside the box looking in
			LookAt:   Triple{278, 278, 0},
			VFov:     40,
		},
		Settings:   settings,
		Background: "black",
		Materials: map[string]MaterialDoc{
			"white": {Type: MaterialLambertian, Albedo: Triple{0.73, 0.73, 0.73}},
			"red":   {Type: MaterialLambertian, Albedo: Triple{0.65, 0.05, 0.05}},
			"green": {Type: MaterialLambertian, Albedo: Triple{0.12, 0.45, 0.15}},
			"light": {Type: MaterialEmissive, Emission: Triple{15, 15, 15}},
			"metal": {Type: MaterialMetal, Albedo: Triple{0.8, 0.8, 0.9}},
			"glass": {Type: MaterialDielectric, IOR: 1.5},
		},
		Objects: []ObjectDoc{
			{Name: "floor", Type: ObjectQuad, Material: "white", Corner: Triple{0, 0, 0}, U: Triple{0, 0, boxSize}, V: Triple{boxSize, 0, 0}},
			{Name: "ceiling", Type: ObjectQuad, Material: "white", Corner: Triple{0, boxSize, 0}, U: Triple{boxSize, 0, 0}, V: Triple{0, 0, boxSize}},
			{Name: "back", Type: ObjectQuad, Material: "white", Corner: Triple{0, 0, boxSize}, U: Triple{boxSize, 0, 0}, V: Triple{0, boxSize, 0}},
			{Name: "left", Type: ObjectQuad, Material: "red", Corner: Triple{0, 0, 0}, U: Triple{0, 0, boxSize}, V: Triple{0, boxSize, 0}},
			{Name: "right", Type: ObjectQuad, Material: "green", Corner: Triple{boxSize, 0, 0}, U: Triple{0, boxSize, 0}, V: Triple{0, 0, boxSize}},
			// Slightly below the ceiling, facing down
			{Name: "light", Type: ObjectQuad, Material: "light", Corner: Triple{lightOffset, boxSize - 1, lightOffset}, U: Triple{lightSize, 0, 0}, V: Triple{0, 0, lightSize}},
			{Name: "metal", Type: ObjectSphere, Material: "metal", Center: Triple{185, 82.5, 169}, Radius: 82.5},
			{Name: "glass", Type: ObjectSphere, Material: "glass", Center: Triple{370, 90, 351}, Radius: 90},
		},
	}
}
