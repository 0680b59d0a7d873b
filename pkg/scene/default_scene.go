package scene

import "github.com/df07/go-pathtracer/pkg/renderer"

// NewDefaultDocument describes spheres of several materials on a large ground
// quad, lit by a distant sphere light under the sky gradient
func NewDefaultDocument() *Document {
	settings := renderer.DefaultSettings()
	settings.SamplesPerPixel = 200
	settings.MaxDepth = 50

	return &Document{
		Name: "default",
		Camera: CameraDoc{
			LookFrom: Triple{0, 0.75, 2}, // Higher and farther back
			LookAt:   Triple{0, 0.5, -1}, // Center sphere
			VFov:     40,
			Aperture: 0.05,
		},
		Settings:   settings,
		Background: "sky",
		Materials: map[string]MaterialDoc{
			"ground": {Type: MaterialLambertian, Albedo: Triple{0.48, 0.48, 0}},
			"blue":   {Type: MaterialLambertian, Albedo: Triple{0.1, 0.2, 0.5}},
			"red":    {Type: MaterialCookTorrance, Albedo: Triple{0.65, 0.25, 0.2}, Roughness: 0.3},
			"silver": {Type: MaterialMetal, Albedo: Triple{0.8, 0.8, 0.8}},
			"gold":   {Type: MaterialMetal, Albedo: Triple{0.8, 0.6, 0.2}, Fuzz: 0.3},
			"glass":  {Type: MaterialDielectric, IOR: 1.5},
			"sun":    {Type: MaterialEmissive, Emission: Triple{15, 14, 13}},
		},
		Objects: []ObjectDoc{
			{Name: "center", Type: ObjectSphere, Material: "red", Center: Triple{0, 0.5, -1}, Radius: 0.5},
			{Name: "left", Type: ObjectSphere, Material: "silver", Center: Triple{-1, 0.5, -1}, Radius: 0.5},
			{Name: "right", Type: ObjectSphere, Material: "gold", Center: Triple{1, 0.5, -1}, Radius: 0.5},
			{Name: "glass", Type: ObjectSphere, Material: "glass", Center: Triple{0.5, 0.25, -0.5}, Radius: 0.25},
			{Name: "small", Type: ObjectSphere, Material: "blue", Center: Triple{-0.5, 0.2, -0.5}, Radius: 0.2},
			groundQuad(Triple{0, 0, 0}, 10000, "ground"),
			{Name: "sun", Type: ObjectSphere, Material: "sun", Center: Triple{30, 30.5, 15}, Radius: 10},
		},
	}
}

// groundQuad describes a horizontal square centered at center with its normal up
func groundQuad(center Triple, size float64, mat string) ObjectDoc {
	return ObjectDoc{
		Name:     "ground",
		Type:     ObjectQuad,
		Material: mat,
		Corner:   Triple{center[0] - size/2, center[1], center[2] - size/2},
		// u × v points up
		U: Triple{0, 0, size},
		V: Triple{size, 0, 0},
	}
}
