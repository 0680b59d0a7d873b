package scene

import "github.com/df07/go-pathtracer/pkg/renderer"

// NewTriangleMeshDocument describes tessellated spheres placed by instance
// transforms: flat and smooth shading, a non-uniform scale and a rotation
func NewTriangleMeshDocument() *Document {
	settings := renderer.DefaultSettings()
	settings.Width = 600
	settings.Height = 338

	return &Document{
		Name: "triangle-mesh",
		Camera: CameraDoc{
			LookFrom: Triple{0, 2, 6},
			LookAt:   Triple{0, 1, 0},
			VFov:     45,
			Aperture: 0.02,
		},
		Settings:   settings,
		Background: "sky",
		Materials: map[string]MaterialDoc{
			"ground": {Type: MaterialLambertian, Albedo: Triple{0.8, 0.8, 0.8}},
			"copper": {Type: MaterialCookTorrance, Albedo: Triple{0.95, 0.64, 0.54}, Roughness: 0.25, Metallic: 1},
			"clay":   {Type: MaterialLambertian, Albedo: Triple{0.8, 0.4, 0.3}},
			"jade":   {Type: MaterialDisney, Albedo: Triple{0.3, 0.7, 0.5}, Roughness: 0.2},
			"light":  {Type: MaterialEmissive, Emission: Triple{10, 10, 10}},
		},
		Objects: []ObjectDoc{
			groundQuad(Triple{0, 0, 0}, 100, "ground"),
			{
				Name: "faceted", Type: ObjectUVSphere, Material: "clay", Radius: 1, Stacks: 8, Sectors: 12,
				Transform: &TransformDoc{Translate: Triple{-2.2, 1, 0}},
			},
			{
				Name: "smooth", Type: ObjectUVSphere, Material: "copper", Radius: 1, Stacks: 24, Sectors: 48, Smooth: true,
				Transform: &TransformDoc{Translate: Triple{0, 1, -0.5}},
			},
			{
				Name: "ellipsoid", Type: ObjectUVSphere, Material: "jade", Radius: 1, Stacks: 24, Sectors: 48, Smooth: true,
				Transform: &TransformDoc{Translate: Triple{2.2, 0.6, 0}, Rotate: Triple{0, 0, 30}, Scale: &Triple{1, 0.6, 0.6}},
			},
			{Name: "light", Type: ObjectQuad, Material: "light", Corner: Triple{-1, 5, -1}, U: Triple{2, 0, 0}, V: Triple{0, 0, 2}},
		},
	}
}
