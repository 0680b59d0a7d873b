package scene

import "github.com/df07/go-pathtracer/pkg/renderer"

// NewMaterialsDocument describes one sphere per material model in a row,
// lit by a quad light above and a small sphere light
func NewMaterialsDocument() *Document {
	settings := renderer.DefaultSettings()
	settings.Width = 700
	settings.Height = 250

	names := []string{"lambertian", "metal", "dielectric", "cook_torrance", "disney", "blinn_phong"}
	doc := &Document{
		Name: "materials",
		Camera: CameraDoc{
			LookFrom: Triple{0, 1.6, 7},
			LookAt:   Triple{0, 0.5, 0},
			VFov:     35,
		},
		Settings:   settings,
		Background: "sky",
		Materials: map[string]MaterialDoc{
			"floor":         {Type: MaterialLambertian, Albedo: Triple{0.6, 0.6, 0.6}},
			"panel":         {Type: MaterialEmissive, Emission: Triple{4, 4, 4}},
			"bulb":          {Type: MaterialEmissive, Emission: Triple{20, 18, 14}},
			"lambertian":    {Type: MaterialLambertian, Albedo: Triple{0.7, 0.3, 0.3}},
			"metal":         {Type: MaterialMetal, Albedo: Triple{0.9, 0.9, 0.9}, Fuzz: 0.1},
			"dielectric":    {Type: MaterialDielectric, IOR: 1.5},
			"cook_torrance": {Type: MaterialCookTorrance, Albedo: Triple{1.0, 0.71, 0.29}, Roughness: 0.35, Metallic: 1},
			"disney":        {Type: MaterialDisney, Albedo: Triple{0.2, 0.5, 0.8}, Metallic: 0.2, Roughness: 0.4},
			"blinn_phong":   {Type: MaterialBlinnPhong, Albedo: Triple{0.3, 0.7, 0.3}, Specular: Triple{0.4, 0.4, 0.4}, Shininess: 32, LightDir: Triple{0.3, 1, 0.5}},
		},
		Objects: []ObjectDoc{
			groundQuad(Triple{0, 0, 0}, 40, "floor"),
			{Name: "panel", Type: ObjectQuad, Material: "panel", Corner: Triple{-3, 4, -1}, U: Triple{6, 0, 0}, V: Triple{0, 0, 2}},
			{Name: "bulb", Type: ObjectSphere, Material: "bulb", Center: Triple{4, 3, 3}, Radius: 0.3},
		},
	}

	for i, name := range names {
		x := (float64(i) - float64(len(names)-1)/2) * 1.2
		doc.Objects = append(doc.Objects, ObjectDoc{
			Name:     name,
			Type:     ObjectSphere,
			Material: name,
			Center:   Triple{x, 0.5, 0},
			Radius:   0.5,
		})
	}
	return doc
}
