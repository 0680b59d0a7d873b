package scene

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Triple is a YAML [x, y, z] sequence
type Triple [3]float64

// Vec3 converts t to a vector
func (t Triple) Vec3() core.Vec3 {
	return core.NewVec3(t[0], t[1], t[2])
}

// Document is the serialized form of a scene
type Document struct {
	Name       string                 `yaml:"name,omitempty"`
	Camera     CameraDoc              `yaml:"camera"`
	Settings   renderer.Settings      `yaml:"settings"`
	Background string                 `yaml:"background,omitempty"` // "sky" (default) or "black"
	Materials  map[string]MaterialDoc `yaml:"materials"`
	Objects    []ObjectDoc            `yaml:"objects"`
}

// CameraDoc describes the camera. The aspect ratio comes from the settings.
type CameraDoc struct {
	LookFrom  Triple  `yaml:"look_from"`
	LookAt    Triple  `yaml:"look_at"`
	VUp       *Triple `yaml:"vup,omitempty"` // default +Y
	VFov      float64 `yaml:"vfov"`
	Aperture  float64 `yaml:"aperture,omitempty"`
	FocusDist float64 `yaml:"focus_dist,omitempty"`
}

// Material type names
const (
	MaterialLambertian   = "lambertian"
	MaterialMetal        = "metal"
	MaterialDielectric   = "dielectric"
	MaterialEmissive     = "emissive"
	MaterialCookTorrance = "cook_torrance"
	MaterialDisney       = "disney"
	MaterialBlinnPhong   = "blinn_phong"
)

// MaterialDoc describes one named material. Which fields apply depends on Type.
type MaterialDoc struct {
	Type      string  `yaml:"type"`
	Albedo    Triple  `yaml:"albedo,omitempty"`    // lambertian, metal, cook_torrance, disney base color, blinn_phong diffuse
	Fuzz      float64 `yaml:"fuzz,omitempty"`      // metal
	IOR       float64 `yaml:"ior,omitempty"`       // dielectric
	Emission  Triple  `yaml:"emission,omitempty"`  // emissive
	Roughness float64 `yaml:"roughness,omitempty"` // cook_torrance, disney
	Metallic  float64 `yaml:"metallic,omitempty"`  // cook_torrance, disney
	Specular  Triple  `yaml:"specular,omitempty"`  // blinn_phong
	Shininess float64 `yaml:"shininess,omitempty"` // blinn_phong
	LightDir  Triple  `yaml:"light_dir,omitempty"` // blinn_phong
}

// Build creates the material
func (m MaterialDoc) Build() (material.Material, error) {
	switch m.Type {
	case MaterialLambertian:
		return material.NewLambertian(m.Albedo.Vec3()), nil
	case MaterialMetal:
		return material.NewMetal(m.Albedo.Vec3(), m.Fuzz), nil
	case MaterialDielectric:
		if m.IOR <= 0 {
			return nil, fmt.Errorf("dielectric ior %g must be positive", m.IOR)
		}
		return material.NewDielectric(m.IOR), nil
	case MaterialEmissive:
		return material.NewEmissive(m.Emission.Vec3()), nil
	case MaterialCookTorrance:
		return material.NewCookTorrance(m.Albedo.Vec3(), m.Roughness, m.Metallic), nil
	case MaterialDisney:
		return material.NewDisney(m.Albedo.Vec3(), m.Metallic, m.Roughness), nil
	case MaterialBlinnPhong:
		if m.LightDir.Vec3().IsZero() {
			return nil, fmt.Errorf("blinn_phong light_dir must not be zero")
		}
		return material.NewBlinnPhong(m.Albedo.Vec3(), m.Specular.Vec3(), m.Shininess, m.LightDir.Vec3()), nil
	}
	return nil, fmt.Errorf("unknown material type %q", m.Type)
}

// Object type names
const (
	ObjectSphere   = "sphere"
	ObjectQuad     = "quad"
	ObjectTriangle = "triangle"
	ObjectMesh     = "mesh" // OBJ or PLY file, format chosen by extension
	ObjectUVSphere = "uv_sphere"
)

// ObjectDoc describes one object. Which fields apply depends on Type.
type ObjectDoc struct {
	Name      string        `yaml:"name,omitempty"`
	Type      string        `yaml:"type"`
	Material  string        `yaml:"material"`
	Center    Triple        `yaml:"center,omitempty"`   // sphere
	Radius    float64       `yaml:"radius,omitempty"`   // sphere, uv_sphere
	Corner    Triple        `yaml:"corner,omitempty"`   // quad
	U         Triple        `yaml:"u,omitempty"`        // quad edge
	V         Triple        `yaml:"v,omitempty"`        // quad edge
	Vertices  []Triple      `yaml:"vertices,omitempty"` // triangle
	Path      string        `yaml:"path,omitempty"`     // mesh, relative to the document
	Smooth    bool          `yaml:"smooth,omitempty"`   // mesh, uv_sphere
	Stacks    int           `yaml:"stacks,omitempty"`   // uv_sphere
	Sectors   int           `yaml:"sectors,omitempty"`  // uv_sphere
	Transform *TransformDoc `yaml:"transform,omitempty"`
}

// TransformDoc places an object: scale first, then rotations about X, Y and Z
// (degrees), then translation
type TransformDoc struct {
	Translate Triple  `yaml:"translate,omitempty"`
	Rotate    Triple  `yaml:"rotate,omitempty"`
	Scale     *Triple `yaml:"scale,omitempty"` // default [1, 1, 1]
}

// Matrix returns the affine transform
func (t *TransformDoc) Matrix() core.Transform {
	if t == nil {
		return core.Identity()
	}
	scale := core.NewVec3(1, 1, 1)
	if t.Scale != nil {
		scale = t.Scale.Vec3()
	}
	deg := math.Pi / 180
	return core.Translate(t.Translate.Vec3()).
		Mul(core.RotateZ(t.Rotate[2] * deg)).
		Mul(core.RotateY(t.Rotate[1] * deg)).
		Mul(core.RotateX(t.Rotate[0] * deg)).
		Mul(core.Scale(scale))
}

// CameraConfig converts the camera description for the given aspect ratio
func (c CameraDoc) CameraConfig(aspectRatio float64) renderer.CameraConfig {
	vup := core.NewVec3(0, 1, 0)
	if c.VUp != nil {
		vup = c.VUp.Vec3()
	}
	return renderer.CameraConfig{
		LookFrom:    c.LookFrom.Vec3(),
		LookAt:      c.LookAt.Vec3(),
		VUp:         vup,
		VFov:        c.VFov,
		AspectRatio: aspectRatio,
		Aperture:    c.Aperture,
		FocusDist:   c.FocusDist,
	}
}

// LoadFile reads a YAML scene document. Settings missing from the file keep
// renderer.DefaultSettings values.
func LoadFile(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := &Document{Settings: renderer.DefaultSettings()}
	if err := yaml.Unmarshal(b, doc); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	if err := doc.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return doc, nil
}

// SaveFile writes doc as YAML
func SaveFile(path string, doc *Document) error {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
