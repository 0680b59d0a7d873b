package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/meshcache"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

func minimalDocument() *Document {
	settings := renderer.DefaultSettings()
	settings.Width = 32
	settings.Height = 16
	return &Document{
		Name:     "minimal",
		Camera:   CameraDoc{LookFrom: Triple{0, 0, 5}, LookAt: Triple{0, 0, 0}, VFov: 40},
		Settings: settings,
		Materials: map[string]MaterialDoc{
			"grey":  {Type: MaterialLambertian, Albedo: Triple{0.5, 0.5, 0.5}},
			"light": {Type: MaterialEmissive, Emission: Triple{4, 4, 4}},
		},
		Objects: []ObjectDoc{
			{Name: "ball", Type: ObjectSphere, Material: "grey", Center: Triple{0, 0, 0}, Radius: 1},
			{Name: "lamp", Type: ObjectQuad, Material: "light", Corner: Triple{-1, 3, -1}, U: Triple{2, 0, 0}, V: Triple{0, 0, 2}},
		},
	}
}

func TestBuildMinimal(t *testing.T) {
	s, err := Build(minimalDocument(), BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	assert.Len(t, s.Objects, 3, "sphere plus two quad triangles")
	assert.Equal(t, 2, s.Lights().Len(), "an emissive quad is two triangle lights")
	assert.Equal(t, 2.0, s.CameraConfig.AspectRatio)

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	hit, ok := s.World().Hit(ray, 0.001, 100)
	require.True(t, ok)
	assert.InDelta(t, 4.0, hit.T, 1e-9)

	// The default background is the sky gradient
	up := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))
	assert.Equal(t, integrator.SkyGradient(up), s.Background(up))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Document)
		invalid bool
	}{
		{"undefined material", func(d *Document) { d.Objects[0].Material = "missing" }, true},
		{"unknown object type", func(d *Document) { d.Objects[0].Type = "torus" }, true},
		{"unknown material type", func(d *Document) { d.Materials["grey"] = MaterialDoc{Type: "velvet"} }, true},
		{"zero radius", func(d *Document) { d.Objects[0].Radius = 0 }, true},
		{"bad triangle", func(d *Document) {
			d.Objects = append(d.Objects, ObjectDoc{Type: ObjectTriangle, Material: "grey", Vertices: []Triple{{0, 0, 0}}})
		}, true},
		{"unknown background", func(d *Document) { d.Background = "plaid" }, true},
		{"missing mesh path", func(d *Document) { d.Objects[0] = ObjectDoc{Type: ObjectMesh, Material: "grey"} }, true},
		{"invalid settings", func(d *Document) { d.Settings.Width = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := minimalDocument()
			tt.modify(doc)
			_, err := Build(doc, BuildOptions{})
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidDocument), "error: %v", err)
		})
	}
}

func TestBuildSingularTransform(t *testing.T) {
	doc := minimalDocument()
	doc.Objects[0].Transform = &TransformDoc{Scale: &Triple{1, 0, 1}}
	_, err := Build(doc, BuildOptions{})
	assert.ErrorIs(t, err, core.ErrSingularTransform)
}

func TestBuildMeshesShareCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loaders.Save(filepath.Join(dir, "ball.ply.zst"), geometry.UVSphere(1, 8, 16)))

	var reads atomic.Int32
	cache := meshcache.New(func(path string) (*geometry.MeshData, error) {
		reads.Add(1)
		return loaders.Load(path)
	})

	doc := minimalDocument()
	doc.Objects = append(doc.Objects,
		ObjectDoc{Name: "a", Type: ObjectMesh, Material: "grey", Path: "ball.ply.zst", Transform: &TransformDoc{Translate: Triple{-3, 0, 0}}},
		ObjectDoc{Name: "b", Type: ObjectMesh, Material: "grey", Path: "ball.ply.zst", Transform: &TransformDoc{Translate: Triple{3, 0, 0}}},
		ObjectDoc{Name: "c", Type: ObjectMesh, Material: "grey", Path: "ball.ply.zst", Smooth: true},
	)

	s, err := Build(doc, BuildOptions{Cache: cache, BaseDir: dir})
	require.NoError(t, err)

	assert.Equal(t, int32(2), reads.Load(), "one read per (path, smooth)")
	assert.Equal(t, 2, cache.Len())

	a := s.Objects[3].Shape.(*geometry.Instance)
	b := s.Objects[4].Shape.(*geometry.Instance)
	assert.Same(t, a.Child, b.Child)

	// Instanced triangles report the instance material
	ray := core.NewRay(core.NewVec3(3.3, 0.2, 5), core.NewVec3(0, 0, -1))
	hit, ok := s.World().Hit(ray, 0.001, 100)
	require.True(t, ok)
	assert.NotNil(t, hit.Material)

	triangles := geometry.UVSphere(1, 8, 16).TriangleCount()
	assert.Equal(t, 3+3*triangles, s.PrimitiveCount())
}

func TestBuildMissingMeshFile(t *testing.T) {
	doc := minimalDocument()
	doc.Objects = append(doc.Objects, ObjectDoc{Name: "ghost", Type: ObjectMesh, Material: "grey", Path: "ghost.obj"})
	_, err := Build(doc, BuildOptions{BaseDir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "ghost")
}

func TestTransformDocMatrix(t *testing.T) {
	var none *TransformDoc
	assert.Equal(t, core.Identity(), none.Matrix())

	td := &TransformDoc{Translate: Triple{1, 2, 3}, Rotate: Triple{0, 90, 0}, Scale: &Triple{2, 2, 2}}
	p := td.Matrix().ApplyPoint(core.NewVec3(1, 0, 0))
	// Scale to (2,0,0), rotate about Y to (0,0,-2), then translate
	assert.InDelta(t, 1.0, p.X, 1e-9)
	assert.InDelta(t, 2.0, p.Y, 1e-9)
	assert.InDelta(t, 1.0, p.Z, 1e-9)
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	original := NewCornellDocument()
	require.NoError(t, SaveFile(path, original))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoadFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	content := strings.Join([]string{
		"# Scene: Tiny",
		"camera:",
		"  look_from: [0, 0, 5]",
		"  look_at: [0, 0, 0]",
		"  vfov: 30",
		"settings:",
		"  width: 20",
		"  height: 10",
		"background: black",
		"materials:",
		"  m: {type: lambertian, albedo: [0.5, 0.5, 0.5]}",
		"objects:",
		"  - {type: sphere, material: m, center: [0, 0, 0], radius: 1}",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20, doc.Settings.Width)
	assert.Equal(t, renderer.DefaultSettings().SamplesPerPixel, doc.Settings.SamplesPerPixel)

	s, err := Build(doc, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, core.Vec3{}, s.Background(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))))
	assert.Equal(t, 0, s.Lights().Len())

	require.NoError(t, os.WriteFile(path, []byte("settings: {width: -1}\n"), 0o644))
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, renderer.ErrInvalidSettings)
}

func TestMaterialDocBuild(t *testing.T) {
	tests := []struct {
		doc     MaterialDoc
		want    any
		wantErr bool
	}{
		{MaterialDoc{Type: MaterialLambertian}, &material.Lambertian{}, false},
		{MaterialDoc{Type: MaterialMetal, Fuzz: 0.2}, &material.Metal{}, false},
		{MaterialDoc{Type: MaterialDielectric, IOR: 1.33}, &material.Dielectric{}, false},
		{MaterialDoc{Type: MaterialDielectric}, nil, true},
		{MaterialDoc{Type: MaterialEmissive, Emission: Triple{1, 1, 1}}, &material.Emissive{}, false},
		{MaterialDoc{Type: MaterialCookTorrance, Roughness: 0.5}, &material.CookTorrance{}, false},
		{MaterialDoc{Type: MaterialDisney}, &material.Disney{}, false},
		{MaterialDoc{Type: MaterialBlinnPhong, Shininess: 8, LightDir: Triple{0, 1, 0}}, &material.BlinnPhong{}, false},
		{MaterialDoc{Type: MaterialBlinnPhong}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.doc.Type, func(t *testing.T) {
			mat, err := tt.doc.Build()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, mat)
		})
	}
}
