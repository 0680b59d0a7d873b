package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/meshcache"
)

// ErrInvalidDocument is wrapped by errors about the document's own contents
var ErrInvalidDocument = errors.New("invalid scene document")

// BuildOptions holds optional collaborators of Build
type BuildOptions struct {
	Logger  *zerolog.Logger  // nil = discard
	Cache   *meshcache.Cache // nil = a private cache reading files with loaders.Load
	BaseDir string           // Directory mesh paths are relative to
}

// Build turns a document into a scene. Mesh files are loaded through the
// cache and placed with instances, so a file used several times is read once.
func Build(doc *Document, opts BuildOptions) (*Scene, error) {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	cache := opts.Cache
	if cache == nil {
		cache = meshcache.New(loaders.Load)
	}

	if err := doc.Settings.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{
		Name:         doc.Name,
		CameraConfig: doc.Camera.CameraConfig(doc.Settings.AspectRatio()),
		Settings:     doc.Settings,
	}
	switch doc.Background {
	case "", "sky":
		s.Background = integrator.SkyGradient
	case "black":
		s.Background = integrator.Black
	default:
		return nil, fmt.Errorf("%w: unknown background %q", ErrInvalidDocument, doc.Background)
	}

	materials, err := buildMaterials(doc.Materials)
	if err != nil {
		return nil, err
	}

	for i, obj := range doc.Objects {
		label := obj.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}

		mat, ok := materials[obj.Material]
		if !ok {
			return nil, fmt.Errorf("%w: object %s uses undefined material %q", ErrInvalidDocument, label, obj.Material)
		}
		if err := addObject(s, obj, mat, cache, opts.BaseDir, logger); err != nil {
			return nil, fmt.Errorf("object %s: %w", label, err)
		}
	}

	logger.Info().
		Str("scene", doc.Name).
		Int("objects", len(s.Objects)).
		Int("lights", s.Lights().Len()).
		Int("meshes", cache.Len()).
		Msg("scene built")
	return s, nil
}

func buildMaterials(docs map[string]MaterialDoc) (map[string]material.Material, error) {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	materials := make(map[string]material.Material, len(docs))
	for _, name := range names {
		mat, err := docs[name].Build()
		if err != nil {
			return nil, fmt.Errorf("%w: material %s: %v", ErrInvalidDocument, name, err)
		}
		materials[name] = mat
	}
	return materials, nil
}

func addObject(s *Scene, obj ObjectDoc, mat material.Material, cache *meshcache.Cache, baseDir string, logger zerolog.Logger) error {
	switch obj.Type {
	case ObjectSphere:
		if obj.Radius <= 0 {
			return fmt.Errorf("%w: sphere radius %g must be positive", ErrInvalidDocument, obj.Radius)
		}
		if obj.Transform != nil {
			return placeInstance(s, geometry.NewSphere(obj.Center.Vec3(), obj.Radius, mat), obj, mat, logger)
		}
		s.AddSphere(obj.Center.Vec3(), obj.Radius, mat)

	case ObjectQuad:
		if obj.Transform != nil {
			quad := geometry.NewHittableList(geometry.NewQuad(obj.Corner.Vec3(), obj.U.Vec3(), obj.V.Vec3(), mat)...)
			return placeInstance(s, quad, obj, mat, logger)
		}
		s.AddQuad(obj.Corner.Vec3(), obj.U.Vec3(), obj.V.Vec3(), mat)

	case ObjectTriangle:
		if len(obj.Vertices) != 3 {
			return fmt.Errorf("%w: triangle needs 3 vertices, got %d", ErrInvalidDocument, len(obj.Vertices))
		}
		m := obj.Transform.Matrix()
		v0 := m.ApplyPoint(obj.Vertices[0].Vec3())
		v1 := m.ApplyPoint(obj.Vertices[1].Vec3())
		v2 := m.ApplyPoint(obj.Vertices[2].Vec3())
		s.AddObject(geometry.NewTriangle(v0, v1, v2, mat), mat)

	case ObjectMesh:
		if obj.Path == "" {
			return fmt.Errorf("%w: mesh path is empty", ErrInvalidDocument)
		}
		path := obj.Path
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		mesh, err := cache.Load(path, obj.Smooth)
		if err != nil {
			return err
		}
		logger.Debug().Str("path", path).Bool("smooth", obj.Smooth).Msg("mesh instanced")
		return placeInstance(s, mesh, obj, mat, logger)

	case ObjectUVSphere:
		radius := obj.Radius
		if radius <= 0 {
			radius = 1
		}
		data := geometry.UVSphere(radius, max(obj.Stacks, 8), max(obj.Sectors, 16))
		mesh, err := geometry.NewMesh(data, obj.Smooth, nil)
		if err != nil {
			return err
		}
		return placeInstance(s, mesh, obj, mat, logger)

	default:
		return fmt.Errorf("%w: unknown object type %q", ErrInvalidDocument, obj.Type)
	}
	return nil
}

// placeInstance adds child through an instance carrying the object's
// transform and material. Instanced emitters are visible but not sampled as lights.
func placeInstance(s *Scene, child geometry.Hittable, obj ObjectDoc, mat material.Material, logger zerolog.Logger) error {
	inst, err := geometry.NewInstance(child, obj.Transform.Matrix(), mat)
	if err != nil {
		return err
	}
	if material.IsEmissive(mat) {
		logger.Warn().Str("object", obj.Name).Str("type", obj.Type).Msg("emissive instance is not sampled as a light")
	}
	s.AddObject(inst, mat)
	return nil
}
