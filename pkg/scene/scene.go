// Package scene describes renderable scenes: a YAML document format, the
// builder turning documents into a world and light list, and built-in scenes.
package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/lights"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	CameraConfig renderer.CameraConfig
	Settings     renderer.Settings
	Background   func(core.Ray) core.Vec3 // Radiance of rays leaving the scene
	Objects      []geometry.Object        // Flat list of primitives with their materials

	world  geometry.Hittable
	lights *lights.LightList
}

// AddSphere adds a sphere
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	s.Objects = append(s.Objects, geometry.Object{Shape: geometry.NewSphere(center, radius, mat), Material: mat})
	s.invalidate()
}

// AddQuad adds the two triangles of a parallelogram. Emissive quads become
// two triangle lights.
func (s *Scene) AddQuad(corner, u, v core.Vec3, mat material.Material) {
	for _, tri := range geometry.NewQuad(corner, u, v, mat) {
		s.Objects = append(s.Objects, geometry.Object{Shape: tri, Material: mat})
	}
	s.invalidate()
}

// AddObject adds an arbitrary primitive, instance or mesh
func (s *Scene) AddObject(shape geometry.Hittable, mat material.Material) {
	s.Objects = append(s.Objects, geometry.Object{Shape: shape, Material: mat})
	s.invalidate()
}

func (s *Scene) invalidate() {
	s.world = nil
	s.lights = nil
}

// World returns the BVH over all objects, building it on first use
func (s *Scene) World() geometry.Hittable {
	if s.world == nil {
		shapes := make([]geometry.Hittable, len(s.Objects))
		for i, o := range s.Objects {
			shapes[i] = o.Shape
		}
		s.world = geometry.NewBVH(shapes)
	}
	return s.world
}

// Lights returns the light list collected from emissive spheres and triangles
func (s *Scene) Lights() *lights.LightList {
	if s.lights == nil {
		s.lights = lights.Collect(s.Objects)
	}
	return s.lights
}

// Camera creates the camera for the scene's aspect ratio
func (s *Scene) Camera() *renderer.Camera {
	config := s.CameraConfig
	config.AspectRatio = s.Settings.AspectRatio()
	return renderer.NewCamera(config)
}

// Integrator returns a path tracer using the scene's background
func (s *Scene) Integrator() integrator.Integrator {
	return integrator.NewPathTracer(integrator.Options{Background: s.Background})
}

// PrimitiveCount returns the number of primitives in the scene, counting
// every triangle of instanced meshes
func (s *Scene) PrimitiveCount() int {
	count := 0
	for _, o := range s.Objects {
		switch shape := o.Shape.(type) {
		case *geometry.Instance:
			count += geometry.CollectBVHStats(shape.Child).Leaves
		case *geometry.BVHNode:
			count += geometry.CollectBVHStats(shape).Leaves
		default:
			count++
		}
	}
	return count
}
