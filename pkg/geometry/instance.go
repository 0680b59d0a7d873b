package geometry

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Instance places a shared child (typically a cached mesh BVH) in the world
// through an affine transform. The child is never copied or mutated.
type Instance struct {
	Child     Hittable
	Transform core.Transform
	Inverse   core.Transform
	Material  material.Material // overrides the child's material when set
	bbox      core.AABB
}

// NewInstance wraps child with transform. mat may be nil only when the child
// carries its own materials; cached meshes are built without one and need mat.
// Surfaces that end up with no material are not hit.
func NewInstance(child Hittable, transform core.Transform, mat material.Material) (*Instance, error) {
	inverse, err := transform.Inverse()
	if err != nil {
		return nil, fmt.Errorf("instance transform: %w", err)
	}

	inst := &Instance{
		Child:     child,
		Transform: transform,
		Inverse:   inverse,
		Material:  mat,
	}
	inst.bbox = inst.computeBoundingBox()
	return inst, nil
}

// Hit intersects the ray in the child's local space. The local direction is
// not renormalized, so t is the same in both spaces.
func (i *Instance) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	local := i.Inverse.ApplyRay(ray)

	hit, ok := i.Child.Hit(local, tMin, tMax)
	if !ok {
		return nil, false
	}
	mat := hit.Material
	if i.Material != nil {
		mat = i.Material
	}
	if mat == nil {
		return nil, false
	}

	// The child oriented the normal against the local ray; undo that before
	// transforming so the world-space front face is decided against the world ray
	outward := hit.Normal
	if !hit.FrontFace {
		outward = outward.Negate()
	}

	result := &material.HitRecord{
		T:        hit.T,
		Point:    i.Transform.ApplyPoint(hit.Point),
		Material: mat,
	}
	result.SetFaceNormal(ray, core.ApplyNormal(i.Inverse, outward).Normalize())
	return result, true
}

// BoundingBox returns the union of the child's eight transformed box corners
func (i *Instance) BoundingBox() core.AABB {
	return i.bbox
}

func (i *Instance) computeBoundingBox() core.AABB {
	corners := i.Child.BoundingBox().Corners()
	for k := range corners {
		corners[k] = i.Transform.ApplyPoint(corners[k])
	}
	return core.NewAABBFromPoints(corners[:]...)
}
