package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// HittableList is a flat world: every member is tested for every ray
type HittableList struct {
	Objects []Hittable
	bbox    core.AABB
}

// NewHittableList creates a list from the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	l := &HittableList{}
	for _, o := range objects {
		l.Add(o)
	}
	return l
}

// Add appends an object and grows the bounding box
func (l *HittableList) Add(object Hittable) {
	if len(l.Objects) == 0 {
		l.bbox = object.BoundingBox()
	} else {
		l.bbox = l.bbox.Union(object.BoundingBox())
	}
	l.Objects = append(l.Objects, object)
}

// Hit returns the closest hit among all members
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, object := range l.Objects {
		if hit, ok := object.Hit(ray, tMin, closestSoFar); ok {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the union of all member boxes
func (l *HittableList) BoundingBox() core.AABB {
	return l.bbox
}
