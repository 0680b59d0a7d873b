package geometry

import (
	"sort"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// parallelBuildThreshold is the subtree size above which both halves are built concurrently
const parallelBuildThreshold = 4096

// BVHNode is an interior node of a bounding volume hierarchy. Each child is
// either another node or a leaf primitive. Immutable once built.
type BVHNode struct {
	Left  Hittable
	Right Hittable
	box   core.AABB
}

// NewBVH builds a hierarchy over objects. A single object is returned as is,
// and an empty input yields an empty list. The input slice is not reordered.
func NewBVH(objects []Hittable) Hittable {
	if len(objects) == 0 {
		return NewHittableList()
	}

	// Copy so concurrent builders never share a backing array with the caller
	objectsCopy := make([]Hittable, len(objects))
	copy(objectsCopy, objects)

	return buildBVH(objectsCopy)
}

func buildBVH(objects []Hittable) Hittable {
	switch len(objects) {
	case 1:
		return objects[0]
	case 2:
		return newBVHNode(objects[0], objects[1])
	}

	axis := centroidBounds(objects).LongestAxis()
	sortByBoxMin(objects, axis)

	mid := len(objects) / 2
	var left, right Hittable
	if len(objects) > parallelBuildThreshold {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			left = buildBVH(objects[:mid])
		}()
		right = buildBVH(objects[mid:])
		wg.Wait()
	} else {
		left = buildBVH(objects[:mid])
		right = buildBVH(objects[mid:])
	}

	return newBVHNode(left, right)
}

func newBVHNode(left, right Hittable) *BVHNode {
	return &BVHNode{
		Left:  left,
		Right: right,
		box:   left.BoundingBox().Union(right.BoundingBox()),
	}
}

// centroidBounds returns the box around the centers of all object boxes
func centroidBounds(objects []Hittable) core.AABB {
	bounds := core.NewAABB(objects[0].BoundingBox().Center(), objects[0].BoundingBox().Center())
	for _, o := range objects[1:] {
		c := o.BoundingBox().Center()
		bounds = bounds.Union(core.NewAABB(c, c))
	}
	return bounds
}

// sortByBoxMin orders objects by the minimum coordinate of their box on axis
func sortByBoxMin(objects []Hittable, axis int) {
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].BoundingBox().Min.Index(axis) < objects[j].BoundingBox().Min.Index(axis)
	})
}

// Hit prunes on the node box, then tests the right child against the
// interval already narrowed by any left hit so the closest hit wins
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !n.box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax)
	if hitLeft {
		tMax = leftHit.T
	}

	if rightHit, hitRight := n.Right.Hit(ray, tMin, tMax); hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox returns the union of both children's boxes
func (n *BVHNode) BoundingBox() core.AABB {
	return n.box
}

// BVHStats contains statistics about a hierarchy's structure
type BVHStats struct {
	Nodes    int // interior nodes
	Leaves   int // primitives referenced by the tree
	MaxDepth int
	AvgDepth float64 // average leaf depth
}

// CollectBVHStats walks a hierarchy built by NewBVH. Any non-node value counts as a leaf.
func CollectBVHStats(root Hittable) BVHStats {
	stats := BVHStats{}
	collectStats(root, 0, &stats)
	if stats.Leaves > 0 {
		stats.AvgDepth /= float64(stats.Leaves)
	}
	return stats
}

func collectStats(h Hittable, depth int, stats *BVHStats) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	node, ok := h.(*BVHNode)
	if !ok {
		stats.Leaves++
		stats.AvgDepth += float64(depth)
		return
	}

	stats.Nodes++
	collectStats(node.Left, depth+1, stats)
	collectStats(node.Right, depth+1, stats)
}
