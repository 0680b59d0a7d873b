package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// UVSphere triangulates a sphere of the given radius centered at the origin
// into stacks (latitude bands, pole to pole) and sectors (longitude slices).
// Normals point outward. Triangles touching the poles are degenerate and never hit.
func UVSphere(radius float64, stacks, sectors int) *MeshData {
	stacks = max(2, stacks)
	sectors = max(3, sectors)

	data := &MeshData{
		Positions: make([]core.Vec3, 0, (stacks+1)*(sectors+1)),
		Normals:   make([]core.Vec3, 0, (stacks+1)*(sectors+1)),
		Indices:   make([]int, 0, stacks*sectors*6),
	}

	for i := 0; i <= stacks; i++ {
		stackAngle := math.Pi/2 - float64(i)*math.Pi/float64(stacks)
		xy := radius * math.Cos(stackAngle)
		z := radius * math.Sin(stackAngle)

		for j := 0; j <= sectors; j++ {
			sectorAngle := float64(j) * 2 * math.Pi / float64(sectors)
			p := core.NewVec3(xy*math.Cos(sectorAngle), xy*math.Sin(sectorAngle), z)
			data.Positions = append(data.Positions, p)
			data.Normals = append(data.Normals, p.Normalize())
		}
	}

	for i := 0; i < stacks; i++ {
		for j := 0; j < sectors; j++ {
			first := i*(sectors+1) + j
			second := first + sectors + 1
			data.Indices = append(data.Indices,
				first, second, first+1,
				first+1, second, second+1,
			)
		}
	}

	return data
}
