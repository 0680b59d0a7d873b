package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Emissive represents a light-emitting material
type Emissive struct {
	deltaLobe
	Emission core.Vec3 // Emitted light color/intensity
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// ScatterImportance never scatters: emitters absorb all incoming light
func (e *Emissive) ScatterImportance(core.Ray, *HitRecord, core.Sampler) (ScatterSample, bool) {
	return ScatterSample{}, false
}

// Emitted returns the emitted light for this material
func (e *Emissive) Emitted(core.Ray, *HitRecord) core.Vec3 {
	return e.Emission
}
