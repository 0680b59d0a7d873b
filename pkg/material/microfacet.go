package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// FresnelSchlick returns the Schlick Fresnel term for a colored f0
func FresnelSchlick(cosTheta float64, f0 core.Vec3) core.Vec3 {
	w := SchlickWeight(cosTheta)
	one := core.NewVec3(1, 1, 1)
	return f0.Add(one.Subtract(f0).Multiply(w))
}

// FresnelSchlickScalar returns the Schlick Fresnel term for a scalar f0
func FresnelSchlickScalar(cosTheta, f0 float64) float64 {
	return f0 + (1-f0)*SchlickWeight(cosTheta)
}

// SchlickWeight returns (1 - cos)^5 with cos clamped to [0, 1]
func SchlickWeight(cosTheta float64) float64 {
	m := 1 - max(0, min(1, cosTheta))
	m2 := m * m
	return m2 * m2 * m
}

// GGXDistribution is the Trowbridge-Reitz normal distribution D(h) for alpha = roughness²
func GGXDistribution(nDotH, alpha float64) float64 {
	a2 := alpha * alpha
	d := nDotH*nDotH*(a2-1) + 1
	return a2 / math.Max(math.Pi*d*d, 1e-12)
}

// SmithGGXG1 is the exact Smith masking term for GGX
func SmithGGXG1(nDotX, alpha float64) float64 {
	if nDotX <= 0 {
		return 0
	}
	a2 := alpha * alpha
	return 2 * nDotX / (nDotX + math.Sqrt(a2+(1-a2)*nDotX*nDotX))
}

// GeometrySchlickGGX is the Schlick-GGX geometry term with k = (roughness+1)²/8
func GeometrySchlickGGX(nDotX, roughness float64) float64 {
	k := (roughness + 1) * (roughness + 1) / 8
	return nDotX / (nDotX*(1-k) + k)
}

// SampleGGXVNDF samples a microfacet normal from the distribution of normals
// visible from view (Heitz 2018). view and the result are in the shading frame
// where the macro normal is +Z.
func SampleGGXVNDF(view core.Vec3, alpha float64, u core.Vec2) core.Vec3 {
	// Stretch the view vector to the hemisphere configuration
	vh := core.NewVec3(alpha*view.X, alpha*view.Y, view.Z).Normalize()

	lensq := vh.X*vh.X + vh.Y*vh.Y
	var t1 core.Vec3
	if lensq > 0 {
		t1 = core.NewVec3(-vh.Y, vh.X, 0).Multiply(1 / math.Sqrt(lensq))
	} else {
		t1 = core.NewVec3(1, 0, 0)
	}
	t2 := vh.Cross(t1)

	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	p2 = (1-s)*math.Sqrt(math.Max(0, 1-p1*p1)) + s*p2

	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(vh.Multiply(math.Sqrt(math.Max(0, 1-p1*p1-p2*p2))))

	// Unstretch
	return core.NewVec3(alpha*nh.X, alpha*nh.Y, math.Max(1e-6, nh.Z)).Normalize()
}

// GGXVNDFReflectionPDF is the solid-angle density of the reflected direction
// produced by SampleGGXVNDF: G1(v) * D(h) / (4 * n·v)
func GGXVNDFReflectionPDF(nDotV, nDotH, alpha float64) float64 {
	if nDotV <= 0 || nDotH <= 0 {
		return 0
	}
	return SmithGGXG1(nDotV, alpha) * GGXDistribution(nDotH, alpha) / (4 * nDotV)
}

// GTR1 is the generalized Trowbridge-Reitz distribution with gamma = 1, used for clearcoat
func GTR1(nDotH, alpha float64) float64 {
	if alpha >= 1 {
		return 1 / math.Pi
	}
	a2 := alpha * alpha
	t := 1 + (a2-1)*nDotH*nDotH
	return (a2 - 1) / (math.Pi * math.Log(a2) * t)
}

// DisneyDiffuse is the Burley diffuse term with grazing retro-reflection
func DisneyDiffuse(baseColor core.Vec3, roughness, nDotL, nDotV, lDotH float64) core.Vec3 {
	fd90 := 0.5 + 2*lDotH*lDotH*roughness
	lightScatter := 1 + (fd90-1)*SchlickWeight(nDotL)
	viewScatter := 1 + (fd90-1)*SchlickWeight(nDotV)
	return baseColor.Multiply(lightScatter * viewScatter / math.Pi)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
