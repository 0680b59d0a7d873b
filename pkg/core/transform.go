package core

import (
	"errors"
	"math"
)

// ErrSingularTransform is returned when inverting a transform with zero determinant
var ErrSingularTransform = errors.New("transform is not invertible")

// Transform is a 4x4 affine matrix in row-major order.
// Points are column vectors: p' = M * p.
type Transform struct {
	M [4][4]float64
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{M: [4][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Translate returns a translation by offset
func Translate(offset Vec3) Transform {
	t := Identity()
	t.M[0][3] = offset.X
	t.M[1][3] = offset.Y
	t.M[2][3] = offset.Z
	return t
}

// Scale returns a (possibly non-uniform) scale
func Scale(s Vec3) Transform {
	t := Identity()
	t.M[0][0] = s.X
	t.M[1][1] = s.Y
	t.M[2][2] = s.Z
	return t
}

// RotateX returns a rotation about the X axis by angle radians
func RotateX(angle float64) Transform {
	s, c := math.Sincos(angle)
	t := Identity()
	t.M[1][1], t.M[1][2] = c, -s
	t.M[2][1], t.M[2][2] = s, c
	return t
}

// RotateY returns a rotation about the Y axis by angle radians
func RotateY(angle float64) Transform {
	s, c := math.Sincos(angle)
	t := Identity()
	t.M[0][0], t.M[0][2] = c, s
	t.M[2][0], t.M[2][2] = -s, c
	return t
}

// RotateZ returns a rotation about the Z axis by angle radians
func RotateZ(angle float64) Transform {
	s, c := math.Sincos(angle)
	t := Identity()
	t.M[0][0], t.M[0][1] = c, -s
	t.M[1][0], t.M[1][1] = s, c
	return t
}

// Mul returns t * other, which applies other first and then t
func (t Transform) Mul(other Transform) Transform {
	var r Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += t.M[i][k] * other.M[k][j]
			}
			r.M[i][j] = sum
		}
	}
	return r
}

// Transpose returns the transposed matrix
func (t Transform) Transpose() Transform {
	var r Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.M[i][j] = t.M[j][i]
		}
	}
	return r
}

// Inverse returns the inverse matrix using Gauss-Jordan elimination with partial pivoting
func (t Transform) Inverse() (Transform, error) {
	a := t.M
	inv := Identity().M

	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Transform{}, ErrSingularTransform
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		scale := 1.0 / a[col][col]
		for j := 0; j < 4; j++ {
			a[col][j] *= scale
			inv[col][j] *= scale
		}

		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			factor := a[row][col]
			if factor == 0 {
				continue
			}
			for j := 0; j < 4; j++ {
				a[row][j] -= factor * a[col][j]
				inv[row][j] -= factor * inv[col][j]
			}
		}
	}

	return Transform{M: inv}, nil
}

// ApplyPoint transforms a point (w = 1)
func (t Transform) ApplyPoint(p Vec3) Vec3 {
	m := &t.M
	return Vec3{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// ApplyVector transforms a direction (w = 0), ignoring translation
func (t Transform) ApplyVector(v Vec3) Vec3 {
	m := &t.M
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// ApplyNormal transforms a surface normal given the inverse of the transform
// that moved the surface: n' = (M^-1)^T * n. The result is not renormalized.
func ApplyNormal(inverse Transform, n Vec3) Vec3 {
	m := &inverse.M
	return Vec3{
		X: m[0][0]*n.X + m[1][0]*n.Y + m[2][0]*n.Z,
		Y: m[0][1]*n.X + m[1][1]*n.Y + m[2][1]*n.Z,
		Z: m[0][2]*n.X + m[1][2]*n.Y + m[2][2]*n.Z,
	}
}

// ApplyRay transforms a ray's origin as a point and its direction as a vector.
// The direction is not renormalized, so hit distances t are preserved.
func (t Transform) ApplyRay(r Ray) Ray {
	return Ray{Origin: t.ApplyPoint(r.Origin), Direction: t.ApplyVector(r.Direction)}
}
