package sdf

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v3"
)

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

// Identity3 is the 3x3 identity matrix.
var Identity3 = Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// MulVec returns m * v.
func (m Mat3) MulVec(v v3.Vec) v3.Vec {
	return v3.Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Column returns column i of m.
func (m Mat3) Column(i int) v3.Vec {
	return v3.Vec{X: m[0][i], Y: m[1][i], Z: m[2][i]}
}

// Transform maps world space into a shape's local space: translate, then
// rotate, then scale uniformly. Distances measured in local space must be
// multiplied by Scale to get back to world units.
type Transform struct {
	Translation v3.Vec
	Rotation    Mat3 // world to local
	Scale       float64
}

// NewTransform builds a Transform from a translation, Euler angles in
// degrees applied X then Y then Z, and a uniform scale. A zero scale is
// treated as 1.
func NewTransform(translate, rotateDeg v3.Vec, scale float64) Transform {
	if scale == 0 {
		scale = 1
	}
	t := Transform{Translation: translate, Rotation: Identity3, Scale: scale}
	if rotateDeg != (v3.Vec{}) {
		// Rotation is orthonormal, so world to local is its transpose:
		// row i of the inverse is column i of the forward matrix.
		fwd := sdf.RotateZ(sdf.DtoR(rotateDeg.Z)).
			Mul(sdf.RotateY(sdf.DtoR(rotateDeg.Y))).
			Mul(sdf.RotateX(sdf.DtoR(rotateDeg.X)))
		for i, axis := range []v3.Vec{{X: 1}, {Y: 1}, {Z: 1}} {
			c := fwd.MulPosition(axis)
			t.Rotation[i] = [3]float64{c.X, c.Y, c.Z}
		}
	}
	return t
}

// IsIdentity reports whether t leaves points unchanged.
func (t Transform) IsIdentity() bool {
	return t.Translation == (v3.Vec{}) && t.Rotation == Identity3 && t.Scale == 1
}

// Rotated reports whether t carries a rotation.
func (t Transform) Rotated() bool {
	return t.Rotation != Identity3
}

// Point maps a world-space point into local space.
func (t Transform) Point(p v3.Vec) v3.Vec {
	return t.Rotation.MulVec(p.Sub(t.Translation)).DivScalar(t.Scale)
}
