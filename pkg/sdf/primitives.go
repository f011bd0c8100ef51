package sdf

import (
	"math"

	"github.com/deadsy/sdfx/vec/v3"
)

// Primitive distance functions. Each one measures in the shape's local
// space, centred at the origin.

// Sphere of radius r.
func Sphere(p v3.Vec, r float64) float64 {
	return p.Length() - r
}

// Box with half extents b.
func Box(p v3.Vec, b v3.Vec) float64 {
	q := v3.Vec{X: math.Abs(p.X) - b.X, Y: math.Abs(p.Y) - b.Y, Z: math.Abs(p.Z) - b.Z}
	outside := v3.Vec{X: math.Max(q.X, 0), Y: math.Max(q.Y, 0), Z: math.Max(q.Z, 0)}
	return outside.Length() + math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
}

// Plane with unit normal n, offset d along -n from the origin.
func Plane(p v3.Vec, n v3.Vec, d float64) float64 {
	return p.Dot(n) + d
}

// Torus lying in the XZ plane with ring radius major and tube radius minor.
func Torus(p v3.Vec, major, minor float64) float64 {
	return hypot2(hypot2(p.X, p.Z)-major, p.Y) - minor
}

// Cylinder capped along Y with radius r and half height h.
func Cylinder(p v3.Vec, r, h float64) float64 {
	dx := hypot2(p.X, p.Z) - r
	dy := math.Abs(p.Y) - h
	return math.Min(math.Max(dx, dy), 0) + hypot2(math.Max(dx, 0), math.Max(dy, 0))
}

// Capsule from a to b with radius r.
func Capsule(p, a, b v3.Vec, r float64) float64 {
	pa := p.Sub(a)
	ba := b.Sub(a)
	den := ba.Dot(ba)
	if den == 0 {
		return pa.Length() - r
	}
	h := Clamp(pa.Dot(ba)/den, 0, 1)
	return pa.Sub(ba.MulScalar(h)).Length() - r
}

// Octahedron with vertices at distance s along each axis. The result is a
// bound rather than an exact distance.
func Octahedron(p v3.Vec, s float64) float64 {
	return (math.Abs(p.X) + math.Abs(p.Y) + math.Abs(p.Z) - s) * 0.57735027
}

// Cone with its tip at the origin opening downward to a base at y = -h.
// angle is the half angle at the tip in radians.
func Cone(p v3.Vec, angle, h float64) float64 {
	sn, cs := math.Sincos(angle)
	qx, qy := h*sn/cs, -h
	wx, wy := hypot2(p.X, p.Z), p.Y
	t := Clamp((wx*qx+wy*qy)/(qx*qx+qy*qy), 0, 1)
	ax, ay := wx-qx*t, wy-qy*t
	bx, by := wx-qx*Clamp(wx/qx, 0, 1), wy-qy
	k := Sign(qy)
	d := math.Min(ax*ax+ay*ay, bx*bx+by*by)
	s := math.Max(k*(wx*qy-wy*qx), k*(wy-qy))
	return math.Sqrt(d) * Sign(s)
}
