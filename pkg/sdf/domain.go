package sdf

import (
	"math"

	"github.com/deadsy/sdfx/vec/v3"
)

// HalfSpace selects which side of a local axis Halve keeps.
type HalfSpace int

const (
	KeepBelow HalfSpace = iota // y <= 0
	KeepAbove                  // y >= 0
	KeepLeft                   // x <= 0
	KeepRight                  // x >= 0
)

func (h HalfSpace) String() string {
	switch h {
	case KeepBelow:
		return "below"
	case KeepAbove:
		return "above"
	case KeepLeft:
		return "left"
	case KeepRight:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether h is one of the four known half spaces.
func (h HalfSpace) Valid() bool {
	return h >= KeepBelow && h <= KeepRight
}

// Halve clips d to one side of the plane through p's origin.
func Halve[T Distance[T]](d T, p v3.Vec, dir HalfSpace) T {
	switch dir {
	case KeepBelow:
		return d.WithDist(math.Max(d.Dist(), p.Y))
	case KeepAbove:
		return d.WithDist(math.Max(d.Dist(), -p.Y))
	case KeepLeft:
		return d.WithDist(math.Max(d.Dist(), p.X))
	case KeepRight:
		return d.WithDist(math.Max(d.Dist(), -p.X))
	default:
		return d.WithDist(0)
	}
}

// Elongate stretches space by h along each axis. It returns the point the
// child shape should be sampled at and the leftover distance that must be
// added to the child's result. h = 0 is the identity with zero leftover.
func Elongate(p, h v3.Vec) (v3.Vec, float64) {
	q := v3.Vec{X: math.Abs(p.X) - h.X, Y: math.Abs(p.Y) - h.Y, Z: math.Abs(p.Z) - h.Z}
	w := math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
	folded := v3.Vec{
		X: Sign(p.X) * math.Max(q.X, 0),
		Y: Sign(p.Y) * math.Max(q.Y, 0),
		Z: Sign(p.Z) * math.Max(q.Z, 0),
	}
	return folded, w
}

// PolarRepeat folds p into the first of n equal sectors around the Y axis.
// The returned index lies in [-floor((n-1)/2), floor(n/2)] and every angle
// maps to exactly one index.
func PolarRepeat(p v3.Vec, n int) (v3.Vec, int) {
	if n < 1 {
		n = 1
	}
	fn := float64(n)
	angle := 2 * math.Pi / fn
	a := math.Atan2(p.Z, p.X) + angle/2
	r := hypot2(p.X, p.Z)
	c := math.Floor(a / angle)
	a = Mod(a, angle) - angle/2
	h := math.Floor((fn - 1) / 2)
	c = Mod(c+h, fn) - h
	return v3.Vec{X: math.Cos(a) * r, Y: p.Y, Z: math.Sin(a) * r}, int(c)
}
