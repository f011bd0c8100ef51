package sdf

import (
	"math"

	"github.com/deadsy/sdfx/vec/v3"
)

// Field evaluates a scene at a point.
type Field func(p v3.Vec) Sample

// MarchConfig bounds a single sphere trace.
type MarchConfig struct {
	Steps       int     // maximum iterations
	MinDistance float64 // surface threshold
	MaxDistance float64 // give up beyond this ray length
}

// Hit is the outcome of a trace. A miss has T = -1 and Material = -1.
type Hit struct {
	T        float64
	Material int
}

// Miss is the sentinel returned when a ray escapes or runs out of steps.
var Miss = Hit{T: -1, Material: MissMaterial}

// Missed reports whether h is the miss sentinel.
func (h Hit) Missed() bool {
	return h.T < 0
}

// Trace sphere-traces f from ro along the unit direction rd. A hit is only
// reported when the sampled distance falls below MinDistance; running out
// of steps while still approaching is a miss.
func Trace(f Field, ro, rd v3.Vec, cfg MarchConfig) Hit {
	t := 0.0
	for i := 0; i < cfg.Steps; i++ {
		s := f(ro.Add(rd.MulScalar(t)))
		if s.D < cfg.MinDistance {
			return Hit{T: t, Material: s.Material}
		}
		t += s.D
		if t > cfg.MaxDistance {
			break
		}
	}
	return Miss
}

// Normal estimates the surface normal at p from four samples on a
// tetrahedron of radius eps.
func Normal(f Field, p v3.Vec, eps float64) v3.Vec {
	k := [4]v3.Vec{
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: -1, Z: 1},
		{X: -1, Y: 1, Z: -1},
		{X: 1, Y: 1, Z: 1},
	}
	var n v3.Vec
	for _, v := range k {
		n = n.Add(v.MulScalar(f(p.Add(v.MulScalar(eps))).D))
	}
	if n.Length() == 0 {
		return v3.Vec{Y: 1}
	}
	return n.Normalize()
}

// Shadow step clamps and the hard stop threshold.
const (
	shadowMinStep = 0.02
	shadowMaxStep = 0.10
	shadowStop    = 0.001
)

// SoftShadow marches from ro toward a light along rd and returns the
// fraction of light reaching ro in [0, 1]. k controls penumbra hardness;
// k <= 0 disables shadowing.
func SoftShadow(f Field, ro, rd v3.Vec, mint, tmax, k float64, iterations int) float64 {
	if k <= 0 {
		return 1
	}
	res := 1.0
	t := mint
	for i := 0; i < iterations; i++ {
		h := f(ro.Add(rd.MulScalar(t))).D
		if t > 0 {
			res = math.Min(res, k*h/t)
		}
		t += Clamp(h, shadowMinStep, shadowMaxStep)
		if h < shadowStop || t > tmax {
			break
		}
	}
	return Clamp(res, 0, 1)
}
