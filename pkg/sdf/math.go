package sdf

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp returns f clamped to [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Mix linearly interpolates between a and b, like GLSL mix.
func Mix[T constraints.Float](a, b, t T) T {
	return a*(1-t) + b*t
}

// Mod is the GLSL mod: x - y*floor(x/y). The result takes the sign of y.
func Mod(x, y float64) float64 {
	return x - y*math.Floor(x/y)
}

// Sign is the GLSL sign: -1, 0 or 1.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func hypot2(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}
