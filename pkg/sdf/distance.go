package sdf

// Distance is a signed distance value that may carry extra data alongside
// the distance itself. WithDist returns a copy with only the distance
// replaced, so operators can preserve the material of the winning branch.
type Distance[T any] interface {
	Dist() float64
	WithDist(d float64) T
}

// Scalar is a bare signed distance.
type Scalar float64

func (s Scalar) Dist() float64             { return float64(s) }
func (s Scalar) WithDist(d float64) Scalar { return Scalar(d) }

// Sample is a signed distance tagged with the material of the surface it
// was measured against. The material is only meaningful on the branch that
// won the last combination.
type Sample struct {
	D        float64
	Material int
}

func (s Sample) Dist() float64 { return s.D }

func (s Sample) WithDist(d float64) Sample {
	return Sample{D: d, Material: s.Material}
}

// MissMaterial is the material reported by a trace that hit nothing.
const MissMaterial = -1
