package sdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samplePairs spans both signs and the zero crossing.
var samplePairs = [][2]float64{
	{-2, -1}, {-1, -2}, {-0.5, 0.5}, {0, 0}, {0.25, -0.75},
	{1, 2}, {3, 0.1}, {0.001, 0.002}, {-0.3, -0.3}, {5, -5},
}

// ---------------------------------------------------------------------------
// Boolean operators
// ---------------------------------------------------------------------------

func TestBooleanOperatorsMatchMinMax(t *testing.T) {
	for _, p := range samplePairs {
		a, b := Scalar(p[0]), Scalar(p[1])
		assert.Equal(t, math.Min(p[0], p[1]), Union(a, b).Dist(), "union %v", p)
		assert.Equal(t, math.Max(p[0], p[1]), Intersection(a, b).Dist(), "intersection %v", p)
		assert.Equal(t, math.Max(p[0], -p[1]), Subtraction(a, b).Dist(), "subtraction %v", p)
	}
}

func TestUnionKeepsWinnerMaterial(t *testing.T) {
	a := Sample{D: 1, Material: 3}
	b := Sample{D: 0.5, Material: 7}
	assert.Equal(t, 7, Union(a, b).Material)
	assert.Equal(t, 7, Union(b, a).Material)
	assert.Equal(t, 3, Intersection(a, b).Material)
}

func TestTiesKeepFirstOperand(t *testing.T) {
	a := Sample{D: 1, Material: 1}
	b := Sample{D: 1, Material: 2}
	assert.Equal(t, 1, Union(a, b).Material)
	assert.Equal(t, 1, Intersection(a, b).Material)
	assert.Equal(t, 2, Union(b, a).Material)
}

func TestSubtractionKeepsMinuendMaterial(t *testing.T) {
	a := Sample{D: 0.2, Material: 1}
	b := Sample{D: -0.9, Material: 2}
	got := Subtraction(a, b)
	assert.InDelta(t, 0.9, got.D, 1e-12)
	assert.Equal(t, 1, got.Material)
}

// ---------------------------------------------------------------------------
// Blends
// ---------------------------------------------------------------------------

func TestRoundUnionConvergesToUnion(t *testing.T) {
	for _, p := range samplePairs {
		if p[0] < 0 && p[1] < 0 {
			// Inside both operands the fillet measures -sqrt(a²+b²).
			continue
		}
		want := math.Min(p[0], p[1])
		prev := math.Inf(1)
		for _, r := range []float64{0.5, 0.1, 0.01, 0.001, 0} {
			got := RoundUnion(Scalar(p[0]), Scalar(p[1]), r).Dist()
			errNow := math.Abs(got - want)
			assert.LessOrEqual(t, errNow, prev+1e-12, "pair %v r=%v", p, r)
			prev = errNow
		}
		assert.InDelta(t, 0, prev, 1e-12, "pair %v", p)
	}
}

func TestRoundUnionIsContinuous(t *testing.T) {
	const r = 0.3
	const step = 1e-4
	b := 0.2
	last := RoundUnion(Scalar(-1), Scalar(b), r).Dist()
	for a := -1 + step; a < 1; a += step {
		got := RoundUnion(Scalar(a), Scalar(b), r).Dist()
		require.InDelta(t, last, got, 2*step, "jump at a=%v", a)
		last = got
	}
}

func TestRoundUnionFillsSeam(t *testing.T) {
	// Both surfaces at distance 0.1 with a 0.3 fillet: the blend is inside.
	got := RoundUnion(Scalar(0.1), Scalar(0.1), 0.3).Dist()
	assert.Less(t, got, 0.1)
}

func TestStairsWithOneStepMatchesRoundUnion(t *testing.T) {
	for _, p := range samplePairs {
		for _, r := range []float64{0.05, 0.25, 1} {
			want := RoundUnion(Scalar(p[0]), Scalar(p[1]), r).Dist()
			got := StairsUnion(Scalar(p[0]), Scalar(p[1]), r, 1).Dist()
			assert.InDelta(t, want, got, 1e-12, "pair %v r=%v", p, r)
		}
	}
}

func TestStairsNeverExceedsUnion(t *testing.T) {
	for _, p := range samplePairs {
		got := StairsUnion(Scalar(p[0]), Scalar(p[1]), 0.5, 4).Dist()
		assert.LessOrEqual(t, got, math.Min(p[0], p[1])+1e-12, "pair %v", p)
	}
}

func TestStairsZeroRadiusIsUnion(t *testing.T) {
	assert.Equal(t, 0.25, StairsUnion(Scalar(0.25), Scalar(0.5), 0, 4).Dist())
}

func TestStairsIntersectionMirrorsUnion(t *testing.T) {
	for _, p := range samplePairs {
		u := StairsUnion(Scalar(-p[0]), Scalar(-p[1]), 0.4, 3).Dist()
		i := StairsIntersection(Scalar(p[0]), Scalar(p[1]), 0.4, 3).Dist()
		assert.InDelta(t, -u, i, 1e-12)
	}
}

func TestChamferUnionBevels(t *testing.T) {
	got := ChamferUnion(Scalar(0.1), Scalar(0.1), 0.5).Dist()
	assert.InDelta(t, (0.1-0.5+0.1)*sqrtHalf, got, 1e-12)
	assert.Equal(t, -1.0, ChamferUnion(Scalar(-1), Scalar(2), 0.1).Dist())
}

func TestBlendsKeepFirstMaterial(t *testing.T) {
	a := Sample{D: 0.4, Material: 1}
	b := Sample{D: 0.1, Material: 2}
	for name, got := range map[string]Sample{
		"round":    RoundUnion(a, b, 0.2),
		"chamfer":  ChamferUnion(a, b, 0.2),
		"stairs":   StairsUnion(a, b, 0.2, 3),
		"pipe":     Pipe(a, b, 0.1),
		"engrave":  Engrave(a, b, 0.1),
		"groove":   Groove(a, b, 0.1, 0.05),
		"tongue":   Tongue(a, b, 0.1, 0.05),
		"rounddif": RoundDifference(a, b, 0.2),
	} {
		assert.Equal(t, 1, got.Material, name)
	}
}

// ---------------------------------------------------------------------------
// Seam operators
// ---------------------------------------------------------------------------

func TestPipe(t *testing.T) {
	assert.InDelta(t, 5-0.5, Pipe(Scalar(3), Scalar(4), 0.5).Dist(), 1e-12)
}

func TestEngraveCutsOnlyNearSeam(t *testing.T) {
	// Far from b the engraving leaves a untouched.
	assert.Equal(t, -0.5, Engrave(Scalar(-0.5), Scalar(3), 0.1).Dist())
	// On b's surface the cut lifts the interior distance.
	assert.Greater(t, Engrave(Scalar(-0.05), Scalar(0), 0.2).Dist(), -0.05)
}

func TestGrooveAndTongue(t *testing.T) {
	assert.Equal(t, -0.5, Groove(Scalar(-0.5), Scalar(1), 0.1, 0.2).Dist())
	assert.InDelta(t, -0.4, Groove(Scalar(-0.5), Scalar(0), 0.1, 0.2).Dist(), 1e-12)
	assert.Equal(t, 0.5, Tongue(Scalar(0.5), Scalar(1), 0.1, 0.2).Dist())
	assert.InDelta(t, 0.4, Tongue(Scalar(0.5), Scalar(0), 0.1, 0.2).Dist(), 1e-12)
}

func TestOnion(t *testing.T) {
	for _, d := range []float64{-3, -0.2, 0, 0.2, 3} {
		for _, th := range []float64{0, 0.05, 1} {
			got := Onion(Sample{D: d, Material: 4}, th)
			assert.Equal(t, math.Abs(d)-th, got.D)
			assert.Equal(t, 4, got.Material)
		}
	}
}
