package sdf

import "math"

const sqrtHalf = 0.7071067811865476

// ---------------------------------------------------------------------------
// Boolean operators
// ---------------------------------------------------------------------------

// Union returns the nearer of a and b. On a tie a wins.
func Union[T Distance[T]](a, b T) T {
	if b.Dist() < a.Dist() {
		return b
	}
	return a
}

// Intersection returns the farther of a and b. On a tie a wins.
func Intersection[T Distance[T]](a, b T) T {
	if b.Dist() > a.Dist() {
		return b
	}
	return a
}

// Subtraction carves b out of a. The result always carries a's data.
func Subtraction[T Distance[T]](a, b T) T {
	return a.WithDist(math.Max(a.Dist(), -b.Dist()))
}

// ---------------------------------------------------------------------------
// Blends. All of these keep a's data.
// ---------------------------------------------------------------------------

// RoundUnion joins a and b with a quarter-circle fillet of radius r.
func RoundUnion[T Distance[T]](a, b T, r float64) T {
	return a.WithDist(roundUnion(a.Dist(), b.Dist(), r))
}

// RoundIntersection intersects a and b with a rounded seam of radius r.
func RoundIntersection[T Distance[T]](a, b T, r float64) T {
	return a.WithDist(roundIntersection(a.Dist(), b.Dist(), r))
}

// RoundDifference carves b out of a with a rounded seam of radius r.
func RoundDifference[T Distance[T]](a, b T, r float64) T {
	return a.WithDist(roundIntersection(a.Dist(), -b.Dist(), r))
}

// ChamferUnion joins a and b with a 45 degree bevel of size r.
func ChamferUnion[T Distance[T]](a, b T, r float64) T {
	return a.WithDist(chamferUnion(a.Dist(), b.Dist(), r))
}

// ChamferIntersection intersects a and b with a 45 degree bevel.
func ChamferIntersection[T Distance[T]](a, b T, r float64) T {
	return a.WithDist(chamferIntersection(a.Dist(), b.Dist(), r))
}

// ChamferDifference carves b out of a with a 45 degree bevel.
func ChamferDifference[T Distance[T]](a, b T, r float64) T {
	return a.WithDist(chamferIntersection(a.Dist(), -b.Dist(), r))
}

// StairsUnion joins a and b with n terraces spread over radius r.
// With a single terrace it is the rounded union.
func StairsUnion[T Distance[T]](a, b T, r, n float64) T {
	return a.WithDist(stairsUnion(a.Dist(), b.Dist(), r, n))
}

// StairsIntersection is the terraced intersection.
func StairsIntersection[T Distance[T]](a, b T, r, n float64) T {
	return a.WithDist(-stairsUnion(-a.Dist(), -b.Dist(), r, n))
}

// StairsSubtraction carves b out of a with terraces.
func StairsSubtraction[T Distance[T]](a, b T, r, n float64) T {
	return a.WithDist(-stairsUnion(-a.Dist(), b.Dist(), r, n))
}

// ---------------------------------------------------------------------------
// Seam operators
// ---------------------------------------------------------------------------

// Pipe produces a tube of radius r along the seam where a and b meet.
func Pipe[T Distance[T]](a, b T, r float64) T {
	return a.WithDist(hypot2(a.Dist(), b.Dist()) - r)
}

// Engrave cuts a V-shaped groove of depth r into a along b's surface.
func Engrave[T Distance[T]](a, b T, r float64) T {
	da, db := a.Dist(), b.Dist()
	return a.WithDist(math.Max(da, (da+r-math.Abs(db))*sqrtHalf))
}

// Groove cuts a channel of depth ra and width rb into a along b.
func Groove[T Distance[T]](a, b T, ra, rb float64) T {
	da, db := a.Dist(), b.Dist()
	return a.WithDist(math.Max(da, math.Min(da+ra, rb-math.Abs(db))))
}

// Tongue raises a ridge of height ra and width rb out of a along b.
func Tongue[T Distance[T]](a, b T, ra, rb float64) T {
	da, db := a.Dist(), b.Dist()
	return a.WithDist(math.Min(da, math.Max(da-ra, math.Abs(db)-rb)))
}

// Onion hollows d into a shell of thickness t.
func Onion[T Distance[T]](d T, t float64) T {
	return d.WithDist(math.Abs(d.Dist()) - t)
}

// ---------------------------------------------------------------------------
// Float kernels
// ---------------------------------------------------------------------------

func roundUnion(a, b, r float64) float64 {
	return math.Max(r, math.Min(a, b)) - hypot2(math.Max(r-a, 0), math.Max(r-b, 0))
}

func roundIntersection(a, b, r float64) float64 {
	return math.Min(-r, math.Max(a, b)) + hypot2(math.Max(r+a, 0), math.Max(r+b, 0))
}

func chamferUnion(a, b, r float64) float64 {
	return math.Min(math.Min(a, b), (a-r+b)*sqrtHalf)
}

func chamferIntersection(a, b, r float64) float64 {
	return math.Max(math.Max(a, b), (a+r+b)*sqrtHalf)
}

func stairsUnion(a, b, r, n float64) float64 {
	if r <= 0 {
		return math.Min(a, b)
	}
	if n <= 1 {
		return roundUnion(a, b, r)
	}
	s := r / n
	u := b - r
	return math.Min(math.Min(a, b), 0.5*(u+a+math.Abs(Mod(u-a+s, 2*s)-s)))
}
