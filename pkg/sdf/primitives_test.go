package sdf

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
)

func TestPrimitives(t *testing.T) {
	unit := v3.Vec{X: 1, Y: 1, Z: 1}
	up := v3.Vec{Y: 1}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"sphere surface", Sphere(v3.Vec{Z: 1}, 1), 0},
		{"sphere centre", Sphere(v3.Vec{}, 1), -1},
		{"sphere outside", Sphere(v3.Vec{X: 3, Y: 4}, 1), 4},
		{"box face", Box(v3.Vec{X: 2}, unit), 1},
		{"box edge", Box(v3.Vec{X: 2, Y: 2}, unit), math.Sqrt2},
		{"box inside", Box(v3.Vec{}, unit), -1},
		{"plane ground", Plane(v3.Vec{Y: -1}, up, 1), 0},
		{"plane origin", Plane(v3.Vec{}, up, 1), 1},
		{"torus tube", Torus(v3.Vec{X: 1}, 1, 0.25), -0.25},
		{"torus hole", Torus(v3.Vec{}, 1, 0.25), 0.75},
		{"cylinder inside", Cylinder(v3.Vec{}, 1, 1), -1},
		{"cylinder above", Cylinder(v3.Vec{Y: 3}, 1, 1), 2},
		{"capsule side", Capsule(v3.Vec{X: 1, Y: 1}, v3.Vec{}, v3.Vec{Y: 2}, 0.5), 0.5},
		{"capsule degenerate", Capsule(v3.Vec{X: 2}, v3.Vec{}, v3.Vec{}, 0.5), 1.5},
		{"octahedron vertex", Octahedron(v3.Vec{X: 1}, 1), 0},
		{"octahedron centre", Octahedron(v3.Vec{}, 1), -0.57735027},
		{"cone below base", Cone(v3.Vec{Y: -2}, math.Pi/4, 1), 1},
		{"cone above tip", Cone(v3.Vec{Y: 1}, math.Pi/4, 1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.got, 1e-9)
		})
	}
}

func TestConeInsideIsNegative(t *testing.T) {
	assert.Less(t, Cone(v3.Vec{Y: -0.5}, math.Pi/4, 1), 0.0)
}
