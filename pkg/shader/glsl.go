package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/marching/pkg/sdf"
	"github.com/deadsy/sdfx/vec/v3"
)

// glslFloat formats f as a GLSL float literal. The shortest round-trip
// representation keeps output stable across runs.
func glslFloat(f float64) string {
	if f == 0 {
		return "0.0"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func glslVec2(x, y float64) string {
	return fmt.Sprintf("vec2(%s, %s)", glslFloat(x), glslFloat(y))
}

func glslVec3(v v3.Vec) string {
	return fmt.Sprintf("vec3(%s, %s, %s)", glslFloat(v.X), glslFloat(v.Y), glslFloat(v.Z))
}

// glslMat3 emits m as a GLSL mat3, which is column-major.
func glslMat3(m sdf.Mat3) string {
	parts := make([]string, 0, 9)
	for c := 0; c < 3; c++ {
		col := m.Column(c)
		parts = append(parts, glslFloat(col.X), glslFloat(col.Y), glslFloat(col.Z))
	}
	return "mat3(" + strings.Join(parts, ", ") + ")"
}
