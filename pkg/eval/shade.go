package eval

import (
	"math"

	"github.com/chazu/marching/pkg/config"
	"github.com/chazu/marching/pkg/graph"
	"github.com/chazu/marching/pkg/sdf"
	"github.com/deadsy/sdfx/vec/v3"
)

// Shader colors rays against a compiled field using the scene's lights,
// fog and gamma. Custom lighting bodies are GLSL and cannot run here, so
// custom materials fall back to their diffuse color.
type Shader struct {
	field  *Field
	scene  *graph.Scene
	march  config.March
	lights []graph.Light
}

// NewShader prepares a Shader for s.
func NewShader(f *Field, s *graph.Scene, march config.March) *Shader {
	return &Shader{field: f, scene: s, march: march, lights: s.EffectiveLights()}
}

// Color traces one ray and returns its linear or gamma corrected color.
func (sh *Shader) Color(ro, rd v3.Vec) v3.Vec {
	color := sh.scene.Background
	hit := sh.field.Trace(ro, rd, sh.march)
	if !hit.Missed() {
		pos := ro.Add(rd.MulScalar(hit.T))
		nor := sh.field.Normal(pos, sh.march)
		color = sh.lighting(pos, nor, rd, hit.Material)

		if fog := sh.scene.Fog; fog.Intensity > 0 {
			t := hit.T
			color = mixVec(color, fog.Color, 1-math.Exp(-fog.Intensity*t*t*t))
		}
	}
	if g := sh.scene.Gamma; g > 0 {
		color = v3.Vec{X: math.Pow(color.X, 1/g), Y: math.Pow(color.Y, 1/g), Z: math.Pow(color.Z, 1/g)}
	}
	return color
}

func (sh *Shader) lighting(pos, nor, rd v3.Vec, id int) v3.Vec {
	mats := sh.field.Materials()
	if id < 0 || id >= len(mats) {
		return sh.scene.Background
	}
	m := mats[id]
	switch m.Mode {
	case graph.ModeNormal:
		return nor.MulScalar(0.5).AddScalar(0.5)
	case graph.ModePhong:
		return sh.phong(pos, nor, rd, m)
	default:
		return m.Diffuse
	}
}

func (sh *Shader) phong(pos, nor, rd v3.Vec, m graph.Material) v3.Vec {
	fresnel := m.Fresnel.Bias + m.Fresnel.Scale*math.Pow(math.Max(1+rd.Dot(nor), 1e-4), m.Fresnel.Power)
	color := m.Ambient
	for _, light := range sh.lights {
		toLight := light.Position.Sub(pos)
		dist := toLight.Length()
		l := toLight.DivScalar(dist)
		diffuse := math.Max(nor.Dot(l), 0)
		specular := math.Pow(math.Max(reflect(l.Neg(), nor).Dot(rd.Neg()), 0), m.Shininess)
		atten := 1 / (1 + light.Attenuation*dist*dist)
		shadow := sh.field.Shadow(pos, l, dist, sh.scene.Shadow, sh.march)

		term := m.Diffuse.MulScalar(diffuse).Add(m.Specular.MulScalar(specular + fresnel))
		color = color.Add(term.Mul(light.Color).MulScalar(atten * shadow))
	}
	return color
}

// reflect mirrors GLSL's reflect(i, n).
func reflect(i, n v3.Vec) v3.Vec {
	return i.Sub(n.MulScalar(2 * n.Dot(i)))
}

func mixVec(a, b v3.Vec, t float64) v3.Vec {
	return v3.Vec{X: sdf.Mix(a.X, b.X, t), Y: sdf.Mix(a.Y, b.Y, t), Z: sdf.Mix(a.Z, b.Z, t)}
}
