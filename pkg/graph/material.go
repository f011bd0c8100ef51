package graph

import "github.com/deadsy/sdfx/vec/v3"

// MaterialMode selects the lighting algorithm a material is shaded with.
type MaterialMode int

const (
	ModeFlat   MaterialMode = iota // diffuse color only
	ModeNormal                     // surface normal mapped to RGB
	ModePhong                      // per-light diffuse + specular, shadows, fresnel
	ModeCustom                     // caller-supplied GLSL body
)

func (m MaterialMode) String() string {
	switch m {
	case ModeFlat:
		return "flat"
	case ModeNormal:
		return "normal"
	case ModePhong:
		return "phong"
	case ModeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Known reports whether m is a defined mode.
func (m MaterialMode) Known() bool {
	return m >= ModeFlat && m <= ModeCustom
}

// ParseMaterialMode returns the mode with the given name.
func ParseMaterialMode(name string) (MaterialMode, bool) {
	for m := ModeFlat; m <= ModeCustom; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return -1, false
}

// Fresnel shapes the rim term bias + scale * (1 + dot(rd, n))^power.
type Fresnel struct {
	Bias  float64 `json:"bias"`
	Scale float64 `json:"scale"`
	Power float64 `json:"power"`
}

// Material describes how a surface is shaded.
type Material struct {
	Name      string       `json:"name"`
	Mode      MaterialMode `json:"mode"`
	Ambient   v3.Vec       `json:"ambient"`
	Diffuse   v3.Vec       `json:"diffuse"`
	Specular  v3.Vec       `json:"specular"`
	Shininess float64      `json:"shininess"`
	Fresnel   Fresnel      `json:"fresnel"`
	Texture   int          `json:"texture"` // -1 for none
	// Custom is the GLSL body of a ModeCustom lighting function. It sees
	// pos, nor, ro, rd and mat and must return a vec3.
	Custom string `json:"custom,omitempty"`
}

// DefaultMaterialName is used by primitives that name no material.
const DefaultMaterialName = "default"

func phong(name string, diffuse v3.Vec) Material {
	return Material{
		Name:      name,
		Mode:      ModePhong,
		Ambient:   v3.Vec{X: 0.05, Y: 0.05, Z: 0.05},
		Diffuse:   diffuse,
		Specular:  v3.Vec{X: 1, Y: 1, Z: 1},
		Shininess: 8,
		Fresnel:   Fresnel{Bias: 0, Scale: 1, Power: 2},
		Texture:   -1,
	}
}

// Presets are the named materials available without declaring them.
var Presets = map[string]Material{
	DefaultMaterialName: phong(DefaultMaterialName, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}),
	"red":               phong("red", v3.Vec{X: 1}),
	"green":             phong("green", v3.Vec{Y: 1}),
	"blue":              phong("blue", v3.Vec{Z: 1}),
	"yellow":            phong("yellow", v3.Vec{X: 1, Y: 1}),
	"white":             phong("white", v3.Vec{X: 1, Y: 1, Z: 1}),
	"grey":              phong("grey", v3.Vec{X: 0.25, Y: 0.25, Z: 0.25}),
	"black":             phong("black", v3.Vec{}),
	"normal":            {Name: "normal", Mode: ModeNormal, Texture: -1},
}

// Light is a point light.
type Light struct {
	Position    v3.Vec  `json:"position"`
	Color       v3.Vec  `json:"color"`
	Attenuation float64 `json:"attenuation"` // 1 / (1 + a*d²)
}

// DefaultLight is used when a scene declares no lights.
var DefaultLight = Light{Position: v3.Vec{X: 2, Y: 2, Z: 3}, Color: v3.Vec{X: 1, Y: 1, Z: 1}}

// Fog blends hits toward Color with 1 - exp(-Intensity * t³).
type Fog struct {
	Intensity float64 `json:"intensity"`
	Color     v3.Vec  `json:"color"`
}

// Camera is a look-at pinhole camera.
type Camera struct {
	Position    v3.Vec  `json:"position"`
	Target      v3.Vec  `json:"target"`
	FocalLength float64 `json:"focal_length"`
}

// Forward returns the unit view direction.
func (c Camera) Forward() v3.Vec {
	d := c.Target.Sub(c.Position)
	if d.Length() == 0 {
		return v3.Vec{Z: -1}
	}
	return d.Normalize()
}
