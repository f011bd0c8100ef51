package graph

import "github.com/deadsy/sdfx/vec/v3"

// Default scene parameters.
const (
	DefaultShadow      = 8.0
	DefaultFocalLength = 2.0
)

// DefaultCamera looks down -Z from five units away.
var DefaultCamera = Camera{
	Position:    v3.Vec{Z: 5},
	Target:      v3.Vec{},
	FocalLength: DefaultFocalLength,
}

// Scene is the top-level input of the compiler: the geometry graph plus
// everything needed to shade it.
type Scene struct {
	Graph      *Graph     `json:"graph"`
	Materials  []Material `json:"materials,omitempty"` // declared materials, looked up before Presets
	Lights     []Light    `json:"lights,omitempty"`
	Background v3.Vec     `json:"background"`
	Fog        Fog        `json:"fog"`
	Shadow     float64    `json:"shadow"` // penumbra hardness; 0 disables shadows
	Camera     Camera     `json:"camera"`
	Gamma      float64    `json:"gamma,omitempty"` // 0 leaves colors linear
}

// NewScene wraps g with default shading parameters.
func NewScene(g *Graph) *Scene {
	return &Scene{
		Graph:  g,
		Shadow: DefaultShadow,
		Camera: DefaultCamera,
	}
}

// Material resolves a material name against the scene's declarations and
// then the presets. The empty name resolves to the default material.
func (s *Scene) Material(name string) (Material, bool) {
	if name == "" {
		name = DefaultMaterialName
	}
	for _, m := range s.Materials {
		if m.Name == name {
			return m, true
		}
	}
	m, ok := Presets[name]
	return m, ok
}

// EffectiveLights returns the scene's lights, or the default light when
// none are declared.
func (s *Scene) EffectiveLights() []Light {
	if len(s.Lights) == 0 {
		return []Light{DefaultLight}
	}
	return s.Lights
}
