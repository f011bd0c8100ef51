// Package eval executes a scene graph on the CPU. The compiled Field has
// the same tree shape, operator formulas and material numbering as the
// shader produced by package shader, so tracing and shading can be checked
// without a GPU.
package eval

import (
	"fmt"

	"github.com/chazu/marching/pkg/config"
	"github.com/chazu/marching/pkg/graph"
	"github.com/chazu/marching/pkg/sdf"
	sdfx "github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v3"
)

// Field is a compiled scene distance function.
type Field struct {
	fn        sdf.Field
	materials []graph.Material
	bound     float64
}

var _ sdfx.SDF3 = (*Field)(nil)

// Compile validates s and builds its distance function.
func Compile(s *graph.Scene) (*Field, error) {
	if res := graph.ValidateAll(s); !res.OK() {
		return nil, fmt.Errorf("eval: %w", res.Errors[0])
	}
	c := &compiler{scene: s, matIndex: make(map[string]int)}
	root, err := c.node(s.Graph.Root)
	if err != nil {
		return nil, err
	}
	return &Field{fn: root.sample, materials: c.materials, bound: config.DefaultMarch.MaxDistance}, nil
}

// Sample evaluates the scene at p.
func (f *Field) Sample(p v3.Vec) sdf.Sample {
	return f.fn(p)
}

// Func exposes the field as a plain function for the tracer.
func (f *Field) Func() sdf.Field {
	return f.fn
}

// Materials returns the material table indexed by Sample.Material.
func (f *Field) Materials() []graph.Material {
	return f.materials
}

// Evaluate implements sdfx's SDF3.
func (f *Field) Evaluate(p v3.Vec) float64 {
	return f.fn(p).D
}

// BoundingBox implements sdfx's SDF3. Scenes may hold unbounded shapes such
// as planes, so the box is the region a default trace can reach.
func (f *Field) BoundingBox() sdfx.Box3 {
	b := f.bound
	return sdfx.Box3{Min: v3.Vec{X: -b, Y: -b, Z: -b}, Max: v3.Vec{X: b, Y: b, Z: b}}
}

// Trace sphere-traces the field with the budget in cfg.
func (f *Field) Trace(ro, rd v3.Vec, cfg config.March) sdf.Hit {
	return sdf.Trace(f.fn, ro, rd, cfg.Trace())
}

// Normal estimates the surface normal at p.
func (f *Field) Normal(p v3.Vec, cfg config.March) v3.Vec {
	return sdf.Normal(f.fn, p, cfg.NormalEpsilon)
}

// Shadow returns the light fraction reaching p from a light along l at
// distance dist.
func (f *Field) Shadow(p, l v3.Vec, dist, k float64, cfg config.March) float64 {
	return sdf.SoftShadow(f.fn, p, l, shadowStart, dist, k, cfg.ShadowIterations)
}

// shadowStart matches the offset used by the shader's phong mode.
const shadowStart = 0.02
