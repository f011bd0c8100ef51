package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/marching/pkg/config"
	"github.com/chazu/marching/pkg/graph"
	"github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func sphere(b *graph.Builder, r float64, mat string) graph.NodeID {
	return b.Primitive(graph.SphereParams{Radius: r}, graph.Transform{}, mat)
}

func sphereOnGround() *graph.Scene {
	b := graph.NewBuilder()
	s := sphere(b, 1, "red")
	p := b.Primitive(graph.DefaultPlane(), graph.Transform{}, "")
	return b.Scene(b.Union(s, p))
}

func mustAssemble(t *testing.T, s *graph.Scene) *Program {
	t.Helper()
	prog, err := Assemble(s, config.DefaultMarch)
	require.NoError(t, err)
	return prog
}

// ---------------------------------------------------------------------------
// Scene expression
// ---------------------------------------------------------------------------

func TestSphereOnGroundExpression(t *testing.T) {
	prog := mustAssemble(t, sphereOnGround())

	assert.Equal(t, "opU(geo0_sphere(p), geo1_plane(p))", prog.Fragments.Scene)
	assert.Contains(t, prog.Fragments.Geometries,
		"vec2 geo0_sphere(vec3 p) {\n  return vec2(sdSphere(p, 1.0), 0.0);\n}")
	assert.Contains(t, prog.Fragments.Geometries,
		"vec2 geo1_plane(vec3 p) {\n  return vec2(sdPlane(p, vec3(0.0, 1.0, 0.0), 1.0), 1.0);\n}")
	assert.Empty(t, prog.Fragments.Preface)
	assert.Contains(t, prog.Source, "  return opU(geo0_sphere(p), geo1_plane(p));")

	require.Len(t, prog.Materials, 2)
	assert.Equal(t, "red", prog.Materials[0].Name)
	assert.Equal(t, graph.DefaultMaterialName, prog.Materials[1].Name)
}

func TestAssembleIsDeterministic(t *testing.T) {
	build := func() *graph.Scene {
		b := graph.NewBuilder()
		b.Material(graph.Material{Name: "glow", Mode: graph.ModeFlat, Diffuse: v3.Vec{X: 1, Y: 0.5}})
		s := b.Primitive(graph.SphereParams{Radius: 0.5},
			graph.Transform{Translate: v3.Vec{X: 1}, Rotate: v3.Vec{Y: 30}, Scale: 1.5}, "glow")
		bx := b.Primitive(graph.BoxParams{Size: v3.Vec{X: 1, Y: 0.2, Z: 1}}, graph.Transform{}, "normal")
		r := b.Operator(graph.OperatorData{Op: graph.OpPolarRepeat, Count: 5}, s)
		return b.Scene(b.Operator(graph.OperatorData{Op: graph.OpRoundUnion, Radius: 0.2}, r, bx))
	}
	first := mustAssemble(t, build()).Source
	for i := 0; i < 5; i++ {
		require.Equal(t, first, mustAssemble(t, build()).Source)
	}
}

func TestUnionFoldsLeft(t *testing.T) {
	b := graph.NewBuilder()
	u := b.Union(sphere(b, 1, ""), sphere(b, 2, ""), sphere(b, 3, ""))
	prog := mustAssemble(t, b.Scene(u))
	assert.Equal(t, "opU(opU(geo0_sphere(p), geo1_sphere(p)), geo2_sphere(p))", prog.Fragments.Scene)
}

func TestOperatorCalls(t *testing.T) {
	tests := []struct {
		name string
		data graph.OperatorData
		want string
	}{
		{"intersection", graph.OperatorData{Op: graph.OpIntersection}, "opI(geo0_sphere(p), geo1_sphere(p))"},
		{"subtraction", graph.OperatorData{Op: graph.OpSubtraction}, "opS(geo0_sphere(p), geo1_sphere(p))"},
		{"round", graph.OperatorData{Op: graph.OpRoundUnion, Radius: 0.25}, "fOpUnionRound(geo0_sphere(p), geo1_sphere(p), 0.25)"},
		{"chamfer", graph.OperatorData{Op: graph.OpChamferDifference, Radius: 0.1}, "fOpDifferenceChamfer(geo0_sphere(p), geo1_sphere(p), 0.1)"},
		{"stairs", graph.OperatorData{Op: graph.OpStairsUnion, Radius: 0.5, Steps: 4}, "fOpUnionStairs(geo0_sphere(p), geo1_sphere(p), 0.5, 4.0)"},
		{"pipe", graph.OperatorData{Op: graph.OpPipe, Radius: 0.05}, "fOpPipe(geo0_sphere(p), geo1_sphere(p), 0.05)"},
		{"groove", graph.OperatorData{Op: graph.OpGroove, Radius: 0.1, Radius2: 0.2}, "fOpGroove(geo0_sphere(p), geo1_sphere(p), 0.1, 0.2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := graph.NewBuilder()
			root := b.Operator(tt.data, sphere(b, 1, ""), sphere(b, 0.5, ""))
			prog := mustAssemble(t, b.Scene(root))
			assert.Equal(t, tt.want, prog.Fragments.Scene)
		})
	}
}

func TestOnion(t *testing.T) {
	b := graph.NewBuilder()
	root := b.Operator(graph.OperatorData{Op: graph.OpOnion, Radius: 0.1}, sphere(b, 1, ""))
	prog := mustAssemble(t, b.Scene(root))
	assert.Equal(t, "opOnion(geo0_sphere(p), 0.1)", prog.Fragments.Scene)
}

// ---------------------------------------------------------------------------
// Preface
// ---------------------------------------------------------------------------

func TestTransformedPrimitiveUsesPointVariable(t *testing.T) {
	b := graph.NewBuilder()
	s := b.Primitive(graph.SphereParams{Radius: 1}, graph.Transform{Translate: v3.Vec{X: 1}}, "")
	prog := mustAssemble(t, b.Scene(s))

	assert.Equal(t, "  vec3 p0 = (p - vec3(1.0, 0.0, 0.0));", prog.Fragments.Preface)
	assert.Equal(t, "geo0_sphere(p0)", prog.Fragments.Scene)
}

func TestScaledPrimitive(t *testing.T) {
	b := graph.NewBuilder()
	s := b.Primitive(graph.SphereParams{Radius: 1}, graph.Transform{Scale: 2}, "")
	prog := mustAssemble(t, b.Scene(s))

	assert.Equal(t, "  vec3 p0 = (p) / 2.0;", prog.Fragments.Preface)
	assert.Contains(t, prog.Fragments.Geometries, "vec2(sdSphere(p, 1.0) * 2.0, 0.0)")
}

func TestRotatedPrimitive(t *testing.T) {
	b := graph.NewBuilder()
	s := b.Primitive(graph.BoxParams{Size: v3.Vec{X: 1, Y: 1, Z: 1}}, graph.Transform{Rotate: v3.Vec{Z: 45}}, "")
	prog := mustAssemble(t, b.Scene(s))
	assert.True(t, strings.HasPrefix(prog.Fragments.Preface, "  vec3 p0 = mat3("), prog.Fragments.Preface)
	assert.True(t, strings.HasSuffix(prog.Fragments.Preface, " * p;"), prog.Fragments.Preface)
}

func TestElongate(t *testing.T) {
	b := graph.NewBuilder()
	root := b.Operator(graph.OperatorData{Op: graph.OpElongate, Extent: v3.Vec{X: 1}}, sphere(b, 1, ""))
	prog := mustAssemble(t, b.Scene(root))

	assert.Equal(t, "  vec4 e0 = opElongate(p, vec3(1.0, 0.0, 0.0));", prog.Fragments.Preface)
	assert.Equal(t, "opAddDistance(geo0_sphere(e0.xyz), e0.w)", prog.Fragments.Scene)
}

func TestPolarRepeatOfTranslatedChild(t *testing.T) {
	b := graph.NewBuilder()
	s := b.Primitive(graph.SphereParams{Radius: 0.25}, graph.Transform{Translate: v3.Vec{X: 2}}, "")
	root := b.Operator(graph.OperatorData{Op: graph.OpPolarRepeat, Count: 6}, s)
	prog := mustAssemble(t, b.Scene(root))

	assert.Equal(t,
		"  vec4 r0 = polarRepeat(p, 6.0);\n  vec3 p0 = (r0.xyz - vec3(2.0, 0.0, 0.0));",
		prog.Fragments.Preface)
	assert.Equal(t, "geo0_sphere(p0)", prog.Fragments.Scene)
}

func TestHalveUsesChildFrame(t *testing.T) {
	b := graph.NewBuilder()
	s := b.Primitive(graph.SphereParams{Radius: 1}, graph.Transform{Translate: v3.Vec{Y: 2}}, "")
	root := b.Operator(graph.OperatorData{Op: graph.OpHalve, Direction: 1}, s)
	prog := mustAssemble(t, b.Scene(root))
	assert.Equal(t, "opHalve(geo0_sphere(p0), p0, 1)", prog.Fragments.Scene)
}

// ---------------------------------------------------------------------------
// Lighting
// ---------------------------------------------------------------------------

func TestLightingBranchPerDistinctMode(t *testing.T) {
	b := graph.NewBuilder()
	u := b.Union(sphere(b, 1, "red"), sphere(b, 1, "normal"), sphere(b, 1, "blue"))
	prog := mustAssemble(t, b.Scene(u))

	l := prog.Fragments.Lighting
	assert.Equal(t, 1, strings.Count(l, "phongLighting("))
	assert.Equal(t, 1, strings.Count(l, "normalLighting("))
	assert.NotContains(t, l, "flatLighting(")
	assert.Less(t, strings.Index(l, "mat.mode == 2"), strings.Index(l, "mat.mode == 1"),
		"modes must appear in first-use order")
	assert.Contains(t, prog.Fragments.Variables, "const Material materials[3] = Material[3](")
}

func TestCustomLighting(t *testing.T) {
	b := graph.NewBuilder()
	b.Material(graph.Material{Name: "stripes", Mode: graph.ModeCustom, Custom: "return vec3(step(0.5, fract(pos.y * 4.0)));"})
	prog := mustAssemble(t, b.Scene(sphere(b, 1, "stripes")))

	l := prog.Fragments.Lighting
	assert.Contains(t, l, "vec3 customLighting0(vec3 pos, vec3 nor, vec3 ro, vec3 rd, Material mat) {\n  return vec3(step(0.5, fract(pos.y * 4.0)));\n}")
	assert.Contains(t, l, "if (id == 0) return customLighting0(pos, nor, ro, rd, mat);")
}

func TestVariables(t *testing.T) {
	s := sphereOnGround()
	s.Background = v3.Vec{Z: 0.5}
	s.Fog = graph.Fog{Intensity: 0.125, Color: v3.Vec{Z: 0.5}}
	s.Shadow = 2
	prog := mustAssemble(t, s)

	v := prog.Fragments.Variables
	assert.Contains(t, v, "const int LIGHT_COUNT = 1;")
	assert.Contains(t, v, "Light(vec3(2.0, 2.0, 3.0), vec3(1.0, 1.0, 1.0), 0.0)")
	assert.Contains(t, v, "const vec3 bg = vec3(0.0, 0.0, 0.5);")
	assert.Contains(t, v, "const float fogIntensity = 0.125;")
	assert.Contains(t, v, "const float shadowHardness = 2.0;")
	assert.Contains(t, prog.Fragments.Postprocessing, "1.0 - exp(-fogIntensity * t.x * t.x * t.x)")
}

func TestPostprocessing(t *testing.T) {
	prog := mustAssemble(t, sphereOnGround())
	assert.Empty(t, prog.Fragments.Postprocessing)

	s := sphereOnGround()
	s.Gamma = 2
	prog = mustAssemble(t, s)
	assert.Equal(t, "  color = pow(color, vec3(0.5));", prog.Fragments.Postprocessing)
}

// ---------------------------------------------------------------------------
// Uniforms and budgets
// ---------------------------------------------------------------------------

func TestUniforms(t *testing.T) {
	prog := mustAssemble(t, sphereOnGround())

	names := make([]string, len(prog.Uniforms))
	for i, u := range prog.Uniforms {
		names[i] = u.Name
		assert.Contains(t, prog.Source, "uniform "+u.Type+" "+u.Name+";")
	}
	assert.Equal(t, []string{"time", "resolution", "camera_pos", "camera_normal"}, names)
	assert.Equal(t, []float64{0, 0, 5}, prog.Uniforms[2].Default)
	assert.Equal(t, []float64{0, 0, -1}, prog.Uniforms[3].Default)
}

func TestBudgetsInSource(t *testing.T) {
	cfg := config.DefaultMarch
	cfg.Steps = 120
	cfg.ShadowIterations = 32
	prog, err := Assemble(sphereOnGround(), cfg)
	require.NoError(t, err)

	assert.Contains(t, prog.Source, "const int MAX_STEPS = 120;")
	assert.Contains(t, prog.Source, "const float MIN_DISTANCE = 0.001;")
	assert.Contains(t, prog.Source, "const float MAX_DISTANCE = 20.0;")
	assert.Contains(t, prog.Source, "const int SHADOW_ITERATIONS = 32;")
	assert.Contains(t, prog.Source, "const float PI = 3.141592653589793;")
	assert.True(t, strings.HasPrefix(prog.Source, "#version 300 es\n"))
	assert.Contains(t, prog.Source, "col = vec4(color, 1.0);")
	assert.NotContains(t, prog.Source, "${")
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name  string
		scene func() *graph.Scene
		node  bool
		mat   string
	}{
		{"empty scene", func() *graph.Scene { return graph.NewScene(graph.New()) }, false, ""},
		{"unknown operator", func() *graph.Scene {
			b := graph.NewBuilder()
			return b.Scene(b.Operator(graph.OperatorData{Op: graph.OpKind(77)}, sphere(b, 1, ""), sphere(b, 1, "")))
		}, true, ""},
		{"missing material", func() *graph.Scene {
			b := graph.NewBuilder()
			return b.Scene(sphere(b, 1, "chartreuse"))
		}, true, "chartreuse"},
		{"custom without body", func() *graph.Scene {
			b := graph.NewBuilder()
			b.Material(graph.Material{Name: "bare", Mode: graph.ModeCustom})
			return b.Scene(sphere(b, 1, "bare"))
		}, false, "bare"},
		{"unknown mode", func() *graph.Scene {
			b := graph.NewBuilder()
			b.Material(graph.Material{Name: "odd", Mode: graph.MaterialMode(12)})
			return b.Scene(sphere(b, 1, "odd"))
		}, false, "odd"},
		{"wrong arity", func() *graph.Scene {
			b := graph.NewBuilder()
			return b.Scene(b.Operator(graph.OperatorData{Op: graph.OpPipe, Radius: 0.1}, sphere(b, 1, "")))
		}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Assemble(tt.scene(), config.DefaultMarch)
			require.Error(t, err)
			assert.Nil(t, prog)
			assert.True(t, errors.Is(err, ErrAssembly), "got %v", err)

			var ae *AssemblyError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tt.node, !ae.Node.IsZero(), "node: %v", ae)
			assert.Equal(t, tt.mat, ae.Material)
			assert.NotEmpty(t, ae.Findings)
		})
	}
}

func TestAssembleCycle(t *testing.T) {
	g := graph.New()
	a := graph.NewNodeID("union/a")
	c := graph.NewNodeID("union/c")
	g.AddNode(&graph.Node{ID: a, Kind: graph.NodeOperator, Children: []graph.NodeID{c, c}, Data: graph.OperatorData{Op: graph.OpUnion}})
	g.AddNode(&graph.Node{ID: c, Kind: graph.NodeOperator, Children: []graph.NodeID{a, a}, Data: graph.OperatorData{Op: graph.OpUnion}})
	g.SetRoot(a)

	_, err := Assemble(graph.NewScene(g), config.DefaultMarch)
	require.ErrorIs(t, err, ErrAssembly)
	assert.Contains(t, err.Error(), "cycle")
}

func TestAssembleRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultMarch
	cfg.Steps = 0
	_, err := Assemble(sphereOnGround(), cfg)
	assert.ErrorIs(t, err, config.ErrConfig)
	assert.False(t, errors.Is(err, ErrAssembly))

	cfg = config.DefaultMarch
	cfg.MinDistance = cfg.MaxDistance
	_, err = Assemble(sphereOnGround(), cfg)
	assert.ErrorIs(t, err, config.ErrConfig)
}
