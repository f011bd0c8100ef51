package graph

import (
	"testing"

	"github.com/deadsy/sdfx/vec/v3"
)

func TestNewNodeIDStable(t *testing.T) {
	a := NewNodeID("sphere/0")
	b := NewNodeID("sphere/0")
	c := NewNodeID("sphere/1")
	if a != b {
		t.Fatalf("same path gave %s and %s", a, b)
	}
	if a == c {
		t.Fatalf("different paths collided: %s", a)
	}
	if len(a.Short()) != 8 {
		t.Errorf("Short() = %q, want 8 chars", a.Short())
	}
	if a.IsZero() || !NodeID("").IsZero() {
		t.Error("IsZero wrong")
	}
}

func TestBuilderSphereOnGround(t *testing.T) {
	b := NewBuilder()
	s := b.Primitive(SphereParams{Radius: 1}, Transform{}, "red")
	p := b.Primitive(DefaultPlane(), Transform{}, "")
	u := b.Union(s, p)
	b.Name(s, "ball")
	scene := b.Scene(u)

	g := scene.Graph
	if g.NodeCount() != 3 {
		t.Fatalf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if g.Root != u {
		t.Fatalf("root = %s, want %s", g.Root, u)
	}
	root := g.Get(u)
	if root.Kind != NodeOperator {
		t.Fatalf("root kind = %s", root.Kind)
	}
	kids := g.Children(root)
	if len(kids) != 2 || kids[0].ID != s || kids[1].ID != p {
		t.Fatalf("children out of order: %v", root.Children)
	}
	if g.Lookup("ball") == nil || g.Lookup("ball").ID != s {
		t.Error("Lookup(ball) failed")
	}
	if g.MustLookup("ball").ID != s {
		t.Error("MustLookup(ball) returned the wrong node")
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Error("MustLookup(missing) did not panic")
			}
		}()
		g.MustLookup("missing")
	}()
	if got := len(g.Primitives()); got != 2 {
		t.Errorf("Primitives() = %d, want 2", got)
	}
	if got := len(g.Operators()); got != 1 {
		t.Errorf("Operators() = %d, want 1", got)
	}
	if scene.Shadow != DefaultShadow || scene.Camera != DefaultCamera {
		t.Error("scene defaults not applied")
	}
}

func TestBuilderDeterministicIDs(t *testing.T) {
	build := func() NodeID {
		b := NewBuilder()
		return b.Union(
			b.Primitive(SphereParams{Radius: 1}, Transform{}, ""),
			b.Primitive(BoxParams{Size: v3.Vec{X: 1, Y: 1, Z: 1}}, Transform{}, ""),
		)
	}
	if build() != build() {
		t.Fatal("same authoring sequence produced different root IDs")
	}
}

func TestBuilderMaterialRedeclare(t *testing.T) {
	b := NewBuilder()
	b.Material(Material{Name: "shiny", Mode: ModeFlat})
	b.Material(Material{Name: "shiny", Mode: ModeNormal})
	scene := b.Scene(b.Primitive(SphereParams{Radius: 1}, Transform{}, "shiny"))
	if len(scene.Materials) != 1 {
		t.Fatalf("Materials = %d, want 1", len(scene.Materials))
	}
	m, ok := scene.Material("shiny")
	if !ok || m.Mode != ModeNormal {
		t.Errorf("Material(shiny) = %+v, %v", m, ok)
	}
}

func TestSceneMaterialFallsBackToPresets(t *testing.T) {
	scene := NewScene(New())
	m, ok := scene.Material("")
	if !ok || m.Name != DefaultMaterialName {
		t.Fatalf("empty name resolved to %+v, %v", m, ok)
	}
	if _, ok := scene.Material("normal"); !ok {
		t.Error("preset normal not found")
	}
	if _, ok := scene.Material("chartreuse"); ok {
		t.Error("unknown material resolved")
	}
}

func TestEffectiveLights(t *testing.T) {
	scene := NewScene(New())
	lights := scene.EffectiveLights()
	if len(lights) != 1 || lights[0] != DefaultLight {
		t.Fatalf("EffectiveLights() = %+v", lights)
	}
	scene.Lights = []Light{{Position: v3.Vec{Y: 4}, Color: v3.Vec{X: 1}}}
	if got := scene.EffectiveLights(); len(got) != 1 || got[0].Position.Y != 4 {
		t.Errorf("declared light not used: %+v", got)
	}
}

func TestOpKindNames(t *testing.T) {
	for k := OpUnion; k <= OpPolarRepeat; k++ {
		got, ok := ParseOpKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseOpKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if OpKind(99).String() != "unknown" || OpKind(99).Known() {
		t.Error("out of range OpKind should be unknown")
	}
	if _, ok := ParseOpKind("smooth"); ok {
		t.Error("ParseOpKind accepted an unknown name")
	}
}

func TestOpKindArity(t *testing.T) {
	tests := []struct {
		op       OpKind
		min, max int
	}{
		{OpUnion, 2, -1},
		{OpStairsSubtraction, 2, -1},
		{OpPipe, 2, 2},
		{OpTongue, 2, 2},
		{OpOnion, 1, 1},
		{OpPolarRepeat, 1, 1},
		{OpKind(-1), 0, 0},
	}
	for _, tt := range tests {
		lo, hi := tt.op.Arity()
		if lo != tt.min || hi != tt.max {
			t.Errorf("%s.Arity() = (%d, %d), want (%d, %d)", tt.op, lo, hi, tt.min, tt.max)
		}
	}
}

func TestMaterialModeParse(t *testing.T) {
	for _, name := range []string{"flat", "normal", "phong", "custom"} {
		m, ok := ParseMaterialMode(name)
		if !ok || m.String() != name {
			t.Errorf("ParseMaterialMode(%q) = %v, %v", name, m, ok)
		}
	}
	if _, ok := ParseMaterialMode("toon"); ok {
		t.Error("accepted unknown mode")
	}
}

func TestCameraForward(t *testing.T) {
	f := DefaultCamera.Forward()
	if f != (v3.Vec{Z: -1}) {
		t.Errorf("Forward() = %v, want (0,0,-1)", f)
	}
}
