package engine

import (
	"fmt"

	"github.com/chazu/marching/pkg/graph"
	"github.com/chazu/marching/pkg/sdf"
	"github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// sceneState is what the builtins of one evaluation write into.
type sceneState struct {
	b     *graph.Builder
	scene *graph.Scene
}

func newSceneState() *sceneState {
	return &sceneState{b: graph.NewBuilder()}
}

// node places v in the graph if needed and returns its ID.
func (st *sceneState) node(v zygo.Sexp) (graph.NodeID, error) {
	switch x := v.(type) {
	case *sexpNodeRef:
		return x.id, nil
	case *sexpShape:
		if x.id.IsZero() {
			x.id = st.b.Primitive(x.params, x.tr, x.material)
			st.b.Name(x.id, x.name)
		}
		return x.id, nil
	}
	return "", fmt.Errorf("expected shape or operator, got %T (%s)", v, v.SexpString(nil))
}

// nodes resolves every argument to a node, flattening lists.
func (st *sceneState) nodes(args []zygo.Sexp) ([]graph.NodeID, error) {
	var ids []graph.NodeID
	for _, a := range args {
		if isList(a) {
			items, err := sexpListToSlice(a)
			if err != nil {
				return nil, err
			}
			sub, err := st.nodes(items)
			if err != nil {
				return nil, err
			}
			ids = append(ids, sub...)
			continue
		}
		id, err := st.node(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Shapes
// ---------------------------------------------------------------------------

// shapeBuiltin describes one primitive constructor. params lists the
// parameters that may also be given positionally, in order.
type shapeBuiltin struct {
	name   string
	params []string
	build  func(a kwArgs) (graph.ShapeParams, error)
}

var shapeBuiltins = []shapeBuiltin{
	{"sphere", []string{"radius"}, func(a kwArgs) (graph.ShapeParams, error) {
		r, err := a.float("radius", 1)
		return graph.SphereParams{Radius: r}, err
	}},
	{"box", []string{"size"}, func(a kwArgs) (graph.ShapeParams, error) {
		s, err := a.vec("size", v3.Vec{X: 1, Y: 1, Z: 1})
		return graph.BoxParams{Size: s}, err
	}},
	{"plane", []string{"normal", "distance"}, func(a kwArgs) (graph.ShapeParams, error) {
		def := graph.DefaultPlane()
		n, err := a.vec("normal", def.Normal)
		if err != nil {
			return nil, err
		}
		d, err := a.float("distance", def.Distance)
		return graph.PlaneParams{Normal: n, Distance: d}, err
	}},
	{"torus", []string{"major", "minor"}, func(a kwArgs) (graph.ShapeParams, error) {
		major, err := a.float("major", 1)
		if err != nil {
			return nil, err
		}
		minor, err := a.float("minor", 0.25)
		return graph.TorusParams{Major: major, Minor: minor}, err
	}},
	{"cylinder", []string{"radius", "height"}, func(a kwArgs) (graph.ShapeParams, error) {
		r, err := a.float("radius", 0.5)
		if err != nil {
			return nil, err
		}
		h, err := a.float("height", 1)
		return graph.CylinderParams{Radius: r, Height: h}, err
	}},
	{"capsule", []string{"a", "b", "radius"}, func(a kwArgs) (graph.ShapeParams, error) {
		pa, err := a.vec("a", v3.Vec{Y: -0.5})
		if err != nil {
			return nil, err
		}
		pb, err := a.vec("b", v3.Vec{Y: 0.5})
		if err != nil {
			return nil, err
		}
		r, err := a.float("radius", 0.25)
		return graph.CapsuleParams{A: pa, B: pb, Radius: r}, err
	}},
	{"octahedron", []string{"size"}, func(a kwArgs) (graph.ShapeParams, error) {
		s, err := a.float("size", 1)
		return graph.OctahedronParams{Size: s}, err
	}},
	{"cone", []string{"angle", "height"}, func(a kwArgs) (graph.ShapeParams, error) {
		ang, err := a.float("angle", 30)
		if err != nil {
			return nil, err
		}
		h, err := a.float("height", 1)
		return graph.ConeParams{Angle: ang, Height: h}, err
	}},
}

// shapeOptions reads the keywords every shape accepts.
func shapeOptions(a kwArgs, s *sexpShape) error {
	var err error
	if s.tr.Translate, err = a.vec("at", v3.Vec{}); err != nil {
		return err
	}
	if s.tr.Rotate, err = a.vec("rotate", v3.Vec{}); err != nil {
		return err
	}
	if s.tr.Scale, err = a.float("scale", 0); err != nil {
		return err
	}
	if s.material, err = a.name("material"); err != nil {
		return err
	}
	s.name, err = a.name("name")
	return err
}

func registerShapes(env *zygo.Zlisp) {
	for _, sb := range shapeBuiltins {
		env.AddFunction(sb.name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			a := parseArgs(sb.name, args)
			if err := a.bind(sb.params...); err != nil {
				return zygo.SexpNull, err
			}
			params, err := sb.build(a)
			if err != nil {
				return zygo.SexpNull, err
			}
			s := &sexpShape{params: params}
			if err := shapeOptions(a, s); err != nil {
				return zygo.SexpNull, err
			}
			return s, nil
		})
	}
}

// toShape extracts an unplaced shape for the transform builtins.
func toShape(fn string, v zygo.Sexp) (*sexpShape, error) {
	s, ok := v.(*sexpShape)
	if !ok {
		return nil, fmt.Errorf("%s: expected a shape, got %T (%s); operators take :at on their shapes", fn, v, v.SexpString(nil))
	}
	return s.moved(), nil
}

// registerTransforms installs (translate v shape), (rotate v shape) and
// (scale s shape). Each returns a new shape; the original is unchanged.
func registerTransforms(env *zygo.Zlisp) {
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires an offset and a shape")
		}
		off, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: offset: %w", err)
		}
		s, err := toShape("translate", args[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		s.tr.Translate = s.tr.Translate.Add(off)
		return s, nil
	})

	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rotate requires angles in degrees and a shape")
		}
		deg, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: angles: %w", err)
		}
		s, err := toShape("rotate", args[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		s.tr.Rotate = s.tr.Rotate.Add(deg)
		return s, nil
	})

	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("scale requires a factor and a shape")
		}
		f, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: factor: %w", err)
		}
		s, err := toShape("scale", args[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		if s.tr.Scale == 0 {
			s.tr.Scale = 1
		}
		s.tr.Scale *= f
		return s, nil
	})
}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

// defaultStairs is the step count used when a stairs operator gives none.
const defaultStairs = 4

func parseHalfSpace(name string) (sdf.HalfSpace, bool) {
	for h := sdf.KeepBelow; h.Valid(); h++ {
		if h.String() == name {
			return h, true
		}
	}
	return 0, false
}

func (st *sceneState) operator(op graph.OpKind, args []zygo.Sexp) (zygo.Sexp, error) {
	fn := op.String()
	a := parseArgs(fn, args)
	data := graph.OperatorData{Op: op}

	var err error
	if data.Radius, err = a.float("radius", 0); err != nil {
		return zygo.SexpNull, err
	}
	if data.Radius2, err = a.float("radius2", 0); err != nil {
		return zygo.SexpNull, err
	}
	steps := 0
	if op >= graph.OpStairsUnion && op <= graph.OpStairsSubtraction {
		steps = defaultStairs
	}
	if data.Steps, err = a.int("steps", steps); err != nil {
		return zygo.SexpNull, err
	}
	if data.Extent, err = a.vec("extent", v3.Vec{}); err != nil {
		return zygo.SexpNull, err
	}
	if data.Count, err = a.int("count", 0); err != nil {
		return zygo.SexpNull, err
	}
	dir, err := a.name("direction")
	if err != nil {
		return zygo.SexpNull, err
	}
	if dir != "" {
		h, ok := parseHalfSpace(dir)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("%s: direction: %q is not one of below, above, left, right", fn, dir)
		}
		data.Direction = h
	}
	label, err := a.name("name")
	if err != nil {
		return zygo.SexpNull, err
	}

	children, err := st.nodes(a.positional)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	if len(children) == 0 {
		return zygo.SexpNull, fmt.Errorf("%s: needs at least one shape", fn)
	}

	id := st.b.Operator(data, children...)
	st.b.Name(id, label)
	return &sexpNodeRef{id: id, op: op, name: label}, nil
}

func registerOperators(env *zygo.Zlisp, st *sceneState) {
	for op := graph.OpUnion; op.Known(); op++ {
		env.AddFunction(builtinName(op.String()), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			return st.operator(op, args)
		})
	}
}

// ---------------------------------------------------------------------------
// Shading
// ---------------------------------------------------------------------------

// registerShading installs (material ...) and (light ...).
func registerShading(env *zygo.Zlisp, st *sceneState) {
	// (material "glow" :base :red :mode :flat :diffuse (vec3 1 0.5 0)
	//           :ambient v :specular v :shininess n :fresnel (vec3 bias scale power)
	//           :texture n :custom "return mat.diffuse;")
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a := parseArgs("material", args)
		if len(a.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("material requires exactly one name")
		}
		matName, err := toKeywordString(a.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: name: %w", err)
		}
		m, err := buildMaterial(a, matName)
		if err != nil {
			return zygo.SexpNull, err
		}
		st.b.Material(m)
		return &zygo.SexpStr{S: matName}, nil
	})

	// (light :at (vec3 2 2 3) :color (vec3 1 1 1) :attenuation 0.05)
	env.AddFunction("light", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a := parseArgs("light", args)
		if len(a.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("light takes keyword arguments only")
		}
		l := graph.DefaultLight
		var err error
		if l.Position, err = a.vec("at", l.Position); err != nil {
			return zygo.SexpNull, err
		}
		if l.Color, err = a.vec("color", l.Color); err != nil {
			return zygo.SexpNull, err
		}
		if l.Attenuation, err = a.float("attenuation", 0); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpLight{light: l}, nil
	})
}

func buildMaterial(a kwArgs, name string) (graph.Material, error) {
	base, err := a.name("base")
	if err != nil {
		return graph.Material{}, err
	}
	if base == "" {
		base = graph.DefaultMaterialName
	}
	m, ok := graph.Presets[base]
	if !ok {
		return graph.Material{}, fmt.Errorf("material: base: %q is not a preset", base)
	}
	m.Name = name

	if m.Ambient, err = a.vec("ambient", m.Ambient); err != nil {
		return m, err
	}
	if m.Diffuse, err = a.vec("diffuse", m.Diffuse); err != nil {
		return m, err
	}
	if m.Specular, err = a.vec("specular", m.Specular); err != nil {
		return m, err
	}
	if m.Shininess, err = a.float("shininess", m.Shininess); err != nil {
		return m, err
	}
	fr := v3.Vec{X: m.Fresnel.Bias, Y: m.Fresnel.Scale, Z: m.Fresnel.Power}
	if fr, err = a.vec("fresnel", fr); err != nil {
		return m, err
	}
	m.Fresnel = graph.Fresnel{Bias: fr.X, Scale: fr.Y, Power: fr.Z}
	if m.Texture, err = a.int("texture", m.Texture); err != nil {
		return m, err
	}
	if v, ok := a.kw["custom"]; ok {
		body, err := toString(v)
		if err != nil {
			return m, fmt.Errorf("material: custom: %w", err)
		}
		m.Custom = body
		m.Mode = graph.ModeCustom
	}

	mode, err := a.name("mode")
	if err != nil {
		return m, err
	}
	if mode != "" {
		mm, ok := graph.ParseMaterialMode(mode)
		if !ok {
			return m, fmt.Errorf("material: mode: unknown lighting mode %q", mode)
		}
		m.Mode = mm
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Scene
// ---------------------------------------------------------------------------

// registerMarch installs (march shape... :option value ...), which ends a
// script by naming the scene root. Several shapes are unioned in order.
// Light values may appear among the shapes or under :lights.
func registerMarch(env *zygo.Zlisp, st *sceneState) {
	env.AddFunction("march", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if st.scene != nil {
			return zygo.SexpNull, fmt.Errorf("march may only be called once")
		}
		a := parseArgs("march", args)

		var shapes []zygo.Sexp
		var lights []graph.Light
		for _, v := range a.positional {
			if l, ok := v.(*sexpLight); ok {
				lights = append(lights, l.light)
				continue
			}
			shapes = append(shapes, v)
		}
		if v, ok := a.kw["lights"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("march: lights: %w", err)
			}
			for _, item := range items {
				l, ok := item.(*sexpLight)
				if !ok {
					return zygo.SexpNull, fmt.Errorf("march: lights: expected light, got %T (%s)", item, item.SexpString(nil))
				}
				lights = append(lights, l.light)
			}
		}

		roots, err := st.nodes(shapes)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("march: %w", err)
		}
		var root graph.NodeID
		switch len(roots) {
		case 0:
			return zygo.SexpNull, fmt.Errorf("march requires at least one shape")
		case 1:
			root = roots[0]
		default:
			root = st.b.Union(roots...)
		}
		for _, l := range lights {
			st.b.Light(l)
		}

		s := st.b.Scene(root)
		if err := sceneOptions(a, s); err != nil {
			return zygo.SexpNull, err
		}
		st.scene = s
		return &sexpNodeRef{id: root, op: graph.OpUnion}, nil
	})
}

func sceneOptions(a kwArgs, s *graph.Scene) error {
	var err error
	if s.Background, err = a.vec("background", s.Background); err != nil {
		return err
	}
	if s.Fog.Intensity, err = a.float("fog", s.Fog.Intensity); err != nil {
		return err
	}
	if s.Fog.Color, err = a.vec("fog-color", s.Background); err != nil {
		return err
	}
	if s.Shadow, err = a.float("shadow", s.Shadow); err != nil {
		return err
	}
	if s.Camera.Position, err = a.vec("camera", s.Camera.Position); err != nil {
		return err
	}
	if s.Camera.Target, err = a.vec("target", s.Camera.Target); err != nil {
		return err
	}
	if s.Camera.FocalLength, err = a.float("focal-length", s.Camera.FocalLength); err != nil {
		return err
	}
	s.Gamma, err = a.float("gamma", s.Gamma)
	return err
}

// registerBuiltins installs the scene-script builtins into env. Source
// must go through preprocessSource first so keywords and kebab-case names
// resolve.
func registerBuiltins(env *zygo.Zlisp, st *sceneState) {
	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, arg := range args {
			f, err := toFloat64(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	registerShapes(env)
	registerTransforms(env)
	registerOperators(env, st)
	registerShading(env, st)
	registerMarch(env, st)
}
