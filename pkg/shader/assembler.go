package shader

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/marching/pkg/config"
	"github.com/chazu/marching/pkg/graph"
	"github.com/chazu/marching/pkg/sdf"
	"github.com/deadsy/sdfx/vec/v3"
)

// Uniform describes one shader uniform and the value a render loop should
// upload before the first frame.
type Uniform struct {
	Name    string
	Type    string
	Default []float64
}

// DefaultResolution is the resolution uniform's initial value.
var DefaultResolution = [2]float64{640, 480}

// Fragments are the scene-specific pieces merged into the template.
type Fragments struct {
	Uniforms       string // uniform declarations
	Variables      string // material table, lights, background, fog, shadow, focal length
	Geometries     string // one distance function per primitive
	Lighting       string // custom lighting bodies and the dispatcher
	Preface        string // point variables computed at the top of scene()
	Scene          string // the scene expression
	Postprocessing string // fog and gamma
}

// Program is a compiled scene.
type Program struct {
	Source    string
	Uniforms  []Uniform
	Fragments Fragments
	// Materials is the material table; a hit's material ID indexes it.
	Materials []graph.Material
}

// Assemble compiles s with the default template.
func Assemble(s *graph.Scene, cfg config.March) (*Program, error) {
	return DefaultTemplate().Assemble(s, cfg)
}

// Assemble validates s and cfg, generates the scene fragments and renders
// them into t. Nothing is returned on failure.
func (t *Template) Assemble(s *graph.Scene, cfg config.March) (*Program, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if res := graph.ValidateAll(s); !res.OK() {
		return nil, fromValidation(res.Errors)
	}

	a := newAssembler(s)
	expr, _, err := a.walk(s.Graph.Root, "p")
	if err != nil {
		return nil, err
	}
	lighting, err := a.lighting()
	if err != nil {
		return nil, err
	}

	uniforms := a.uniforms()
	frags := Fragments{
		Uniforms:       declareUniforms(uniforms),
		Variables:      a.variables(),
		Geometries:     strings.Join(a.geometries, "\n\n"),
		Lighting:       lighting,
		Preface:        strings.Join(a.preface, "\n"),
		Scene:          expr,
		Postprocessing: a.postprocessing(),
	}
	src, err := t.Render(frags, cfg)
	if err != nil {
		return nil, err
	}
	return &Program{
		Source:    src,
		Uniforms:  uniforms,
		Fragments: frags,
		Materials: a.materials,
	}, nil
}

// assembler carries the state of one walk over the scene tree. Emission
// order follows a depth-first walk of children in authored order.
type assembler struct {
	scene      *graph.Scene
	geometries []string
	preface    []string
	materials  []graph.Material
	matIndex   map[string]int

	prims, points, elongs, polars int
}

func newAssembler(s *graph.Scene) *assembler {
	return &assembler{scene: s, matIndex: make(map[string]int)}
}

// walk emits node id evaluated at the GLSL point expression point. It
// returns the node's distance expression and the point its own local frame
// is measured in.
func (a *assembler) walk(id graph.NodeID, point string) (expr, local string, err error) {
	n := a.scene.Graph.Get(id)
	if n == nil {
		return "", "", &AssemblyError{Node: id, Reason: "node does not exist"}
	}

	switch d := n.Data.(type) {
	case graph.PrimitiveData:
		return a.primitive(n, d, point)
	case graph.OperatorData:
		expr, err := a.operator(n, d, point)
		return expr, point, err
	default:
		return "", "", &AssemblyError{Node: id, Reason: fmt.Sprintf("unexpected node data %T", d)}
	}
}

func (a *assembler) primitive(n *graph.Node, d graph.PrimitiveData, point string) (string, string, error) {
	matID, err := a.material(n.ID, d.Material)
	if err != nil {
		return "", "", err
	}
	call, err := shapeCall(d.Params)
	if err != nil {
		return "", "", &AssemblyError{Node: n.ID, Reason: err.Error()}
	}

	tr := d.Transform.Resolve()
	dist := call
	if tr.Scale != 1 {
		dist = fmt.Sprintf("%s * %s", call, glslFloat(tr.Scale))
	}
	name := fmt.Sprintf("geo%d_%s", a.prims, d.Params.Kind())
	a.prims++
	a.geometries = append(a.geometries, fmt.Sprintf(
		"vec2 %s(vec3 p) {\n  return vec2(%s, %s);\n}", name, dist, glslFloat(float64(matID))))

	local := point
	if !tr.IsIdentity() {
		local = fmt.Sprintf("p%d", a.points)
		a.points++
		a.preface = append(a.preface, fmt.Sprintf("  vec3 %s = %s;", local, localPoint(point, tr)))
	}
	return fmt.Sprintf("%s(%s)", name, local), local, nil
}

// localPoint maps point into a primitive's frame, skipping identity parts.
func localPoint(point string, tr sdf.Transform) string {
	e := point
	if tr.Translation != (v3.Vec{}) {
		e = fmt.Sprintf("(%s - %s)", e, glslVec3(tr.Translation))
	}
	if tr.Rotated() {
		e = fmt.Sprintf("%s * %s", glslMat3(tr.Rotation), e)
	}
	if tr.Scale != 1 {
		e = fmt.Sprintf("(%s) / %s", e, glslFloat(tr.Scale))
	}
	return e
}

func shapeCall(params graph.ShapeParams) (string, error) {
	switch p := params.(type) {
	case graph.SphereParams:
		return fmt.Sprintf("sdSphere(p, %s)", glslFloat(p.Radius)), nil
	case graph.BoxParams:
		return fmt.Sprintf("sdBox(p, %s)", glslVec3(p.Size)), nil
	case graph.PlaneParams:
		return fmt.Sprintf("sdPlane(p, %s, %s)", glslVec3(p.Normal.Normalize()), glslFloat(p.Distance)), nil
	case graph.TorusParams:
		return fmt.Sprintf("sdTorus(p, %s)", glslVec2(p.Major, p.Minor)), nil
	case graph.CylinderParams:
		return fmt.Sprintf("sdCylinder(p, %s)", glslVec2(p.Radius, p.Height)), nil
	case graph.CapsuleParams:
		return fmt.Sprintf("sdCapsule(p, %s, %s, %s)", glslVec3(p.A), glslVec3(p.B), glslFloat(p.Radius)), nil
	case graph.OctahedronParams:
		return fmt.Sprintf("sdOctahedron(p, %s)", glslFloat(p.Size)), nil
	case graph.ConeParams:
		sn, cs := math.Sincos(p.Angle * math.Pi / 180)
		return fmt.Sprintf("sdCone(p, %s, %s)", glslVec2(sn, cs), glslFloat(p.Height)), nil
	default:
		return "", fmt.Errorf("unknown shape %T", params)
	}
}

func (a *assembler) operator(n *graph.Node, d graph.OperatorData, point string) (string, error) {
	fail := func(format string, args ...any) (string, error) {
		return "", &AssemblyError{Node: n.ID, Reason: fmt.Sprintf(format, args...)}
	}
	if len(n.Children) == 0 {
		return fail("%s has no children", d.Op)
	}

	switch d.Op {
	case graph.OpHalve:
		child, local, err := a.walk(n.Children[0], point)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("opHalve(%s, %s, %d)", child, local, int(d.Direction)), nil

	case graph.OpElongate:
		v := fmt.Sprintf("e%d", a.elongs)
		a.elongs++
		a.preface = append(a.preface, fmt.Sprintf("  vec4 %s = opElongate(%s, %s);", v, point, glslVec3(d.Extent)))
		child, _, err := a.walk(n.Children[0], v+".xyz")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("opAddDistance(%s, %s.w)", child, v), nil

	case graph.OpPolarRepeat:
		v := fmt.Sprintf("r%d", a.polars)
		a.polars++
		a.preface = append(a.preface, fmt.Sprintf("  vec4 %s = polarRepeat(%s, %s);", v, point, glslFloat(float64(d.Count))))
		child, _, err := a.walk(n.Children[0], v+".xyz")
		return child, err
	}

	entry, ok := lookupOp(d.Op)
	if !ok {
		return fail("unknown operator %s", d.Op)
	}

	exprs := make([]string, 0, len(n.Children))
	for _, cid := range n.Children {
		e, _, err := a.walk(cid, point)
		if err != nil {
			return "", err
		}
		exprs = append(exprs, e)
	}

	if entry.operands == 1 {
		return entry.call(d, exprs[0]), nil
	}
	if len(exprs) < 2 {
		return fail("%s needs two operands", d.Op)
	}
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = entry.call(d, acc, e)
	}
	return acc, nil
}

func (a *assembler) uniforms() []Uniform {
	cam := a.scene.Camera
	fwd := cam.Forward()
	return []Uniform{
		{Name: "time", Type: "float", Default: []float64{0}},
		{Name: "resolution", Type: "vec2", Default: DefaultResolution[:]},
		{Name: "camera_pos", Type: "vec3", Default: []float64{cam.Position.X, cam.Position.Y, cam.Position.Z}},
		{Name: "camera_normal", Type: "vec3", Default: []float64{fwd.X, fwd.Y, fwd.Z}},
	}
}

func declareUniforms(us []Uniform) string {
	lines := make([]string, len(us))
	for i, u := range us {
		lines[i] = fmt.Sprintf("uniform %s %s;", u.Type, u.Name)
	}
	return strings.Join(lines, "\n")
}

func (a *assembler) postprocessing() string {
	var lines []string
	if fog := a.scene.Fog; fog.Intensity > 0 {
		lines = append(lines,
			"  if (t.x > -0.5) {",
			"    color = mix(color, fogColor, 1.0 - exp(-fogIntensity * t.x * t.x * t.x));",
			"  }")
	}
	if g := a.scene.Gamma; g > 0 {
		lines = append(lines, fmt.Sprintf("  color = pow(color, vec3(%s));", glslFloat(1/g)))
	}
	return strings.Join(lines, "\n")
}
