package eval

import (
	"fmt"
	"math"

	"github.com/chazu/marching/pkg/graph"
	"github.com/chazu/marching/pkg/sdf"
	"github.com/deadsy/sdfx/vec/v3"
)

// compiled is one node of the closure tree. local maps an incoming point
// into the frame the node itself is measured in.
type compiled struct {
	sample sdf.Field
	local  func(p v3.Vec) v3.Vec
}

func identity(p v3.Vec) v3.Vec { return p }

// compiler numbers materials in the same depth-first first-use order as
// the shader assembler.
type compiler struct {
	scene     *graph.Scene
	materials []graph.Material
	matIndex  map[string]int
}

func (c *compiler) node(id graph.NodeID) (compiled, error) {
	n := c.scene.Graph.Get(id)
	if n == nil {
		return compiled{}, fmt.Errorf("eval: node %s does not exist", id.Short())
	}
	switch d := n.Data.(type) {
	case graph.PrimitiveData:
		return c.primitive(n, d)
	case graph.OperatorData:
		return c.operator(n, d)
	default:
		return compiled{}, fmt.Errorf("eval: node %s: unexpected data %T", id.Short(), d)
	}
}

func (c *compiler) material(name string) (int, error) {
	if name == "" {
		name = graph.DefaultMaterialName
	}
	if i, ok := c.matIndex[name]; ok {
		return i, nil
	}
	m, ok := c.scene.Material(name)
	if !ok {
		return 0, fmt.Errorf("eval: material %q not found", name)
	}
	c.materials = append(c.materials, m)
	c.matIndex[name] = len(c.materials) - 1
	return len(c.materials) - 1, nil
}

func (c *compiler) primitive(n *graph.Node, d graph.PrimitiveData) (compiled, error) {
	mat, err := c.material(d.Material)
	if err != nil {
		return compiled{}, err
	}
	shape, err := shapeFunc(d.Params)
	if err != nil {
		return compiled{}, fmt.Errorf("eval: node %s: %w", n.ID.Short(), err)
	}

	tr := d.Transform.Resolve()
	local := identity
	if !tr.IsIdentity() {
		local = tr.Point
	}
	scale := tr.Scale
	return compiled{
		sample: func(p v3.Vec) sdf.Sample {
			return sdf.Sample{D: shape(local(p)) * scale, Material: mat}
		},
		local: local,
	}, nil
}

func shapeFunc(params graph.ShapeParams) (func(v3.Vec) float64, error) {
	switch p := params.(type) {
	case graph.SphereParams:
		return func(q v3.Vec) float64 { return sdf.Sphere(q, p.Radius) }, nil
	case graph.BoxParams:
		return func(q v3.Vec) float64 { return sdf.Box(q, p.Size) }, nil
	case graph.PlaneParams:
		n := p.Normal.Normalize()
		return func(q v3.Vec) float64 { return sdf.Plane(q, n, p.Distance) }, nil
	case graph.TorusParams:
		return func(q v3.Vec) float64 { return sdf.Torus(q, p.Major, p.Minor) }, nil
	case graph.CylinderParams:
		return func(q v3.Vec) float64 { return sdf.Cylinder(q, p.Radius, p.Height) }, nil
	case graph.CapsuleParams:
		return func(q v3.Vec) float64 { return sdf.Capsule(q, p.A, p.B, p.Radius) }, nil
	case graph.OctahedronParams:
		return func(q v3.Vec) float64 { return sdf.Octahedron(q, p.Size) }, nil
	case graph.ConeParams:
		angle := p.Angle * math.Pi / 180
		return func(q v3.Vec) float64 { return sdf.Cone(q, angle, p.Height) }, nil
	default:
		return nil, fmt.Errorf("unknown shape %T", params)
	}
}

// binary returns the two-operand combinator for d, or false for unary and
// domain operators.
func binary(d graph.OperatorData) (func(a, b sdf.Sample) sdf.Sample, bool) {
	r, r2, n := d.Radius, d.Radius2, float64(d.Steps)
	switch d.Op {
	case graph.OpUnion:
		return sdf.Union[sdf.Sample], true
	case graph.OpIntersection:
		return sdf.Intersection[sdf.Sample], true
	case graph.OpSubtraction:
		return sdf.Subtraction[sdf.Sample], true
	case graph.OpRoundUnion:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.RoundUnion(a, b, r) }, true
	case graph.OpRoundIntersection:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.RoundIntersection(a, b, r) }, true
	case graph.OpRoundDifference:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.RoundDifference(a, b, r) }, true
	case graph.OpChamferUnion:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.ChamferUnion(a, b, r) }, true
	case graph.OpChamferIntersection:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.ChamferIntersection(a, b, r) }, true
	case graph.OpChamferDifference:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.ChamferDifference(a, b, r) }, true
	case graph.OpStairsUnion:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.StairsUnion(a, b, r, n) }, true
	case graph.OpStairsIntersection:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.StairsIntersection(a, b, r, n) }, true
	case graph.OpStairsSubtraction:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.StairsSubtraction(a, b, r, n) }, true
	case graph.OpPipe:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.Pipe(a, b, r) }, true
	case graph.OpEngrave:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.Engrave(a, b, r) }, true
	case graph.OpGroove:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.Groove(a, b, r, r2) }, true
	case graph.OpTongue:
		return func(a, b sdf.Sample) sdf.Sample { return sdf.Tongue(a, b, r, r2) }, true
	default:
		return nil, false
	}
}

func (c *compiler) operator(n *graph.Node, d graph.OperatorData) (compiled, error) {
	kids := make([]compiled, 0, len(n.Children))
	for _, cid := range n.Children {
		k, err := c.node(cid)
		if err != nil {
			return compiled{}, err
		}
		kids = append(kids, k)
	}
	if len(kids) == 0 {
		return compiled{}, fmt.Errorf("eval: node %s: %s has no children", n.ID.Short(), d.Op)
	}
	child := kids[0]

	switch d.Op {
	case graph.OpOnion:
		t := d.Radius
		return compiled{local: identity, sample: func(p v3.Vec) sdf.Sample {
			return sdf.Onion(child.sample(p), t)
		}}, nil

	case graph.OpHalve:
		dir := d.Direction
		return compiled{local: identity, sample: func(p v3.Vec) sdf.Sample {
			return sdf.Halve(child.sample(p), child.local(p), dir)
		}}, nil

	case graph.OpElongate:
		h := d.Extent
		return compiled{local: identity, sample: func(p v3.Vec) sdf.Sample {
			q, w := sdf.Elongate(p, h)
			s := child.sample(q)
			return s.WithDist(s.D + w)
		}}, nil

	case graph.OpPolarRepeat:
		count := d.Count
		return compiled{local: identity, sample: func(p v3.Vec) sdf.Sample {
			q, _ := sdf.PolarRepeat(p, count)
			return child.sample(q)
		}}, nil
	}

	op, ok := binary(d)
	if !ok {
		return compiled{}, fmt.Errorf("eval: node %s: unknown operator %s", n.ID.Short(), d.Op)
	}
	if len(kids) < 2 {
		return compiled{}, fmt.Errorf("eval: node %s: %s needs two operands", n.ID.Short(), d.Op)
	}
	return compiled{local: identity, sample: func(p v3.Vec) sdf.Sample {
		acc := kids[0].sample(p)
		for _, k := range kids[1:] {
			acc = op(acc, k.sample(p))
		}
		return acc
	}}, nil
}
