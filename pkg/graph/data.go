package graph

import (
	"github.com/chazu/marching/pkg/sdf"
	"github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// Transform places a primitive in the scene. The zero value is the identity;
// a zero Scale is read as 1.
type Transform struct {
	Translate v3.Vec  `json:"translate"`
	Rotate    v3.Vec  `json:"rotate"` // Euler degrees, applied X then Y then Z
	Scale     float64 `json:"scale,omitempty"`
}

// Resolve converts t into the world-to-local mapping used for evaluation.
func (t Transform) Resolve() sdf.Transform {
	return sdf.NewTransform(t.Translate, t.Rotate, t.Scale)
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// ShapeKind distinguishes between primitive shapes.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapePlane
	ShapeTorus
	ShapeCylinder
	ShapeCapsule
	ShapeOctahedron
	ShapeCone
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapePlane:
		return "plane"
	case ShapeTorus:
		return "torus"
	case ShapeCylinder:
		return "cylinder"
	case ShapeCapsule:
		return "capsule"
	case ShapeOctahedron:
		return "octahedron"
	case ShapeCone:
		return "cone"
	default:
		return "unknown"
	}
}

// ShapeParams is the kind-specific parameter block of a primitive.
type ShapeParams interface {
	Kind() ShapeKind
	shapeParams()
}

// SphereParams: radius.
type SphereParams struct {
	Radius float64 `json:"radius"`
}

// BoxParams: half extents along each axis.
type BoxParams struct {
	Size v3.Vec `json:"size"`
}

// PlaneParams: unit normal and offset. The surface is dot(p, Normal) = -Distance.
type PlaneParams struct {
	Normal   v3.Vec  `json:"normal"`
	Distance float64 `json:"distance"`
}

// DefaultPlane is a ground plane at y = -1.
func DefaultPlane() PlaneParams {
	return PlaneParams{Normal: v3.Vec{Y: 1}, Distance: 1}
}

// TorusParams: ring radius and tube radius, lying in the XZ plane.
type TorusParams struct {
	Major float64 `json:"major"`
	Minor float64 `json:"minor"`
}

// CylinderParams: radius and half height along Y.
type CylinderParams struct {
	Radius float64 `json:"radius"`
	Height float64 `json:"height"`
}

// CapsuleParams: segment endpoints and radius.
type CapsuleParams struct {
	A      v3.Vec  `json:"a"`
	B      v3.Vec  `json:"b"`
	Radius float64 `json:"radius"`
}

// OctahedronParams: distance from centre to each vertex.
type OctahedronParams struct {
	Size float64 `json:"size"`
}

// ConeParams: half angle at the tip in degrees and height. The tip sits at
// the origin and the base at y = -Height.
type ConeParams struct {
	Angle  float64 `json:"angle"`
	Height float64 `json:"height"`
}

func (SphereParams) Kind() ShapeKind     { return ShapeSphere }
func (BoxParams) Kind() ShapeKind        { return ShapeBox }
func (PlaneParams) Kind() ShapeKind      { return ShapePlane }
func (TorusParams) Kind() ShapeKind      { return ShapeTorus }
func (CylinderParams) Kind() ShapeKind   { return ShapeCylinder }
func (CapsuleParams) Kind() ShapeKind    { return ShapeCapsule }
func (OctahedronParams) Kind() ShapeKind { return ShapeOctahedron }
func (ConeParams) Kind() ShapeKind       { return ShapeCone }

func (SphereParams) shapeParams()     {}
func (BoxParams) shapeParams()        {}
func (PlaneParams) shapeParams()      {}
func (TorusParams) shapeParams()      {}
func (CylinderParams) shapeParams()   {}
func (CapsuleParams) shapeParams()    {}
func (OctahedronParams) shapeParams() {}
func (ConeParams) shapeParams()       {}

// PrimitiveData is the payload of a NodePrimitive.
type PrimitiveData struct {
	Params    ShapeParams `json:"params"`
	Transform Transform   `json:"transform"`
	Material  string      `json:"material,omitempty"` // empty selects "default"
}

func (PrimitiveData) nodeData() {}

// Shape returns the primitive's shape kind, or -1 when Params is unset.
func (d PrimitiveData) Shape() ShapeKind {
	if d.Params == nil {
		return -1
	}
	return d.Params.Kind()
}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

// OpKind enumerates the combination and domain operators.
type OpKind int

const (
	OpUnion OpKind = iota
	OpIntersection
	OpSubtraction
	OpRoundUnion
	OpRoundIntersection
	OpRoundDifference
	OpChamferUnion
	OpChamferIntersection
	OpChamferDifference
	OpStairsUnion
	OpStairsIntersection
	OpStairsSubtraction
	OpPipe
	OpEngrave
	OpGroove
	OpTongue
	OpOnion
	OpHalve
	OpElongate
	OpPolarRepeat
)

var opNames = [...]string{
	OpUnion:               "union",
	OpIntersection:        "intersection",
	OpSubtraction:         "subtraction",
	OpRoundUnion:          "round-union",
	OpRoundIntersection:   "round-intersection",
	OpRoundDifference:     "round-difference",
	OpChamferUnion:        "chamfer-union",
	OpChamferIntersection: "chamfer-intersection",
	OpChamferDifference:   "chamfer-difference",
	OpStairsUnion:         "stairs-union",
	OpStairsIntersection:  "stairs-intersection",
	OpStairsSubtraction:   "stairs-subtraction",
	OpPipe:                "pipe",
	OpEngrave:             "engrave",
	OpGroove:              "groove",
	OpTongue:              "tongue",
	OpOnion:               "onion",
	OpHalve:               "halve",
	OpElongate:            "elongate",
	OpPolarRepeat:         "polar-repeat",
}

func (k OpKind) String() string {
	if k < 0 || int(k) >= len(opNames) {
		return "unknown"
	}
	return opNames[k]
}

// Known reports whether k is a defined operator.
func (k OpKind) Known() bool {
	return k >= 0 && int(k) < len(opNames)
}

// ParseOpKind returns the operator with the given kebab-case name.
func ParseOpKind(name string) (OpKind, bool) {
	for i, n := range opNames {
		if n == name {
			return OpKind(i), true
		}
	}
	return -1, false
}

// Arity returns the allowed child count range. max < 0 means unbounded.
func (k OpKind) Arity() (min, max int) {
	switch {
	case k >= OpUnion && k <= OpStairsSubtraction:
		return 2, -1
	case k >= OpPipe && k <= OpTongue:
		return 2, 2
	case k >= OpOnion && k <= OpPolarRepeat:
		return 1, 1
	default:
		return 0, 0
	}
}

// OperatorData is the payload of a NodeOperator. Which fields are read
// depends on Op:
//
//	round-*, chamfer-*, pipe, engrave   Radius
//	stairs-*                            Radius, Steps
//	groove, tongue                      Radius (depth), Radius2 (width)
//	onion                               Radius (shell thickness)
//	halve                               Direction
//	elongate                            Extent
//	polar-repeat                        Count
type OperatorData struct {
	Op        OpKind        `json:"op"`
	Radius    float64       `json:"radius,omitempty"`
	Radius2   float64       `json:"radius2,omitempty"`
	Steps     int           `json:"steps,omitempty"`
	Direction sdf.HalfSpace `json:"direction,omitempty"`
	Extent    v3.Vec        `json:"extent"`
	Count     int           `json:"count,omitempty"`
}

func (OperatorData) nodeData() {}
