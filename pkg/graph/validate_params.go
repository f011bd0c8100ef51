package graph

import (
	"fmt"
	"math"
	"strings"

	"github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Tier 2: parameter validation
// ---------------------------------------------------------------------------

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finiteVec(vs ...v3.Vec) bool {
	for _, v := range vs {
		if !finite(v.X, v.Y, v.Z) {
			return false
		}
	}
	return true
}

// validateParams checks shape dimensions, transforms and operator
// parameters.
func validateParams(g *Graph) []ValidationError {
	var errs []ValidationError
	bad := func(id NodeID, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   id,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, id := range g.SortedIDs() {
		switch d := g.Nodes[id].Data.(type) {
		case PrimitiveData:
			tr := d.Transform
			if !finiteVec(tr.Translate, tr.Rotate) || !finite(tr.Scale) {
				bad(id, "transform is not finite")
			}
			if tr.Scale < 0 {
				bad(id, "scale is %.4f, must not be negative", tr.Scale)
			}
			validateShape(id, d.Params, bad)

		case OperatorData:
			if !finite(d.Radius, d.Radius2) || !finiteVec(d.Extent) {
				bad(id, "%s parameters are not finite", d.Op)
				continue
			}
			switch d.Op {
			case OpRoundUnion, OpRoundIntersection, OpRoundDifference,
				OpChamferUnion, OpChamferIntersection, OpChamferDifference,
				OpPipe, OpEngrave, OpOnion:
				if d.Radius < 0 {
					bad(id, "%s radius is %.4f, must not be negative", d.Op, d.Radius)
				}
			case OpStairsUnion, OpStairsIntersection, OpStairsSubtraction:
				if d.Radius < 0 {
					bad(id, "%s radius is %.4f, must not be negative", d.Op, d.Radius)
				}
				if d.Steps < 1 {
					bad(id, "%s step count is %d, must be at least 1", d.Op, d.Steps)
				}
			case OpGroove, OpTongue:
				if d.Radius < 0 || d.Radius2 < 0 {
					bad(id, "%s depth and width must not be negative", d.Op)
				}
			case OpHalve:
				if !d.Direction.Valid() {
					bad(id, "halve direction %d is not one of 0..3", int(d.Direction))
				}
			case OpElongate:
				if d.Extent.X < 0 || d.Extent.Y < 0 || d.Extent.Z < 0 {
					bad(id, "elongate extent must not be negative")
				}
			case OpPolarRepeat:
				if d.Count < 1 {
					bad(id, "polar-repeat count is %d, must be at least 1", d.Count)
				}
			}
		}
	}
	return errs
}

func validateShape(id NodeID, params ShapeParams, bad func(NodeID, string, ...any)) {
	positive := func(what string, v float64) {
		if !finite(v) || v <= 0 {
			bad(id, "%s is %.4f, must be positive", what, v)
		}
	}

	switch p := params.(type) {
	case SphereParams:
		positive("sphere radius", p.Radius)
	case BoxParams:
		positive("box size X", p.Size.X)
		positive("box size Y", p.Size.Y)
		positive("box size Z", p.Size.Z)
	case PlaneParams:
		if !finiteVec(p.Normal) || !finite(p.Distance) {
			bad(id, "plane is not finite")
		} else if p.Normal.Length() == 0 {
			bad(id, "plane normal must not be zero")
		}
	case TorusParams:
		positive("torus major radius", p.Major)
		positive("torus minor radius", p.Minor)
	case CylinderParams:
		positive("cylinder radius", p.Radius)
		positive("cylinder height", p.Height)
	case CapsuleParams:
		if !finiteVec(p.A, p.B) {
			bad(id, "capsule endpoints are not finite")
		}
		positive("capsule radius", p.Radius)
	case OctahedronParams:
		positive("octahedron size", p.Size)
	case ConeParams:
		if !finite(p.Angle) || p.Angle <= 0 || p.Angle >= 90 {
			bad(id, "cone angle is %.4f, must be in (0, 90) degrees", p.Angle)
		}
		positive("cone height", p.Height)
	}
}

// ---------------------------------------------------------------------------
// Tier 3: materials, lights and scene parameters
// ---------------------------------------------------------------------------

// validateShading checks that every material used by a reachable primitive
// resolves and can be lit, and that scene-wide parameters are sane.
func validateShading(s *Scene) []ValidationError {
	var errs []ValidationError

	declared := make(map[string]bool)
	for _, m := range s.Materials {
		if declared[m.Name] {
			errs = append(errs, ValidationError{
				Material: m.Name,
				Message:  "material declared more than once",
				Severity: SeverityError,
			})
		}
		declared[m.Name] = true
		errs = append(errs, validateMaterial(m)...)
	}

	for _, id := range s.Graph.SortedIDs() {
		d, ok := s.Graph.Nodes[id].Data.(PrimitiveData)
		if !ok {
			continue
		}
		if _, ok := s.Material(d.Material); !ok {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Material: d.Material,
				Message:  fmt.Sprintf("material %q is not declared and is not a preset", d.Material),
				Severity: SeverityError,
			})
		}
	}

	for i, l := range s.Lights {
		if !finiteVec(l.Position, l.Color) || !finite(l.Attenuation) {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("light %d is not finite", i),
				Severity: SeverityError,
			})
		}
		if l.Attenuation < 0 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("light %d attenuation is %.4f, must not be negative", i, l.Attenuation),
				Severity: SeverityError,
			})
		}
	}

	sceneErr := func(format string, args ...any) {
		errs = append(errs, ValidationError{Message: fmt.Sprintf(format, args...), Severity: SeverityError})
	}
	if !finite(s.Shadow, s.Gamma, s.Fog.Intensity, s.Camera.FocalLength) ||
		!finiteVec(s.Background, s.Fog.Color, s.Camera.Position, s.Camera.Target) {
		sceneErr("scene parameters are not finite")
	}
	if s.Shadow < 0 {
		sceneErr("shadow hardness is %.4f, must not be negative", s.Shadow)
	}
	if s.Fog.Intensity < 0 {
		sceneErr("fog intensity is %.4f, must not be negative", s.Fog.Intensity)
	}
	if s.Gamma < 0 {
		sceneErr("gamma is %.4f, must not be negative", s.Gamma)
	}
	if s.Camera.FocalLength <= 0 {
		sceneErr("camera focal length is %.4f, must be positive", s.Camera.FocalLength)
	}
	if s.Camera.Position == s.Camera.Target {
		sceneErr("camera position and target coincide")
	}
	if len(s.Lights) == 0 {
		errs = append(errs, ValidationError{
			Message:  "scene declares no lights, using the default light",
			Severity: SeverityWarning,
		})
	}
	return errs
}

func validateMaterial(m Material) []ValidationError {
	var errs []ValidationError
	bad := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			Material: m.Name,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	if m.Name == "" {
		bad("material has no name")
	}
	if !m.Mode.Known() {
		bad("unknown lighting mode %d has no lighting branch", int(m.Mode))
	}
	if m.Mode == ModeCustom && strings.TrimSpace(m.Custom) == "" {
		bad("custom lighting mode has no body")
	}
	if !finiteVec(m.Ambient, m.Diffuse, m.Specular) ||
		!finite(m.Shininess, m.Fresnel.Bias, m.Fresnel.Scale, m.Fresnel.Power) {
		bad("material parameters are not finite")
	}
	if m.Shininess < 0 {
		bad("shininess is %.4f, must not be negative", m.Shininess)
	}
	return errs
}
