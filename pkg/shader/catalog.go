package shader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/chazu/marching/pkg/graph"
	"github.com/samber/lo"
)

// opEntry maps an operator kind to its GLSL function. Blends are written
// once over floats in operators.glsl; their vec2 overloads, which carry the
// first operand's material, are generated from this table.
type opEntry struct {
	op       graph.OpKind
	glsl     string
	operands int
	params   []string
	// handwritten entries already have vec2 forms in operators.glsl.
	handwritten bool
}

var catalog = []opEntry{
	{op: graph.OpUnion, glsl: "opU", operands: 2, handwritten: true},
	{op: graph.OpIntersection, glsl: "opI", operands: 2, handwritten: true},
	{op: graph.OpSubtraction, glsl: "opS", operands: 2, handwritten: true},
	{op: graph.OpRoundUnion, glsl: "fOpUnionRound", operands: 2, params: []string{"r"}},
	{op: graph.OpRoundIntersection, glsl: "fOpIntersectionRound", operands: 2, params: []string{"r"}},
	{op: graph.OpRoundDifference, glsl: "fOpDifferenceRound", operands: 2, params: []string{"r"}},
	{op: graph.OpChamferUnion, glsl: "fOpUnionChamfer", operands: 2, params: []string{"r"}},
	{op: graph.OpChamferIntersection, glsl: "fOpIntersectionChamfer", operands: 2, params: []string{"r"}},
	{op: graph.OpChamferDifference, glsl: "fOpDifferenceChamfer", operands: 2, params: []string{"r"}},
	{op: graph.OpStairsUnion, glsl: "fOpUnionStairs", operands: 2, params: []string{"r", "n"}},
	{op: graph.OpStairsIntersection, glsl: "fOpIntersectionStairs", operands: 2, params: []string{"r", "n"}},
	{op: graph.OpStairsSubtraction, glsl: "fOpDifferenceStairs", operands: 2, params: []string{"r", "n"}},
	{op: graph.OpPipe, glsl: "fOpPipe", operands: 2, params: []string{"r"}},
	{op: graph.OpEngrave, glsl: "fOpEngrave", operands: 2, params: []string{"r"}},
	{op: graph.OpGroove, glsl: "fOpGroove", operands: 2, params: []string{"ra", "rb"}},
	{op: graph.OpTongue, glsl: "fOpTongue", operands: 2, params: []string{"ra", "rb"}},
	{op: graph.OpOnion, glsl: "opOnion", operands: 1, params: []string{"t"}},
}

func lookupOp(k graph.OpKind) (opEntry, bool) {
	return lo.Find(catalog, func(e opEntry) bool { return e.op == k })
}

// args returns the GLSL literals for e's parameters, read from d.
func (e opEntry) args(d graph.OperatorData) []string {
	return lo.Map(e.params, func(name string, _ int) string {
		switch name {
		case "n":
			return glslFloat(float64(d.Steps))
		case "rb":
			return glslFloat(d.Radius2)
		default: // r, ra, t
			return glslFloat(d.Radius)
		}
	})
}

// call emits e applied to operand expressions.
func (e opEntry) call(d graph.OperatorData, operands ...string) string {
	return fmt.Sprintf("%s(%s)", e.glsl, strings.Join(slices.Concat(operands, e.args(d)), ", "))
}

// overloads generates the vec2 forms of every float-only catalogue entry.
func overloads() string {
	var b strings.Builder
	b.WriteString("// Material-carrying forms, generated.\n")
	for _, e := range catalog {
		if e.handwritten {
			continue
		}
		decl := lo.Map(e.params, func(p string, _ int) string { return "float " + p })
		var sig, inner []string
		var mat string
		if e.operands == 1 {
			sig = []string{"vec2 d"}
			inner = []string{"d.x"}
			mat = "d.y"
		} else {
			sig = []string{"vec2 a", "vec2 b"}
			inner = []string{"a.x", "b.x"}
			mat = "a.y"
		}
		fmt.Fprintf(&b, "vec2 %s(%s) {\n  return vec2(%s(%s), %s);\n}\n\n",
			e.glsl,
			strings.Join(append(sig, decl...), ", "),
			e.glsl,
			strings.Join(append(inner, e.params...), ", "),
			mat,
		)
	}
	return strings.TrimRight(b.String(), "\n")
}
