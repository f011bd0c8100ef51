package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/marching/pkg/graph"
	"github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Script values
// ---------------------------------------------------------------------------

// sexpVec3 is the value of (vec3 x y z).
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpShape is a primitive that has not been placed in the graph yet.
// It becomes a node the first time an operator or march consumes it, and
// later uses share that node.
type sexpShape struct {
	params   graph.ShapeParams
	tr       graph.Transform
	material string
	name     string
	id       graph.NodeID
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(%s %q)", s.params.Kind(), s.name)
	}
	return fmt.Sprintf("(%s)", s.params.Kind())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// moved returns an unplaced copy of s so a transform never alters a
// node that is already in the graph.
func (s *sexpShape) moved() *sexpShape {
	c := *s
	c.id = ""
	return &c
}

// sexpNodeRef is an operator node already in the graph.
type sexpNodeRef struct {
	id   graph.NodeID
	op   graph.OpKind
	name string
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(%s %q)", n.op, n.name)
	}
	return fmt.Sprintf("(%s %s)", n.op, n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpLight is the value of (light ...).
type sexpLight struct {
	light graph.Light
}

func (l *sexpLight) SexpString(ps *zygo.PrintState) string {
	p := l.light.Position
	return fmt.Sprintf("(light :at (vec3 %g %g %g))", p.X, p.Y, p.Z)
}
func (l *sexpLight) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs splits a builtin's arguments into keyword and positional values.
type kwArgs struct {
	fn         string
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(fn string, args []zygo.Sexp) kwArgs {
	result := kwArgs{fn: fn, kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i++
			} else {
				result.kw[name] = zygo.SexpNull
			}
			continue
		}
		result.positional = append(result.positional, args[i])
	}
	return result
}

// bind assigns leading positional arguments to the named parameters,
// unless the same parameter was also given as a keyword.
func (a kwArgs) bind(names ...string) error {
	if len(a.positional) > len(names) {
		return fmt.Errorf("%s: takes at most %d positional arguments, got %d", a.fn, len(names), len(a.positional))
	}
	for i, v := range a.positional {
		if _, dup := a.kw[names[i]]; dup {
			return fmt.Errorf("%s: %s given both positionally and as :%s", a.fn, names[i], names[i])
		}
		a.kw[names[i]] = v
	}
	return nil
}

func (a kwArgs) float(key string, def float64) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", a.fn, key, err)
	}
	return f, nil
}

func (a kwArgs) int(key string, def int) (int, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", a.fn, key, err)
	}
	return n, nil
}

func (a kwArgs) vec(key string, def v3.Vec) (v3.Vec, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("%s: %s: %w", a.fn, key, err)
	}
	return vec, nil
}

func (a kwArgs) name(key string) (string, error) {
	v, ok := a.kw[key]
	if !ok {
		return "", nil
	}
	s, err := toKeywordString(v)
	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", a.fn, key, err)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts either :name or "name".
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a list or array to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// isList reports whether s is a list or array that should be flattened
// into an argument list.
func isList(s zygo.Sexp) bool {
	switch s.(type) {
	case *zygo.SexpPair, *zygo.SexpArray:
		return true
	}
	return false
}
