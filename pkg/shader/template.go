package shader

import (
	"embed"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/chazu/marching/pkg/config"
	"github.com/valyala/fasttemplate"
)

//go:embed glsl/*.glsl
var library embed.FS

func mustRead(name string) string {
	b, err := library.ReadFile("glsl/" + name)
	if err != nil {
		panic(fmt.Sprintf("shader: embedded %s: %v", name, err))
	}
	return string(b)
}

var (
	fragmentSource   = mustRead("fragment.glsl")
	primitivesSource = mustRead("primitives.glsl")
	operatorsSource  = mustRead("operators.glsl")
	lightingSource   = mustRead("lighting.glsl")
)

// Template is a program skeleton with ${tag} placeholders. It owns the
// GLSL version, PI and the shared function library; the scene supplies
// the rest through Fragments.
type Template struct {
	Version string
	PI      float64
	tpl     *fasttemplate.Template
}

// NewTemplate parses a skeleton. Tags are resolved at Render time and an
// unknown tag is an error.
func NewTemplate(source string) (*Template, error) {
	tpl, err := fasttemplate.NewTemplate(source, "${", "}")
	if err != nil {
		return nil, fmt.Errorf("shader: parse template: %w", err)
	}
	return &Template{Version: "300 es", PI: math.Pi, tpl: tpl}, nil
}

// DefaultTemplate returns the built-in raymarching skeleton.
func DefaultTemplate() *Template {
	t, err := NewTemplate(fragmentSource)
	if err != nil {
		panic(err)
	}
	return t
}

// Render fills the skeleton with f and the budgets in cfg.
func (t *Template) Render(f Fragments, cfg config.March) (string, error) {
	values := map[string]string{
		"version":           t.Version,
		"pi":                glslFloat(t.PI),
		"steps":             strconv.Itoa(cfg.Steps),
		"min_distance":      glslFloat(cfg.MinDistance),
		"max_distance":      glslFloat(cfg.MaxDistance),
		"shadow_iterations": strconv.Itoa(cfg.ShadowIterations),
		"normal_epsilon":    glslFloat(cfg.NormalEpsilon),
		"primitives":        primitivesSource,
		"operators":         operatorsSource + "\n" + overloads(),
		"lighting_modes":    lightingSource,
		"uniforms":          f.Uniforms,
		"variables":         f.Variables,
		"geometries":        f.Geometries,
		"lighting":          f.Lighting,
		"preface":           f.Preface,
		"scene":             f.Scene,
		"postprocessing":    f.Postprocessing,
	}
	out, err := t.tpl.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		v, ok := values[tag]
		if !ok {
			return 0, &AssemblyError{Reason: fmt.Sprintf("template has unknown tag %q", tag)}
		}
		return io.WriteString(w, v)
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
