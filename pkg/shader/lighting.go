package shader

import (
	"fmt"
	"strings"

	"github.com/chazu/marching/pkg/graph"
	"github.com/samber/lo"
)

// modeFuncs names the library function for each built-in lighting mode.
var modeFuncs = map[graph.MaterialMode]string{
	graph.ModeFlat:   "flatLighting",
	graph.ModeNormal: "normalLighting",
	graph.ModePhong:  "phongLighting",
}

// material returns the table index of the named material, adding it on
// first use.
func (a *assembler) material(node graph.NodeID, name string) (int, error) {
	if name == "" {
		name = graph.DefaultMaterialName
	}
	if i, ok := a.matIndex[name]; ok {
		return i, nil
	}
	m, ok := a.scene.Material(name)
	if !ok {
		return 0, &AssemblyError{Node: node, Material: name, Reason: "material not found"}
	}
	i := len(a.materials)
	a.materials = append(a.materials, m)
	a.matIndex[name] = i
	return i, nil
}

// lighting emits custom lighting bodies followed by the dispatcher, with
// one branch per distinct mode in first-use order.
func (a *assembler) lighting() (string, error) {
	var b strings.Builder

	for i, m := range a.materials {
		if m.Mode != graph.ModeCustom {
			continue
		}
		if strings.TrimSpace(m.Custom) == "" {
			return "", &AssemblyError{Material: m.Name, Reason: "custom lighting mode has no body"}
		}
		fmt.Fprintf(&b, "vec3 customLighting%d(vec3 pos, vec3 nor, vec3 ro, vec3 rd, Material mat) {\n%s\n}\n\n",
			i, indent(m.Custom))
	}

	b.WriteString("vec3 lighting(vec3 pos, vec3 nor, vec3 ro, vec3 rd, float materialID) {\n")
	b.WriteString("  int id = int(materialID);\n")
	b.WriteString("  Material mat = materials[id];\n")

	modes := lo.Uniq(lo.Map(a.materials, func(m graph.Material, _ int) graph.MaterialMode { return m.Mode }))
	for _, mode := range modes {
		switch mode {
		case graph.ModeCustom:
			fmt.Fprintf(&b, "  if (mat.mode == %d) {\n", int(mode))
			for i, m := range a.materials {
				if m.Mode == graph.ModeCustom {
					fmt.Fprintf(&b, "    if (id == %d) return customLighting%d(pos, nor, ro, rd, mat);\n", i, i)
				}
			}
			b.WriteString("  }\n")
		default:
			fn, ok := modeFuncs[mode]
			if !ok {
				m, _ := lo.Find(a.materials, func(m graph.Material) bool { return m.Mode == mode })
				return "", &AssemblyError{Material: m.Name, Reason: fmt.Sprintf("lighting mode %s has no branch", mode)}
			}
			fmt.Fprintf(&b, "  if (mat.mode == %d) return %s(pos, nor, ro, rd, mat);\n", int(mode), fn)
		}
	}
	b.WriteString("  return vec3(0.0);\n}")
	return b.String(), nil
}

func indent(body string) string {
	lines := strings.Split(strings.Trim(body, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

// variables emits the material table, lights and scene-wide constants.
func (a *assembler) variables() string {
	s := a.scene
	var b strings.Builder

	fmt.Fprintf(&b, "const int MATERIAL_COUNT = %d;\n", len(a.materials))
	fmt.Fprintf(&b, "const Material materials[%d] = Material[%d](\n", len(a.materials), len(a.materials))
	rows := lo.Map(a.materials, func(m graph.Material, _ int) string {
		return fmt.Sprintf("  Material(%d, %s, %s, %s, %s, %s, %d)",
			int(m.Mode),
			glslVec3(m.Ambient), glslVec3(m.Diffuse), glslVec3(m.Specular),
			glslFloat(m.Shininess),
			fmt.Sprintf("vec3(%s, %s, %s)", glslFloat(m.Fresnel.Bias), glslFloat(m.Fresnel.Scale), glslFloat(m.Fresnel.Power)),
			m.Texture)
	})
	b.WriteString(strings.Join(rows, ",\n"))
	b.WriteString("\n);\n\n")

	lights := s.EffectiveLights()
	fmt.Fprintf(&b, "const int LIGHT_COUNT = %d;\n", len(lights))
	fmt.Fprintf(&b, "const Light lights[%d] = Light[%d](\n", len(lights), len(lights))
	rows = lo.Map(lights, func(l graph.Light, _ int) string {
		return fmt.Sprintf("  Light(%s, %s, %s)", glslVec3(l.Position), glslVec3(l.Color), glslFloat(l.Attenuation))
	})
	b.WriteString(strings.Join(rows, ",\n"))
	b.WriteString("\n);\n\n")

	fmt.Fprintf(&b, "const vec3 bg = %s;\n", glslVec3(s.Background))
	fmt.Fprintf(&b, "const float fogIntensity = %s;\n", glslFloat(s.Fog.Intensity))
	fmt.Fprintf(&b, "const vec3 fogColor = %s;\n", glslVec3(s.Fog.Color))
	fmt.Fprintf(&b, "const float shadowHardness = %s;\n", glslFloat(s.Shadow))
	fmt.Fprintf(&b, "const float FOCAL_LENGTH = %s;", glslFloat(s.Camera.FocalLength))
	return b.String()
}
