package mesh

import (
	"fmt"

	"github.com/chazu/marching/pkg/config"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// clipped limits a field's bounding box to a cube around the origin so
// that planes and other unbounded shapes can be meshed.
type clipped struct {
	sdf.SDF3
	box sdf.Box3
}

func (c clipped) BoundingBox() sdf.Box3 { return c.box }

func clip(s sdf.SDF3, extent float64) (sdf.SDF3, error) {
	bb := s.BoundingBox()
	lo := v3.Vec{X: max(bb.Min.X, -extent), Y: max(bb.Min.Y, -extent), Z: max(bb.Min.Z, -extent)}
	hi := v3.Vec{X: min(bb.Max.X, extent), Y: min(bb.Max.Y, extent), Z: min(bb.Max.Z, extent)}
	if lo.X >= hi.X || lo.Y >= hi.Y || lo.Z >= hi.Z {
		return nil, fmt.Errorf("mesh: shape lies outside the %g extent", extent)
	}
	return clipped{SDF3: s, box: sdf.Box3{Min: lo, Max: hi}}, nil
}

// Tessellate meshes s inside the configured extent.
func Tessellate(s sdf.SDF3, cfg config.Mesh) (*Mesh, error) {
	c, err := clip(s, cfg.Extent)
	if err != nil {
		return nil, err
	}

	triangles := render.ToTriangles(c, render.NewMarchingCubesUniform(cfg.Cells))

	numVerts := len(triangles) * 3
	m := &Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m, nil
}

// WriteSTL meshes s and writes it to path as STL.
func WriteSTL(s sdf.SDF3, path string, cfg config.Mesh) error {
	c, err := clip(s, cfg.Extent)
	if err != nil {
		return err
	}
	render.ToSTL(c, path, render.NewMarchingCubesOctree(cfg.Cells))
	return nil
}
