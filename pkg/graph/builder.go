package graph

import (
	"fmt"
	"slices"
)

// Builder assembles a Scene node by node. IDs are derived from the
// authoring order, so replaying the same calls yields the same graph.
type Builder struct {
	g         *Graph
	seq       int
	materials []Material
	lights    []Light
}

// NewBuilder returns a Builder over an empty graph.
func NewBuilder() *Builder {
	return &Builder{g: New()}
}

func (b *Builder) nextID(kind string) NodeID {
	id := NewNodeID(fmt.Sprintf("%s/%d", kind, b.seq))
	b.seq++
	return id
}

// Primitive adds a shape and returns its ID. An empty material selects
// the default material.
func (b *Builder) Primitive(params ShapeParams, tr Transform, material string) NodeID {
	kind := "primitive"
	if params != nil {
		kind = params.Kind().String()
	}
	id := b.nextID(kind)
	b.g.AddNode(&Node{
		ID:   id,
		Kind: NodePrimitive,
		Data: PrimitiveData{Params: params, Transform: tr, Material: material},
	})
	return id
}

// Operator adds an operator over children, in order.
func (b *Builder) Operator(data OperatorData, children ...NodeID) NodeID {
	id := b.nextID(data.Op.String())
	b.g.AddNode(&Node{
		ID:       id,
		Kind:     NodeOperator,
		Children: slices.Clone(children),
		Data:     data,
	})
	return id
}

// Union is shorthand for a plain union of children.
func (b *Builder) Union(children ...NodeID) NodeID {
	return b.Operator(OperatorData{Op: OpUnion}, children...)
}

// Name assigns a user-facing name to an existing node.
func (b *Builder) Name(id NodeID, name string) {
	n := b.g.Nodes[id]
	if n == nil || name == "" {
		return
	}
	n.Name = name
	b.g.NameIndex[name] = id
}

// Material declares a material. A later declaration with the same name
// replaces the earlier one.
func (b *Builder) Material(m Material) {
	for i := range b.materials {
		if b.materials[i].Name == m.Name {
			b.materials[i] = m
			return
		}
	}
	b.materials = append(b.materials, m)
}

// Light adds a light to the scene.
func (b *Builder) Light(l Light) {
	b.lights = append(b.lights, l)
}

// Graph exposes the graph under construction.
func (b *Builder) Graph() *Graph {
	return b.g
}

// Scene finishes the graph with the given root and wraps it in a Scene
// carrying the declared materials and lights.
func (b *Builder) Scene(root NodeID) *Scene {
	b.g.SetRoot(root)
	s := NewScene(b.g)
	s.Materials = slices.Clone(b.materials)
	s.Lights = slices.Clone(b.lights)
	return s
}
