package graph

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Graph holds the geometry nodes of a scene. It is never mutated after
// construction; each script evaluation produces a new graph.
type Graph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Root      NodeID            `json:"root"`
	NameIndex map[string]NodeID `json:"name_index"`
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *Graph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// SetRoot selects the node the scene function evaluates.
func (g *Graph) SetRoot(id NodeID) {
	g.Root = id
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *Graph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *Graph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *Graph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Children returns the child nodes of the given node, skipping dangling
// references.
func (g *Graph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// SortedIDs returns every node ID in a stable order.
func (g *Graph) SortedIDs() []NodeID {
	ids := lo.Keys(g.Nodes)
	slices.Sort(ids)
	return ids
}

// Primitives returns all primitive nodes in ID order.
func (g *Graph) Primitives() []*Node {
	return g.ofKind(NodePrimitive)
}

// Operators returns all operator nodes in ID order.
func (g *Graph) Operators() []*Node {
	return g.ofKind(NodeOperator)
}

func (g *Graph) ofKind(k NodeKind) []*Node {
	var out []*Node
	for _, id := range g.SortedIDs() {
		if n := g.Nodes[id]; n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}
