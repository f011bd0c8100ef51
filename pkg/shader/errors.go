package shader

import (
	"errors"
	"fmt"

	"github.com/chazu/marching/pkg/graph"
)

// ErrAssembly is wrapped by every AssemblyError.
var ErrAssembly = errors.New("shader assembly failed")

// AssemblyError reports why a scene could not be compiled. Node and
// Material are set when the failure is attributable to one of them.
type AssemblyError struct {
	Node     graph.NodeID
	Material string
	Reason   string
	// Findings holds every blocking validation finding, when validation
	// was the cause.
	Findings []graph.ValidationError
}

func (e *AssemblyError) Error() string {
	switch {
	case !e.Node.IsZero():
		return fmt.Sprintf("shader: node %s: %s", e.Node.Short(), e.Reason)
	case e.Material != "":
		return fmt.Sprintf("shader: material %q: %s", e.Material, e.Reason)
	default:
		return "shader: " + e.Reason
	}
}

func (e *AssemblyError) Unwrap() error { return ErrAssembly }

func fromValidation(errs []graph.ValidationError) *AssemblyError {
	first := errs[0]
	return &AssemblyError{
		Node:     first.NodeID,
		Material: first.Material,
		Reason:   first.Message,
		Findings: errs,
	}
}
