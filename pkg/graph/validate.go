package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks
// compilation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks compilation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if scene-level)
	Material string             // material involved, if any
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	switch {
	case !e.NodeID.IsZero():
		return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
	case e.Material != "":
		return fmt.Sprintf("[%s] material %q: %s", e.Severity, e.Material, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks (Tier 1) on the scene graph. An
// empty slice means the graph is well formed. Findings are reported in
// node ID order so repeated runs agree.
func Validate(s *Scene) []ValidationError {
	if s == nil || s.Graph == nil {
		return []ValidationError{{Message: "scene has no graph", Severity: SeverityError}}
	}
	g := s.Graph
	var errs []ValidationError
	errs = append(errs, validateRoot(g)...)
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateKinds(g)...)
	errs = append(errs, validateArity(g)...)
	errs = append(errs, validateReachable(g)...)
	return errs
}

// ValidateAll runs every tier (structure, parameters, shading) and
// separates errors from warnings.
func ValidateAll(s *Scene) ValidationResult {
	// Tier 1: structure.
	found := Validate(s)

	// Tier 2 and 3 need a sound tree to walk.
	if s != nil && s.Graph != nil {
		found = append(found, validateParams(s.Graph)...)
		found = append(found, validateShading(s)...)
	}

	var result ValidationResult
	for _, e := range found {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// validateRoot checks that the graph names an existing root.
func validateRoot(g *Graph) []ValidationError {
	if g.Root.IsZero() {
		return []ValidationError{{Message: "scene has no root", Severity: SeverityError}}
	}
	if _, ok := g.Nodes[g.Root]; !ok {
		return []ValidationError{{
			Message:  fmt.Sprintf("root %s does not exist", g.Root.Short()),
			Severity: SeverityError,
		}}
	}
	return nil
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
// If we encounter a gray node during traversal, we have found a cycle.
func validateDAG(g *Graph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := g.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	for _, id := range g.SortedIDs() {
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child ID points at an existing node.
func validateReferences(g *Graph) []ValidationError {
	var errs []ValidationError
	for _, id := range g.SortedIDs() {
		node := g.Nodes[id]
		for _, childID := range node.Children {
			if _, ok := g.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that the NameIndex points at existing nodes and
// that no two nodes share a name.
func validateNames(g *Graph) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]NodeID)
	for _, id := range g.SortedIDs() {
		node := g.Nodes[id]
		if node.Name == "" {
			continue
		}
		if prev, dup := seen[node.Name]; dup {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("duplicate name %q also used by node %s", node.Name, prev.Short()),
				Severity: SeverityError,
			})
			continue
		}
		seen[node.Name] = id
	}

	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateKinds checks that every node's payload matches its kind and
// that shape and operator kinds are known.
func validateKinds(g *Graph) []ValidationError {
	var errs []ValidationError
	bad := func(id NodeID, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   id,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, id := range g.SortedIDs() {
		node := g.Nodes[id]
		switch d := node.Data.(type) {
		case PrimitiveData:
			if node.Kind != NodePrimitive {
				bad(id, "primitive payload on %s node", node.Kind)
			}
			if d.Params == nil {
				bad(id, "unknown shape: primitive has no shape parameters")
			}
			if len(node.Children) > 0 {
				bad(id, "primitive must not have children")
			}
		case OperatorData:
			if node.Kind != NodeOperator {
				bad(id, "operator payload on %s node", node.Kind)
			}
			if !d.Op.Known() {
				bad(id, "unknown operator kind %d", int(d.Op))
			}
		case nil:
			bad(id, "node has no data")
		default:
			bad(id, "unexpected node data %T", d)
		}
	}
	return errs
}

// validateArity checks operator child counts.
func validateArity(g *Graph) []ValidationError {
	var errs []ValidationError
	for _, id := range g.SortedIDs() {
		node := g.Nodes[id]
		d, ok := node.Data.(OperatorData)
		if !ok || !d.Op.Known() {
			continue
		}
		minN, maxN := d.Op.Arity()
		n := len(node.Children)
		switch {
		case n < minN:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("%s needs at least %d children, has %d", d.Op, minN, n),
				Severity: SeverityError,
			})
		case maxN >= 0 && n > maxN:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("%s takes at most %d children, has %d", d.Op, maxN, n),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateReachable warns about nodes the root never reaches. They are
// ignored by compilation.
func validateReachable(g *Graph) []ValidationError {
	if _, ok := g.Nodes[g.Root]; !ok {
		return nil
	}

	reached := make(map[NodeID]bool)
	queue := []NodeID{g.Root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if reached[id] {
			continue
		}
		reached[id] = true
		if n := g.Nodes[id]; n != nil {
			queue = append(queue, n.Children...)
		}
	}

	var errs []ValidationError
	for _, id := range g.SortedIDs() {
		if !reached[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "node is not reachable from the root",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
