package main

import (
	"context"
	"errors"
	"image"

	"github.com/chazu/marching/pkg/config"
	"github.com/chazu/marching/pkg/engine"
	"github.com/chazu/marching/pkg/eval"
	"github.com/chazu/marching/pkg/graph"
	"github.com/chazu/marching/pkg/logging"
	"github.com/chazu/marching/pkg/mesh"
	"github.com/chazu/marching/pkg/shader"
)

// App ties the script engine to the shader assembler and the CPU preview.
type App struct {
	engine *engine.Engine
	cfg    config.Config
}

// Diagnostic is one error or warning, located in the script by line or
// in the scene by node.
type Diagnostic struct {
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Node     string `json:"node,omitempty"`
	Material string `json:"material,omitempty"`
	Message  string `json:"message"`
}

// CompileResult is the outcome of compiling a script. Shader is empty
// whenever Errors is not.
type CompileResult struct {
	Shader   string           `json:"shader"`
	Uniforms []shader.Uniform `json:"uniforms"`
	Errors   []Diagnostic     `json:"errors"`
	Warnings []Diagnostic     `json:"warnings"`
}

// OK reports whether compilation succeeded.
func (r CompileResult) OK() bool {
	return len(r.Errors) == 0
}

func newResult() CompileResult {
	return CompileResult{
		Uniforms: []shader.Uniform{},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}
}

// NewApp creates an App with the given configuration.
func NewApp(cfg config.Config) *App {
	return &App{engine: engine.NewEngine(), cfg: cfg}
}

// scene evaluates and validates source. The scene is nil when the result
// carries errors.
func (a *App) scene(source string) (*graph.Scene, CompileResult) {
	result := newResult()

	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		logging.Error("evaluation failed", "err", err)
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return nil, result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, Diagnostic{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return nil, result
	}

	res := graph.ValidateAll(s)
	for _, w := range res.Warnings {
		logging.Warn(w.Message, "node", w.NodeID.Short())
		result.Warnings = append(result.Warnings, Diagnostic{Node: w.NodeID.Short(), Message: w.Message})
	}
	if !res.OK() {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, Diagnostic{Node: e.NodeID.Short(), Material: e.Material, Message: e.Message})
		}
		return nil, result
	}
	return s, result
}

// Compile turns a scene script into fragment shader source.
func (a *App) Compile(source string) CompileResult {
	s, result := a.scene(source)
	if s == nil {
		return result
	}

	prog, err := shader.Assemble(s, a.cfg.March)
	if err != nil {
		var ae *shader.AssemblyError
		if errors.As(err, &ae) {
			result.Errors = append(result.Errors, Diagnostic{Node: ae.Node.Short(), Material: ae.Material, Message: ae.Reason})
		} else {
			result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		}
		return result
	}

	logging.Debug("shader assembled", "bytes", len(prog.Source), "materials", len(prog.Materials))
	result.Shader = prog.Source
	result.Uniforms = prog.Uniforms
	return result
}

// Preview renders the scene on the CPU at the configured preview size.
func (a *App) Preview(ctx context.Context, source string) (*image.RGBA, CompileResult) {
	s, result := a.scene(source)
	if s == nil {
		return nil, result
	}
	f, err := eval.Compile(s)
	if err != nil {
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return nil, result
	}
	img, err := eval.Render(ctx, f, s, a.cfg.March, a.cfg.Preview)
	if err != nil {
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return nil, result
	}
	return img, result
}

// Mesh tessellates the scene with marching cubes inside the configured
// mesh extent.
func (a *App) Mesh(source string) (*mesh.Mesh, CompileResult) {
	s, result := a.scene(source)
	if s == nil {
		return nil, result
	}
	f, err := eval.Compile(s)
	if err != nil {
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return nil, result
	}
	m, err := mesh.Tessellate(f, a.cfg.Mesh)
	if err != nil {
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return nil, result
	}
	return m, result
}

// ExportSTL compiles source and writes its surface to path as STL.
func (a *App) ExportSTL(source, path string) CompileResult {
	s, result := a.scene(source)
	if s == nil {
		return result
	}
	f, err := eval.Compile(s)
	if err == nil {
		err = mesh.WriteSTL(f, path, a.cfg.Mesh)
	}
	if err != nil {
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
	}
	return result
}
