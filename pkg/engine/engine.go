// Package engine evaluates scene scripts. A script is an s-expression
// program run in a sandboxed zygomys interpreter whose builtins build a
// graph.Scene.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/marching/pkg/graph"
	"github.com/chazu/marching/pkg/logging"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a non-fatal problem in the script itself, such as a parse
// error or a builtin rejecting its arguments.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// errNoScene is reported when a script runs to completion without
// calling march.
const errNoScene = "script defines no scene; end it with (march shape ...)"

// Engine runs scene scripts. It is safe for concurrent use; every call to
// Evaluate gets a fresh sandbox, so results depend only on the source.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs source and returns the scene it builds.
//
//   - On success: scene, nil, nil.
//   - On a script problem: nil, eval errors, nil.
//   - On timeout, panic or a superseded request: nil, nil, error.
func (e *Engine) Evaluate(source string) (*graph.Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("engine: panic during evaluation: %v", r)}
			}
		}()
		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{scene: s, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) (*graph.Scene, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: errNoScene}}, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	st := newSceneState()
	registerBuiltins(env, st)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if st.scene == nil {
		return nil, []EvalError{{Message: errNoScene}}, nil
	}

	logging.Debug("script evaluated", "nodes", st.scene.Graph.NodeCount(), "materials", len(st.scene.Materials))
	return st.scene, nil, nil
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError turns an interpreter error into EvalErrors, keeping
// the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
