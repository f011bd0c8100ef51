package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/marching/pkg/graph"
)

// EvalTimeout bounds a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	scene  *graph.Scene
	errors []EvalError
	err    error
}

// waitWithTimeout waits for ch, giving up after EvalTimeout. A result whose
// generation is no longer current belongs to a superseded request and is
// discarded. A timed-out goroutine may still finish later; its result is
// dropped the same way.
func waitWithTimeout(ch <-chan evalResult, gen uint64, mu *sync.Mutex, currentGen *uint64) (*graph.Scene, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()
		if gen != current {
			return nil, nil, fmt.Errorf("engine: evaluation superseded by newer request")
		}
		return res.scene, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("engine: evaluation timed out after %s", EvalTimeout)
	}
}
