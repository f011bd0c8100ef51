package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/chazu/marching/pkg/logging"
	"github.com/fsnotify/fsnotify"
)

// Watcher recompiles a script every time it is written. Recompiles run on
// the watcher's own goroutine, one at a time.
type Watcher struct {
	app    *App
	in     string
	out    string
	stdout io.Writer
	fs     *fsnotify.Watcher

	// compiled is called after every compile attempt; tests hook it.
	compiled func(err error)
}

// NewWatcher watches the directory holding in, so editors that replace
// the file on save are still seen.
func NewWatcher(app *App, in, out string, stdout io.Writer) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fsw.Add(filepath.Dir(in)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch: %w", err)
	}
	return &Watcher{app: app, in: filepath.Clean(in), out: out, stdout: stdout, fs: fsw}, nil
}

func (w *Watcher) compile() {
	err := compileFile(w.app, w.in, w.out, w.stdout)
	if err != nil {
		logging.Warn("compile failed, waiting for the next save", "err", err)
	}
	if w.compiled != nil {
		w.compiled(err)
	}
}

// Run compiles once, then again on every write until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	logging.Info("watching", "file", w.in)
	w.compile()
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != w.in {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				logging.Debug("change detected", "op", e.Op.String())
				w.compile()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logging.Error("watch error", "err", err)

		case <-ctx.Done():
			return nil
		}
	}
}
