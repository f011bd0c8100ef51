package eval

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/chazu/marching/pkg/config"
	"github.com/chazu/marching/pkg/graph"
	"github.com/chazu/marching/pkg/sdf"
	"github.com/deadsy/sdfx/vec/v3"
)

// rowTask is one scanline handed to a render worker.
type rowTask struct {
	y int
}

// Render draws s into a preview image on the CPU. Rows are shared out to
// preview.Workers goroutines (GOMAXPROCS when zero). Cancelling ctx stops
// the workers and returns the context's error.
func Render(ctx context.Context, f *Field, s *graph.Scene, march config.March, preview config.Preview) (*image.RGBA, error) {
	if err := march.Validate(); err != nil {
		return nil, fmt.Errorf("eval: render: %w", err)
	}
	w, h := preview.Width, preview.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("eval: render: image size %dx%d must be positive", w, h)
	}
	workers := preview.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cam := NewCamera(s.Camera)
	sh := NewShader(f, s, march)

	tasks := make(chan rowTask, h)
	for y := 0; y < h; y++ {
		tasks <- rowTask{y: y}
	}
	close(tasks)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				if ctx.Err() != nil {
					return
				}
				for x := 0; x < w; x++ {
					u, v := PixelUV(x, task.y, w, h)
					img.SetRGBA(x, task.y, toRGBA(sh.Color(cam.Origin, cam.Ray(u, v))))
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("eval: render: %w", err)
	}
	return img, nil
}

func toRGBA(c v3.Vec) color.RGBA {
	ch := func(x float64) uint8 {
		return uint8(sdf.Clamp(x, 0, 1)*255 + 0.5)
	}
	return color.RGBA{R: ch(c.X), G: ch(c.Y), B: ch(c.Z), A: 255}
}
