package eval

import (
	"math"

	"github.com/chazu/marching/pkg/graph"
	"github.com/deadsy/sdfx/vec/v3"
)

// Camera builds primary rays the way the fragment shader's cameraRay does.
type Camera struct {
	Origin v3.Vec
	lens   float64
	uu     v3.Vec
	vv     v3.Vec
	ww     v3.Vec
}

// NewCamera derives the camera basis from a scene camera.
func NewCamera(c graph.Camera) Camera {
	ww := c.Forward()
	uu := ww.Cross(upFor(ww)).Normalize()
	vv := uu.Cross(ww).Normalize()
	lens := c.FocalLength
	if lens <= 0 {
		lens = graph.DefaultFocalLength
	}
	return Camera{Origin: c.Position, lens: lens, uu: uu, vv: vv, ww: ww}
}

// upFor picks the world up vector for forward, switching to +Z when the
// camera looks along the Y axis.
func upFor(forward v3.Vec) v3.Vec {
	if math.Abs(forward.Y) > verticalLimit {
		return v3.Vec{Z: 1}
	}
	return v3.Vec{Y: 1}
}

// verticalLimit matches the threshold in the fragment shader's cameraRay.
const verticalLimit = 0.999

// Ray returns the unit direction through screen coordinates (x, y), where
// y spans [-1, 1] and x is already scaled by the aspect ratio.
func (c Camera) Ray(x, y float64) v3.Vec {
	return c.uu.MulScalar(x).Add(c.vv.MulScalar(y)).Add(c.ww.MulScalar(c.lens)).Normalize()
}

// PixelUV maps the centre of pixel (px, py) of a w by h image to screen
// coordinates. Row 0 is the top of the image.
func PixelUV(px, py, w, h int) (float64, float64) {
	u := (float64(px)+0.5)/float64(w)*2 - 1
	v := 1 - (float64(py)+0.5)/float64(h)*2
	return u * float64(w) / float64(h), v
}
