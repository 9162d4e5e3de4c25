// Package pixel is the true-color splat backend: depth shading into an RGBA buffer, one image per flush
package pixel

import (
	"fmt"
	"image/color"

	"github.com/lixenwraith/splat/render"
	"github.com/lixenwraith/splat/vmath"
)

// Target is the fully-near shade; farther splats scale toward black
var Target = color.RGBA{R: 239, G: 100, B: 232, A: 255}

// Marker is the color every stamped image pixel is written with
var Marker = color.RGBA{R: 255, G: 255, B: 0, A: 255}

// Renderer accumulates one frame of splats and hands it to a Sink on Flush
// Not safe for concurrent use
type Renderer struct {
	screen *render.Screen[color.RGBA]
	zrec   render.ZRecord
	zMin   float64
	zMax   float64
	frame  int
	sink   Sink
	pix    []byte
}

// NewRenderer creates a width x height renderer writing frames to sink
func NewRenderer(width, height int, sink Sink) *Renderer {
	return &Renderer{
		screen: render.NewScreen[color.RGBA](width, height),
		sink:   sink,
	}
}

func (r *Renderer) Size() (int, int) {
	return r.screen.Size()
}

// Resize reallocates the buffer and drops the current frame's state
func (r *Renderer) Resize(width, height int) {
	r.screen.Resize(width, height)
	r.resetFrame()
}

// Frame returns the number of the next frame to be flushed
func (r *Renderer) Frame() int {
	return r.frame
}

// DepthRange returns the running min and max depth accepted this frame
func (r *Renderer) DepthRange() (zMin, zMax float64) {
	return r.zMin, r.zMax
}

// Buffer exposes the current frame's cells
func (r *Renderer) Buffer() *render.Screen[color.RGBA] {
	return r.screen
}

// DrawAt writes c at (x, y) unless a strictly nearer write exists there
func (r *Renderer) DrawAt(x, y int, c color.RGBA, z float64) error {
	if r.zrec.Occluded(x, y, z) {
		return nil
	}
	if err := r.screen.Set(x, y, c); err != nil {
		return err
	}
	r.zrec.Push(x, y, z)
	if z < r.zMin {
		r.zMin = z
	}
	if z > r.zMax {
		r.zMax = z
	}
	return nil
}

// Shade maps z to the target color using the running depth range
// A degenerate range yields the full target color
func (r *Renderer) Shade(z float64) color.RGBA {
	m := 1.0
	if r.zMin != r.zMax {
		m = (z - r.zMax) / (r.zMin - r.zMax)
	}
	if m < 0 {
		m = 0
	} else if m > 1 {
		m = 1
	}
	return color.RGBA{
		R: uint8(float64(Target.R) * m),
		G: uint8(float64(Target.G) * m),
		B: uint8(float64(Target.B) * m),
		A: 255,
	}
}

// Plot implements render.Surface with depth shading
func (r *Renderer) Plot(x, y int, v vmath.Vec3) error {
	return r.DrawAt(x, y, r.Shade(v.Z), v.Z)
}

// Stamp implements render.Surface, image pixels are written as Marker regardless of source color
func (r *Renderer) Stamp(x, y int, _ color.Color, z float64) error {
	return r.DrawAt(x, y, Marker, z)
}

// Flush packs the frame as RGBA bytes, hands it to the sink, then clears per-frame state
// State is cleared and the frame number advances even when the sink fails
func (r *Renderer) Flush() error {
	w, h := r.screen.Size()
	r.pix = pack(r.pix, r.screen.Cells())
	frame := r.frame

	var err error
	if r.sink != nil {
		err = r.sink.WriteFrame(frame, w, h, r.pix)
	}

	r.frame++
	r.resetFrame()
	if err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}
	return nil
}

func (r *Renderer) resetFrame() {
	r.screen.Clear()
	r.zrec.Reset()
	r.zMin = 0
	r.zMax = 0
}

// pack flattens cells into RGBA bytes, reusing dst when large enough
func pack(dst []byte, cells []color.RGBA) []byte {
	n := len(cells) * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	} else {
		dst = dst[:n]
	}
	for i, c := range cells {
		o := i * 4
		dst[o] = c.R
		dst[o+1] = c.G
		dst[o+2] = c.B
		dst[o+3] = c.A
	}
	return dst
}
