package render

import (
	"image/color"

	"github.com/lixenwraith/splat/vmath"
)

// Surface is a raster target the splat rasterizer can draw into
type Surface interface {
	// Size returns the raster dimensions in cells
	Size() (width, height int)
	// Plot writes the cell at (x, y) for vertex v, depth v.Z, subject to occlusion
	Plot(x, y int, v vmath.Vec3) error
	// Stamp writes the cell at (x, y) for an image pixel of color c at depth z, subject to occlusion
	Stamp(x, y int, c color.Color, z float64) error
}

// Backend is a Surface that presents a frame and then clears its per-frame state
type Backend interface {
	Surface
	Flush() error
	Resize(width, height int)
}

// TextDrawer is implemented by backends that can place text at a depth
type TextDrawer interface {
	DrawAt(x, y int, text string, z float64) error
}
