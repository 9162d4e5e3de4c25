package ansiterm

import (
	"errors"
	"image/color"
	"io"
	"unicode/utf8"

	"github.com/lixenwraith/splat/render"
	"github.com/lixenwraith/splat/vmath"
)

type cellSet map[vmath.Vec2i]struct{}

// Renderer is the glyph splat backend over a Console
// Cells drawn last frame but not this frame are blanked at flush instead of clearing the screen
// Not safe for concurrent use
type Renderer struct {
	console  *Console
	current  cellSet
	previous cellSet
	zrec     render.ZRecord
}

// NewRenderer creates a width x height renderer writing to out
func NewRenderer(out io.Writer, width, height int) *Renderer {
	return &Renderer{
		console:  NewConsole(out, width, height),
		current:  make(cellSet),
		previous: make(cellSet),
	}
}

// Console exposes the underlying console for direct escape control
func (r *Renderer) Console() *Console {
	return r.console
}

func (r *Renderer) Size() (int, int) {
	return r.console.Size()
}

// Resize drops all per-frame state and forgets what was on screen
func (r *Renderer) Resize(width, height int) {
	r.console.Resize(width, height)
	clear(r.current)
	clear(r.previous)
	r.zrec.Reset()
	r.console.FullClear()
}

// DrawAt writes text at (x, y) unless a strictly nearer write was recorded there
func (r *Renderer) DrawAt(x, y int, text string, z float64) error {
	return r.draw(x, y, text, z, nil)
}

// DrawStyledAt is DrawAt with a style deferred to the start cell
func (r *Renderer) DrawStyledAt(x, y int, text string, z float64, style Style) error {
	return r.draw(x, y, text, z, &style)
}

func (r *Renderer) draw(x, y int, text string, z float64, style *Style) error {
	if r.zrec.Occluded(x, y, z) {
		return nil
	}
	r.console.GoTo(x, y)
	if style != nil {
		r.console.SetStyle(*style)
	}
	if err := r.console.Write(text); err != nil {
		return err
	}
	r.mark(x, y, utf8.RuneCountInString(text))
	r.zrec.Push(x, y, z)
	return nil
}

// mark records the n cells covered by a write starting at (x, y)
func (r *Renderer) mark(x, y, n int) {
	w, h := r.console.Size()
	for i := 0; i < n; i++ {
		cx, cy := x+i, y
		if w > 0 {
			cy += cx / w
			cx %= w
		}
		if cy >= h {
			return
		}
		r.current[vmath.V2i(cx, cy)] = struct{}{}
	}
}

// SetStyle defers a style change to the console cursor cell
func (r *Renderer) SetStyle(s Style) {
	r.console.SetStyle(s)
}

// ClearAt blanks a single cell on the next flush
func (r *Renderer) ClearAt(x, y int) error {
	r.console.GoTo(x, y)
	return r.console.Write(" ")
}

// Clear erases the terminal below the cursor immediately
func (r *Renderer) Clear() {
	r.console.FullClear()
}

// Plot implements render.Surface with the depth glyph ladder
func (r *Renderer) Plot(x, y int, v vmath.Vec3) error {
	return r.DrawAt(x, y, string(render.Glyph(v.Z)), v.Z)
}

// Stamp implements render.Surface, image pixels draw as the marker glyph
func (r *Renderer) Stamp(x, y int, _ color.Color, z float64) error {
	return r.DrawAt(x, y, string(render.MarkerGlyph), z)
}

// Flush blanks stale cells, emits the frame and swaps the drawn-cell sets
func (r *Renderer) Flush() error {
	var errs []error
	for p := range r.previous {
		if _, ok := r.current[p]; !ok {
			if err := r.ClearAt(p.X, p.Y); err != nil {
				errs = append(errs, err)
			}
		}
	}
	errs = append(errs, r.console.Flush())
	err := errors.Join(errs...)

	r.previous, r.current = r.current, r.previous
	clear(r.current)
	r.zrec.Reset()
	return err
}
