// Package cellscreen is the glyph splat backend drawn through a tcell screen
// tcell diffs its own front buffer, so no drawn-cell sets are kept here
package cellscreen

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/splat/render"
	"github.com/lixenwraith/splat/render/ansiterm"
	"github.com/lixenwraith/splat/vmath"
)

// BaseStyle is the style glyphs start from each frame
var BaseStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(239, 100, 232))

// Renderer draws splats into a tcell.Screen; not safe for concurrent use
type Renderer struct {
	screen tcell.Screen
	style  tcell.Style
	zrec   render.ZRecord
}

// NewRenderer wraps an initialized screen
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen, style: BaseStyle}
}

// Screen returns the underlying tcell screen
func (r *Renderer) Screen() tcell.Screen {
	return r.screen
}

func (r *Renderer) Size() (int, int) {
	return r.screen.Size()
}

// Resize syncs tcell to the terminal and drops the frame state
// tcell tracks its own dimensions, the arguments are advisory
func (r *Renderer) Resize(width, height int) {
	r.screen.Sync()
	r.screen.Clear()
	r.zrec.Reset()
}

// SetStyle applies an SGR style to subsequent writes, StyleNone resets to BaseStyle
func (r *Renderer) SetStyle(s ansiterm.Style) {
	r.style = Apply(r.style, s)
}

// DrawAt writes text at (x, y) unless a strictly nearer write was recorded there
func (r *Renderer) DrawAt(x, y int, text string, z float64) error {
	return r.draw(x, y, text, z, r.style)
}

// DrawStyledAt applies style then draws, the style persists like an SGR change
func (r *Renderer) DrawStyledAt(x, y int, text string, z float64, s ansiterm.Style) error {
	r.SetStyle(s)
	return r.DrawAt(x, y, text, z)
}

func (r *Renderer) draw(x, y int, text string, z float64, st tcell.Style) error {
	w, h := r.screen.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d", render.ErrIndexOutOfRange, x, y, w, h)
	}
	if r.zrec.Occluded(x, y, z) {
		return nil
	}
	cx, cy := x, y
	for _, ch := range text {
		if cy >= h {
			break
		}
		r.screen.SetContent(cx, cy, ch, nil, st)
		cx++
		if cx >= w {
			cx = 0
			cy++
		}
	}
	r.zrec.Push(x, y, z)
	return nil
}

// Plot implements render.Surface with the depth glyph ladder
func (r *Renderer) Plot(x, y int, v vmath.Vec3) error {
	return r.draw(x, y, string(render.Glyph(v.Z)), v.Z, r.style)
}

// Stamp implements render.Surface, drawing the marker glyph in the source color
func (r *Renderer) Stamp(x, y int, c color.Color, z float64) error {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	st := r.style.Foreground(tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B)))
	return r.draw(x, y, string(render.MarkerGlyph), z, st)
}

// Flush presents the frame and clears the back buffer and z-record
func (r *Renderer) Flush() error {
	r.screen.Show()
	r.screen.Clear()
	r.zrec.Reset()
	r.style = BaseStyle
	return nil
}

// Apply maps an SGR style onto a tcell style
// Codes with no tcell counterpart leave the style unchanged
func Apply(st tcell.Style, s ansiterm.Style) tcell.Style {
	switch s {
	case ansiterm.StyleNone:
		return BaseStyle
	case ansiterm.StyleBold:
		return st.Bold(true)
	case ansiterm.StyleFaint:
		return st.Dim(true)
	case ansiterm.StyleItalic:
		return st.Italic(true)
	case ansiterm.StyleUnderline, ansiterm.StyleDoublyUnderlined:
		return st.Underline(true)
	case ansiterm.StyleSlowBlink, ansiterm.StyleFastBlink:
		return st.Blink(true)
	case ansiterm.StyleInvert:
		return st.Reverse(true)
	case ansiterm.StyleCrossedOut:
		return st.StrikeThrough(true)
	case ansiterm.StyleNormalIntensity:
		return st.Bold(false).Dim(false)
	case ansiterm.StyleNeitherItalicNorBlackletter:
		return st.Italic(false)
	case ansiterm.StyleNotUnderlined:
		return st.Underline(false)
	case ansiterm.StyleNotBlinking:
		return st.Blink(false)
	case ansiterm.StyleNotReversed:
		return st.Reverse(false)
	case ansiterm.StyleNotCrossedOut:
		return st.StrikeThrough(false)
	case ansiterm.StyleDefaultForegroundColor:
		return st.Foreground(tcell.ColorDefault)
	case ansiterm.StyleDefaultBackgroundColor:
		return st.Background(tcell.ColorDefault)
	}
	return st
}
