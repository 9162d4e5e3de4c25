// Package ansiterm streams splat frames to an ANSI terminal
// Glyphs are buffered per cell; style and control sequences are deferred into a per-cell escape map
// and spliced in front of their cell during the row-major emission pass
package ansiterm

import (
	"bufio"
	"cmp"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/lixenwraith/splat/render"
	"github.com/lixenwraith/splat/vmath"
)

// Console dimensions used when the terminal size is unknown
const (
	DefaultWidth  = 120
	DefaultHeight = 50
)

// Console holds the logical cursor, the glyph buffer and the deferred escape map
// Rune 0 is the empty cell
type Console struct {
	w      *bufio.Writer
	x, y   int
	screen *render.Screen[rune]
	aux    map[vmath.Vec2i]*strings.Builder
}

// NewConsole creates a width x height console writing to out
func NewConsole(out io.Writer, width, height int) *Console {
	return &Console{
		w:      bufio.NewWriterSize(out, 131072), // 128KB buffer
		screen: render.NewScreen[rune](width, height),
		aux:    make(map[vmath.Vec2i]*strings.Builder),
	}
}

func (c *Console) Size() (int, int) {
	return c.screen.Size()
}

// Resize reallocates the glyph buffer and drops pending output
func (c *Console) Resize(width, height int) {
	c.screen.Resize(width, height)
	clear(c.aux)
	c.x, c.y = 0, 0
}

// Cursor returns the logical cursor
func (c *Console) Cursor() (x, y int) {
	return c.x, c.y
}

// Cell returns the buffered glyph at (x, y), 0 if empty
func (c *Console) Cell(x, y int) rune {
	r, _ := c.screen.Get(x, y)
	return r
}

// Pending returns the deferred escape text at (x, y)
func (c *Console) Pending(x, y int) string {
	if b, ok := c.aux[vmath.V2i(x, y)]; ok {
		return b.String()
	}
	return ""
}

// GoTo moves the logical cursor without output
func (c *Console) GoTo(x, y int) {
	c.x, c.y = x, y
}

// GoToImmediate moves the cursor and writes the position escape straight to the stream
func (c *Console) GoToImmediate(x, y int) {
	c.GoTo(x, y)
	c.w.WriteString(ansi.CursorPosition(x+1, y+1))
}

// Write copies text into consecutive cells from the cursor and advances by the rune count
// Runes past the last cell are dropped
func (c *Console) Write(text string) error {
	runes := []rune(text)
	if _, err := c.screen.Copy(c.x, c.y, runes); err != nil {
		return err
	}
	c.Advance(len(runes))
	return nil
}

// Advance moves the cursor n cells forward, wrapping at the row width
func (c *Console) Advance(n int) {
	w := c.screen.Width()
	if w == 0 {
		return
	}
	c.x += n
	c.y += c.x / w
	c.x %= w
}

// WriteAux appends seq to the escape map at (x, y)
func (c *Console) WriteAux(x, y int, seq string) {
	k := vmath.V2i(x, y)
	b, ok := c.aux[k]
	if !ok {
		b = &strings.Builder{}
		c.aux[k] = b
	}
	b.WriteString(seq)
}

// SetStyle defers an SGR sequence to the cursor cell
func (c *Console) SetStyle(s Style) {
	c.WriteAux(c.x, c.y, s.Sequence())
}

// CarriageReturn defers a CR to the cursor cell
func (c *Console) CarriageReturn() {
	c.WriteAux(c.x, c.y, string(rune(ansi.CR)))
}

// Beep defers a BEL to the cursor cell
func (c *Console) Beep() {
	c.WriteAux(c.x, c.y, string(rune(ansi.BEL)))
}

// FullClear erases from the terminal cursor to the end of the screen, immediately
func (c *Console) FullClear() {
	c.w.WriteString(ansi.EraseScreenBelow)
}

// flushTrailingAux emits, in row-major order, escapes keyed past the last cell
// The cursor lands there after text fills the final cell
func (c *Console) flushTrailingAux() {
	var rest []vmath.Vec2i
	for k := range c.aux {
		if !c.screen.InBounds(k.X, k.Y) {
			rest = append(rest, k)
		}
	}
	slices.SortFunc(rest, func(a, b vmath.Vec2i) int {
		if a.Y != b.Y {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})
	for _, k := range rest {
		c.w.WriteString(c.aux[k].String())
	}
}

// Flush emits the frame row-major, then resets the glyph buffer and escape map
// Empty cells and row boundaries are skipped with an explicit reposition before the next glyph
func (c *Console) Flush() error {
	c.GoToImmediate(0, 0)

	width := c.screen.Width()
	owed := false
	for i, r := range c.screen.Cells() {
		x, y := i%width, i/width
		if x == 0 && y > 0 {
			owed = true
		}
		if b, ok := c.aux[vmath.V2i(x, y)]; ok {
			c.w.WriteString(b.String())
		}
		if r == 0 {
			owed = true
			continue
		}
		if owed {
			c.w.WriteString(ansi.CursorPosition(x+1, y+1))
			owed = false
		}
		c.w.WriteRune(r)
	}
	c.flushTrailingAux()

	c.GoToImmediate(0, 0)
	c.screen.Clear()
	clear(c.aux)
	return c.w.Flush()
}
