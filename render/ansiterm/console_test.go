package ansiterm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lixenwraith/splat/render"
)

func TestConsoleWriteWraps(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, 10, 3)
	c.GoTo(8, 0)
	if err := c.Write("abcd"); err != nil {
		t.Fatal(err)
	}

	want := map[[2]int]rune{{8, 0}: 'a', {9, 0}: 'b', {0, 1}: 'c', {1, 1}: 'd'}
	for p, r := range want {
		if got := c.Cell(p[0], p[1]); got != r {
			t.Errorf("Expected %q at %v, got %q", r, p, got)
		}
	}
	if x, y := c.Cursor(); x != 2 || y != 1 {
		t.Errorf("Expected cursor (2,1), got (%d,%d)", x, y)
	}
}

func TestConsoleAdvance(t *testing.T) {
	tests := []struct {
		name         string
		x, y, n      int
		wantX, wantY int
	}{
		{"within row", 0, 0, 3, 3, 0},
		{"lands on width wraps", 5, 0, 5, 0, 1},
		{"multiple rows", 2, 0, 25, 7, 2},
		{"zero", 4, 1, 0, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConsole(&bytes.Buffer{}, 10, 5)
			c.GoTo(tt.x, tt.y)
			c.Advance(tt.n)
			if x, y := c.Cursor(); x != tt.wantX || y != tt.wantY {
				t.Errorf("Expected (%d,%d), got (%d,%d)", tt.wantX, tt.wantY, x, y)
			}
		})
	}
}

func TestConsoleWriteTruncatesAtEnd(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, 3, 1)
	c.GoTo(1, 0)
	if err := c.Write("xyz"); err != nil {
		t.Fatalf("Expected truncation without error, got %v", err)
	}
	if c.Cell(1, 0) != 'x' || c.Cell(2, 0) != 'y' {
		t.Errorf("Expected \"xy\" kept, got %q %q", c.Cell(1, 0), c.Cell(2, 0))
	}

	c.GoTo(3, 0)
	if err := c.Write("q"); !errors.Is(err, render.ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestConsoleFlushStream(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, 4, 2)
	c.GoTo(1, 0)
	c.Write("ab")
	c.GoTo(0, 1)
	c.Write("c")

	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "\x1b[H\x1b[1;2Hab\x1b[2;1Hc\x1b[H"
	if got := out.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if c.Cell(1, 0) != 0 {
		t.Error("Expected glyph buffer reset after flush")
	}
	if x, y := c.Cursor(); x != 0 || y != 0 {
		t.Errorf("Expected cursor homed, got (%d,%d)", x, y)
	}
}

func TestConsoleRowBoundaryRepositions(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, 2, 2)
	c.Write("abcd")
	c.Flush()

	want := "\x1b[Hab\x1b[2;1Hcd\x1b[H"
	if got := out.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestConsoleDeferredEscapes(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, 4, 1)
	c.SetStyle(StyleUnderline)
	c.Write("hi")
	c.SetStyle(StyleNone)

	if got := c.Pending(2, 0); got != "\x1b[0m" {
		t.Errorf("Expected reset pending at cursor cell, got %q", got)
	}
	c.Flush()

	want := "\x1b[H\x1b[4mhi\x1b[0m\x1b[H"
	if got := out.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	out.Reset()
	c.Write("hi")
	c.Flush()
	if got := out.String(); got != "\x1b[Hhi\x1b[H" {
		t.Errorf("Expected escape map drained by previous flush, got %q", got)
	}
}

func TestConsoleAuxAppends(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, 4, 1)
	c.GoTo(1, 0)
	c.Beep()
	c.CarriageReturn()
	c.WriteAux(1, 0, "\x1b[1m")

	if got := c.Pending(1, 0); got != "\a\r\x1b[1m" {
		t.Errorf("Expected appended escapes in order, got %q", got)
	}
}

func TestConsoleImmediateOutput(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, 10, 10)
	c.GoToImmediate(4, 2)
	c.FullClear()
	c.w.Flush()

	if got := out.String(); got != "\x1b[3;5H\x1b[J" {
		t.Errorf("Expected 1-based CUP and erase-below, got %q", got)
	}
}

func TestStyleSequences(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{StyleNone, "\x1b[0m"},
		{StyleBold, "\x1b[1m"},
		{StyleItalic, "\x1b[3m"},
		{StyleUnderline, "\x1b[4m"},
		{StyleInvert, "\x1b[7m"},
		{StyleCrossedOut, "\x1b[9m"},
		{StyleFraktur, "\x1b[20m"},
		{StyleSetBrightBackgroundColor, "\x1b[100m"},
	}
	for _, tt := range tests {
		if got := tt.style.Sequence(); got != tt.want {
			t.Errorf("Style %d: expected %q, got %q", tt.style.Code(), tt.want, got)
		}
	}
}

func TestParseStyle(t *testing.T) {
	if s, ok := ParseStyle("underline"); !ok || s != StyleUnderline {
		t.Errorf("Expected underline, got %d (%v)", s, ok)
	}
	if _, ok := ParseStyle("sparkle"); ok {
		t.Error("Expected unknown style to be rejected")
	}
}
