package render

import (
	"fmt"
)

// Screen is a flat row-major cell buffer indexed y*width+x
// The zero value of T is the empty cell
type Screen[T any] struct {
	cells  []T
	width  int
	height int
}

// NewScreen creates a screen with every cell empty
func NewScreen[T any](width, height int) *Screen[T] {
	s := &Screen[T]{}
	s.Resize(width, height)
	return s
}

// Resize adjusts dimensions, reallocates only if capacity insufficient, and resets all cells
func (s *Screen[T]) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(s.cells) < size {
		s.cells = make([]T, size)
	} else {
		s.cells = s.cells[:size]
	}
	s.width = width
	s.height = height
	s.Clear()
}

// Clear resets all cells to empty using exponential copy
func (s *Screen[T]) Clear() {
	if len(s.cells) == 0 {
		return
	}
	var zero T
	s.cells[0] = zero
	for filled := 1; filled < len(s.cells); filled *= 2 {
		copy(s.cells[filled:], s.cells[:filled])
	}
}

func (s *Screen[T]) Width() int  { return s.width }
func (s *Screen[T]) Height() int { return s.height }

// Size returns width and height
func (s *Screen[T]) Size() (int, int) {
	return s.width, s.height
}

// Len returns the cell count, always width*height
func (s *Screen[T]) Len() int {
	return len(s.cells)
}

// InBounds returns true if in screen bounds
func (s *Screen[T]) InBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Index returns the flat index of (x, y)
func (s *Screen[T]) Index(x, y int) (int, error) {
	if !s.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrIndexOutOfRange, x, y, s.width, s.height)
	}
	return y*s.width + x, nil
}

// Set writes one cell
func (s *Screen[T]) Set(x, y int, v T) error {
	idx, err := s.Index(x, y)
	if err != nil {
		return err
	}
	s.cells[idx] = v
	return nil
}

// Get reads one cell, out of range reads return the empty value and false
func (s *Screen[T]) Get(x, y int) (T, bool) {
	if !s.InBounds(x, y) {
		var zero T
		return zero, false
	}
	return s.cells[y*s.width+x], true
}

// Copy writes vals into consecutive cells starting at (x, y), wrapping across rows
// Values past the last cell are dropped; returns the number written
func (s *Screen[T]) Copy(x, y int, vals []T) (int, error) {
	idx, err := s.Index(x, y)
	if err != nil {
		return 0, err
	}
	return copy(s.cells[idx:], vals), nil
}

// Cells exposes the backing slice for read-only iteration
func (s *Screen[T]) Cells() []T {
	return s.cells
}
