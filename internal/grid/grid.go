// Package grid provides a fixed-extent 2-D container whose cells may be absent.
package grid

import (
	"errors"
	"fmt"
)

var ErrOutOfBounds = errors.New("grid cell out of bounds")

// Grid is indexed by (x, y) with 0 <= x < W and 0 <= y < H.
type Grid[T any] struct {
	w, h    int
	cells   []T
	present []bool
}

// Entry is one cell visited by Entries.
type Entry[T any] struct {
	X, Y    int
	Value   T
	Present bool
}

func New[T any](w, h int) Grid[T] {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Grid[T]{
		w:       w,
		h:       h,
		cells:   make([]T, w*h),
		present: make([]bool, w*h),
	}
}

// Filled returns a grid with every cell present and set to v.
func Filled[T any](w, h int, v T) Grid[T] {
	g := New[T](w, h)
	for i := range g.cells {
		g.cells[i] = v
		g.present[i] = true
	}
	return g
}

func (g Grid[T]) W() int { return g.w }
func (g Grid[T]) H() int { return g.h }

func (g Grid[T]) index(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, g.w, g.h)
	}
	return y*g.w + x, nil
}

// Set stores v at (x, y) and marks the cell present.
func (g Grid[T]) Set(x, y int, v T) error {
	i, err := g.index(x, y)
	if err != nil {
		return err
	}
	g.cells[i] = v
	g.present[i] = true
	return nil
}

// Clear marks (x, y) absent.
func (g Grid[T]) Clear(x, y int) error {
	i, err := g.index(x, y)
	if err != nil {
		return err
	}
	var zero T
	g.cells[i] = zero
	g.present[i] = false
	return nil
}

func (g Grid[T]) Get(x, y int) (T, bool) {
	i, err := g.index(x, y)
	if err != nil || !g.present[i] {
		var zero T
		return zero, false
	}
	return g.cells[i], true
}

// Entries visits every cell in row-major order: y outer, x inner.
func (g Grid[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, len(g.cells))
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			i := y*g.w + x
			out = append(out, Entry[T]{X: x, Y: y, Value: g.cells[i], Present: g.present[i]})
		}
	}
	return out
}

// Present counts the present cells.
func (g Grid[T]) Present() int {
	n := 0
	for _, p := range g.present {
		if p {
			n++
		}
	}
	return n
}

// Mask reports which cells are present.
func (g Grid[T]) Mask() Grid[bool] {
	mask := New[bool](g.w, g.h)
	for i, p := range g.present {
		if p {
			mask.cells[i] = true
			mask.present[i] = true
		}
	}
	return mask
}

// Map builds a congruent grid by applying fn to every present cell.
func Map[T, U any](g Grid[T], fn func(x, y int, v T) (U, error)) (Grid[U], error) {
	out := New[U](g.w, g.h)
	for _, e := range g.Entries() {
		if !e.Present {
			continue
		}
		v, err := fn(e.X, e.Y, e.Value)
		if err != nil {
			return Grid[U]{}, fmt.Errorf("cell (%d,%d): %w", e.X, e.Y, err)
		}
		out.cells[e.Y*g.w+e.X] = v
		out.present[e.Y*g.w+e.X] = true
	}
	return out, nil
}

// SameShape reports whether a and b have equal extents and presence masks.
func SameShape[T, U any](a Grid[T], b Grid[U]) bool {
	if a.w != b.w || a.h != b.h {
		return false
	}
	for i := range a.present {
		if a.present[i] != b.present[i] {
			return false
		}
	}
	return true
}
