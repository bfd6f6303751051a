// Package genome holds the closed set of genome shapes fed to builders:
// real vectors, bit vectors, pairs of genomes and grids of sub-genomes.
package genome

import (
	"fmt"

	"genopheno/internal/grid"
)

// Element is the scalar kind of a flat genome.
type Element interface {
	~float64 | ~bool
}

// Vector is a flat genome. Its length is always derived from the builder it feeds.
type Vector[E Element] []E

type (
	RealVector = Vector[float64]
	BitVector  = Vector[bool]
)

// Sized is implemented by every genome kind.
type Sized interface {
	Size() int
}

func (v Vector[E]) Size() int { return len(v) }

// Slice returns a copy of the half-open range [from, to).
func (v Vector[E]) Slice(from, to int) (Vector[E], error) {
	if from < 0 || to < from || to > len(v) {
		return nil, &ShapeMismatchError{What: fmt.Sprintf("slice [%d,%d)", from, to), Expected: to, Actual: len(v)}
	}
	out := make(Vector[E], to-from)
	copy(out, v[from:to])
	return out, nil
}

func (v Vector[E]) Clone() Vector[E] {
	return append(Vector[E](nil), v...)
}

// Zeroed is the all-zero (or all-false) example genome of length n.
func Zeroed[E Element](n int) Vector[E] {
	if n < 0 {
		n = 0
	}
	return make(Vector[E], n)
}

// Pair joins two independently sized genomes, e.g. flag bits and tunable reals.
type Pair[A, B Sized] struct {
	First  A
	Second B
}

func (p Pair[A, B]) Size() int {
	return p.First.Size() + p.Second.Size()
}

// CheckPair verifies both components against the sizes demanded by a builder.
func CheckPair[A, B Sized](p Pair[A, B], first, second int) error {
	if err := CheckSize("pair first", first, p.First.Size()); err != nil {
		return err
	}
	return CheckSize("pair second", second, p.Second.Size())
}

// GridSize sums the sizes of present cells in row-major order.
func GridSize[S any](shape grid.Grid[S], sizeOf func(x, y int, cell S) (int, error)) (int, error) {
	total := 0
	for _, e := range shape.Entries() {
		if !e.Present {
			continue
		}
		n, err := sizeOf(e.X, e.Y, e.Value)
		if err != nil {
			return 0, fmt.Errorf("cell (%d,%d): %w", e.X, e.Y, err)
		}
		total += n
	}
	return total, nil
}

// SliceGrid consumes flat cell by cell in the same order GridSize visits them,
// taking exactly sizeOf elements per present cell and nothing for absent cells.
// The flat genome must be consumed exactly.
func SliceGrid[E Element, S any](shape grid.Grid[S], flat Vector[E], sizeOf func(x, y int, cell S) (int, error)) (grid.Grid[Vector[E]], error) {
	out := grid.New[Vector[E]](shape.W(), shape.H())
	cursor := 0
	for _, e := range shape.Entries() {
		if !e.Present {
			continue
		}
		n, err := sizeOf(e.X, e.Y, e.Value)
		if err != nil {
			return grid.Grid[Vector[E]]{}, fmt.Errorf("cell (%d,%d): %w", e.X, e.Y, err)
		}
		if cursor+n > len(flat) {
			return grid.Grid[Vector[E]]{}, &ShapeMismatchError{What: "grid genome", Expected: cursor + n, Actual: len(flat)}
		}
		piece, _ := flat.Slice(cursor, cursor+n)
		if err := out.Set(e.X, e.Y, piece); err != nil {
			return grid.Grid[Vector[E]]{}, err
		}
		cursor += n
	}
	if cursor != len(flat) {
		return grid.Grid[Vector[E]]{}, &ShapeMismatchError{What: "grid genome", Expected: cursor, Actual: len(flat)}
	}
	return out, nil
}
