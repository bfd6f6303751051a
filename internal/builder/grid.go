package builder

import (
	"fmt"

	"genopheno/internal/genome"
	"genopheno/internal/grid"
)

// GridOf lifts a per-cell builder to a grid of targets. The flat genome is the
// row-major concatenation of the present cells' genomes; absent cells take none.
func GridOf[E genome.Element, T any](cell Builder[genome.Vector[E], T]) Builder[genome.Vector[E], grid.Grid[T]] {
	return gridBuilder[E, T]{cell: cell}
}

type gridBuilder[E genome.Element, T any] struct {
	cell Builder[genome.Vector[E], T]
}

func (b gridBuilder[E, T]) sizes(target grid.Grid[T]) (grid.Grid[int], error) {
	return grid.Map(target, func(_, _ int, t T) (int, error) {
		example, err := b.cell.ExampleFor(t)
		if err != nil {
			return 0, err
		}
		return example.Size(), nil
	})
}

func (b gridBuilder[E, T]) ExampleFor(target grid.Grid[T]) (genome.Vector[E], error) {
	sizes, err := b.sizes(target)
	if err != nil {
		return nil, err
	}
	total, err := genome.GridSize(sizes, cellSize)
	if err != nil {
		return nil, err
	}
	return genome.Zeroed[E](total), nil
}

func (b gridBuilder[E, T]) ConverterFor(target grid.Grid[T]) (Converter[genome.Vector[E], grid.Grid[T]], error) {
	sizes, err := b.sizes(target)
	if err != nil {
		return nil, err
	}
	total, err := genome.GridSize(sizes, cellSize)
	if err != nil {
		return nil, err
	}
	converters, err := grid.Map(target, func(_, _ int, t T) (Converter[genome.Vector[E], T], error) {
		return b.cell.ConverterFor(t)
	})
	if err != nil {
		return nil, err
	}

	return func(g genome.Vector[E]) (grid.Grid[T], error) {
		if err := genome.CheckSize("grid genome", total, g.Size()); err != nil {
			return grid.Grid[T]{}, err
		}
		pieces, err := genome.SliceGrid(sizes, g, cellSize)
		if err != nil {
			return grid.Grid[T]{}, err
		}
		return grid.Map(pieces, func(x, y int, piece genome.Vector[E]) (T, error) {
			convert, _ := converters.Get(x, y)
			return convert(piece)
		})
	}, nil
}

func cellSize(_, _ int, n int) (int, error) { return n, nil }

// Homogeneous shares one cell genome across every present cell. All present
// cells must demand the same genome size.
func Homogeneous[E genome.Element, T any](cell Builder[genome.Vector[E], T]) Builder[genome.Vector[E], grid.Grid[T]] {
	return homogeneousBuilder[E, T]{cell: cell}
}

type homogeneousBuilder[E genome.Element, T any] struct {
	cell Builder[genome.Vector[E], T]
}

func (b homogeneousBuilder[E, T]) size(target grid.Grid[T]) (int, error) {
	size := -1
	for _, e := range target.Entries() {
		if !e.Present {
			continue
		}
		example, err := b.cell.ExampleFor(e.Value)
		if err != nil {
			return 0, fmt.Errorf("cell (%d,%d): %w", e.X, e.Y, err)
		}
		if size < 0 {
			size = example.Size()
			continue
		}
		if err := genome.CheckSize(fmt.Sprintf("shared genome at cell (%d,%d)", e.X, e.Y), size, example.Size()); err != nil {
			return 0, err
		}
	}
	if size < 0 {
		return 0, nil
	}
	return size, nil
}

func (b homogeneousBuilder[E, T]) ExampleFor(target grid.Grid[T]) (genome.Vector[E], error) {
	size, err := b.size(target)
	if err != nil {
		return nil, err
	}
	return genome.Zeroed[E](size), nil
}

func (b homogeneousBuilder[E, T]) ConverterFor(target grid.Grid[T]) (Converter[genome.Vector[E], grid.Grid[T]], error) {
	size, err := b.size(target)
	if err != nil {
		return nil, err
	}
	converters, err := grid.Map(target, func(_, _ int, t T) (Converter[genome.Vector[E], T], error) {
		return b.cell.ConverterFor(t)
	})
	if err != nil {
		return nil, err
	}
	return func(g genome.Vector[E]) (grid.Grid[T], error) {
		if err := genome.CheckSize("shared genome", size, g.Size()); err != nil {
			return grid.Grid[T]{}, err
		}
		return grid.Map(converters, func(_, _ int, convert Converter[genome.Vector[E], T]) (T, error) {
			return convert(g.Clone())
		})
	}, nil
}
