package builder

import (
	"errors"
	"sync"
	"testing"

	"genopheno/internal/genome"
	"genopheno/internal/grid"

	"github.com/stretchr/testify/require"
)

// box is a toy phenotype holding exactly n reals.
type box struct {
	n      int
	values string
}

func boxBuilder() Builder[genome.RealVector, *box] {
	return Func[genome.RealVector, *box]{
		Example: func(target *box) (genome.RealVector, error) {
			return genome.Zeroed[float64](target.n), nil
		},
		Converter: func(target *box) (Converter[genome.RealVector, *box], error) {
			return func(g genome.RealVector) (*box, error) {
				if err := genome.CheckSize("box", target.n, g.Size()); err != nil {
					return nil, err
				}
				out := &box{n: target.n}
				for _, v := range g {
					if v > 0 {
						out.values += "+"
					} else {
						out.values += "0"
					}
				}
				return out, nil
			}, nil
		},
	}
}

// bitsToReals doubles the length: two bits per real.
func bitsToReals() Builder[genome.BitVector, genome.RealVector] {
	return Func[genome.BitVector, genome.RealVector]{
		Example: func(target genome.RealVector) (genome.BitVector, error) {
			return genome.Zeroed[bool](2 * target.Size()), nil
		},
		Converter: func(target genome.RealVector) (Converter[genome.BitVector, genome.RealVector], error) {
			n := target.Size()
			return func(g genome.BitVector) (genome.RealVector, error) {
				if err := genome.CheckSize("bits", 2*n, g.Size()); err != nil {
					return nil, err
				}
				out := make(genome.RealVector, n)
				for i := range out {
					if g[2*i] {
						out[i] = 1
					}
				}
				return out, nil
			}, nil
		},
	}
}

func TestExampleIsTheOnlyAcceptedSize(t *testing.T) {
	b := boxBuilder()
	target := &box{n: 3}
	example, err := b.ExampleFor(target)
	require.NoError(t, err)
	require.Equal(t, 3, example.Size())

	convert, err := b.ConverterFor(target)
	require.NoError(t, err)
	_, err = convert(example)
	require.NoError(t, err)

	for _, n := range []int{2, 4} {
		_, err = convert(genome.Zeroed[float64](n))
		require.ErrorIs(t, err, genome.ErrShapeMismatch, "size %d", n)
	}
}

func TestComposeLaw(t *testing.T) {
	outer := boxBuilder()
	inner := bitsToReals()
	composed := Compose[genome.BitVector, genome.RealVector, *box](outer, inner)
	target := &box{n: 3}

	mid, err := outer.ExampleFor(target)
	require.NoError(t, err)
	want, err := inner.ExampleFor(mid)
	require.NoError(t, err)

	got, err := composed.ExampleFor(target)
	require.NoError(t, err)
	require.Equal(t, want.Size(), got.Size())
	require.Equal(t, 6, got.Size())

	convert, err := composed.ConverterFor(target)
	require.NoError(t, err)
	phenotype, err := convert(genome.BitVector{true, false, false, false, true, true})
	require.NoError(t, err)
	require.Equal(t, "+0+", phenotype.values)

	_, err = convert(genome.Zeroed[bool](5))
	require.ErrorIs(t, err, genome.ErrShapeMismatch)
	_, err = convert(genome.Zeroed[bool](7))
	require.ErrorIs(t, err, genome.ErrShapeMismatch)
}

func TestComposeConcurrentUse(t *testing.T) {
	composed := Compose[genome.BitVector, genome.RealVector, *box](boxBuilder(), bitsToReals())
	targets := []*box{{n: 1}, {n: 2}, {n: 3}}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := targets[i%len(targets)]
			example, err := composed.ExampleFor(target)
			if err != nil {
				errs <- err
				return
			}
			if example.Size() != 2*target.n {
				errs <- errors.New("example size desynchronized")
				return
			}
			convert, err := composed.ConverterFor(target)
			if err != nil {
				errs <- err
				return
			}
			if _, err := convert(example); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestGridOfSkipsAbsentCells(t *testing.T) {
	target := grid.New[*box](2, 1)
	require.NoError(t, target.Set(0, 0, &box{n: 3}))

	b := GridOf[float64, *box](boxBuilder())
	example, err := b.ExampleFor(target)
	require.NoError(t, err)
	require.Equal(t, 3, example.Size())

	convert, err := b.ConverterFor(target)
	require.NoError(t, err)
	out, err := convert(genome.RealVector{1, 0, 1})
	require.NoError(t, err)
	cell, ok := out.Get(0, 0)
	require.True(t, ok)
	require.Equal(t, "+0+", cell.values)
	_, ok = out.Get(1, 0)
	require.False(t, ok)

	_, err = convert(genome.RealVector{1, 0})
	require.ErrorIs(t, err, genome.ErrShapeMismatch)
}

func TestGridOfRowMajorSlicing(t *testing.T) {
	target := grid.New[*box](2, 2)
	require.NoError(t, target.Set(1, 0, &box{n: 1}))
	require.NoError(t, target.Set(0, 1, &box{n: 2}))
	require.NoError(t, target.Set(1, 1, &box{n: 1}))

	b := GridOf[float64, *box](boxBuilder())
	convert, err := b.ConverterFor(target)
	require.NoError(t, err)
	out, err := convert(genome.RealVector{1, 0, 1, 0})
	require.NoError(t, err)

	a, _ := out.Get(1, 0)
	c, _ := out.Get(0, 1)
	d, _ := out.Get(1, 1)
	require.Equal(t, "+", a.values)
	require.Equal(t, "0+", c.values)
	require.Equal(t, "0", d.values)
}

func TestHomogeneous(t *testing.T) {
	target := grid.New[*box](3, 1)
	require.NoError(t, target.Set(0, 0, &box{n: 2}))
	require.NoError(t, target.Set(2, 0, &box{n: 2}))

	b := Homogeneous[float64, *box](boxBuilder())
	example, err := b.ExampleFor(target)
	require.NoError(t, err)
	require.Equal(t, 2, example.Size())

	convert, err := b.ConverterFor(target)
	require.NoError(t, err)
	out, err := convert(genome.RealVector{1, 0})
	require.NoError(t, err)
	left, _ := out.Get(0, 0)
	right, _ := out.Get(2, 0)
	require.Equal(t, left.values, right.values)

	require.NoError(t, target.Set(1, 0, &box{n: 3}))
	_, err = b.ExampleFor(target)
	require.ErrorIs(t, err, genome.ErrShapeMismatch)
}

func TestEraseChecksKinds(t *testing.T) {
	d := Erase[genome.RealVector, *box](boxBuilder())

	_, err := d.ExampleFor("not a box")
	require.ErrorIs(t, err, genome.ErrShapeMismatch)

	convert, err := d.ConverterFor(&box{n: 1})
	require.NoError(t, err)
	_, err = convert(genome.BitVector{true})
	require.ErrorIs(t, err, genome.ErrShapeMismatch)

	p, err := convert(genome.RealVector{1})
	require.NoError(t, err)
	require.Equal(t, "+", p.(*box).values)

	back := Typed[genome.RealVector, *box](d)
	example, err := back.ExampleFor(&box{n: 4})
	require.NoError(t, err)
	require.Equal(t, 4, example.Size())
}

func TestErasedCompose(t *testing.T) {
	composed := Compose[any, any, any](
		Erase[genome.RealVector, *box](boxBuilder()),
		Erase[genome.BitVector, genome.RealVector](bitsToReals()),
	)
	example, err := composed.ExampleFor(&box{n: 2})
	require.NoError(t, err)
	require.Equal(t, genome.BitVector{false, false, false, false}, example)
}

func TestSameTarget(t *testing.T) {
	p := &box{n: 1}
	require.True(t, sameTarget[any](p, p))
	require.False(t, sameTarget[any](p, &box{n: 1}))
	require.False(t, sameTarget[any](grid.New[int](1, 1), grid.New[int](1, 1)))
	require.True(t, sameTarget[any](nil, nil))
	require.False(t, sameTarget[any](1, "1"))
}
