package registry

import (
	"errors"
	"testing"

	"genopheno/internal/builder"
	"genopheno/internal/genome"

	"github.com/stretchr/testify/require"
)

// lengthBuilder treats an int target as the genome length and returns it back.
func lengthBuilder(scale int) builder.Dynamic {
	return builder.Erase[genome.RealVector, int](builder.Func[genome.RealVector, int]{
		Example: func(target int) (genome.RealVector, error) {
			return genome.Zeroed[float64](target * scale), nil
		},
		Converter: func(target int) (builder.Converter[genome.RealVector, int], error) {
			return func(g genome.RealVector) (int, error) {
				if err := genome.CheckSize("length", target*scale, g.Size()); err != nil {
					return 0, err
				}
				return target, nil
			}, nil
		},
	})
}

func scaledEntry(name string) Entry {
	return Entry{
		Name:       name,
		Positional: []string{"scale"},
		Factory: func(p Params) (builder.Dynamic, error) {
			scale, err := p.IntOr("scale", 1)
			if err != nil {
				return nil, err
			}
			if scale <= 0 {
				return nil, errors.New("scale must be positive")
			}
			return lengthBuilder(scale), nil
		},
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := New("test")
	require.NoError(t, r.Register(scaledEntry("len")))
	require.ErrorIs(t, r.Register(scaledEntry("len")), ErrEntryExists)
	require.Error(t, r.Register(Entry{Name: "nofactory"}))
	require.Equal(t, []string{"len"}, r.Names())
}

func TestBuildMapAPIPropagatesErrors(t *testing.T) {
	r := New("test")
	r.MustRegister(scaledEntry("len"))

	_, err := r.Build("missing", nil)
	require.ErrorIs(t, err, ErrUnknownFamily)
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = r.Build("len", Params{"scale": "x"})
	require.ErrorIs(t, err, ErrBadParam)

	_, err = r.Build("len", Params{"scale": 0})
	require.ErrorIs(t, err, ErrBadParam)

	b, err := r.Build("len", Params{"scale": 2})
	require.NoError(t, err)
	example, err := b.ExampleFor(3)
	require.NoError(t, err)
	require.Equal(t, 6, example.(genome.RealVector).Size())
}

func TestResolveStringAPI(t *testing.T) {
	r := New("test")
	r.MustRegister(scaledEntry("len"))

	b, ok := Resolve(r, "len;scale=3")
	require.True(t, ok)
	example, err := b.ExampleFor(2)
	require.NoError(t, err)
	require.Equal(t, 6, example.(genome.RealVector).Size())

	b, ok = Resolve(r, "len-4")
	require.True(t, ok)
	example, err = b.ExampleFor(1)
	require.NoError(t, err)
	require.Equal(t, 4, example.(genome.RealVector).Size())

	for _, config := range []string{"", "unknown", "len;scale=abc", "len;scale=0", "len-1;scale=2", "len-1-2"} {
		_, ok := Resolve(r, config)
		require.False(t, ok, "config %q", config)
	}
}

func TestResolveRecoversPanics(t *testing.T) {
	r := New("test")
	r.MustRegister(Entry{Name: "boom", Factory: func(Params) (builder.Dynamic, error) { panic("boom") }})
	_, ok := Resolve(r, "boom")
	require.False(t, ok)
}

func TestFallback(t *testing.T) {
	a := New("a")
	a.MustRegister(scaledEntry("onlyA"))
	b := New("b")
	b.MustRegister(scaledEntry("onlyB"))

	merged := a.Or(b)
	built, ok := Resolve(merged, "onlyB;scale=5")
	require.True(t, ok)
	example, err := built.ExampleFor(1)
	require.NoError(t, err)
	require.Equal(t, 5, example.(genome.RealVector).Size())

	_, ok = Resolve(merged, "neither")
	require.False(t, ok)
	_, err = merged.Build("neither", nil)
	require.ErrorIs(t, err, ErrConfiguration)

	require.Equal(t, []string{"onlyA", "onlyB"}, merged.Names())

	e, ok := merged.Entry("onlyB")
	require.True(t, ok)
	require.Equal(t, "onlyB", e.Name)
	_, ok = merged.Entry("neither")
	require.False(t, ok)
}

func TestPipelineComposes(t *testing.T) {
	r := New("test")
	r.MustRegister(scaledEntry("len"))
	r.MustRegister(Entry{Name: "wrap", Factory: func(Params) (builder.Dynamic, error) {
		// genome length n becomes the target of the next stage
		return builder.Erase[int, int](builder.Func[int, int]{
			Example: func(target int) (int, error) { return target * 10, nil },
			Converter: func(target int) (builder.Converter[int, int], error) {
				return func(g int) (int, error) {
					if err := genome.CheckSize("wrap", target*10, g); err != nil {
						return 0, err
					}
					return target, nil
				}, nil
			},
		}), nil
	}})

	chain, err := BuildString(r, "wrap < len;scale=2")
	require.NoError(t, err)
	example, err := chain.ExampleFor(1)
	require.NoError(t, err)
	require.Equal(t, 20, example.(genome.RealVector).Size())

	convert, err := chain.ConverterFor(1)
	require.NoError(t, err)
	out, err := convert(example)
	require.NoError(t, err)
	require.Equal(t, 1, out)

	_, err = convert(genome.Zeroed[float64](19))
	require.ErrorIs(t, err, genome.ErrShapeMismatch)
}
