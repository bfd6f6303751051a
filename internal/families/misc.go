package families

import (
	"fmt"

	"genopheno/internal/builder"
	"genopheno/internal/genome"
)

const (
	DefaultBits = 8
	MaxBits     = 32
)

// BitsToReals decodes each real of the target from a Gray-coded group of bits,
// scaled onto [-1, 1].
func BitsToReals(bits int) (builder.Builder[genome.BitVector, genome.RealVector], error) {
	if bits < 1 || bits > MaxBits {
		return nil, fmt.Errorf("bits must be in [1,%d], got %d", MaxBits, bits)
	}
	return builder.Func[genome.BitVector, genome.RealVector]{
		Example: func(target genome.RealVector) (genome.BitVector, error) {
			return genome.Zeroed[bool](bits * len(target)), nil
		},
		Converter: func(target genome.RealVector) (builder.Converter[genome.BitVector, genome.RealVector], error) {
			n := len(target)
			return func(g genome.BitVector) (genome.RealVector, error) {
				if err := genome.CheckSize("bit genome", bits*n, g.Size()); err != nil {
					return nil, err
				}
				out := make(genome.RealVector, n)
				for i := range out {
					out[i] = grayToUnit(g[i*bits : (i+1)*bits])
				}
				return out, nil
			}, nil
		},
	}, nil
}

// grayToUnit reads bits most significant first.
func grayToUnit(gray []bool) float64 {
	var v uint64
	bit := false
	for _, g := range gray {
		bit = bit != g
		v <<= 1
		if bit {
			v |= 1
		}
	}
	top := uint64(1)<<len(gray) - 1
	return -1 + 2*float64(v)/float64(top)
}

// Identity passes a real vector through unchanged.
func Identity() builder.Builder[genome.RealVector, genome.RealVector] {
	return builder.Func[genome.RealVector, genome.RealVector]{
		Example: func(target genome.RealVector) (genome.RealVector, error) {
			return genome.Zeroed[float64](len(target)), nil
		},
		Converter: func(target genome.RealVector) (builder.Converter[genome.RealVector, genome.RealVector], error) {
			n := len(target)
			return func(g genome.RealVector) (genome.RealVector, error) {
				if err := genome.CheckSize("identity genome", n, g.Size()); err != nil {
					return nil, err
				}
				return g.Clone(), nil
			}, nil
		},
	}
}
