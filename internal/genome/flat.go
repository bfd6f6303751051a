package genome

// Flatten splits a supported genome into its real and bit components.
func Flatten(g any) ([]float64, []bool, error) {
	switch v := g.(type) {
	case RealVector:
		return append([]float64(nil), v...), nil, nil
	case BitVector:
		return nil, append([]bool(nil), v...), nil
	case Pair[BitVector, RealVector]:
		return append([]float64(nil), v.Second...), append([]bool(nil), v.First...), nil
	default:
		return nil, nil, &KindMismatchError{What: "flatten", Expected: "real, bit or flagged genome", Actual: KindOf(g)}
	}
}

// Fill rebuilds a genome of the same kind and size as example from flat parts.
func Fill(example any, reals []float64, bits []bool) (any, error) {
	switch v := example.(type) {
	case RealVector:
		if err := CheckSize("reals", len(v), len(reals)); err != nil {
			return nil, err
		}
		if err := CheckSize("bits", 0, len(bits)); err != nil {
			return nil, err
		}
		return RealVector(append([]float64(nil), reals...)), nil
	case BitVector:
		if err := CheckSize("bits", len(v), len(bits)); err != nil {
			return nil, err
		}
		if err := CheckSize("reals", 0, len(reals)); err != nil {
			return nil, err
		}
		return BitVector(append([]bool(nil), bits...)), nil
	case Pair[BitVector, RealVector]:
		if err := CheckSize("bits", len(v.First), len(bits)); err != nil {
			return nil, err
		}
		if err := CheckSize("reals", len(v.Second), len(reals)); err != nil {
			return nil, err
		}
		return Pair[BitVector, RealVector]{
			First:  append(BitVector(nil), bits...),
			Second: append(RealVector(nil), reals...),
		}, nil
	default:
		return nil, &KindMismatchError{What: "fill", Expected: "real, bit or flagged genome", Actual: KindOf(example)}
	}
}

// Size reports the total element count of a supported genome.
func Size(g any) (int, error) {
	s, ok := g.(Sized)
	if !ok {
		return 0, &KindMismatchError{What: "size", Expected: "sized genome", Actual: KindOf(g)}
	}
	return s.Size(), nil
}
