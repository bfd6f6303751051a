package nn

import (
	"fmt"
)

// Dense runs a fully connected layered network. weights holds, layer after
// layer, the row-major [next][prev] matrix of every consecutive layer pair;
// biases, when present, holds one value per non-input neuron in layer order.
func Dense(sizes []int, weights, biases []float64, activation string, inputs []float64) ([]float64, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("dense network needs at least 2 layers, got %d", len(sizes))
	}
	if len(inputs) != sizes[0] {
		return nil, fmt.Errorf("dense input: expected %d values, got %d", sizes[0], len(inputs))
	}
	act, err := GetActivation(activation)
	if err != nil {
		return nil, err
	}

	values := append([]float64(nil), inputs...)
	wi, bi := 0, 0
	for l := 1; l < len(sizes); l++ {
		next := make([]float64, sizes[l])
		for j := range next {
			total := 0.0
			if biases != nil {
				if bi >= len(biases) {
					return nil, fmt.Errorf("dense biases exhausted at layer %d", l)
				}
				total = biases[bi]
				bi++
			}
			for _, v := range values {
				if wi >= len(weights) {
					return nil, fmt.Errorf("dense weights exhausted at layer %d", l)
				}
				total += v * weights[wi]
				wi++
			}
			next[j] = act.Func(total)
		}
		values = next
	}
	if wi != len(weights) {
		return nil, fmt.Errorf("dense weights: used %d of %d", wi, len(weights))
	}
	return values, nil
}
