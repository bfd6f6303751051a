// Package topology sizes layered networks from their input/output dimensionality.
//
// The same functions are used to size an example genome and to build the
// phenotype that consumes it, so they must stay deterministic.
package topology

import (
	"math"

	"golang.org/x/exp/constraints"
)

// MinCenterWidth is the narrowest center layer a funnel topology may have.
const MinCenterWidth = 2

// InnerWidths returns the hidden layer widths of a funnel/diamond topology.
// The center width is max(2, round(nIn*ratio)); the first half of the layers
// moves linearly from nIn toward it and the second half from it toward nOut.
func InnerWidths(nIn, nOut int, ratio float64, nLayers int) []int {
	if nLayers <= 0 {
		return []int{}
	}
	center := max(MinCenterWidth, int(math.Floor(float64(nIn)*ratio+0.5)))
	widths := make([]int, nLayers)
	if nLayers == 1 {
		widths[0] = center
		return widths
	}

	half := nLayers / 2
	inStep := (center - nIn) / (half + 1)
	outStep := (nOut - center) / (half + 1)
	for i := 0; i < half; i++ {
		widths[i] = atLeast(nIn+inStep*(i+1), 1)
	}
	for i := half; i < nLayers; i++ {
		widths[i] = atLeast(center+outStep*(i-half), 1)
	}
	return widths
}

// LayerSizes returns [nIn] ++ widths ++ [nOut].
func LayerSizes(nIn int, widths []int, nOut int) []int {
	sizes := make([]int, 0, len(widths)+2)
	sizes = append(sizes, nIn)
	sizes = append(sizes, widths...)
	return append(sizes, nOut)
}

// WeightCount is the number of dense connections between consecutive layers.
func WeightCount(nIn int, widths []int, nOut int) int {
	sizes := LayerSizes(nIn, widths, nOut)
	total := 0
	for i := 1; i < len(sizes); i++ {
		total += sizes[i-1] * sizes[i]
	}
	return total
}

// BiasCount is one bias per hidden and output neuron.
func BiasCount(widths []int, nOut int) int {
	total := nOut
	for _, w := range widths {
		total += w
	}
	return total
}

func atLeast[T constraints.Integer](v, floor T) T {
	if v < floor {
		return floor
	}
	return v
}
