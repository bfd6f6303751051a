package controller

import (
	"fmt"
	"math"
	"sort"

	"genopheno/internal/genome"
	"genopheno/internal/grid"
	"genopheno/internal/nn"
	"genopheno/internal/plasticity"
)

// Summary is a printable digest of a built phenotype.
type Summary struct {
	Kind       string         `json:"kind"`
	Inputs     int            `json:"inputs,omitempty"`
	Outputs    int            `json:"outputs,omitempty"`
	Widths     []int          `json:"widths,omitempty"`
	Parameters int            `json:"parameters,omitempty"`
	Range      []float64      `json:"output_range,omitempty"`
	Rules      map[string]int `json:"rules,omitempty"`
	Clip       float64        `json:"clip,omitempty"`
	Width      int            `json:"width,omitempty"`
	Height     int            `json:"height,omitempty"`
	Cells      []CellSummary  `json:"cells,omitempty"`
	PhaseSizes []int          `json:"phase_sizes,omitempty"`
}

type CellSummary struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Summary Summary `json:"summary"`
}

// Summarize digests the phenotypes this module builds.
func Summarize(v any) (Summary, error) {
	switch p := v.(type) {
	case *MLP:
		return Summary{
			Kind:       "mlp",
			Inputs:     p.Inputs,
			Outputs:    p.Outputs,
			Widths:     p.Widths,
			Parameters: len(p.Weights) + len(p.Biases),
			Range:      outputRange(p.Activation),
		}, nil
	case *Recurrent:
		return Summary{
			Kind:       "recurrent",
			Inputs:     p.Inputs,
			Outputs:    p.Outputs,
			Widths:     []int{p.Hidden},
			Parameters: len(p.InputWeights) + len(p.RecurrentWeights) + len(p.OutputWeights),
			Range:      outputRange(p.Activation),
		}, nil
	case *Spiking:
		s := Summary{Kind: "spiking", Inputs: p.Inputs, Outputs: p.Outputs, Widths: p.Widths, Parameters: len(p.Weights), Clip: p.Clip}
		if len(p.Rules) > 0 {
			s.Rules = make(map[string]int)
			for _, r := range p.Rules {
				s.Rules[r.Kind.String()]++
			}
		}
		return s, nil
	case Shape:
		return Summary{Kind: "shape", Inputs: p.Inputs, Outputs: p.Outputs}, nil
	case *DevoSchedule:
		return Summary{Kind: "devo_schedule", Width: p.Mask.W(), Height: p.Mask.H(), PhaseSizes: p.Sizes()}, nil
	case grid.Grid[Controller]:
		s := Summary{Kind: "grid", Width: p.W(), Height: p.H()}
		for _, e := range p.Entries() {
			if !e.Present {
				continue
			}
			cell, err := Summarize(e.Value)
			if err != nil {
				return Summary{}, fmt.Errorf("cell (%d,%d): %w", e.X, e.Y, err)
			}
			s.Cells = append(s.Cells, CellSummary{X: e.X, Y: e.Y, Summary: cell})
		}
		return s, nil
	case grid.Grid[float64]:
		return Summary{Kind: "number_grid", Width: p.W(), Height: p.H(), Parameters: p.Present()}, nil
	case genome.RealVector:
		return Summary{Kind: "reals", Parameters: len(p)}, nil
	default:
		return Summary{}, fmt.Errorf("unsupported phenotype %T", v)
	}
}

// outputRange is the activation's output interval, or nil when it is unbounded.
func outputRange(activation string) []float64 {
	act, err := nn.GetActivation(activation)
	if err != nil || math.IsInf(act.Min, 0) || math.IsInf(act.Max, 0) {
		return nil
	}
	return []float64{act.Min, act.Max}
}

// RuleKinds lists the rule kinds in a summary in kind order, inactive first.
// Names that are not rule kinds sort last.
func (s Summary) RuleKinds() []string {
	kinds := make([]string, 0, len(s.Rules))
	for k := range s.Rules {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		a, errA := plasticity.ParseKind(kinds[i])
		b, errB := plasticity.ParseKind(kinds[j])
		switch {
		case (errA == nil) != (errB == nil):
			return errA == nil
		case errA == nil && a != b:
			return a < b
		default:
			return kinds[i] < kinds[j]
		}
	})
	return kinds
}
