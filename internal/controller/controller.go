// Package controller defines the phenotypes built from genomes and the
// prototypes that fix their shape.
package controller

import (
	"fmt"

	"genopheno/internal/genome"
	"genopheno/internal/nn"
	"genopheno/internal/plasticity"
	"genopheno/internal/topology"
)

// Controller is anything with fixed input/output dimensionality. A value used
// as a target is only asked for its dimensions, never evaluated.
type Controller interface {
	InputSize() int
	OutputSize() int
}

// Shape is a bare prototype carrying only dimensionality.
type Shape struct {
	Inputs  int `json:"inputs" yaml:"inputs"`
	Outputs int `json:"outputs" yaml:"outputs"`
}

func (s Shape) InputSize() int  { return s.Inputs }
func (s Shape) OutputSize() int { return s.Outputs }

// ShapeOf reduces any controller to its prototype.
func ShapeOf(c Controller) Shape {
	return Shape{Inputs: c.InputSize(), Outputs: c.OutputSize()}
}

type MLP struct {
	Inputs     int       `json:"inputs"`
	Outputs    int       `json:"outputs"`
	Widths     []int     `json:"widths"`
	Weights    []float64 `json:"weights"`
	Biases     []float64 `json:"biases,omitempty"`
	Activation string    `json:"activation"`
}

// NewMLP validates every parameter count against the topology before building.
// biases may be nil for bias-free networks.
func NewMLP(nIn, nOut int, widths []int, weights, biases []float64, activation string) (*MLP, error) {
	if err := genome.CheckSize("mlp weights", topology.WeightCount(nIn, widths, nOut), len(weights)); err != nil {
		return nil, err
	}
	if biases != nil {
		if err := genome.CheckSize("mlp biases", topology.BiasCount(widths, nOut), len(biases)); err != nil {
			return nil, err
		}
	}
	if _, err := nn.GetActivation(activation); err != nil {
		return nil, err
	}
	return &MLP{
		Inputs:     nIn,
		Outputs:    nOut,
		Widths:     append([]int{}, widths...),
		Weights:    append([]float64(nil), weights...),
		Biases:     append([]float64(nil), biases...),
		Activation: activation,
	}, nil
}

func (m *MLP) InputSize() int  { return m.Inputs }
func (m *MLP) OutputSize() int { return m.Outputs }

func (m *MLP) Apply(inputs []float64) ([]float64, error) {
	var biases []float64
	if len(m.Biases) > 0 {
		biases = m.Biases
	}
	return nn.Dense(topology.LayerSizes(m.Inputs, m.Widths, m.Outputs), m.Weights, biases, m.Activation, inputs)
}

// Recurrent is an Elman network: the hidden layer sees the inputs and its own
// previous state.
type Recurrent struct {
	Inputs           int       `json:"inputs"`
	Outputs          int       `json:"outputs"`
	Hidden           int       `json:"hidden"`
	InputWeights     []float64 `json:"input_weights"`
	RecurrentWeights []float64 `json:"recurrent_weights"`
	OutputWeights    []float64 `json:"output_weights"`
	Activation       string    `json:"activation"`
}

// RecurrentParamCount is nIn*h + h*h + h*nOut.
func RecurrentParamCount(nIn, hidden, nOut int) int {
	return nIn*hidden + hidden*hidden + hidden*nOut
}

// NewRecurrent splits params into input, recurrent and output blocks.
func NewRecurrent(nIn, nOut, hidden int, params []float64, activation string) (*Recurrent, error) {
	if err := genome.CheckSize("recurrent params", RecurrentParamCount(nIn, hidden, nOut), len(params)); err != nil {
		return nil, err
	}
	if _, err := nn.GetActivation(activation); err != nil {
		return nil, err
	}
	a := nIn * hidden
	b := a + hidden*hidden
	return &Recurrent{
		Inputs:           nIn,
		Outputs:          nOut,
		Hidden:           hidden,
		InputWeights:     append([]float64(nil), params[:a]...),
		RecurrentWeights: append([]float64(nil), params[a:b]...),
		OutputWeights:    append([]float64(nil), params[b:]...),
		Activation:       activation,
	}, nil
}

func (r *Recurrent) InputSize() int  { return r.Inputs }
func (r *Recurrent) OutputSize() int { return r.Outputs }

// Step returns the outputs and the next hidden state; state may be nil at t=0.
func (r *Recurrent) Step(state, inputs []float64) ([]float64, []float64, error) {
	if state == nil {
		state = make([]float64, r.Hidden)
	}
	if len(state) != r.Hidden {
		return nil, nil, fmt.Errorf("recurrent state: expected %d values, got %d", r.Hidden, len(state))
	}
	if len(inputs) != r.Inputs {
		return nil, nil, fmt.Errorf("recurrent input: expected %d values, got %d", r.Inputs, len(inputs))
	}
	act, err := nn.GetActivation(r.Activation)
	if err != nil {
		return nil, nil, err
	}

	next := make([]float64, r.Hidden)
	for j := range next {
		total := 0.0
		for i, v := range inputs {
			total += v * r.InputWeights[j*r.Inputs+i]
		}
		for i, v := range state {
			total += v * r.RecurrentWeights[j*r.Hidden+i]
		}
		next[j] = act.Func(total)
	}
	outputs := make([]float64, r.Outputs)
	for k := range outputs {
		total := 0.0
		for j, v := range next {
			total += v * r.OutputWeights[k*r.Hidden+j]
		}
		outputs[k] = act.Func(total)
	}
	return outputs, next, nil
}

// Spiking is a layered spiking network whose synapses may carry STDP rules.
// Rules, when present, are attached 1:1 to Weights.
type Spiking struct {
	Inputs  int               `json:"inputs"`
	Outputs int               `json:"outputs"`
	Widths  []int             `json:"widths"`
	Weights []float64         `json:"weights"`
	Rules   []plasticity.Rule `json:"rules,omitempty"`
	Clip    float64           `json:"clip,omitempty"`
}

func NewSpiking(nIn, nOut int, widths []int, weights []float64, rules []plasticity.Rule, clip float64) (*Spiking, error) {
	n := topology.WeightCount(nIn, widths, nOut)
	if err := genome.CheckSize("spiking weights", n, len(weights)); err != nil {
		return nil, err
	}
	if rules != nil {
		if err := genome.CheckSize("spiking rules", n, len(rules)); err != nil {
			return nil, err
		}
	}
	if clip < 0 {
		return nil, fmt.Errorf("spiking weight clip must be >= 0, got %f", clip)
	}
	return &Spiking{
		Inputs:  nIn,
		Outputs: nOut,
		Widths:  append([]int{}, widths...),
		Weights: append([]float64(nil), weights...),
		Rules:   append([]plasticity.Rule(nil), rules...),
		Clip:    clip,
	}, nil
}

func (s *Spiking) InputSize() int  { return s.Inputs }
func (s *Spiking) OutputSize() int { return s.Outputs }

// Plastic reports whether any synapse carries an active rule.
func (s *Spiking) Plastic() bool {
	for _, r := range s.Rules {
		if r.Kind != plasticity.Inactive {
			return true
		}
	}
	return false
}

// UpdatedWeight is synapse i's weight after a spike pair with dt = tPost - tPre,
// clipped to the construction-time bound. The network itself is not modified.
func (s *Spiking) UpdatedWeight(i int, dt float64) (float64, error) {
	if i < 0 || i >= len(s.Weights) {
		return 0, fmt.Errorf("synapse %d out of range [0,%d)", i, len(s.Weights))
	}
	w := s.Weights[i]
	if i < len(s.Rules) {
		w += s.Rules[i].Delta(dt)
	}
	return plasticity.Clip(w, s.Clip), nil
}
