// Package families holds the concrete builder families and the topical
// registries that expose them by name.
package families

import (
	"fmt"

	"genopheno/internal/builder"
	"genopheno/internal/controller"
	"genopheno/internal/genome"
	"genopheno/internal/plasticity"
	"genopheno/internal/registry"
	"genopheno/internal/topology"
)

const (
	DefaultRatio      = 0.65
	DefaultLayers     = 1
	DefaultActivation = "tanh"
)

type MLPConfig struct {
	Ratio      float64
	Layers     int
	Activation string
	Bias       bool
}

type RecurrentConfig struct {
	Ratio      float64
	Activation string
}

type SpikingConfig struct {
	Ratio    float64
	Layers   int
	Encoding plasticity.Encoding
	Clip     float64
}

func checkDims(target controller.Controller) (int, int, error) {
	if target == nil {
		return 0, 0, fmt.Errorf("target controller is required")
	}
	dims := controller.ShapeOf(target)
	if dims.Inputs < 0 || dims.Outputs < 0 {
		return 0, 0, fmt.Errorf("target dimensions must be >= 0, got in=%d out=%d", dims.Inputs, dims.Outputs)
	}
	return dims.Inputs, dims.Outputs, nil
}

// MLP sizes a dense network with a funnel topology from the target's dimensions.
func MLP(cfg MLPConfig) builder.Builder[genome.RealVector, controller.Controller] {
	size := func(target controller.Controller) (int, int, []int, int, error) {
		nIn, nOut, err := checkDims(target)
		if err != nil {
			return 0, 0, nil, 0, err
		}
		widths := topology.InnerWidths(nIn, nOut, cfg.Ratio, cfg.Layers)
		n := topology.WeightCount(nIn, widths, nOut)
		if cfg.Bias {
			n += topology.BiasCount(widths, nOut)
		}
		return nIn, nOut, widths, n, nil
	}
	return builder.Func[genome.RealVector, controller.Controller]{
		Example: func(target controller.Controller) (genome.RealVector, error) {
			_, _, _, n, err := size(target)
			if err != nil {
				return nil, err
			}
			return genome.Zeroed[float64](n), nil
		},
		Converter: func(target controller.Controller) (builder.Converter[genome.RealVector, controller.Controller], error) {
			nIn, nOut, widths, n, err := size(target)
			if err != nil {
				return nil, err
			}
			nWeights := topology.WeightCount(nIn, widths, nOut)
			return func(g genome.RealVector) (controller.Controller, error) {
				if err := genome.CheckSize("mlp genome", n, g.Size()); err != nil {
					return nil, err
				}
				var biases []float64
				if cfg.Bias {
					biases = g[nWeights:]
				}
				return controller.NewMLP(nIn, nOut, widths, g[:nWeights], biases, cfg.Activation)
			}, nil
		},
	}
}

// Recurrent sizes an Elman network whose hidden width is the single-layer funnel width.
func Recurrent(cfg RecurrentConfig) builder.Builder[genome.RealVector, controller.Controller] {
	size := func(target controller.Controller) (int, int, int, error) {
		nIn, nOut, err := checkDims(target)
		if err != nil {
			return 0, 0, 0, err
		}
		hidden := topology.InnerWidths(nIn, nOut, cfg.Ratio, 1)[0]
		return nIn, nOut, hidden, nil
	}
	return builder.Func[genome.RealVector, controller.Controller]{
		Example: func(target controller.Controller) (genome.RealVector, error) {
			nIn, nOut, hidden, err := size(target)
			if err != nil {
				return nil, err
			}
			return genome.Zeroed[float64](controller.RecurrentParamCount(nIn, hidden, nOut)), nil
		},
		Converter: func(target controller.Controller) (builder.Converter[genome.RealVector, controller.Controller], error) {
			nIn, nOut, hidden, err := size(target)
			if err != nil {
				return nil, err
			}
			n := controller.RecurrentParamCount(nIn, hidden, nOut)
			return func(g genome.RealVector) (controller.Controller, error) {
				if err := genome.CheckSize("recurrent genome", n, g.Size()); err != nil {
					return nil, err
				}
				return controller.NewRecurrent(nIn, nOut, hidden, g, cfg.Activation)
			}, nil
		},
	}
}

// ruleStrategy is how a spiking family lays weights and rules out in its genome.
type ruleStrategy[G genome.Sized] struct {
	example func(n int) G
	decode  func(g G, n int) (genome.RealVector, []plasticity.Rule, error)
}

func spiking[G genome.Sized](cfg SpikingConfig, s ruleStrategy[G]) builder.Builder[G, controller.Controller] {
	size := func(target controller.Controller) (int, int, []int, int, error) {
		nIn, nOut, err := checkDims(target)
		if err != nil {
			return 0, 0, nil, 0, err
		}
		widths := topology.InnerWidths(nIn, nOut, cfg.Ratio, cfg.Layers)
		return nIn, nOut, widths, topology.WeightCount(nIn, widths, nOut), nil
	}
	return builder.Func[G, controller.Controller]{
		Example: func(target controller.Controller) (G, error) {
			_, _, _, n, err := size(target)
			if err != nil {
				var zero G
				return zero, err
			}
			return s.example(n), nil
		},
		Converter: func(target controller.Controller) (builder.Converter[G, controller.Controller], error) {
			nIn, nOut, widths, n, err := size(target)
			if err != nil {
				return nil, err
			}
			return func(g G) (controller.Controller, error) {
				weights, rules, err := s.decode(g, n)
				if err != nil {
					return nil, err
				}
				return controller.NewSpiking(nIn, nOut, widths, weights, rules, cfg.Clip)
			}, nil
		},
	}
}

func noRules() ruleStrategy[genome.RealVector] {
	return ruleStrategy[genome.RealVector]{
		example: func(n int) genome.RealVector { return genome.Zeroed[float64](n) },
		decode: func(g genome.RealVector, n int) (genome.RealVector, []plasticity.Rule, error) {
			if err := genome.CheckSize("spiking genome", n, g.Size()); err != nil {
				return nil, nil, err
			}
			return g, nil, nil
		},
	}
}

func flagRules() ruleStrategy[genome.Pair[genome.BitVector, genome.RealVector]] {
	codec := plasticity.FlagTriple{}
	return ruleStrategy[genome.Pair[genome.BitVector, genome.RealVector]]{
		example: func(n int) genome.Pair[genome.BitVector, genome.RealVector] {
			return genome.Pair[genome.BitVector, genome.RealVector]{
				First:  genome.Zeroed[bool](codec.BitSize(n)),
				Second: genome.Zeroed[float64](n + codec.RealSize(n)),
			}
		},
		decode: func(g genome.Pair[genome.BitVector, genome.RealVector], n int) (genome.RealVector, []plasticity.Rule, error) {
			if err := genome.CheckPair(g, codec.BitSize(n), n+codec.RealSize(n)); err != nil {
				return nil, nil, err
			}
			rules, err := codec.Decode(g.First, g.Second[n:], n)
			if err != nil {
				return nil, nil, err
			}
			return g.Second[:n], rules, nil
		},
	}
}

func groupedRules() ruleStrategy[genome.RealVector] {
	codec := plasticity.Grouped{}
	return ruleStrategy[genome.RealVector]{
		example: func(n int) genome.RealVector { return genome.Zeroed[float64](n + codec.Size(n)) },
		decode: func(g genome.RealVector, n int) (genome.RealVector, []plasticity.Rule, error) {
			if err := genome.CheckSize("spiking genome", n+codec.Size(n), g.Size()); err != nil {
				return nil, nil, err
			}
			rules, err := codec.Decode(g[n:], n)
			if err != nil {
				return nil, nil, err
			}
			return g[:n], rules, nil
		},
	}
}

func pooledRules() ruleStrategy[genome.RealVector] {
	codec := plasticity.Pool{}
	return ruleStrategy[genome.RealVector]{
		example: func(n int) genome.RealVector { return genome.Zeroed[float64](n + codec.Size(n)) },
		decode: func(g genome.RealVector, n int) (genome.RealVector, []plasticity.Rule, error) {
			if err := genome.CheckSize("spiking genome", n+codec.Size(n), g.Size()); err != nil {
				return nil, nil, err
			}
			poolEnd := n + codec.PoolRegion()
			rules, err := codec.Decode(g[n:poolEnd], g[poolEnd:], n)
			if err != nil {
				return nil, nil, err
			}
			return g[:n], rules, nil
		},
	}
}

// SpikingReal builds the spiking families whose genome is a single real vector.
func SpikingReal(cfg SpikingConfig) (builder.Builder[genome.RealVector, controller.Controller], error) {
	switch cfg.Encoding {
	case plasticity.EncodingNone, "":
		return spiking(cfg, noRules()), nil
	case plasticity.EncodingGrouped:
		return spiking(cfg, groupedRules()), nil
	case plasticity.EncodingPool:
		return spiking(cfg, pooledRules()), nil
	default:
		return nil, fmt.Errorf("%w: plasticity=%s needs a flagged genome", registry.ErrBadParam, cfg.Encoding)
	}
}

// SpikingFlagged builds the spiking family whose rules are selected by flag bits.
func SpikingFlagged(cfg SpikingConfig) builder.Builder[genome.Pair[genome.BitVector, genome.RealVector], controller.Controller] {
	return spiking(cfg, flagRules())
}

// Spiking dispatches on the encoding and hides the genome kind.
func Spiking(cfg SpikingConfig) (builder.Dynamic, error) {
	if cfg.Encoding == plasticity.EncodingFlags {
		return builder.Erase(SpikingFlagged(cfg)), nil
	}
	b, err := SpikingReal(cfg)
	if err != nil {
		return nil, err
	}
	return builder.Erase(b), nil
}
