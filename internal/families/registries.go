package families

import (
	"fmt"
	"strings"
	"sync"

	"genopheno/internal/builder"
	"genopheno/internal/controller"
	"genopheno/internal/genome"
	"genopheno/internal/nn"
	"genopheno/internal/plasticity"
	"genopheno/internal/registry"
)

var (
	neuralOnce sync.Once
	neural     *registry.Registry
	bodyOnce   sync.Once
	body       *registry.Registry
	miscOnce   sync.Once
	misc       *registry.Registry
)

// Neural holds the controller families: MLP, RNN and SNN.
func Neural() *registry.Registry {
	neuralOnce.Do(func() {
		neural = registry.New("neural")
		neural.MustRegister(registry.Entry{
			Name:    "MLP",
			Doc:     "dense funnel network; r, nIL, act, bias",
			Factory: erased(mlpFromParams),
		})
		neural.MustRegister(registry.Entry{
			Name:    "RNN",
			Doc:     "Elman network; r, act",
			Factory: erased(rnnFromParams),
		})
		neural.MustRegister(registry.Entry{
			Name: "SNN",
			Doc:  "spiking network with plastic synapses; r, nIL, plasticity=none|flags|grouped|pool, clip",
			Factory: func(p registry.Params) (builder.Dynamic, error) {
				cfg, err := spikingConfig(p)
				if err != nil {
					return nil, err
				}
				return Spiking(cfg)
			},
		})
	})
	return neural
}

// Body holds the families whose targets are grids and growth schedules.
func Body() *registry.Registry {
	bodyOnce.Do(func() {
		body = registry.New("body")
		body.MustRegister(registry.Entry{
			Name:    "directNumGrid",
			Doc:     "one real per present cell",
			Factory: func(registry.Params) (builder.Dynamic, error) { return builder.Erase(DirectNumGrid()), nil },
		})
		body.MustRegister(registry.Entry{
			Name:       "devoPhases",
			Positional: []string{"threshold", "phases", "step"},
			Doc:        "growth schedule from a value grid; threshold, phases, step, initial",
			Factory: func(p registry.Params) (builder.Dynamic, error) {
				cfg, err := devoConfig(p)
				if err != nil {
					return nil, err
				}
				b, err := DevoPhases(cfg)
				if err != nil {
					return nil, err
				}
				return builder.Erase(b), nil
			},
		})
		body.MustRegister(registry.Entry{
			Name:       "distributed",
			Positional: []string{"cell"},
			Doc:        "one controller genome per present cell; cell=MLP|RNN|SNN plus its params",
			Factory: func(p registry.Params) (builder.Dynamic, error) {
				cell, err := cellFromParams(p)
				if err != nil {
					return nil, err
				}
				return builder.Erase(Distributed(cell)), nil
			},
		})
		body.MustRegister(registry.Entry{
			Name:       "distributedHomo",
			Positional: []string{"cell"},
			Doc:        "one controller genome shared by every present cell; cell=MLP|RNN|SNN plus its params",
			Factory: func(p registry.Params) (builder.Dynamic, error) {
				cell, err := cellFromParams(p)
				if err != nil {
					return nil, err
				}
				return builder.Erase(DistributedHomo(cell)), nil
			},
		})
	})
	return body
}

// Misc holds vector adapters.
func Misc() *registry.Registry {
	miscOnce.Do(func() {
		misc = registry.New("misc")
		misc.MustRegister(registry.Entry{
			Name:       "bitsToReals",
			Positional: []string{"bits"},
			Doc:        "Gray-coded bit groups onto [-1,1]; bits",
			Factory: func(p registry.Params) (builder.Dynamic, error) {
				bits, err := p.IntOr("bits", DefaultBits)
				if err != nil {
					return nil, err
				}
				b, err := BitsToReals(bits)
				if err != nil {
					return nil, err
				}
				return builder.Erase(b), nil
			},
		})
		misc.MustRegister(registry.Entry{
			Name:    "identity",
			Doc:     "real vector passthrough",
			Factory: func(registry.Params) (builder.Dynamic, error) { return builder.Erase(Identity()), nil },
		})
	})
	return misc
}

// Default resolves across every topical registry.
func Default() registry.Fallback {
	return Neural().Or(Body(), Misc())
}

func erased[G, T any](fn func(registry.Params) (builder.Builder[G, T], error)) registry.Factory {
	return func(p registry.Params) (builder.Dynamic, error) {
		b, err := fn(p)
		if err != nil {
			return nil, err
		}
		return builder.Erase(b), nil
	}
}

func activation(p registry.Params) (string, error) {
	act, err := p.StringOr("act", DefaultActivation)
	if err != nil {
		return "", err
	}
	a, err := nn.GetActivation(act)
	if err != nil {
		return "", fmt.Errorf("%w: act: %v", registry.ErrBadParam, err)
	}
	return a.Name, nil
}

func ratio(p registry.Params) (float64, error) {
	r, err := p.FloatOr("r", DefaultRatio)
	if err != nil {
		return 0, err
	}
	if r <= 0 {
		return 0, fmt.Errorf("%w: r must be > 0, got %v", registry.ErrBadParam, r)
	}
	return r, nil
}

func layers(p registry.Params) (int, error) {
	n, err := p.IntOr("nIL", DefaultLayers)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: nIL must be >= 0, got %d", registry.ErrBadParam, n)
	}
	return n, nil
}

func mlpFromParams(p registry.Params) (builder.Builder[genome.RealVector, controller.Controller], error) {
	var cfg MLPConfig
	var err error
	if cfg.Ratio, err = ratio(p); err != nil {
		return nil, err
	}
	if cfg.Layers, err = layers(p); err != nil {
		return nil, err
	}
	if cfg.Activation, err = activation(p); err != nil {
		return nil, err
	}
	if cfg.Bias, err = p.BoolOr("bias", false); err != nil {
		return nil, err
	}
	return MLP(cfg), nil
}

func rnnFromParams(p registry.Params) (builder.Builder[genome.RealVector, controller.Controller], error) {
	var cfg RecurrentConfig
	var err error
	if cfg.Ratio, err = ratio(p); err != nil {
		return nil, err
	}
	if cfg.Activation, err = activation(p); err != nil {
		return nil, err
	}
	return Recurrent(cfg), nil
}

func spikingConfig(p registry.Params) (SpikingConfig, error) {
	var cfg SpikingConfig
	var err error
	if cfg.Ratio, err = ratio(p); err != nil {
		return cfg, err
	}
	if cfg.Layers, err = layers(p); err != nil {
		return cfg, err
	}
	name, err := p.StringOr("plasticity", string(plasticity.EncodingNone))
	if err != nil {
		return cfg, err
	}
	if cfg.Encoding, err = plasticity.ParseEncoding(name); err != nil {
		return cfg, fmt.Errorf("%w: %v", registry.ErrBadParam, err)
	}
	if cfg.Clip, err = p.FloatOr("clip", 0); err != nil {
		return cfg, err
	}
	if cfg.Clip < 0 {
		return cfg, fmt.Errorf("%w: clip must be >= 0, got %v", registry.ErrBadParam, cfg.Clip)
	}
	return cfg, nil
}

func devoConfig(p registry.Params) (DevoConfig, error) {
	var cfg DevoConfig
	var err error
	if cfg.Threshold, err = p.Float("threshold"); err != nil {
		return cfg, err
	}
	if cfg.Phases, err = p.Int("phases"); err != nil {
		return cfg, err
	}
	if cfg.Step, err = p.Int("step"); err != nil {
		return cfg, err
	}
	if cfg.Initial, err = p.IntOr("initial", cfg.Step); err != nil {
		return cfg, err
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", registry.ErrBadParam, err)
	}
	return cfg, nil
}

// cellFromParams builds the per-cell controller family of a distributed body.
// Only real-vector genomes can be laid out on a grid.
func cellFromParams(p registry.Params) (builder.Builder[genome.RealVector, controller.Controller], error) {
	name, err := p.String("cell")
	if err != nil {
		return nil, err
	}
	rest := p.Without("cell")
	switch strings.ToUpper(name) {
	case "MLP":
		return mlpFromParams(rest)
	case "RNN":
		return rnnFromParams(rest)
	case "SNN":
		cfg, err := spikingConfig(rest)
		if err != nil {
			return nil, err
		}
		return SpikingReal(cfg)
	default:
		return nil, fmt.Errorf("%w: cell=%s", registry.ErrUnknownFamily, name)
	}
}
