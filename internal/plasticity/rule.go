// Package plasticity encodes and decodes per-synapse STDP rules for spiking
// controllers.
package plasticity

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/constraints"
)

// ParamCount is the number of reals each active rule owns:
// potentiation amplitude, depression amplitude, potentiation and depression time constants.
const ParamCount = 4

type Kind int

const (
	Inactive Kind = iota
	SymmetricHebbian
	SymmetricAntiHebbian
	AsymmetricHebbian
	AsymmetricAntiHebbian
)

func (k Kind) String() string {
	switch k {
	case Inactive:
		return "inactive"
	case SymmetricHebbian:
		return "symmetric_hebbian"
	case SymmetricAntiHebbian:
		return "symmetric_anti_hebbian"
	case AsymmetricHebbian:
		return "asymmetric_hebbian"
	case AsymmetricAntiHebbian:
		return "asymmetric_anti_hebbian"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) Symmetric() bool {
	return k == SymmetricHebbian || k == SymmetricAntiHebbian
}

func (k Kind) Hebbian() bool {
	return k == SymmetricHebbian || k == AsymmetricHebbian
}

// KindFor selects the active kind for a symmetric/hebbian flag combination.
func KindFor(symmetric, hebbian bool) Kind {
	switch {
	case symmetric && hebbian:
		return SymmetricHebbian
	case symmetric:
		return SymmetricAntiHebbian
	case hebbian:
		return AsymmetricHebbian
	default:
		return AsymmetricAntiHebbian
	}
}

// ParseKind accepts the String form, case-insensitively.
func ParseKind(name string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for k := Inactive; k <= AsymmetricAntiHebbian; k++ {
		if k.String() == normalized {
			return k, nil
		}
	}
	if normalized == "" || normalized == "none" {
		return Inactive, nil
	}
	return Inactive, fmt.Errorf("unsupported plasticity rule: %s", name)
}

// Box is the per-parameter range a scaled rule lives in.
type Box struct {
	Min [ParamCount]float64
	Max [ParamCount]float64
}

var (
	SymmetricBox = Box{
		Min: [ParamCount]float64{0.5, 0.1, 1, 5},
		Max: [ParamCount]float64{1.5, 0.5, 5, 20},
	}
	AsymmetricBox = Box{
		Min: [ParamCount]float64{0.1, 0.1, 1, 1},
		Max: [ParamCount]float64{1, 1, 20, 20},
	}
)

func BoxFor(k Kind) Box {
	if k.Symmetric() {
		return SymmetricBox
	}
	return AsymmetricBox
}

// Rule is one synapse's plasticity. Inactive rules carry zero params.
type Rule struct {
	Kind   Kind
	Params [ParamCount]float64
}

// Scale maps a raw tuple from the [-1,1] range of the search operator affinely
// into the kind's box. It is applied once, at decode time.
func Scale(k Kind, raw []float64) ([ParamCount]float64, error) {
	var out [ParamCount]float64
	if len(raw) != ParamCount {
		return out, fmt.Errorf("rule params: expected %d values, got %d", ParamCount, len(raw))
	}
	box := BoxFor(k)
	for i, v := range raw {
		out[i] = box.Min[i] + (v+1)/2*(box.Max[i]-box.Min[i])
	}
	return out, nil
}

// NewRule scales raw into a rule of kind k; Inactive ignores raw.
func NewRule(k Kind, raw []float64) (Rule, error) {
	if k == Inactive {
		return Rule{Kind: Inactive}, nil
	}
	params, err := Scale(k, raw)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Kind: k, Params: params}, nil
}

// Delta is the weight change for a spike pair with dt = tPost - tPre.
func (r Rule) Delta(dt float64) float64 {
	aPlus, aMinus, tauPlus, tauMinus := r.Params[0], r.Params[1], r.Params[2], r.Params[3]
	switch r.Kind {
	case SymmetricHebbian, SymmetricAntiHebbian:
		d := aPlus*math.Exp(-dt*dt/(tauPlus*tauPlus)) - aMinus*math.Exp(-dt*dt/(tauMinus*tauMinus))
		if r.Kind == SymmetricAntiHebbian {
			return -d
		}
		return d
	case AsymmetricHebbian, AsymmetricAntiHebbian:
		var d float64
		switch {
		case dt > 0:
			d = aPlus * math.Exp(-dt/tauPlus)
		case dt < 0:
			d = -aMinus * math.Exp(dt/tauMinus)
		}
		if r.Kind == AsymmetricAntiHebbian {
			return -d
		}
		return d
	default:
		return 0
	}
}

// Clip clamps a synaptic weight into [-limit, limit]; limit <= 0 disables clipping.
func Clip(w, limit float64) float64 {
	if limit <= 0 {
		return w
	}
	return clamp(w, -limit, limit)
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
