package nn

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

var (
	ErrActivationExists   = errors.New("activation already registered")
	ErrActivationNotFound = errors.New("activation not found")
)

type ActivationFunc func(x float64) float64

// Activation is a named neuron output function together with its output range.
type Activation struct {
	Name string
	Func ActivationFunc
	Min  float64
	Max  float64
}

var activationRegistry = struct {
	mu sync.RWMutex
	m  map[string]Activation
}{
	m: make(map[string]Activation),
}

func init() {
	initializeBuiltInActivations()
}

func initializeBuiltInActivations() {
	MustRegisterActivation(Activation{Name: "identity", Func: func(x float64) float64 { return x }, Min: math.Inf(-1), Max: math.Inf(1)})
	MustRegisterActivation(Activation{Name: "relu", Func: func(x float64) float64 {
		if x < 0 {
			return 0
		}
		return x
	}, Min: 0, Max: math.Inf(1)})
	MustRegisterActivation(Activation{Name: "tanh", Func: math.Tanh, Min: -1, Max: 1})
	MustRegisterActivation(Activation{Name: "sigmoid", Func: func(x float64) float64 {
		return 1.0 / (1.0 + math.Exp(-x))
	}, Min: 0, Max: 1})
	MustRegisterActivation(Activation{Name: "step", Func: func(x float64) float64 {
		if x < 0 {
			return 0
		}
		return 1
	}, Min: 0, Max: 1})
}

func RegisterActivation(a Activation) error {
	name := strings.ToLower(strings.TrimSpace(a.Name))
	if name == "" {
		return errors.New("activation name is required")
	}
	if a.Func == nil {
		return errors.New("activation function is required")
	}
	if a.Min > a.Max {
		return fmt.Errorf("activation %s: min %f exceeds max %f", name, a.Min, a.Max)
	}

	activationRegistry.mu.Lock()
	defer activationRegistry.mu.Unlock()

	if _, exists := activationRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrActivationExists, name)
	}
	a.Name = name
	activationRegistry.m[name] = a
	return nil
}

func MustRegisterActivation(a Activation) {
	if err := RegisterActivation(a); err != nil {
		panic(err)
	}
}

func GetActivation(name string) (Activation, error) {
	activationRegistry.mu.RLock()
	a, ok := activationRegistry.m[strings.ToLower(strings.TrimSpace(name))]
	activationRegistry.mu.RUnlock()
	if !ok {
		return Activation{}, fmt.Errorf("%w: %s", ErrActivationNotFound, name)
	}
	return a, nil
}

func ListActivations() []string {
	activationRegistry.mu.RLock()
	defer activationRegistry.mu.RUnlock()

	names := make([]string, 0, len(activationRegistry.m))
	for name := range activationRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetActivationRegistryForTests() {
	activationRegistry.mu.Lock()
	activationRegistry.m = make(map[string]Activation)
	activationRegistry.mu.Unlock()
	initializeBuiltInActivations()
}
