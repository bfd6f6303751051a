// Package registry resolves configuration strings such as
// "MLP;r=0.65;nIL=1" or "devoPhases-1.0-5-1<directNumGrid" into builders.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"genopheno/internal/builder"
)

// ErrConfiguration is matched by every recoverable resolution failure: unknown
// family, missing or unparsable parameter, malformed configuration string.
var ErrConfiguration = errors.New("configuration error")

var (
	ErrUnknownFamily = fmt.Errorf("%w: unknown family", ErrConfiguration)
	ErrMissingParam  = fmt.Errorf("%w: missing parameter", ErrConfiguration)
	ErrBadParam      = fmt.Errorf("%w: bad parameter", ErrConfiguration)
	ErrSyntax        = fmt.Errorf("%w: syntax", ErrConfiguration)
	ErrEntryExists   = errors.New("family already registered")
)

// Factory builds a builder from its parameters.
type Factory func(p Params) (builder.Dynamic, error)

// Entry is one named family. Positional names the keys that dash-separated
// arguments in the name token fill, in order.
type Entry struct {
	Name       string
	Positional []string
	Doc        string
	Factory    Factory
}

// Resolver builds a named family from a parameter map. Errors are structural
// and propagate; see Resolve for the recovering string API.
type Resolver interface {
	Build(name string, params Params) (builder.Dynamic, error)
	Names() []string
}

type Registry struct {
	name string

	mu sync.RWMutex
	m  map[string]Entry
}

func New(name string) *Registry {
	return &Registry{name: name, m: make(map[string]Entry)}
}

func (r *Registry) Register(e Entry) error {
	if e.Name == "" {
		return errors.New("family name is required")
	}
	if e.Factory == nil {
		return errors.New("family factory is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.m[e.Name]; exists {
		return fmt.Errorf("%w: %s/%s", ErrEntryExists, r.name, e.Name)
	}
	r.m[e.Name] = e
	return nil
}

func (r *Registry) MustRegister(e Entry) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

func (r *Registry) Entry(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.m[name]
	return e, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.m))
	for name := range r.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build runs the named factory. Factory failures that are not already
// configuration errors are wrapped as ErrBadParam.
func (r *Registry) Build(name string, params Params) (builder.Dynamic, error) {
	e, ok := r.Entry(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnknownFamily, name, r.name)
	}
	bound, err := e.bind(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	b, err := e.Factory(bound)
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrBadParam, name, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %s: factory returned no builder", ErrBadParam, name)
	}
	return b, nil
}

// bind moves positional arguments ("#0", "#1", ...) onto the entry's keys.
func (e Entry) bind(params Params) (Params, error) {
	out := make(Params, len(params))
	for k, v := range params {
		if !strings.HasPrefix(k, positionalPrefix) {
			out[k] = v
		}
	}
	for i := 0; ; i++ {
		v, ok := params[positionalKey(i)]
		if !ok {
			break
		}
		if i >= len(e.Positional) {
			return nil, fmt.Errorf("%w: %d positional arguments given, %s takes %d", ErrSyntax, i+1, e.Name, len(e.Positional))
		}
		key := e.Positional[i]
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("%w: %s given both positionally and by name", ErrSyntax, key)
		}
		out[key] = v
	}
	return out, nil
}

// Or tries r first, then each fallback in order.
func (r *Registry) Or(fallbacks ...Resolver) Fallback {
	return Or(r, fallbacks...)
}

// Fallback resolves through its members in order.
type Fallback []Resolver

func Or(first Resolver, rest ...Resolver) Fallback {
	return append(Fallback{first}, rest...)
}

func (f Fallback) Build(name string, params Params) (builder.Dynamic, error) {
	var errs []error
	for _, r := range f {
		b, err := r.Build(name, params)
		if err == nil {
			return b, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: %s in empty fallback", ErrUnknownFamily, name)
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrConfiguration, name, errors.Join(errs...))
}

func (f Fallback) Or(more ...Resolver) Fallback {
	return append(append(Fallback{}, f...), more...)
}

func (f Fallback) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range f {
		for _, name := range r.Names() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Entry finds name in the first member that knows it.
func (f Fallback) Entry(name string) (Entry, bool) {
	for _, r := range f {
		lookup, ok := r.(interface{ Entry(string) (Entry, bool) })
		if !ok {
			continue
		}
		if e, ok := lookup.Entry(name); ok {
			return e, true
		}
	}
	return Entry{}, false
}
