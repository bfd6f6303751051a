package registry

import (
	"fmt"

	"genopheno/internal/builder"
)

// BuildString resolves a configuration string, composing pipeline stages left
// to right: "a<b<c" is Compose(Compose(a, b), c). Errors propagate.
func BuildString(r Resolver, config string) (builder.Dynamic, error) {
	specs, err := Parse(config)
	if err != nil {
		return nil, err
	}
	var chain builder.Dynamic
	for i, spec := range specs {
		b, err := r.Build(spec.Name, spec.Params)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		if chain == nil {
			chain = b
			continue
		}
		chain = builder.Compose[any, any, any](chain, b)
	}
	return chain, nil
}

// Resolve is BuildString with every construction failure, panics included,
// reported as absence. Callers needing a hard failure check ok.
func Resolve(r Resolver, config string) (b builder.Dynamic, ok bool) {
	defer func() {
		if recover() != nil {
			b, ok = nil, false
		}
	}()
	b, err := BuildString(r, config)
	if err != nil {
		return nil, false
	}
	return b, true
}

// Canonical re-renders a configuration string with sorted keys per stage.
func Canonical(config string) (string, error) {
	specs, err := Parse(config)
	if err != nil {
		return "", err
	}
	out := ""
	for i, spec := range specs {
		if i > 0 {
			out += PipeSeparator
		}
		out += spec.String()
	}
	return out, nil
}
