package registry

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	PipeSeparator     = "<"
	ParamSeparator    = ";"
	KeyValueSeparator = "="
	ArgSeparator      = "-"

	positionalPrefix = "#"
)

func positionalKey(i int) string {
	return positionalPrefix + strconv.Itoa(i)
}

// Spec is one parsed stage of a configuration string.
type Spec struct {
	Name   string
	Params Params
}

// String renders the spec in canonical form: name first, then sorted keys.
func (s Spec) String() string {
	var args, named []string
	for i := 0; ; i++ {
		v, ok := s.Params[positionalKey(i)]
		if !ok {
			break
		}
		args = append(args, fmt.Sprint(v))
	}
	for _, k := range s.Params.Keys() {
		if strings.HasPrefix(k, positionalPrefix) {
			continue
		}
		named = append(named, k+KeyValueSeparator+fmt.Sprint(s.Params[k]))
	}
	head := strings.Join(append([]string{s.Name}, args...), ArgSeparator)
	return strings.Join(append([]string{head}, named...), ParamSeparator)
}

// Parse splits a configuration string into pipeline stages, outermost first.
func Parse(config string) ([]Spec, error) {
	if strings.TrimSpace(config) == "" {
		return nil, fmt.Errorf("%w: empty configuration", ErrSyntax)
	}
	parts := strings.Split(config, PipeSeparator)
	specs := make([]Spec, 0, len(parts))
	for i, part := range parts {
		spec, err := ParseSpec(part)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// ParseSpec parses a single "NAME;key=value;..." stage. The first token
// without "=" is the name; dash-separated pieces after the name are
// positional arguments.
func ParseSpec(s string) (Spec, error) {
	spec := Spec{Params: Params{}}
	for _, token := range strings.Split(s, ParamSeparator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key, value, isPair := strings.Cut(token, KeyValueSeparator)
		if !isPair {
			if spec.Name != "" {
				return Spec{}, fmt.Errorf("%w: unexpected token %q after name %q", ErrSyntax, token, spec.Name)
			}
			name, args := splitArgs(token)
			if name == "" {
				return Spec{}, fmt.Errorf("%w: empty name in %q", ErrSyntax, token)
			}
			spec.Name = name
			for i, arg := range args {
				spec.Params[positionalKey(i)] = arg
			}
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" || strings.HasPrefix(key, positionalPrefix) {
			return Spec{}, fmt.Errorf("%w: bad key in %q", ErrSyntax, token)
		}
		if spec.Params.Has(key) {
			return Spec{}, fmt.Errorf("%w: duplicate key %q", ErrSyntax, key)
		}
		spec.Params[key] = strings.TrimSpace(value)
	}
	if spec.Name == "" {
		return Spec{}, fmt.Errorf("%w: missing name in %q", ErrSyntax, s)
	}
	return spec, nil
}

// splitArgs splits "name-1.0--2" into "name" and ["1.0", "-2"]; an empty piece
// marks a negative sign on the next one.
func splitArgs(token string) (string, []string) {
	pieces := strings.Split(token, ArgSeparator)
	var args []string
	negative := false
	for _, piece := range pieces[1:] {
		if piece == "" {
			negative = true
			continue
		}
		if negative {
			piece = ArgSeparator + piece
			negative = false
		}
		args = append(args, piece)
	}
	return pieces[0], args
}
