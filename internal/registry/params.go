package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Params are the key/value parameters handed to a factory. Values are either
// strings from a configuration string or native values from the map API.
type Params map[string]any

func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Keys lists the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Without returns a copy of p minus the given keys.
func (p Params) Without(keys ...string) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func (p Params) Float(key string) (float64, error) {
	raw, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	v, ok := asFloat64(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %s=%v is not a number", ErrBadParam, key, raw)
	}
	return v, nil
}

func (p Params) FloatOr(key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Float(key)
}

func (p Params) Int(key string) (int, error) {
	raw, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	v, ok := asInt(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %s=%v is not an integer", ErrBadParam, key, raw)
	}
	return v, nil
}

func (p Params) IntOr(key string, def int) (int, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Int(key)
}

func (p Params) String(key string) (string, error) {
	raw, ok := p[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s=%v is not a string", ErrBadParam, key, raw)
	}
	return v, nil
}

func (p Params) StringOr(key, def string) (string, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.String(key)
}

func (p Params) Bool(key string) (bool, error) {
	raw, ok := p[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	v, ok := asBool(raw)
	if !ok {
		return false, fmt.Errorf("%w: %s=%v is not a boolean", ErrBadParam, key, raw)
	}
	return v, nil
}

func (p Params) BoolOr(key string, def bool) (bool, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Bool(key)
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64:
		if x != float64(int(x)) {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	default:
		return false, false
	}
}
