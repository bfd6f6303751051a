// Package builder defines the genome-to-phenotype contract and its combinators.
//
// A Builder never computes a genome length on its own terms: ExampleFor is the
// only size negotiation, and a converter obtained from ConverterFor accepts
// exactly the shape ExampleFor returned for the same target.
package builder

import (
	"reflect"
	"sync/atomic"
)

// Converter turns a genome into a phenotype. A genome of the wrong size fails
// with genome.ErrShapeMismatch before any phenotype is constructed.
type Converter[G, T any] func(G) (T, error)

type Builder[G, T any] interface {
	ConverterFor(target T) (Converter[G, T], error)
	ExampleFor(target T) (G, error)
}

// Func adapts a pair of functions into a Builder.
type Func[G, T any] struct {
	Converter func(target T) (Converter[G, T], error)
	Example   func(target T) (G, error)
}

func (f Func[G, T]) ConverterFor(target T) (Converter[G, T], error) {
	return f.Converter(target)
}

func (f Func[G, T]) ExampleFor(target T) (G, error) {
	return f.Example(target)
}

// Compose chains inner (C -> A) in front of outer (A -> B). Sizing bootstraps
// from the intermediate target outer builds out of its zero example genome.
func Compose[C, A, B any](outer Builder[A, B], inner Builder[C, A]) Builder[C, B] {
	return &composed[C, A, B]{outer: outer, inner: inner}
}

type composed[C, A, B any] struct {
	outer Builder[A, B]
	inner Builder[C, A]
	last  atomic.Pointer[cacheEntry[B, A]]
}

type cacheEntry[B, A any] struct {
	target B
	mid    A
}

// intermediate returns outer.ExampleFor(target), remembering the last answer.
// Concurrent callers may both compute it; the entry is swapped whole.
func (c *composed[C, A, B]) intermediate(target B) (A, error) {
	if entry := c.last.Load(); entry != nil && sameTarget(entry.target, target) {
		return entry.mid, nil
	}
	mid, err := c.outer.ExampleFor(target)
	if err != nil {
		var zero A
		return zero, err
	}
	c.last.Store(&cacheEntry[B, A]{target: target, mid: mid})
	return mid, nil
}

func (c *composed[C, A, B]) ExampleFor(target B) (C, error) {
	mid, err := c.intermediate(target)
	if err != nil {
		var zero C
		return zero, err
	}
	return c.inner.ExampleFor(mid)
}

func (c *composed[C, A, B]) ConverterFor(target B) (Converter[C, B], error) {
	outerConvert, err := c.outer.ConverterFor(target)
	if err != nil {
		return nil, err
	}
	mid, err := c.intermediate(target)
	if err != nil {
		return nil, err
	}
	innerConvert, err := c.inner.ConverterFor(mid)
	if err != nil {
		return nil, err
	}
	return func(g C) (B, error) {
		phenotype, err := innerConvert(g)
		if err != nil {
			var zero B
			return zero, err
		}
		return outerConvert(phenotype)
	}, nil
}

// sameTarget compares only targets that are safely comparable, such as
// pointers and plain structs; anything else is a cache miss.
func sameTarget[T any](a, b T) bool {
	va, vb := reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem()
	if va.Kind() == reflect.Interface {
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		va, vb = va.Elem(), vb.Elem()
		if va.Type() != vb.Type() {
			return false
		}
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}
