package builder

import (
	"reflect"

	"genopheno/internal/genome"
)

// Dynamic is a builder whose genome and phenotype kinds are only known at run
// time, as produced by the registry.
type Dynamic = Builder[any, any]

// Erase hides the static kinds of b. Wrong dynamic kinds surface as
// genome.KindMismatchError.
func Erase[G, T any](b Builder[G, T]) Dynamic {
	return erased[G, T]{b: b}
}

type erased[G, T any] struct {
	b Builder[G, T]
}

func (e erased[G, T]) ExampleFor(target any) (any, error) {
	t, err := assertKind[T]("target", target)
	if err != nil {
		return nil, err
	}
	return e.b.ExampleFor(t)
}

func (e erased[G, T]) ConverterFor(target any) (Converter[any, any], error) {
	t, err := assertKind[T]("target", target)
	if err != nil {
		return nil, err
	}
	convert, err := e.b.ConverterFor(t)
	if err != nil {
		return nil, err
	}
	return func(g any) (any, error) {
		typed, err := assertKind[G]("genome", g)
		if err != nil {
			return nil, err
		}
		return convert(typed)
	}, nil
}

// Typed restores static kinds on a dynamic builder.
func Typed[G, T any](d Dynamic) Builder[G, T] {
	return typed[G, T]{d: d}
}

type typed[G, T any] struct {
	d Dynamic
}

func (t typed[G, T]) ExampleFor(target T) (G, error) {
	g, err := t.d.ExampleFor(target)
	if err != nil {
		var zero G
		return zero, err
	}
	return assertKind[G]("example", g)
}

func (t typed[G, T]) ConverterFor(target T) (Converter[G, T], error) {
	convert, err := t.d.ConverterFor(target)
	if err != nil {
		return nil, err
	}
	return func(g G) (T, error) {
		p, err := convert(g)
		if err != nil {
			var zero T
			return zero, err
		}
		return assertKind[T]("phenotype", p)
	}, nil
}

func assertKind[K any](what string, v any) (K, error) {
	k, ok := v.(K)
	if !ok {
		var zero K
		return zero, &genome.KindMismatchError{What: what, Expected: reflect.TypeFor[K]().String(), Actual: genome.KindOf(v)}
	}
	return k, nil
}
