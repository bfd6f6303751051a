package genome

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is matched by every genome/target size or kind disagreement.
// It is never recovered locally: a silent size adjustment would break the
// genome/phenotype correspondence.
var ErrShapeMismatch = errors.New("shape mismatch")

type ShapeMismatchError struct {
	What     string
	Expected int
	Actual   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: %s expected=%d actual=%d", ErrShapeMismatch, e.What, e.Expected, e.Actual)
}

func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// KindMismatchError reports a genome or target of the wrong Go type.
type KindMismatchError struct {
	What     string
	Expected string
	Actual   string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("%s: %s expected kind %s, got %s", ErrShapeMismatch, e.What, e.Expected, e.Actual)
}

func (e *KindMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// CheckSize returns a ShapeMismatchError when actual differs from expected.
func CheckSize(what string, expected, actual int) error {
	if expected != actual {
		return &ShapeMismatchError{What: what, Expected: expected, Actual: actual}
	}
	return nil
}

// KindOf names the dynamic type of v for mismatch reports.
func KindOf(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
