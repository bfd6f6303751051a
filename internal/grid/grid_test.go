package grid

import (
	"errors"
	"testing"
)

func TestEntriesRowMajor(t *testing.T) {
	g := New[int](2, 2)
	_ = g.Set(0, 0, 1)
	_ = g.Set(1, 0, 2)
	_ = g.Set(1, 1, 4)

	var order [][2]int
	var values []int
	for _, e := range g.Entries() {
		order = append(order, [2]int{e.X, e.Y})
		if e.Present {
			values = append(values, e.Value)
		}
	}
	want := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected order at %d: got=%v want=%v", i, order[i], want[i])
		}
	}
	if len(values) != 3 || values[2] != 4 {
		t.Fatalf("unexpected present values: %v", values)
	}
	if g.Present() != 3 {
		t.Fatalf("expected 3 present cells, got %d", g.Present())
	}
}

func TestSetOutOfBounds(t *testing.T) {
	g := New[int](1, 1)
	if err := g.Set(1, 0, 3); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected out of bounds error, got %v", err)
	}
	if _, ok := g.Get(-1, 0); ok {
		t.Fatal("expected absent for out of bounds read")
	}
}

func TestMapKeepsShape(t *testing.T) {
	g := New[int](3, 1)
	_ = g.Set(0, 0, 1)
	_ = g.Set(2, 0, 3)

	doubled, err := Map(g, func(_, _ int, v int) (float64, error) { return float64(v) * 2, nil })
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if !SameShape(g, doubled) {
		t.Fatal("expected congruent grid")
	}
	if v, ok := doubled.Get(2, 0); !ok || v != 6 {
		t.Fatalf("unexpected mapped value: %v %v", v, ok)
	}
	if _, ok := doubled.Get(1, 0); ok {
		t.Fatal("expected absent cell to stay absent")
	}
}

func TestClearAndMask(t *testing.T) {
	g := Filled(2, 1, "cell")
	if err := g.Clear(1, 0); err != nil {
		t.Fatalf("clear: %v", err)
	}
	mask := g.Mask()
	if v, _ := mask.Get(0, 0); !v {
		t.Fatal("expected (0,0) present in mask")
	}
	if _, ok := mask.Get(1, 0); ok {
		t.Fatal("expected (1,0) absent in mask")
	}
}
