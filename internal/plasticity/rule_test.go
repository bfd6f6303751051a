package plasticity

import (
	"math"
	"testing"
)

func TestScaleIsAffine(t *testing.T) {
	low, err := Scale(AsymmetricHebbian, []float64{-1, -1, -1, -1})
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	high, _ := Scale(AsymmetricHebbian, []float64{1, 1, 1, 1})
	if low != AsymmetricBox.Min || high != AsymmetricBox.Max {
		t.Fatalf("unexpected box corners: low=%v high=%v", low, high)
	}
	if _, err := Scale(SymmetricHebbian, []float64{0, 0}); err == nil {
		t.Fatal("expected param count error")
	}
}

func TestNewRuleInactiveIgnoresParams(t *testing.T) {
	rule, err := NewRule(Inactive, []float64{5})
	if err != nil {
		t.Fatalf("new rule: %v", err)
	}
	if rule != (Rule{Kind: Inactive}) {
		t.Fatalf("unexpected inactive rule: %+v", rule)
	}
	if rule.Delta(1) != 0 {
		t.Fatal("expected zero delta for inactive rule")
	}
}

func TestDeltaSigns(t *testing.T) {
	asym, _ := NewRule(AsymmetricHebbian, []float64{0, 0, 0, 0})
	if asym.Delta(2) <= 0 || asym.Delta(-2) >= 0 || asym.Delta(0) != 0 {
		t.Fatalf("unexpected asymmetric hebbian deltas: %f %f", asym.Delta(2), asym.Delta(-2))
	}
	anti, _ := NewRule(AsymmetricAntiHebbian, []float64{0, 0, 0, 0})
	if math.Abs(anti.Delta(2)+asym.Delta(2)) > 1e-12 {
		t.Fatal("expected anti-hebbian delta to mirror hebbian delta")
	}

	sym, _ := NewRule(SymmetricHebbian, []float64{0, 0, 0, 0})
	if math.Abs(sym.Delta(3)-sym.Delta(-3)) > 1e-12 {
		t.Fatal("expected symmetric delta to be even in dt")
	}
	if sym.Delta(0) <= 0 {
		t.Fatalf("expected potentiation at coincident spikes, got %f", sym.Delta(0))
	}
}

func TestClip(t *testing.T) {
	if Clip(3, 2) != 2 || Clip(-3, 2) != -2 || Clip(1, 2) != 1 {
		t.Fatal("unexpected clipped values")
	}
	if Clip(7, 0) != 7 {
		t.Fatal("expected non-positive limit to disable clipping")
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Symmetric_Hebbian")
	if err != nil || k != SymmetricHebbian {
		t.Fatalf("unexpected parse: %v %v", k, err)
	}
	if k, _ := ParseKind("none"); k != Inactive {
		t.Fatalf("expected inactive, got %s", k)
	}
	if _, err := ParseKind("oja"); err == nil {
		t.Fatal("expected unsupported rule error")
	}
}
