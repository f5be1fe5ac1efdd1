package fxp

import "testing"

func approxEqual(t *testing.T, tol, got, want float64) {
	t.Helper()
	d := got - want
	if d < 0 {
		d = -d
	}
	if d > tol {
		t.Fatalf("got %v, want %v (tol %v)", got, want, tol)
	}
}

// Test_roundtrip01 checks the float -> fxp -> float round-trip law from
// spec.md §8: within 1/65536 for |x| < 32768.
func Test_roundtrip01(t *testing.T) {
	vals := []float64{0, 1, -1, 0.5, -0.5, 3.14159, -3.14159, 32767.9, -32767.9, 0.000123}
	for _, v := range vals {
		got := FromFloat64(v).Float64()
		approxEqual(t, 1.0/65536.0, got, v)
	}
}

func Test_mul01(t *testing.T) {
	a := FromFloat64(2.5)
	b := FromFloat64(4.0)
	got := a.Mul(b).Float64()
	approxEqual(t, 1.0/65536.0, got, 10.0)
}

func Test_divByZeroSaturates(t *testing.T) {
	pos := FromFloat64(5.0)
	neg := FromFloat64(-5.0)
	zero := FromInt(0)
	if pos.Div(zero) != Max {
		t.Fatalf("positive / 0 should saturate to Max")
	}
	if neg.Div(zero) != Min {
		t.Fatalf("negative / 0 should saturate to Min")
	}
	if zero.Div(zero) != Max {
		t.Fatalf("zero / 0 should saturate to Max by convention")
	}
}

func Test_clamp01(t *testing.T) {
	lo := FromFloat64(0.1)
	hi := FromFloat64(0.7)
	below := FromFloat64(0.0).Clamp(lo, hi)
	above := FromFloat64(1.0).Clamp(lo, hi)
	if below != lo || above != hi {
		t.Fatalf("clamp failed: below=%v above=%v", below.Float64(), above.Float64())
	}
}

func Test_wrapOverflow(t *testing.T) {
	// Max + 1 must wrap to Min (two's-complement contract), not panic or saturate.
	got := Max.Add(FromInt(0) + 1)
	if got >= Max {
		t.Fatalf("expected wrap past Max, got %v", got)
	}
}
