package lut

import (
	"math"
	"testing"
)

func approxEqual(t *testing.T, tol, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("got %v, want %v (tol %v)", got, want, tol)
	}
}

func Test_vanGenMonotone(t *testing.T) {
	var vg VanGenuchten
	vg.Build()
	thetaR, thetaS := 0.05, 0.45
	prev := vg.Theta(PsiMin, thetaR, thetaS)
	for psi := PsiMin; psi <= 0; psi += 1000 {
		cur := vg.Theta(psi, thetaR, thetaS)
		if cur < prev-1e-9 {
			t.Fatalf("theta(psi) not monotone increasing near psi=%v", psi)
		}
		prev = cur
	}
	if got := vg.Theta(0, thetaR, thetaS); math.Abs(got-thetaS) > 1e-6 {
		t.Fatalf("theta(0) should equal theta_s, got %v want %v", got, thetaS)
	}
}

func Test_vanGenBounds(t *testing.T) {
	var vg VanGenuchten
	vg.Build()
	thetaR, thetaS := 0.05, 0.45
	got := vg.Theta(PsiMin, thetaR, thetaS)
	if got < thetaR-1e-6 || got > thetaR+0.05 {
		t.Fatalf("theta at psi_min should be near theta_r, got %v", got)
	}
}

func Test_mualemBounds(t *testing.T) {
	var m Mualem
	m.Build()
	thetaR, thetaS, ks := 0.05, 0.45, 5e-6
	kAtR := m.K(thetaR, thetaR, thetaS, ks)
	kAtS := m.K(thetaS, thetaR, thetaS, ks)
	if kAtR > kAtS {
		t.Fatalf("K should increase with theta: K(thetaR)=%v K(thetaS)=%v", kAtR, kAtS)
	}
	approxEqual(t, ks*0.05, kAtS, ks)
}

func Test_capacityNonNegative(t *testing.T) {
	var vg VanGenuchten
	vg.Build()
	thetaR, thetaS := 0.05, 0.45
	for theta := thetaR; theta < thetaS; theta += 0.01 {
		cap := vg.Capacity(theta, thetaR, thetaS)
		if cap < 0 {
			t.Fatalf("capacity dtheta/dpsi must be >= 0 in magnitude terms, got %v at theta=%v", cap, theta)
		}
	}
}

// Test_primingAnchors01 checks the S5 golden anchors from spec.md §8.
func Test_primingAnchors01(t *testing.T) {
	approxEqual(t, 1e-9, Priming(0.10), 1.0)
	approxEqual(t, 1e-9, Priming(1.0), 2.5)
	got := Priming(3.0)
	if got < 6.0 || got > 8.0 {
		t.Fatalf("Priming(3.0) should be in [6.0, 8.0], got %v", got)
	}
	approxEqual(t, 1e-9, Priming(1000), 8.0)
}

func Test_vaporPressureMonotone(t *testing.T) {
	var v SatVaporPressure
	v.Build()
	prev := v.Lookup(TMin)
	for temp := TMin; temp <= TMax; temp += 5 {
		cur := v.Lookup(temp)
		if cur < prev {
			t.Fatalf("e_s(T) should be monotone increasing, failed near T=%v", temp)
		}
		prev = cur
	}
}
