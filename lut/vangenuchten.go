// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lut

import "math"

// ReferenceSoil fixes the canonical van Genuchten curve shape the global
// retention/conductivity tables are built from. Individual cells carry
// their own (K_s, theta_s, theta_r) in grid.Cell (spec.md §3.2); those
// rescale the reference dimensionless curve (the cell's alpha_vG and n_vG
// are not read: every cell shares the reference shape) rather than each
// cell owning its own 256-entry table, which would defeat the point of a
// fixed-size, init-once LUT. This mirrors the teacher's
// mdl/retention.VanGen, which also bakes one parameter set's shape into
// closed-form evaluators (our Build is a once-only table-fill instead).
const (
	RefAlpha  = 2.0       // 1/m
	RefN      = 1.5       // -
	RefM      = 1.0 / 3.0 // = 1 - 1/RefN
	RefThetaR = 0.01      // matches the Mualem table's lower bound, spec.md §4.1
	RefThetaS = 0.60      // matches the Mualem table's upper bound
)

// PsiMin, PsiMax bound the θ(ψ) and capacity tables (spec.md §4.1).
const (
	PsiMin = -100000.0
	PsiMax = 0.0
)

// VanGenuchten holds the three 256-entry tables built once at
// Simulation.create and never mutated afterwards (spec.md §9: "per-
// simulation immutable tables initialized lazily in create").
type VanGenuchten struct {
	seOfPsi  Table256 // domain ψ ∈ [PsiMin, 0], range Se ∈ [0,1]
	capacity Table256 // domain θ ∈ [RefThetaR, RefThetaS], range dSe/dψ (≥0)
	psiOfSe  Table256 // domain θ ∈ [RefThetaR, RefThetaS] (read as Se-equivalent), range ψ ≤ 0; diagnostic only
}

// se evaluates the reference van Genuchten effective saturation at ψ ≤ 0.
func se(psi float64) float64 {
	if psi >= 0 {
		return 1.0
	}
	c := math.Pow(RefAlpha*(-psi), RefN)
	return math.Pow(1.0+c, -RefM)
}

// dSeDpsi evaluates the analytic derivative of se at ψ (the retention
// capacity), matching the closed form used by the teacher's VanGen.Cc.
func dSeDpsi(psi float64) float64 {
	if psi >= 0 {
		return 0
	}
	c := math.Pow(RefAlpha*(-psi), RefN)
	dcdpsi := -RefAlpha * RefN * math.Pow(RefAlpha*(-psi), RefN-1.0)
	return -RefM * math.Pow(1.0+c, -RefM-1.0) * dcdpsi
}

// psiOfSeClosed inverts se(psi) analytically: given Se ∈ (0,1), returns
// ψ ≤ 0. Used only to build the diagnostic inverse table, never evaluated
// per-step from dynamic state (spec.md §9 open question: ψ is diagnostic).
func psiOfSeClosed(seVal float64) float64 {
	if seVal >= 1.0 {
		return 0
	}
	if seVal <= 0 {
		seVal = 1e-6
	}
	c := math.Pow(seVal, -1.0/RefM) - 1.0
	return -math.Pow(c, 1.0/RefN) / RefAlpha
}

// Build constructs the three tables. Pure and deterministic: two calls
// produce bit-identical results on any platform.
func (v *VanGenuchten) Build() {
	v.seOfPsi = Build(PsiMin, PsiMax, se)
	v.capacity = Build(RefThetaR, RefThetaS, func(theta float64) float64 {
		seVal := (theta - RefThetaR) / (RefThetaS - RefThetaR)
		psi := psiOfSeClosed(seVal)
		return dSeDpsi(psi)
	})
	v.psiOfSe = Build(RefThetaR, RefThetaS, func(theta float64) float64 {
		seVal := (theta - RefThetaR) / (RefThetaS - RefThetaR)
		return psiOfSeClosed(seVal)
	})
}

// Theta returns the volumetric water content for a cell with the given
// (theta_r, theta_s) at matric head psi, via the shared dimensionless
// curve: theta = theta_r + (theta_s-theta_r)*Se_ref(psi).
func (v *VanGenuchten) Theta(psi, thetaR, thetaS float64) float64 {
	seVal := v.seOfPsi.Lookup(psi)
	return thetaR + (thetaS-thetaR)*seVal
}

// Capacity returns dθ/dψ for a cell at the given theta (already rescaled
// into [thetaR, thetaS]); used as the storage term in the θ-based Richards
// formulation (hyd package) so that ψ itself never needs to be read back
// as a solve input.
func (v *VanGenuchten) Capacity(theta, thetaR, thetaS float64) float64 {
	span := thetaS - thetaR
	if span <= 0 {
		return 0
	}
	equivTheta := RefThetaR + (theta-thetaR)/span*(RefThetaS-RefThetaR)
	dSe := v.capacity.Lookup(equivTheta)
	return dSe * span
}

// DiagnosticPsi returns the purely-diagnostic matric head corresponding to
// theta; never read back into the vertical solve (spec.md §9).
func (v *VanGenuchten) DiagnosticPsi(theta, thetaR, thetaS float64) float64 {
	span := thetaS - thetaR
	if span <= 0 {
		return 0
	}
	equivTheta := RefThetaR + (theta-thetaR)/span*(RefThetaS-RefThetaR)
	return v.psiOfSe.Lookup(equivTheta)
}
