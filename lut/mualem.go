// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lut

import "math"

// Mualem holds the 256-entry relative-hydraulic-conductivity table
// (spec.md §4.1 "K(θ) (Mualem)"), built from the classic Mualem (1976)
// closed form applied to the same reference van Genuchten shape as
// VanGenuchten. Grounded on the teacher's mconduct package, which defines
// a liquid/gas conductivity Model interface (Klr(sl), DklrDsl(sl)) around
// a closed-form curve; here the curve is pre-baked into a table instead of
// evaluated per call.
type Mualem struct {
	krOfTheta Table256 // domain θ ∈ [RefThetaR, RefThetaS], range Kr ∈ [0,1]
}

// krMualem evaluates relative conductivity at effective saturation se,
// using the reference van Genuchten shape parameter RefM.
func krMualem(se float64) float64 {
	if se <= 0 {
		return 0
	}
	if se >= 1 {
		return 1
	}
	inner := 1.0 - math.Pow(1.0-math.Pow(se, 1.0/RefM), RefM)
	if inner < 0 {
		inner = 0
	}
	return math.Sqrt(se) * inner * inner
}

// Build fills the table once, deterministically.
func (m *Mualem) Build() {
	m.krOfTheta = Build(RefThetaR, RefThetaS, func(theta float64) float64 {
		seVal := (theta - RefThetaR) / (RefThetaS - RefThetaR)
		return krMualem(seVal)
	})
}

// K returns the unsaturated hydraulic conductivity for a cell with
// saturated conductivity Ks and retention bounds (thetaR, thetaS) at the
// given theta: K(theta) = Ks * Kr_ref(Se(theta)).
func (m *Mualem) K(theta, thetaR, thetaS, ks float64) float64 {
	span := thetaS - thetaR
	if span <= 0 {
		return 0
	}
	equivTheta := RefThetaR + (theta-thetaR)/span*(RefThetaS-RefThetaR)
	return ks * m.krOfTheta.Lookup(equivTheta)
}
