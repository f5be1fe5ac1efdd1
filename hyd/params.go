// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hyd implements the Hydrology Solver (C3): a unified Richards-type
// PDE advanced by operator splitting — an unconditionally stable implicit
// vertical column solve plus a conditionally-stable explicit horizontal
// surface-flow pass gated by a fill-and-spill connectivity threshold
// (spec.md §4.3). Grounded on the teacher's ele/porous (Richards-type
// porous-media elements) and mdl/porous (Picard-style iterate-to-tolerance
// Update loop), restructured around a regular grid instead of a finite
// element mesh.
package hyd

// Params collects the solver's tunable constants; defaults follow spec.md
// §4.3 and its referenced constants.
type Params struct {
	PicardTol     float64 // max|Δθ| convergence tolerance
	PicardMaxIter int     // iteration cap
	UseFreeDrain  bool    // bottom BC: true = free drainage, false = no-flux

	Kr          float64 // reference lateral conductivity for surface diffusion, m/s
	CFL         float64 // Courant number bound for horizontal sub-stepping
	EBareRef    float64 // bare-soil reference evaporation rate, m/s
	TempK       float64 // ambient temperature, K; not read by Solver.Step
	ConnectGate float64 // C(zeta) threshold gating the horizontal pass (0.1 per spec.md §4.3 step 4)
}

// DefaultParams returns the reference parameter set used throughout the
// end-to-end scenarios of spec.md §8.
func DefaultParams() Params {
	return Params{
		PicardTol:     1e-6,
		PicardMaxIter: 20,
		UseFreeDrain:  false,
		Kr:            1.0,
		CFL:           0.5,
		EBareRef:      0,
		TempK:         293.15,
		ConnectGate:   0.1,
	}
}
