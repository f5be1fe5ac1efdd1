// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid holds the per-cell record and the single contiguous,
// pointer-stable allocation that backs an entire simulation (spec.md §3,
// §3.4). Grounded on the teacher's fem/domain.go, whose Domain allocates
// all node/element arrays once in NewDomain and never reallocates them for
// the life of the analysis; here a single flat []Cell slice plays that
// role, since the grid has no connectivity/mesh structure to track beyond
// row-major indexing.
package grid

import "github.com/negfound/negsim/fxp"

// Cell is one horizontal (or 2.5D layered) grid position. Every field is
// dense — no sparse/optional members, per spec.md §3.2.
type Cell struct {
	// Fast hydrological state.
	Theta    float64 // volumetric water content, theta_r <= Theta <= porosity_eff
	Psi      float64 // matric head (diagnostic only, see lut.VanGenuchten.DiagnosticPsi), <= 0
	HSurface float64 // ponding depth, >= 0
	Zeta     float64 // depression storage, 0 <= Zeta <= ZetaC+DeltaZeta

	// Static soil + geometry.
	Ks      float64 // saturated hydraulic conductivity, m/s
	AlphaVG float64 // van Genuchten alpha, 1/m (stored and snapshotted; the lut tables use the reference shape instead)
	NVG     float64 // van Genuchten n (stored and snapshotted; the lut tables use the reference shape instead)
	ThetaS  float64 // saturated water content
	ThetaR  float64 // residual water content
	Z       float64 // elevation of the cell center (vertical column) or surface datum
	Dz      float64 // vertical layer thickness, m
	Dx      float64 // horizontal cell spacing, m
	ZetaC   float64 // depression storage capacity threshold, m
	Ac      float64 // fill-and-spill logistic steepness

	// Intervention multipliers.
	MKzz      float64 // vertical conductivity multiplier
	MKxx      float64 // horizontal conductivity multiplier
	KappaEvap float64 // evaporation multiplier
	DeltaZeta float64 // depression storage capacity bonus

	// Slow regeneration state: dual Q16.16/float representation, spec §3.2.
	VegetationCoverFxp fxp.T
	VegetationCover    float64 // float mirror, re-derived after every REG commit
	SOMPercentFxp      fxp.T
	SOMPercent         float64 // float mirror, re-derived after every REG commit

	// Microbial-priming inputs (REGv2 mode only): static/slow-varying
	// per-cell drivers of the Monod-Arrhenius production/respiration terms.
	// Never written by REG; read-only inputs to it.
	FungalBacterialRatio float64 // F:B, feeds lut.Priming
	CLabile              float64 // labile carbon pool, same units as K_C
	NFix                 float64 // biological nitrogen fixation rate
	PhiAgg               float64 // soil aggregation index
	TempK                float64 // soil temperature, K
	O2Sat                float64 // O2 saturation fraction, [0,1]

	// REG -> HYD bonus slots: the only fields REG writes that HYD reads
	// (spec.md §3.3 invariant 5). Never aliased into HYD's own buffers.
	PorosityEff float64    // effective porosity, [0.3, 0.7]
	KTensor     [9]float64 // row-major 3x3; only the diagonal is used, KTensor[8] is vertical K
}

// SyncMirrors re-derives the float mirrors of VegetationCover and SOMPercent
// from their Q16.16 authoritative values. Called after every REG commit;
// the spec forbids reading the float mirror as an input to anything that
// feeds back into Q16.16 state, so this is a one-way, display-only update.
func (c *Cell) SyncMirrors() {
	c.VegetationCover = c.VegetationCoverFxp.Float64()
	c.SOMPercent = c.SOMPercentFxp.Float64()
}
