// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reg

import (
	"math"

	"github.com/negfound/negsim/flags"
	"github.com/negfound/negsim/fxp"
	"github.com/negfound/negsim/grid"
	"github.com/negfound/negsim/internal/errs"
	"github.com/negfound/negsim/lut"
)

// ThresholdBits is the pure-query diagnostic bitmask of spec.md §4.4: never
// consulted by the ODE itself, only by callers (visualization, tests).
type ThresholdBits uint8

const (
	ThetaAboveStar ThresholdBits = 1 << iota
	SOMAboveStar
	VAboveHalfKV
)

// Threshold evaluates the diagnostic bitmask for a cell given its current
// column-average theta.
func Threshold(c *grid.Cell, thetaAvg float64, p Params) ThresholdBits {
	var b ThresholdBits
	if thetaAvg > p.ThetaStar {
		b |= ThetaAboveStar
	}
	if c.SOMPercent > p.SOMStar {
		b |= SOMAboveStar
	}
	if c.VegetationCover > 0.5*p.KV {
		b |= VAboveHalfKV
	}
	return b
}

// Solver advances the vegetation/SOM ODE across a grid's surface cells,
// grounded on mdl/porous.Model's Init/Update split: Params plays the role
// of the auxiliary-model parameter struct, Step plays Update. Unlike HYD,
// REG needs no per-step scratch beyond the column-index buffer used to
// average theta down a column, so the struct is small.
type Solver struct {
	depth  int
	idxBuf []int
}

// NewSolver allocates a solver for a grid of the given vertical depth.
func NewSolver(depth int) *Solver {
	return &Solver{depth: depth, idxBuf: make([]int, depth)}
}

// Step advances every surface cell's (V, SOM) by one annual step dtYears,
// then performs the one-way hydrological write-back into (porosity_eff,
// K_tensor[8]). Grounded on spec.md §4.4; the ODE is explicit Euler, never
// an adaptive implicit integrator (see DESIGN.md for why gosl/ode is not
// used here).
func (s *Solver) Step(g *grid.Grid, width, height int, p Params, dtYears float64) (flags.Bits, error) {
	var warn flags.Bits
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			w, err := s.stepCell(g, x, y, p, dtYears)
			warn |= w
			if err != nil {
				return warn, err
			}
		}
	}
	return warn, nil
}

// thetaAvg averages Theta across the vertical column at (x, y).
func (s *Solver) thetaAvg(g *grid.Grid, x, y int) float64 {
	g.ColumnInto(x, y, s.idxBuf)
	sum := 0.0
	for _, i := range s.idxBuf {
		sum += g.Cells[i].Theta
	}
	return sum / float64(len(s.idxBuf))
}

func (s *Solver) stepCell(g *grid.Grid, x, y int, p Params, dtYears float64) (flags.Bits, error) {
	var warn flags.Bits
	c := g.At(x, y, 0)
	thetaAvg := s.thetaAvg(g, x, y)

	// The ODE reads the Q16.16 authoritative values directly, never the
	// float mirrors: the mirrors are re-derived from the commit below and
	// must never feed back into Q16.16 state (grid/cell.go SyncMirrors).
	v := c.VegetationCoverFxp.Float64()
	somOld := c.SOMPercentFxp.Float64()

	dV := p.RV*v*(1-v/p.KV) +
		p.Lamb1*math.Max(thetaAvg-p.ThetaStar, 0) +
		p.Lamb2*math.Max(somOld-p.SOMStar, 0)

	var dSOM float64
	if p.UseV2 {
		pMicro := p.PMax * lut.Priming(c.FungalBacterialRatio) *
			(c.CLabile / (p.KC + c.CLabile)) *
			(thetaAvg / (p.KTheta + thetaAvg)) *
			math.Exp(p.AlphaT*(c.TempK-p.T0)) *
			(1 + p.BetaN*c.NFix) *
			(1 + p.BetaPhi*c.PhiAgg)
		dResp := p.RBase * math.Pow(p.Q10, (c.TempK-p.T0)/10) *
			(thetaAvg / (p.KThetaR + thetaAvg)) * c.O2Sat
		dSOM = (pMicro - dResp) * p.SOMUnitConversion
	} else {
		dSOM = p.A1*v - p.A2*somOld
	}

	vNew := v + dtYears*dV
	somNew := somOld + dtYears*dSOM

	if vNew < 0 {
		vNew = 0
		warn.Set(flags.RegClampV)
	} else if vNew > 1 {
		vNew = 1
		warn.Set(flags.RegClampV)
	}
	if somNew < 0.01 {
		somNew = 0.01
		warn.Set(flags.RegClampSOM)
	} else if somNew > 10.0 {
		somNew = 10.0
		warn.Set(flags.RegClampSOM)
	}

	if math.IsNaN(vNew) || math.IsInf(vNew, 0) || math.IsNaN(somNew) || math.IsInf(somNew, 0) {
		return warn, errs.NewFault("reg: non-finite V/SOM at (%d,%d)", x, y)
	}

	dSOMActual := somNew - somOld

	porosity := c.PorosityEff + (p.Eta1/1000)*dSOMActual
	if porosity < p.PorosityMin {
		porosity = p.PorosityMin
		warn.Set(flags.RegClampPorosity)
	} else if porosity > p.PorosityMax {
		porosity = p.PorosityMax
		warn.Set(flags.RegClampPorosity)
	}

	kVert := c.KTensor[8] * math.Pow(p.KMult, dSOMActual)
	if kVert < p.KVertMin {
		kVert = p.KVertMin
		warn.Set(flags.RegClampK)
	} else if kVert > p.KVertMax {
		kVert = p.KVertMax
		warn.Set(flags.RegClampK)
	}

	// Fixed-point commit: authoritative state goes through Q16.16, the
	// float mirrors are re-derived from it, never the other way round.
	c.VegetationCoverFxp = fxp.FromFloat64(vNew)
	c.SOMPercentFxp = fxp.FromFloat64(somNew)
	c.SyncMirrors()
	c.PorosityEff = porosity
	c.KTensor[8] = kVert

	return warn, nil
}
