// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

import (
	"math"

	"github.com/negfound/negsim/flags"
	"github.com/negfound/negsim/grid"
	"github.com/negfound/negsim/internal/errs"
	"github.com/negfound/negsim/lut"
)

// Solver advances the coupled surface/subsurface water balance by operator
// splitting (spec.md §4.3): vertical implicit column solve, then horizontal
// explicit surface diffusion, then an evaporation sink. All scratch buffers
// are allocated once in NewSolver and reused every step (spec.md §9).
type Solver struct {
	tables *lut.Tables
	scratch *thomasScratch

	depth int
	width, height int

	aBuf, bBuf, cBuf, dBuf []float64 // tridiagonal coefficients, sized to depth
	kFace, dFace           []float64 // inter-layer K and diffusivity, sized to depth; the first depth-1 are used

	thetaOldBuf, thetaIterBuf, nextBuf []float64 // per-column Picard scratch, sized to depth
	idxBuf                             []int     // column cell indices, sized to depth

	connect []float64 // C(zeta) per surface cell, sized width*height
	hNext   []float64 // double-buffer for the explicit horizontal pass
}

// NewSolver allocates a solver for a grid of the given shape, sharing the
// given lookup tables (spec.md §9: LUTs "may be per-instance or global-
// immutable").
func NewSolver(tables *lut.Tables, width, height, depth int) *Solver {
	return &Solver{
		tables:  tables,
		scratch: newThomasScratch(depth),
		depth:   depth,
		width:   width,
		height:  height,
		aBuf:    make([]float64, depth),
		bBuf:    make([]float64, depth),
		cBuf:    make([]float64, depth),
		dBuf:    make([]float64, depth),
		kFace:   make([]float64, depth),
		dFace:   make([]float64, depth),

		thetaOldBuf:  make([]float64, depth),
		thetaIterBuf: make([]float64, depth),
		nextBuf:      make([]float64, depth),
		idxBuf:       make([]int, depth),

		connect: make([]float64, width*height),
		hNext:   make([]float64, width*height),
	}
}

// logistic is sigma(x), with the exponent clamped to [-20, 20] per spec.md
// §4.3 step 1 ("clamped-exponent to [-20, 20]") to avoid overflow in Exp.
func logistic(x float64) float64 {
	if x > 20 {
		x = 20
	} else if x < -20 {
		x = -20
	}
	return 1.0 / (1.0 + math.Exp(-x))
}

// Step advances the grid by dt seconds under the given rainfall flux
// (m/s), following the five sub-steps of spec.md §4.3 in order.
func (s *Solver) Step(g *grid.Grid, p Params, rainfall, dt float64) (flags.Bits, error) {
	var warn flags.Bits

	// Step 1: depression storage and connectivity.
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := g.At(x, y, 0)
			cap := c.ZetaC + c.DeltaZeta
			c.Zeta = math.Min(c.HSurface, cap)
			s.connect[y*s.width+x] = logistic(c.Ac * (c.Zeta - c.ZetaC))
		}
	}

	// Step 2-3: vertical implicit column solve + clamp, one column at a time.
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			w, err := s.solveColumn(g, x, y, p, rainfall, dt)
			warn |= w
			if err != nil {
				return warn, err
			}
		}
	}

	// Step 4: horizontal explicit surface diffusion.
	w, err := s.horizontalPass(g, p, dt)
	warn |= w
	if err != nil {
		return warn, err
	}

	// Step 5: evaporation sink at the top layer only.
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := g.At(x, y, 0)
			dTheta := c.KappaEvap * p.EBareRef * dt / c.Dz
			c.Theta -= dTheta
			if c.Theta < c.ThetaR {
				c.Theta = c.ThetaR
				warn.Set(flags.HydClampThetaR)
			}
			if math.IsNaN(c.Theta) || math.IsInf(c.Theta, 0) {
				return warn, errs.NewFault("hyd: non-finite theta at (%d,%d,0) after evaporation", x, y)
			}
		}
	}

	return warn, nil
}

// solveColumn runs the Picard-linearized backward-Euler vertical solve for
// one column, grounded on mdl/porous.Model.Update's iterate-to-tolerance
// structure (NmaxIt/Itol there, PicardMaxIter/PicardTol here).
func (s *Solver) solveColumn(g *grid.Grid, x, y int, p Params, rainfall, dt float64) (flags.Bits, error) {
	var warn flags.Bits
	g.ColumnInto(x, y, s.idxBuf)
	idx := s.idxBuf
	nz := len(idx)

	thetaOld := s.thetaOldBuf[:nz]
	thetaIter := s.thetaIterBuf[:nz]
	next := s.nextBuf[:nz]
	for k, i := range idx {
		thetaOld[k] = g.Cells[i].Theta
		thetaIter[k] = thetaOld[k]
	}

	converged := false
	for it := 0; it < p.PicardMaxIter; it++ {
		s.buildFaces(g, idx, thetaIter)
		s.buildTridiagonal(g, idx, thetaOld, p, rainfall, dt)

		copy(next, s.dBuf[:nz])
		s.scratch.solve(s.aBuf[:nz], s.bBuf[:nz], s.cBuf[:nz], next)

		maxDelta := 0.0
		for k := 0; k < nz; k++ {
			d := math.Abs(next[k] - thetaIter[k])
			if d > maxDelta {
				maxDelta = d
			}
			thetaIter[k] = next[k]
		}
		if maxDelta < p.PicardTol {
			converged = true
			break
		}
	}
	if !converged {
		warn.Set(flags.HydPicardNonConverged)
	}

	for k, i := range idx {
		c := &g.Cells[i]
		theta := thetaIter[k]
		if math.IsNaN(theta) || math.IsInf(theta, 0) {
			return warn, errs.NewFault("hyd: non-finite theta at column (%d,%d) layer %d", x, y, k)
		}
		if theta < c.ThetaR {
			theta = c.ThetaR
			warn.Set(flags.HydClampThetaR)
		}
		if theta > c.PorosityEff {
			theta = c.PorosityEff
			warn.Set(flags.HydClampPorosity)
		}
		c.Theta = theta
		c.Psi = s.tables.VanGen.DiagnosticPsi(c.Theta, c.ThetaR, c.ThetaS)
	}
	return warn, nil
}

// buildFaces fills kFace/dFace (inter-layer K and diffusivity) for the
// current Picard iterate, using the harmonic mean of K_lookup(theta)*M_K_zz
// between adjacent cells (spec.md §4.3 step 2).
func (s *Solver) buildFaces(g *grid.Grid, idx []int, theta []float64) {
	nz := len(idx)
	for k := 0; k < nz-1; k++ {
		c0 := &g.Cells[idx[k]]
		c1 := &g.Cells[idx[k+1]]
		k0 := s.tables.Mualem.K(theta[k], c0.ThetaR, c0.ThetaS, c0.Ks) * c0.MKzz
		k1 := s.tables.Mualem.K(theta[k+1], c1.ThetaR, c1.ThetaS, c1.Ks) * c1.MKzz
		var kHarm float64
		if k0 > 0 && k1 > 0 {
			kHarm = 2 * k0 * k1 / (k0 + k1)
		}
		s.kFace[k] = kHarm
		cap0 := s.tables.VanGen.Capacity(theta[k], c0.ThetaR, c0.ThetaS)
		cap1 := s.tables.VanGen.Capacity(theta[k+1], c1.ThetaR, c1.ThetaS)
		capAvg := 0.5 * (cap0 + cap1)
		if capAvg > 1e-12 {
			s.dFace[k] = kHarm / capAvg
		} else {
			s.dFace[k] = 0
		}
	}
}

// buildTridiagonal assembles the per-column backward-Euler system in
// mixed (theta) form, avoiding any per-step dependence on psi (spec.md §9
// open question: psi is diagnostic only).
func (s *Solver) buildTridiagonal(g *grid.Grid, idx []int, thetaOld []float64, p Params, rainfall, dt float64) {
	nz := len(idx)
	for k := 0; k < nz; k++ {
		dz := g.Cells[idx[k]].Dz
		r := dt / (dz * dz)
		var a, b, c, d float64
		b = 1.0
		d = thetaOld[k]

		if k > 0 {
			dTop := s.dFace[k-1]
			kTop := s.kFace[k-1]
			a = -r * dTop
			b += r * dTop
			d += dt / dz * kTop
		} else {
			d += dt / dz * rainfall
		}

		if k < nz-1 {
			dBot := s.dFace[k]
			kBot := s.kFace[k]
			c = -r * dBot
			b += r * dBot
			d -= dt / dz * kBot
		} else {
			if p.UseFreeDrain {
				kBottom := s.tables.Mualem.K(thetaOld[k], g.Cells[idx[k]].ThetaR, g.Cells[idx[k]].ThetaS, g.Cells[idx[k]].Ks) * g.Cells[idx[k]].MKzz
				d -= dt / dz * kBottom
			}
			// no-flux: nothing added.
		}

		s.aBuf[k], s.bBuf[k], s.cBuf[k], s.dBuf[k] = a, b, c, d
	}
}

// horizontalPass advances ponded surface water by explicit 5-point-Laplacian
// diffusion, sub-stepped for stability (spec.md §4.3 step 4).
func (s *Solver) horizontalPass(g *grid.Grid, p Params, dt float64) (flags.Bits, error) {
	var warn flags.Bits

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := g.At(x, y, 0)
			s.hNext[y*s.width+x] = c.HSurface
		}
	}

	dx := g.At(0, 0, 0).Dx
	nSub := 1
	if p.Kr > 0 {
		nSub = int(math.Ceil(dt / (p.CFL * dx * dx / (2 * p.Kr))))
		if nSub < 1 {
			nSub = 1
		}
	}
	dtSub := dt / float64(nSub)

	for sub := 0; sub < nSub; sub++ {
		for y := 0; y < s.height; y++ {
			for x := 0; x < s.width; x++ {
				flatIdx := y*s.width + x
				conn := s.connect[flatIdx]
				if conn < p.ConnectGate {
					continue
				}
				c := g.At(x, y, 0)
				head := c.HSurface + c.Z
				nbIdx, valid, count := g.Neighbor4(x, y, 0)
				if count == 0 {
					continue
				}
				lap := 0.0
				for i := 0; i < 4; i++ {
					var nbHead float64
					if valid[i] {
						nb := &g.Cells[nbIdx[i]]
						nbHead = nb.HSurface + nb.Z
					} else {
						nbHead = head // Dirichlet: copy centre head to absent neighbours
					}
					lap += nbHead - head
				}
				lap /= dx * dx
				s.hNext[flatIdx] = c.HSurface + dtSub*p.Kr*conn*lap
			}
		}
		for y := 0; y < s.height; y++ {
			for x := 0; x < s.width; x++ {
				flatIdx := y*s.width + x
				if s.hNext[flatIdx] < 0 {
					s.hNext[flatIdx] = 0
					warn.Set(flags.HydNegativeWaterClamp)
				}
				g.At(x, y, 0).HSurface = s.hNext[flatIdx]
			}
		}
	}

	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			h := g.At(x, y, 0).HSurface
			if math.IsNaN(h) || math.IsInf(h, 0) {
				return warn, errs.NewFault("hyd: non-finite h_surface at (%d,%d)", x, y)
			}
		}
	}
	return warn, nil
}
