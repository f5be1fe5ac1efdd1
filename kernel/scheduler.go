// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel implements the multi-rate scheduler (C5): the struct that
// owns a simulation's grid, lookup tables, PRNG, tick counter and cadence
// counter, and drives HYD every tick and REG every REG_CALL_FREQUENCY-th
// tick. Grounded on the teacher's fem.FEM, which likewise holds the owned
// sub-solvers (Domains, Solver) and state (DynCfs) behind a single
// top-level struct with a time-loop entry point; here that entry point is
// Step instead of Run, called once per tick by the caller rather than
// looping internally, since the public boundary (package negsim) drives
// the loop from the embedder's side.
package kernel

import (
	"math"

	"github.com/negfound/negsim/flags"
	"github.com/negfound/negsim/grid"
	"github.com/negfound/negsim/hyd"
	"github.com/negfound/negsim/internal/errs"
	"github.com/negfound/negsim/lut"
	"github.com/negfound/negsim/prng"
	"github.com/negfound/negsim/reg"
)

// numRunoffClasses and numThresholdCombos size the Diagnostics histograms:
// hyd.RunoffClass is 0..2, reg.ThresholdBits is a 3-bit mask, 0..7.
const (
	numRunoffClasses   = 3
	numThresholdCombos = 8
)

// Diagnostics is a read-only reporting snapshot separate from the
// authoritative state a simulation can be restored from (spec.md §3.3:
// only snapshots carry restorable state). Grounded on the teacher's
// fem.Summary, which likewise splits output/reporting data from live
// domain state.
type Diagnostics struct {
	// TotalWater is the current water-balance total: sum over every cell
	// of theta*Dz*Dx^2 (subsurface storage) plus HSurface*Dx^2 (ponding).
	TotalWater float64

	// RunoffClassCounts[c] counts surface cells currently classified as
	// hyd.RunoffClass(c), under the rainfall flux passed to the most
	// recent Step call.
	RunoffClassCounts [numRunoffClasses]uint64

	// ThresholdHistogram[b] counts surface cells whose reg.ThresholdBits
	// diagnostic bitmask currently equals b.
	ThresholdHistogram [numThresholdCombos]uint64
}

// SecondsPerYear converts the REG cadence's elapsed real time into the
// annual step REG's ODE is defined on (spec.md §4.4, §4.5).
const SecondsPerYear = 365.25 * 86400

// Scheduler binds the grid, both solvers, the PRNG, and the cadence/tick
// bookkeeping into one deterministic, single-allocation simulation.
type Scheduler struct {
	Grid   *grid.Grid
	Tables *lut.Tables
	Hyd    *hyd.Solver
	Reg    *reg.Solver
	PRNG   *prng.XorShift64Star

	HydParams hyd.Params
	RegParams reg.Params

	RegCallFrequency int
	hydStepCounter   int
	lastRainfall     float64 // rainfall flux from the most recent Step, for Diagnostics
	diagIdxBuf       []int   // column-index scratch for Diagnostics, sized to depth

	Tick        uint64
	TimestampUs uint64
	Flags       flags.Bits
	Frozen      bool // set on a fatal error; step refuses to advance until Reset
}

// New builds the grid, tables, and both solvers, and seeds the PRNG,
// matching the "allocate once, initialize LUTs, seed PRNG" lifecycle of
// spec.md §3.4. No allocation happens after New returns.
func New(width, height, depth int, seed uint64, hydParams hyd.Params, regParams reg.Params, regCallFrequency int) (*Scheduler, error) {
	g, err := grid.New(width, height, depth)
	if err != nil {
		return nil, err
	}
	tables := &lut.Tables{}
	tables.Build()
	if regCallFrequency <= 0 {
		regCallFrequency = 128
	}
	return &Scheduler{
		Grid:             g,
		Tables:           tables,
		Hyd:              hyd.NewSolver(tables, width, height, depth),
		Reg:              reg.NewSolver(depth),
		PRNG:             prng.New(seed),
		HydParams:        hydParams,
		RegParams:        regParams,
		RegCallFrequency: regCallFrequency,
		diagIdxBuf:       make([]int, depth),
	}, nil
}

// Step advances the simulation by one tick of dt seconds under the given
// rainfall flux, following the five sub-steps of spec.md §4.5 in order.
// Once a fatal error occurs the scheduler is frozen: every subsequent Step
// call returns an errs.Fault without advancing until the caller resets the simulation from
// a snapshot (spec.md §7 "refuses further steps after a fatal error").
func (s *Scheduler) Step(rainfall, dt float64) error {
	if s.Frozen {
		return errs.NewFault("kernel: simulation is frozen after a prior fatal error")
	}
	s.lastRainfall = rainfall

	warn, err := s.Hyd.Step(s.Grid, s.HydParams, rainfall, dt)
	s.Flags |= warn
	if err != nil {
		s.Frozen = true
		return err
	}

	s.hydStepCounter++
	if s.hydStepCounter >= s.RegCallFrequency {
		dtYears := float64(s.RegCallFrequency) * dt / SecondsPerYear
		regWarn, regErr := s.Reg.Step(s.Grid, s.Grid.Width, s.Grid.Height, s.RegParams, dtYears)
		s.Flags |= regWarn
		s.hydStepCounter = 0
		if regErr != nil {
			s.Frozen = true
			return regErr
		}
	}

	s.TimestampUs += uint64(math.Round(dt * 1e6))
	s.Tick++
	return nil
}

// Reset clears the tick counter, timestamp, accumulated flags, frozen
// state, and cadence counter; it leaves the grid's cell contents and the
// PRNG state as they are. negsim.ResetFromBinary does not call it: that
// path restores tick, timestamp, flags and frozen state through
// snapshot.Decode and then clears Frozen itself.
func (s *Scheduler) Reset() {
	s.Tick = 0
	s.TimestampUs = 0
	s.Flags = 0
	s.Frozen = false
	s.hydStepCounter = 0
}

// Diagnostics scans the grid and returns the current reporting snapshot:
// water balance, runoff classification counts (hyd.ClassifyRunoff under
// the last rainfall flux passed to Step), and the REG threshold bitmask
// histogram (reg.Threshold). It never mutates state, is safe to call
// against a frozen simulation, and allocates nothing beyond its own
// return value.
func (s *Scheduler) Diagnostics() Diagnostics {
	var d Diagnostics
	g := s.Grid
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.At(x, y, 0)

			class := hyd.ClassifyRunoff(c, s.Tables, s.lastRainfall)
			d.RunoffClassCounts[class]++

			g.ColumnInto(x, y, s.diagIdxBuf)
			thetaSum := 0.0
			for _, i := range s.diagIdxBuf {
				cc := &g.Cells[i]
				thetaSum += cc.Theta
				d.TotalWater += cc.Theta * cc.Dz * cc.Dx * cc.Dx
			}
			d.TotalWater += c.HSurface * c.Dx * c.Dx

			thetaAvg := thetaSum / float64(len(s.diagIdxBuf))
			bits := reg.Threshold(c, thetaAvg, s.RegParams)
			d.ThresholdHistogram[bits]++
		}
	}
	return d
}
