// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package negsim is the public boundary (C6): an opaque-handle API over a
// fixed-capacity slot table, suited to embedding from native, WASM, or cgo
// front-ends. Grounded on the teacher's inp.Simulation / SolverData, whose
// SetDefault-then-PostProcess-then-validate shape this package's Config
// reuses, generalized from a JSON-file-driven FEM run to an in-process
// handle lifecycle.
package negsim

import (
	"github.com/negfound/negsim/hyd"
	"github.com/negfound/negsim/reg"
)

// Config carries the options of spec.md §4.6's table plus the HYD and REG
// parameter sets (HydParams, RegParams) the solvers run with.
// UseFreeDrainage and EnableRegV2 are copied into those parameter sets by
// Create. Dt, the Enable* feature toggles other than EnableRegV2,
// IntegratorType and PrecisionMode are stored (Dt is also validated) but
// not read by the solvers.
type Config struct {
	NumScalarFields int // total cell count, must equal Width*Height*Depth

	GridWidth, GridHeight, GridDepth int

	Dt   float64 // nominal timestep, seconds
	Seed uint64  // PRNG seed; 0 selects the default seed

	EnableAtmosphere bool
	EnableHydrology  bool
	EnableSoil       bool

	IntegratorType int // reserved selector
	PrecisionMode  int // reserved selector

	UseFreeDrainage  bool
	RegCallFrequency int // HYD steps per REG call; 0 selects the default (128)
	EnableRegV2      bool

	HydParams hyd.Params
	RegParams reg.Params
}

// DefaultConfig returns a Config with every ambient default filled in
// except the grid dimensions, which the caller must always supply
// (spec.md's boundary behavior: "num_scalar_fields = 0 returns
// InvalidConfig").
func DefaultConfig() Config {
	return Config{
		Dt:               3600,
		EnableAtmosphere: true,
		EnableHydrology:  true,
		EnableSoil:       true,
		RegCallFrequency: 128,
		HydParams:        hyd.DefaultParams(),
		RegParams:        reg.DefaultParams(),
	}
}

// setDefault fills in any zero-valued ambient field, mirroring the
// teacher's SolverData.SetDefault/PostProcess split: defaults first, then
// validation (Validate, called separately by Create).
func (c *Config) setDefault() {
	if c.Dt == 0 {
		c.Dt = 3600
	}
	if c.RegCallFrequency == 0 {
		c.RegCallFrequency = 128
	}
	c.RegParams.UseV2 = c.EnableRegV2
	c.HydParams.UseFreeDrain = c.UseFreeDrainage
}

// Validate reports whether the configuration is well-formed, returning the
// matching status code (spec.md §6, §8 boundary behaviors) on failure. The
// empty string accompanies StatusOK; any other status is paired with a
// field-level message naming the offending field, for callers that want
// more than a bare status code (see LastConfigError).
func (c *Config) Validate() (Status, string) {
	if c.NumScalarFields <= 0 {
		return StatusInvalidConfig, "num_scalar_fields must be > 0"
	}
	if c.GridWidth <= 0 {
		return StatusInvalidConfig, "grid_width must be > 0"
	}
	if c.GridHeight <= 0 {
		return StatusInvalidConfig, "grid_height must be > 0"
	}
	if c.GridDepth <= 0 {
		return StatusInvalidConfig, "grid_depth must be > 0"
	}
	if c.GridWidth*c.GridHeight*c.GridDepth != c.NumScalarFields {
		return StatusInvalidConfig, "num_scalar_fields must equal grid_width*grid_height*grid_depth"
	}
	if c.Dt <= 0 {
		return StatusInvalidConfig, "dt must be > 0"
	}
	if c.RegCallFrequency <= 0 {
		return StatusInvalidConfig, "reg_call_frequency must be > 0"
	}
	return StatusOK, ""
}
