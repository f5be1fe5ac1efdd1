// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// negsimctl is a thin, non-normative diagnostic CLI: it is not part of the
// core's public boundary, only a convenience front-end over package
// negsim, grounded on the teacher's main.go (flag-parsed, panic-recovering
// entry point, gosl/io-formatted banner/output) but reworked from a
// .sim-file FEM runner into a handle-driven step loop.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/negfound/negsim/negsim"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	width := flag.Int("width", 32, "grid width")
	height := flag.Int("height", 32, "grid height")
	depth := flag.Int("depth", 1, "grid depth")
	steps := flag.Int("steps", 100, "number of steps to run")
	dt := flag.Float64("dt", 3600, "timestep, seconds")
	rainfall := flag.Float64("rainfall", 1e-7, "rainfall flux, m/s")
	seed := flag.Uint64("seed", 0, "PRNG seed (0 -> default)")
	regFreq := flag.Int("reg-freq", 128, "HYD steps per REG call")
	regV2 := flag.Bool("regv2", false, "enable REGv2 microbial priming")
	flag.Parse()

	io.PfWhite("\nnegsimctl -- coupled hydrology/regeneration diagnostic runner\n\n")

	cfg := negsim.DefaultConfig()
	cfg.GridWidth, cfg.GridHeight, cfg.GridDepth = *width, *height, *depth
	cfg.NumScalarFields = *width * *height * *depth
	cfg.Seed = *seed
	cfg.RegCallFrequency = *regFreq
	cfg.EnableRegV2 = *regV2

	h, st := negsim.Create(cfg)
	if st != negsim.StatusOK {
		chk.Panic("create failed: %v", st)
	}
	defer negsim.Destroy(h)

	for i := 0; i < *steps; i++ {
		if st := negsim.Step(h, *dt, *rainfall); st != negsim.StatusOK {
			msg, _ := negsim.GetLastError(h)
			chk.Panic("step %d failed: %v (%s)", i, st, msg)
		}
	}

	hash, _ := negsim.GetStateHash(h)
	flagBits, _ := negsim.GetErrorFlags(h)
	io.Pf("ran %d steps: hash=0x%x error_flags=0x%x\n", *steps, hash, uint32(flagBits))

	diag, _ := negsim.GetDiagnostics(h)
	io.Pf("water_balance=%.6g runoff_classes=%v threshold_histogram=%v\n",
		diag.TotalWater, diag.RunoffClassCounts, diag.ThresholdHistogram)
}
