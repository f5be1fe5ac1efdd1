// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flags defines the OR-folded numerical-warning accumulator shared
// by the hydrology and regeneration solvers and the kernel (spec.md §7):
// "Numerical warnings... OR-folded into error_flags, step still succeeds."
package flags

// Bits is the accumulated warning bitmask returned by get_error_flags.
type Bits uint32

// Individual warning bits. Values are stable across releases: external
// front-ends persist them in snapshots and diagnostics.
const (
	HydPicardNonConverged Bits = 1 << iota
	HydClampThetaR
	HydClampPorosity
	HydClampK
	HydNegativeWaterClamp
	RegClampV
	RegClampSOM
	RegClampPorosity
	RegClampK
)

// Set ORs in the given bits.
func (b *Bits) Set(bit Bits) { *b |= bit }

// Has reports whether bit is set.
func (b Bits) Has(bit Bits) bool { return b&bit != 0 }
