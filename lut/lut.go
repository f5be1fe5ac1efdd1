// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lut builds the fixed-size lookup tables that every transcendental
// or van-Genuchten/Mualem evaluation on a critical path must go through
// (spec.md §4.1). Each table is built once, deterministically, from a pure
// closed-form formula, and is immutable afterwards — the same role the
// teacher's mdl/retention and mconduct packages play for their constitutive
// models (VanGen.Init builds derived constants once from parameters; here
// we go one step further and bake the whole curve into a table so that the
// per-step evaluation is a table lookup, not a transcendental call).
package lut

// entries is the fixed entry count mandated by spec.md §4.1 for every table.
const entries = 256

// Table256 is a uniformly-spaced 1D lookup table with linear interpolation,
// evaluated over a closed interval [lo, hi].
type Table256 struct {
	lo, hi float64
	step   float64
	vals   [entries]float64
}

// Build fills a Table256 over [lo, hi] by sampling f at each of the 256
// grid points. f must be a pure function of its input (no hidden state),
// so that two builds with identical bounds produce bit-identical tables.
func Build(lo, hi float64, f func(x float64) float64) Table256 {
	t := Table256{lo: lo, hi: hi}
	t.step = (hi - lo) / float64(entries-1)
	for i := 0; i < entries; i++ {
		x := lo + float64(i)*t.step
		t.vals[i] = f(x)
	}
	return t
}

// Lookup performs clamped linear interpolation at x.
func (t *Table256) Lookup(x float64) float64 {
	if x <= t.lo {
		return t.vals[0]
	}
	if x >= t.hi {
		return t.vals[entries-1]
	}
	pos := (x - t.lo) / t.step
	i := int(pos)
	if i >= entries-1 {
		return t.vals[entries-1]
	}
	frac := pos - float64(i)
	a, b := t.vals[i], t.vals[i+1]
	return a + frac*(b-a)
}

// Bounds reports the table's domain.
func (t *Table256) Bounds() (lo, hi float64) { return t.lo, t.hi }
