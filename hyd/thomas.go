// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

// thomasScratch holds the per-column working arrays for the Thomas
// (tridiagonal) algorithm, allocated once per simulation (spec.md §9:
// "static scratch arrays... must become per-simulation owned buffers
// allocated at create"). Sized to the grid's vertical depth.
type thomasScratch struct {
	cPrime []float64
	dPrime []float64
}

func newThomasScratch(depth int) *thomasScratch {
	return &thomasScratch{
		cPrime: make([]float64, depth),
		dPrime: make([]float64, depth),
	}
}

// solve solves A*x = d for x, where A is tridiagonal with
// sub-diagonal a[1..n-1], diagonal b[0..n-1], super-diagonal c[0..n-2].
// x is written into d in place (d becomes the solution), matching the
// conventional in-place Thomas algorithm; a, b, c are left untouched.
// The reduction order is fixed (forward sweep then back-substitution), so
// the result is identical regardless of thread count or platform (spec.md
// §5 "no reductions whose order depends on thread count").
func (s *thomasScratch) solve(a, b, c, d []float64) {
	n := len(d)
	if n == 0 {
		return
	}
	s.cPrime[0] = c[0] / b[0]
	s.dPrime[0] = d[0] / b[0]
	for i := 1; i < n; i++ {
		m := b[i] - a[i]*s.cPrime[i-1]
		if i < n-1 {
			s.cPrime[i] = c[i] / m
		}
		s.dPrime[i] = (d[i] - a[i]*s.dPrime[i-1]) / m
	}
	d[n-1] = s.dPrime[n-1]
	for i := n - 2; i >= 0; i-- {
		d[i] = s.dPrime[i] - s.cPrime[i]*d[i+1]
	}
}
