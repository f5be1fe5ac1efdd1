// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lut

// primingKeys/primingVals are the 8 fixed fungal:bacterial anchor points
// from spec.md §4.1. Grounded on the teacher's anchor-table convention in
// mdl/retention (a handful of named reference points rather than a dense
// curve) — here the table is deliberately tiny (8 entries), so a linear
// scan is the natural implementation, not premature optimization via
// binary search.
var primingKeys = [8]float64{0.1, 0.25, 0.5, 1.0, 1.5, 2.0, 3.0, 1e308}
var primingVals = [8]float64{1.0, 1.2, 1.6, 2.5, 3.5, 4.5, 6.0, 8.0}

// Priming evaluates the fungal-bacterial priming multiplier P_Fb(F:B):
// "first i with key[i] >= input", saturating at the last entry.
func Priming(fb float64) float64 {
	for i, k := range primingKeys {
		if fb <= k {
			return primingVals[i]
		}
	}
	return primingVals[len(primingVals)-1]
}
