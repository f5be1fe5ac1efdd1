// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lut

import "math"

// TMin, TMax bound the saturation vapor pressure table (spec.md §4.1).
const (
	TMin = 243.0 // K
	TMax = 333.0 // K
)

// SatVaporPressure holds the 256-entry e_s(T) table (Tetens-form formula,
// Pa). It is built with the other tables, but no solver step reads it: the
// hyd evaporation sink uses the fixed reference rate Params.EBareRef.
type SatVaporPressure struct {
	table Table256
}

// satVaporPressurePa is the closed-form Tetens approximation, T in kelvin.
func satVaporPressurePa(tempK float64) float64 {
	tC := tempK - 273.15
	return 610.94 * math.Exp(17.625*tC/(tC+243.04))
}

// Build fills the table once, deterministically.
func (s *SatVaporPressure) Build() {
	s.table = Build(TMin, TMax, satVaporPressurePa)
}

// Lookup returns e_s(T) in Pa for T in [TMin, TMax] (clamped outside).
func (s *SatVaporPressure) Lookup(tempK float64) float64 {
	return s.table.Lookup(tempK)
}
