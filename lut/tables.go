// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lut

// Tables bundles every lookup table a simulation needs. One instance is
// built per simulation at create() and is immutable afterwards; spec.md §9
// allows implementations to share LUTs process-wide as read-only constants
// instead, but per-simulation ownership is simpler to reason about and
// keeps two simulations with different configurations from ever being able
// to collide on a table, at the cost of a few kilobytes per instance.
type Tables struct {
	VanGen  VanGenuchten
	Mualem  Mualem
	VaporEs SatVaporPressure
}

// Build constructs every table once, deterministically.
func (t *Tables) Build() {
	t.VanGen.Build()
	t.Mualem.Build()
	t.VaporEs.Build()
}
