// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

import (
	"github.com/negfound/negsim/grid"
	"github.com/negfound/negsim/lut"
)

// RunoffClass is the diagnostic runoff classification (spec.md §4.3): it is
// a pure query over a cell's current state, never used to drive the solve.
type RunoffClass int

const (
	RunoffAmbiguous RunoffClass = 0
	RunoffHortonian RunoffClass = 1
	RunoffDunne     RunoffClass = 2
)

// ClassifyRunoff implements the fixed thresholds of spec.md §4.3 /
// scenario S3.
func ClassifyRunoff(c *grid.Cell, tables *lut.Tables, rainfall float64) RunoffClass {
	if c.HSurface <= 1e-6 {
		return RunoffAmbiguous
	}
	if c.Theta >= 0.99*c.ThetaS {
		return RunoffDunne
	}
	kLocal := tables.Mualem.K(c.Theta, c.ThetaR, c.ThetaS, c.Ks) * c.MKzz
	if rainfall > kLocal {
		return RunoffHortonian
	}
	return RunoffAmbiguous
}
