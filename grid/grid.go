// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "fmt"

// Grid is the single contiguous, pointer-stable allocation backing a
// simulation's cells (spec.md §3.4 "allocate one block sized header +
// N_cells * sizeof(Cell)"). Go cannot express one raw memory block typed
// as both a header struct and a trailing cell array the way a C-ABI
// implementation would, but a single []Cell slice allocated exactly once
// in New and never resized gives the same guarantee that matters
// operationally: every cell's address is fixed for the simulation's
// lifetime (spec.md §3.3 invariant 3), because Go slices never move or
// reallocate their backing array except on append, and New never appends.
type Grid struct {
	Width, Height, Depth int
	Cells                []Cell
}

// New allocates a grid of width*height*depth cells in row-major order
// (x fastest, then y, then z), matching "loop orderings over cells are
// row-major with fixed iteration sequence" (spec.md §5).
func New(width, height, depth int) (*Grid, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("grid: dimensions must be positive, got %dx%dx%d", width, height, depth)
	}
	n := width * height * depth
	g := &Grid{
		Width:  width,
		Height: height,
		Depth:  depth,
		Cells:  make([]Cell, n),
	}
	return g, nil
}

// NumCells returns the total cell count.
func (g *Grid) NumCells() int { return len(g.Cells) }

// Index maps (x, y, z) to the flat row-major offset into Cells.
func (g *Grid) Index(x, y, z int) int {
	return (z*g.Height+y)*g.Width + x
}

// At returns a pointer to the cell at (x, y, z); the pointer is stable for
// the grid's lifetime.
func (g *Grid) At(x, y, z int) *Cell {
	return &g.Cells[g.Index(x, y, z)]
}

// ColumnInto writes the cell indices of the vertical column at (x, y) into
// out (which must have length >= Depth), from the surface layer (z=0)
// downward, avoiding any allocation on the step critical path.
func (g *Grid) ColumnInto(x, y int, out []int) {
	for z := 0; z < g.Depth; z++ {
		out[z] = g.Index(x, y, z)
	}
}

// Column returns the cell indices of the vertical column at (x, y), from
// the surface layer (z=0) downward. Allocates; intended for tests and
// one-off callers outside the step hot path (use ColumnInto there).
func (g *Grid) Column(x, y int) []int {
	idx := make([]int, g.Depth)
	for z := 0; z < g.Depth; z++ {
		idx[z] = g.Index(x, y, z)
	}
	return idx
}

// Neighbor4 returns the flat indices of the up-to-4 horizontal neighbors of
// (x, y) at layer z, and how many are valid (cells on the grid boundary
// have fewer than 4). Dirichlet boundary handling (copy centre head) is
// the caller's responsibility, per spec.md §4.3 step 4.
func (g *Grid) Neighbor4(x, y, z int) (idx [4]int, valid [4]bool, count int) {
	type off struct{ dx, dy int }
	offs := [4]off{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for i, o := range offs {
		nx, ny := x+o.dx, y+o.dy
		if nx >= 0 && nx < g.Width && ny >= 0 && ny < g.Height {
			idx[i] = g.Index(nx, ny, z)
			valid[i] = true
			count++
		}
	}
	return
}
