package hyd

import (
	"math"
	"testing"

	"github.com/negfound/negsim/grid"
	"github.com/negfound/negsim/lut"
)

func newTestGrid(t *testing.T, width, height, depth int, thetaR, thetaS, ks, dz, dx float64) *grid.Grid {
	t.Helper()
	g, err := grid.New(width, height, depth)
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.Cells {
		c := &g.Cells[i]
		c.ThetaR, c.ThetaS, c.Ks = thetaR, thetaS, ks
		c.Theta = 0.20
		c.Dz, c.Dx = dz, dx
		c.MKzz, c.MKxx, c.KappaEvap = 1, 1, 1
		c.PorosityEff = thetaS
		c.ZetaC, c.Ac, c.DeltaZeta = 0.010, 1000, 0
	}
	return g
}

func totalWater(g *grid.Grid) float64 {
	total := 0.0
	for i := range g.Cells {
		c := &g.Cells[i]
		total += c.Theta * c.Dz * c.Dx * c.Dx
		total += c.HSurface * c.Dx * c.Dx
	}
	return total
}

// Test_massConservation01 checks scenario S1: rainfall into an initially
// unsaturated, no-flux-bottom column, with mass conserved to within 1.5%.
func Test_massConservation01(t *testing.T) {
	width, height, depth := 16, 16, 8
	g := newTestGrid(t, width, height, depth, 0.05, 0.45, 5e-6, 0.10, 1.0)

	var tables lut.Tables
	tables.Build()
	s := NewSolver(&tables, width, height, depth)

	p := DefaultParams()
	p.UseFreeDrain = false
	p.EBareRef = 0

	rainfall := 0.010 / 3600.0 // 10 mm/hr, m/s
	dt := 60.0
	nsteps := int(100 * 60 / dt) // 100 minutes

	wInit := totalWater(g)
	for i := 0; i < nsteps; i++ {
		if _, err := s.Step(g, p, rainfall, dt); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	wFinal := totalWater(g)

	rainVolume := rainfall * dt * float64(nsteps) * float64(width) * float64(height)
	want := wInit + rainVolume
	relErr := math.Abs(wFinal-want) / want
	if relErr >= 0.015 {
		t.Fatalf("mass conservation violated: w_final=%v want=%v relErr=%v", wFinal, want, relErr)
	}
}

// Test_fillAndSpillThreshold01 checks scenario S2: the logistic
// connectivity gate crosses from "closed" to "open" around zeta_c.
func Test_fillAndSpillThreshold01(t *testing.T) {
	ac, zetaC := 1000.0, 0.010
	if got := logistic(ac * (0.005 - zetaC)); got >= 0.1 {
		t.Fatalf("C(0.005) should be < 0.1, got %v", got)
	}
	if got := logistic(ac * (0.015 - zetaC)); got <= 0.9 {
		t.Fatalf("C(0.015) should be > 0.9, got %v", got)
	}
}

// Test_runoffClassification01 checks scenario S3's two worked cases.
func Test_runoffClassification01(t *testing.T) {
	var tables lut.Tables
	tables.Build()

	hortonian := &grid.Cell{
		Theta: 0.15, ThetaR: 0.05, ThetaS: 0.40, Ks: 1e-7,
		HSurface: 0.005, MKzz: 1,
	}
	if got := ClassifyRunoff(hortonian, &tables, 50.0/3600.0/1000.0); got != RunoffHortonian {
		t.Fatalf("expected Hortonian, got %v", got)
	}

	dunne := &grid.Cell{
		Theta: 0.398, ThetaR: 0.05, ThetaS: 0.40, Ks: 1e-5,
		HSurface: 0.005, MKzz: 1,
	}
	if got := ClassifyRunoff(dunne, &tables, 10.0/3600.0/1000.0); got != RunoffDunne {
		t.Fatalf("expected Dunne, got %v", got)
	}
}
