package grid

import "testing"

func Test_newRejectsZero(t *testing.T) {
	if _, err := New(0, 4, 4); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func Test_indexRowMajor(t *testing.T) {
	g, err := New(3, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if g.NumCells() != 12 {
		t.Fatalf("expected 12 cells, got %d", g.NumCells())
	}
	if g.Index(0, 0, 0) != 0 {
		t.Fatalf("origin should be index 0")
	}
	if g.Index(2, 1, 1) != g.NumCells()-1 {
		t.Fatalf("last corner should be last index, got %d want %d", g.Index(2, 1, 1), g.NumCells()-1)
	}
}

func Test_pointerStability(t *testing.T) {
	g, _ := New(4, 4, 1)
	p1 := g.At(1, 1, 0)
	p1.Theta = 0.33
	p2 := g.At(1, 1, 0)
	if p2.Theta != 0.33 {
		t.Fatalf("cell pointer should be stable across calls")
	}
}

func Test_neighbor4Boundary(t *testing.T) {
	g, _ := New(3, 3, 1)
	_, valid, count := g.Neighbor4(0, 0, 0)
	if count != 2 {
		t.Fatalf("corner cell should have 2 valid neighbors, got %d", count)
	}
	if !valid[1] || !valid[3] {
		t.Fatalf("corner (0,0) should have +x and +y neighbors valid")
	}
}
