package snapshot

import (
	"testing"

	"github.com/negfound/negsim/hyd"
	"github.com/negfound/negsim/kernel"
	"github.com/negfound/negsim/reg"
)

func newTestScheduler(t *testing.T) *kernel.Scheduler {
	t.Helper()
	s, err := kernel.New(2, 2, 2, 0, hyd.DefaultParams(), reg.DefaultParams(), 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := range s.Grid.Cells {
		c := &s.Grid.Cells[i]
		c.ThetaR, c.ThetaS = 0.05, 0.45
		c.Theta = 0.22
		c.Ks = 1e-5
		c.Dz, c.Dx = 0.1, 1.0
		c.MKzz, c.MKxx, c.KappaEvap = 1, 1, 1
		c.PorosityEff = 0.45
		c.KTensor[8] = 1e-5
	}
	return s
}

func Test_binaryRoundtrip(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.Step(1e-7, 3600); err != nil {
		t.Fatal(err)
	}
	buf, err := Encode(s, 12345)
	if err != nil {
		t.Fatal(err)
	}

	s2 := newTestScheduler(t)
	if err := Decode(buf, s2); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s2.Tick != s.Tick {
		t.Fatalf("tick mismatch: got %d want %d", s2.Tick, s.Tick)
	}
	if s2.Grid.Cells[0].Theta != s.Grid.Cells[0].Theta {
		t.Fatalf("cell state mismatch after roundtrip")
	}
}

func Test_binaryBadMagic(t *testing.T) {
	s := newTestScheduler(t)
	buf, _ := Encode(s, 0)
	buf[0] = 'X'
	if err := Decode(buf, newTestScheduler(t)); err != ErrMagic {
		t.Fatalf("expected ErrMagic, got %v", err)
	}
}

func Test_binaryVersionMismatch(t *testing.T) {
	s := newTestScheduler(t)
	buf, _ := Encode(s, 0)
	buf[8] = 0xFF
	if err := Decode(buf, newTestScheduler(t)); err != ErrVersion {
		t.Fatalf("expected ErrVersion, got %v", err)
	}
}

func Test_binaryHashMismatch(t *testing.T) {
	s := newTestScheduler(t)
	buf, _ := Encode(s, 0)
	buf[len(buf)-1] ^= 0xFF
	if err := Decode(buf, newTestScheduler(t)); err != ErrCorrupt {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func Test_jsonRoundtrip(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.Step(1e-7, 3600); err != nil {
		t.Fatal(err)
	}
	buf, err := EncodeJSON(s, 999)
	if err != nil {
		t.Fatal(err)
	}

	s2 := newTestScheduler(t)
	if err := DecodeJSON(buf, s2); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s2.Tick != s.Tick {
		t.Fatalf("tick mismatch: got %d want %d", s2.Tick, s.Tick)
	}
	if s2.Grid.Cells[0].Theta != s.Grid.Cells[0].Theta {
		t.Fatalf("cell state mismatch after json roundtrip")
	}
}
