package negsim

import "testing"

func testConfig(w, h, d int) Config {
	cfg := DefaultConfig()
	cfg.GridWidth, cfg.GridHeight, cfg.GridDepth = w, h, d
	cfg.NumScalarFields = w * h * d
	return cfg
}

func Test_createRejectsZeroFields(t *testing.T) {
	cfg := testConfig(0, 0, 0)
	if _, st := Create(cfg); st != StatusInvalidConfig {
		t.Fatalf("expected StatusInvalidConfig, got %v", st)
	}
	if msg := LastConfigError(); msg == "" {
		t.Fatalf("expected a field-level message after a rejected Create")
	}
}

func Test_createRejectsShapeMismatch(t *testing.T) {
	cfg := testConfig(2, 2, 2)
	cfg.NumScalarFields = 5
	if _, st := Create(cfg); st != StatusInvalidConfig {
		t.Fatalf("expected StatusInvalidConfig, got %v", st)
	}
	if msg := LastConfigError(); msg == "" {
		t.Fatalf("expected a field-level message naming the shape mismatch")
	}
}

func Test_createDestroyLifecycle(t *testing.T) {
	cfg := testConfig(2, 2, 2)
	h, st := Create(cfg)
	if st != StatusOK || h == 0 {
		t.Fatalf("expected a valid handle, got handle=%v status=%v", h, st)
	}
	Destroy(h)
	if _, st := GetErrorFlags(h); st != StatusInvalidHandle {
		t.Fatalf("expected StatusInvalidHandle after Destroy, got %v", st)
	}
}

func Test_stepRejectsNonPositiveDt(t *testing.T) {
	cfg := testConfig(2, 2, 2)
	h, _ := Create(cfg)
	defer Destroy(h)
	if st := Step(h, 0, 1e-7); st != StatusInvalidConfig {
		t.Fatalf("expected StatusInvalidConfig for dt<=0, got %v", st)
	}
}

func Test_stepInvalidHandle(t *testing.T) {
	if st := Step(Handle(999999), 60, 1e-7); st != StatusInvalidHandle {
		t.Fatalf("expected StatusInvalidHandle, got %v", st)
	}
}

func Test_stateHashDeterministicForIdenticalConfig(t *testing.T) {
	cfg := testConfig(4, 4, 2)
	h1, _ := Create(cfg)
	h2, _ := Create(cfg)
	defer Destroy(h1)
	defer Destroy(h2)

	for i := 0; i < 5; i++ {
		if st := Step(h1, 60, 1e-7); st != StatusOK {
			t.Fatalf("h1 step failed: %v", st)
		}
		if st := Step(h2, 60, 1e-7); st != StatusOK {
			t.Fatalf("h2 step failed: %v", st)
		}
	}

	hash1, st1 := GetStateHash(h1)
	hash2, st2 := GetStateHash(h2)
	if st1 != StatusOK || st2 != StatusOK {
		t.Fatalf("unexpected status getting hashes: %v %v", st1, st2)
	}
	if hash1 != hash2 {
		t.Fatalf("identical config+seed+steps should produce identical hash: %x != %x", hash1, hash2)
	}
}

// Test_crossInstanceReproducibility01 checks scenario S6's shape: a 32x32
// grid stepped 100 times with dt=3600, rainfall=1e-7, REG every 128 steps,
// and the default seed produces an identical (tick, hash) tuple on two
// independently created simulations. The literal golden hash value itself
// can only be recorded from an actual run (never performed in this
// exercise); this test instead asserts the determinism property the golden
// depends on: same config+seed+steps implies bit-identical state. The API
// exposes no tick getter, so run reports the 100 steps it made; the tick
// itself is part of the hashed DATA section, so equal hashes also mean
// equal ticks.
func Test_crossInstanceReproducibility01(t *testing.T) {
	cfg := testConfig(32, 32, 1)
	cfg.RegCallFrequency = 128

	run := func() (uint64, uint64) {
		h, st := Create(cfg)
		if st != StatusOK {
			t.Fatalf("create failed: %v", st)
		}
		defer Destroy(h)
		for i := 0; i < 100; i++ {
			if st := Step(h, 3600, 1e-7); st != StatusOK {
				t.Fatalf("step %d failed: %v", i, st)
			}
		}
		hash, st := GetStateHash(h)
		if st != StatusOK {
			t.Fatalf("get state hash failed: %v", st)
		}
		return 100, hash
	}

	tick1, hash1 := run()
	tick2, hash2 := run()
	if tick1 != tick2 || hash1 != hash2 {
		t.Fatalf("expected identical (tick, hash), got (%d,%x) vs (%d,%x)", tick1, hash1, tick2, hash2)
	}
}

func Test_getDiagnostics(t *testing.T) {
	cfg := testConfig(3, 3, 1)
	h, st := Create(cfg)
	if st != StatusOK {
		t.Fatalf("create failed: %v", st)
	}
	defer Destroy(h)

	if st := Step(h, 60, 1e-6); st != StatusOK {
		t.Fatalf("step failed: %v", st)
	}

	diag, st := GetDiagnostics(h)
	if st != StatusOK {
		t.Fatalf("unexpected status: %v", st)
	}
	var runoffTotal, histTotal uint64
	for _, c := range diag.RunoffClassCounts {
		runoffTotal += c
	}
	for _, c := range diag.ThresholdHistogram {
		histTotal += c
	}
	wantCells := uint64(cfg.GridWidth * cfg.GridHeight)
	if runoffTotal != wantCells || histTotal != wantCells {
		t.Fatalf("expected every surface cell counted exactly once: runoff=%d hist=%d want=%d", runoffTotal, histTotal, wantCells)
	}

	if _, st := GetDiagnostics(Handle(999999)); st != StatusInvalidHandle {
		t.Fatalf("expected StatusInvalidHandle, got %v", st)
	}
}

func Test_binarySnapshotRoundtripViaAPI(t *testing.T) {
	cfg := testConfig(3, 3, 2)
	h, _ := Create(cfg)
	defer Destroy(h)

	for i := 0; i < 3; i++ {
		Step(h, 60, 1e-7)
	}

	size, st := GetStateBinarySize(h, 42)
	if st != StatusOK {
		t.Fatalf("unexpected status: %v", st)
	}
	buf := make([]byte, size)
	n, st := GetStateBinary(h, buf, 42)
	if st != StatusOK || n != size {
		t.Fatalf("unexpected binary write: n=%d status=%v", n, st)
	}

	tooSmall := make([]byte, size-1)
	if _, st := GetStateBinary(h, tooSmall, 42); st != StatusBufferTooSmall {
		t.Fatalf("expected StatusBufferTooSmall, got %v", st)
	}

	h2, _ := Create(cfg)
	defer Destroy(h2)
	if st := ResetFromBinary(h2, buf); st != StatusOK {
		t.Fatalf("reset failed: %v", st)
	}
	hash1, _ := GetStateHash(h)
	hash2, _ := GetStateHash(h2)
	if hash1 != hash2 {
		t.Fatalf("reset_from_binary(get_state_binary(S)) should be hash-identical to S")
	}
}
