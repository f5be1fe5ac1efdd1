// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package negsim

import (
	"github.com/negfound/negsim/flags"
	"github.com/negfound/negsim/kernel"
	"github.com/negfound/negsim/snapshot"
)

// Create allocates a new simulation from cfg and returns its handle, or 0
// with a non-OK status on failure (spec.md §6). The simulation's grid,
// tables and solver scratch are allocated here and Step allocates none;
// GetStateBinarySize, GetStateBinary, GetStateJSON and GetStateHash each
// encode the state into a newly allocated buffer on every call.
func Create(cfg Config) (Handle, Status) {
	cfg.setDefault()
	if st, msg := cfg.Validate(); st != StatusOK {
		registryMu.Lock()
		lastConfigError = msg
		registryMu.Unlock()
		return 0, st
	}

	sched, err := kernel.New(cfg.GridWidth, cfg.GridHeight, cfg.GridDepth, cfg.Seed, cfg.HydParams, cfg.RegParams, cfg.RegCallFrequency)
	if err != nil {
		return 0, StatusInvalidConfig
	}

	h := allocate(sched)
	if h == 0 {
		return 0, StatusInvalidConfig
	}
	registryMu.Lock()
	lastConfigError = ""
	registryMu.Unlock()
	return h, StatusOK
}

// Destroy releases h. Further calls on h return StatusInvalidHandle.
func Destroy(h Handle) {
	free(h)
}

// Step advances h by dt seconds under the given rainfall flux (m/s). dt<=0
// is a no-op returning StatusInvalidConfig (spec.md §8 boundary
// behaviors). A handle frozen by a prior fatal error returns
// StatusNotInitialized until ResetFromBinary clears it (spec.md §7).
func Step(h Handle, dt, rainfall float64) Status {
	sl := lookup(h)
	if sl == nil {
		return StatusInvalidHandle
	}
	if dt <= 0 {
		return StatusInvalidConfig
	}
	if sl.scheduler.Frozen {
		return StatusNotInitialized
	}

	err := sl.scheduler.Step(rainfall, dt)
	if err == nil {
		return StatusOK
	}

	// Every fatal error on the step path is a NaN/Inf errs.Fault; Picard
	// non-convergence alone never reaches here; it is OR-folded into
	// GetErrorFlags as a non-fatal warning and the step still succeeds
	// (spec.md §4.3, §7). StatusPicardDiverged is reserved for a
	// divergence-beyond-bound condition spec.md §7 alludes to without
	// fixing a concrete bound; nothing currently returns it.
	sl.lastError = err.Error()
	return StatusNumericalFault
}

// ResetFromBinary restores h's state from a binary snapshot produced by
// GetStateBinary, clearing any frozen/fatal state. On any validation
// failure h is left untouched and the matching status is returned.
func ResetFromBinary(h Handle, data []byte) Status {
	sl := lookup(h)
	if sl == nil {
		return StatusInvalidHandle
	}
	if err := snapshot.Decode(data, sl.scheduler); err != nil {
		sl.lastError = err.Error()
		switch err {
		case snapshot.ErrVersion:
			return StatusVersionMismatch
		case snapshot.ErrCorrupt:
			return StatusHashMismatch
		default:
			return StatusInvalidConfig
		}
	}
	sl.scheduler.Frozen = false
	return StatusOK
}

// GetStateBinarySize returns the exact byte length GetStateBinary would
// produce right now, so callers can size their buffer without a wasted
// encode.
func GetStateBinarySize(h Handle, timestampMs uint64) (int, Status) {
	sl := lookup(h)
	if sl == nil {
		return 0, StatusInvalidHandle
	}
	buf, err := snapshot.Encode(sl.scheduler, timestampMs)
	if err != nil {
		return 0, StatusInvalidConfig
	}
	return len(buf), StatusOK
}

// GetStateBinary writes the binary snapshot of h's current state into buf,
// returning the number of bytes written, or StatusBufferTooSmall if buf is
// too small (the snapshot is not truncated into buf in that case).
func GetStateBinary(h Handle, buf []byte, timestampMs uint64) (int, Status) {
	sl := lookup(h)
	if sl == nil {
		return 0, StatusInvalidHandle
	}
	enc, err := snapshot.Encode(sl.scheduler, timestampMs)
	if err != nil {
		return 0, StatusInvalidConfig
	}
	if len(buf) < len(enc) {
		return 0, StatusBufferTooSmall
	}
	return copy(buf, enc), StatusOK
}

// GetStateJSON writes the debugging/interop JSON snapshot of h's current
// state into buf, returning the number of bytes written.
func GetStateJSON(h Handle, buf []byte, timestampMs uint64) (int, Status) {
	sl := lookup(h)
	if sl == nil {
		return 0, StatusInvalidHandle
	}
	enc, err := snapshot.EncodeJSON(sl.scheduler, timestampMs)
	if err != nil {
		return 0, StatusInvalidConfig
	}
	if len(buf) < len(enc) {
		return 0, StatusBufferTooSmall
	}
	return copy(buf, enc), StatusOK
}

// GetStateHash returns the XXH3-class content hash of h's current DATA
// section (spec.md §4.2), or 0 with StatusInvalidHandle if h is invalid.
func GetStateHash(h Handle) (uint64, Status) {
	sl := lookup(h)
	if sl == nil {
		return 0, StatusInvalidHandle
	}
	enc, err := snapshot.Encode(sl.scheduler, 0)
	if err != nil {
		return 0, StatusInvalidConfig
	}
	return snapshot.HashOf(enc), StatusOK
}

// GetLastError returns the most recent error message recorded for h,
// stable until the next call on the same handle (spec.md §6).
func GetLastError(h Handle) (string, Status) {
	sl := lookup(h)
	if sl == nil {
		return "", StatusInvalidHandle
	}
	return sl.lastError, StatusOK
}

// GetErrorFlags returns the accumulated OR-folded warning bitmask.
func GetErrorFlags(h Handle) (flags.Bits, Status) {
	sl := lookup(h)
	if sl == nil {
		return 0, StatusInvalidHandle
	}
	return sl.scheduler.Flags, StatusOK
}

// GetDiagnostics returns the current reporting snapshot (water balance,
// runoff classification counts, REG threshold histogram) for h. This is
// not part of h's restorable state (get_state_binary/get_state_json
// carry that); it is a read-only query a caller can poll independently,
// e.g. between steps for monitoring or in cmd/negsimctl.
func GetDiagnostics(h Handle) (kernel.Diagnostics, Status) {
	sl := lookup(h)
	if sl == nil {
		return kernel.Diagnostics{}, StatusInvalidHandle
	}
	return sl.scheduler.Diagnostics(), StatusOK
}
