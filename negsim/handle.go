// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package negsim

import (
	"sync"

	"github.com/negfound/negsim/kernel"
)

// MaxHandles bounds the process-wide slot table; it is allocated exactly
// once (package init) and never grows, matching spec.md §3.3's "no
// dynamic allocation after initialization" for the boundary layer itself,
// not just a single simulation's own grid.
const MaxHandles = 4096

// Handle is a stable, opaque identifier: a 1-based index into the slot
// table. 0 is the reserved "invalid/null" value returned by Create on
// failure (spec.md §6 "returns 0/null on failure").
type Handle uint32

type slot struct {
	inUse     bool
	scheduler *kernel.Scheduler
	lastError string
}

var (
	registryMu      sync.Mutex
	registry        [MaxHandles]slot
	lastConfigError string // most recent Validate() failure message; no handle exists yet to hang it on
)

// LastConfigError returns the field-level message from the most recent
// failed Create call's Config.Validate, or "" if the last Create
// succeeded or none has been attempted. Unlike GetLastError, this is not
// per-handle: Create fails before a handle can exist to record it on.
func LastConfigError() string {
	registryMu.Lock()
	defer registryMu.Unlock()
	return lastConfigError
}

// allocate finds a free slot and installs s, returning the handle, or 0 if
// the table is exhausted.
func allocate(s *kernel.Scheduler) Handle {
	registryMu.Lock()
	defer registryMu.Unlock()
	for i := range registry {
		if !registry[i].inUse {
			registry[i] = slot{inUse: true, scheduler: s}
			return Handle(i + 1)
		}
	}
	return 0
}

// lookup resolves h to its slot, or nil if h is out of range or not
// currently in use.
func lookup(h Handle) *slot {
	if h == 0 || int(h) > len(registry) {
		return nil
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	sl := &registry[h-1]
	if !sl.inUse {
		return nil
	}
	return sl
}

// free releases h's slot. Per spec.md §5's single-threaded-cooperative
// model, the caller must not call Destroy concurrently with a Step on the
// same handle.
func free(h Handle) {
	if h == 0 || int(h) > len(registry) {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[h-1] = slot{}
}
