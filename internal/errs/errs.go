// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs provides the core's "construct an error, never panic" idiom
// on the step critical path (spec.md §7: "the core never longjmp-escapes;
// every operation returns a status"). Grounded on gosl/chk.Err, which
// builds formatted errors without ever unwinding the stack; unlike
// chk.Panic (reserved in the teacher for unrecoverable CLI-level mistakes),
// nothing in this module calls panic on a path reachable from step.
package errs

import "fmt"

// Fault marks a fatal numerical fault (NaN/Inf in committed state, or
// divergence beyond a fixed bound): spec.md §7 "abort step, set status,
// freeze simulation".
type Fault struct {
	msg string
}

func (f *Fault) Error() string { return f.msg }

// NewFault constructs a fatal fault error.
func NewFault(format string, args ...interface{}) error {
	return &Fault{msg: fmt.Sprintf(format, args...)}
}

// IsFault reports whether err is (or wraps) a Fault.
func IsFault(err error) bool {
	_, ok := err.(*Fault)
	return ok
}
