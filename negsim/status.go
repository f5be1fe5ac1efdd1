// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package negsim

// Status is the opaque-handle API's uniform return code (spec.md §6): "the
// core never longjmp-escapes; every operation returns a status."
type Status int32

const (
	StatusOK              Status = 0
	StatusInvalidHandle   Status = 1
	StatusInvalidConfig   Status = 2
	StatusBufferTooSmall  Status = 3
	StatusVersionMismatch Status = 4
	StatusHashMismatch    Status = 5
	StatusPicardDiverged  Status = 6
	StatusNumericalFault  Status = 7
	StatusNotInitialized  Status = 8
)

// String implements fmt.Stringer for diagnostic output (e.g. cmd/negsimctl).
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusInvalidHandle:
		return "InvalidHandle"
	case StatusInvalidConfig:
		return "InvalidConfig"
	case StatusBufferTooSmall:
		return "BufferTooSmall"
	case StatusVersionMismatch:
		return "VersionMismatch"
	case StatusHashMismatch:
		return "HashMismatch"
	case StatusPicardDiverged:
		return "PicardDiverged"
	case StatusNumericalFault:
		return "NumericalFault"
	case StatusNotInitialized:
		return "NotInitialized"
	default:
		return "Unknown"
	}
}
