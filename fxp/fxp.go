// Copyright 2026 The Negsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fxp implements Q16.16 signed fixed-point arithmetic: the sole
// numerically-critical scalar representation guaranteed to be bit-identical
// across platforms and builds. All slow-loop authoritative state (vegetation
// cover, soil organic matter) is committed through this package.
package fxp

import "math"

// T is a Q16.16 fixed-point value: a signed 32-bit two's-complement integer
// where 1 unit == 1/65536. Overflow wraps by contract (Go's int32 semantics
// already wrap); division saturates on a zero divisor.
type T int32

// Frac is the number of fractional bits.
const Frac = 16

const one = 1 << Frac

// Zero, One and the saturation bounds.
const (
	Zero T = 0
	One  T = one
	Max  T = math.MaxInt32
	Min  T = math.MinInt32
)

// FromFloat64 quantizes a float64 to Q16.16, rounding to nearest.
func FromFloat64(x float64) T {
	scaled := x * float64(one)
	if scaled >= float64(math.MaxInt32) {
		return Max
	}
	if scaled <= float64(math.MinInt32) {
		return Min
	}
	if scaled >= 0 {
		return T(scaled + 0.5)
	}
	return T(scaled - 0.5)
}

// FromInt lifts a plain integer into Q16.16 (x -> x.0).
func FromInt(x int32) T {
	return T(x) << Frac
}

// Float64 widens a Q16.16 value back to float64 exactly (no rounding loss,
// since float64 has far more precision than Q16.16).
func (a T) Float64() float64 {
	return float64(a) / float64(one)
}

// Add is wrapping signed addition.
func (a T) Add(b T) T { return a + b }

// Sub is wrapping signed subtraction.
func (a T) Sub(b T) T { return a - b }

// Neg negates a.
func (a T) Neg() T { return -a }

// Mul computes (a*b) >> 16 using a 64-bit intermediate to avoid overflow
// during the multiply, then truncates (arithmetic shift) back to Q16.16.
// The truncation itself wraps if the mathematical product does not fit in
// 32 bits, per the fixed-point contract ("overflow is bit-wrapping").
func (a T) Mul(b T) T {
	prod := int64(a) * int64(b)
	return T(prod >> Frac)
}

// Div computes (a<<16)/b. A zero divisor saturates to Min or Max according
// to the sign of the numerator (zero numerator saturates to Max, matching
// the "positive/zero treated as non-negative" convention used throughout
// the solver's clamp logic).
func (a T) Div(b T) T {
	if b == 0 {
		if a < 0 {
			return Min
		}
		return Max
	}
	num := int64(a) << Frac
	return T(num / int64(b))
}

// Clamp restricts a to [lo, hi].
func (a T) Clamp(lo, hi T) T {
	if a < lo {
		return lo
	}
	if a > hi {
		return hi
	}
	return a
}

// Cmp returns -1, 0, +1 as a<b, a==b, a>b.
func (a T) Cmp(b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
