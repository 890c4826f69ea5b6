// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package bitvec provides a fixed-width bit vector value of up to 128 bits.
//
// A Vector is a value type: every operation returns a new Vector and
// never modifies its receiver. All results are truncated to the width of
// the receiver, so arithmetic that must observe an overflow has to widen
// its operands with Resize first:
//
//	sum := a.Resize(9).Add(b.Resize(9))
//	carry := sum.Bit(8)
//	result := sum.Resize(8)
package bitvec
