// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package bitvec

import (
	"fmt"
	"math/bits"
)

const MAX_WIDTH = 128 // Widest supported vector.

// Vector is an unsigned bit pattern of a fixed width.
type Vector struct {
	hi, lo uint64
	width  int
}

func mask(width int) (hi, lo uint64) {
	switch {
	case width >= 128:
		hi, lo = ^uint64(0), ^uint64(0)
	case width > 64:
		hi, lo = (uint64(1)<<(width-64))-1, ^uint64(0)
	case width == 64:
		lo = ^uint64(0)
	default:
		lo = (uint64(1) << width) - 1
	}
	return
}

func shl(hi, lo uint64, n int) (uint64, uint64) {
	switch {
	case n <= 0:
		return hi, lo
	case n >= 128:
		return 0, 0
	case n >= 64:
		return lo << (n - 64), 0
	}
	return hi<<n | lo>>(64-n), lo << n
}

func shr(hi, lo uint64, n int) (uint64, uint64) {
	switch {
	case n <= 0:
		return hi, lo
	case n >= 128:
		return 0, 0
	case n >= 64:
		return 0, hi >> (n - 64)
	}
	return hi >> n, lo>>n | hi<<(64-n)
}

func checkWidth(width int) {
	if width < 1 || width > MAX_WIDTH {
		panic(fmt.Errorf("%w: %d", ErrWidth, width))
	}
}

// FromParts creates a vector from the high and low 64-bit halves of a
// 128-bit pattern, truncated to width.
func FromParts(width int, hi, lo uint64) (v Vector) {
	checkWidth(width)
	mhi, mlo := mask(width)
	v = Vector{hi: hi & mhi, lo: lo & mlo, width: width}
	return
}

// New creates a vector of the given width, truncating value.
func New(width int, value uint64) Vector {
	return FromParts(width, 0, value)
}

// Width of the vector, in bits.
func (v Vector) Width() int {
	return v.width
}

// Uint returns the low 64 bits of the vector as an unsigned value.
func (v Vector) Uint() uint64 {
	return v.lo
}

// Int returns the vector as a two's complement signed value.
// Only the low 64 bits participate for vectors wider than 64 bits.
func (v Vector) Int() int64 {
	if v.width >= 64 {
		return int64(v.lo)
	}
	shift := 64 - v.width
	return int64(v.lo<<shift) >> shift
}

// Parts returns the high and low 64-bit halves of the vector.
func (v Vector) Parts() (hi, lo uint64) {
	return v.hi, v.lo
}

// IsZero returns true if no bits are set.
func (v Vector) IsZero() bool {
	return v.hi == 0 && v.lo == 0
}

// Bit returns the value of bit n, where bit 0 is the least significant.
func (v Vector) Bit(n int) bool {
	if n < 0 || n >= v.width {
		panic(fmt.Errorf("%w: %d of %d", ErrRange, n, v.width))
	}
	if n >= 64 {
		return (v.hi>>(n-64))&1 == 1
	}
	return (v.lo>>n)&1 == 1
}

// SetBit returns a copy of the vector with bit n set to value.
func (v Vector) SetBit(n int, value bool) Vector {
	if n < 0 || n >= v.width {
		panic(fmt.Errorf("%w: %d of %d", ErrRange, n, v.width))
	}
	mhi, mlo := shl(0, 1, n)
	if value {
		v.hi |= mhi
		v.lo |= mlo
	} else {
		v.hi &^= mhi
		v.lo &^= mlo
	}
	return v
}

// Msb returns the most significant bit.
func (v Vector) Msb() bool {
	return v.Bit(v.width - 1)
}

// Slice returns bits msb down to lsb, inclusive, as a new vector.
func (v Vector) Slice(msb, lsb int) Vector {
	if lsb < 0 || msb < lsb || msb >= v.width {
		panic(fmt.Errorf("%w: [%d:%d] of %d", ErrRange, msb, lsb, v.width))
	}
	hi, lo := shr(v.hi, v.lo, lsb)
	return FromParts(msb-lsb+1, hi, lo)
}

// Concat returns the receiver as the high part and low as the low part.
func (v Vector) Concat(low Vector) Vector {
	width := v.width + low.width
	checkWidth(width)
	hi, lo := shl(v.hi, v.lo, low.width)
	return FromParts(width, hi|low.hi, lo|low.lo)
}

// Resize zero-extends or truncates the vector to width.
func (v Vector) Resize(width int) Vector {
	return FromParts(width, v.hi, v.lo)
}

// Byte returns the n'th byte, where byte 0 holds bits 7 through 0.
func (v Vector) Byte(n int) uint8 {
	return uint8(v.Slice(n*8+7, n*8).lo)
}

// WithByte returns a copy of the vector with the n'th byte replaced.
func (v Vector) WithByte(n int, b uint8) Vector {
	if n < 0 || n*8+7 >= v.width {
		panic(fmt.Errorf("%w: byte %d of %d", ErrRange, n, v.width))
	}
	mhi, mlo := shl(0, 0xff, n*8)
	bhi, blo := shl(0, uint64(b), n*8)
	v.hi = (v.hi &^ mhi) | bhi
	v.lo = (v.lo &^ mlo) | blo
	return v
}

func (v Vector) same(o Vector) {
	if v.width != o.width {
		panic(fmt.Errorf("%w: %d != %d", ErrMismatch, v.width, o.width))
	}
}

// And returns the bitwise and of two vectors of the same width.
func (v Vector) And(o Vector) Vector {
	v.same(o)
	return FromParts(v.width, v.hi&o.hi, v.lo&o.lo)
}

// Or returns the bitwise or of two vectors of the same width.
func (v Vector) Or(o Vector) Vector {
	v.same(o)
	return FromParts(v.width, v.hi|o.hi, v.lo|o.lo)
}

// Xor returns the bitwise exclusive or of two vectors of the same width.
func (v Vector) Xor(o Vector) Vector {
	v.same(o)
	return FromParts(v.width, v.hi^o.hi, v.lo^o.lo)
}

// Not returns the bitwise complement.
func (v Vector) Not() Vector {
	return FromParts(v.width, ^v.hi, ^v.lo)
}

// Shl shifts left by n, discarding bits shifted past the width.
func (v Vector) Shl(n int) Vector {
	hi, lo := shl(v.hi, v.lo, n)
	return FromParts(v.width, hi, lo)
}

// Shr shifts right by n, filling with zeros.
func (v Vector) Shr(n int) Vector {
	hi, lo := shr(v.hi, v.lo, n)
	return FromParts(v.width, hi, lo)
}

// RotateLeft rotates left by n modulo the width. Negative n rotates right.
func (v Vector) RotateLeft(n int) Vector {
	n %= v.width
	if n < 0 {
		n += v.width
	}
	if n == 0 {
		return v
	}
	return v.Shl(n).Or(v.Shr(v.width - n))
}

// RotateRight rotates right by n modulo the width.
func (v Vector) RotateRight(n int) Vector {
	return v.RotateLeft(-(n % v.width))
}

// Add returns the sum of two vectors of the same width, modulo 2^width.
func (v Vector) Add(o Vector) Vector {
	v.same(o)
	lo, carry := bits.Add64(v.lo, o.lo, 0)
	hi, _ := bits.Add64(v.hi, o.hi, carry)
	return FromParts(v.width, hi, lo)
}

// Sub returns the difference of two vectors of the same width, modulo 2^width.
func (v Vector) Sub(o Vector) Vector {
	v.same(o)
	lo, borrow := bits.Sub64(v.lo, o.lo, 0)
	hi, _ := bits.Sub64(v.hi, o.hi, borrow)
	return FromParts(v.width, hi, lo)
}

// Equal compares both the width and the bit pattern.
func (v Vector) Equal(o Vector) bool {
	return v == o
}

// Less is an unsigned comparison of the bit patterns, ignoring width.
func (v Vector) Less(o Vector) bool {
	if v.hi != o.hi {
		return v.hi < o.hi
	}
	return v.lo < o.lo
}

// String renders the vector as zero-padded hexadecimal.
func (v Vector) String() string {
	digits := (v.width + 3) / 4
	if v.width > 64 {
		return fmt.Sprintf("0x%0*x%016x", digits-16, v.hi, v.lo)
	}
	return fmt.Sprintf("0x%0*x", digits, v.lo)
}
