// Package numeric implements the shared whole-number and minimum-octet-count
// math used by both the PER and OER backends: bit widths, minimal two's
// complement/unsigned octet lengths, and fixed-width derivation for OER's
// 8/16/32/64-bit integer cases (§4.7 "Integer"). Widths are generic over any
// integer type via [constraints.Integer], the same generalization
// golang.org/x/exp/constraints was built for before the stdlib's own
// `cmp`/generics support matured.
package numeric

import (
	"math/big"

	"golang.org/x/exp/constraints"
)

// MinUnsignedBytes returns the minimum number of big-endian bytes needed to
// represent the unsigned value n (n must be non-negative). A zero value
// still needs one byte, matching the "minimum octets" wording of §4.6/§4.7.
func MinUnsignedBytes(n *big.Int) int {
	if n.Sign() == 0 {
		return 1
	}
	bits := n.BitLen()
	return (bits + 7) / 8
}

// MinSignedBytes returns the minimum number of big-endian two's-complement
// bytes needed to represent n (positive or negative).
func MinSignedBytes(n *big.Int) int {
	if n.Sign() == 0 {
		return 1
	}
	if n.Sign() > 0 {
		// An extra bit is needed if the value's MSB would otherwise be
		// mistaken for the sign bit.
		bits := n.BitLen()
		return bits/8 + 1
	}
	// For negative n, the two's-complement width is determined by -(n+1),
	// i.e. the magnitude of the largest positive number representable with
	// the same bit pattern.
	mag := new(big.Int).Add(n, big.NewInt(1))
	mag.Neg(mag)
	bits := mag.BitLen()
	return bits/8 + 1
}

// AppendUnsigned appends the minimal big-endian unsigned encoding of n to
// dst, left-padding with zero bytes to reach at least width bytes.
func AppendUnsigned(dst []byte, n *big.Int, width int) []byte {
	b := n.Bytes()
	for i := len(b); i < width; i++ {
		dst = append(dst, 0)
	}
	return append(dst, b...)
}

// AppendSigned appends the two's-complement big-endian encoding of n to dst
// using exactly width bytes. n must fit in width bytes (checked by callers
// via [MinSignedBytes]).
func AppendSigned(dst []byte, n *big.Int, width int) []byte {
	if n.Sign() >= 0 {
		return AppendUnsigned(dst, n, width)
	}
	// Two's complement: (1<<(8*width)) + n.
	mod := new(big.Int).Lsh(big.NewInt(1), uint(8*width))
	v := new(big.Int).Add(mod, n)
	return AppendUnsigned(dst, v, width)
}

// ParseUnsigned decodes a big-endian unsigned integer from b.
func ParseUnsigned(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// ParseSigned decodes a big-endian two's-complement integer from b.
func ParseSigned(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		n.Sub(n, mod)
	}
	return n
}

// FixedWidth is one of the OER fixed integer widths in octets (§4.7).
type FixedWidth int

const (
	Width1 FixedWidth = 1
	Width2 FixedWidth = 2
	Width4 FixedWidth = 4
	Width8 FixedWidth = 8
)

// FixedUnsignedWidth returns the smallest OER fixed width (1/2/4/8 octets)
// that can hold every value of an unsigned range [0, upper], or ok=false if
// no such fixed width applies (upper exceeds 2^64-1).
func FixedUnsignedWidth(upper *big.Int) (FixedWidth, bool) {
	for _, w := range []FixedWidth{Width1, Width2, Width4, Width8} {
		max := maxUnsigned(w)
		if upper.Cmp(max) <= 0 {
			return w, true
		}
	}
	return 0, false
}

// FixedSignedWidth returns the smallest OER fixed width that can hold every
// value of a signed range [lower, upper] in two's complement, or ok=false.
func FixedSignedWidth(lower, upper *big.Int) (FixedWidth, bool) {
	for _, w := range []FixedWidth{Width1, Width2, Width4, Width8} {
		lo, hi := signedRange(w)
		if lower.Cmp(lo) >= 0 && upper.Cmp(hi) <= 0 {
			return w, true
		}
	}
	return 0, false
}

func maxUnsigned(w FixedWidth) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(8*w)), big.NewInt(1))
}

func signedRange(w FixedWidth) (lo, hi *big.Int) {
	half := new(big.Int).Lsh(big.NewInt(1), uint(8*w-1))
	lo = new(big.Int).Neg(half)
	hi = new(big.Int).Sub(half, big.NewInt(1))
	return lo, hi
}

// MinBits returns the number of bits needed to represent every integer in
// [0, n] (n >= 0), i.e. ceil(log2(n+1)). It is the unsigned-integer
// counterpart of constraint.Value.WidthBits, used for non-constraint bit
// widths (e.g. normally-small numbers, choice indices derived from a plain
// count rather than a Value constraint).
func MinBits[T constraints.Integer](n T) int {
	bits := 0
	for ; n > 0; n >>= 1 {
		bits++
	}
	return bits
}
