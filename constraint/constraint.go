// Package constraint implements the compile-time-composable value, size, and
// permitted-alphabet restrictions of §4.2 of the specification. A [Set]
// attaches to a type or a field and composes with the constraints of
// surrounding scopes by intersection; [Effective] computes the combined,
// narrowest constraint in scope at a given point in a type, which is what
// the PER and OER backends consult to derive bit widths, length
// determinants, and root/extension membership.
package constraint

import (
	"errors"
	"math/big"
)

// Value is an integer range constraint with inclusive bounds. Either bound
// may be nil, meaning unbounded on that side. Extensible marks that values
// outside [Lower, Upper] are legal as extension values (§3 "extensible bit
// per constraint").
type Value struct {
	Lower      *big.Int
	Upper      *big.Int
	Extensible bool
}

// Unconstrained is the Value constraint that accepts any integer.
var Unconstrained = Value{}

// NewValue returns a closed [Value] constraint [lower, upper].
func NewValue(lower, upper int64) Value {
	return Value{Lower: big.NewInt(lower), Upper: big.NewInt(upper)}
}

// NewValueExt returns a closed, extensible [Value] constraint.
func NewValueExt(lower, upper int64) Value {
	v := NewValue(lower, upper)
	v.Extensible = true
	return v
}

// IsUnbounded reports whether v has no lower or no upper bound.
func (v Value) IsUnbounded() bool {
	return v.Lower == nil || v.Upper == nil
}

// Contains reports whether n lies within the root range of v. An unbounded
// side always admits values on that side.
func (v Value) Contains(n *big.Int) bool {
	if v.Lower != nil && n.Cmp(v.Lower) < 0 {
		return false
	}
	if v.Upper != nil && n.Cmp(v.Upper) > 0 {
		return false
	}
	return true
}

// Bounds returns the lower and upper bound and whether each is bounded.
func (v Value) Bounds() (lower *big.Int, hasLower bool, upper *big.Int, hasUpper bool) {
	return v.Lower, v.Lower != nil, v.Upper, v.Upper != nil
}

// Range returns Upper-Lower for a fully closed range, or nil if either bound
// is unbounded.
func (v Value) Range() *big.Int {
	if v.Lower == nil || v.Upper == nil {
		return nil
	}
	return new(big.Int).Sub(v.Upper, v.Lower)
}

// WidthBits returns the number of bits needed to encode Upper-Lower for a
// fully closed range, or (0, false) if the range is unbounded. This is the
// "width_bits()" operation of §4.2.
func (v Value) WidthBits() (int, bool) {
	r := v.Range()
	if r == nil {
		return 0, false
	}
	return bitLen(r), true
}

// bitLen returns ceil(log2(n+1)), i.e. the number of bits needed to represent
// every integer in [0, n] inclusive. bitLen(0) is 0 (a degenerate single-value
// range needs no bits).
func bitLen(n *big.Int) int {
	if n.Sign() <= 0 {
		return 0
	}
	return n.BitLen()
}

// ErrEmpty is returned by Intersect when two constraints have no values in
// common, corresponding to invariant I3 (an empty effective constraint is a
// static error).
var ErrEmpty = errors.New("constraint: empty intersection")

// Intersect returns the narrowest [Value] constraint satisfying both v and
// other, or [ErrEmpty] if no value satisfies both. The result is extensible
// iff either input is (consistent with Effective's "set if any constraint in
// the stack is extensible").
func (v Value) Intersect(other Value) (Value, error) {
	result := Value{Extensible: v.Extensible || other.Extensible}
	result.Lower = maxBound(v.Lower, other.Lower, true)
	result.Upper = maxBound(v.Upper, other.Upper, false)
	if result.Lower != nil && result.Upper != nil && result.Lower.Cmp(result.Upper) > 0 {
		return Value{}, ErrEmpty
	}
	return result, nil
}

// maxBound picks the tighter of two optional bounds. When lower is true, the
// tighter bound is the larger of the two (raising a lower bound); otherwise
// it is the smaller (lowering an upper bound). A nil bound never wins over a
// non-nil one.
func maxBound(a, b *big.Int, lower bool) *big.Int {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case lower:
		if a.Cmp(b) >= 0 {
			return a
		}
		return b
	default:
		if a.Cmp(b) <= 0 {
			return a
		}
		return b
	}
}
