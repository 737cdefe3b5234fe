package constraint

// Size is a non-negative range constraint applied to the element count of a
// SEQUENCE OF/SET OF or the code-point count of a restricted string. It has
// the same shape as [Value] but bounds are plain int64: ASN.1 size
// constraints bounding a value that must fit in memory never need arbitrary
// precision in practice, and keeping them as int64 avoids *big.Int traffic on
// every length-determinant computation, which PER/OER perform for nearly
// every field.
type Size struct {
	Lower      int64 // valid only if HasLower
	Upper      int64 // valid only if HasUpper
	HasLower   bool
	HasUpper   bool
	Extensible bool
}

// UnconstrainedSize is the Size constraint that accepts any non-negative
// count.
var UnconstrainedSize = Size{}

// NewSize returns a closed Size constraint [lower, upper].
func NewSize(lower, upper int64) Size {
	return Size{Lower: lower, Upper: upper, HasLower: true, HasUpper: true}
}

// NewSizeExt returns a closed, extensible Size constraint.
func NewSizeExt(lower, upper int64) Size {
	s := NewSize(lower, upper)
	s.Extensible = true
	return s
}

// Fixed reports whether s constrains to exactly one size, returning it.
func (s Size) Fixed() (int64, bool) {
	if s.HasLower && s.HasUpper && s.Lower == s.Upper {
		return s.Lower, true
	}
	return 0, false
}

// Contains reports whether n lies within the root range of s.
func (s Size) Contains(n int64) bool {
	if s.HasLower && n < s.Lower {
		return false
	}
	if s.HasUpper && n > s.Upper {
		return false
	}
	return true
}

// Range returns Upper-Lower, and true, for a fully closed size constraint.
func (s Size) Range() (int64, bool) {
	if !s.HasLower || !s.HasUpper {
		return 0, false
	}
	return s.Upper - s.Lower, true
}

// Intersect returns the narrowest Size constraint satisfying both s and
// other, or [ErrEmpty] if no count satisfies both.
func (s Size) Intersect(other Size) (Size, error) {
	result := Size{Extensible: s.Extensible || other.Extensible}
	result.Lower, result.HasLower = maxInt64(s.Lower, s.HasLower, other.Lower, other.HasLower, true)
	result.Upper, result.HasUpper = maxInt64(s.Upper, s.HasUpper, other.Upper, other.HasUpper, false)
	if result.HasLower && result.HasUpper && result.Lower > result.Upper {
		return Size{}, ErrEmpty
	}
	return result, nil
}

func maxInt64(a int64, hasA bool, b int64, hasB bool, lower bool) (int64, bool) {
	switch {
	case !hasA:
		return b, hasB
	case !hasB:
		return a, hasA
	case lower:
		if a >= b {
			return a, true
		}
		return b, true
	default:
		if a <= b {
			return a, true
		}
		return b, true
	}
}
