package asn1

import "asn1codec.dev/asn1/constraint"

// ExplicitPrefix wraps a value that is always explicitly tagged: the
// wrapped tag is written (or expected) as an outer constructed shell around
// the inner value's own natural encoding, regardless of what tag the inner
// value would otherwise use (§3 "explicit tagging", §4.1's "wrapping" that
// implicit/explicit tagging composes through).
//
// Use it for a field declared `[N] EXPLICIT T` (or, under an automatic- or
// explicit-tagging module default, any tagged field of a non-trivial type)
// where T's own tag must still be recoverable inside the shell, as opposed
// to implicit tagging, which simply overrides T's tag outright and is
// expressed by passing the override tag straight to
// [Encode.EncodeWithTagAndConstraints] / [Decode.DecodeWithTagAndConstraints]
// without a wrapper type.
type ExplicitPrefix[T interface {
	Encode
	Decode
}] struct {
	Value T
}

func (p ExplicitPrefix[T]) Tag() Tag { return p.Value.Tag() }

func (p ExplicitPrefix[T]) TagTree() TagTree { return p.Value.TagTree() }

func (p ExplicitPrefix[T]) Constraints() constraint.Set { return p.Value.Constraints() }

func (p ExplicitPrefix[T]) Identifier() string { return p.Value.Identifier() }

func (p ExplicitPrefix[T]) EncodeWithTagAndConstraints(enc Encoder, tag Tag, constraints constraint.Set, identifier string) error {
	return enc.EncodeExplicitPrefix(tag, func(sub Encoder) error {
		return p.Value.EncodeWithTagAndConstraints(sub, p.Value.Tag(), constraints, identifier)
	})
}

func (p *ExplicitPrefix[T]) DecodeWithTagAndConstraints(dec Decoder, tag Tag, constraints constraint.Set, identifier string) error {
	return dec.DecodeExplicitPrefix(tag, func(sub Decoder) error {
		return p.Value.DecodeWithTagAndConstraints(sub, p.Value.Tag(), constraints, identifier)
	})
}
