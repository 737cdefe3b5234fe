package asn1

import "asn1codec.dev/asn1/constraint"

// RawValue is the opaque-ANY passthrough (§3 "opaque any (raw TLV bytes)"):
// it carries an already-encoded value verbatim, without decoding it into any
// more specific Go type, for callers that only need to relay or defer
// interpretation of a value (open types, unrecognized extension additions,
// X.509-style "ANY DEFINED BY" fields).
//
// Its shape is backend-dependent: under BER/CER/DER, Bytes holds the
// complete tag-length-value encoding; under PER/OER, it holds just the
// content octets of an open type (already length-framed by the backend that
// produced it), since those rules carry no tag.
type RawValue struct {
	FullTag Tag
	Bytes   []byte
}

func (RawValue) Tag() Tag { return TagReserved }

func (RawValue) TagTree() TagTree { return TagTree{} }

func (RawValue) Constraints() constraint.Set { return constraint.None }

func (RawValue) Identifier() string { return "ANY" }

func (r RawValue) EncodeWithTagAndConstraints(enc Encoder, tag Tag, _ constraint.Set, _ string) error {
	v := r
	if tag != TagReserved {
		v.FullTag = tag
	}
	return enc.EncodeRawValue(v.FullTag, v)
}

func (r *RawValue) DecodeWithTagAndConstraints(dec Decoder, tag Tag, _ constraint.Set, _ string) error {
	v, err := dec.DecodeRawValue(tag)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
