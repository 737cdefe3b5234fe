package per

import "asn1codec.dev/asn1"

// EncodeExplicitPrefix is a pass-through: PER/OER never transmit tags on the
// wire outside CHOICE discrimination and open types (§4.6), so an explicit
// tagging wrapper around a type collapses to identity at the bit level -
// there is nothing to prefix.
func (e *Encoder) EncodeExplicitPrefix(_ asn1.Tag, fn func(asn1.Encoder) error) error {
	return fn(e)
}

func (d *Decoder) DecodeExplicitPrefix(_ asn1.Tag, fn func(asn1.Decoder) error) error {
	return fn(d)
}

// EncodeSome/EncodeNone are the standalone forms of optionality for a value
// whose presence is not tracked by an enclosing SEQUENCE/SET preamble (see
// [asn1.Encoder]): a single presence bit precedes the value.
func (e *Encoder) EncodeSome(fn func(asn1.Encoder) error) error {
	e.w.AppendBit(1)
	return fn(e)
}

func (e *Encoder) EncodeNone() error {
	e.w.AppendBit(0)
	return nil
}

func (e *Encoder) EncodeDefault(isDefaultValue bool, fn func(asn1.Encoder) error) error {
	if isDefaultValue {
		return e.EncodeNone()
	}
	return e.EncodeSome(fn)
}

func (e *Encoder) EncodeDefaultWithTag(isDefaultValue bool, _ asn1.Tag, fn func(asn1.Encoder) error) error {
	return e.EncodeDefault(isDefaultValue, fn)
}
