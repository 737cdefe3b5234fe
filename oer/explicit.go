package oer

import "asn1codec.dev/asn1"

// EncodeExplicitPrefix is a pass-through: like PER, OER never transmits
// tags on the wire outside CHOICE discrimination and open types, so an
// explicit tagging wrapper collapses to identity.
func (e *Encoder) EncodeExplicitPrefix(_ asn1.Tag, fn func(asn1.Encoder) error) error {
	return fn(e)
}

func (d *Decoder) DecodeExplicitPrefix(_ asn1.Tag, fn func(asn1.Decoder) error) error {
	return fn(d)
}

// EncodeSome/EncodeNone are the standalone forms of optionality for a value
// whose presence is not tracked by an enclosing SEQUENCE/SET preamble: a
// single presence octet (0x00/0xFF) precedes the value.
func (e *Encoder) EncodeSome(fn func(asn1.Encoder) error) error {
	e.write([]byte{0xFF})
	return fn(e)
}

func (e *Encoder) EncodeNone() error {
	e.write([]byte{0x00})
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
