package oer

import "asn1codec.dev/asn1"

// EncodeRawValue writes an already-encoded value's bytes verbatim as a
// length-prefixed open type, backing the ANY passthrough and the open-type
// payloads produced for extension additions and CHOICE extensions.
func (e *Encoder) EncodeRawValue(_ asn1.Tag, raw asn1.RawValue) error {
	e.buf = writeLength(e.buf, len(raw.Bytes))
	e.write(raw.Bytes)
	return nil
}

func (d *Decoder) DecodeRawValue(tag asn1.Tag) (asn1.RawValue, error) {
	b, err := d.readLengthPrefixedBytes()
	if err != nil {
		return asn1.RawValue{}, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "ANY", err)
	}
	return asn1.RawValue{FullTag: tag, Bytes: b}, nil
}
