package per

import "asn1codec.dev/asn1"

// EncodeRawValue writes an already-encoded value's bytes verbatim as an
// octet-aligned, length-prefixed open type, backing the ANY passthrough and
// the raw bytes a caller may want to re-frame manually (§3 "opaque any").
func (e *Encoder) EncodeRawValue(_ asn1.Tag, raw asn1.RawValue) error {
	e.w.AlignToByte()
	writeLength(e.w, true, len(raw.Bytes), func(off, size int) { e.w.AppendBytes(raw.Bytes[off : off+size]) })
	return nil
}

func (d *Decoder) DecodeRawValue(tag asn1.Tag) (asn1.RawValue, error) {
	if err := d.r.AlignToByte(false); err != nil {
		return asn1.RawValue{}, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "ANY", err)
	}
	var out []byte
	if _, err := readLength(d.r, true, func(size int) error {
		chunk, err := d.r.ReadBytes(size)
		if err != nil {
			return err
		}
		out = append(out, chunk...)
		return nil
	}); err != nil {
		return asn1.RawValue{}, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "ANY", err)
	}
	return asn1.RawValue{FullTag: tag, Bytes: out}, nil
}
