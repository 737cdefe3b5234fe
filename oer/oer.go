// Package oer implements the Octet Encoding Rules backend (§4.7): basic OER
// and canonical OER (COER), selected by a single bool at construction since
// COER differs from basic OER only in a handful of canonicalization rules
// (BOOLEAN's TRUE octet, the extension-bitmap's trailing-bit requirement)
// rather than in the wire shape itself.
//
// Unlike [asn1codec.dev/asn1/per], OER is octet-oriented throughout: every
// value starts and ends on a byte boundary, so this backend works with plain
// byte slices and does not use [asn1codec.dev/asn1/bitio]; the one place OER
// still packs sub-octet fields - the SEQUENCE/SET presence preamble - is
// handled by the local packBits/unpackBits helpers.
package oer

import (
	"asn1codec.dev/asn1"
)

const defaultMaxDepth = 64

// Encoder implements [asn1.Encoder] for both OER variants.
type Encoder struct {
	canonical bool
	buf       []byte
	depth     int
	maxDepth  int
}

// NewEncoder returns an Encoder writing into a fresh buffer. canonical
// selects COER; false selects basic OER.
func NewEncoder(canonical bool) *Encoder {
	return &Encoder{canonical: canonical, maxDepth: defaultMaxDepth}
}

func (e *Encoder) SetMaxDepth(n int) { e.maxDepth = n }

// Bytes returns the accumulated output.
func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) Rule() asn1.CodecRule {
	if e.canonical {
		return asn1.RuleCOER
	}
	return asn1.RuleOER
}

func (e *Encoder) Depth() int { return e.depth }

func (e *Encoder) enter(identifier string) error {
	e.depth++
	if e.maxDepth > 0 && e.depth > e.maxDepth {
		return asn1.Errorf(asn1.ErrKindDepth, e.Rule(), identifier, "exceeded max depth %d", e.maxDepth)
	}
	return nil
}

func (e *Encoder) leave() { e.depth-- }

func (e *Encoder) child() *Encoder {
	return &Encoder{canonical: e.canonical, depth: e.depth, maxDepth: e.maxDepth}
}

func (e *Encoder) write(b []byte) { e.buf = append(e.buf, b...) }

// Decoder implements [asn1.Decoder] for both OER variants.
type Decoder struct {
	canonical bool
	buf       []byte
	pos       int
	depth     int
	maxDepth  int
}

// NewDecoder returns a Decoder reading b. canonical selects COER; it sets the
// rule reported by Rule and in errors, and the decoder applies the same
// checks either way: it does not reject non-canonical lengths or bitmaps.
func NewDecoder(canonical bool, b []byte) *Decoder {
	return &Decoder{canonical: canonical, buf: b, maxDepth: defaultMaxDepth}
}

func (d *Decoder) SetMaxDepth(n int) { d.maxDepth = n }

func (d *Decoder) Rule() asn1.CodecRule {
	if d.canonical {
		return asn1.RuleCOER
	}
	return asn1.RuleOER
}

func (d *Decoder) Depth() int { return d.depth }

func (d *Decoder) enter(identifier string) error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		return asn1.Errorf(asn1.ErrKindDepth, d.Rule(), identifier, "exceeded max depth %d", d.maxDepth)
	}
	return nil
}

func (d *Decoder) leave() { d.depth-- }

// Remaining reports how many bytes are left unread.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

func (d *Decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "", errShortInput)
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *Decoder) readBytes(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.buf) {
		return nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "", errShortInput)
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}
