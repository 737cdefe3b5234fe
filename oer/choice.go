package oer

import (
	"errors"

	"asn1codec.dev/asn1"
)

// errUnknownChoiceTag indicates a CHOICE alternative's tag octet did not
// match any of the tags the caller declared as possible for that CHOICE.
var errUnknownChoiceTag = errors.New("oer: tag does not match any CHOICE alternative")

// writeTagOctet appends the canonical ASN.1 identifier octet(s) for tag to
// buf: the X.690 §8.1.2 class/number encoding BER uses for its TLV tag, minus
// the length and content that follow a BER tag. OER has no length-of-tag
// concept; a CHOICE alternative's tag is simply the class/number bits with no
// constructed bit, since OER's framing never distinguishes primitive from
// constructed at the tag level.
func writeTagOctet(buf []byte, tag asn1.Tag) []byte {
	b := byte(tag.Class() >> 24)
	n := tag.Number()
	if n < 31 {
		return append(buf, b|byte(n))
	}
	buf = append(buf, b|0x1f)
	l := tagNumberLen(n)
	for j := l - 1; j >= 0; j-- {
		c := byte(n>>(uint(j)*7)) & 0x7f
		if j != 0 {
			c |= 0x80
		}
		buf = append(buf, c)
	}
	return buf
}

// tagNumberLen returns the number of base-128 groups needed to encode n.
func tagNumberLen(n uint) int {
	if n == 0 {
		return 1
	}
	l := 0
	for t := n; t > 0; t >>= 7 {
		l++
	}
	return l
}

// readTagOctet reads the identifier octet(s) written by writeTagOctet from b
// starting at pos, returning the decoded tag and the position immediately
// following it.
func readTagOctet(b []byte, pos int) (asn1.Tag, int, error) {
	if pos >= len(b) {
		return 0, pos, errShortInput
	}
	first := b[pos]
	pos++
	class := asn1.Tag(first>>6) << 30
	if first&0x1f != 0x1f {
		return class | asn1.Tag(first&0x1f), pos, nil
	}
	var n uint
	for {
		if pos >= len(b) {
			return 0, pos, errShortInput
		}
		c := b[pos]
		pos++
		n = n<<7 | uint(c&0x7f)
		if c&0x80 == 0 {
			break
		}
	}
	return class | asn1.Tag(n), pos, nil
}

// EncodeChoice implements X.696 §21: the chosen alternative is identified by
// its own tag octet (not an index), so a decoder that merely knows the set of
// tags a CHOICE can carry can tell root and extension alternatives apart
// without any separate marker bit. A root alternative's body follows the tag
// directly; an extension alternative's body is additionally wrapped as a
// length-prefixed open type so a reader that does not recognize the tag can
// still skip over it.
func (e *Encoder) EncodeChoice(_, variantTag asn1.Tag, _ bool, _ int, _ int, isExtension bool, fn func(asn1.Encoder) error) error {
	if err := e.enter("CHOICE"); err != nil {
		return err
	}
	defer e.leave()

	e.buf = writeTagOctet(e.buf, variantTag)

	if isExtension {
		sub := e.child()
		if err := fn(sub); err != nil {
			return err
		}
		e.buf = writeLength(e.buf, len(sub.buf))
		e.write(sub.buf)
		return nil
	}
	return fn(e)
}

// DecodeChoice reads the alternative's tag octet and matches it against
// variantTags to recover the variant index, then, for an extension
// alternative, the open-type wrapper. It returns a runner that dispatches the
// caller's body function against the right sub-decoder.
func (d *Decoder) DecodeChoice(_ asn1.Tag, variantTags []asn1.Tag, _ bool, rootCount int) (int, bool, func(sub asn1.Decoder, body func(asn1.Decoder) error) error, error) {
	if err := d.enter("CHOICE"); err != nil {
		return 0, false, nil, err
	}

	tag, pos, err := readTagOctet(d.buf, d.pos)
	if err != nil {
		d.leave()
		return 0, false, nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "CHOICE", err)
	}
	d.pos = pos

	idx := -1
	for i, t := range variantTags {
		if t == tag {
			idx = i
			break
		}
	}
	if idx < 0 {
		d.leave()
		return 0, false, nil, asn1.NewError(asn1.ErrKindTag, d.Rule(), "CHOICE", errUnknownChoiceTag)
	}
	isExt := idx >= rootCount

	if isExt {
		blobLen, bpos, err := readLength(d.buf, d.pos)
		if err != nil {
			d.leave()
			return 0, false, nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "CHOICE", err)
		}
		d.pos = bpos
		blob, err := d.readBytes(blobLen)
		if err != nil {
			d.leave()
			return 0, false, nil, asn1.NewError(asn1.ErrKindTruncated, d.Rule(), "CHOICE", err)
		}
		bodyDec := NewDecoder(d.canonical, blob)
		bodyDec.depth, bodyDec.maxDepth = d.depth, d.maxDepth
		runner := func(_ asn1.Decoder, body func(asn1.Decoder) error) error {
			defer d.leave()
			return body(bodyDec)
		}
		return idx, true, runner, nil
	}

	runner := func(_ asn1.Decoder, body func(asn1.Decoder) error) error {
		defer d.leave()
		return body(d)
	}
	return idx, false, runner, nil
}
