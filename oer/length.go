package oer

import (
	"errors"
)

// errShortInput indicates the buffer ran out before a value's framing said
// it should.
var errShortInput = errors.New("oer: unexpected end of input")

// errBadLengthForm indicates a long-form length determinant whose leading
// octet's low 7 bits is 0 (X.696 reserves that encoding; it would describe a
// length-of-length of zero, which no encoder produces).
var errBadLengthForm = errors.New("oer: invalid length determinant")

// writeLength appends the length determinant for n octets (X.696 §8.6.3):
// the short form is a single octet 0-127 carrying n directly; the long form
// is 0x80|k followed by the k-octet minimal big-endian encoding of n, used
// whenever n >= 128. Unlike PER's general length determinant, OER never
// fragments regardless of how large n is.
func writeLength(buf []byte, n int) []byte {
	if n < 128 {
		return append(buf, byte(n))
	}
	var tmp [8]byte
	w := 0
	for v := n; v > 0; v >>= 8 {
		w++
	}
	for i := w - 1; i >= 0; i-- {
		tmp[i] = byte(n >> (8 * (w - 1 - i)))
	}
	buf = append(buf, 0x80|byte(w))
	return append(buf, tmp[:w]...)
}

// readLength reads a length determinant from b starting at pos and returns
// the decoded length and the position immediately following the
// determinant.
func readLength(b []byte, pos int) (n, newPos int, err error) {
	if pos >= len(b) {
		return 0, 0, errShortInput
	}
	first := b[pos]
	pos++
	if first < 0x80 {
		return int(first), pos, nil
	}
	k := int(first &^ 0x80)
	if k == 0 {
		return 0, 0, errBadLengthForm
	}
	if pos+k > len(b) {
		return 0, 0, errShortInput
	}
	v := 0
	for _, c := range b[pos : pos+k] {
		v = v<<8 | int(c)
	}
	return v, pos + k, nil
}
