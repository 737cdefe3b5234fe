package per

import (
	"errors"

	"asn1codec.dev/asn1/bitio"
)

// errBadFragmentMarker indicates a fragmented-form length determinant whose
// low 6 bits are 0 or greater than 4, which X.691 never produces.
var errBadFragmentMarker = errors.New("per: invalid length determinant fragment marker")

// maxFragmentOctets is the per-fragment unit size of the general length
// determinant's fragmented form (X.691 §10.9.3.8): each non-final fragment
// carries a whole multiple of 16384 octets/elements, 1 to 4 times.
const maxFragmentOctets = 16384

// lengthFragment describes one chunk of a (possibly fragmented) length
// determinant: Size octets/elements follow this determinant, and Final
// indicates whether this was the last determinant for the value (true for
// every non-fragmented length, and for the terminal chunk of a fragmented
// one, which may legitimately be zero).
type lengthFragment struct {
	Size  int
	Final bool
}

// planFragments splits a total octet/element count n into the chunks a
// general length determinant must emit, per the worked fragmentation example
// of the specification (a value >= 16384 is carved into chunks of up to
// 4*16384 units, in multiples of 16384, followed by one final,
// non-fragmented determinant for the remainder - which may be 0).
func planFragments(n int) []lengthFragment {
	var out []lengthFragment
	for n >= maxFragmentOctets {
		k := n / maxFragmentOctets
		if k > 4 {
			k = 4
		}
		out = append(out, lengthFragment{Size: k * maxFragmentOctets, Final: false})
		n -= k * maxFragmentOctets
	}
	return append(out, lengthFragment{Size: n, Final: true})
}

// writeLengthPrefix writes the determinant octet(s) for one planFragments
// chunk. The caller is responsible for writing f.Size octets/elements of
// content immediately afterward. aligned selects whether the determinant is
// byte-aligned first (§4.6 "Alignment discipline (aligned mode only)");
// unaligned mode never pads.
func writeLengthPrefix(w *bitio.Writer, aligned bool, f lengthFragment) {
	if !f.Final {
		k := f.Size / maxFragmentOctets
		if aligned {
			w.AlignToByte()
		}
		w.AppendBits(0xC0|uint64(k), 8)
		return
	}
	writeShortOrMediumLength(w, aligned, f.Size)
}

// writeShortOrMediumLength writes a non-fragmented determinant for n < 16384
// (the short form for n <= 127, the medium form otherwise).
func writeShortOrMediumLength(w *bitio.Writer, aligned bool, n int) {
	if aligned {
		w.AlignToByte()
	}
	if n < 128 {
		w.AppendBits(uint64(n), 8)
		return
	}
	w.AppendBits(0b10, 2)
	w.AppendBits(uint64(n), 14)
}

// readLengthPrefix reads one length-determinant chunk, mirroring
// planFragments/writeLengthPrefix.
func readLengthPrefix(r *bitio.Reader, aligned bool) (lengthFragment, error) {
	if aligned {
		if err := r.AlignToByte(false); err != nil {
			return lengthFragment{}, err
		}
	}
	top2, err := r.PeekBits(2)
	if err != nil {
		return lengthFragment{}, err
	}
	switch {
	case top2&0b10 == 0:
		v, err := r.ReadBits(8)
		if err != nil {
			return lengthFragment{}, err
		}
		return lengthFragment{Size: int(v), Final: true}, nil
	case top2 == 0b10:
		v, err := r.ReadBits(16)
		if err != nil {
			return lengthFragment{}, err
		}
		return lengthFragment{Size: int(v &^ (0b11 << 14)), Final: true}, nil
	default: // top2 == 0b11
		v, err := r.ReadBits(8)
		if err != nil {
			return lengthFragment{}, err
		}
		k := int(v & 0x3F)
		if k < 1 || k > 4 {
			return lengthFragment{}, errBadFragmentMarker
		}
		return lengthFragment{Size: k * maxFragmentOctets, Final: false}, nil
	}
}

// writeLength writes a complete (possibly fragmented) general length
// determinant for n, calling emit(offset, size) once per chunk so the caller
// can write that chunk's actual content (octets, string characters, SEQUENCE
// OF elements) immediately after each determinant, as the wire format
// requires. aligned must match the encoder's own variant: APER byte-aligns
// before every determinant octet, UPER never does (§4.6).
func writeLength(w *bitio.Writer, aligned bool, n int, emit func(offset, size int)) {
	offset := 0
	for _, f := range planFragments(n) {
		writeLengthPrefix(w, aligned, f)
		emit(offset, f.Size)
		offset += f.Size
	}
}

// readLength reads a complete (possibly fragmented) general length
// determinant, calling consume(size) once per chunk to read that chunk's
// content, and returns the total element/octet count. aligned must match the
// decoder's own variant, mirroring writeLength.
func readLength(r *bitio.Reader, aligned bool, consume func(size int) error) (int, error) {
	total := 0
	for {
		f, err := readLengthPrefix(r, aligned)
		if err != nil {
			return 0, err
		}
		if err := consume(f.Size); err != nil {
			return 0, err
		}
		total += f.Size
		if f.Final {
			return total, nil
		}
	}
}
