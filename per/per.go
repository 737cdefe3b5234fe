// Package per implements the Packed Encoding Rules backend (§4.6): both the
// unaligned (UPER) and aligned (APER) variants, selected by a single bool at
// construction time since the two share every algorithm except where to
// insert byte-alignment padding.
//
// Unlike the teacher's ber package, per does not use reflection or struct
// tags: every operation is driven directly by the abstract [asn1.Encoder]/
// [asn1.Decoder] contracts, with the constraint bookkeeping (effective
// value/size/alphabet ranges) supplied explicitly by callers through
// [constraint.Set].
package per

import (
	"math/big"

	"asn1codec.dev/asn1"
	"asn1codec.dev/asn1/bitio"
)

// defaultMaxDepth is the recursion guard applied when a caller does not
// configure one explicitly (§5 "mandatory recursive-depth limit").
const defaultMaxDepth = 64

// Encoder implements [asn1.Encoder] for both PER variants.
type Encoder struct {
	aligned  bool
	w        *bitio.Writer
	depth    int
	maxDepth int
}

// NewEncoder returns an Encoder writing into a fresh buffer. aligned selects
// APER; false selects UPER.
func NewEncoder(aligned bool) *Encoder {
	return &Encoder{aligned: aligned, w: bitio.NewWriter(64), maxDepth: defaultMaxDepth}
}

// SetMaxDepth overrides the recursion guard; n <= 0 disables the check.
func (e *Encoder) SetMaxDepth(n int) { e.maxDepth = n }

// Bytes returns the accumulated output, byte-aligning the final partial byte
// with zero padding.
func (e *Encoder) Bytes() []byte {
	e.w.AlignToByte()
	return e.w.Bytes()
}

// Rule reports [asn1.RuleAlignedPER] or [asn1.RuleUnalignedPER].
func (e *Encoder) Rule() asn1.CodecRule {
	if e.aligned {
		return asn1.RuleAlignedPER
	}
	return asn1.RuleUnalignedPER
}

// Depth returns the current constructed-value nesting depth.
func (e *Encoder) Depth() int { return e.depth }

func (e *Encoder) enter(identifier string) error {
	e.depth++
	if e.maxDepth > 0 && e.depth > e.maxDepth {
		return asn1.Errorf(asn1.ErrKindDepth, e.Rule(), identifier, "exceeded max depth %d", e.maxDepth)
	}
	return nil
}

func (e *Encoder) leave() { e.depth-- }

// alignIfAligned byte-aligns the output when the encoder is APER; UPER never
// aligns except where §4.6 explicitly calls for it (which callers request
// via this same method at the appropriate point).
func (e *Encoder) alignIfAligned() {
	if e.aligned {
		e.w.AlignToByte()
	}
}

// Decoder implements [asn1.Decoder] for both PER variants.
type Decoder struct {
	aligned  bool
	r        *bitio.Reader
	depth    int
	maxDepth int
}

// NewDecoder returns a Decoder reading b. aligned must match the encoder
// that produced b.
func NewDecoder(aligned bool, b []byte) *Decoder {
	return &Decoder{aligned: aligned, r: bitio.NewReader(b), maxDepth: defaultMaxDepth}
}

// SetMaxDepth overrides the recursion guard; n <= 0 disables the check.
func (d *Decoder) SetMaxDepth(n int) { d.maxDepth = n }

func (d *Decoder) Rule() asn1.CodecRule {
	if d.aligned {
		return asn1.RuleAlignedPER
	}
	return asn1.RuleUnalignedPER
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

func (d *Decoder) alignIfAligned(strict bool) error {
	if !d.aligned {
		return nil
	}
	if err := d.r.AlignToByte(strict); err != nil {
		return asn1.NewError(asn1.ErrKindMalformed, d.Rule(), "", err)
	}
	return nil
}

// Remaining reports how many bits of input are left unread, useful for
// callers implementing strict-mode trailing-data checks (§4.8).
func (d *Decoder) Remaining() int { return d.r.RemainingBits() }

// child returns a new Encoder sharing e's variant and depth bookkeeping but
// writing into its own buffer w, used wherever a field/element/variant body
// must be assembled separately before being spliced or open-type-wrapped
// into the parent stream (§4.4 "buffered SequenceEncoder").
func (e *Encoder) child(w *bitio.Writer) *Encoder {
	return &Encoder{aligned: e.aligned, w: w, depth: e.depth, maxDepth: e.maxDepth}
}

func bigFitsInt64(n *big.Int) (int64, bool) {
	if !n.IsInt64() {
		return 0, false
	}
	return n.Int64(), true
}
