// Package prim implements the shared primitives leaf of §2: the canonical
// object-identifier sub-identifier codec (reused by BER, PER and OER), time
// parsing/formatting for GeneralizedTime/UTCTime, and restricted-string
// permitted-alphabet tables.
package prim

import (
	"bytes"
	"errors"
	"fmt"

	"asn1codec.dev/asn1/internal/vlq"
)

// ErrOIDArity indicates an OBJECT IDENTIFIER with too few arcs, or whose
// first two arcs violate the X.660 rule (first arc > 2, or second arc > 39
// when the first arc is 0 or 1) — §7 "Conversion" errors.
var ErrOIDArity = errors.New("prim: invalid object identifier arcs")

// EncodeOID returns the canonical DER sub-identifier octet concatenation for
// an OBJECT IDENTIFIER's arcs (§4.6 "encoded as an octet string containing
// its canonical DER sub-identifier concatenation"). The first two arcs are
// combined per X.690 §8.19.4 into a single sub-identifier X*40+Y.
func EncodeOID(arcs []uint) ([]byte, error) {
	if len(arcs) < 2 {
		return nil, ErrOIDArity
	}
	if arcs[0] > 2 || (arcs[0] < 2 && arcs[1] > 39) {
		return nil, ErrOIDArity
	}
	var buf bytes.Buffer
	first := arcs[0]*40 + arcs[1]
	if _, err := vlq.Write(&buf, first); err != nil {
		return nil, err
	}
	for _, arc := range arcs[2:] {
		if _, err := vlq.Write(&buf, arc); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodeOID parses the canonical DER sub-identifier concatenation produced by
// [EncodeOID] back into arcs.
func DecodeOID(data []byte) ([]uint, error) {
	if len(data) == 0 {
		return nil, ErrOIDArity
	}
	r := bytes.NewReader(data)
	first, err := vlq.Read[uint](r)
	if err != nil {
		return nil, fmt.Errorf("prim: decoding object identifier: %w", err)
	}
	var arcs []uint
	switch {
	case first < 40:
		arcs = []uint{0, first}
	case first < 80:
		arcs = []uint{1, first - 40}
	default:
		arcs = []uint{2, first - 80}
	}
	for r.Len() > 0 {
		arc, err := vlq.Read[uint](r)
		if err != nil {
			return nil, fmt.Errorf("prim: decoding object identifier: %w", err)
		}
		arcs = append(arcs, arc)
	}
	return arcs, nil
}

// RelativeEncodeOID returns the sub-identifier concatenation for a RELATIVE-OID
// (no X.660 first/second arc combination).
func RelativeEncodeOID(arcs []uint) ([]byte, error) {
	if len(arcs) == 0 {
		return nil, ErrOIDArity
	}
	var buf bytes.Buffer
	for _, arc := range arcs {
		if _, err := vlq.Write(&buf, arc); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// RelativeDecodeOID is the inverse of [RelativeEncodeOID].
func RelativeDecodeOID(data []byte) ([]uint, error) {
	r := bytes.NewReader(data)
	var arcs []uint
	for r.Len() > 0 {
		arc, err := vlq.Read[uint](r)
		if err != nil {
			return nil, fmt.Errorf("prim: decoding relative object identifier: %w", err)
		}
		arcs = append(arcs, arc)
	}
	if len(arcs) == 0 {
		return nil, ErrOIDArity
	}
	return arcs, nil
}
