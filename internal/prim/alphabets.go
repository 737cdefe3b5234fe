package prim

import (
	"sync"

	"asn1codec.dev/asn1/constraint"
)

// StringKind identifies one of the ASN.1 restricted character string types
// (§3 "restricted string (Utf8/Visible/Ia5/Printable/Numeric/Teletex/
// General/Graphic/Bmp/Universal)").
type StringKind int

const (
	KindUTF8 StringKind = iota
	KindVisible
	KindIA5
	KindPrintable
	KindNumeric
	KindTeletex
	KindGeneral
	KindGraphic
	KindBMP
	KindUniversal
)

// defaultAlphabets holds the natural (unconstrained-but-bounded) permitted
// alphabet for every restricted string kind that has one narrower than "any
// code point". It is a small read-only table, lazily built once per process
// (§5 "Global state is limited to small read-only tables... lazily
// initialized once"), mirroring how the BER backend's internal package keeps
// a handful of package-level lookup tables instead of recomputing them.
var defaultAlphabets = sync.OnceValue(func() map[StringKind]constraint.Alphabet {
	return map[StringKind]constraint.Alphabet{
		KindIA5: constraint.NewAlphabet(constraint.CharRange{Lo: 0x00, Hi: 0x7F}),
		KindVisible: constraint.NewAlphabet(
			constraint.CharRange{Lo: 0x20, Hi: 0x7E},
		),
		KindPrintable: constraint.NewAlphabet(
			constraint.CharRange{Lo: 'A', Hi: 'Z'},
			constraint.CharRange{Lo: 'a', Hi: 'z'},
			constraint.CharRange{Lo: '0', Hi: '9'},
			constraint.CharRange{Lo: ' ', Hi: ' '},
			constraint.CharRange{Lo: '\'', Hi: '\''},
			constraint.CharRange{Lo: '(', Hi: ')'},
			constraint.CharRange{Lo: '+', Hi: '+'},
			constraint.CharRange{Lo: ',', Hi: ','},
			constraint.CharRange{Lo: '-', Hi: '.'},
			constraint.CharRange{Lo: '/', Hi: '/'},
			constraint.CharRange{Lo: ':', Hi: ':'},
			constraint.CharRange{Lo: '=', Hi: '='},
			constraint.CharRange{Lo: '?', Hi: '?'},
		),
		KindNumeric: constraint.NewAlphabet(
			constraint.CharRange{Lo: '0', Hi: '9'},
			constraint.CharRange{Lo: ' ', Hi: ' '},
		),
		KindBMP:      constraint.NewAlphabet(constraint.CharRange{Lo: 0x0000, Hi: 0xFFFF}),
		KindGraphic:  constraint.NewAlphabet(constraint.CharRange{Lo: 0x20, Hi: 0x7E}),
		KindGeneral:  constraint.NewAlphabet(constraint.CharRange{Lo: 0x00, Hi: 0xFF}),
		KindTeletex:  constraint.NewAlphabet(constraint.CharRange{Lo: 0x00, Hi: 0xFF}),
		// KindUTF8 and KindUniversal have no narrower natural alphabet: they
		// carry any Unicode code point, so they are intentionally absent and
		// NaturalAlphabet returns the zero (unconstrained) Alphabet for them.
	}
})

// NaturalAlphabet returns the default permitted alphabet for kind, used when
// no explicit PermittedAlphabet constraint narrows it further (§4.6
// "Strings without an alphabet constraint use their natural width").
func NaturalAlphabet(kind StringKind) constraint.Alphabet {
	return defaultAlphabets()[kind]
}

// NaturalWidthBits returns the natural per-character bit width used when a
// string has no permitted-alphabet constraint at all, for kinds whose
// natural repertoire is itself bounded. UTF8String, PrintableString and
// NumericString return (0, false): Utf8 always encodes its UTF-8 byte form rather
// than a fixed per-character width (§4.6).
func NaturalWidthBits(kind StringKind) (int, bool) {
	switch kind {
	case KindIA5, KindVisible, KindGraphic, KindGeneral, KindTeletex:
		return 8, true
	case KindBMP:
		return 16, true
	case KindUniversal:
		return 32, true
	default:
		return 0, false
	}
}
