// Package asn1 defines the abstract data model shared by every encoding rule
// backend in this module: tags, type descriptors, the constraint-aware
// encoder/decoder contracts, and the small set of capability interfaces
// (AsnType, Encode, Decode) that a type implements once to become codable
// under all of them. See [Rec. ITU-T X.680] for the underlying notation.
//
// # Capabilities
//
// A codable type implements three interfaces. AsnType publishes compile-time
// metadata: its [Tag], [TagTree], [constraint.Set] and identifier. Encode and
// Decode each add one method that accepts an overriding tag, constraint set
// and identifier, so that callers (implicit/explicit tagging wrappers,
// automatically-tagged SEQUENCE fields, inherited constraints) can substitute
// them without the type needing to know it is being wrapped:
//
//	type Encode interface {
//		AsnType
//		EncodeWithTagAndConstraints(enc Encoder, tag Tag, constraints constraint.Set, identifier string) error
//	}
//
// [EncodeValue] and [DecodeValue] are the derived convenience entry points:
// they forward to the type's own TAG and CONSTRAINTS, exactly as described by
// the capability contract.
//
// # Backends
//
// Each encoding rule lives in its own subpackage ([asn1codec.dev/asn1/per],
// [asn1codec.dev/asn1/oer], [asn1codec.dev/asn1/ber]) and implements the
// [Encoder]/[Decoder] contracts declared here. [asn1codec.dev/asn1/codec]
// exposes the unified, rule-selecting top-level API.
//
// [Rec. ITU-T X.680]: https://www.itu.int/rec/T-REC-X.680
package asn1

import (
	"strconv"
)

// Extensible marks a type as extensible. It corresponds to the ASN.1
// extension marker "...". A [TypeDescriptor] records extensibility as a bare
// bool; this type exists so hand-written Go struct definitions for SEQUENCE/
// SET/CHOICE types have somewhere to embed the marker, mirroring how the
// struct-tag-driven BER backend recognizes the same embedding.
type Extensible struct{}

// Tag constitutes an ASN.1 tag, consisting of its class and number. The class
// is indicated by the two most significant bits of the underlying integer.
// For details, see Section 8 of Rec. ITU-T X.680.
//
// Tag values can be constructed using bitwise operations:
//
//	TagMyType := asn1.ClassApplication | 15
//
// The default (zero) class is [ClassUniversal].
//
// Note that the encoding of the class and tag number is entirely backend
// specific: BER encodes them into identifier octets, while PER and OER only
// transmit a Tag where §4.6/§4.7 of the specification say so (CHOICE
// discrimination, open types).
type Tag uint32

// Class holds the class part of an ASN.1 tag. The class acts as a namespace
// for the tag number. Class is an alias for Tag to make operations involving
// classes more convenient.
type Class = Tag

// classMask is the bitmask to extract the Class component from a Tag value.
const classMask = Tag(0b11 << 30)

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota << 30
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// Class returns the class bits of t.
func (t Tag) Class() Class {
	return t & classMask
}

// Number returns the tag number of t as a uint. The tag number does not
// include the class of the tag.
func (t Tag) Number() uint {
	return uint(t &^ classMask)
}

// String returns a string representation of t in a format similar to the one
// used in ASN.1 notation. The tag number is enclosed by square brackets and
// prefixed with the class used. To avoid ambiguity, the UNIVERSAL word is
// used for universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	n := strconv.FormatUint(uint64(t.Number()), 10)
	switch t.Class() {
	case ClassUniversal:
		return "[UNIVERSAL " + n + "]"
	case ClassApplication:
		return "[APPLICATION " + n + "]"
	case ClassContextSpecific:
		return "[" + n + "]"
	case ClassPrivate:
		return "[PRIVATE " + n + "]"
	}
	panic("unreachable")
}

// TagReserved is the reserved tag number in the [ClassUniversal] namespace to
// be used by encoding rules (the BER end-of-contents octets). This assignment
// is defined in Rec. ITU-T X.680, Section 8, Table 1.
const TagReserved Tag = ClassUniversal | 0

// These are the ASN.1 tags defined in the [ClassUniversal] namespace. These
// assignments are defined in Rec. ITU-T X.680, Section 8, Table 1.
const (
	TagBoolean          = ClassUniversal | 1
	TagInteger          = ClassUniversal | 2
	TagBitString        = ClassUniversal | 3
	TagOctetString      = ClassUniversal | 4
	TagNull             = ClassUniversal | 5
	TagOID              = ClassUniversal | 6
	TagObjectDescriptor = ClassUniversal | 7
	TagExternal         = ClassUniversal | 8
	TagReal             = ClassUniversal | 9
	TagEnumerated       = ClassUniversal | 10
	TagEmbeddedPDV      = ClassUniversal | 11
	TagUTF8String       = ClassUniversal | 12
	TagRelativeOID      = ClassUniversal | 13
	TagTime             = ClassUniversal | 14
	TagSequence         = ClassUniversal | 16
	TagSet              = ClassUniversal | 17
	TagNumericString    = ClassUniversal | 18
	TagPrintableString  = ClassUniversal | 19
	TagTeletexString    = ClassUniversal | 20
	TagT61String        = TagTeletexString
	TagVideotexString   = ClassUniversal | 21
	TagIA5String        = ClassUniversal | 22
	TagUTCTime          = ClassUniversal | 23
	TagGeneralizedTime  = ClassUniversal | 24
	TagGraphicString    = ClassUniversal | 25
	TagVisibleString    = ClassUniversal | 26
	TagISO646String     = TagVisibleString
	TagGeneralString    = ClassUniversal | 27
	TagUniversalString  = ClassUniversal | 28
	TagCharacterString  = ClassUniversal | 29
	TagBMPString        = ClassUniversal | 30
	TagDate             = ClassUniversal | 31
	TagTimeOfDay        = ClassUniversal | 32
	TagDateTime         = ClassUniversal | 33
	TagDuration         = ClassUniversal | 34
)
