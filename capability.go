package asn1

import (
	"math/big"
	"time"

	"asn1codec.dev/asn1/constraint"
)

// AsnType is the capability every codable type publishes: its identifying
// tag, its tag tree, its compile-time constraint set, and an optional
// human-readable identifier used in error paths and open-type debugging
// (§4.1).
type AsnType interface {
	// Tag returns the type's own, default tag.
	Tag() Tag
	// TagTree returns the set of tags by which the type may be discriminated
	// from its siblings.
	TagTree() TagTree
	// Constraints returns the type's own, default constraint set.
	Constraints() constraint.Set
	// Identifier returns a short human-readable name for the type, used in
	// error paths. It may be empty.
	Identifier() string
}

// Encode is the capability that lets a value write itself into any backend.
// Implementations MUST use the tag/constraints/identifier PASSED IN, never
// their own AsnType defaults, so that callers — implicit/explicit tagging
// wrappers, automatic tagging, constraint inheritance through nested
// scopes — can override them (§4.1).
type Encode interface {
	AsnType
	EncodeWithTagAndConstraints(enc Encoder, tag Tag, constraints constraint.Set, identifier string) error
}

// Decode is the symmetric capability for reading a value out of any backend.
// The receiver is mutated in place; implementations are expected on pointer
// receivers.
type Decode interface {
	AsnType
	DecodeWithTagAndConstraints(dec Decoder, tag Tag, constraints constraint.Set, identifier string) error
}

// EncodeValue is the derived convenience entry point: it forwards to v's own
// TAG and CONSTRAINTS, as required by §4.1.
func EncodeValue(enc Encoder, v Encode) error {
	return v.EncodeWithTagAndConstraints(enc, v.Tag(), v.Constraints(), v.Identifier())
}

// DecodeValue is the derived convenience entry point for decoding.
func DecodeValue(dec Decoder, v Decode) error {
	return v.DecodeWithTagAndConstraints(dec, v.Tag(), v.Constraints(), v.Identifier())
}

// SequenceEncoder is the sub-encoder handed to the closure passed to
// [Encoder.EncodeSequence]/[Encoder.EncodeSet]. It is the only encoder valid
// for writing the constituent fields of that one constructed value; backends
// enforce this by giving it a distinct Go value from the outer [Encoder] and
// locking the outer encoder for the closure's duration (§4.4 "Backends must
// guarantee... that code closing over the outer encoder cannot write into it
// during the closure").
//
// Root PER/OER SEQUENCE framing needs the presence of every OPTIONAL/DEFAULT
// field before any field content is written (the preamble precedes the
// fields, §4.6 step 2-3), while a Go closure naturally produces output in a
// single forward pass. SequenceEncoder resolves this by buffering each
// field's encoding as the closure declares it and letting the backend
// assemble the preamble and field bytes once the closure returns; from the
// closure's point of view this is invisible; it simply declares fields in
// order.
type SequenceEncoder interface {
	// EncodeField encodes a REQUIRED root field. fn is called exactly once,
	// immediately.
	EncodeField(fn func(Encoder) error) error
	// EncodeOptional encodes one OPTIONAL root field, consuming one bit of
	// the root preamble. fn is called (and its output kept) only if present.
	EncodeOptional(present bool, fn func(Encoder) error) error
	// EncodeDefault encodes one DEFAULT root field, consuming one bit of the
	// root preamble. isDefaultValue indicates the field's current value
	// equals its ASN.1 DEFAULT; canonical backends always omit it in that
	// case (§4.6 "canonical forms MUST omit"), non-canonical backends may
	// choose either, so this implementation always omits when true.
	EncodeDefault(isDefaultValue bool, fn func(Encoder) error) error
	// EncodeExtensionAddition encodes one extension addition slot (§3
	// "Extension addition"). present indicates whether this value populates
	// the slot; every slot - present or not - consumes one bit of the
	// extension preamble and one position in its declared count, satisfying
	// I4 (every extension addition is OPTIONAL, presence tracked in the
	// extension preamble).
	EncodeExtensionAddition(present bool, fn func(Encoder) error) error
	// EncodeExtensionAdditionGroup encodes a group of extension additions
	// introduced together as a single open-type slot, exactly like
	// EncodeExtensionAddition but documenting that fn may itself declare
	// several logical fields (typically via a nested EncodeSequence call).
	EncodeExtensionAdditionGroup(present bool, fn func(Encoder) error) error
}

// ExtensionReader gives a SEQUENCE/SET's Decode implementation access to the
// extension additions a decoder already read off the wire, by declaration
// position. Positions beyond what an older reader's type declares are simply
// never queried, which is how P5 (extension forward-compatibility) holds:
// the decoder must still frame and skip them (they are self-delimiting open
// types), but nothing requires the reader to interpret them.
type ExtensionReader interface {
	// Len returns the number of extension addition slots the wire encoding
	// declared (possibly more than this type statically knows about).
	Len() int
	// Blob returns the decoded-but-unparsed open-type bytes for slot i, and
	// whether that slot was present. Out-of-range i returns ok=false.
	Blob(i int) (data []byte, ok bool)
}

// DefaultFactory supplies the default value for a DEFAULT field that was
// absent on the wire, so [Decoder.DecodeSequence] callers can populate it
// without duplicating the ASN.1 DEFAULT literal at every call site.
type DefaultFactory func(fieldIndex int) (Decode, bool)

// Encoder is the abstract contract every backend implements (§4.4). Every
// operation receives the target tag and constraints; PER and OER ignore the
// tag outside CHOICE/open-type contexts but must still honour constraints.
type Encoder interface {
	// Rule reports which [CodecRule] this Encoder implements, for use in
	// error messages and generic dispatch.
	Rule() CodecRule

	EncodeBool(tag Tag, c constraint.Set, v bool) error
	EncodeInteger(tag Tag, c constraint.Set, v *big.Int) error
	EncodeEnumerated(tag Tag, c constraint.Set, ordinal int, rootCount int, extensible bool) error
	EncodeNull(tag Tag, c constraint.Set) error
	EncodeReal(tag Tag, c constraint.Set, v float64) error

	EncodeOctetString(tag Tag, c constraint.Set, v []byte) error
	EncodeBitString(tag Tag, c constraint.Set, v BitString) error

	EncodeUTF8String(tag Tag, c constraint.Set, v string) error
	EncodeVisibleString(tag Tag, c constraint.Set, v string) error
	EncodeIA5String(tag Tag, c constraint.Set, v string) error
	EncodePrintableString(tag Tag, c constraint.Set, v string) error
	EncodeNumericString(tag Tag, c constraint.Set, v string) error
	EncodeTeletexString(tag Tag, c constraint.Set, v string) error
	EncodeGeneralString(tag Tag, c constraint.Set, v string) error
	EncodeGraphicString(tag Tag, c constraint.Set, v string) error
	EncodeBMPString(tag Tag, c constraint.Set, v string) error
	EncodeUniversalString(tag Tag, c constraint.Set, v string) error

	EncodeObjectIdentifier(tag Tag, c constraint.Set, v ObjectIdentifier) error
	EncodeRelativeOID(tag Tag, c constraint.Set, v RelativeOID) error
	EncodeGeneralizedTime(tag Tag, c constraint.Set, v time.Time) error
	EncodeUTCTime(tag Tag, c constraint.Set, v time.Time) error

	EncodeSequence(tag Tag, extensible bool, fn func(SequenceEncoder) error) error
	EncodeSet(tag Tag, extensible bool, fn func(SequenceEncoder) error) error
	// EncodeChoice encodes one alternative of a CHOICE. variantTag is the
	// tag of the chosen alternative itself (as opposed to tag, which some
	// backends ignore for CHOICE since a CHOICE has no tag of its own
	// unless wrapped); OER uses variantTag to discriminate the alternative
	// by its canonical tag octet, PER ignores it and uses variantIndex.
	EncodeChoice(tag Tag, variantTag Tag, extensible bool, variantIndex int, rootCount int, isExtension bool, fn func(Encoder) error) error
	EncodeSequenceOf(tag Tag, c constraint.Set, n int, fn func(i int, sub Encoder) error) error
	EncodeSetOf(tag Tag, c constraint.Set, n int, fn func(i int, sub Encoder) error) error

	EncodeExplicitPrefix(tag Tag, fn func(Encoder) error) error

	// EncodeSome and EncodeNone are the standalone (outside-a-SEQUENCE)
	// forms of optionality, used by Option-shaped value types whose
	// presence is not tracked by an enclosing preamble (e.g. a
	// top-level OPTIONAL value). Inside a SEQUENCE/SET, presence is
	// instead tracked via [SequenceEncoder.EncodeOptional].
	EncodeSome(fn func(Encoder) error) error
	EncodeNone() error
	// EncodeDefault and EncodeDefaultWithTag are the standalone forms of
	// DEFAULT handling; see EncodeSome for why the SEQUENCE-preamble-aware
	// paths live on [SequenceEncoder] instead.
	EncodeDefault(isDefaultValue bool, fn func(Encoder) error) error
	EncodeDefaultWithTag(isDefaultValue bool, tag Tag, fn func(Encoder) error) error

	// EncodeRawValue writes an already-encoded, opaque value verbatim. It
	// backs the ANY passthrough (§3 "opaque any (raw TLV bytes)") and the
	// open-type payloads produced internally for extension additions and
	// CHOICE extensions.
	EncodeRawValue(tag Tag, raw RawValue) error
}

// Decoder is the abstract contract symmetric to [Encoder] (§4.5).
type Decoder interface {
	Rule() CodecRule

	DecodeBool(tag Tag, c constraint.Set) (bool, error)
	DecodeInteger(tag Tag, c constraint.Set) (*big.Int, error)
	DecodeEnumerated(tag Tag, c constraint.Set, rootCount int, extensible bool) (ordinal int, isExtension bool, err error)
	DecodeNull(tag Tag, c constraint.Set) error
	DecodeReal(tag Tag, c constraint.Set) (float64, error)

	DecodeOctetString(tag Tag, c constraint.Set) ([]byte, error)
	DecodeBitString(tag Tag, c constraint.Set) (BitString, error)

	DecodeUTF8String(tag Tag, c constraint.Set) (string, error)
	DecodeVisibleString(tag Tag, c constraint.Set) (string, error)
	DecodeIA5String(tag Tag, c constraint.Set) (string, error)
	DecodePrintableString(tag Tag, c constraint.Set) (string, error)
	DecodeNumericString(tag Tag, c constraint.Set) (string, error)
	DecodeTeletexString(tag Tag, c constraint.Set) (string, error)
	DecodeGeneralString(tag Tag, c constraint.Set) (string, error)
	DecodeGraphicString(tag Tag, c constraint.Set) (string, error)
	DecodeBMPString(tag Tag, c constraint.Set) (string, error)
	DecodeUniversalString(tag Tag, c constraint.Set) (string, error)

	DecodeObjectIdentifier(tag Tag, c constraint.Set) (ObjectIdentifier, error)
	DecodeRelativeOID(tag Tag, c constraint.Set) (RelativeOID, error)
	DecodeGeneralizedTime(tag Tag, c constraint.Set) (time.Time, error)
	DecodeUTCTime(tag Tag, c constraint.Set) (time.Time, error)

	// DecodeSequence reads the root preamble (optionalCount bits, only if
	// the type declares that many OPTIONAL/DEFAULT root fields) and, if
	// extensible, the extension preamble, then invokes fn with the root
	// presence bits and a Decoder for reading the root fields in order, and
	// (if extensible) extFn with the extension presence bits and an
	// [ExtensionReader] over the already-framed extension blobs.
	// DecodeSequence does not populate absent DEFAULT root fields; callers
	// do that themselves (see [DefaultFactory]).
	DecodeSequence(tag Tag, extensible bool, optionalCount int,
		fn func(presence []bool, sub Decoder) error,
		extFn func(presence []bool, ext ExtensionReader) error,
	) error
	DecodeSet(tag Tag, extensible bool, optionalCount int,
		fn func(presence []bool, sub Decoder) error,
		extFn func(presence []bool, ext ExtensionReader) error,
	) error
	// DecodeChoice reads the CHOICE discriminator and returns the selected
	// variant index together with whether it names a root or extension
	// variant; the caller dispatches fn itself so it can construct the
	// right concrete Go type for that index before reading the body.
	// variantTags lists the tag of every known alternative in declaration
	// order (root alternatives first, then extension alternatives); PER
	// ignores it (alternatives are discriminated by index), OER uses it to
	// match the wire tag octet back to a variantIndex.
	DecodeChoice(tag Tag, variantTags []Tag, extensible bool, rootCount int) (variantIndex int, isExtension bool, fn func(sub Decoder, body func(Decoder) error) error, err error)
	// DecodeSequenceOf reads the element count (bounded by c, handling
	// fragmentation transparently) and calls fn once per element in order.
	DecodeSequenceOf(tag Tag, c constraint.Set, fn func(i int, sub Decoder) error) (n int, err error)
	DecodeSetOf(tag Tag, c constraint.Set, fn func(i int, sub Decoder) error) (n int, err error)

	DecodeExplicitPrefix(tag Tag, fn func(Decoder) error) error

	DecodeRawValue(tag Tag) (RawValue, error)

	// Depth returns the current constructed-value nesting depth, for
	// callers that want to surface it in diagnostics; backends enforce
	// [codec.Config.MaxDepth] internally and return an error once exceeded
	// (§5 "mandatory recursive-depth limit").
	Depth() int
}
