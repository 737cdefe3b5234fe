package asn1

import "asn1codec.dev/asn1/constraint"

// Kind classifies a type's ASN.1 category, independent of its Go
// representation. It is used by [TypeDescriptor] and by error paths; it is
// deliberately not used for any reflection-based dispatch (§1 "capability
// interfaces, not reflection").
type Kind int

const (
	KindPrimitive Kind = iota
	KindSequence
	KindSet
	KindChoice
	KindSequenceOf
	KindSetOf
	KindEnumerated
)

// Presence classifies how a SEQUENCE/SET field participates in the root
// preamble (§4.6).
type Presence int

const (
	// Required fields are always present; they consume no preamble bit.
	Required Presence = iota
	// Optional fields consume one root-preamble bit and have no ASN.1
	// DEFAULT.
	Optional
	// DefaultValued fields consume one root-preamble bit; canonical rules
	// omit them whenever the field holds its ASN.1 DEFAULT value.
	DefaultValued
)

func (p Presence) String() string {
	switch p {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case DefaultValued:
		return "DEFAULT"
	default:
		return "Presence(" + itoa(int(p)) + ")"
	}
}

// Field describes one member of a SEQUENCE or SET, in declaration order;
// nothing in this package re-orders a SET's fields by tag. Hand-written Encode/Decode
// methods use a type's []Field purely for self-documentation and for
// building its [TagTree] via [Leaf]/[Union]; the actual field reads/writes
// still go through [SequenceEncoder]/[Decoder.DecodeSequence] directly, as
// only the field's own code knows how to materialize its Go value.
type Field struct {
	Name        string
	Index       int
	Presence    Presence
	Tag         Tag
	Constraints constraint.Set
}

// Variant describes one alternative of a CHOICE, in declaration order. Root
// variants are numbered 0..N-1 in declaration order; extension variants are
// numbered independently starting at 0 within the extension addition list
// (§4.6 "index: root variants numbered in declaration order... extension
// variants numbered independently").
type Variant struct {
	Name        string
	Index       int
	Extension   bool
	Tag         Tag
	Constraints constraint.Set
}

// TypeDescriptor is an optional, declarative summary of a SEQUENCE/SET/
// CHOICE type's shape, primarily useful for diagnostics and for building a
// type's [TagTree] once at package-init time via [CheckDisjoint]. It is not
// required by [Encode]/[Decode]; a type may implement those directly without
// ever constructing one.
type TypeDescriptor struct {
	Name     string
	Kind     Kind
	Fields   []Field
	Variants []Variant
}

// OptionalCount returns the number of OPTIONAL/DEFAULT fields, i.e. the
// width of the root preamble this type's Encode/Decode methods must drive
// through [SequenceEncoder.EncodeOptional]/[SequenceEncoder.EncodeDefault]
// and [Decoder.DecodeSequence]'s optionalCount parameter.
func (d TypeDescriptor) OptionalCount() int {
	n := 0
	for _, f := range d.Fields {
		if f.Presence != Required {
			n++
		}
	}
	return n
}

// RootVariantCount returns the number of non-extension CHOICE alternatives.
func (d TypeDescriptor) RootVariantCount() int {
	n := 0
	for _, v := range d.Variants {
		if !v.Extension {
			n++
		}
	}
	return n
}

// TagTree returns the union of every field's (or variant's) own tag tree,
// suitable for passing to [CheckDisjoint] against sibling types.
func (d TypeDescriptor) TagTree() TagTree {
	switch d.Kind {
	case KindChoice:
		trees := make([]TagTree, 0, len(d.Variants))
		for _, v := range d.Variants {
			trees = append(trees, Leaf(v.Tag))
		}
		return Union(trees...)
	default:
		trees := make([]TagTree, 0, len(d.Fields))
		for _, f := range d.Fields {
			trees = append(trees, Leaf(f.Tag))
		}
		return Union(trees...)
	}
}
