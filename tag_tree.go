package asn1

import (
	"slices"
	"strconv"
)

// TagTree is the recursive set of tags by which a type may be discriminated
// from its siblings (I-3, §3 of the specification). For a primitive type the
// tree is a singleton. A CHOICE's tree is the union of its variants' trees. A
// tagged wrapper's tree is the wrapper's own tag, regardless of the tree of
// the type it wraps.
//
// TagTree values are compile-time constants; the flattened slice returned by
// [TagTree.Tags] is what [CheckDisjoint] inspects to enforce I1.
type TagTree struct {
	tags []Tag
}

// Leaf returns the singleton tag tree for a primitive type tagged t.
func Leaf(t Tag) TagTree {
	return TagTree{tags: []Tag{t}}
}

// Union returns the tag tree reachable from any of trees, used to build the
// tag tree of a CHOICE from its variants.
func Union(trees ...TagTree) TagTree {
	var tags []Tag
	for _, t := range trees {
		tags = append(tags, t.tags...)
	}
	return TagTree{tags: tags}
}

// Tags returns the flattened list of tags reachable from the tree. The slice
// must not be mutated by the caller.
func (t TagTree) Tags() []Tag {
	return t.tags
}

// Contains reports whether tag is reachable from t.
func (t TagTree) Contains(tag Tag) bool {
	return slices.Contains(t.tags, tag)
}

// DisjointError indicates that two tag trees passed to [CheckDisjoint] share
// a tag, violating invariant I1 of the specification (every constructed
// type's direct children must have pairwise disjoint tag trees).
type DisjointError struct {
	Tag   Tag
	Left  int
	Right int
}

func (e *DisjointError) Error() string {
	return "asn1: tag " + e.Tag.String() + " is shared by child " +
		strconv.Itoa(e.Left) + " and child " + strconv.Itoa(e.Right)
}

// CheckDisjoint verifies invariant I1: the pairwise intersection of the given
// tag trees (one per direct child of a constructed type) must be empty. It is
// meant to be called once, at type-definition time (e.g. from a package-level
// var initializer or an init function), so that a violation surfaces as a
// failure during development rather than at encode/decode time.
func CheckDisjoint(trees ...TagTree) error {
	seen := make(map[Tag]int, len(trees))
	for i, tree := range trees {
		for _, tag := range tree.tags {
			if j, dup := seen[tag]; dup {
				return &DisjointError{Tag: tag, Left: j, Right: i}
			}
			seen[tag] = i
		}
	}
	return nil
}
