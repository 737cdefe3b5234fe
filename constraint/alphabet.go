package constraint

import "sort"

// CharRange is an inclusive range of Unicode code points.
type CharRange struct {
	Lo, Hi rune
}

// Alphabet is a union of character ranges restricting the content of a
// restricted string type (§3 "permitted-alphabet"). A zero-value Alphabet
// (nil Ranges) is unconstrained: every code point in the string's natural
// repertoire is permitted.
type Alphabet struct {
	Ranges []CharRange
}

// NewAlphabet builds an Alphabet from a set of ranges, normalizing (sorting
// and merging overlapping/adjacent ranges) so [Alphabet.Cardinality] and
// [Alphabet.Index] are well-defined.
func NewAlphabet(ranges ...CharRange) Alphabet {
	a := Alphabet{Ranges: append([]CharRange(nil), ranges...)}
	a.normalize()
	return a
}

func (a *Alphabet) normalize() {
	if len(a.Ranges) == 0 {
		return
	}
	sort.Slice(a.Ranges, func(i, j int) bool { return a.Ranges[i].Lo < a.Ranges[j].Lo })
	out := a.Ranges[:1]
	for _, r := range a.Ranges[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	a.Ranges = out
}

// Unconstrained reports whether a places no restriction on its alphabet.
func (a Alphabet) Unconstrained() bool {
	return len(a.Ranges) == 0
}

// Contains reports whether r lies within the permitted alphabet. An
// unconstrained Alphabet contains every code point.
func (a Alphabet) Contains(r rune) bool {
	if a.Unconstrained() {
		return true
	}
	for _, cr := range a.Ranges {
		if r >= cr.Lo && r <= cr.Hi {
			return true
		}
	}
	return false
}

// Cardinality returns the number of distinct code points permitted by a. It
// is undefined (returns 0) for an unconstrained alphabet; callers must check
// [Alphabet.Unconstrained] first, as an unconstrained string uses its natural
// width rather than a cardinality-derived one (§4.6 "Restricted strings").
func (a Alphabet) Cardinality() int {
	n := 0
	for _, r := range a.Ranges {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

// Index returns the 0-based position of r within the ordered permitted
// alphabet, used by PER to pack a character into ceil(log2(cardinality))
// bits. ok is false if r is not permitted.
func (a Alphabet) Index(r rune) (idx int, ok bool) {
	if a.Unconstrained() {
		return int(r), true
	}
	pos := 0
	for _, cr := range a.Ranges {
		if r >= cr.Lo && r <= cr.Hi {
			return pos + int(r-cr.Lo), true
		}
		pos += int(cr.Hi-cr.Lo) + 1
	}
	return 0, false
}

// Rune returns the code point at 0-based position idx within the ordered
// permitted alphabet, the inverse of [Alphabet.Index]. ok is false if idx is
// out of range.
func (a Alphabet) Rune(idx int) (r rune, ok bool) {
	if a.Unconstrained() {
		return rune(idx), true
	}
	pos := 0
	for _, cr := range a.Ranges {
		width := int(cr.Hi-cr.Lo) + 1
		if idx < pos+width {
			return cr.Lo + rune(idx-pos), true
		}
		pos += width
	}
	return 0, false
}

// Intersect returns the permitted alphabet accepted by both a and other.
func (a Alphabet) Intersect(other Alphabet) Alphabet {
	switch {
	case a.Unconstrained():
		return other
	case other.Unconstrained():
		return a
	}
	var ranges []CharRange
	for _, x := range a.Ranges {
		for _, y := range other.Ranges {
			lo, hi := max(x.Lo, y.Lo), min(x.Hi, y.Hi)
			if lo <= hi {
				ranges = append(ranges, CharRange{lo, hi})
			}
		}
	}
	return NewAlphabet(ranges...)
}
