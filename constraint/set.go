package constraint

// Set is the combined constraint attached to a type or field: a value range,
// a size range, and a permitted alphabet. Any of the three may be left at its
// zero (unconstrained) value. Set is the type substituted into the
// `constraints` parameter of `encode_with_tag_and_constraints`/
// `decode_with_tag_and_constraints` (§4.1).
type Set struct {
	Value    Value
	Size     Size
	Alphabet Alphabet
}

// None is the Set with no restrictions at all.
var None = Set{}

// Intersect returns the narrowest Set satisfying both s and other component
// by component, or [ErrEmpty] if any component's intersection is empty.
func (s Set) Intersect(other Set) (Set, error) {
	v, err := s.Value.Intersect(other.Value)
	if err != nil {
		return Set{}, err
	}
	sz, err := s.Size.Intersect(other.Size)
	if err != nil {
		return Set{}, err
	}
	return Set{
		Value:    v,
		Size:     sz,
		Alphabet: s.Alphabet.Intersect(other.Alphabet),
	}, nil
}

// Effective computes the effective constraint for a stack of scopes,
// outer-to-inner (§4.2): the pairwise intersection of every constraint in
// scope. Per the specification this is literally "intersection of all
// constraints in scope", so Effective and repeated calls to [Set.Intersect]
// compute the same thing; Effective exists as the named, stack-shaped
// entry point callers (automatic constraint inheritance through nested
// tagging wrappers) are expected to use.
func Effective(scopes ...Set) (Set, error) {
	if len(scopes) == 0 {
		return None, nil
	}
	eff := scopes[0]
	var err error
	for _, s := range scopes[1:] {
		eff, err = eff.Intersect(s)
		if err != nil {
			return Set{}, err
		}
	}
	return eff, nil
}
