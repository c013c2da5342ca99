package types

// Set is an unordered in-memory collection of unique scalar members.
// Go has no built-in set shape, so the codec needs a named type to tell
// "persist as a set" apart from "persist as a map". Members must be
// comparable scalars (string, integer, float, bool, nil).
type Set map[any]struct{}

// NewSet builds a Set from the given members.
func NewSet(members ...any) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts a member.
func (s Set) Add(m any) {
	s[m] = struct{}{}
}

// Discard removes a member if present.
func (s Set) Discard(m any) {
	delete(s, m)
}

// Has reports membership.
func (s Set) Has(m any) bool {
	_, ok := s[m]
	return ok
}

// Members returns the members in unspecified order.
func (s Set) Members() []any {
	out := make([]any, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	return out
}

// Len returns the member count.
func (s Set) Len() int {
	return len(s)
}
