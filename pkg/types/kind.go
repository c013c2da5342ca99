package types

// Kind identifies the container shape a directory tree persists.
// Every container root carries a kind marker so a reader can reconstruct
// the value without external metadata.
type Kind string

const (
	// KindMap is an associative key/value container
	KindMap Kind = "map"

	// KindSet is an unordered container of unique keys
	KindSet Kind = "set"

	// KindSeq is an ordered, integer-indexed container
	KindSeq Kind = "seq"
)

// Valid reports whether k names a known container kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMap, KindSet, KindSeq:
		return true
	}
	return false
}

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// ParseKind converts the content of a kind marker into a Kind.
// The second return value is false for unrecognized content.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	return k, k.Valid()
}
