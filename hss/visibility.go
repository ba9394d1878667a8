package hss

// Visibility is a policy deciding which plaintext shares of the other
// parties a given party receives from the dealer. A party never receives its
// own plaintext share, only the encryption of it.
type Visibility interface {
	// Sees returns true if party receives the plaintext shares of other.
	Sees(party, other int) bool
}

// FullVisibility is the [Visibility] under which every party receives the
// plaintext shares of all the other parties. It supports every polynomial
// of total degree smaller than twice the number of parties.
type FullVisibility struct{}

// Sees returns true if party != other.
func (FullVisibility) Sees(party, other int) bool {
	return party != other
}

// VisibilityMatrix is an explicit [Visibility]: party i receives the plaintext
// shares of party j iff VisibilityMatrix[i][j] is true. Out of range indexes
// and the diagonal are treated as false.
type VisibilityMatrix [][]bool

// Sees returns m[party][other], or false if party == other or the indexes are out of range.
func (m VisibilityMatrix) Sees(party, other int) bool {
	if party == other || party < 0 || party >= len(m) || other < 0 || other >= len(m[party]) {
		return false
	}
	return m[party][other]
}

// RingVisibility is the [Visibility] under which party i only receives the
// plaintext shares of party i+1 mod Parties.
type RingVisibility struct {
	Parties int
}

// Sees returns true if other = party + 1 mod Parties.
func (r RingVisibility) Sees(party, other int) bool {
	if r.Parties < 2 || party == other {
		return false
	}
	return other == (party+1)%r.Parties
}
