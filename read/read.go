// Package read holds the immutable per-record view of a short sequencing
// read that the alignment core operates on: the sequence as given and its
// reverse complement, computed once up front.
package read

import "github.com/vertgenlab/gonomics/dna"

// Read is the forward and reverse-complement sequence of one read.
// Both fields are set at construction time and never mutated afterward;
// Seed orientation verification and extension only ever select between
// them, they do not write to them.
type Read struct {
	Seq []dna.Base
	RC  []dna.Base
}

// New builds a Read from a raw base sequence, computing the reverse
// complement once.
func New(seq []dna.Base) Read {
	rc := make([]dna.Base, len(seq))
	copy(rc, seq)
	dna.ReverseComplement(rc)
	return Read{Seq: seq, RC: rc}
}

// Len returns the read length. Seq and RC always have the same length.
func (r Read) Len() int {
	return len(r.Seq)
}

// Strand returns the sequence for the given orientation: RC if isRC,
// otherwise Seq.
func (r Read) Strand(isRC bool) []dna.Base {
	if isRC {
		return r.RC
	}
	return r.Seq
}
