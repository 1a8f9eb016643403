package nam

import (
	"github.com/luispedro/strobealign/read"
	"github.com/vertgenlab/gonomics/dna"
)

// SequenceSource is the slice of the Reference store that orientation
// verification needs: a reference window lookup. References satisfies
// this with its Window method.
type SequenceSource interface {
	Window(refID, start, end int) ([]dna.Base, error)
}

// ReverseIfNeeded confirms the seed's strand by comparing the
// length-k prefix/suffix of its reference span against the matching
// flanks of the read, flipping the seed in place if the opposite
// strand is the one that actually matches.
//
// Returns true if the seed's orientation (possibly just corrected) is
// consistent with the reference; false if neither orientation matches,
// in which case the seed is left untouched and the caller must still
// attempt alignment. A seed whose reference or query span is shorter
// than k has no length-k flanks to compare and is reported as
// inconsistent.
func ReverseIfNeeded(seed *Seed, r read.Read, refs SequenceSource, k int) bool {
	readLen := r.Len()
	if seed.RefSpan() < k || seed.QuerySpan() < k {
		return false
	}

	refStartKmer, err := refs.Window(seed.RefID, seed.RefStart, seed.RefStart+k)
	if err != nil {
		return false
	}
	refEndKmer, err := refs.Window(seed.RefID, seed.RefEnd-k, seed.RefEnd)
	if err != nil {
		return false
	}

	seq := r.Strand(seed.IsRC)
	seqRC := r.Strand(!seed.IsRC)

	readStartKmer := seq[seed.QueryStart : seed.QueryStart+k]
	readEndKmer := seq[seed.QueryEnd-k : seed.QueryEnd]
	if dna.CompareSeqsIgnoreCase(refStartKmer, readStartKmer) == 0 &&
		dna.CompareSeqsIgnoreCase(refEndKmer, readEndKmer) == 0 {
		return true
	}

	// False forward or false reverse hit (possible due to symmetrical
	// hash values); try the flipped interpretation before giving up.
	qStartTmp := readLen - seed.QueryEnd
	qEndTmp := readLen - seed.QueryStart
	readStartKmer = seqRC[qStartTmp : qStartTmp+k]
	readEndKmer = seqRC[qEndTmp-k : qEndTmp]
	if dna.CompareSeqsIgnoreCase(refStartKmer, readStartKmer) == 0 &&
		dna.CompareSeqsIgnoreCase(refEndKmer, readEndKmer) == 0 {
		seed.IsRC = !seed.IsRC
		seed.QueryStart = qStartTmp
		seed.QueryEnd = qEndTmp
		return true
	}

	return false
}
