package nam

import (
	"testing"

	"github.com/luispedro/strobealign/read"
	"github.com/vertgenlab/gonomics/dna"
)

type fakeRefs struct {
	seq []dna.Base
}

func (f fakeRefs) Window(refID, start, end int) ([]dna.Base, error) {
	return f.seq[start:end], nil
}

func TestReverseIfNeededForwardMatch(t *testing.T) {
	refSeq := dna.StringToBases("ACGTACGTACGTACGTACGT")
	refs := fakeRefs{seq: refSeq}
	r := read.New(dna.StringToBases("ACGTACGTAC"))

	seed := Seed{RefID: 0, RefStart: 0, RefEnd: 10, QueryStart: 0, QueryEnd: 10, IsRC: false}
	ok := ReverseIfNeeded(&seed, r, refs, 4)
	if !ok {
		t.Fatalf("expected forward orientation to be consistent")
	}
	if seed.IsRC {
		t.Fatalf("seed should not have been flipped")
	}
}

func TestReverseIfNeededFlips(t *testing.T) {
	refSeq := dna.StringToBases("ACGTACGTACGTACGTACGT")
	refs := fakeRefs{seq: refSeq}
	fwd := dna.StringToBases("ACGTACGTAC")
	rc := make([]dna.Base, len(fwd))
	copy(rc, fwd)
	dna.ReverseComplement(rc)
	r := read.Read{Seq: fwd, RC: rc}

	// Seed claims rc orientation, but only the forward strand matches
	// the reference flanks.
	readLen := r.Len()
	qStart, qEnd := 0, 10
	flippedStart := readLen - qEnd
	flippedEnd := readLen - qStart
	seed := Seed{RefID: 0, RefStart: 0, RefEnd: 10, QueryStart: flippedStart, QueryEnd: flippedEnd, IsRC: true}

	ok := ReverseIfNeeded(&seed, r, refs, 4)
	if !ok {
		t.Fatalf("expected flipped orientation to be found consistent")
	}
	if seed.IsRC {
		t.Fatalf("seed should have flipped to forward")
	}
	if seed.QueryStart != qStart || seed.QueryEnd != qEnd {
		t.Fatalf("expected query coords to flip back to [%d,%d), got [%d,%d)", qStart, qEnd, seed.QueryStart, seed.QueryEnd)
	}
}

func TestReverseIfNeededInconsistent(t *testing.T) {
	refSeq := dna.StringToBases("ACGTACGTACGTACGTACGT")
	refs := fakeRefs{seq: refSeq}
	r := read.New(dna.StringToBases("TTTTTTTTTT"))

	seed := Seed{RefID: 0, RefStart: 0, RefEnd: 10, QueryStart: 0, QueryEnd: 10, IsRC: false}
	ok := ReverseIfNeeded(&seed, r, refs, 4)
	if ok {
		t.Fatalf("expected inconsistent orientation to be reported")
	}
}

// TestReverseIfNeededIdempotent checks that applying the verifier
// twice yields the same final state.
func TestReverseIfNeededIdempotent(t *testing.T) {
	refSeq := dna.StringToBases("ACGTACGTACGTACGTACGT")
	refs := fakeRefs{seq: refSeq}
	r := read.New(dna.StringToBases("ACGTACGTAC"))

	seed := Seed{RefID: 0, RefStart: 0, RefEnd: 10, QueryStart: 0, QueryEnd: 10, IsRC: false}
	first := ReverseIfNeeded(&seed, r, refs, 4)
	snapshot := seed
	second := ReverseIfNeeded(&seed, r, refs, 4)

	if first != second {
		t.Fatalf("verifier result changed between calls: %v vs %v", first, second)
	}
	if seed != snapshot {
		t.Fatalf("seed state changed on second call: %+v vs %+v", seed, snapshot)
	}
}
