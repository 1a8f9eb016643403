package extend

import (
	"testing"

	"github.com/vertgenlab/gonomics/dna"

	"github.com/luispedro/strobealign/alignkernel"
	"github.com/luispedro/strobealign/nam"
	"github.com/luispedro/strobealign/params"
	"github.com/luispedro/strobealign/read"
)

type fakeRefs struct {
	seq []dna.Base
}

func (f fakeRefs) Window(refID, start, end int) ([]dna.Base, error) {
	return f.seq[start:end], nil
}

func (f fakeRefs) Length(refID int) int {
	return len(f.seq)
}

func TestGetAlignmentUngappedFastPath(t *testing.T) {
	refSeq := dna.StringToBases("GGGGACGTACGTACGTACGTGGGG")
	refs := fakeRefs{seq: refSeq}
	r := read.New(dna.StringToBases("ACGTACGTACGTACGT"))
	kernel := alignkernel.New(params.DefaultAlignment())

	seed := nam.Seed{RefID: 0, RefStart: 4, RefEnd: 20, QueryStart: 0, QueryEnd: 16, IsRC: false}
	aln := GetAlignment(kernel, seed, refs, r, true)

	if aln.Gapped {
		t.Fatalf("expected ungapped fast path for a perfect match")
	}
	if aln.EditDistance != 0 {
		t.Fatalf("expected 0 edit distance, got %d", aln.EditDistance)
	}
	if aln.RefStart != 4 {
		t.Fatalf("expected ref_start 4, got %d", aln.RefStart)
	}
}

func TestGetAlignmentProjectionBounds(t *testing.T) {
	refSeq := dna.StringToBases("GGGGACGTACGTACGTACGTGGGG")
	refs := fakeRefs{seq: refSeq}
	r := read.New(dna.StringToBases("ACGTACGTACGTACGT"))
	kernel := alignkernel.New(params.DefaultAlignment())

	seed := nam.Seed{RefID: 0, RefStart: 4, RefEnd: 20, QueryStart: 0, QueryEnd: 16, IsRC: false}
	aln := GetAlignment(kernel, seed, refs, r, true)

	if aln.RefStart < 0 {
		t.Fatalf("ref_start must be >= 0, got %d", aln.RefStart)
	}
	if aln.RefStart+aln.Length > len(refSeq) {
		t.Fatalf("ref_start+length must be <= reference length, got %d", aln.RefStart+aln.Length)
	}
}

func TestGetAlignmentGappedWhenInconsistent(t *testing.T) {
	refSeq := dna.StringToBases("GGGGACGTACGTACGTACGTGGGG")
	refs := fakeRefs{seq: refSeq}
	r := read.New(dna.StringToBases("ACGTACGTACGTACGT"))
	kernel := alignkernel.New(params.DefaultAlignment())

	seed := nam.Seed{RefID: 0, RefStart: 4, RefEnd: 20, QueryStart: 0, QueryEnd: 16, IsRC: false}
	aln := GetAlignment(kernel, seed, refs, r, false)

	if !aln.Gapped {
		t.Fatalf("expected gapped path when nam is inconsistent, regardless of hamming match")
	}
}
