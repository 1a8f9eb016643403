package driver

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

func TestAlignSingleEndEmptySeedsUnmapped(t *testing.T) {
	refs := fakeRefs{seq: dna.StringToBases("ACGTACGTACGTACGT")}
	kernel := alignkernel.New(params.DefaultAlignment())
	r := read.New(dna.StringToBases("ACGTACGT"))

	result := AlignSingleEnd(kernel, r, nil, refs, 4, params.DefaultAlignment(), params.DefaultMapping(), false)
	if !result.Primary.IsUnaligned {
		t.Fatalf("expected unmapped record for an empty seed list")
	}
}

func TestAlignSingleEndPerfectMatch(t *testing.T) {
	refSeq := dna.StringToBases("GGGGACGTACGTACGTACGTGGGG")
	refs := fakeRefs{seq: refSeq}
	kernel := alignkernel.New(params.DefaultAlignment())
	r := read.New(dna.StringToBases("ACGTACGTACGTACGT"))

	seeds := []nam.Seed{{RefID: 0, RefStart: 4, RefEnd: 20, QueryStart: 0, QueryEnd: 16, IsRC: false, Score: 100, NHits: 10, NamID: 1}}
	result := AlignSingleEnd(kernel, r, seeds, refs, 4, params.DefaultAlignment(), params.DefaultMapping(), false)

	if result.Primary.IsUnaligned {
		t.Fatalf("expected a mapped primary")
	}
	if result.Primary.Gapped {
		t.Fatalf("expected the ungapped fast path for a perfect match")
	}
	if result.Primary.MapQ != 60 {
		t.Fatalf("expected mapq 60 for a unique perfect seed, got %d", result.Primary.MapQ)
	}
}

func TestAlignSingleEndAmbiguousEmitsSecondary(t *testing.T) {
	refSeq := dna.StringToBases("GGGGACGTACGTACGTACGTGGGGACGTACGTACGTACGTGGGG")
	refs := fakeRefs{seq: refSeq}
	kernel := alignkernel.New(params.DefaultAlignment())
	r := read.New(dna.StringToBases("ACGTACGTACGTACGT"))

	seeds := []nam.Seed{
		{RefID: 0, RefStart: 4, RefEnd: 20, QueryStart: 0, QueryEnd: 16, IsRC: false, Score: 100, NHits: 10, NamID: 1},
		{RefID: 0, RefStart: 24, RefEnd: 40, QueryStart: 0, QueryEnd: 16, IsRC: false, Score: 100, NHits: 10, NamID: 2},
	}
	mp := params.DefaultMapping()
	mp.MaxSecondary = 1
	result := AlignSingleEnd(kernel, r, seeds, refs, 4, params.DefaultAlignment(), mp, false)

	if result.Primary.IsUnaligned {
		t.Fatalf("expected a mapped primary")
	}
	if result.Primary.MapQ != 0 {
		t.Fatalf("expected primary mapq 0 for two equally-scored seeds, got %d", result.Primary.MapQ)
	}
	if len(result.Secondary) != 1 {
		t.Fatalf("expected exactly one secondary, got %d", len(result.Secondary))
	}
	if result.Secondary[0].MapQ != 255 {
		t.Fatalf("expected secondary mapq 255, got %d", result.Secondary[0].MapQ)
	}
}

func TestAlignSingleEndRecordsNamRescue(t *testing.T) {
	refSeq := dna.StringToBases("GGGGACGTACGTACGTACGTGGGG")
	refs := fakeRefs{seq: refSeq}
	kernel := alignkernel.New(params.DefaultAlignment())
	r := read.New(dna.StringToBases("ACGTACGTACGTACGT"))

	seeds := []nam.Seed{{RefID: 0, RefStart: 4, RefEnd: 20, QueryStart: 0, QueryEnd: 16, IsRC: false, Score: 100, NHits: 10, NamID: 1}}
	result := AlignSingleEnd(kernel, r, seeds, refs, 4, params.DefaultAlignment(), params.DefaultMapping(), true)

	if !result.Statistics.NamRescue {
		t.Fatalf("expected Statistics.NamRescue to be set when the caller reports a rescue fallback")
	}
}
