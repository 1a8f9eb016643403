package driver

import (
	"testing"

	"github.com/vertgenlab/gonomics/dna"

	"github.com/luispedro/strobealign/alignkernel"
	"github.com/luispedro/strobealign/isize"
	"github.com/luispedro/strobealign/nam"
	"github.com/luispedro/strobealign/params"
	"github.com/luispedro/strobealign/read"
)

func TestAlignPairedEndBothEmptyUnmapped(t *testing.T) {
	refs := fakeRefs{seq: dna.StringToBases("ACGTACGTACGTACGT")}
	kernel := alignkernel.New(params.DefaultAlignment())
	r1 := read.New(dna.StringToBases("ACGTACGT"))
	r2 := read.New(dna.StringToBases("ACGTACGT"))
	est := isize.New(300)

	result := AlignPairedEnd(kernel, r1, r2, nil, nil, refs, 4, params.DefaultAlignment(), params.DefaultMapping(), est, false, false)
	if len(result.Pairs) != 1 {
		t.Fatalf("expected exactly one unmapped pair record, got %d", len(result.Pairs))
	}
	if !result.Pairs[0].A1.IsUnaligned || !result.Pairs[0].A2.IsUnaligned {
		t.Fatalf("expected both mates unaligned")
	}
}

func TestAlignPairedEndOneSideEmptyRescues(t *testing.T) {
	refSeq := dna.StringToBases("GGGGGGGGGGACGTACGTACGTACGTGGGGGGGGGG")
	refs := fakeRefs{seq: refSeq}
	kernel := alignkernel.New(params.DefaultAlignment())
	r1 := read.New(dna.StringToBases("ACGTACGTACGTACGT"))
	r2 := read.New(dna.StringToBases("ACGTACGTACGTACGT"))
	est := isize.New(1)

	seeds1 := []nam.Seed{{RefID: 0, RefStart: 10, RefEnd: 26, QueryStart: 0, QueryEnd: 16, IsRC: false, Score: 32, NHits: 10, NamID: 1}}
	result := AlignPairedEnd(kernel, r1, r2, seeds1, nil, refs, 10, params.DefaultAlignment(), params.DefaultMapping(), est, false, false)

	if len(result.Pairs) == 0 {
		t.Fatalf("expected the rescue path to emit at least one pair")
	}
	if result.Pairs[0].A2.IsRC == result.Pairs[0].A1.IsRC {
		t.Fatalf("expected the rescued mate on the opposite strand from the guide")
	}
}

func TestMapPairedEndUpdatesEstimatorOnJointPlacement(t *testing.T) {
	est := isize.New(300)
	seeds1 := []nam.Seed{{RefID: 0, RefStart: 1000, QueryStart: 0, IsRC: false, Score: 30, NHits: 10, NamID: 1}}
	seeds2 := []nam.Seed{{RefID: 0, RefStart: 1300, QueryStart: 0, IsRC: true, Score: 30, NHits: 10, NamID: 2}}

	loc := MapPairedEnd(seeds1, seeds2, est)
	if !loc.FromJoint {
		t.Fatalf("expected a joint placement for a clean proper pair")
	}
	if est.SampleSize() != 1 {
		t.Fatalf("expected the insert-size estimator to be updated once, got sample size %d", est.SampleSize())
	}
}

func TestMapPairedEndNoSeedsLeavesEstimatorUntouched(t *testing.T) {
	est := isize.New(300)
	MapPairedEnd(nil, nil, est)
	if est.SampleSize() != 0 {
		t.Fatalf("expected no estimator update with no seeds, got sample size %d", est.SampleSize())
	}
}

func TestTopDropoffFewHits(t *testing.T) {
	seeds := []nam.Seed{{NHits: 2}}
	if got := topDropoff(seeds); got != 1.0 {
		t.Fatalf("expected 1.0 dropoff for <=2 hits, got %v", got)
	}
}

func TestTopDropoffRatio(t *testing.T) {
	seeds := []nam.Seed{{NHits: 10}, {NHits: 5}}
	if got := topDropoff(seeds); got != 0.5 {
		t.Fatalf("expected 0.5 dropoff, got %v", got)
	}
}
