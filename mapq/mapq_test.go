package mapq

import (
	"testing"

	"github.com/luispedro/strobealign/nam"
)

func TestSingleEndOnlyOneSeed(t *testing.T) {
	top := nam.Seed{Score: 100, NHits: 5}
	if got := SingleEnd([]nam.Seed{top}, top); got != 60 {
		t.Fatalf("expected 60 for a unique seed, got %d", got)
	}
}

func TestSingleEndPenalizesCloseSecond(t *testing.T) {
	top := nam.Seed{Score: 100, NHits: 20}
	second := nam.Seed{Score: 95, NHits: 20}
	got := SingleEnd([]nam.Seed{top, second}, top)
	if got >= 60 {
		t.Fatalf("expected a penalized MAPQ for a near-tied second seed, got %d", got)
	}
}

func TestJointFromAlignmentScoresTie(t *testing.T) {
	q1, q2 := JointFromAlignmentScores(50, 50)
	if q1 != 0 || q2 != 0 {
		t.Fatalf("expected 0,0 for tied scores, got %d,%d", q1, q2)
	}
}

func TestJointFromAlignmentScoresBothPositive(t *testing.T) {
	q1, q2 := JointFromAlignmentScores(50, 40)
	if q1 != 10 || q2 != 10 {
		t.Fatalf("expected min(60,diff)=10, got %d,%d", q1, q2)
	}
}

func TestJointFromAlignmentScoresSecondNonPositive(t *testing.T) {
	q1, _ := JointFromAlignmentScores(50, 0)
	if q1 != 60 {
		t.Fatalf("expected 60 when only the first score is positive, got %d", q1)
	}
}

func TestJointFromAlignmentScoresFirstNonPositive(t *testing.T) {
	q1, _ := JointFromAlignmentScores(0, -5)
	if q1 != 1 {
		t.Fatalf("expected 1 when the top score itself is non-positive, got %d", q1)
	}
}

func TestJointFromHighScoresSingleEntry(t *testing.T) {
	q1, q2 := JointFromHighScores([]PairCandidate{{Score: 50}})
	if q1 != 60 || q2 != 60 {
		t.Fatalf("expected 60,60 for a single candidate, got %d,%d", q1, q2)
	}
}

func TestJointFromHighScoresFallsThroughDuplicateTop(t *testing.T) {
	hs := []PairCandidate{
		{Score: 50, RefStartMate1: 100, RefStartMate2: 300},
		{Score: 50, RefStartMate1: 100, RefStartMate2: 300},
		{Score: 20, RefStartMate1: 500, RefStartMate2: 700},
	}
	q1, q2 := JointFromHighScores(hs)
	if q1 != 30 || q2 != 30 {
		t.Fatalf("expected fallthrough to third entry yielding diff 30, got %d,%d", q1, q2)
	}
}

func TestJointFromHighScoresDistinctTop(t *testing.T) {
	hs := []PairCandidate{
		{Score: 50, RefStartMate1: 100, RefStartMate2: 300},
		{Score: 40, RefStartMate1: 900, RefStartMate2: 1200},
	}
	q1, q2 := JointFromHighScores(hs)
	if q1 != 10 || q2 != 10 {
		t.Fatalf("expected diff 10 for distinct top placements, got %d,%d", q1, q2)
	}
}
