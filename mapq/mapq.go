// Package mapq implements the MAPQ Calculator: the single-end and
// joint (paired) MAPQ formulas.
package mapq

import (
	"math"

	"github.com/luispedro/strobealign/nam"
)

// SingleEnd is get_mapq: the single-read MAPQ formula, using the
// minimap2-derived weighting of score gap, hit-count confidence and
// log(top score).
func SingleEnd(seeds []nam.Seed, top nam.Seed) uint8 {
	if len(seeds) <= 1 {
		return 60
	}
	s1 := float64(top.Score)
	s2 := float64(seeds[1].Score)
	minMatches := math.Min(float64(top.NHits)/10.0, 1.0)
	uncapped := 40 * (1 - s2/s1) * minMatches * math.Log(s1)
	return capMapQ(uncapped)
}

// JointFromAlignmentScores derives joint MAPQ from two pair scores
// produced by the Joint-Scorer (which may include a log-normal-density
// term). The two are compared by exact equality deliberately: an
// infinitesimal score difference should not be treated the same as a
// real tie.
func JointFromAlignmentScores(score1, score2 float64) (int, int) {
	if score1 == score2 {
		return 0, 0
	}
	diff := int(score1 - score2)
	var q int
	switch {
	case score1 > 0 && score2 > 0:
		q = min(60, diff)
	case score1 > 0 && score2 <= 0:
		q = 60
	default:
		q = 1
	}
	return q, q
}

// PairCandidate is the minimal shape JointFromHighScores needs from a
// scored seed/alignment pair: its joint score and the coordinates of
// both mates' placements, used to detect duplicate top entries.
type PairCandidate struct {
	Score          float64
	RefStartMate1  int
	RefIDMate1     int
	RefStartMate2  int
	RefIDMate2     int
}

// JointFromHighScores derives joint MAPQ from the sorted list of
// scored pair candidates, falling through to the third-best entry when
// the top two refer to the same placement (an individually-best seed
// re-injected as its own candidate, duplicating the top entry).
func JointFromHighScores(hs []PairCandidate) (int, int) {
	if len(hs) <= 1 {
		return 60, 60
	}
	s1 := hs[0].Score
	s2 := hs[1].Score
	samePos := hs[0].RefStartMate1 == hs[1].RefStartMate1 && hs[0].RefStartMate2 == hs[1].RefStartMate2
	sameRef := hs[0].RefIDMate1 == hs[1].RefIDMate1 && hs[0].RefIDMate2 == hs[1].RefIDMate2
	if !samePos || !sameRef {
		return JointFromAlignmentScores(s1, s2)
	}
	if len(hs) > 2 {
		s2 = hs[2].Score
		return JointFromAlignmentScores(s1, s2)
	}
	return 60, 60
}

func capMapQ(uncapped float64) uint8 {
	if uncapped > 60 {
		return 60
	}
	if uncapped < 0 {
		return 0
	}
	return uint8(uncapped)
}
