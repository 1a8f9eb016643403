// Package pairing implements the Joint-Scorer: the proper-pair
// geometry predicates and the seed-pair / alignment-pair enumerators
// the Paired-End Driver uses to pick a joint placement.
package pairing

import (
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/luispedro/strobealign/alignment"
	"github.com/luispedro/strobealign/nam"
)

// alignmentPairPenalty is the score penalty applied when two
// alignments don't form a proper pair: the log-normal density at more
// than roughly 4 standard deviations out.
const alignmentPairPenalty = 10

// jointSearchPenalty is the penalty the full joint search applies
// inline to non-proper candidate pairs: roughly a 5-sigma tail, kept
// deliberately distinct from alignmentPairPenalty since the two paths
// use different proper-pair windows (4 sigma vs. 10 sigma).
const jointSearchPenalty = 20

// IsProperNamPair checks seed-level pair geometry. Both a and b are
// deliberately derived from n2.QueryStart (not n1.QueryStart for the
// first term): downstream behavior depends on this exact arithmetic,
// kept intentionally rather than "fixed" to a symmetric form.
func IsProperNamPair(n1, n2 nam.Seed, mu, sigma float64) bool {
	if n1.RefID != n2.RefID || n1.IsRC == n2.IsRC {
		return false
	}
	a := max(0, n1.RefStart-n2.QueryStart)
	b := max(0, n2.RefStart-n2.QueryStart)

	limit := mu + 10*sigma
	r1r2 := n2.IsRC && a <= b && float64(b-a) < limit
	r2r1 := n1.IsRC && b <= a && float64(a-b) < limit
	return r1r2 || r2r1
}

// IsProperAlignmentPair is the alignment-level proper-pair predicate
// used in the full joint search: same ref_id, opposite strand, forward
// mate upstream of reverse mate, within mu+10*sigma.
func IsProperAlignmentPair(a1, a2 alignment.Alignment, mu, sigma float64) bool {
	if a1.RefID != a2.RefID || a1.IsRC == a2.IsRC {
		return false
	}
	limit := mu + 10*sigma
	r1r2 := a2.IsRC && a1.RefStart <= a2.RefStart && float64(a2.RefStart-a1.RefStart) < limit
	r2r1 := a1.IsRC && a2.RefStart <= a1.RefStart && float64(a1.RefStart-a2.RefStart) < limit
	return r1r2 || r2r1
}

// NamCandidate is one entry of the seed-pair enumeration: a joint
// score and the two seeds it came from. N2 is nam.Dummy() when the
// candidate represents an individually-best seed on read 1 with no
// partner, and symmetrically for N1.
type NamCandidate struct {
	Score int
	N1    nam.Seed
	N2    nam.Seed
}

// BestScoringNamLocations is get_best_scoring_nam_locations: enumerate
// proper-pair seed combinations, then append individually-best
// unpaired seeds from each side, and sort the combined list by score
// descending.
func BestScoringNamLocations(nams1, nams2 []nam.Seed, mu, sigma float64) []NamCandidate {
	var candidates []NamCandidate
	if len(nams1) == 0 && len(nams2) == 0 {
		return candidates
	}

	addedN1 := make(map[int]bool)
	addedN2 := make(map[int]bool)
	highestJoint := 0

	for _, n1 := range nams1 {
		for _, n2 := range nams2 {
			if n1.NHits+n2.NHits < highestJoint/2 {
				break
			}
			if IsProperNamPair(n1, n2, mu, sigma) {
				jointHits := n1.NHits + n2.NHits
				candidates = append(candidates, NamCandidate{Score: jointHits, N1: n1, N2: n2})
				addedN1[n1.NamID] = true
				addedN2[n2.NamID] = true
				if jointHits > highestJoint {
					highestJoint = jointHits
				}
			}
		}
	}

	dummy := nam.Dummy()

	if len(nams1) > 0 {
		floor := highestJoint
		if floor == 0 {
			floor = nams1[0].NHits
		}
		for _, n1 := range nams1 {
			if n1.NHits < floor/2 {
				break
			}
			if addedN1[n1.NamID] {
				continue
			}
			candidates = append(candidates, NamCandidate{Score: n1.NHits, N1: n1, N2: dummy})
		}
	}

	if len(nams2) > 0 {
		floor := highestJoint
		if floor == 0 {
			floor = nams2[0].NHits
		}
		for _, n2 := range nams2 {
			if n2.NHits < floor/2 {
				break
			}
			if addedN2[n2.NamID] {
				continue
			}
			candidates = append(candidates, NamCandidate{Score: n2.NHits, N1: dummy, N2: n2})
		}
	}

	slices.SortFunc(candidates, func(a, b NamCandidate) int {
		return b.Score - a.Score
	})
	return candidates
}

// ScoredPair is one entry of the alignment-pair enumeration.
type ScoredPair struct {
	Score float64
	A1    alignment.Alignment
	A2    alignment.Alignment
}

// BestScoringPairs is get_best_scoring_pairs: score every combination
// of alignments1 x alignments2, rewarding proper-pair geometry within
// mu+4*sigma with a log-normal-density bonus and penalizing everything
// else by alignmentPairPenalty.
func BestScoringPairs(alignments1, alignments2 []alignment.Alignment, mu, sigma float64) []ScoredPair {
	var pairs []ScoredPair
	dist := distuv.Normal{Mu: mu, Sigma: sigma}

	for _, a1 := range alignments1 {
		for _, a2 := range alignments2 {
			d := math.Abs(float64(a1.RefStart - a2.RefStart))
			score := float64(a1.Score + a2.Score)
			if (a1.IsRC != a2.IsRC) && d < mu+4*sigma {
				score += dist.LogProb(d)
			} else {
				score -= alignmentPairPenalty
			}
			pairs = append(pairs, ScoredPair{Score: score, A1: a1, A2: a2})
		}
	}

	slices.SortFunc(pairs, func(a, b ScoredPair) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return pairs
}

// JointSearchScore scores one (a1, a2) candidate pair for the full
// joint search: a log-normal density bonus for proper-pair geometry,
// or jointSearchPenalty otherwise. It intentionally differs from
// BestScoringPairs' mu+4*sigma window and alignmentPairPenalty
// constant.
func JointSearchScore(a1, a2 alignment.Alignment, mu, sigma float64) float64 {
	score := float64(a1.Score + a2.Score)
	if IsProperAlignmentPair(a1, a2, mu, sigma) {
		d := math.Abs(float64(a1.RefStart - a2.RefStart))
		dist := distuv.Normal{Mu: mu, Sigma: sigma}
		return score + dist.LogProb(d)
	}
	return score - jointSearchPenalty
}

// MapLocation is the outcome of BestMapLocation: the chosen seed per
// mate (ref_start == -1 meaning unmapped) and whether the winning
// placement came from the joint (as opposed to individual) score, the
// condition the insert-size estimator gates its update on.
type MapLocation struct {
	Nam1, Nam2 nam.Seed
	FromJoint  bool
	Distance   int
}

// BestMapLocation picks coordinates only, for the PAF-only output
// path: no base-level alignment runs. It compares the best joint
// seed-pair placement against each mate's individual best and prefers
// the joint placement only if it scores higher after a 50%
// individual-mapping penalty.
func BestMapLocation(nams1, nams2 []nam.Seed, mu, sigma float64) (MapLocation, bool) {
	candidates := BestScoringNamLocations(nams1, nams2, mu, sigma)

	result := MapLocation{Nam1: nam.Dummy(), Nam2: nam.Dummy()}
	var jointN1, jointN2 nam.Seed
	var scoreJoint float64
	haveJoint := false
	for _, c := range candidates {
		if !c.N1.IsDummy() && !c.N2.IsDummy() {
			scoreJoint = float64(c.N1.Score + c.N2.Score)
			jointN1, jointN2 = c.N1, c.N2
			haveJoint = true
			break
		}
	}

	var scoreIndiv float64
	if len(nams1) > 0 {
		scoreIndiv += float64(nams1[0].Score) / 2
		result.Nam1 = nams1[0]
	}
	if len(nams2) > 0 {
		scoreIndiv += float64(nams2[0].Score) / 2
		result.Nam2 = nams2[0]
	}

	if haveJoint && scoreJoint > scoreIndiv {
		result.Nam1 = jointN1
		result.Nam2 = jointN2
		result.FromJoint = true
		result.Distance = int(math.Abs(float64(jointN1.RefStart - jointN2.RefStart)))
	}

	if len(candidates) == 0 && len(nams1) == 0 && len(nams2) == 0 {
		return result, false
	}
	return result, true
}
