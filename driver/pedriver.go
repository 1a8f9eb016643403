package driver

import (
	"golang.org/x/exp/slices"

	"github.com/luispedro/strobealign/alignkernel"
	"github.com/luispedro/strobealign/alignment"
	"github.com/luispedro/strobealign/extend"
	"github.com/luispedro/strobealign/isize"
	"github.com/luispedro/strobealign/mapq"
	"github.com/luispedro/strobealign/nam"
	"github.com/luispedro/strobealign/pairing"
	"github.com/luispedro/strobealign/params"
	"github.com/luispedro/strobealign/read"
	"github.com/luispedro/strobealign/rescue"
	"github.com/luispedro/strobealign/stats"
)

// PairResult is one emitted pair record: both mates' alignments plus
// their MAPQs and proper-pair flag.
type PairResult struct {
	A1, A2    alignment.Alignment
	MapQ1     int
	MapQ2     int
	IsProper  bool
	IsPrimary bool
}

// PairedEndResult is the outcome of one Paired-End Driver run.
type PairedEndResult struct {
	Pairs    []PairResult
	Details1 stats.Details
	Details2 stats.Details
}

// AlignPairedEnd is the SAM branch of align_PE_read: select among the
// four paired-end alignment modes (both mates unseeded, one mate
// rescued from the other, top-seed shortcut, or full joint search) and
// emit pair records. namRescue1/namRescue2 record whether the caller's
// ResolveSeeds calls fell back to the rescue producer for each mate.
func AlignPairedEnd(
	kernel alignkernel.Kernel,
	r1, r2 read.Read,
	seeds1, seeds2 []nam.Seed,
	refs ReferenceWindow,
	k int,
	ap params.Alignment,
	mp params.Mapping,
	estimator *isize.Estimator,
	namRescue1, namRescue2 bool,
) PairedEndResult {
	var d1, d2 stats.Details
	d1.Nams = len(seeds1)
	d2.Nams = len(seeds2)
	d1.NamRescue = namRescue1
	d2.NamRescue = namRescue2

	mu, sigma := estimator.Mean(), estimator.Sigma()

	// Mode 1: both empty.
	if len(seeds1) == 0 && len(seeds2) == 0 {
		return PairedEndResult{
			Pairs: []PairResult{{
				A1: alignment.Unaligned(r1.Len(), false, 0),
				A2: alignment.Unaligned(r2.Len(), false, 0),
			}},
			Details1: d1, Details2: d2,
		}
	}

	// Mode 2: one side empty, rescue the other.
	if len(seeds1) == 0 || len(seeds2) == 0 {
		guideIsR1 := len(seeds1) != 0
		if guideIsR1 {
			return rescuePath(kernel, r1, seeds1, r2, refs, k, ap, mp, mu, sigma, &d1, &d2, true)
		}
		return rescuePath(kernel, r2, seeds2, r1, refs, k, ap, mp, mu, sigma, &d2, &d1, false)
	}

	// Mode 3: top-shortcut.
	nam.SortByScoreDesc(seeds1)
	nam.SortByScoreDesc(seeds2)
	if topDropoff(seeds1) < mp.DropoffThreshold && topDropoff(seeds2) < mp.DropoffThreshold &&
		pairing.IsProperNamPair(seeds1[0], seeds2[0], mu, sigma) {
		return topShortcut(kernel, r1, r2, seeds1, seeds2, refs, k, estimator, d1, d2)
	}

	// Mode 4: full joint search.
	return fullJointSearch(kernel, r1, r2, seeds1, seeds2, refs, k, ap, mp, mu, sigma, d1, d2)
}

// MapPairedEnd is the non-SAM branch of align_PE_read, taken when
// is_sam_out is false: it skips base-level alignment entirely and
// picks a seed-level placement per mate via the Joint-Scorer's
// get_best_map_location, for lightweight PAF output. This is the only
// place the insert-size estimator is updated outside the SAM path, so
// a winning joint placement feeds it back before the location is
// returned.
func MapPairedEnd(seeds1, seeds2 []nam.Seed, estimator *isize.Estimator) pairing.MapLocation {
	nam.SortByScoreDesc(seeds1)
	nam.SortByScoreDesc(seeds2)
	loc, ok := pairing.BestMapLocation(seeds1, seeds2, estimator.Mean(), estimator.Sigma())
	if ok && loc.FromJoint {
		estimator.Update(loc.Distance)
	}
	return loc
}

// topDropoff is top_dropoff: the dropoff of the first (top) NAM in a
// sorted list.
func topDropoff(seeds []nam.Seed) float64 {
	top := seeds[0]
	if top.NHits <= 2 {
		return 1.0
	}
	if len(seeds) > 1 {
		return float64(seeds[1].NHits) / float64(top.NHits)
	}
	return 0.0
}

func topShortcut(
	kernel alignkernel.Kernel,
	r1, r2 read.Read,
	seeds1, seeds2 []nam.Seed,
	refs ReferenceWindow,
	k int,
	estimator *isize.Estimator,
	d1, d2 stats.Details,
) PairedEndResult {
	n1, n2 := seeds1[0], seeds2[0]
	consistent1 := nam.ReverseIfNeeded(&n1, r1, refs, k)
	if !consistent1 {
		d1.NamInconsistent++
	}
	consistent2 := nam.ReverseIfNeeded(&n2, r2, refs, k)
	if !consistent2 {
		d2.NamInconsistent++
	}

	a1 := extend.GetAlignment(kernel, n1, refs, r1, consistent1)
	d1.TriedAlignment++
	if a1.Gapped {
		d1.Gapped++
	}
	a2 := extend.GetAlignment(kernel, n2, refs, r2, consistent2)
	d2.TriedAlignment++
	if a2.Gapped {
		d2.Gapped++
	}

	mapq1 := int(mapq.SingleEnd(seeds1, n1))
	mapq2 := int(mapq.SingleEnd(seeds2, n2))
	isProper := pairing.IsProperAlignmentPair(a1, a2, estimator.Mean(), estimator.Sigma())

	if estimator.SampleSize() < 400 && a1.EditDistance+a2.EditDistance < 3 && isProper {
		estimator.Update(abs(a1.RefStart - a2.RefStart))
	}

	return PairedEndResult{
		Pairs: []PairResult{{
			A1: a1, A2: a2, MapQ1: mapq1, MapQ2: mapq2, IsProper: isProper, IsPrimary: true,
		}},
		Details1: d1, Details2: d2,
	}
}

// rescuePath is rescue_read: extend the guide's seeds and force-rescue
// the mate for each, score the resulting alignment pairs, and emit
// primary (+secondaries). guideIsR1 tells the caller which of d1/d2 in
// the returned result corresponds to the guide side.
func rescuePath(
	kernel alignkernel.Kernel,
	guide read.Read,
	guideSeeds []nam.Seed,
	mate read.Read,
	refs ReferenceWindow,
	k int,
	ap params.Alignment,
	mp params.Mapping,
	mu, sigma float64,
	guideDetails, mateDetails *stats.Details,
	guideIsR1 bool,
) PairedEndResult {
	nam.SortByScoreDesc(guideSeeds)
	top := guideSeeds[0]

	var guideAligns, mateAligns []alignment.Alignment
	tries := 0
	for _, seed := range guideSeeds {
		scoreDropoff := float64(seed.NHits) / float64(top.NHits)
		if tries >= mp.MaxTries || scoreDropoff < mp.DropoffThreshold {
			break
		}

		consistent := nam.ReverseIfNeeded(&seed, guide, refs, k)
		if !consistent {
			guideDetails.NamInconsistent++
		}
		guideAln := extend.GetAlignment(kernel, seed, refs, guide, consistent)
		guideDetails.TriedAlignment++
		if guideAln.Gapped {
			guideDetails.Gapped++
		}
		guideAligns = append(guideAligns, guideAln)

		mateAln, attempted := rescue.RescueMate(kernel, &seed, refs, guide, mate, mu, sigma, k)
		if attempted {
			mateDetails.MateRescue++
		}
		mateDetails.TriedAlignment++
		mateAligns = append(mateAligns, mateAln)

		tries++
	}

	sortAlignmentsByScoreDesc(guideAligns)
	sortAlignmentsByScoreDesc(mateAligns)

	var highScores []pairing.ScoredPair
	if guideIsR1 {
		highScores = pairing.BestScoringPairs(guideAligns, mateAligns, mu, sigma)
	} else {
		highScores = pairing.BestScoringPairs(mateAligns, guideAligns, mu, sigma)
	}

	mapq1, mapq2 := 60, 60
	if len(highScores) > 1 {
		mapq1, mapq2 = mapq.JointFromAlignmentScores(highScores[0].Score, highScores[1].Score)
	}

	result := PairedEndResult{}
	if guideIsR1 {
		result.Details1, result.Details2 = *guideDetails, *mateDetails
	} else {
		result.Details1, result.Details2 = *mateDetails, *guideDetails
	}

	if len(highScores) == 0 {
		return result
	}

	if mp.MaxSecondary == 0 {
		best := highScores[0]
		result.Pairs = []PairResult{{
			A1: best.A1, A2: best.A2, MapQ1: mapq1, MapQ2: mapq2,
			IsProper: pairing.IsProperAlignmentPair(best.A1, best.A2, mu, sigma), IsPrimary: true,
		}}
		return result
	}

	maxOut := min(len(highScores), mp.MaxSecondary)
	sMax := highScores[0].Score
	for i := 0; i < maxOut; i++ {
		pair := highScores[i]
		isPrimary := i == 0
		q1, q2 := mapq1, mapq2
		if !isPrimary {
			q1, q2 = 0, 0
		}
		if sMax-pair.Score >= float64(ap.SecondaryDropoff()) {
			break
		}
		result.Pairs = append(result.Pairs, PairResult{
			A1: pair.A1, A2: pair.A2, MapQ1: q1, MapQ2: q2,
			IsProper: pairing.IsProperAlignmentPair(pair.A1, pair.A2, mu, sigma), IsPrimary: isPrimary,
		})
	}
	return result
}

// fullJointSearch is the second half of align_PE: enumerate candidate
// seed pairs via the Joint-Scorer, extend/rescue each (memoized by
// nam_id), score every resulting alignment pair, and emit primary
// (+secondaries), deduping identical placements.
func fullJointSearch(
	kernel alignkernel.Kernel,
	r1, r2 read.Read,
	seeds1, seeds2 []nam.Seed,
	refs ReferenceWindow,
	k int,
	ap params.Alignment,
	mp params.Mapping,
	mu, sigma float64,
	d1, d2 stats.Details,
) PairedEndResult {
	candidates := pairing.BestScoringNamLocations(seeds1, seeds2, mu, sigma)
	if len(candidates) == 0 {
		return PairedEndResult{Details1: d1, Details2: d2}
	}
	maxScore := candidates[0].Score

	aligned1 := make(map[int]alignment.Alignment)
	aligned2 := make(map[int]alignment.Alignment)

	n1Max, n2Max := seeds1[0], seeds2[0]
	consistent1 := nam.ReverseIfNeeded(&n1Max, r1, refs, k)
	if !consistent1 {
		d1.NamInconsistent++
	}
	a1IndivMax := extend.GetAlignment(kernel, n1Max, refs, r1, consistent1)
	aligned1[n1Max.NamID] = a1IndivMax
	d1.TriedAlignment++
	if a1IndivMax.Gapped {
		d1.Gapped++
	}

	consistent2 := nam.ReverseIfNeeded(&n2Max, r2, refs, k)
	if !consistent2 {
		d2.NamInconsistent++
	}
	a2IndivMax := extend.GetAlignment(kernel, n2Max, refs, r2, consistent2)
	aligned2[n2Max.NamID] = a2IndivMax
	d2.TriedAlignment++
	if a2IndivMax.Gapped {
		d2.Gapped++
	}

	var highScores []pairing.ScoredPair
	tries := 0
	for _, cand := range candidates {
		scoreDropoff := float64(cand.Score) / float64(maxScore)
		if tries >= mp.MaxTries || scoreDropoff < mp.DropoffThreshold {
			break
		}

		var a1 alignment.Alignment
		if !cand.N1.IsDummy() {
			if cached, ok := aligned1[cand.N1.NamID]; ok {
				a1 = cached
			} else {
				consistent := nam.ReverseIfNeeded(&cand.N1, r1, refs, k)
				if !consistent {
					d1.NamInconsistent++
				}
				a1 = extend.GetAlignment(kernel, cand.N1, refs, r1, consistent)
				aligned1[cand.N1.NamID] = a1
				d1.TriedAlignment++
				if a1.Gapped {
					d1.Gapped++
				}
			}
		} else {
			var attempted bool
			a1, attempted = rescue.RescueMate(kernel, &cand.N2, refs, r2, r1, mu, sigma, k)
			if attempted {
				d1.MateRescue++
			}
			d1.TriedAlignment++
		}
		if a1.Score > a1IndivMax.Score {
			a1IndivMax = a1
		}

		var a2 alignment.Alignment
		if !cand.N2.IsDummy() {
			if cached, ok := aligned2[cand.N2.NamID]; ok {
				a2 = cached
			} else {
				consistent := nam.ReverseIfNeeded(&cand.N2, r2, refs, k)
				if !consistent {
					d2.NamInconsistent++
				}
				a2 = extend.GetAlignment(kernel, cand.N2, refs, r2, consistent)
				aligned2[cand.N2.NamID] = a2
				d2.TriedAlignment++
				if a2.Gapped {
					d2.Gapped++
				}
			}
		} else {
			var attempted bool
			a2, attempted = rescue.RescueMate(kernel, &cand.N1, refs, r1, r2, mu, sigma, k)
			if attempted {
				d2.MateRescue++
			}
			d2.TriedAlignment++
		}
		if a2.Score > a2IndivMax.Score {
			a2IndivMax = a2
		}

		highScores = append(highScores, pairing.ScoredPair{
			Score: pairing.JointSearchScore(a1, a2, mu, sigma), A1: a1, A2: a2,
		})
		tries++
	}

	highScores = append(highScores, pairing.ScoredPair{
		Score: pairing.JointSearchScore(a1IndivMax, a2IndivMax, mu, sigma), A1: a1IndivMax, A2: a2IndivMax,
	})
	slices.SortFunc(highScores, func(a, b pairing.ScoredPair) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	hs := make([]mapq.PairCandidate, len(highScores))
	for i, sp := range highScores {
		hs[i] = mapq.PairCandidate{
			Score: sp.Score, RefStartMate1: sp.A1.RefStart, RefIDMate1: sp.A1.RefID,
			RefStartMate2: sp.A2.RefStart, RefIDMate2: sp.A2.RefID,
		}
	}
	mapq1, mapq2 := mapq.JointFromHighScores(hs)

	result := PairedEndResult{Details1: d1, Details2: d2}
	best := highScores[0]

	if mp.MaxSecondary == 0 {
		result.Pairs = []PairResult{{
			A1: best.A1, A2: best.A2, MapQ1: mapq1, MapQ2: mapq2,
			IsProper: pairing.IsProperAlignmentPair(best.A1, best.A2, mu, sigma), IsPrimary: true,
		}}
		return result
	}

	maxOut := min(len(highScores), mp.MaxSecondary)
	sMax := best.Score
	prevStart1, prevStart2 := best.A1.RefStart, best.A2.RefStart
	prevRefID1, prevRefID2 := best.A1.RefID, best.A2.RefID
	for i := 0; i < maxOut; i++ {
		pair := highScores[i]
		isPrimary := i == 0
		q1, q2 := mapq1, mapq2
		if !isPrimary {
			q1, q2 = 255, 255
			samePos := prevStart1 == pair.A1.RefStart && prevStart2 == pair.A2.RefStart
			sameRef := prevRefID1 == pair.A1.RefID && prevRefID2 == pair.A2.RefID
			if samePos && sameRef {
				continue
			}
		}
		if sMax-pair.Score >= float64(ap.SecondaryDropoff()) {
			break
		}
		result.Pairs = append(result.Pairs, PairResult{
			A1: pair.A1, A2: pair.A2, MapQ1: q1, MapQ2: q2,
			IsProper: pairing.IsProperAlignmentPair(pair.A1, pair.A2, mu, sigma), IsPrimary: isPrimary,
		})
		prevStart1, prevStart2 = pair.A1.RefStart, pair.A2.RefStart
		prevRefID1, prevRefID2 = pair.A1.RefID, pair.A2.RefID
	}
	return result
}

func sortAlignmentsByScoreDesc(alignments []alignment.Alignment) {
	slices.SortFunc(alignments, func(a, b alignment.Alignment) int {
		return b.Score - a.Score
	})
}
