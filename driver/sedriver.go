// Package driver implements the Single-End and Paired-End Drivers: the
// top-level orchestration that pulls seeds, calls the Extender, Mate
// Rescuer and Joint-Scorer, and hands finished Alignments to the
// output writer.
package driver

import (
	"math"

	"github.com/vertgenlab/gonomics/dna"
	"golang.org/x/exp/slices"

	"github.com/luispedro/strobealign/alignkernel"
	"github.com/luispedro/strobealign/alignment"
	"github.com/luispedro/strobealign/extend"
	"github.com/luispedro/strobealign/nam"
	"github.com/luispedro/strobealign/params"
	"github.com/luispedro/strobealign/read"
	"github.com/luispedro/strobealign/stats"
)

// ReferenceWindow is the Reference-store slice every driver needs.
type ReferenceWindow interface {
	Window(refID, start, end int) ([]dna.Base, error)
	Length(refID int) int
}

// SingleEndResult is the outcome of one Single-End Driver run: a
// primary alignment (IsUnaligned set if nothing mapped) and any
// secondaries, ready for the output writer.
type SingleEndResult struct {
	Primary    alignment.Alignment
	Secondary  []alignment.Alignment
	Statistics stats.Details
}

// AlignSingleEnd is align_SE: iterate seeds under the dropoff/max-tries
// policy, track the best-scoring alignment via a running min_mapq_diff,
// and emit primary (+secondaries) with MAPQ. namRescue records whether
// the caller's ResolveSeeds call fell back to the rescue producer for
// this read.
func AlignSingleEnd(kernel alignkernel.Kernel, r read.Read, seeds []nam.Seed, refs ReferenceWindow, k int, ap params.Alignment, mp params.Mapping, namRescue bool) SingleEndResult {
	var d stats.Details
	d.Nams = len(seeds)
	d.NamRescue = namRescue

	if len(seeds) == 0 {
		return SingleEndResult{Primary: alignment.Unaligned(r.Len(), false, 0), Statistics: d}
	}

	nam.SortByScoreDesc(seeds)
	top := seeds[0]

	var alignments []alignment.Alignment
	tries := 0
	bestScore := -100000
	bestEditDistance := math.MaxInt32
	minMAPQDiff := bestEditDistance
	best := alignment.Unaligned(r.Len(), false, 0)
	best.Score = -100000

	for _, seed := range seeds {
		scoreDropoff := float64(seed.NHits) / float64(top.NHits)
		if tries >= mp.MaxTries || (tries > 1 && bestEditDistance == 0) || scoreDropoff < mp.DropoffThreshold {
			break
		}

		consistent := nam.ReverseIfNeeded(&seed, r, refs, k)
		if !consistent {
			d.NamInconsistent++
		}
		aln := extend.GetAlignment(kernel, seed, refs, r, consistent)
		d.TriedAlignment++
		if aln.Gapped {
			d.Gapped++
		}

		diffToBest := abs(bestScore - aln.Score)
		if diffToBest < minMAPQDiff {
			minMAPQDiff = diffToBest
		}

		if mp.MaxSecondary > 0 {
			alignments = append(alignments, aln)
		}

		if aln.Score > bestScore {
			minMAPQDiff = max(0, aln.Score-bestScore)
			bestScore = aln.Score
			best = aln
			if mp.MaxSecondary == 0 {
				bestEditDistance = best.GlobalEd
			}
		}
		tries++
	}

	if mp.MaxSecondary == 0 {
		best.MapQ = capMAPQ(minMAPQDiff)
		return SingleEndResult{Primary: best, Statistics: d}
	}

	slices.SortFunc(alignments, func(a, b alignment.Alignment) int {
		return b.Score - a.Score
	})

	result := SingleEndResult{Statistics: d}
	maxOut := min(len(alignments), mp.MaxSecondary+1)
	for i := 0; i < maxOut; i++ {
		aln := alignments[i]
		if bestScore-aln.Score >= ap.SecondaryDropoff() {
			break
		}
		isPrimary := i == 0
		if isPrimary {
			aln.MapQ = capMAPQ(minMAPQDiff)
			result.Primary = aln
		} else {
			aln.MapQ = 255
			result.Secondary = append(result.Secondary, aln)
		}
	}
	return result
}

func capMAPQ(diff int) uint8 {
	if diff > 60 {
		return 60
	}
	if diff < 0 {
		return 0
	}
	return uint8(diff)
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
