// Package extend implements the Extender: turning one seed into a
// full read-vs-reference Alignment, choosing between the ungapped
// Hamming fast path and the padded affine-gap path.
package extend

import (
	"github.com/vertgenlab/gonomics/dna"

	"github.com/luispedro/strobealign/alignkernel"
	"github.com/luispedro/strobealign/alignment"
	"github.com/luispedro/strobealign/nam"
	"github.com/luispedro/strobealign/read"
)

// hammingMaxRate: at or above this mismatch rate the Hamming fast path is
// abandoned in favor of the gapped aligner.
const hammingMaxRate = 0.05

// gappedPadding is the one-sided padding added to the projected
// window before the gapped path is invoked.
const gappedPadding = 50

// ReferenceWindow is the Reference-store slice the Extender needs.
type ReferenceWindow interface {
	Window(refID, start, end int) ([]dna.Base, error)
	Length(refID int) int
}

// GetAlignment extends one seed into a full Alignment. consistent must
// be the return value of the Orientation Verifier for this seed.
func GetAlignment(kernel alignkernel.Kernel, seed nam.Seed, refs ReferenceWindow, r read.Read, consistent bool) alignment.Alignment {
	query := r.Strand(seed.IsRC)
	refLen := refs.Length(seed.RefID)

	projectedRefStart := max(0, seed.RefStart-seed.QueryStart)
	projectedRefEnd := min(seed.RefEnd+(len(query)-seed.QueryEnd), refLen)

	var info alignkernel.Result
	var resultRefStart int
	gapped := true

	if projectedRefEnd-projectedRefStart == len(query) && consistent {
		refSegm, err := refs.Window(seed.RefID, projectedRefStart, projectedRefEnd)
		if err == nil {
			hammingDist := kernel.HammingDistance(query, refSegm)
			if hammingDist >= 0 && float64(hammingDist)/float64(len(query)) < hammingMaxRate {
				info = kernel.HammingAlign(query, refSegm)
				resultRefStart = projectedRefStart + info.RefStart
				gapped = false
			}
		}
	}

	if gapped {
		diff := abs(seed.RefSpan() - seed.QuerySpan())
		extLeft := min(gappedPadding, projectedRefStart)
		windowStart := projectedRefStart - extLeft
		extRight := min(gappedPadding, refLen-seed.RefEnd)
		windowEnd := windowStart + len(query) + diff + extLeft + extRight
		if windowEnd > refLen {
			windowEnd = refLen
		}
		refSegm, err := refs.Window(seed.RefID, windowStart, windowEnd)
		if err != nil {
			return alignment.Unaligned(len(query), seed.IsRC, seed.RefID)
		}
		info = kernel.Align(query, refSegm)
		resultRefStart = windowStart + info.RefStart
	}

	softclipped := info.QueryStart + (len(query) - info.QueryEnd)

	return alignment.Alignment{
		Cigar:        info.Cigar,
		EditDistance: info.EditDistance,
		GlobalEd:     info.EditDistance + softclipped,
		Score:        info.Score,
		RefStart:     resultRefStart,
		Length:       info.RefSpan,
		IsRC:         seed.IsRC,
		IsUnaligned:  false,
		RefID:        seed.RefID,
		Gapped:       gapped,
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
