// Package rescue implements the Mate Rescuer of : given one
// mate's seed, synthesize a reference window where the other mate is
// expected and attempt a base-level alignment into it.
package rescue

import (
	"github.com/vertgenlab/gonomics/dna"

	"github.com/luispedro/strobealign/alignkernel"
	"github.com/luispedro/strobealign/alignment"
	"github.com/luispedro/strobealign/nam"
	"github.com/luispedro/strobealign/read"
)

// ReferenceWindow is the slice of the Reference store the rescuer
// needs.
type ReferenceWindow interface {
	Window(refID, start, end int) ([]dna.Base, error)
	Length(refID int) int
}

// RescueMate is rescue_mate from . seed is the guide
// mate's seed (already oriented or about to be verified in place);
// guide and mate are the two reads of the pair. Returns the resulting
// Alignment and whether an aligner kernel call was actually attempted.
func RescueMate(
	kernel alignkernel.Kernel,
	seed *nam.Seed,
	refs ReferenceWindow,
	guide read.Read,
	mate read.Read,
	mu, sigma float64,
	k int,
) (alignment.Alignment, bool) {
	nam.ReverseIfNeeded(seed, guide, refs, k)

	readLen := mate.Len()
	var rTmp []dna.Base
	var aIsRC bool
	var a, b int

	if seed.IsRC {
		rTmp = mate.Seq
		a = seed.RefStart - seed.QueryStart - int(mu+5*sigma)
		b = seed.RefStart - seed.QueryStart + readLen/2
		aIsRC = false
	} else {
		rTmp = mate.RC
		a = seed.RefEnd + (readLen - seed.QueryEnd) - readLen/2
		b = seed.RefEnd + (readLen - seed.QueryEnd) + int(mu+5*sigma)
		aIsRC = true
	}

	refLen := refs.Length(seed.RefID)
	refStart := clamp(a, 0, refLen)
	refEnd := clamp(b, 0, refLen)

	if refEnd < refStart+k {
		return alignment.Unaligned(readLen, aIsRC, seed.RefID), false
	}

	refSegm, err := refs.Window(seed.RefID, refStart, refEnd)
	if err != nil {
		return alignment.Unaligned(readLen, aIsRC, seed.RefID), false
	}

	if !hasSharedSubstring(rTmp, refSegm, k) {
		return alignment.Unaligned(readLen, aIsRC, seed.RefID), false
	}

	info := kernel.Align(rTmp, refSegm)
	return alignment.Alignment{
		Cigar:        info.Cigar,
		EditDistance: info.EditDistance,
		Score:        info.Score,
		RefStart:     refStart + info.RefStart,
		Length:       info.RefSpan,
		IsRC:         aIsRC,
		RefID:        seed.RefID,
		IsUnaligned:  len(info.Cigar) == 0,
	}, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
