// Package alignkernel provides the two external aligner-kernel entry
// points the core consumes rather than implements itself: a
// Hamming-distance fast path with end-bonus endpoint refinement, and
// an affine-gap local aligner for the gapped path, built on
// align.AffineGapLocal with a fixed score matrix and a pair of
// negative gap penalties. The cigar clean-up (dropping a
// leading/trailing deletion and adjusting the alignment start) mirrors
// the pattern used to turn a raw AffineGapLocal result into a
// placed alignment.
package alignkernel

import (
	"github.com/vertgenlab/gonomics/align"
	"github.com/vertgenlab/gonomics/cigar"
	"github.com/vertgenlab/gonomics/dna"

	"github.com/luispedro/strobealign/params"
)

// Result is the common shape both kernel entry points return: cigar,
// edit distance, Smith-Waterman-style score, and the query/ref
// coordinates the alignment actually covers.
type Result struct {
	Cigar        []cigar.Cigar
	EditDistance int
	Score        int
	QueryStart   int
	QueryEnd     int
	RefStart     int
	RefSpan      int
}

// Kernel is the interface the Extender (package extend) and Mate
// Rescuer (package rescue) consume. Aligner implements it.
type Kernel interface {
	HammingAlign(query, refWindow []dna.Base) Result
	Align(query, refWindow []dna.Base) Result
	HammingDistance(a, b []dna.Base) int
}

// Aligner is the gonomics-backed implementation of Kernel.
type Aligner struct {
	Parameters params.Alignment
}

// New builds an Aligner from alignment parameters.
func New(p params.Alignment) Aligner {
	return Aligner{Parameters: p}
}

// HammingDistance returns the number of mismatches between two
// equal-length sequences, or -1 if they differ in length.
func (a Aligner) HammingDistance(x, y []dna.Base) int {
	if len(x) != len(y) {
		return -1
	}
	dist := 0
	for i := range x {
		if x[i] != y[i] {
			dist++
		}
	}
	return dist
}

// HammingAlign aligns query against an equal-length reference window
// with a fixed per-base scoring scheme, then refines both endpoints:
// the leading and trailing runs of consecutive mismatches are
// soft-clipped (a mismatch preceded by a match at either end is kept),
// and the clipped read collects end_bonus once per clipped side.
func (a Aligner) HammingAlign(query, refWindow []dna.Base) Result {
	n := len(query)
	mismatched := make([]bool, n)
	for i := 0; i < n; i++ {
		mismatched[i] = query[i] != refWindow[i]
	}

	qStart, qEnd := 0, n
	for qStart < qEnd && mismatched[qStart] {
		qStart++
	}
	for qEnd > qStart && mismatched[qEnd-1] {
		qEnd--
	}

	editDistance := 0
	score := 0
	for i := qStart; i < qEnd; i++ {
		if mismatched[i] {
			editDistance++
			score -= a.Parameters.Mismatch
		} else {
			score += a.Parameters.Match
		}
	}
	if qStart > 0 {
		score += a.Parameters.EndBonus
	}
	if qEnd < n {
		score += a.Parameters.EndBonus
	}

	var cig []cigar.Cigar
	if qStart > 0 {
		cig = append(cig, cigar.Cigar{Op: 'S', RunLength: qStart})
	}
	if qEnd > qStart {
		cig = append(cig, cigar.Cigar{Op: 'M', RunLength: qEnd - qStart})
	}
	if qEnd < n {
		cig = append(cig, cigar.Cigar{Op: 'S', RunLength: n - qEnd})
	}

	return Result{
		Cigar:        cig,
		EditDistance: editDistance,
		Score:        score,
		QueryStart:   qStart,
		QueryEnd:     qEnd,
		RefStart:     qStart,
		RefSpan:      qEnd - qStart,
	}
}

// Align runs the affine-gap local aligner over the given window,
// exactly as realign.realignIndels does, and trims the leading or
// trailing deletion the local aligner emits when the best alignment
// does not reach the edges of the window (realign.updateRead).
func (a Aligner) Align(query, refWindow []dna.Base) Result {
	score, cig := align.AffineGapLocal(
		refWindow,
		query,
		align.HumanChimpTwoScoreMatrix,
		int64(-a.Parameters.GapOpen),
		int64(-a.Parameters.GapExtend),
	)

	refStart := 0
	if len(cig) > 0 && cig[0].Op == align.ColD {
		refStart += int(cig[0].RunLength)
		cig = cig[1:]
	}
	if len(cig) > 0 && cig[len(cig)-1].Op == align.ColD {
		cig = cig[:len(cig)-1]
	}

	editDistance := 0
	refSpan := 0
	queryPos := 0
	refPos := refStart
	for i := range cig {
		switch cig[i].Op {
		case align.ColI:
			editDistance += int(cig[i].RunLength)
			queryPos += int(cig[i].RunLength)
		case align.ColD:
			editDistance += int(cig[i].RunLength)
			refSpan += int(cig[i].RunLength)
			refPos += int(cig[i].RunLength)
		case align.ColM:
			for j := 0; j < int(cig[i].RunLength); j++ {
				if query[queryPos+j] != refWindow[refPos+j] {
					editDistance++
				}
			}
			refSpan += int(cig[i].RunLength)
			queryPos += int(cig[i].RunLength)
			refPos += int(cig[i].RunLength)
		}
	}

	return Result{
		Cigar:        convertCigar(cig),
		EditDistance: editDistance,
		Score:        int(score),
		QueryStart:   0,
		QueryEnd:     len(query),
		RefStart:     refStart,
		RefSpan:      refSpan,
	}
}

// convertCigar mirrors realign.cigConv: translate gonomics' numeric
// align.Cigar ops into the M/I/D byte ops the cigar package and the
// rest of this module use.
func convertCigar(c []align.Cigar) []cigar.Cigar {
	ans := make([]cigar.Cigar, len(c))
	for i := range c {
		switch c[i].Op {
		case align.ColM:
			ans[i].Op = 'M'
		case align.ColI:
			ans[i].Op = 'I'
		case align.ColD:
			ans[i].Op = 'D'
		}
		ans[i].RunLength = int(c[i].RunLength)
	}
	return ans
}
