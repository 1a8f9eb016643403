// Package alignment holds the Alignment record, the output of the
// Extender and Mate Rescuer and the input to the drivers, MAPQ
// calculator and Joint-Scorer.
package alignment

import "github.com/vertgenlab/gonomics/cigar"

// Alignment is one read (or mate) placement. When IsUnaligned is true,
// every other field besides EditDistance/Score/IsRC/RefID carries a
// sentinel value and must not be trusted.
type Alignment struct {
	Cigar        []cigar.Cigar
	EditDistance int
	GlobalEd     int
	Score        int
	RefStart     int
	RefID        int
	Length       int
	IsRC         bool
	IsUnaligned  bool
	Gapped       bool
	MapQ         uint8
}

// Unaligned builds the sentinel record used when rescue gives up
// before ever invoking the aligner kernel: score=0,
// edit_distance=readLen, is_unaligned=true.
func Unaligned(readLen int, isRC bool, refID int) Alignment {
	return Alignment{
		EditDistance: readLen,
		Score:        0,
		RefStart:     0,
		RefID:        refID,
		IsRC:         isRC,
		IsUnaligned:  true,
	}
}
