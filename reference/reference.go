// Package reference implements the read-only Reference store: sequence
// bytes per contig, length per contig, and a contig id -> name
// mapping, shared read-only by every driver.
//
// Contig length/offset lookup (see index.go) stays a flat .fai parse
// for cheap length queries, and github.com/vertgenlab/gonomics/fasta.Seeker
// backs on-demand sequence windows, so that aligning against a whole
// genome never requires holding it in memory.
package reference

import (
	"fmt"

	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/fasta"
)

// References is the Reference store: sequences[ref_id] and
// lengths[ref_id], read-only. It is immutable for the session and safe
// to share across concurrently running drivers.
type References struct {
	seeker *fasta.Seeker
	idx    index
}

// Open builds a References store from a FASTA file and its .fai index.
// The FASTA itself is opened for random access (fasta.NewSeeker); no
// sequence is read into memory until a window is requested.
func Open(fastaPath, faiPath string) *References {
	return &References{
		seeker: fasta.NewSeeker(fastaPath, ""),
		idx:    readFai(faiPath),
	}
}

// Close releases the underlying file handle.
func (r *References) Close() error {
	return r.seeker.Close()
}

// NumRefs returns the number of contigs in the reference.
func (r *References) NumRefs() int {
	return len(r.idx.contigs)
}

// Name returns the contig name for a ref_id.
func (r *References) Name(refID int) string {
	return r.idx.contigs[refID].name
}

// RefID returns the ref_id for a contig name, and whether it was found.
func (r *References) RefID(name string) (int, bool) {
	id, ok := r.idx.byName[name]
	return id, ok
}

// Length returns the contig length for a ref_id, used to clamp
// projected and rescue windows to [0, length).
func (r *References) Length(refID int) int {
	return r.idx.contigs[refID].len
}

// Window fetches reference bases [start, end) on contig refID. Callers
// in the Extender and Mate Rescuer already clamp projected/padded
// windows before calling, but Window clamps defensively too since it
// is the last line of defense against an out-of-bounds fasta.Seeker
// read.
func (r *References) Window(refID, start, end int) ([]dna.Base, error) {
	length := r.Length(refID)
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if end < start {
		return nil, fmt.Errorf("reference: empty or inverted window [%d, %d) on %s", start, end, r.Name(refID))
	}
	bases, err := fasta.SeekByName(r.seeker, r.Name(refID), start, end)
	if err != nil {
		return nil, fmt.Errorf("reference: fetching %s:%d-%d: %w", r.Name(refID), start, end, err)
	}
	dna.AllToUpper(bases)
	return bases, nil
}
