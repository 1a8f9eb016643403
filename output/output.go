// Package output adapts driver results into SAM records, mirroring
// the add / add_pair / add_unmapped / add_unmapped_pair writer calls
// the drivers make, plus a coordinate-only PAF path for seed-level
// output with no base-level alignment.
package output

import (
	"fmt"
	"io"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/sam"

	"github.com/luispedro/strobealign/alignment"
	"github.com/luispedro/strobealign/nam"
	"github.com/luispedro/strobealign/read"
	"github.com/luispedro/strobealign/reference"
)

// SAM flag bits, per the standard BAM/SAM record layout.
const (
	flagPaired       = 1
	flagProperPair   = 2
	flagUnmapped     = 4
	flagMateUnmapped = 8
	flagReverse      = 16
	flagMateReverse  = 32
	flagFirstInPair  = 64
	flagSecondInPair = 128
	flagSecondary    = 256
)

// Record is one FASTQ-derived read's identity: name and quality
// string, the minimal shape the writer needs besides the Alignment
// and the read's bases.
type Record struct {
	Name string
	Qual string
}

// SamWriter is a gonomics-backed adapter satisfying the external
// writer interface. A nil *sam.BamWriter is valid and simply drops
// writes, useful for tests that only want to exercise the drivers.
type SamWriter struct {
	bw   *sam.BamWriter
	refs *reference.References
}

// NewSamWriter wraps an open gonomics BAM writer.
func NewSamWriter(bw *sam.BamWriter, refs *reference.References) *SamWriter {
	return &SamWriter{bw: bw, refs: refs}
}

func (w *SamWriter) write(s sam.Sam) {
	if w.bw == nil {
		return
	}
	sam.WriteToBamFileHandle(w.bw, s, 0)
}

func (w *SamWriter) refName(refID int) string {
	if refID < 0 || w.refs == nil {
		return "*"
	}
	return w.refs.Name(refID)
}

func (w *SamWriter) base(rec Record, r read.Read, aln alignment.Alignment, isRC bool) sam.Sam {
	s := sam.Sam{
		QName: rec.Name,
		Qual:  rec.Qual,
		RName: "*",
		RNext: "*",
	}
	if aln.IsUnaligned {
		s.Flag |= flagUnmapped
		s.Seq = r.Strand(false)
		return s
	}
	s.RName = w.refName(aln.RefID)
	s.Pos = uint32(aln.RefStart) + 1
	s.MapQ = aln.MapQ
	s.Cigar = aln.Cigar
	s.Seq = r.Strand(isRC)
	if isRC {
		s.Flag |= flagReverse
	}
	return s
}

// Add emits one single-end alignment record.
func (w *SamWriter) Add(aln alignment.Alignment, rec Record, r read.Read, isPrimary bool) {
	s := w.base(rec, r, aln, aln.IsRC)
	if !isPrimary {
		s.Flag |= flagSecondary
	}
	w.write(s)
}

// AddUnmapped emits a single unmapped record.
func (w *SamWriter) AddUnmapped(rec Record, r read.Read) {
	s := sam.Sam{QName: rec.Name, Qual: rec.Qual, RName: "*", RNext: "*", Seq: r.Strand(false)}
	s.Flag |= flagUnmapped
	w.write(s)
}

// AddPair emits both mates of a pair, linked and flagged proper when
// the pairing geometry check held.
func (w *SamWriter) AddPair(a1, a2 alignment.Alignment, rec1, rec2 Record, r1, r2 read.Read, mapq1, mapq2 int, isProper, isPrimary bool) {
	s1, s2 := w.pairRecords(a1, a2, rec1, rec2, r1, r2, mapq1, mapq2, isProper, isPrimary)
	w.write(s1)
	w.write(s2)
}

func (w *SamWriter) pairRecords(a1, a2 alignment.Alignment, rec1, rec2 Record, r1, r2 read.Read, mapq1, mapq2 int, isProper, isPrimary bool) (sam.Sam, sam.Sam) {
	a1.MapQ = uint8(clampMapQ(mapq1))
	a2.MapQ = uint8(clampMapQ(mapq2))

	s1 := w.base(rec1, r1, a1, a1.IsRC)
	s2 := w.base(rec2, r2, a2, a2.IsRC)

	s1.Flag |= flagPaired | flagFirstInPair
	s2.Flag |= flagPaired | flagSecondInPair
	if a1.IsUnaligned {
		s1.Flag |= flagUnmapped
	}
	if a2.IsUnaligned {
		s2.Flag |= flagUnmapped
	}
	if a2.IsUnaligned {
		s1.Flag |= flagMateUnmapped
	}
	if a1.IsUnaligned {
		s2.Flag |= flagMateUnmapped
	}
	if a2.IsRC {
		s1.Flag |= flagMateReverse
	}
	if a1.IsRC {
		s2.Flag |= flagMateReverse
	}
	if isProper {
		s1.Flag |= flagProperPair
		s2.Flag |= flagProperPair
	}
	if !isPrimary {
		s1.Flag |= flagSecondary
		s2.Flag |= flagSecondary
	}
	if !a2.IsUnaligned {
		s1.RNext = w.refName(a2.RefID)
	}
	if !a1.IsUnaligned {
		s2.RNext = w.refName(a1.RefID)
	}
	return s1, s2
}

// AddUnmappedPair emits both mates unmapped and linked as a pair.
func (w *SamWriter) AddUnmappedPair(rec1, rec2 Record, r1, r2 read.Read) {
	s1 := sam.Sam{QName: rec1.Name, Qual: rec1.Qual, RName: "*", RNext: "*", Seq: r1.Strand(false)}
	s2 := sam.Sam{QName: rec2.Name, Qual: rec2.Qual, RName: "*", RNext: "*", Seq: r2.Strand(false)}
	s1.Flag |= flagPaired | flagFirstInPair | flagUnmapped | flagMateUnmapped
	s2.Flag |= flagPaired | flagSecondInPair | flagUnmapped | flagMateUnmapped
	w.write(s1)
	w.write(s2)
}

func clampMapQ(mapq int) int {
	if mapq < 0 {
		return 0
	}
	if mapq > 255 {
		return 255
	}
	return mapq
}

// PafWriter writes seed placements directly, without running any
// base-level aligner.
type PafWriter struct {
	out  io.Writer
	refs *reference.References
}

// NewPafWriter wraps an open output stream.
func NewPafWriter(out io.Writer, refs *reference.References) *PafWriter {
	return &PafWriter{out: out, refs: refs}
}

// WritePair emits one PAF line per mapped mate of a seed-only pair
// placement, in the minimap2 PAF column order.
func (w *PafWriter) WritePair(rec1, rec2 Record, r1, r2 read.Read, n1, n2 nam.Seed) {
	w.writeOne(rec1, r1, n1)
	w.writeOne(rec2, r2, n2)
}

func (w *PafWriter) writeOne(rec Record, r read.Read, n nam.Seed) {
	if n.IsDummy() {
		return
	}
	strand := "+"
	seq := r.Strand(false)
	if n.IsRC {
		strand = "-"
		seq = r.Strand(true)
	}
	refName := "*"
	refLen := 0
	if w.refs != nil {
		refName = w.refs.Name(n.RefID)
		refLen = w.refs.Length(n.RefID)
	}
	_, err := fmt.Fprintf(w.out, "%s\t%d\t%d\t%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
		rec.Name, len(seq), n.QueryStart, n.QueryEnd, strand,
		refName, refLen, n.RefStart, n.RefEnd, n.NHits, n.RefSpan(), 0)
	exception.PanicOnErr(err)
}
