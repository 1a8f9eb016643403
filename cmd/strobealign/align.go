package main

import (
	"flag"
	"fmt"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fastq"
	"github.com/vertgenlab/gonomics/fileio"
	"github.com/vertgenlab/gonomics/sam"

	"github.com/luispedro/strobealign/alignkernel"
	"github.com/luispedro/strobealign/driver"
	"github.com/luispedro/strobealign/isize"
	"github.com/luispedro/strobealign/output"
	"github.com/luispedro/strobealign/params"
	"github.com/luispedro/strobealign/read"
	"github.com/luispedro/strobealign/reference"
)

func alignUsage(f *flag.FlagSet) {
	fmt.Print(
		"align - align FASTQ reads against a FASTA reference and emit BAM or PAF\n\n" +
			"Usage:\n" +
			"  strobealign align -ref genome.fa -seeds seeds.tsv -r1 reads_1.fq [-r2 reads_2.fq] -o out.bam\n\n" +
			"Options:\n")
	f.PrintDefaults()
}

func runAlign(args []string) {
	f := flag.NewFlagSet("align", flag.ExitOnError)

	refPath := f.String("ref", "", "Reference FASTA file.")
	faiPath := f.String("fai", "", "Reference .fai index. Defaults to <ref>.fai.")
	seedPath := f.String("seeds", "", "Precomputed seed TSV (read_name, nonrepetitive_fraction, ref_id, ref_start, ref_end, query_start, query_end, is_rc, score, n_hits, nam_id). Stands in for the upstream strobemer index.")
	r1Path := f.String("r1", "", "FASTQ file for read 1 (or the only read, for single-end input).")
	r2Path := f.String("r2", "", "FASTQ file for read 2. Omit for single-end alignment.")
	outPath := f.String("o", "stdout", "Output file: BAM, or PAF text with -paf.")
	k := f.Int("k", 20, "Seed length, used for extension strand consistency checks.")

	match := f.Int("match", params.DefaultAlignment().Match, "Match score.")
	mismatch := f.Int("mismatch", params.DefaultAlignment().Mismatch, "Mismatch penalty.")
	gapOpen := f.Int("gapopen", params.DefaultAlignment().GapOpen, "Gap open penalty.")
	gapExtend := f.Int("gapextend", params.DefaultAlignment().GapExtend, "Gap extend penalty.")
	endBonus := f.Int("endbonus", params.DefaultAlignment().EndBonus, "End-to-end bonus.")

	dropoff := f.Float64("dropoff", params.DefaultMapping().DropoffThreshold, "Seed score dropoff threshold (0-1).")
	maxTries := f.Int("maxtries", params.DefaultMapping().MaxTries, "Max extensions attempted per read.")
	maxSecondary := f.Int("maxsecondary", params.DefaultMapping().MaxSecondary, "Max secondary alignments emitted (0 = primary only).")
	rescueLevel := f.Int("rescuelevel", params.DefaultMapping().RescueLevel, "Rescue level; >1 enables the seed rescue producer.")
	rescueCutoff := f.Int("rescuecutoff", params.DefaultMapping().RescueCutoff, "Rescue cutoff forwarded to the seed rescue producer.")
	isizePrior := f.Float64("isizeprior", 500, "Prior mean insert size, seeding the Welford estimator before any pair has been observed.")
	pafOut := f.Bool("paf", false, "Emit coordinate-only PAF instead of SAM (is_sam_out=false); requires -r2.")

	err := f.Parse(args)
	exception.PanicOnErr(err)
	f.Usage = func() { alignUsage(f) }

	if *refPath == "" || *seedPath == "" || *r1Path == "" {
		f.Usage()
		errExit("\nERROR: -ref, -seeds and -r1 are required")
	}
	if *pafOut && *r2Path == "" {
		f.Usage()
		errExit("\nERROR: -paf requires -r2 (the PAF path only runs on the Paired-End Driver)")
	}
	fai := *faiPath
	if fai == "" {
		fai = *refPath + ".fai"
	}

	ap := params.Alignment{Match: *match, Mismatch: *mismatch, GapOpen: *gapOpen, GapExtend: *gapExtend, EndBonus: *endBonus}
	mp := params.Mapping{
		DropoffThreshold: *dropoff,
		MaxTries:         *maxTries,
		MaxSecondary:     *maxSecondary,
		RescueLevel:      *rescueLevel,
		RescueCutoff:     *rescueCutoff,
		IsSAMOut:         !*pafOut,
	}

	refs := reference.Open(*refPath, fai)
	defer refs.Close()
	kernel := alignkernel.New(ap)
	seeds := loadSeedFile(*seedPath)
	estimator := isize.New(*isizePrior)

	o := fileio.EasyCreate(*outPath)

	var samWriter *output.SamWriter
	var bw *sam.BamWriter
	var pafWriter *output.PafWriter
	if mp.IsSAMOut {
		bw = sam.NewBamWriter(o, sam.GenerateHeader(nil, nil, sam.Unsorted, sam.None))
		samWriter = output.NewSamWriter(bw, refs)
	} else {
		pafWriter = output.NewPafWriter(o, refs)
	}

	r2 := *r2Path
	if r2 == "" {
		r2 = *r1Path
	}
	readPairs := make(chan fastq.PairedEnd, 1000)
	go fastq.PairedEndToChan(*r1Path, r2, readPairs)

	pairedMode := *r2Path != ""
	for pair := range readPairs {
		switch {
		case pairedMode && !mp.IsSAMOut:
			mapOnePairPAF(seeds, pafWriter, estimator, mp, pair)
		case pairedMode:
			alignOnePair(kernel, seeds, refs, samWriter, estimator, *k, ap, mp, pair)
		default:
			alignOneRead(kernel, seeds, refs, samWriter, *k, ap, mp, pair.Fwd)
		}
	}

	if bw != nil {
		err = bw.Close()
		exception.PanicOnErr(err)
	}
	err = o.Close()
	exception.PanicOnErr(err)
}

func alignOneRead(kernel alignkernel.Kernel, seeds *fileSeedProducer, refs *reference.References, writer *output.SamWriter, k int, ap params.Alignment, mp params.Mapping, fq fastq.Fastq) {
	r := read.New(fq.Seq)
	nams, usedRescue := driver.ResolveSeeds(r, namedSeedProducer{producer: seeds, name: fq.Name}, noRescue{}, mp)
	result := driver.AlignSingleEnd(kernel, r, nams, refs, k, ap, mp, usedRescue)

	rec := output.Record{Name: fq.Name, Qual: string(fq.Qual)}
	if result.Primary.IsUnaligned {
		writer.AddUnmapped(rec, r)
		return
	}
	writer.Add(result.Primary, rec, r, true)
	for _, sec := range result.Secondary {
		writer.Add(sec, rec, r, false)
	}
}

func alignOnePair(kernel alignkernel.Kernel, seeds *fileSeedProducer, refs *reference.References, writer *output.SamWriter, estimator *isize.Estimator, k int, ap params.Alignment, mp params.Mapping, pair fastq.PairedEnd) {
	r1 := read.New(pair.Fwd.Seq)
	r2 := read.New(pair.Rev.Seq)
	nams1, rescue1 := driver.ResolveSeeds(r1, namedSeedProducer{producer: seeds, name: pair.Fwd.Name}, noRescue{}, mp)
	nams2, rescue2 := driver.ResolveSeeds(r2, namedSeedProducer{producer: seeds, name: pair.Rev.Name}, noRescue{}, mp)

	result := driver.AlignPairedEnd(kernel, r1, r2, nams1, nams2, refs, k, ap, mp, estimator, rescue1, rescue2)

	rec1 := output.Record{Name: pair.Fwd.Name, Qual: string(pair.Fwd.Qual)}
	rec2 := output.Record{Name: pair.Rev.Name, Qual: string(pair.Rev.Qual)}
	if len(result.Pairs) == 0 {
		writer.AddUnmappedPair(rec1, rec2, r1, r2)
		return
	}
	for _, p := range result.Pairs {
		writer.AddPair(p.A1, p.A2, rec1, rec2, r1, r2, p.MapQ1, p.MapQ2, p.IsProper, p.IsPrimary)
	}
}

// mapOnePairPAF is the is_sam_out=false branch of align_PE_read:
// resolve seeds for both mates, pick a seed-level placement via
// driver.MapPairedEnd (which also feeds the insert-size estimator),
// and emit coordinate-only PAF records instead of running any
// base-level alignment.
func mapOnePairPAF(seeds *fileSeedProducer, writer *output.PafWriter, estimator *isize.Estimator, mp params.Mapping, pair fastq.PairedEnd) {
	r1 := read.New(pair.Fwd.Seq)
	r2 := read.New(pair.Rev.Seq)
	nams1, _ := driver.ResolveSeeds(r1, namedSeedProducer{producer: seeds, name: pair.Fwd.Name}, noRescue{}, mp)
	nams2, _ := driver.ResolveSeeds(r2, namedSeedProducer{producer: seeds, name: pair.Rev.Name}, noRescue{}, mp)

	loc := driver.MapPairedEnd(nams1, nams2, estimator)

	rec1 := output.Record{Name: pair.Fwd.Name, Qual: string(pair.Fwd.Qual)}
	rec2 := output.Record{Name: pair.Rev.Name, Qual: string(pair.Rev.Qual)}
	writer.WritePair(rec1, rec2, r1, r2, loc.Nam1, loc.Nam2)
}
